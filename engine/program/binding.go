package program

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gloo/common"
	"github.com/Carmen-Shannon/oxy-gloo/engine/resource"
	"github.com/cogentcore/webgpu/wgpu"
)

// binding is a validated host value for one declared variable.
type binding struct {
	variable Variable
	// raw is the value as passed to Set, kept so the binding can be re-validated when the
	// shaders change.
	raw any
	// value is the converted value: a common.Array for uniforms and constant attributes, a
	// resource.Resource for samplers and attribute buffers.
	value any
	// owned reports whether value is a resource the program created from raw data.
	owned bool
	// update is data to upload into value once the binding is committed.
	update *common.Array
}

// apply uploads staged data into the bound resource.
func (b *binding) apply() error {
	if b.update == nil {
		return nil
	}
	var err error
	switch res := b.value.(type) {
	case *resource.Texture:
		err = res.SetData(*b.update)
	case *resource.VertexBuffer:
		err = res.SetData(*b.update)
	}
	if err != nil {
		return err
	}
	b.update = nil
	return nil
}

// pendingValue is what the binding leaves behind when its declaration disappears. A resource the
// caller passed in is kept by reference so a later declaration binds the same object.
func (b *binding) pendingValue() any {
	if _, ok := b.value.(resource.Resource); ok && !b.owned {
		return b.value
	}
	return b.raw
}

// replacedBy reports whether committing next drops the resource held by b.
func (b *binding) replacedBy(next *binding) bool {
	_, isResource := b.value.(resource.Resource)
	return isResource && b.value != next.value
}

var samplerDims = map[int]wgpu.TextureDimension{
	1: wgpu.TextureDimension1D,
	2: wgpu.TextureDimension2D,
	3: wgpu.TextureDimension3D,
}

// convert validates raw against the declaration of v. Nothing is mutated: in-place uploads into
// resources already held by prev are staged on the returned binding and applied on commit.
func (p *program) convert(v Variable, raw any, prev *binding) (*binding, error) {
	t := v.GLSLType()
	switch v.Kind {
	case common.KindUniform:
		if t.IsSampler() {
			return p.convertSampler(v, t, raw, prev)
		}
		return convertUniform(v, t, raw)
	case common.KindAttribute:
		return p.convertAttribute(v, t, raw, prev)
	case common.KindVarying, common.KindConst:
		return nil, common.KeyErrorf("%s %q cannot be set", v.Kind, v.Name)
	default:
		return nil, common.KeyErrorf("%q has unknown kind %v", v.Name, v.Kind)
	}
}

func convertUniform(v Variable, t common.GLSLType, raw any) (*binding, error) {
	if _, ok := raw.(resource.Resource); ok {
		return nil, common.ValueErrorf("uniform %s %q cannot hold a %T", v.Type, v.Name, raw)
	}
	arr, _, err := common.AsArray(raw)
	if err != nil {
		return nil, err
	}
	if arr.Size() != t.Size() {
		return nil, common.ValueErrorf("uniform %s %q needs %d values, got %d", v.Type, v.Name, t.Size(), arr.Size())
	}
	value, err := castValue(v, t, arr)
	if err != nil {
		return nil, err
	}
	return &binding{variable: v, raw: raw, value: value}, nil
}

func (p *program) convertSampler(v Variable, t common.GLSLType, raw any, prev *binding) (*binding, error) {
	switch r := raw.(type) {
	case *resource.Texture:
		if r == nil || r.Released() {
			return nil, common.ValueErrorf("%s %q needs a live texture", v.Type, v.Name)
		}
		if r.Rank() != t.SamplerDim {
			return nil, common.ValueErrorf("%s %q cannot sample a %dD texture", v.Type, v.Name, r.Rank())
		}
		return &binding{variable: v, raw: raw, value: r}, nil
	case resource.Resource:
		return nil, common.ValueErrorf("%s %q cannot sample a %s", v.Type, v.Name, r.Kind())
	}

	arr, single, err := common.AsArray(raw)
	if err != nil {
		return nil, err
	}
	if single {
		return nil, common.ValueErrorf("%s %q needs texture data, got a single %T", v.Type, v.Name, raw)
	}
	if err := resource.CheckTextureShape(t.SamplerDim, arr.Shape); err != nil {
		return nil, err
	}
	if prev != nil {
		if tex, ok := prev.value.(*resource.Texture); ok && !tex.Released() && tex.Rank() == t.SamplerDim {
			return &binding{variable: v, raw: raw, value: tex, owned: prev.owned, update: &arr}, nil
		}
	}
	tex, err := resource.NewTexture(samplerDims[t.SamplerDim], resource.WithTextureData(arr))
	if err != nil {
		return nil, err
	}
	p.logger.Debug("created texture", "program", p.id, "name", v.Name, "texture", tex.ID(), "shape", arr.Shape)
	return &binding{variable: v, raw: raw, value: tex, owned: true}, nil
}

func (p *program) convertAttribute(v Variable, t common.GLSLType, raw any, prev *binding) (*binding, error) {
	switch r := raw.(type) {
	// Explicit buffers are used as given; their layout is the caller's concern.
	case *resource.VertexBuffer:
		if r == nil || r.Released() {
			return nil, common.ValueErrorf("attribute %q needs a live vertex buffer", v.Name)
		}
		if err := p.checkCount(v, r.Count()); err != nil {
			return nil, err
		}
		return &binding{variable: v, raw: raw, value: r}, nil
	case resource.Resource:
		return nil, common.ValueErrorf("attribute %q cannot read from a %s", v.Name, r.Kind())
	}

	arr, single, err := common.AsArray(raw)
	if err != nil {
		return nil, err
	}
	if single {
		if arr.Size() != t.Size() {
			return nil, common.ValueErrorf("attribute %s %q needs %d values, got %d", v.Type, v.Name, t.Size(), arr.Size())
		}
		value, err := castValue(v, t, arr)
		if err != nil {
			return nil, err
		}
		return &binding{variable: v, raw: raw, value: value}, nil
	}

	count, components, err := resource.CheckVertexShape(arr.Shape)
	if err != nil {
		return nil, err
	}
	if components != t.Size() {
		return nil, common.ValueErrorf("attribute %s %q needs %d components per vertex, data has shape %v", v.Type, v.Name, t.Size(), arr.Shape)
	}
	if err := p.checkCount(v, count); err != nil {
		return nil, err
	}
	if arr, err = arr.Cast(t.DType()); err != nil {
		return nil, fmt.Errorf("attribute %s %q: %w", v.Type, v.Name, err)
	}
	if prev != nil {
		if vb, ok := prev.value.(*resource.VertexBuffer); ok && !vb.Released() {
			return &binding{variable: v, raw: raw, value: vb, owned: prev.owned, update: &arr}, nil
		}
	}
	vb, err := resource.NewVertexBuffer(resource.WithVertexData(arr))
	if err != nil {
		return nil, err
	}
	p.logger.Debug("created vertex buffer", "program", p.id, "name", v.Name, "buffer", vb.ID(), "count", count)
	return &binding{variable: v, raw: raw, value: vb, owned: true}, nil
}

// castValue converts a single value to the declared element type and shape: ints truncate and
// bools become 0 or 1.
func castValue(v Variable, t common.GLSLType, arr common.Array) (common.Array, error) {
	value, err := arr.Cast(t.DType())
	if err != nil {
		return common.Array{}, fmt.Errorf("%s %s %q: %w", v.Kind, v.Type, v.Name, err)
	}
	value.Shape = t.Shape()
	return value, nil
}

func (p *program) checkCount(v Variable, count int) error {
	if p.vertexCount > 0 && count != 0 && count != p.vertexCount {
		return common.ValueErrorf("attribute %q has %d vertices, program draws %d", v.Name, count, p.vertexCount)
	}
	return nil
}
