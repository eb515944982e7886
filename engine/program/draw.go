package program

import (
	"github.com/Carmen-Shannon/oxy-gloo/common"
	"github.com/Carmen-Shannon/oxy-gloo/engine/glir"
	"github.com/Carmen-Shannon/oxy-gloo/engine/resource"
	"github.com/cogentcore/webgpu/wgpu"
)

// PrimitiveMode names how vertices are assembled into primitives.
type PrimitiveMode string

const (
	Points        PrimitiveMode = "points"
	Lines         PrimitiveMode = "lines"
	LineStrip     PrimitiveMode = "line_strip"
	LineLoop      PrimitiveMode = "line_loop"
	Triangles     PrimitiveMode = "triangles"
	TriangleStrip PrimitiveMode = "triangle_strip"
	TriangleFan   PrimitiveMode = "triangle_fan"
)

// primitiveTopologies maps modes to WebGPU topologies. Loops and fans have no WebGPU topology
// and are expanded by the executor.
var primitiveTopologies = map[PrimitiveMode]wgpu.PrimitiveTopology{
	Points:        wgpu.PrimitiveTopologyPointList,
	Lines:         wgpu.PrimitiveTopologyLineList,
	LineStrip:     wgpu.PrimitiveTopologyLineStrip,
	Triangles:     wgpu.PrimitiveTopologyTriangleList,
	TriangleStrip: wgpu.PrimitiveTopologyTriangleStrip,
}

// Valid reports whether m is one of the known primitive modes.
func (m PrimitiveMode) Valid() bool {
	switch m {
	case Points, Lines, LineStrip, LineLoop, Triangles, TriangleStrip, TriangleFan:
		return true
	}
	return false
}

// Topology returns the WebGPU primitive topology for the mode.
//
// Returns:
//   - wgpu.PrimitiveTopology: the topology
//   - bool: false for line_loop, triangle_fan and invalid modes
func (m PrimitiveMode) Topology() (wgpu.PrimitiveTopology, bool) {
	t, ok := primitiveTopologies[m]
	return t, ok
}

// ParsePrimitiveMode converts a mode name such as "triangles" into a PrimitiveMode.
func ParsePrimitiveMode(s string) (PrimitiveMode, error) {
	m := PrimitiveMode(s)
	if !m.Valid() {
		return "", common.ValueErrorf("invalid primitive mode %q", s)
	}
	return m, nil
}

func (p *program) Draw(mode PrimitiveMode, indices resource.Resource) error {
	if err := p.checkLive(); err != nil {
		return err
	}
	if !mode.Valid() {
		return common.ValueErrorf("invalid primitive mode %q", string(mode))
	}
	var ib *resource.IndexBuffer
	if indices != nil {
		var ok bool
		ib, ok = indices.(*resource.IndexBuffer)
		if !ok || ib == nil {
			return common.TypeErrorf("indices must be an index buffer, got %T", indices)
		}
		if ib.Released() {
			return common.ValueErrorf("index buffer %d has been released", ib.ID())
		}
	}
	if p.vertex == "" {
		return common.RuntimeErrorf("program %d has no shaders", p.id)
	}
	count, err := p.drawVertexCount()
	if err != nil {
		return err
	}

	drained := make(map[glir.ID]bool)
	for _, v := range p.variables {
		b, ok := p.user[v.Name]
		if !ok {
			continue
		}
		if res, ok := b.value.(resource.Resource); ok && !drained[res.ID()] {
			drained[res.ID()] = true
			p.queue.Append(res.Drain()...)
		}
	}
	if ib != nil && !drained[ib.ID()] {
		p.queue.Append(ib.Drain()...)
	}

	for _, v := range p.variables {
		b, ok := p.user[v.Name]
		if !ok || !p.dirty[v.Name] {
			continue
		}
		switch value := b.value.(type) {
		case *resource.Texture:
			p.queue.Command(glir.CommandTexture, p.id, v.Name, value.ID())
		case *resource.VertexBuffer:
			p.queue.Command(glir.CommandAttribute, p.id, v.Name, v.Type, value.ID())
		case common.Array:
			if v.Kind == common.KindAttribute {
				p.queue.Command(glir.CommandAttribute, p.id, v.Name, v.Type, value)
			} else {
				p.queue.Command(glir.CommandUniform, p.id, v.Name, v.Type, value)
			}
		}
		delete(p.dirty, v.Name)
	}

	if ib != nil {
		p.queue.Command(glir.CommandDraw, p.id, mode, ib.ID(), ib.Count())
	} else {
		p.queue.Command(glir.CommandDraw, p.id, mode, count)
	}
	return nil
}

// drawVertexCount derives the vertex count from the bound attribute buffers. Constant
// attributes do not constrain it.
func (p *program) drawVertexCount() (int, error) {
	count := -1
	var first string
	for _, v := range p.variables {
		if v.Kind != common.KindAttribute {
			continue
		}
		b, ok := p.user[v.Name]
		if !ok {
			continue
		}
		vb, ok := b.value.(*resource.VertexBuffer)
		if !ok {
			continue
		}
		switch {
		case count < 0:
			count, first = vb.Count(), v.Name
		case vb.Count() != count:
			return 0, common.RuntimeErrorf("attribute %q has %d vertices but %q has %d", v.Name, vb.Count(), first, count)
		}
	}
	// Empty buffers give no vertex count.
	if count <= 0 {
		if p.vertexCount == 0 {
			return 0, common.RuntimeErrorf("program %d has no attribute data to take the vertex count from", p.id)
		}
		if count < 0 {
			return p.vertexCount, nil
		}
	}
	if p.vertexCount > 0 && count != p.vertexCount {
		return 0, common.RuntimeErrorf("attribute buffers have %d vertices, program draws %d", count, p.vertexCount)
	}
	return count, nil
}
