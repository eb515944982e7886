// Package filter implements shader filters that visuals compose into their fragment and vertex
// stages: isolines, alpha scaling, color multiplication and z-based colormapping.
package filter

import (
	"github.com/Carmen-Shannon/oxy-gloo/common"
	"github.com/Carmen-Shannon/oxy-gloo/engine/shader"
	"github.com/Carmen-Shannon/oxy-gloo/engine/visual"
)

// snippet is a function a filter adds to one host hook.
type snippet struct {
	stage    visual.Stage
	phase    visual.Phase
	fn       *shader.Function
	position int
}

// attachment records the host a filter is attached to. A filter is attached to at most one
// visual at a time.
type attachment struct {
	host visual.Handle
}

// Host returns the handle of the visual the filter is attached to, 0 if detached.
func (a *attachment) Host() visual.Handle {
	return a.host
}

// add inserts every snippet into its hook, or none of them.
func (a *attachment) add(host visual.Visual, snippets ...snippet) error {
	if a.host != 0 {
		return common.ValueErrorf("filter is already attached to visual %d", a.host)
	}
	hooks := make([]*shader.Hook, len(snippets))
	for i, s := range snippets {
		h, err := host.Hook(s.stage, s.phase)
		if err != nil {
			return err
		}
		hooks[i] = h
	}
	for i, s := range snippets {
		if err := hooks[i].Add(s.fn, shader.WithPosition(s.position)); err != nil {
			for j := range i {
				hooks[j].Remove(snippets[j].fn)
			}
			return err
		}
	}
	a.host = host.Handle()
	return nil
}

func (a *attachment) remove(host visual.Visual, snippets ...snippet) error {
	if a.host == 0 || a.host != host.Handle() {
		return common.ValueErrorf("filter is not attached to visual %d", host.Handle())
	}
	for _, s := range snippets {
		if h, err := host.Hook(s.stage, s.phase); err == nil {
			h.Remove(s.fn)
		}
	}
	a.host = 0
	return nil
}

// hostPosition returns the variable the host binds to its vertex $position placeholder.
func hostPosition(host visual.Visual) (*shader.Variable, error) {
	pos, ok := host.Vert().BoundVariable("position")
	if !ok {
		return nil, common.ValueErrorf("visual %d has no $position variable", host.Handle())
	}
	return pos, nil
}

// Alpha scales the fragment alpha.
type Alpha struct {
	attachment
	shader *shader.Function
	alpha  float32
}

var _ visual.Filter = &Alpha{}

// NewAlpha creates an alpha filter.
func NewAlpha(alpha float32) *Alpha {
	f := &Alpha{shader: shader.MustFunction(`void apply_alpha() {
    gl_FragColor.a = gl_FragColor.a * $alpha;
}`)}
	f.SetAlpha(alpha)
	return f
}

// Alpha returns the alpha factor.
func (f *Alpha) Alpha() float32 {
	return f.alpha
}

// SetAlpha updates the alpha factor in the shader immediately.
func (f *Alpha) SetAlpha(alpha float32) {
	f.alpha = alpha
	mustSet(f.shader, "alpha", alpha)
}

func (f *Alpha) snippets() []snippet {
	return []snippet{{visual.StageFragment, visual.PhasePost, f.shader, shader.DefaultPosition}}
}

func (f *Alpha) Attach(host visual.Visual) error {
	return f.add(host, f.snippets()...)
}

func (f *Alpha) Detach(host visual.Visual) error {
	return f.remove(host, f.snippets()...)
}

// ColorFilter multiplies the fragment color by an RGBA factor.
type ColorFilter struct {
	attachment
	shader *shader.Function
	filter [4]float32
}

var _ visual.Filter = &ColorFilter{}

// NewColorFilter creates a color filter.
//
// Parameters:
//   - filter: any value accepted by common.ParseColor
//
// Returns:
//   - *ColorFilter: the filter
//   - error: an ErrValue error for an invalid color
func NewColorFilter(filter any) (*ColorFilter, error) {
	f := &ColorFilter{shader: shader.MustFunction(`void apply_color_filter() {
    gl_FragColor = gl_FragColor * $filter;
}`)}
	if err := f.SetFilter(filter); err != nil {
		return nil, err
	}
	return f, nil
}

// Filter returns the RGBA factor.
func (f *ColorFilter) Filter() [4]float32 {
	return f.filter
}

// SetFilter updates the RGBA factor in the shader immediately.
func (f *ColorFilter) SetFilter(filter any) error {
	rgba, err := common.ParseColor(filter)
	if err != nil {
		return err
	}
	f.filter = rgba
	mustSet(f.shader, "filter", rgba)
	return nil
}

func (f *ColorFilter) snippets() []snippet {
	return []snippet{{visual.StageFragment, visual.PhasePost, f.shader, 8}}
}

func (f *ColorFilter) Attach(host visual.Visual) error {
	return f.add(host, f.snippets()...)
}

func (f *ColorFilter) Detach(host visual.Visual) error {
	return f.remove(host, f.snippets()...)
}

// mustSet binds a literal to a placeholder of a static template. The placeholder and the value
// kind are fixed by the caller, so failure is a programming error.
func mustSet(fn *shader.Function, name string, value any) {
	if err := fn.Set(name, value); err != nil {
		panic(err)
	}
}
