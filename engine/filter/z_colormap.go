package filter

import (
	"github.com/Carmen-Shannon/oxy-gloo/common"
	"github.com/Carmen-Shannon/oxy-gloo/engine/shader"
	"github.com/Carmen-Shannon/oxy-gloo/engine/visual"
)

// ZColormapFilter colors fragments by mapping the vertex z coordinate through a colormap.
type ZColormapFilter struct {
	attachment
	vshader *shader.Function
	fshader *shader.Function

	cmap   Colormap
	zrange [2]float32
}

var _ visual.Filter = &ZColormapFilter{}

// NewZColormapFilter creates a z colormap filter.
//
// Parameters:
//   - cmap: a Colormap or the name of a registered colormap, e.g. "grays"
//   - zrange: the z values mapped to the ends of the colormap
//
// Returns:
//   - *ZColormapFilter: the filter
//   - error: an ErrKey error for unknown colormap names, an ErrType error for other cmap types,
//     an ErrValue error for an empty range
func NewZColormapFilter(cmap any, zrange [2]float32) (*ZColormapFilter, error) {
	var cm Colormap
	switch c := cmap.(type) {
	case Colormap:
		cm = c
	case string:
		var err error
		if cm, err = GetColormap(c); err != nil {
			return nil, err
		}
	default:
		return nil, common.TypeErrorf("colormap must be a Colormap or a name, got %T", cmap)
	}
	fn, err := shader.NewFunction(cm.GLSLMap())
	if err != nil {
		return nil, err
	}

	f := &ZColormapFilter{
		vshader: shader.MustFunction(`void z_colormap_support() {
    $zval = $position.z;
}`),
		fshader: shader.MustFunction(`void apply_z_colormap() {
    gl_FragColor = $cmap(($zval - $zrange.x) / ($zrange.y - $zrange.x));
}`),
		cmap: cm,
	}
	zval, err := shader.NewVarying("v_zval", "float")
	if err != nil {
		return nil, err
	}
	mustSet(f.vshader, "zval", zval)
	mustSet(f.fshader, "zval", zval)
	mustSet(f.fshader, "cmap", fn)
	if err := f.SetZRange(zrange); err != nil {
		return nil, err
	}
	return f, nil
}

// Colormap returns the colormap.
func (f *ZColormapFilter) Colormap() Colormap {
	return f.cmap
}

// ZRange returns the mapped z range.
func (f *ZColormapFilter) ZRange() [2]float32 {
	return f.zrange
}

// SetZRange updates the mapped z range in the shader immediately.
func (f *ZColormapFilter) SetZRange(zrange [2]float32) error {
	if zrange[0] == zrange[1] {
		return common.ValueErrorf("z range %v is empty", zrange)
	}
	f.zrange = zrange
	mustSet(f.fshader, "zrange", zrange)
	return nil
}

func (f *ZColormapFilter) snippets() []snippet {
	return []snippet{
		{visual.StageVertex, visual.PhasePost, f.vshader, 9},
		{visual.StageFragment, visual.PhasePost, f.fshader, 3},
	}
}

func (f *ZColormapFilter) Attach(host visual.Visual) error {
	pos, err := hostPosition(host)
	if err != nil {
		return err
	}
	if err := f.add(host, f.snippets()...); err != nil {
		return err
	}
	mustSet(f.vshader, "position", pos)
	return nil
}

func (f *ZColormapFilter) Detach(host visual.Visual) error {
	return f.remove(host, f.snippets()...)
}
