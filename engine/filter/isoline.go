package filter

import (
	"github.com/Carmen-Shannon/oxy-gloo/common"
	"github.com/Carmen-Shannon/oxy-gloo/engine/shader"
	"github.com/Carmen-Shannon/oxy-gloo/engine/visual"
)

const isolineFragment = `void isoline() {
    float value = $coords;
    float linewidth = $isowidth + $antialias;

    // Double the middle contour when the level count is even.
    if (mod($isolevel, 2.0) == 0.0) {
        if (length(value - 0.5) < 0.5 / $isolevel)
            linewidth = linewidth * 2.0;
    }

    float v = $isolevel * value - 0.5;
    float dv = linewidth / 2.0 * fwidth(v);
    float f = abs(fract(v) - 0.5);
    float d = smoothstep(-dv, +dv, f);
    float t = linewidth / 2.0 - $antialias;

    d = abs(d) * linewidth / 2.0 - t;
    if (d < -linewidth) {
        d = 1.0;
    } else {
        d /= $antialias;
    }

    vec4 bg = $color_transform(gl_FragColor);
    vec4 fc = vec4($isocolor.rgb, 0.0);
    if (d < 1.0) {
        fc.a = 1.0 - d;
    }
    gl_FragColor = mix(bg, fc, fc.a);
}`

// Isoline draws contour lines of the vertex z coordinate over the fragment color.
type Isoline struct {
	attachment
	vshader *shader.Function
	fshader *shader.Function

	level     float32
	width     float32
	color     [4]float32
	antialias float32

	// wrapped is the host color transform moved into the isoline on attach, pass the
	// pass-through installed on the host in its place.
	wrapped *shader.Function
	pass    *shader.Function
}

var _ visual.Filter = &Isoline{}

// NewIsoline creates an isoline filter.
//
// Parameters:
//   - level: the number of contour levels over [0, 1]
//   - width: the line width in pixels
//   - color: the line color, any value accepted by common.ParseColor
//   - antialias: the antialiasing width in pixels
//
// Returns:
//   - *Isoline: the filter
//   - error: an ErrValue error for an invalid color
func NewIsoline(level, width float32, color any, antialias float32) (*Isoline, error) {
	f := &Isoline{
		vshader: shader.MustFunction(`void isoline_support() {
    $coords = $position.z;
}`),
		fshader: shader.MustFunction(isolineFragment),
	}
	coords, err := shader.NewVarying("coords", "float")
	if err != nil {
		return nil, err
	}
	mustSet(f.vshader, "coords", coords)
	mustSet(f.fshader, "coords", coords)

	f.SetLevel(level)
	f.SetWidth(width)
	f.SetAntialias(antialias)
	if err := f.SetColor(color); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Isoline) Level() float32 {
	return f.level
}

// SetLevel updates the number of contour levels in the shader immediately.
func (f *Isoline) SetLevel(level float32) {
	f.level = level
	mustSet(f.fshader, "isolevel", level)
}

func (f *Isoline) Width() float32 {
	return f.width
}

// SetWidth updates the line width in the shader immediately.
func (f *Isoline) SetWidth(width float32) {
	f.width = width
	mustSet(f.fshader, "isowidth", width)
}

func (f *Isoline) Color() [4]float32 {
	return f.color
}

// SetColor updates the line color in the shader immediately.
func (f *Isoline) SetColor(color any) error {
	rgba, err := common.ParseColor(color)
	if err != nil {
		return err
	}
	f.color = rgba
	mustSet(f.fshader, "isocolor", rgba)
	return nil
}

func (f *Isoline) Antialias() float32 {
	return f.antialias
}

// SetAntialias updates the antialiasing width in the shader immediately.
func (f *Isoline) SetAntialias(antialias float32) {
	f.antialias = antialias
	mustSet(f.fshader, "antialias", antialias)
}

func (f *Isoline) snippets() []snippet {
	return []snippet{
		{visual.StageVertex, visual.PhasePost, f.vshader, shader.DefaultPosition},
		{visual.StageFragment, visual.PhasePost, f.fshader, shader.DefaultPosition},
	}
}

// Attach adds the isoline to the host. When the host fragment template has a color transform
// bound, the isoline applies it to the background color and the host gets a pass-through in
// its place, so the transform runs once. Otherwise the background is used as is.
func (f *Isoline) Attach(host visual.Visual) error {
	pos, err := hostPosition(host)
	if err != nil {
		return err
	}
	if err := f.add(host, f.snippets()...); err != nil {
		return err
	}
	mustSet(f.vshader, "position", pos)

	if prev, ok := host.Frag().BoundFunction("color_transform"); ok {
		f.wrapped = prev
		f.pass = shader.MustFunction(visual.PassTemplate)
		mustSet(f.fshader, "color_transform", prev)
		mustSet(host.Frag(), "color_transform", f.pass)
		return nil
	}
	mustSet(f.fshader, "color_transform", shader.MustFunction(visual.PassTemplate))
	return nil
}

// Detach removes the isoline and gives the host back the color transform it wrapped, unless the
// host's transform was replaced in the meantime.
func (f *Isoline) Detach(host visual.Visual) error {
	if err := f.remove(host, f.snippets()...); err != nil {
		return err
	}
	if f.wrapped != nil {
		if cur, ok := host.Frag().BoundFunction("color_transform"); ok && cur == f.pass {
			mustSet(host.Frag(), "color_transform", f.wrapped)
		}
	}
	f.wrapped, f.pass = nil, nil
	return nil
}
