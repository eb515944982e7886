package shader

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gloo/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFunctionPlaceholders(t *testing.T) {
	f, err := NewFunction("void f() {\n    // $hidden\n    $a = $b; /* $c */ $a += 1.0;\n}")
	require.NoError(t, err)
	assert.Equal(t, "f", f.Name())
	assert.True(t, f.NoArgs())
	assert.Equal(t, []string{"a", "b"}, f.Placeholders())

	assert.ErrorIs(t, f.Set("hidden", 1.0), common.ErrKey)
	_, err = f.Get("c")
	assert.ErrorIs(t, err, common.ErrKey)

	got, err := f.Get("a")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = NewFunction("uniform float x;")
	assert.ErrorIs(t, err, common.ErrValue)
	assert.Panics(t, func() { MustFunction("") })
}

func TestFunctionLiteralBinding(t *testing.T) {
	f := MustFunction("void f() { gl_FragColor *= $k; }")

	require.NoError(t, f.Set("k", 1.0))
	first, ok := f.BoundVariable("k")
	require.True(t, ok)
	assert.Equal(t, common.KindUniform, first.Kind())
	assert.Equal(t, "float", first.Type().Name)

	require.NoError(t, f.Set("k", 2.0))
	second, _ := f.BoundVariable("k")
	assert.Same(t, first, second)
	val, ok := second.Value()
	require.True(t, ok)
	assert.Equal(t, []float32{2}, val.Data)

	// A literal of another size gets a new uniform of the inferred type.
	require.NoError(t, f.Set("k", [4]float32{1, 1, 1, 0.5}))
	third, _ := f.BoundVariable("k")
	assert.NotSame(t, first, third)
	assert.Equal(t, "vec4", third.Type().Name)

	assert.ErrorIs(t, f.Set("k", []float32{1, 2}), common.ErrValue)
	assert.ErrorIs(t, f.Set("k", [5]int{}), common.ErrValue)

	require.NoError(t, f.Set("k", nil))
	assert.False(t, f.Bound("k"))
}

func TestFunctionBoundFunction(t *testing.T) {
	host := MustFunction("void main() { gl_FragColor = $color_transform(gl_FragColor); }")
	_, ok := host.BoundFunction("color_transform")
	assert.False(t, ok)
	_, ok = host.BoundFunction("missing")
	assert.False(t, ok)

	pass := MustFunction("vec4 pass(vec4 color) { return color; }")
	assert.False(t, pass.NoArgs())
	require.NoError(t, host.Set("color_transform", pass))
	fn, ok := host.BoundFunction("color_transform")
	require.True(t, ok)
	assert.Same(t, pass, fn)
}

func TestVariables(t *testing.T) {
	_, err := NewUniform("1bad", "float")
	assert.ErrorIs(t, err, common.ErrValue)
	_, err = NewUniform("u", "dvec3")
	assert.ErrorIs(t, err, common.ErrValue)
	_, err = NewAttribute("a", "sampler2D")
	assert.ErrorIs(t, err, common.ErrValue)

	v, err := NewVarying("v", "float")
	require.NoError(t, err)
	assert.ErrorIs(t, v.SetValue(1.0), common.ErrKey)
	_, ok := v.Value()
	assert.False(t, ok)

	u, err := NewUniform("u", "vec2")
	require.NoError(t, err)
	assert.ErrorIs(t, u.SetValue(1.0), common.ErrValue)
	require.NoError(t, u.SetValue([2]float32{1, 2}))

	k, err := NewConst("k", "vec3", [3]float32{1, 0.5, 0})
	require.NoError(t, err)
	assert.Equal(t, "const vec3 k = vec3(1.0, 0.5, 0.0);", k.declaration("k"))

	n, err := NewConst("n", "int", 3)
	require.NoError(t, err)
	assert.Equal(t, "const int n = 3;", n.declaration("n"))
}

func TestHookOrdering(t *testing.T) {
	h := NewHook("post")
	x := MustFunction("void x() {}")
	y := MustFunction("void y() {}")
	a := MustFunction("void a() {}")
	b := MustFunction("void b() {}")

	require.NoError(t, h.Add(x, WithPosition(9)))
	require.NoError(t, h.Add(y, WithPosition(3)))
	assert.Equal(t, []*Function{y, x}, h.Functions())

	require.NoError(t, h.Add(a))
	require.NoError(t, h.Add(b))
	assert.Equal(t, []*Function{y, a, b, x}, h.Functions())

	assert.ErrorIs(t, h.Add(a), common.ErrValue)
	assert.ErrorIs(t, h.Add(MustFunction("vec4 pass(vec4 c) { return c; }")), common.ErrValue)

	assert.True(t, h.Remove(a))
	assert.False(t, h.Remove(a))
	assert.Equal(t, []*Function{y, b, x}, h.Functions())
}

func TestCompile(t *testing.T) {
	vert := MustFunction("void main() {\n    $pre\n    gl_Position = vec4($position, 1.0);\n    $post\n}")
	pos, err := NewAttribute("a_position", "vec3")
	require.NoError(t, err)
	require.NoError(t, vert.Set("position", pos))

	frag := MustFunction("void main() {\n    gl_FragColor = $transform($color);\n    $post\n}")
	require.NoError(t, frag.Set("color", [4]float32{1, 0, 0, 1}))
	require.NoError(t, frag.Set("transform", MustFunction("vec4 pass(vec4 c) { return c; }")))

	alpha := MustFunction("void apply_alpha() {\n    gl_FragColor.a = gl_FragColor.a * $alpha;\n}")
	require.NoError(t, alpha.Set("alpha", 0.5))
	fpost := NewHook("post")
	require.NoError(t, fpost.Add(alpha))

	out, err := Compile(
		Stage{Main: vert, Hooks: map[string]*Hook{"pre": NewHook("pre"), "post": NewHook("post")}},
		Stage{Main: frag, Hooks: map[string]*Hook{"post": fpost}},
	)
	require.NoError(t, err)

	assert.Equal(t, "attribute vec3 a_position;\n\n"+
		"void main() {\n    gl_Position = vec4(a_position, 1.0);\n}\n", out.Vertex)
	assert.Equal(t, "uniform vec4 color;\nuniform float alpha;\n\n"+
		"vec4 pass(vec4 c) { return c; }\n\n"+
		"void apply_alpha() {\n    gl_FragColor.a = gl_FragColor.a * alpha;\n}\n\n"+
		"void main() {\n    gl_FragColor = pass(color);\n    apply_alpha();\n}\n", out.Fragment)

	assert.Equal(t, map[string]common.Array{
		"color": {Data: []float32{1, 0, 0, 1}, Shape: []int{4}, DType: common.Float32},
		"alpha": {Data: []float32{0.5}, Shape: []int{}, DType: common.Float32},
	}, out.Values())
}

func TestCompileUniqueNames(t *testing.T) {
	first := MustFunction("vec4 pass(vec4 c) { return c * $color; }")
	second := MustFunction("vec4 pass(vec4 c) { return c + $color; }")
	require.NoError(t, first.Set("color", [4]float32{1, 1, 1, 1}))
	require.NoError(t, second.Set("color", [4]float32{0, 0, 0, 0}))

	main := MustFunction("void main() { gl_FragColor = $a($b(vec4(1.0))); }")
	require.NoError(t, main.Set("a", first))
	require.NoError(t, main.Set("b", second))

	vert := MustFunction("void main() { gl_Position = vec4(0.0); }")
	out, err := Compile(Stage{Main: vert}, Stage{Main: main})
	require.NoError(t, err)

	assert.Contains(t, out.Fragment, "uniform vec4 color;\nuniform vec4 color_1;\n")
	assert.Contains(t, out.Fragment, "vec4 pass(vec4 c) { return c * color; }")
	assert.Contains(t, out.Fragment, "vec4 pass_1(vec4 c) { return c + color_1; }")
	assert.Contains(t, out.Fragment, "gl_FragColor = pass(pass_1(vec4(1.0)));")
	assert.Len(t, out.Uniforms, 2)
}

func TestCompileSharedVarying(t *testing.T) {
	coords, err := NewVarying("coords", "float")
	require.NoError(t, err)
	pos, err := NewAttribute("a_position", "vec3")
	require.NoError(t, err)

	support := MustFunction("void support() { $coords = $position.z; }")
	require.NoError(t, support.Set("coords", coords))
	require.NoError(t, support.Set("position", pos))
	use := MustFunction("void use() { gl_FragColor.r = $coords; }")
	require.NoError(t, use.Set("coords", coords))

	vpost, fpost := NewHook("post"), NewHook("post")
	require.NoError(t, vpost.Add(support))
	require.NoError(t, fpost.Add(use))

	vert := MustFunction("void main() {\n    gl_Position = vec4($position, 1.0);\n    $post\n}")
	require.NoError(t, vert.Set("position", pos))
	frag := MustFunction("void main() {\n    gl_FragColor = vec4(0.0);\n    $post\n}")

	out, err := Compile(Stage{Main: vert, Hooks: map[string]*Hook{"post": vpost}}, Stage{Main: frag, Hooks: map[string]*Hook{"post": fpost}})
	require.NoError(t, err)
	assert.Contains(t, out.Vertex, "varying float coords;")
	assert.Contains(t, out.Fragment, "varying float coords;")
	assert.Contains(t, out.Vertex, "void support() { coords = a_position.z; }")
	assert.Contains(t, out.Vertex, "    support();\n")
	assert.Contains(t, out.Fragment, "    use();\n")
	assert.Empty(t, out.Uniforms)

	// The attribute is not reachable from the fragment stage.
	require.NoError(t, use.Set("coords", pos))
	_, err = Compile(Stage{Main: vert, Hooks: map[string]*Hook{"post": vpost}}, Stage{Main: frag, Hooks: map[string]*Hook{"post": fpost}})
	assert.ErrorIs(t, err, common.ErrValue)
}

func TestCompileErrors(t *testing.T) {
	vert := MustFunction("void main() { gl_Position = vec4(0.0); }")

	unbound := MustFunction("void main() { gl_FragColor = $color; }")
	_, err := Compile(Stage{Main: vert}, Stage{Main: unbound})
	assert.ErrorIs(t, err, common.ErrValue)

	f := MustFunction("vec4 f(vec4 c) { return $g(c); }")
	g := MustFunction("vec4 g(vec4 c) { return $f(c); }")
	require.NoError(t, f.Set("g", g))
	require.NoError(t, g.Set("f", f))
	cyclic := MustFunction("void main() { gl_FragColor = $t(vec4(1.0)); }")
	require.NoError(t, cyclic.Set("t", f))
	_, err = Compile(Stage{Main: vert}, Stage{Main: cyclic})
	assert.ErrorIs(t, err, common.ErrValue)

	_, err = Compile(Stage{}, Stage{Main: vert})
	assert.ErrorIs(t, err, common.ErrValue)
}
