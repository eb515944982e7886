package common

import (
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripComments(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"line", "uniform float a; // note\nuniform float b;", "uniform float a; \nuniform float b;"},
		{"block", "uniform/* x */float a;", "uniform float a;"},
		{"no nesting", "a /* /* */ b */", "a   b */"},
		{"unterminated block", "a /* b", "a "},
		{"trailing line", "a // b", "a "},
		{"division", "x = a / b;", "x = a / b;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripComments(tt.in))
		})
	}
}

func TestAsArray(t *testing.T) {
	a, single, err := AsArray(2.5)
	require.NoError(t, err)
	assert.True(t, single)
	assert.Equal(t, Array{Data: []float32{2.5}, Shape: []int{}, DType: Float32}, a)

	a, single, err = AsArray(mgl32.Vec3{1, 2, 3})
	require.NoError(t, err)
	assert.True(t, single)
	assert.Equal(t, []float32{1, 2, 3}, a.Data)

	a, single, err = AsArray(mgl32.Ident3())
	require.NoError(t, err)
	assert.True(t, single)
	assert.Equal(t, []int{3, 3}, a.Shape)

	a, single, err = AsArray([]int{1, 2, 3})
	require.NoError(t, err)
	assert.False(t, single)
	assert.Equal(t, Int32, a.DType)
	assert.Equal(t, []int{3}, a.Shape)

	src := []float32{1, 2}
	a, _, err = AsArray(src)
	require.NoError(t, err)
	src[0] = 9
	assert.Equal(t, float32(1), a.Data[0])

	_, _, err = AsArray("nope")
	assert.ErrorIs(t, err, ErrValue)
	_, _, err = AsArray((*Array)(nil))
	assert.ErrorIs(t, err, ErrValue)
}

func TestArrayReshape(t *testing.T) {
	a, err := NewArray([]float32{1, 2, 3, 4, 5, 6}, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, a.Ndim())

	b, err := a.Reshape(3, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, b.Shape)
	assert.False(t, a.Equal(b))

	_, err = a.Reshape(4, 2)
	assert.ErrorIs(t, err, ErrValue)
	_, err = NewArray([]float32{1, 2, 3}, 2, 2)
	assert.ErrorIs(t, err, ErrValue)

	assert.True(t, Ones(2, 2).Equal(Array{Data: []float32{1, 1, 1, 1}, Shape: []int{2, 2}, DType: Float32}))
}

func TestInferGLSLType(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{1.5, "float"},
		{3, "int"},
		{true, "bool"},
		{[2]float32{}, "vec2"},
		{[4]float32{}, "vec4"},
		{[9]float32{}, "mat3"},
		{mgl32.Ident4(), "mat4"},
		{[]int{1, 2, 3}, "ivec3"},
	}
	for _, tt := range tests {
		a, _, err := AsArray(tt.value)
		require.NoError(t, err)
		got, err := InferGLSLType(a)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.Name, "%T", tt.value)
	}

	_, err := InferGLSLType(Zeros(5))
	assert.ErrorIs(t, err, ErrValue)
	_, err = InferGLSLType(Array{Data: make([]float32, 9), Shape: []int{9}, DType: Int32})
	assert.ErrorIs(t, err, ErrValue)
}

func TestGLSLTypeLayout(t *testing.T) {
	mat, ok := LookupGLSLType("mat4")
	require.True(t, ok)
	assert.Equal(t, 16, mat.Size())
	assert.True(t, mat.IsMatrix())
	assert.Equal(t, []int{4, 4}, mat.Shape())

	s, ok := LookupGLSLType("sampler3D")
	require.True(t, ok)
	assert.True(t, s.IsSampler())
	assert.Equal(t, 3, s.SamplerDim)

	_, ok = LookupGLSLType("image2D")
	assert.False(t, ok)
}

func TestVariableKind(t *testing.T) {
	for _, k := range []VariableKind{KindUniform, KindAttribute, KindVarying, KindConst} {
		got, err := ParseVariableKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	assert.True(t, KindUniform.Settable())
	assert.True(t, KindAttribute.Settable())
	assert.False(t, KindVarying.Settable())
	assert.False(t, KindConst.Settable())

	_, err := ParseVariableKind("buffer")
	assert.ErrorIs(t, err, ErrValue)
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   any
		want [4]float32
	}{
		{"black", [4]float32{0, 0, 0, 1}},
		{" White ", [4]float32{1, 1, 1, 1}},
		{"#f00", [4]float32{1, 0, 0, 1}},
		{"#00ff0080", [4]float32{0, 1, 0, float32(0x80) / 255}},
		{[3]float32{0.1, 0.2, 0.3}, [4]float32{0.1, 0.2, 0.3, 1}},
		{color.RGBA{R: 255, A: 255}, [4]float32{1, 0, 0, 1}},
		{color.RGBA{}, [4]float32{}},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		require.NoError(t, err, "%v", tt.in)
		assert.InDeltaSlice(t, tt.want[:], got[:], 1e-6, "%v", tt.in)
	}

	for _, bad := range []any{"not-a-color", "#12345", "#gg0000", 42} {
		_, err := ParseColor(bad)
		assert.ErrorIs(t, err, ErrValue, "%v", bad)
	}
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "b", Coalesce("", "b", "c"))
	assert.Equal(t, float32(0), Coalesce[float32](0, 0))
	assert.Equal(t, [2]float32{0, 1}, Coalesce([2]float32{}, [2]float32{0, 1}))
}

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys(map[string]int{"c": 3, "a": 1, "b": 2}))
	assert.Empty(t, SortedKeys[string, any](nil))
}

func TestArrayCast(t *testing.T) {
	a := Array{Data: []float32{1.5, -2.7, 0, 7}, Shape: []int{4}, DType: Float32}

	i, err := a.Cast(Int32)
	require.NoError(t, err)
	assert.Equal(t, Array{Data: []float32{1, -2, 0, 7}, Shape: []int{4}, DType: Int32}, i)

	b, err := a.Cast(Bool)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 1, 0, 1}, b.Data)
	assert.Equal(t, []float32{1.5, -2.7, 0, 7}, a.Data)

	_, err = a.Cast(Uint8)
	assert.ErrorIs(t, err, ErrValue)
	_, err = Array{Data: []float32{256}, Shape: []int{1}}.Cast(Uint8)
	assert.ErrorIs(t, err, ErrValue)
	u, err := Array{Data: []float32{255.9}, Shape: []int{1}}.Cast(Uint8)
	require.NoError(t, err)
	assert.Equal(t, []float32{255}, u.Data)
}
