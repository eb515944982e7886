package visual

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gloo/common"
	"github.com/Carmen-Shannon/oxy-gloo/engine/glir"
	"github.com/Carmen-Shannon/oxy-gloo/engine/program"
	"github.com/Carmen-Shannon/oxy-gloo/engine/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tint multiplies the fragment color by a uniform.
type tint struct {
	fn   *shader.Function
	host Handle
}

func newTint(factor float64) *tint {
	t := &tint{fn: shader.MustFunction("void apply_tint() { gl_FragColor.rgb *= $factor; }")}
	_ = t.fn.Set("factor", factor)
	return t
}

func (t *tint) Attach(host Visual) error {
	hook, err := host.Hook(StageFragment, PhasePost)
	if err != nil {
		return err
	}
	if err := hook.Add(t.fn); err != nil {
		return err
	}
	t.host = host.Handle()
	return nil
}

func (t *tint) Detach(host Visual) error {
	if t.host != host.Handle() {
		return common.ValueErrorf("not attached")
	}
	hook, err := host.Hook(StageFragment, PhasePost)
	if err != nil {
		return err
	}
	hook.Remove(t.fn)
	t.host = 0
	return nil
}

func kinds(cmds []glir.Command) []glir.CommandKind {
	out := make([]glir.CommandKind, len(cmds))
	for i, c := range cmds {
		out[i] = c.Kind
	}
	return out
}

func TestHooksFollowTemplatePlaceholders(t *testing.T) {
	v, err := NewVisual("void main() {\n    gl_Position = vec4(0.0);\n    $post\n}", "void main() { gl_FragColor = vec4(1.0); }", WithRegistry(NewRegistry()))
	require.NoError(t, err)

	_, err = v.Hook(StageVertex, PhasePost)
	assert.NoError(t, err)
	_, err = v.Hook(StageVertex, PhasePre)
	assert.ErrorIs(t, err, common.ErrValue)
	_, err = v.Hook(StageFragment, PhasePost)
	assert.ErrorIs(t, err, common.ErrValue)

	_, err = NewVisual("not a function", "void main() {}")
	assert.ErrorIs(t, err, common.ErrValue)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	a, err := NewMesh("red", WithRegistry(r))
	require.NoError(t, err)
	b, err := NewMesh("blue", WithRegistry(r))
	require.NoError(t, err)
	assert.NotEqual(t, a.Handle(), b.Handle())
	assert.Equal(t, 2, r.Len())

	got, ok := r.Lookup(a.Handle())
	require.True(t, ok)
	assert.Equal(t, a, got)

	a.Release()
	_, ok = r.Lookup(a.Handle())
	assert.False(t, ok)
	assert.Equal(t, 1, r.Len())
}

func TestMeshDraw(t *testing.T) {
	v, err := NewMesh("red", WithRegistry(NewRegistry()))
	require.NoError(t, err)
	require.NoError(t, v.Set("a_position", common.Zeros(3, 3)))
	assert.Equal(t, program.Pending, v.Program().State("a_position"))

	require.NoError(t, v.Draw(program.Triangles, nil))
	q := v.Program().Queue()
	assert.Equal(t, []glir.CommandKind{
		glir.CommandCreate, glir.CommandShaders,
		glir.CommandCreate, glir.CommandSize, glir.CommandData,
		glir.CommandAttribute, glir.CommandUniform,
		glir.CommandDraw,
	}, kinds(q.Clear()))

	color, err := v.Program().Get("color")
	require.NoError(t, err)
	assert.Equal(t, common.Array{Data: []float32{1, 0, 0, 1}, Shape: []int{4}, DType: common.Float32}, color)

	vs, fs := v.Program().Shaders()
	assert.Contains(t, vs, "attribute vec3 a_position;")
	assert.Contains(t, fs, "uniform vec4 color;")
	assert.Contains(t, fs, "gl_FragColor = pass(color);")

	// Nothing changed: only the draw.
	require.NoError(t, v.Draw(program.Triangles, nil))
	assert.Equal(t, []glir.CommandKind{glir.CommandDraw}, kinds(q.Clear()))
}

func TestAttachDetach(t *testing.T) {
	v, err := NewMesh("white", WithRegistry(NewRegistry()))
	require.NoError(t, err)
	require.NoError(t, v.Set("a_position", common.Zeros(3, 3)))
	require.NoError(t, v.Draw(program.Triangles, nil))
	q := v.Program().Queue()
	q.Clear()

	f := newTint(0.5)
	require.NoError(t, v.Attach(f))
	assert.ErrorIs(t, v.Attach(f), common.ErrValue)
	assert.Equal(t, []Filter{f}, v.Filters())

	require.NoError(t, v.Draw(program.Triangles, nil))
	_, fs := v.Program().Shaders()
	assert.Contains(t, fs, "uniform float factor;")
	assert.Contains(t, fs, "    apply_tint();\n")
	assert.Contains(t, kinds(q.Clear()), glir.CommandShaders)

	require.NoError(t, v.Detach(f))
	assert.ErrorIs(t, v.Detach(f), common.ErrValue)
	assert.Empty(t, v.Filters())

	require.NoError(t, v.Draw(program.Triangles, nil))
	_, fs = v.Program().Shaders()
	assert.NotContains(t, fs, "apply_tint")
	assert.Equal(t, program.Pending, v.Program().State("factor"))
}

func TestAttachErrorLeavesVisualUnchanged(t *testing.T) {
	v, err := NewVisual("void main() { gl_Position = vec4(0.0); }", "void main() { gl_FragColor = vec4(1.0); }", WithRegistry(NewRegistry()))
	require.NoError(t, err)
	assert.ErrorIs(t, v.Attach(newTint(1)), common.ErrValue)
	assert.Empty(t, v.Filters())
}
