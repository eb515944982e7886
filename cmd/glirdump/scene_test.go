package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-gloo/common"
	"github.com/Carmen-Shannon/oxy-gloo/engine/glir"
	"github.com/Carmen-Shannon/oxy-gloo/engine/program"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var discard = slog.New(slog.DiscardHandler)

func commandKinds(cmds []glir.Command) []glir.CommandKind {
	out := make([]glir.CommandKind, len(cmds))
	for i, c := range cmds {
		out[i] = c.Kind
	}
	return out
}

func TestParseScene(t *testing.T) {
	s, err := ParseScene([]byte(`
[mesh]
color = "red"

[[filters]]
type = "alpha"
alpha = 0.5

[values]
a_position = [[0.0, 0.0, 0.0], [1.0, 0.0, 0.0], [0.0, 1.0, 0.0]]
`))
	require.NoError(t, err)
	assert.Equal(t, "triangles", s.Mode)
	require.NotNil(t, s.Mesh)
	assert.Equal(t, "red", s.Mesh.Color)
	require.Len(t, s.Filters, 1)
	assert.Equal(t, float32(0.5), s.Filters[0].Alpha)

	_, err = ParseScene([]byte(`mode = "points"`))
	assert.ErrorIs(t, err, common.ErrValue)

	_, err = ParseScene([]byte(`
[program]
vertex = "void main() {}"
fragment = "void main() {}"
[mesh]
`))
	assert.ErrorIs(t, err, common.ErrValue)

	_, err = ParseScene([]byte("[program]\n[[filters]]\ntype = \"alpha\"\n"))
	assert.ErrorIs(t, err, common.ErrValue)
}

func TestToValue(t *testing.T) {
	v, err := toValue(int64(3))
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	v, err = toValue([]any{[]any{int64(1), 2.5}, []any{3.0, int64(4)}})
	require.NoError(t, err)
	assert.Equal(t, common.Array{Data: []float32{1, 2.5, 3, 4}, Shape: []int{2, 2}, DType: common.Float32}, v)

	_, err = toValue([]any{[]any{1.0, 2.0}, []any{3.0}})
	assert.ErrorIs(t, err, common.ErrValue)
	_, err = toValue("text")
	assert.ErrorIs(t, err, common.ErrType)
	_, err = toValue([]any{"text"})
	assert.ErrorIs(t, err, common.ErrType)
}

func TestDrawProgramScene(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scene.vert"), []byte(`
attribute vec2 a_position;
uniform float u_scale;
void main() { gl_Position = vec4(a_position * u_scale, 0.0, 1.0); }
`), 0o644))

	s, err := ParseScene([]byte(`
mode = "triangle_strip"

[program]
vertex_file = "scene.vert"
fragment = "void main() { gl_FragColor = vec4(1.0); }"

[values]
a_position = [[0.0, 0.0], [1.0, 0.0], [0.0, 1.0], [1.0, 1.0]]
u_scale = 2.0
`))
	require.NoError(t, err)
	s.dir = dir

	q := glir.NewQueue()
	require.NoError(t, s.Draw(q, discard))
	cmds := q.Commands()
	require.NotEmpty(t, cmds)
	assert.Equal(t, glir.CommandCreate, cmds[0].Kind)
	assert.Equal(t, glir.CommandShaders, cmds[1].Kind)
	last := cmds[len(cmds)-1]
	assert.Equal(t, glir.CommandDraw, last.Kind)
	assert.Equal(t, []any{program.TriangleStrip, 4}, last.Args)
	assert.Contains(t, commandKinds(cmds), glir.CommandUniform)
	assert.Contains(t, commandKinds(cmds), glir.CommandAttribute)
}

func TestDrawErrors(t *testing.T) {
	s, err := ParseScene([]byte(`
mode = "quads"
[mesh]
`))
	require.NoError(t, err)
	assert.ErrorIs(t, s.Draw(glir.NewQueue(), discard), common.ErrValue)

	s, err = ParseScene([]byte(`
[mesh]
[[filters]]
type = "blur"
`))
	require.NoError(t, err)
	assert.ErrorIs(t, s.Draw(glir.NewQueue(), discard), common.ErrKey)

	s, err = ParseScene([]byte(`
[program]
vertex = "attribute vec3 a_position;\nvoid main() {}"
fragment = "void main() {}"
[values]
u_missing = 1.0
`))
	require.NoError(t, err)
	// Undeclared names are kept pending; the draw fails because nothing sets the vertex count.
	assert.ErrorIs(t, s.Draw(glir.NewQueue(), discard), common.ErrRuntime)
}

func TestRunWritesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mesh.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
mode = "triangles"
indices = [0, 1, 2]

[mesh]
color = "#ff8000"

[[filters]]
type = "isoline"
level = 4.0

[[filters]]
type = "z_colormap"
cmap = "hot"
zrange = [-1.0, 1.0]

[values]
a_position = [[0.0, 0.0, 0.0], [1.0, 0.0, 0.5], [0.0, 1.0, 1.0]]
`), 0o644))

	var out bytes.Buffer
	require.NoError(t, run(path, &out, discard, 3))

	var docs []map[string]any
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &docs))
	require.NotEmpty(t, docs)
	assert.Equal(t, "CREATE", docs[0]["kind"])
	assert.Equal(t, "DRAW", docs[len(docs)-1]["kind"])
	assert.Equal(t, "triangle-list", docs[len(docs)-1]["topology"])
	assert.NotContains(t, docs[0], "topology")
	assert.Contains(t, out.String(), "isoline_support();")
	assert.Contains(t, out.String(), "apply_z_colormap();")
}
