package resource

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gloo/common"
	"github.com/Carmen-Shannon/oxy-gloo/engine/glir"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(cmds []glir.Command) []glir.CommandKind {
	out := make([]glir.CommandKind, len(cmds))
	for i, c := range cmds {
		out[i] = c.Kind
	}
	return out
}

func TestTextureCommands(t *testing.T) {
	tex, err := NewTexture2D(10, 10)
	require.NoError(t, err)
	assert.Equal(t, "Texture2D", tex.Kind())
	assert.Equal(t, []int{10, 10}, tex.Shape())
	assert.Equal(t, wgpu.TextureFormatR32Float, tex.Format())

	cmds := tex.Drain()
	assert.Equal(t, []glir.CommandKind{glir.CommandCreate, glir.CommandSize}, kinds(cmds))
	assert.Equal(t, tex.ID(), cmds[0].ID)
	assert.Empty(t, tex.Drain())

	// Same shape: data only.
	require.NoError(t, tex.SetData(common.Zeros(10, 10)))
	assert.Equal(t, []glir.CommandKind{glir.CommandData}, kinds(tex.Drain()))

	// New shape: resized in place.
	id := tex.ID()
	require.NoError(t, tex.SetData(common.Zeros(4, 4, 3)))
	assert.Equal(t, []glir.CommandKind{glir.CommandSize, glir.CommandData}, kinds(tex.Drain()))
	assert.Equal(t, id, tex.ID())
	assert.Equal(t, wgpu.TextureFormatRGBA32Float, tex.Format())
}

func TestTextureShapeValidation(t *testing.T) {
	tests := []struct {
		rank  int
		shape []int
		ok    bool
	}{
		{1, []int{8}, true},
		{1, []int{8, 4}, true},
		{2, []int{10, 10}, true},
		{2, []int{10, 10, 2}, true},
		{2, []int{10, 10, 10}, false},
		{2, []int{10}, false},
		{3, []int{10, 10, 10}, true},
		{3, []int{2, 2, 2, 4}, true},
		{3, []int{10, 10}, false},
		{2, []int{0, 10}, false},
	}
	for _, tt := range tests {
		err := CheckTextureShape(tt.rank, tt.shape)
		if tt.ok {
			assert.NoError(t, err, "rank %d shape %v", tt.rank, tt.shape)
		} else {
			assert.ErrorIs(t, err, common.ErrValue, "rank %d shape %v", tt.rank, tt.shape)
		}
	}

	_, err := NewTexture(wgpu.TextureDimension2D, WithTextureData(common.Zeros(10, 10, 10)))
	assert.ErrorIs(t, err, common.ErrValue)
}

func TestTexture3D(t *testing.T) {
	tex, err := NewTexture(wgpu.TextureDimension3D, WithTextureData(common.Zeros(10, 10, 10)))
	require.NoError(t, err)
	assert.Equal(t, "Texture3D", tex.Kind())
	assert.Equal(t, 3, tex.Rank())
	assert.Equal(t, []glir.CommandKind{glir.CommandCreate, glir.CommandSize, glir.CommandData}, kinds(tex.Drain()))
}

func TestVertexBuffer(t *testing.T) {
	vb, err := NewVertexBuffer()
	require.NoError(t, err)
	assert.Zero(t, vb.Count())
	assert.Zero(t, vb.Components())

	require.NoError(t, vb.SetData(common.Zeros(10, 4)))
	assert.Equal(t, 10, vb.Count())
	assert.Equal(t, 4, vb.Components())
	assert.Equal(t, wgpu.VertexFormatFloat32x4, vb.Format())
	cmds := vb.Drain()
	assert.Equal(t, []glir.CommandKind{glir.CommandCreate, glir.CommandSize, glir.CommandData}, kinds(cmds))
	assert.Equal(t, []any{160, wgpu.VertexFormatFloat32x4}, cmds[1].Args)

	// Same byte size and format: no reallocation.
	require.NoError(t, vb.SetData(common.Ones(10, 4)))
	assert.Equal(t, []glir.CommandKind{glir.CommandData}, kinds(vb.Drain()))

	// Same byte size, new layout.
	require.NoError(t, vb.SetData(common.Ones(40)))
	assert.Equal(t, 40, vb.Count())
	cmds = vb.Drain()
	assert.Equal(t, []glir.CommandKind{glir.CommandSize, glir.CommandData}, kinds(cmds))
	assert.Equal(t, []any{160, wgpu.VertexFormatFloat32}, cmds[0].Args)

	assert.ErrorIs(t, vb.SetData(common.Zeros(2, 2, 2)), common.ErrValue)
	assert.ErrorIs(t, vb.SetData(common.Zeros(2, 5)), common.ErrValue)
}

func TestIndexBuffer(t *testing.T) {
	ib, err := NewIndexBuffer(make([]uint8, 10))
	require.NoError(t, err)
	assert.Equal(t, 10, ib.Count())
	assert.Equal(t, common.Uint8, ib.DType())
	assert.Equal(t, wgpu.IndexFormatUint16, ib.Format())
	cmds := ib.Drain()
	require.Len(t, cmds, 3)
	assert.Equal(t, []any{10, wgpu.IndexFormatUint16}, cmds[1].Args)

	require.NoError(t, ib.SetData([]uint32{0, 1, 2}))
	assert.Equal(t, wgpu.IndexFormatUint32, ib.Format())
	cmds = ib.Drain()
	assert.Equal(t, []glir.CommandKind{glir.CommandSize, glir.CommandData}, kinds(cmds))
	assert.Equal(t, []any{12, wgpu.IndexFormatUint32}, cmds[0].Args)

	// Same byte size, wider indices.
	require.NoError(t, ib.SetData([]uint16{0, 1, 2, 3, 4, 5}))
	cmds = ib.Drain()
	assert.Equal(t, []glir.CommandKind{glir.CommandSize, glir.CommandData}, kinds(cmds))
	assert.Equal(t, []any{12, wgpu.IndexFormatUint16}, cmds[0].Args)

	_, err = NewIndexBuffer([]float32{0, 1, 2})
	assert.ErrorIs(t, err, common.ErrType)
	assert.ErrorIs(t, ib.SetData("notindex"), common.ErrType)
}

func TestReleaseBeforeDrainEmitsNothing(t *testing.T) {
	vb, err := NewVertexBuffer(WithVertexData(common.Zeros(3)))
	require.NoError(t, err)
	vb.Release()
	assert.True(t, vb.Released())
	assert.Empty(t, vb.Drain())
	assert.ErrorIs(t, vb.SetData(common.Zeros(3)), common.ErrValue)
}

func TestReleaseAfterDrainEmitsDelete(t *testing.T) {
	tex, err := NewTexture1D(16)
	require.NoError(t, err)
	tex.Drain()
	tex.Release()
	tex.Release()
	cmds := tex.Drain()
	require.Len(t, cmds, 1)
	assert.Equal(t, glir.CommandDelete, cmds[0].Kind)
	assert.Equal(t, tex.ID(), cmds[0].ID)
}
