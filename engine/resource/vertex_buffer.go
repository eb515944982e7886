package resource

import (
	"github.com/Carmen-Shannon/oxy-gloo/common"
	"github.com/Carmen-Shannon/oxy-gloo/engine/glir"
	"github.com/cogentcore/webgpu/wgpu"
)

// VertexBuffer holds per-vertex data for one attribute.
type VertexBuffer struct {
	object

	// data is the last uploaded payload.
	data common.Array
	// count is the number of vertices in data.
	count int
	// components is the number of scalars per vertex (1-4), 0 while the buffer is empty.
	components int
	// nbytes and format describe the allocation, used to skip redundant SIZE commands.
	nbytes int
	format wgpu.VertexFormat
}

var _ Resource = &VertexBuffer{}

// vertexFormats maps element types to vertex formats indexed by component count - 1.
var vertexFormats = map[common.DType][4]wgpu.VertexFormat{
	common.Float32: {wgpu.VertexFormatFloat32, wgpu.VertexFormatFloat32x2, wgpu.VertexFormatFloat32x3, wgpu.VertexFormatFloat32x4},
	common.Int32:   {wgpu.VertexFormatSint32, wgpu.VertexFormatSint32x2, wgpu.VertexFormatSint32x3, wgpu.VertexFormatSint32x4},
	common.Uint32:  {wgpu.VertexFormatUint32, wgpu.VertexFormatUint32x2, wgpu.VertexFormatUint32x3, wgpu.VertexFormatUint32x4},
}

// NewVertexBuffer creates a vertex buffer configured with the provided options. A buffer created
// without data is empty and takes its layout from the first SetData.
//
// Parameters:
//   - options: variadic list of VertexBufferBuilderOption functions
//
// Returns:
//   - *VertexBuffer: the new buffer
//   - error: an ErrValue error if the initial data has an invalid shape
func NewVertexBuffer(options ...VertexBufferBuilderOption) (*VertexBuffer, error) {
	b := &vertexBufferBuild{}
	for _, opt := range options {
		opt(b)
	}
	vb := &VertexBuffer{object: newObject("VertexBuffer")}
	if b.data != nil {
		if err := vb.SetData(*b.data); err != nil {
			return nil, err
		}
	}
	return vb, nil
}

// Count returns the number of vertices, 0 for an empty buffer.
func (vb *VertexBuffer) Count() int {
	return vb.count
}

// Components returns the number of scalars per vertex, 0 for an empty buffer.
func (vb *VertexBuffer) Components() int {
	return vb.components
}

// Data returns the last uploaded payload.
func (vb *VertexBuffer) Data() common.Array {
	return vb.data
}

// Format returns the vertex format of the stored data, the zero format while the buffer is empty.
// Element types without a matching 32-bit vertex format are uploaded as float32.
func (vb *VertexBuffer) Format() wgpu.VertexFormat {
	return vb.format
}

func vertexFormat(dtype common.DType, components int) wgpu.VertexFormat {
	formats, ok := vertexFormats[dtype]
	if !ok {
		formats = vertexFormats[common.Float32]
	}
	return formats[components-1]
}

// SetData replaces the buffer contents in place, staging DATA and, when the byte size or the
// vertex format changes, a SIZE command carrying both.
//
// Parameters:
//   - data: shape [N] or [N components] with 1-4 components
//
// Returns:
//   - error: an ErrValue error for an invalid shape or a released buffer
func (vb *VertexBuffer) SetData(data common.Array) error {
	if err := vb.checkLive(); err != nil {
		return err
	}
	count, components, err := CheckVertexShape(data.Shape)
	if err != nil {
		return err
	}
	nbytes := data.Size() * data.DType.ByteSize()
	format := vertexFormat(data.DType, components)
	if nbytes != vb.nbytes || format != vb.format {
		vb.nbytes, vb.format = nbytes, format
		vb.command(glir.CommandSize, nbytes, format)
	}
	vb.data = data.Clone()
	vb.count, vb.components = count, components
	vb.command(glir.CommandData, 0, vb.data)
	return nil
}

// CheckVertexShape validates a vertex data shape and splits it into vertex and component counts.
//
// Parameters:
//   - shape: [N] (one component) or [N components] with 1-4 components
//
// Returns:
//   - int: the vertex count
//   - int: the number of components per vertex
//   - error: an ErrValue error for any other shape
func CheckVertexShape(shape []int) (int, int, error) {
	switch len(shape) {
	case 1:
		return shape[0], 1, nil
	case 2:
		if shape[1] < 1 || shape[1] > 4 {
			return 0, 0, common.ValueErrorf("vertex data needs 1 to 4 components, got shape %v", shape)
		}
		return shape[0], shape[1], nil
	default:
		return 0, 0, common.ValueErrorf("vertex data must be 1 or 2 dimensional, got shape %v", shape)
	}
}
