package resource

import (
	"github.com/Carmen-Shannon/oxy-gloo/common"
	"github.com/Carmen-Shannon/oxy-gloo/engine/glir"
	"github.com/cogentcore/webgpu/wgpu"
)

// IndexBuffer holds element indices for indexed draws.
type IndexBuffer struct {
	object

	data   common.Array
	nbytes int
	format wgpu.IndexFormat
}

var _ Resource = &IndexBuffer{}

// NewIndexBuffer creates an index buffer and uploads the given indices.
//
// Parameters:
//   - indices: []uint8, []uint16, []uint32, or nil for an empty buffer
//
// Returns:
//   - *IndexBuffer: the new buffer
//   - error: an ErrType error if indices is not an unsigned integer slice
func NewIndexBuffer(indices any) (*IndexBuffer, error) {
	ib := &IndexBuffer{object: newObject("IndexBuffer")}
	if indices == nil {
		return ib, nil
	}
	if err := ib.SetData(indices); err != nil {
		return nil, err
	}
	return ib, nil
}

// SetData replaces the indices in place.
//
// Parameters:
//   - indices: []uint8, []uint16 or []uint32
//
// Returns:
//   - error: an ErrType error for other types, an ErrValue error for a released buffer
func (ib *IndexBuffer) SetData(indices any) error {
	if err := ib.checkLive(); err != nil {
		return err
	}
	switch indices.(type) {
	case []uint8, []uint16, []uint32:
	default:
		return common.TypeErrorf("index data must be []uint8, []uint16 or []uint32, got %T", indices)
	}
	data, _, err := common.AsArray(indices)
	if err != nil {
		return err
	}
	nbytes := data.Size() * data.DType.ByteSize()
	format := indexFormat(data.DType)
	if nbytes != ib.nbytes || format != ib.format {
		ib.nbytes, ib.format = nbytes, format
		ib.command(glir.CommandSize, nbytes, format)
	}
	ib.data = data
	ib.command(glir.CommandData, 0, ib.data)
	return nil
}

// Count returns the number of indices.
func (ib *IndexBuffer) Count() int {
	return ib.data.Size()
}

// DType returns the element type of the indices as provided (Uint8, Uint16 or Uint32).
func (ib *IndexBuffer) DType() common.DType {
	return ib.data.DType
}

// Data returns the uploaded indices.
func (ib *IndexBuffer) Data() common.Array {
	return ib.data
}

// Format returns the WebGPU index format carried by SIZE. WebGPU has no 8-bit indices, so uint8
// data maps to Uint16 and is widened by the executor.
func (ib *IndexBuffer) Format() wgpu.IndexFormat {
	return ib.format
}

func indexFormat(dtype common.DType) wgpu.IndexFormat {
	if dtype == common.Uint32 {
		return wgpu.IndexFormatUint32
	}
	return wgpu.IndexFormatUint16
}
