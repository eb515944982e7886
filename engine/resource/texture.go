package resource

import (
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/oxy-gloo/common"
	"github.com/Carmen-Shannon/oxy-gloo/engine/glir"
	"github.com/cogentcore/webgpu/wgpu"
)

// Texture is a 1D, 2D or 3D texture bound to a sampler.
type Texture struct {
	object

	// dim is the texture dimensionality; it never changes after construction.
	dim wgpu.TextureDimension
	// shape is the current storage shape, e.g. [height width] or [height width channels].
	shape []int
	// format is derived from the channel count and element type of the last upload.
	format wgpu.TextureFormat
	// data is the last uploaded payload, empty until SetData is called.
	data common.Array
}

var _ Resource = &Texture{}

// textureDims maps supported texture dimensions to their spatial rank.
var textureDims = map[wgpu.TextureDimension]int{
	wgpu.TextureDimension1D: 1,
	wgpu.TextureDimension2D: 2,
	wgpu.TextureDimension3D: 3,
}

// NewTexture creates a texture of the given dimensionality, configured with the provided options.
// The CREATE command and, when a shape or data option is given, the SIZE and DATA commands are
// staged immediately.
//
// Parameters:
//   - dim: wgpu.TextureDimension1D, wgpu.TextureDimension2D or wgpu.TextureDimension3D
//   - options: variadic list of TextureBuilderOption functions
//
// Returns:
//   - *Texture: the new texture
//   - error: an ErrValue error for an unsupported dimension or an invalid shape/data option
func NewTexture(dim wgpu.TextureDimension, options ...TextureBuilderOption) (*Texture, error) {
	rank, ok := textureDims[dim]
	if !ok {
		return nil, common.ValueErrorf("unsupported texture dimension %v", dim)
	}
	b := &textureBuild{}
	for _, opt := range options {
		opt(b)
	}
	t := &Texture{object: newObject(fmt.Sprintf("Texture%dD", rank)), dim: dim}
	switch {
	case b.data != nil:
		if err := t.SetData(*b.data); err != nil {
			return nil, err
		}
	case b.shape != nil:
		if err := t.Resize(b.shape...); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// NewTexture1D creates a 1D texture with an optional initial shape.
func NewTexture1D(shape ...int) (*Texture, error) {
	return NewTexture(wgpu.TextureDimension1D, withOptionalShape(shape)...)
}

// NewTexture2D creates a 2D texture with an optional initial shape, e.g. NewTexture2D(10, 10).
func NewTexture2D(shape ...int) (*Texture, error) {
	return NewTexture(wgpu.TextureDimension2D, withOptionalShape(shape)...)
}

// NewTexture3D creates a 3D texture with an optional initial shape.
func NewTexture3D(shape ...int) (*Texture, error) {
	return NewTexture(wgpu.TextureDimension3D, withOptionalShape(shape)...)
}

func withOptionalShape(shape []int) []TextureBuilderOption {
	if len(shape) == 0 {
		return nil
	}
	return []TextureBuilderOption{WithTextureShape(shape...)}
}

// Dimension returns the texture dimensionality.
func (t *Texture) Dimension() wgpu.TextureDimension {
	return t.dim
}

// Rank returns the number of spatial dimensions (1, 2 or 3).
func (t *Texture) Rank() int {
	return textureDims[t.dim]
}

// Shape returns a copy of the current storage shape, nil before any allocation.
func (t *Texture) Shape() []int {
	return slices.Clone(t.shape)
}

// Format returns the texel format of the current storage.
func (t *Texture) Format() wgpu.TextureFormat {
	return t.format
}

// Data returns the last uploaded payload.
func (t *Texture) Data() common.Array {
	return t.data
}

// Resize (re)allocates storage for the given shape, staging a SIZE command when it changes.
// The texel format is float32 with the channel count implied by the shape.
//
// Parameters:
//   - shape: the storage shape, see CheckTextureShape
//
// Returns:
//   - error: an ErrValue error for an invalid shape or a released texture
func (t *Texture) Resize(shape ...int) error {
	if err := t.checkLive(); err != nil {
		return err
	}
	if err := CheckTextureShape(t.Rank(), shape); err != nil {
		return err
	}
	t.resize(shape, common.Float32)
	return nil
}

// SetData uploads a payload, resizing the texture in place when the shape changes. The
// texture's identity is preserved, only its contents and storage change.
//
// Parameters:
//   - data: the texels; its shape must satisfy CheckTextureShape for this texture's rank
//
// Returns:
//   - error: an ErrValue error for an invalid shape or a released texture
func (t *Texture) SetData(data common.Array) error {
	if err := t.checkLive(); err != nil {
		return err
	}
	if err := CheckTextureShape(t.Rank(), data.Shape); err != nil {
		return err
	}
	t.resize(data.Shape, data.DType)
	t.data = data.Clone()
	t.command(glir.CommandData, 0, t.data)
	return nil
}

func (t *Texture) resize(shape []int, dtype common.DType) {
	format := textureFormat(channels(t.Rank(), shape), dtype)
	if slices.Equal(t.shape, shape) && format == t.format {
		return
	}
	t.shape = slices.Clone(shape)
	t.format = format
	t.command(glir.CommandSize, slices.Clone(shape), format)
}

// CheckTextureShape validates a texture storage shape. A texture of rank r accepts r extents
// (one channel) or r+1 extents where the last one is a channel count between 1 and 4. Every
// extent must be positive.
//
// Parameters:
//   - rank: the spatial rank (1, 2 or 3)
//   - shape: the shape to validate
//
// Returns:
//   - error: an ErrValue error describing the mismatch, nil if the shape is valid
func CheckTextureShape(rank int, shape []int) error {
	if len(shape) != rank && len(shape) != rank+1 {
		return common.ValueErrorf("a %dD texture needs %d or %d dimensions, got shape %v", rank, rank, rank+1, shape)
	}
	for _, s := range shape {
		if s <= 0 {
			return common.ValueErrorf("invalid texture shape %v", shape)
		}
	}
	if c := channels(rank, shape); c > 4 {
		return common.ValueErrorf("a texture holds at most 4 channels, got %d", c)
	}
	return nil
}

func channels(rank int, shape []int) int {
	if len(shape) == rank+1 {
		return shape[rank]
	}
	return 1
}

// textureFormat picks a 32-bit texel format; 3-channel data uses the 4-channel format and is
// padded by the executor.
func textureFormat(channels int, dtype common.DType) wgpu.TextureFormat {
	var formats [3]wgpu.TextureFormat
	switch dtype {
	case common.Int32, common.Bool:
		formats = [3]wgpu.TextureFormat{wgpu.TextureFormatR32Sint, wgpu.TextureFormatRG32Sint, wgpu.TextureFormatRGBA32Sint}
	case common.Uint8, common.Uint16, common.Uint32:
		formats = [3]wgpu.TextureFormat{wgpu.TextureFormatR32Uint, wgpu.TextureFormatRG32Uint, wgpu.TextureFormatRGBA32Uint}
	default:
		formats = [3]wgpu.TextureFormat{wgpu.TextureFormatR32Float, wgpu.TextureFormatRG32Float, wgpu.TextureFormatRGBA32Float}
	}
	switch channels {
	case 1:
		return formats[0]
	case 2:
		return formats[1]
	default:
		return formats[2]
	}
}
