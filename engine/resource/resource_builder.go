package resource

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-gloo/common"
)

// textureBuild collects texture options before the texture is allocated, so that the staged
// commands reflect only the final configuration.
type textureBuild struct {
	shape []int
	data  *common.Array
}

// TextureBuilderOption is a functional option used to configure a Texture during construction.
type TextureBuilderOption func(*textureBuild)

// WithTextureShape allocates storage of the given shape without uploading data.
//
// Parameters:
//   - shape: the storage shape, see CheckTextureShape
//
// Returns:
//   - TextureBuilderOption: a function that sets the initial shape
func WithTextureShape(shape ...int) TextureBuilderOption {
	return func(b *textureBuild) {
		b.shape = slices.Clone(shape)
	}
}

// WithTextureData allocates storage matching the data's shape and uploads it.
// It takes precedence over WithTextureShape.
//
// Parameters:
//   - data: the initial texels
//
// Returns:
//   - TextureBuilderOption: a function that sets the initial data
func WithTextureData(data common.Array) TextureBuilderOption {
	return func(b *textureBuild) {
		b.data = &data
	}
}

// vertexBufferBuild collects vertex buffer options before construction.
type vertexBufferBuild struct {
	data *common.Array
}

// VertexBufferBuilderOption is a functional option used to configure a VertexBuffer during construction.
type VertexBufferBuilderOption func(*vertexBufferBuild)

// WithVertexData uploads initial vertex data.
//
// Parameters:
//   - data: shape [N] for scalar attributes or [N components]
//
// Returns:
//   - VertexBufferBuilderOption: a function that sets the initial data
func WithVertexData(data common.Array) VertexBufferBuilderOption {
	return func(b *vertexBufferBuild) {
		b.data = &data
	}
}
