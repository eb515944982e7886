package common

import "strings"

// BaseType is the scalar class of a GLSL type.
type BaseType int

const (
	BaseFloat BaseType = iota
	BaseInt
	BaseBool
	BaseSampler
)

// GLSLType describes a GLSL type that can be bound from the host.
type GLSLType struct {
	// Name is the GLSL spelling of the type, e.g. "vec4" or "sampler2D".
	Name string

	// Base is the scalar class of the type.
	Base BaseType

	// Rows and Cols give the value layout: 1x1 for scalars, Nx1 for vectors, NxN for matrices.
	// Samplers use 1x1.
	Rows, Cols int

	// SamplerDim is the texture dimensionality (1, 2 or 3) for samplers, 0 otherwise.
	SamplerDim int
}

// glslTypeMap maps GLSL type names to their descriptions.
var glslTypeMap = map[string]GLSLType{
	"float":     {Name: "float", Base: BaseFloat, Rows: 1, Cols: 1},
	"vec2":      {Name: "vec2", Base: BaseFloat, Rows: 2, Cols: 1},
	"vec3":      {Name: "vec3", Base: BaseFloat, Rows: 3, Cols: 1},
	"vec4":      {Name: "vec4", Base: BaseFloat, Rows: 4, Cols: 1},
	"int":       {Name: "int", Base: BaseInt, Rows: 1, Cols: 1},
	"ivec2":     {Name: "ivec2", Base: BaseInt, Rows: 2, Cols: 1},
	"ivec3":     {Name: "ivec3", Base: BaseInt, Rows: 3, Cols: 1},
	"ivec4":     {Name: "ivec4", Base: BaseInt, Rows: 4, Cols: 1},
	"bool":      {Name: "bool", Base: BaseBool, Rows: 1, Cols: 1},
	"bvec2":     {Name: "bvec2", Base: BaseBool, Rows: 2, Cols: 1},
	"bvec3":     {Name: "bvec3", Base: BaseBool, Rows: 3, Cols: 1},
	"bvec4":     {Name: "bvec4", Base: BaseBool, Rows: 4, Cols: 1},
	"mat2":      {Name: "mat2", Base: BaseFloat, Rows: 2, Cols: 2},
	"mat3":      {Name: "mat3", Base: BaseFloat, Rows: 3, Cols: 3},
	"mat4":      {Name: "mat4", Base: BaseFloat, Rows: 4, Cols: 4},
	"sampler1D": {Name: "sampler1D", Base: BaseSampler, Rows: 1, Cols: 1, SamplerDim: 1},
	"sampler2D": {Name: "sampler2D", Base: BaseSampler, Rows: 1, Cols: 1, SamplerDim: 2},
	"sampler3D": {Name: "sampler3D", Base: BaseSampler, Rows: 1, Cols: 1, SamplerDim: 3},
}

// LookupGLSLType returns the description of a GLSL type name.
//
// Parameters:
//   - name: the GLSL type name as written in source
//
// Returns:
//   - GLSLType: the type description
//   - bool: false if the type is not one the host can bind (structs, images, etc.)
func LookupGLSLType(name string) (GLSLType, bool) {
	t, ok := glslTypeMap[name]
	return t, ok
}

// Size returns the number of scalar elements in one value of the type.
func (t GLSLType) Size() int {
	return t.Rows * t.Cols
}

// IsSampler reports whether the type is a texture sampler.
func (t GLSLType) IsSampler() bool {
	return t.Base == BaseSampler
}

// IsMatrix reports whether the type is a square matrix.
func (t GLSLType) IsMatrix() bool {
	return t.Cols > 1
}

// DType returns the element type host values of this type are converted to.
func (t GLSLType) DType() DType {
	switch t.Base {
	case BaseInt:
		return Int32
	case BaseBool:
		return Bool
	default:
		return Float32
	}
}

// Shape returns the array shape of one value: [] for scalars, [n] for vectors, [n n] for matrices.
func (t GLSLType) Shape() []int {
	switch {
	case t.IsMatrix():
		return []int{t.Rows, t.Cols}
	case t.Rows > 1:
		return []int{t.Rows}
	default:
		return []int{}
	}
}

// InferGLSLType picks the GLSL type for a literal value: scalars keep their base type,
// 2-4 elements become vectors, 9 and 16 elements become mat3 and mat4.
//
// Parameters:
//   - a: the literal converted with AsArray
//
// Returns:
//   - GLSLType: the inferred type
//   - error: an ErrValue error if no GLSL type holds that many elements
func InferGLSLType(a Array) (GLSLType, error) {
	prefix := ""
	base := "float"
	switch a.DType {
	case Int32, Uint8, Uint16, Uint32:
		prefix, base = "i", "int"
	case Bool:
		prefix, base = "b", "bool"
	}
	switch n := a.Size(); {
	case n == 1:
		return glslTypeMap[base], nil
	case n >= 2 && n <= 4:
		return glslTypeMap[prefix+"vec"+string(rune('0'+n))], nil
	case n == 9 && prefix == "":
		return glslTypeMap["mat3"], nil
	case n == 16 && prefix == "":
		return glslTypeMap["mat4"], nil
	default:
		return GLSLType{}, ValueErrorf("no GLSL type holds %d %s elements", n, a.DType)
	}
}

// StripComments removes // and /* */ comments from GLSL source. Block comments do not nest and
// are replaced by a single space so that tokens on either side stay apart.
func StripComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	for i := 0; i < len(source); i++ {
		if i+1 < len(source) && source[i] == '/' {
			switch source[i+1] {
			case '/':
				end := strings.IndexByte(source[i:], '\n')
				if end < 0 {
					return sb.String()
				}
				i += end - 1
				continue
			case '*':
				end := strings.Index(source[i+2:], "*/")
				if end < 0 {
					return sb.String()
				}
				i += end + 3
				sb.WriteByte(' ')
				continue
			}
		}
		sb.WriteByte(source[i])
	}
	return sb.String()
}
