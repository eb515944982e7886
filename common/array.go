package common

import (
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// Array is a dense row-major numeric payload with an explicit shape. It is the converted form
// of every host value bound to a shader variable and the data carried by resource uploads.
type Array struct {
	// Data holds the elements in row-major order. Integer and bool payloads are stored as float32
	// and tagged through DType.
	Data []float32 `yaml:"data"`

	// Shape lists the extent of each dimension. An empty shape is a scalar holding one element.
	Shape []int `yaml:"shape,flow"`

	// DType is the element type the data is uploaded as.
	DType DType `yaml:"dtype"`
}

// NewArray wraps data into a float32 Array. When no shape is given the array is one-dimensional.
//
// Parameters:
//   - data: the element values in row-major order
//   - shape: the optional extents, their product must equal len(data)
//
// Returns:
//   - Array: the array
//   - error: an ErrValue error if shape does not match the element count
func NewArray(data []float32, shape ...int) (Array, error) {
	if len(shape) == 0 {
		shape = []int{len(data)}
	}
	if shapeSize(shape) != len(data) {
		return Array{}, ValueErrorf("cannot shape %d elements as %v", len(data), shape)
	}
	return Array{Data: data, Shape: slices.Clone(shape), DType: Float32}, nil
}

// Zeros creates a float32 array of the given shape filled with zeros.
func Zeros(shape ...int) Array {
	return Array{Data: make([]float32, shapeSize(shape)), Shape: slices.Clone(shape), DType: Float32}
}

// Ones creates a float32 array of the given shape filled with ones.
func Ones(shape ...int) Array {
	a := Zeros(shape...)
	for i := range a.Data {
		a.Data[i] = 1
	}
	return a
}

// Size returns the total number of elements.
func (a Array) Size() int {
	return len(a.Data)
}

// Ndim returns the number of dimensions, 0 for scalars.
func (a Array) Ndim() int {
	return len(a.Shape)
}

// Clone returns a deep copy of the array.
func (a Array) Clone() Array {
	return Array{Data: slices.Clone(a.Data), Shape: slices.Clone(a.Shape), DType: a.DType}
}

// Reshape returns a view of the same data with a new shape.
//
// Parameters:
//   - shape: the new extents, their product must equal Size()
//
// Returns:
//   - Array: the reshaped array sharing a's data
//   - error: an ErrValue error if the element counts differ
func (a Array) Reshape(shape ...int) (Array, error) {
	if shapeSize(shape) != len(a.Data) {
		return Array{}, ValueErrorf("cannot reshape %v into %v", a.Shape, shape)
	}
	return Array{Data: a.Data, Shape: slices.Clone(shape), DType: a.DType}, nil
}

// Equal reports whether both arrays have the same dtype, shape and elements.
func (a Array) Equal(b Array) bool {
	return a.DType == b.DType && slices.Equal(a.Shape, b.Shape) && slices.Equal(a.Data, b.Data)
}

// Cast returns a copy of the array converted to dtype. Integer dtypes truncate toward zero and
// Bool maps every non-zero element to 1.
//
// Parameters:
//   - dtype: the target element type
//
// Returns:
//   - Array: the converted copy
//   - error: an ErrValue error if an element does not fit an unsigned dtype
func (a Array) Cast(dtype DType) (Array, error) {
	out := Array{Data: make([]float32, len(a.Data)), Shape: slices.Clone(a.Shape), DType: dtype}
	for i, x := range a.Data {
		switch dtype {
		case Float32:
			out.Data[i] = x
		case Bool:
			if x != 0 {
				out.Data[i] = 1
			}
		case Int32:
			out.Data[i] = float32(math.Trunc(float64(x)))
		case Uint8, Uint16, Uint32:
			if x < 0 || float64(x) > dtypeMax[dtype] {
				return Array{}, ValueErrorf("element %v does not fit %s", x, dtype)
			}
			out.Data[i] = float32(math.Trunc(float64(x)))
		default:
			return Array{}, ValueErrorf("cannot cast to %s", dtype)
		}
	}
	return out, nil
}

var dtypeMax = map[DType]float64{
	Uint8:  math.MaxUint8,
	Uint16: math.MaxUint16,
	Uint32: math.MaxUint32,
}

// AsArray converts a host value into an Array.
//
// Scalars, fixed-size Go arrays and mathgl vectors/matrices are single values: one uniform
// value, or one value broadcast to every vertex of an attribute. Slices and Arrays are data
// arrays: per-vertex or per-texel payloads. The returned bool reports which of the two the value is.
//
// Parameters:
//   - value: the host value
//
// Returns:
//   - Array: the converted array
//   - bool: true when value is a single value rather than a data array
//   - error: an ErrValue error for unsupported Go types
func AsArray(value any) (Array, bool, error) {
	switch v := value.(type) {
	case Array:
		return v, false, nil
	case *Array:
		if v == nil {
			return Array{}, false, ValueErrorf("nil array")
		}
		return *v, false, nil
	case float32:
		return scalar(v, Float32), true, nil
	case float64:
		return scalar(float32(v), Float32), true, nil
	case int:
		return scalar(float32(v), Int32), true, nil
	case int32:
		return scalar(float32(v), Int32), true, nil
	case uint32:
		return scalar(float32(v), Uint32), true, nil
	case bool:
		if v {
			return scalar(1, Bool), true, nil
		}
		return scalar(0, Bool), true, nil
	case [2]float32:
		return single(v[:]), true, nil
	case [3]float32:
		return single(v[:]), true, nil
	case [4]float32:
		return single(v[:]), true, nil
	case [9]float32:
		return single(v[:]), true, nil
	case [16]float32:
		return single(v[:]), true, nil
	case mgl32.Vec2:
		return single(v[:]), true, nil
	case mgl32.Vec3:
		return single(v[:]), true, nil
	case mgl32.Vec4:
		return single(v[:]), true, nil
	case mgl32.Mat2:
		return matrix(v[:], 2), true, nil
	case mgl32.Mat3:
		return matrix(v[:], 3), true, nil
	case mgl32.Mat4:
		return matrix(v[:], 4), true, nil
	case []float32:
		return Array{Data: slices.Clone(v), Shape: []int{len(v)}, DType: Float32}, false, nil
	case []float64:
		return fromSlice(v, Float32), false, nil
	case []int:
		return fromSlice(v, Int32), false, nil
	case []int32:
		return fromSlice(v, Int32), false, nil
	case []uint8:
		return fromSlice(v, Uint8), false, nil
	case []uint16:
		return fromSlice(v, Uint16), false, nil
	case []uint32:
		return fromSlice(v, Uint32), false, nil
	default:
		return Array{}, false, ValueErrorf("cannot convert %T to an array", value)
	}
}

func scalar(v float32, dtype DType) Array {
	return Array{Data: []float32{v}, Shape: []int{}, DType: dtype}
}

func single(v []float32) Array {
	return Array{Data: slices.Clone(v), Shape: []int{len(v)}, DType: Float32}
}

// matrix keeps the column-major element order mathgl uses, which is also the order GL expects.
func matrix(v []float32, n int) Array {
	return Array{Data: slices.Clone(v), Shape: []int{n, n}, DType: Float32}
}

func fromSlice[T int | int32 | uint8 | uint16 | uint32 | float64](v []T, dtype DType) Array {
	data := make([]float32, len(v))
	for i, x := range v {
		data[i] = float32(x)
	}
	return Array{Data: data, Shape: []int{len(v)}, DType: dtype}
}

func shapeSize(shape []int) int {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return n
}
