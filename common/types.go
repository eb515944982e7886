// package common contains common types that are used throughout this module. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types shared by the program, resource and composer packages.
package common

import "fmt"

// VariableKind is the storage qualifier of a shader variable.
type VariableKind int

const (
	// KindUniform is a per-draw constant set from the host.
	KindUniform VariableKind = iota

	// KindAttribute is a per-vertex input fed from a vertex buffer or a constant value.
	KindAttribute

	// KindVarying is an interpolated value written by the vertex stage and read by the fragment stage.
	// Varyings are never set from the host.
	KindVarying

	// KindConst is a compile-time constant declared in source. Constants are never set from the host.
	KindConst
)

var variableKindNames = [...]string{
	KindUniform:   "uniform",
	KindAttribute: "attribute",
	KindVarying:   "varying",
	KindConst:     "const",
}

// String returns the GLSL qualifier keyword for the kind.
func (k VariableKind) String() string {
	if k < 0 || int(k) >= len(variableKindNames) {
		return fmt.Sprintf("VariableKind(%d)", int(k))
	}
	return variableKindNames[k]
}

// Settable reports whether values of this kind can be bound from the host.
//
// Returns:
//   - bool: true for uniforms and attributes, false for varyings and constants
func (k VariableKind) Settable() bool {
	switch k {
	case KindUniform, KindAttribute:
		return true
	default:
		return false
	}
}

// ParseVariableKind converts a GLSL qualifier keyword into a VariableKind.
//
// Parameters:
//   - s: one of "uniform", "attribute", "varying" or "const"
//
// Returns:
//   - VariableKind: the parsed kind
//   - error: an ErrValue error if s is not a known qualifier
func ParseVariableKind(s string) (VariableKind, error) {
	for k, name := range variableKindNames {
		if name == s {
			return VariableKind(k), nil
		}
	}
	return 0, ValueErrorf("unknown variable kind %q", s)
}

// DType is the element type of a host array or GPU resource.
type DType int

const (
	Float32 DType = iota
	Int32
	Uint8
	Uint16
	Uint32
	Bool
)

var dtypeNames = [...]string{
	Float32: "float32",
	Int32:   "int32",
	Uint8:   "uint8",
	Uint16:  "uint16",
	Uint32:  "uint32",
	Bool:    "bool",
}

func (d DType) String() string {
	if d < 0 || int(d) >= len(dtypeNames) {
		return fmt.Sprintf("DType(%d)", int(d))
	}
	return dtypeNames[d]
}

// ByteSize returns the size in bytes of a single element of this dtype as uploaded to the GPU.
// Bools are uploaded as 32-bit integers.
func (d DType) ByteSize() int {
	switch d {
	case Uint8:
		return 1
	case Uint16:
		return 2
	default:
		return 4
	}
}

// MarshalText lets dtypes appear by name in YAML and TOML documents.
func (d DType) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
