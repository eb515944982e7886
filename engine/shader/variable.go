// Package shader composes GLSL programs out of function templates. A template is a GLSL function
// whose source contains $name placeholders; each placeholder is bound to a Variable, to another
// Function or, in a stage's main template, to a Hook listing functions to call. Compile resolves
// every placeholder, gives each distinct object a unique GLSL name and renders the vertex and
// fragment sources.
package shader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-gloo/common"
)

// Variable is a shader variable referenced from function templates. Its name is a preferred name:
// Compile may suffix it to keep names unique.
type Variable struct {
	kind  common.VariableKind
	name  string
	typ   common.GLSLType
	value *common.Array
}

func newVariable(kind common.VariableKind, name, glslType string) (*Variable, error) {
	if !identRegex.MatchString(name) {
		return nil, common.ValueErrorf("invalid variable name %q", name)
	}
	t, ok := common.LookupGLSLType(glslType)
	if !ok {
		return nil, common.ValueErrorf("unsupported GLSL type %q", glslType)
	}
	return &Variable{kind: kind, name: name, typ: t}, nil
}

// NewUniform creates a uniform variable of the given GLSL type.
func NewUniform(name, glslType string) (*Variable, error) {
	return newVariable(common.KindUniform, name, glslType)
}

// NewAttribute creates a per-vertex attribute. Attributes may only be referenced from the vertex stage.
func NewAttribute(name, glslType string) (*Variable, error) {
	t, ok := common.LookupGLSLType(glslType)
	if ok && t.IsSampler() {
		return nil, common.ValueErrorf("attribute %q cannot be a %s", name, glslType)
	}
	return newVariable(common.KindAttribute, name, glslType)
}

// NewVarying creates a variable written by the vertex stage and read by the fragment stage.
func NewVarying(name, glslType string) (*Variable, error) {
	return newVariable(common.KindVarying, name, glslType)
}

// NewConst creates a compile-time constant.
//
// Parameters:
//   - name: the preferred GLSL name
//   - glslType: a non-sampler GLSL type
//   - value: the constant value, see Variable.SetValue
//
// Returns:
//   - *Variable: the constant
//   - error: an ErrValue error for an invalid name, type or value
func NewConst(name, glslType string, value any) (*Variable, error) {
	v, err := newVariable(common.KindConst, name, glslType)
	if err != nil {
		return nil, err
	}
	if err := v.SetValue(value); err != nil {
		return nil, err
	}
	return v, nil
}

// Name returns the preferred name of the variable.
func (v *Variable) Name() string {
	return v.name
}

// Kind returns the variable kind.
func (v *Variable) Kind() common.VariableKind {
	return v.kind
}

// Type returns the GLSL type of the variable.
func (v *Variable) Type() common.GLSLType {
	return v.typ
}

// Value returns the host value of a uniform or constant.
//
// Returns:
//   - common.Array: the value shaped like the variable's type
//   - bool: false if no value was set
func (v *Variable) Value() (common.Array, bool) {
	if v.value == nil {
		return common.Array{}, false
	}
	return v.value.Clone(), true
}

// SetValue stores the host value of a uniform or constant.
//
// Parameters:
//   - value: a single value accepted by common.AsArray with as many elements as the type holds
//
// Returns:
//   - error: an ErrKey error for attributes and varyings, an ErrValue error for samplers and
//     values of the wrong size
func (v *Variable) SetValue(value any) error {
	if v.kind != common.KindUniform && v.kind != common.KindConst {
		return common.KeyErrorf("%s %q has no host value", v.kind, v.name)
	}
	if v.typ.IsSampler() {
		return common.ValueErrorf("%s %q is bound through the program, not the composer", v.typ.Name, v.name)
	}
	arr, _, err := common.AsArray(value)
	if err != nil {
		return err
	}
	if arr.Size() != v.typ.Size() {
		return common.ValueErrorf("%s %q needs %d values, got %d", v.typ.Name, v.name, v.typ.Size(), arr.Size())
	}
	v.value = &common.Array{Data: append([]float32(nil), arr.Data...), Shape: v.typ.Shape(), DType: v.typ.DType()}
	return nil
}

// declaration renders the GLSL declaration of the variable under its final name.
func (v *Variable) declaration(name string) string {
	if v.kind == common.KindConst {
		return fmt.Sprintf("const %s %s = %s;", v.typ.Name, name, glslLiteral(v.typ, *v.value))
	}
	return fmt.Sprintf("%s %s %s;", v.kind, v.typ.Name, name)
}

// glslLiteral formats a value as a GLSL constructor expression, e.g. vec3(1.0, 0.5, 0.0).
func glslLiteral(t common.GLSLType, a common.Array) string {
	parts := make([]string, len(a.Data))
	for i, x := range a.Data {
		switch t.Base {
		case common.BaseInt:
			parts[i] = strconv.Itoa(int(x))
		case common.BaseBool:
			parts[i] = strconv.FormatBool(x != 0)
		default:
			parts[i] = FormatFloat(x)
		}
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return t.Name + "(" + strings.Join(parts, ", ") + ")"
}

// FormatFloat formats x as a GLSL float literal, always with a decimal point or exponent.
func FormatFloat(x float32) string {
	s := strconv.FormatFloat(float64(x), 'g', -1, 32)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}
