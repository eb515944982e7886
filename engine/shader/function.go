package shader

import (
	"regexp"
	"strings"

	"github.com/Carmen-Shannon/oxy-gloo/common"
)

var (
	// signatureRegex matches "<return type> <name>(<args>) {" at the start of a template.
	signatureRegex = regexp.MustCompile(`(?s)^\s*(\w+)\s+(\w+)\s*\(([^)]*)\)\s*\{`)

	// placeholderRegex matches $name placeholders.
	placeholderRegex = regexp.MustCompile(`\$(\w+)`)

	identRegex = regexp.MustCompile(`^[A-Za-z_]\w*$`)
)

// Function is a GLSL function template. Placeholders are bound with Set; Compile substitutes the
// final names of the bound objects.
type Function struct {
	// code is the template as given; source is the same template without comments.
	code   string
	source string

	name       string
	returnType string
	args       string

	// placeholders lists the placeholder names in order of first appearance.
	placeholders []string
	bindings     map[string]any
	// owned marks placeholders bound to a uniform the function created for a literal.
	owned map[string]bool
}

// NewFunction parses a function template.
//
// Parameters:
//   - code: GLSL source of exactly one function, e.g. "vec4 pass(vec4 c) { return c; }"
//
// Returns:
//   - *Function: the template with every placeholder unbound
//   - error: an ErrValue error if the source does not start with a function signature
func NewFunction(code string) (*Function, error) {
	source := strings.TrimSpace(common.StripComments(code))
	m := signatureRegex.FindStringSubmatch(source)
	if m == nil {
		return nil, common.ValueErrorf("no function signature found in %q", firstLine(source))
	}
	f := &Function{
		code:       code,
		source:     source,
		returnType: m[1],
		name:       m[2],
		args:       strings.TrimSpace(m[3]),
		bindings:   make(map[string]any),
		owned:      make(map[string]bool),
	}
	seen := make(map[string]bool)
	for _, pm := range placeholderRegex.FindAllStringSubmatch(source, -1) {
		if !seen[pm[1]] {
			seen[pm[1]] = true
			f.placeholders = append(f.placeholders, pm[1])
		}
	}
	return f, nil
}

// MustFunction is like NewFunction but panics on error. It is meant for static templates.
func MustFunction(code string) *Function {
	f, err := NewFunction(code)
	if err != nil {
		panic(err)
	}
	return f
}

// Name returns the function name as written in the template.
func (f *Function) Name() string {
	return f.name
}

// Code returns the template as given.
func (f *Function) Code() string {
	return f.code
}

// Placeholders returns the placeholder names in order of first appearance.
func (f *Function) Placeholders() []string {
	return append([]string(nil), f.placeholders...)
}

// NoArgs reports whether the function takes no arguments and can be called from a hook.
func (f *Function) NoArgs() bool {
	return f.args == "" || f.args == "void"
}

// Set binds a placeholder.
//
// A *Variable or *Function is bound as given and shared with every other template bound to it.
// Any other value is a literal: it is stored in a uniform owned by this function, created on the
// first literal set with a type inferred from the value and updated in place afterwards. A nil
// value unbinds the placeholder.
//
// Parameters:
//   - name: the placeholder name without the leading $
//   - value: the object or literal to bind
//
// Returns:
//   - error: an ErrKey error for unknown placeholders, an ErrValue error for literals no GLSL
//     type can hold
func (f *Function) Set(name string, value any) error {
	if !f.hasPlaceholder(name) {
		return common.KeyErrorf("function %s has no placeholder $%s", f.name, name)
	}
	switch v := value.(type) {
	case nil:
		delete(f.bindings, name)
		delete(f.owned, name)
		return nil
	case *Variable:
		if v == nil {
			return common.ValueErrorf("cannot bind $%s to a nil variable", name)
		}
		f.bindings[name] = v
		delete(f.owned, name)
		return nil
	case *Function:
		if v == nil {
			return common.ValueErrorf("cannot bind $%s to a nil function", name)
		}
		f.bindings[name] = v
		delete(f.owned, name)
		return nil
	}

	arr, single, err := common.AsArray(value)
	if err != nil {
		return err
	}
	if !single {
		return common.ValueErrorf("$%s needs a single value, got %T", name, value)
	}
	if f.owned[name] {
		u := f.bindings[name].(*Variable)
		if u.typ.Size() == arr.Size() {
			return u.SetValue(value)
		}
	}
	t, err := common.InferGLSLType(arr)
	if err != nil {
		return err
	}
	u, err := NewUniform(name, t.Name)
	if err != nil {
		return err
	}
	if err := u.SetValue(value); err != nil {
		return err
	}
	f.bindings[name] = u
	f.owned[name] = true
	return nil
}

// Get returns the object bound to a placeholder, nil if it is unbound.
//
// Returns:
//   - any: a *Variable, a *Function or nil
//   - error: an ErrKey error for unknown placeholders
func (f *Function) Get(name string) (any, error) {
	if !f.hasPlaceholder(name) {
		return nil, common.KeyErrorf("function %s has no placeholder $%s", f.name, name)
	}
	return f.bindings[name], nil
}

// Bound reports whether a placeholder is bound.
func (f *Function) Bound(name string) bool {
	_, ok := f.bindings[name]
	return ok
}

// BoundFunction returns the function bound to a placeholder.
//
// Returns:
//   - *Function: the bound function
//   - bool: false if the placeholder does not exist, is unbound or holds a variable
func (f *Function) BoundFunction(name string) (*Function, bool) {
	fn, ok := f.bindings[name].(*Function)
	return fn, ok
}

// BoundVariable returns the variable bound to a placeholder.
//
// Returns:
//   - *Variable: the bound variable
//   - bool: false if the placeholder does not exist, is unbound or holds a function
func (f *Function) BoundVariable(name string) (*Variable, bool) {
	v, ok := f.bindings[name].(*Variable)
	return v, ok
}

func (f *Function) hasPlaceholder(name string) bool {
	for _, p := range f.placeholders {
		if p == name {
			return true
		}
	}
	return false
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
