package shader

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Carmen-Shannon/oxy-gloo/common"
)

// hookLineRegex matches a line holding nothing but a placeholder, e.g. "    $post".
var hookLineRegex = regexp.MustCompile(`^(\s*)\$(\w+)\s*;?\s*$`)

// Stage is the input of one shader stage: the main template and the hooks its unbound
// placeholders expand to.
type Stage struct {
	Main  *Function
	Hooks map[string]*Hook
}

// Output is the result of Compile.
type Output struct {
	Vertex   string
	Fragment string

	// Uniforms maps the final GLSL names of the uniforms used by either stage to their variables.
	Uniforms map[string]*Variable
}

// Values returns the host values of every uniform that has one, keyed by final GLSL name.
func (o *Output) Values() map[string]common.Array {
	out := make(map[string]common.Array, len(o.Uniforms))
	for name, v := range o.Uniforms {
		if val, ok := v.Value(); ok {
			out[name] = val
		}
	}
	return out
}

type stageDeps struct {
	// functions holds every function reachable from main except main itself, dependencies first.
	functions []*Function
	variables []*Variable
}

type compiler struct {
	names map[any]string
	used  map[string]bool
}

// Compile renders a vertex/fragment pair from their main templates.
//
// Every function and variable reachable from either main template is collected. Each distinct
// object receives one GLSL name, unique across both stages: its preferred name, suffixed with
// _1, _2, ... on collision. The same object used in both stages, such as a varying, keeps the
// same name in each. A stage renders as declarations, then dependency functions, then main.
// Unbound placeholders of a main template that name one of the stage's hooks expand to calls of
// the hook's functions.
//
// Parameters:
//   - vertex: the vertex stage
//   - fragment: the fragment stage
//
// Returns:
//   - *Output: the rendered sources and the uniforms they declare
//   - error: an ErrValue error for unbound placeholders, dependency cycles or attributes
//     referenced from the fragment stage
func Compile(vertex, fragment Stage) (*Output, error) {
	c := &compiler{names: make(map[any]string), used: map[string]bool{"main": true}}

	vdeps, err := collect(vertex)
	if err != nil {
		return nil, fmt.Errorf("vertex stage: %w", err)
	}
	fdeps, err := collect(fragment)
	if err != nil {
		return nil, fmt.Errorf("fragment stage: %w", err)
	}
	for _, v := range fdeps.variables {
		if v.kind == common.KindAttribute {
			return nil, common.ValueErrorf("fragment stage: attribute %q is only available to the vertex stage", v.name)
		}
	}

	for _, d := range []*stageDeps{vdeps, fdeps} {
		for _, v := range d.variables {
			c.assign(v, v.name)
		}
		for _, f := range d.functions {
			c.assign(f, f.name)
		}
	}

	out := &Output{
		Vertex:   c.renderStage(vertex, vdeps),
		Fragment: c.renderStage(fragment, fdeps),
		Uniforms: make(map[string]*Variable),
	}
	for _, d := range []*stageDeps{vdeps, fdeps} {
		for _, v := range d.variables {
			if v.kind == common.KindUniform {
				out.Uniforms[c.names[v]] = v
			}
		}
	}
	return out, nil
}

func collect(st Stage) (*stageDeps, error) {
	if st.Main == nil {
		return nil, common.ValueErrorf("missing main template")
	}
	d := &stageDeps{}
	const (
		visiting = 1
		done     = 2
	)
	state := make(map[*Function]int)
	seen := make(map[*Variable]bool)

	var visit func(f *Function) error
	visit = func(f *Function) error {
		switch state[f] {
		case visiting:
			return common.ValueErrorf("function %s depends on itself", f.name)
		case done:
			return nil
		}
		state[f] = visiting
		for _, name := range f.placeholders {
			switch b := f.bindings[name].(type) {
			case *Variable:
				if !seen[b] {
					seen[b] = true
					d.variables = append(d.variables, b)
				}
			case *Function:
				if err := visit(b); err != nil {
					return err
				}
			default:
				hook, ok := st.Hooks[name]
				if !ok || f != st.Main {
					return common.ValueErrorf("placeholder $%s of function %s is not bound", name, f.name)
				}
				for _, hf := range hook.Functions() {
					if err := visit(hf); err != nil {
						return err
					}
				}
			}
		}
		state[f] = done
		if f != st.Main {
			d.functions = append(d.functions, f)
		}
		return nil
	}
	if err := visit(st.Main); err != nil {
		return nil, err
	}
	return d, nil
}

func (c *compiler) assign(obj any, preferred string) {
	if _, ok := c.names[obj]; ok {
		return
	}
	name := preferred
	for i := 1; c.used[name]; i++ {
		name = fmt.Sprintf("%s_%d", preferred, i)
	}
	c.used[name] = true
	c.names[obj] = name
}

func (c *compiler) renderStage(st Stage, d *stageDeps) string {
	var sb strings.Builder
	for _, v := range d.variables {
		sb.WriteString(v.declaration(c.names[v]))
		sb.WriteByte('\n')
	}
	if len(d.variables) > 0 {
		sb.WriteByte('\n')
	}
	for _, f := range d.functions {
		sb.WriteString(c.renderFunction(f, c.names[f], nil))
		sb.WriteString("\n\n")
	}
	sb.WriteString(c.renderFunction(st.Main, "main", st.Hooks))
	sb.WriteByte('\n')
	return sb.String()
}

func (c *compiler) renderFunction(f *Function, name string, hooks map[string]*Hook) string {
	src := f.source
	loc := signatureRegex.FindStringSubmatchIndex(src)
	src = src[:loc[4]] + name + src[loc[5]:]

	if len(hooks) > 0 {
		lines := strings.Split(src, "\n")
		out := make([]string, 0, len(lines))
		for _, line := range lines {
			m := hookLineRegex.FindStringSubmatch(line)
			if m == nil || f.Bound(m[2]) || hooks[m[2]] == nil {
				out = append(out, line)
				continue
			}
			for _, hf := range hooks[m[2]].Functions() {
				out = append(out, m[1]+c.names[hf]+"();")
			}
		}
		src = strings.Join(out, "\n")
	}

	return placeholderRegex.ReplaceAllStringFunc(src, func(ph string) string {
		key := ph[1:]
		switch b := f.bindings[key].(type) {
		case *Variable:
			return c.names[b]
		case *Function:
			return c.names[b]
		}
		if hook := hooks[key]; hook != nil {
			calls := make([]string, 0, len(hook.entries))
			for _, hf := range hook.Functions() {
				calls = append(calls, c.names[hf]+"();")
			}
			return strings.Join(calls, " ")
		}
		return ph
	})
}
