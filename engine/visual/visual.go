// Package visual provides the host object filters attach to: a pair of main shader templates
// with named hook points, compiled into a program on draw.
package visual

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/Carmen-Shannon/oxy-gloo/common"
	"github.com/Carmen-Shannon/oxy-gloo/engine/glir"
	"github.com/Carmen-Shannon/oxy-gloo/engine/program"
	"github.com/Carmen-Shannon/oxy-gloo/engine/resource"
	"github.com/Carmen-Shannon/oxy-gloo/engine/shader"
)

// Stage names a shader stage.
type Stage string

const (
	StageVertex   Stage = "vert"
	StageFragment Stage = "frag"
)

// Phase names a hook point of a main template, expanded from the $pre and $post placeholders.
type Phase string

const (
	PhasePre  Phase = "pre"
	PhasePost Phase = "post"
)

type hookKey struct {
	stage Stage
	phase Phase
}

// Filter is a shader snippet set that can be attached to visuals.
type Filter interface {
	// Attach inserts the filter's functions into the host's hooks and wires its placeholders.
	//
	// Parameters:
	//   - host: the visual to attach to
	//
	// Returns:
	//   - error: an error if the host lacks the hooks or variables the filter needs
	Attach(host Visual) error

	// Detach removes the filter's functions from the host and restores anything it replaced.
	//
	// Parameters:
	//   - host: the visual the filter is attached to
	//
	// Returns:
	//   - error: an ErrValue error if the filter is not attached to host
	Detach(host Visual) error
}

// visual is the implementation of the Visual interface.
type visual struct {
	handle   Handle
	registry *Registry
	logger   *slog.Logger
	queue    glir.Queue

	vert  *shader.Function
	frag  *shader.Function
	hooks map[hookKey]*shader.Hook

	filters []Filter
	program program.Program

	// vertex and fragment are the sources last handed to the program, uniforms the values.
	vertex   string
	fragment string
	uniforms map[string]common.Array
}

// Visual defines the interface for a drawable object composed from shader templates.
//
// The vertex and fragment main templates may contain $pre and $post placeholders; each one
// present becomes a hook that filters add functions to. Other placeholders are bound through
// Vert() and Frag(). Draw composes the final sources, hands them to the visual's program and
// draws.
type Visual interface {
	// Handle returns the visual's handle in its registry.
	//
	// Returns:
	//   - Handle: the non-owning handle
	Handle() Handle

	// Vert returns the vertex main template.
	//
	// Returns:
	//   - *shader.Function: the template
	Vert() *shader.Function

	// Frag returns the fragment main template.
	//
	// Returns:
	//   - *shader.Function: the template
	Frag() *shader.Function

	// Hook returns the hook for a stage and phase.
	//
	// Parameters:
	//   - stage: StageVertex or StageFragment
	//   - phase: PhasePre or PhasePost
	//
	// Returns:
	//   - *shader.Hook: the hook
	//   - error: an ErrValue error if the stage template has no placeholder for the phase
	Hook(stage Stage, phase Phase) (*shader.Hook, error)

	// Attach attaches a filter. Attaching the same filter twice is an error.
	//
	// Parameters:
	//   - f: the filter
	//
	// Returns:
	//   - error: the filter's attach error, or an ErrValue error if f is already attached
	Attach(f Filter) error

	// Detach detaches a filter.
	//
	// Parameters:
	//   - f: the filter
	//
	// Returns:
	//   - error: an ErrValue error if f is not attached
	Detach(f Filter) error

	// Filters returns the attached filters in attach order.
	//
	// Returns:
	//   - []Filter: a copy of the attached filters
	Filters() []Filter

	// Set binds a value in the visual's program, e.g. vertex data for an attribute declared by
	// the templates. Names not declared yet are kept until the next Draw declares them.
	//
	// Parameters:
	//   - name: the final GLSL name
	//   - value: the host value
	//
	// Returns:
	//   - error: the program's binding error
	Set(name string, value any) error

	// Compile composes the current vertex and fragment sources.
	//
	// Returns:
	//   - *shader.Output: the composed sources and uniforms
	//   - error: the composer error
	Compile() (*shader.Output, error)

	// Draw composes the sources, updates the program when they changed, pushes the composer's
	// uniform values and draws.
	//
	// Parameters:
	//   - mode: the primitive mode
	//   - indices: nil or an index buffer
	//
	// Returns:
	//   - error: a composer or program error
	Draw(mode program.PrimitiveMode, indices resource.Resource) error

	// Program returns the program the visual draws with.
	//
	// Returns:
	//   - program.Program: the program
	Program() program.Program

	// Release frees the program and unregisters the visual.
	Release()
}

var _ Visual = &visual{}

// NewVisual creates a Visual from vertex and fragment main templates, configured with the
// provided options.
//
// Parameters:
//   - vertexTemplate: the vertex main function template
//   - fragmentTemplate: the fragment main function template
//   - options: variadic list of VisualBuilderOption functions
//
// Returns:
//   - Visual: the new visual
//   - error: an ErrValue error for templates without a function signature
func NewVisual(vertexTemplate, fragmentTemplate string, options ...VisualBuilderOption) (Visual, error) {
	vert, err := shader.NewFunction(vertexTemplate)
	if err != nil {
		return nil, fmt.Errorf("vertex template: %w", err)
	}
	frag, err := shader.NewFunction(fragmentTemplate)
	if err != nil {
		return nil, fmt.Errorf("fragment template: %w", err)
	}
	v := &visual{
		vert:     vert,
		frag:     frag,
		hooks:    make(map[hookKey]*shader.Hook),
		uniforms: make(map[string]common.Array),
	}
	for _, opt := range options {
		opt(v)
	}
	if v.registry == nil {
		v.registry = DefaultRegistry
	}
	if v.logger == nil {
		v.logger = slog.New(slog.DiscardHandler)
	}
	if v.queue == nil {
		v.queue = glir.NewQueue()
	}

	for _, st := range []struct {
		stage Stage
		fn    *shader.Function
	}{{StageVertex, vert}, {StageFragment, frag}} {
		for _, ph := range []Phase{PhasePre, PhasePost} {
			if slices.Contains(st.fn.Placeholders(), string(ph)) {
				v.hooks[hookKey{st.stage, ph}] = shader.NewHook(string(ph))
			}
		}
	}

	p, err := program.NewProgram("", "", program.WithQueue(v.queue), program.WithLogger(v.logger))
	if err != nil {
		return nil, err
	}
	v.program = p
	v.handle = v.registry.Register(v)
	return v, nil
}

func (v *visual) Handle() Handle {
	return v.handle
}

func (v *visual) Vert() *shader.Function {
	return v.vert
}

func (v *visual) Frag() *shader.Function {
	return v.frag
}

func (v *visual) Hook(stage Stage, phase Phase) (*shader.Hook, error) {
	h, ok := v.hooks[hookKey{stage, phase}]
	if !ok {
		return nil, common.ValueErrorf("%s template has no $%s hook", stage, phase)
	}
	return h, nil
}

func (v *visual) Attach(f Filter) error {
	if slices.Contains(v.filters, f) {
		return common.ValueErrorf("filter %T is already attached", f)
	}
	if err := f.Attach(v); err != nil {
		return err
	}
	v.filters = append(v.filters, f)
	v.logger.Debug("attached filter", "visual", v.handle, "filter", fmt.Sprintf("%T", f))
	return nil
}

func (v *visual) Detach(f Filter) error {
	i := slices.Index(v.filters, f)
	if i < 0 {
		return common.ValueErrorf("filter %T is not attached", f)
	}
	if err := f.Detach(v); err != nil {
		return err
	}
	v.filters = slices.Delete(v.filters, i, i+1)
	return nil
}

func (v *visual) Filters() []Filter {
	return slices.Clone(v.filters)
}

func (v *visual) Set(name string, value any) error {
	return v.program.Set(name, value)
}

func (v *visual) Compile() (*shader.Output, error) {
	return shader.Compile(
		shader.Stage{Main: v.vert, Hooks: v.stageHooks(StageVertex)},
		shader.Stage{Main: v.frag, Hooks: v.stageHooks(StageFragment)},
	)
}

func (v *visual) Draw(mode program.PrimitiveMode, indices resource.Resource) error {
	out, err := v.Compile()
	if err != nil {
		return err
	}
	if out.Vertex != v.vertex || out.Fragment != v.fragment {
		if err := v.program.SetShaders(out.Vertex, out.Fragment); err != nil {
			return err
		}
		v.vertex, v.fragment = out.Vertex, out.Fragment
		v.logger.Debug("updated shaders", "visual", v.handle, "program", v.program.ID())
	}
	values := out.Values()
	for _, name := range common.SortedKeys(values) {
		if prev, ok := v.uniforms[name]; ok && prev.Equal(values[name]) {
			continue
		}
		if err := v.program.Set(name, values[name]); err != nil {
			return fmt.Errorf("uniform %q: %w", name, err)
		}
		v.uniforms[name] = values[name]
	}
	return v.program.Draw(mode, indices)
}

func (v *visual) Program() program.Program {
	return v.program
}

func (v *visual) Release() {
	v.program.Release()
	v.registry.Unregister(v.handle)
}

func (v *visual) stageHooks(stage Stage) map[string]*shader.Hook {
	hooks := make(map[string]*shader.Hook)
	for k, h := range v.hooks {
		if k.stage == stage {
			hooks[string(k.phase)] = h
		}
	}
	return hooks
}
