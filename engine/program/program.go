// Package program binds host values to the variables declared in a GLSL vertex/fragment shader
// pair and turns draw requests into GL intermediate representation commands.
package program

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/Carmen-Shannon/oxy-gloo/common"
	"github.com/Carmen-Shannon/oxy-gloo/engine/glir"
	"github.com/Carmen-Shannon/oxy-gloo/engine/resource"
)

// Variable is one variable declared in the shader sources. Array declarations produce one
// Variable per element, named "A[0]", "A[1]" and so on.
type Variable struct {
	Kind common.VariableKind `yaml:"kind"`
	Type string              `yaml:"type"`
	Name string              `yaml:"name"`
}

// GLSLType returns the type description of the variable.
func (v Variable) GLSLType() common.GLSLType {
	t, _ := common.LookupGLSLType(v.Type)
	return t
}

// BindingState is the lifecycle state of a name in a program.
type BindingState int

const (
	// Unbound names are neither set nor pending.
	Unbound BindingState = iota
	// Pending names were set before any declaration matched them; the raw value is kept.
	Pending
	// UserBound names are declared and hold a validated value.
	UserBound
)

func (s BindingState) String() string {
	switch s {
	case Pending:
		return "pending"
	case UserBound:
		return "user"
	default:
		return "unbound"
	}
}

// program is the implementation of the Program interface.
type program struct {
	id          glir.ID
	queue       glir.Queue
	logger      *slog.Logger
	vertexCount int

	vertex   string
	fragment string

	// variables holds the declared variables in declaration order, code indexes them by name.
	variables []Variable
	code      map[string]Variable

	// user holds validated bindings of declared settable variables.
	user map[string]*binding
	// pending holds raw values set for names no declaration matched yet.
	pending map[string]any
	// dirty marks user-bound names whose state must be sent with the next draw.
	dirty map[string]bool

	released bool
}

// Program defines the interface for a GPU program built from a vertex/fragment shader pair.
//
// A Program parses the variables the shaders declare and lets callers bind host values to them
// by name. Values are validated against the declared type at bind time. Names that are not
// declared yet are remembered as pending and bound once new shaders declare them. Drawing
// emits the commands needed to bring the GPU state in line with the bindings, followed by a
// DRAW command, into the program's queue.
type Program interface {
	// ID returns the identifier used by commands that target this program.
	//
	// Returns:
	//   - glir.ID: the program identifier
	ID() glir.ID

	// Shaders returns the current shader sources.
	//
	// Returns:
	//   - string: the vertex source
	//   - string: the fragment source
	Shaders() (string, string)

	// SetShaders replaces both shader sources, re-parses the declared variables and re-validates
	// every existing binding against them. Bindings whose variable disappeared become pending,
	// pending values whose variable appeared become bound. The call is atomic: on error the
	// program is left unchanged.
	//
	// Parameters:
	//   - vertex: the vertex source
	//   - fragment: the fragment source
	//
	// Returns:
	//   - error: an ErrValue error if exactly one source is empty, if a name is declared with
	//     conflicting types or if an existing value is incompatible with its new declaration
	SetShaders(vertex, fragment string) error

	// Variables returns the declared variables, vertex stage first, in declaration order.
	//
	// Returns:
	//   - []Variable: a copy of the declared variables
	Variables() []Variable

	// Set binds a value to a variable name.
	//
	// Uniforms take scalars, fixed-size arrays, mathgl vectors/matrices or common.Array values
	// whose element count matches the declared type. Samplers take a *resource.Texture of the
	// matching dimensionality or texel data, which updates the bound texture in place or
	// creates one. Attributes take a *resource.VertexBuffer, per-vertex data (which updates the
	// bound buffer in place or creates one) or a single value applied to every vertex. Values
	// are converted to the declared element type: int components truncate and bool components
	// become 0 or 1.
	//
	// Parameters:
	//   - name: the variable name, "A[2]" for array elements
	//   - value: the host value
	//
	// Returns:
	//   - error: an ErrKey error for varyings and constants, an ErrValue error for values
	//     incompatible with the declared type
	Set(name string, value any) error

	// Get returns the value bound to a name: the converted value or resource for bound names,
	// the held value for pending names and nil for declared names that were never set. A name
	// declared varying or const has no host value even when a pending value is held for it.
	//
	// Parameters:
	//   - name: the variable name
	//
	// Returns:
	//   - any: the bound value
	//   - error: an ErrKey error for unknown names, varyings and constants
	Get(name string) (any, error)

	// State reports the binding state of a name.
	//
	// Parameters:
	//   - name: the variable name
	//
	// Returns:
	//   - BindingState: Unbound, Pending or UserBound
	State(name string) BindingState

	// Draw emits the commands that synchronize the bound state, then a DRAW command. Staged
	// commands of bound resources are drained into this program's queue, so a resource shared
	// with a program on another queue is created on whichever queue draws it first.
	//
	// Parameters:
	//   - mode: the primitive mode
	//   - indices: nil to draw vertices in order, or a *resource.IndexBuffer
	//
	// Returns:
	//   - error: an ErrValue error for an invalid mode, an ErrType error for a non-index
	//     resource, an ErrRuntime error when the vertex count is unknown or inconsistent. Empty
	//     vertex buffers give no vertex count.
	Draw(mode PrimitiveMode, indices resource.Resource) error

	// VertexCount returns the vertex count every attribute buffer must match, 0 if unconstrained.
	//
	// Returns:
	//   - int: the configured vertex count
	VertexCount() int

	// Queue returns the queue the program emits commands into.
	//
	// Returns:
	//   - glir.Queue: the command queue
	Queue() glir.Queue

	// Release frees the program and every resource it created for raw values.
	Release()
}

var _ Program = &program{}

// NewProgram creates a Program from a vertex/fragment source pair, configured with the provided
// options. A program created with two empty sources has no variables until SetShaders is called.
//
// Parameters:
//   - vertex: the vertex source
//   - fragment: the fragment source
//   - options: variadic list of ProgramBuilderOption functions
//
// Returns:
//   - Program: the new program
//   - error: an ErrValue error for invalid sources or options
func NewProgram(vertex, fragment string, options ...ProgramBuilderOption) (Program, error) {
	p := &program{
		id:      glir.NewID(),
		user:    make(map[string]*binding),
		pending: make(map[string]any),
		dirty:   make(map[string]bool),
	}
	for _, opt := range options {
		opt(p)
	}
	if p.vertexCount < 0 {
		return nil, common.ValueErrorf("vertex count must not be negative, got %d", p.vertexCount)
	}
	if p.queue == nil {
		p.queue = glir.NewQueue()
	}
	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}
	if err := checkSourcePair(vertex, fragment); err != nil {
		return nil, err
	}
	if _, _, err := parseVariables(vertex, fragment, p.logger); err != nil {
		return nil, err
	}
	p.queue.Command(glir.CommandCreate, p.id, "Program")
	if err := p.SetShaders(vertex, fragment); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *program) ID() glir.ID {
	return p.id
}

func (p *program) Shaders() (string, string) {
	return p.vertex, p.fragment
}

func (p *program) Variables() []Variable {
	return slices.Clone(p.variables)
}

func (p *program) VertexCount() int {
	return p.vertexCount
}

func (p *program) Queue() glir.Queue {
	return p.queue
}

func (p *program) State(name string) BindingState {
	if _, ok := p.user[name]; ok {
		return UserBound
	}
	if _, ok := p.pending[name]; ok {
		return Pending
	}
	return Unbound
}

func (p *program) Set(name string, value any) error {
	if err := p.checkLive(); err != nil {
		return err
	}
	if value == nil {
		return common.ValueErrorf("cannot set %q to nil", name)
	}
	v, declared := p.code[name]
	if !declared {
		p.pending[name] = value
		p.logger.Debug("stored pending value", "program", p.id, "name", name)
		return nil
	}
	if !v.Kind.Settable() {
		return common.KeyErrorf("%s %q cannot be set", v.Kind, name)
	}
	prev := p.user[name]
	b, err := p.convert(v, value, prev)
	if err != nil {
		return err
	}
	if err := b.apply(); err != nil {
		return err
	}
	if prev != nil && prev.replacedBy(b) {
		p.releaseOwned(prev)
	}
	p.user[name] = b
	p.dirty[name] = true
	return nil
}

func (p *program) Get(name string) (any, error) {
	if b, ok := p.user[name]; ok {
		return b.value, nil
	}
	v, declared := p.code[name]
	if declared && !v.Kind.Settable() {
		return nil, common.KeyErrorf("%s %q has no host value", v.Kind, name)
	}
	if raw, ok := p.pending[name]; ok {
		return raw, nil
	}
	if declared {
		return nil, nil
	}
	return nil, common.KeyErrorf("%q is not declared and has no pending value", name)
}

func (p *program) SetShaders(vertex, fragment string) error {
	if err := p.checkLive(); err != nil {
		return err
	}
	if err := checkSourcePair(vertex, fragment); err != nil {
		return err
	}
	variables, code, err := parseVariables(vertex, fragment, p.logger)
	if err != nil {
		return err
	}

	user := make(map[string]*binding, len(p.user))
	pending := make(map[string]any, len(p.pending))
	var stale []*binding

	for _, name := range common.SortedKeys(p.user) {
		b := p.user[name]
		v, ok := code[name]
		switch {
		case ok && v == b.variable:
			user[name] = b
		case ok && v.Kind.Settable():
			nb, err := p.convert(v, b.raw, b)
			if err != nil {
				return fmt.Errorf("rebinding %q: %w", name, err)
			}
			user[name] = nb
			if b.replacedBy(nb) {
				stale = append(stale, b)
			}
		default:
			pending[name] = b.pendingValue()
			stale = append(stale, b)
		}
	}
	for _, name := range common.SortedKeys(p.pending) {
		raw := p.pending[name]
		v, ok := code[name]
		if !ok || !v.Kind.Settable() {
			pending[name] = raw
			continue
		}
		nb, err := p.convert(v, raw, nil)
		if err != nil {
			return fmt.Errorf("binding pending value %q: %w", name, err)
		}
		user[name] = nb
	}

	for _, name := range common.SortedKeys(user) {
		if err := user[name].apply(); err != nil {
			return err
		}
		if _, was := p.pending[name]; was {
			p.logger.Debug("bound pending value", "program", p.id, "name", name, "kind", user[name].variable.Kind)
		}
	}
	for _, b := range stale {
		p.releaseOwned(b)
	}

	p.vertex, p.fragment = vertex, fragment
	p.variables, p.code = variables, code
	p.user, p.pending = user, pending
	p.dirty = make(map[string]bool, len(user))
	for name := range user {
		p.dirty[name] = true
	}
	if vertex != "" {
		p.queue.Command(glir.CommandShaders, p.id, vertex, fragment)
	}
	return nil
}

func (p *program) Release() {
	if p.released {
		return
	}
	p.released = true
	for _, name := range common.SortedKeys(p.user) {
		p.releaseOwned(p.user[name])
	}
	p.queue.Command(glir.CommandDelete, p.id)
}

// releaseOwned frees a resource the program created for a raw value and forwards its DELETE.
func (p *program) releaseOwned(b *binding) {
	res, ok := b.value.(resource.Resource)
	if !ok || !b.owned || res.Released() {
		return
	}
	res.Release()
	p.queue.Append(res.Drain()...)
}

func (p *program) checkLive() error {
	if p.released {
		return common.ValueErrorf("program %d has been released", p.id)
	}
	return nil
}

func checkSourcePair(vertex, fragment string) error {
	if (vertex == "") != (fragment == "") {
		return common.ValueErrorf("vertex and fragment shaders must both be given or both be empty")
	}
	return nil
}
