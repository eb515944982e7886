package shader

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-gloo/common"
)

// DefaultPosition is the rank given to hook entries added without WithPosition.
const DefaultPosition = 5

type hookEntry struct {
	fn       *Function
	position int
}

// Hook is a named, ordered list of zero-argument functions called at one point of a stage's main
// template. Entries run by ascending position; entries with equal positions keep insertion order.
type Hook struct {
	name    string
	entries []hookEntry
}

// NewHook creates an empty hook. The name is the placeholder it expands in the main template.
func NewHook(name string) *Hook {
	return &Hook{name: name}
}

// Name returns the placeholder name the hook expands.
func (h *Hook) Name() string {
	return h.name
}

// Add inserts a function into the hook.
//
// Parameters:
//   - fn: a function taking no arguments
//   - options: variadic list of HookBuilderOption functions, e.g. WithPosition
//
// Returns:
//   - error: an ErrValue error if fn takes arguments or is already in the hook
func (h *Hook) Add(fn *Function, options ...HookBuilderOption) error {
	if fn == nil {
		return common.ValueErrorf("cannot add a nil function to hook %s", h.name)
	}
	if !fn.NoArgs() {
		return common.ValueErrorf("hook %s can only call functions without arguments, %s takes (%s)", h.name, fn.name, fn.args)
	}
	if h.Contains(fn) {
		return common.ValueErrorf("function %s is already in hook %s", fn.name, h.name)
	}
	e := hookEntry{fn: fn, position: DefaultPosition}
	for _, opt := range options {
		opt(&e)
	}
	h.entries = append(h.entries, e)
	slices.SortStableFunc(h.entries, func(a, b hookEntry) int {
		return a.position - b.position
	})
	return nil
}

// Remove takes a function out of the hook and reports whether it was present.
func (h *Hook) Remove(fn *Function) bool {
	for i, e := range h.entries {
		if e.fn == fn {
			h.entries = slices.Delete(h.entries, i, i+1)
			return true
		}
	}
	return false
}

// Contains reports whether fn is in the hook.
func (h *Hook) Contains(fn *Function) bool {
	return slices.ContainsFunc(h.entries, func(e hookEntry) bool { return e.fn == fn })
}

// Functions returns the functions in call order.
func (h *Hook) Functions() []*Function {
	out := make([]*Function, len(h.entries))
	for i, e := range h.entries {
		out[i] = e.fn
	}
	return out
}
