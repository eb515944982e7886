package visual

// Handle identifies a registered visual. Filters keep a Handle instead of a reference to their
// host; it is compared for identity and resolved through the Registry when needed.
type Handle uint64

// Registry hands out handles and resolves them back to visuals. It does not keep visuals alive
// beyond Unregister.
type Registry struct {
	visuals map[Handle]Visual
	next    Handle
}

// DefaultRegistry is used by visuals created without WithRegistry.
var DefaultRegistry = NewRegistry()

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{visuals: make(map[Handle]Visual)}
}

// Register adds a visual and returns its handle. Handles are never reused.
func (r *Registry) Register(v Visual) Handle {
	r.next++
	r.visuals[r.next] = v
	return r.next
}

// Lookup resolves a handle.
//
// Returns:
//   - Visual: the registered visual
//   - bool: false if the handle is unknown or was unregistered
func (r *Registry) Lookup(h Handle) (Visual, bool) {
	v, ok := r.visuals[h]
	return v, ok
}

// Unregister forgets a handle.
func (r *Registry) Unregister(h Handle) {
	delete(r.visuals, h)
}

// Len returns the number of registered visuals.
func (r *Registry) Len() int {
	return len(r.visuals)
}
