package shader

// HookBuilderOption is a functional option used to configure a hook entry when it is added.
type HookBuilderOption func(*hookEntry)

// WithPosition sets the rank of a hook entry. Lower ranks are called first.
//
// Parameters:
//   - position: the rank, DefaultPosition when not given
//
// Returns:
//   - HookBuilderOption: a function that sets the rank
func WithPosition(position int) HookBuilderOption {
	return func(e *hookEntry) {
		e.position = position
	}
}
