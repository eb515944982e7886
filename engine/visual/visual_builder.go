package visual

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-gloo/engine/glir"
)

// VisualBuilderOption is a functional option used to configure a Visual during construction.
type VisualBuilderOption func(*visual)

// WithRegistry registers the visual in r instead of DefaultRegistry.
//
// Parameters:
//   - r: the registry
//
// Returns:
//   - VisualBuilderOption: a function that sets the registry
func WithRegistry(r *Registry) VisualBuilderOption {
	return func(v *visual) {
		v.registry = r
	}
}

// WithLogger sets the logger used by the visual and its program.
//
// Parameters:
//   - logger: the logger, discarded output by default
//
// Returns:
//   - VisualBuilderOption: a function that sets the logger
func WithLogger(logger *slog.Logger) VisualBuilderOption {
	return func(v *visual) {
		v.logger = logger
	}
}

// WithQueue makes the visual's program emit commands into q.
//
// Parameters:
//   - q: the command queue
//
// Returns:
//   - VisualBuilderOption: a function that sets the queue
func WithQueue(q glir.Queue) VisualBuilderOption {
	return func(v *visual) {
		v.queue = q
	}
}
