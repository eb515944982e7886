package program

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-gloo/engine/glir"
)

// ProgramBuilderOption is a functional option used to configure a Program during construction.
type ProgramBuilderOption func(*program)

// WithVertexCount fixes the number of vertices the program draws. Attribute buffers with a
// different vertex count are rejected at bind time, and the count is used for non-indexed draws
// of programs that bind no attribute buffers.
//
// Parameters:
//   - n: the vertex count, 0 for unconstrained
//
// Returns:
//   - ProgramBuilderOption: a function that sets the vertex count
func WithVertexCount(n int) ProgramBuilderOption {
	return func(p *program) {
		p.vertexCount = n
	}
}

// WithQueue makes the program emit commands into an existing queue. Programs that share
// resources should share a queue so that every resource command reaches the same executor.
//
// Parameters:
//   - q: the command queue
//
// Returns:
//   - ProgramBuilderOption: a function that sets the queue
func WithQueue(q glir.Queue) ProgramBuilderOption {
	return func(p *program) {
		p.queue = q
	}
}

// WithLogger sets the logger that receives debug records about parsing and binding.
//
// Parameters:
//   - logger: the logger, discarded output by default
//
// Returns:
//   - ProgramBuilderOption: a function that sets the logger
func WithLogger(logger *slog.Logger) ProgramBuilderOption {
	return func(p *program) {
		p.logger = logger
	}
}
