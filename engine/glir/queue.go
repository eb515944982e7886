package glir

import (
	"fmt"
	"slices"
)

// Executor consumes commands, typically by translating them into GPU API calls.
// It is provided by the graphics context that owns the GPU.
type Executor interface {
	// Execute runs the commands in order.
	//
	// Parameters:
	//   - commands: the commands to execute
	//
	// Returns:
	//   - error: an error if any command failed
	Execute(commands []Command) error
}

// queue is the implementation of the Queue interface.
type queue struct {
	commands []Command
}

// Queue is an append-only sink of commands. Producers append; the owner of the queue decides
// when to hand the accumulated commands to an Executor or clear them.
type Queue interface {
	// Command appends a command.
	//
	// Parameters:
	//   - kind: the command kind
	//   - id: the target object
	//   - args: the kind-specific arguments
	Command(kind CommandKind, id ID, args ...any)

	// Append appends already built commands, keeping their order.
	//
	// Parameters:
	//   - commands: the commands to append
	Append(commands ...Command)

	// Commands returns a copy of the pending commands without clearing them.
	//
	// Returns:
	//   - []Command: the pending commands in emission order
	Commands() []Command

	// Clear removes and returns the pending commands.
	//
	// Returns:
	//   - []Command: the commands that were pending
	Clear() []Command

	// Len returns the number of pending commands.
	Len() int

	// Flush hands the pending commands to the executor and clears them if it succeeds.
	// On failure the commands stay queued.
	//
	// Parameters:
	//   - ex: the executor
	//
	// Returns:
	//   - error: the executor's error, wrapped
	Flush(ex Executor) error
}

var _ Queue = &queue{}

// NewQueue creates an empty in-memory Queue.
//
// Returns:
//   - Queue: the new queue
func NewQueue() Queue {
	return &queue{}
}

func (q *queue) Command(kind CommandKind, id ID, args ...any) {
	q.commands = append(q.commands, Command{Kind: kind, ID: id, Args: args})
}

func (q *queue) Append(commands ...Command) {
	q.commands = append(q.commands, commands...)
}

func (q *queue) Commands() []Command {
	return slices.Clone(q.commands)
}

func (q *queue) Clear() []Command {
	out := q.commands
	q.commands = nil
	return out
}

func (q *queue) Len() int {
	return len(q.commands)
}

func (q *queue) Flush(ex Executor) error {
	if len(q.commands) == 0 {
		return nil
	}
	if err := ex.Execute(q.commands); err != nil {
		return fmt.Errorf("glir: flush of %d commands failed: %w", len(q.commands), err)
	}
	q.commands = nil
	return nil
}
