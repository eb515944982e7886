// Package resource implements the GPU resources that shader bindings refer to: textures for
// samplers, vertex buffers for attributes and index buffers for indexed draws.
//
// Resources never touch the GPU. Each one stages the commands that create, resize, fill and free
// it; whoever draws with the resource drains those commands into its command queue.
package resource

import (
	"github.com/Carmen-Shannon/oxy-gloo/common"
	"github.com/Carmen-Shannon/oxy-gloo/engine/glir"
)

// Resource is a GPU object identified by a glir.ID. Two bindings refer to the same GPU object
// exactly when they hold the same Resource value.
type Resource interface {
	// ID returns the identifier used by commands that target this resource.
	//
	// Returns:
	//   - glir.ID: the resource identifier
	ID() glir.ID

	// Kind returns the object kind sent with the CREATE command (e.g. "Texture2D").
	//
	// Returns:
	//   - string: the object kind
	Kind() string

	// Drain removes and returns the commands staged since the previous Drain. The commands go
	// to a single consumer: when programs on separate queues share a resource, only the first
	// one to draw receives its CREATE.
	//
	// Returns:
	//   - []glir.Command: the staged commands in emission order
	Drain() []glir.Command

	// Release frees the resource. A resource whose commands were never drained is dropped
	// without emitting anything, otherwise a DELETE command is staged.
	Release()

	// Released reports whether Release was called.
	//
	// Returns:
	//   - bool: true once released
	Released() bool
}

// object holds the identity and staged commands shared by every resource implementation.
type object struct {
	id       glir.ID
	kind     string
	pending  []glir.Command
	drained  bool
	released bool
}

func newObject(kind string) object {
	o := object{id: glir.NewID(), kind: kind}
	o.command(glir.CommandCreate, kind)
	return o
}

func (o *object) ID() glir.ID {
	return o.id
}

func (o *object) Kind() string {
	return o.kind
}

func (o *object) Released() bool {
	return o.released
}

func (o *object) Drain() []glir.Command {
	out := o.pending
	o.pending = nil
	if len(out) > 0 {
		o.drained = true
	}
	return out
}

func (o *object) Release() {
	if o.released {
		return
	}
	o.released = true
	if !o.drained {
		o.pending = nil
		return
	}
	o.command(glir.CommandDelete)
}

func (o *object) command(kind glir.CommandKind, args ...any) {
	o.pending = append(o.pending, glir.Command{Kind: kind, ID: o.id, Args: args})
}

func (o *object) checkLive() error {
	if o.released {
		return common.ValueErrorf("%s %d has been released", o.kind, o.id)
	}
	return nil
}
