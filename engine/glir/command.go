// Package glir defines the commands emitted by programs and resources and the append-only queue
// that collects them. Executing the commands against a GPU is the job of an external Executor.
package glir

import "sync/atomic"

// CommandKind identifies the operation a Command asks the executor to perform.
type CommandKind string

const (
	// CommandCreate allocates the object identified by the command ID. Args: [object kind].
	CommandCreate CommandKind = "CREATE"

	// CommandDelete frees the object identified by the command ID. Args: none.
	CommandDelete CommandKind = "DELETE"

	// CommandSize (re)allocates storage. Args: [texture shape, wgpu.TextureFormat],
	// [byte size, wgpu.VertexFormat] or [byte size, wgpu.IndexFormat].
	CommandSize CommandKind = "SIZE"

	// CommandData uploads data. Args: [offset, common.Array].
	CommandData CommandKind = "DATA"

	// CommandShaders compiles and links program sources. Args: [vertex source, fragment source].
	CommandShaders CommandKind = "SHADERS"

	// CommandUniform sets a uniform value. Args: [name, GLSL type, common.Array].
	CommandUniform CommandKind = "UNIFORM"

	// CommandTexture binds a texture to a sampler. Args: [name, texture ID].
	CommandTexture CommandKind = "TEXTURE"

	// CommandAttribute binds an attribute. Args: [name, GLSL type, vertex buffer ID or constant common.Array].
	CommandAttribute CommandKind = "ATTRIBUTE"

	// CommandDraw draws with the program. Args: [mode, vertex count] or [mode, index buffer ID, index count].
	// Executors map the mode through program.PrimitiveMode.Topology and expand loops and fans themselves.
	CommandDraw CommandKind = "DRAW"
)

// ID identifies a GPU object across the commands that refer to it.
type ID uint64

var lastID atomic.Uint64

// NewID allocates a process-wide unique object ID. IDs start at 1, 0 is never allocated.
//
// Returns:
//   - ID: the new identifier
func NewID() ID {
	return ID(lastID.Add(1))
}

// Command is a single state-changing instruction for the executor.
type Command struct {
	// Kind is the operation to perform.
	Kind CommandKind `yaml:"kind"`

	// ID is the target object.
	ID ID `yaml:"id"`

	// Args holds the kind-specific arguments documented on each CommandKind.
	Args []any `yaml:"args,omitempty"`
}
