package visual

import (
	"github.com/Carmen-Shannon/oxy-gloo/common"
	"github.com/Carmen-Shannon/oxy-gloo/engine/shader"
)

const (
	// MeshVertexTemplate positions vertices from a vec3 attribute bound to $position.
	MeshVertexTemplate = `void main() {
    $pre
    gl_Position = vec4($position, 1.0);
    $post
}`

	// MeshFragmentTemplate outputs $color through the $color_transform function.
	MeshFragmentTemplate = `void main() {
    $pre
    gl_FragColor = $color_transform($color);
    $post
}`

	// PassTemplate is the identity color transform.
	PassTemplate = "vec4 pass(vec4 color) { return color; }"
)

// NewMesh creates a visual from the mesh templates with $position bound to the vec3 attribute
// a_position, $color to a uniform holding color and $color_transform to the identity.
//
// Parameters:
//   - color: any value accepted by common.ParseColor
//   - options: variadic list of VisualBuilderOption functions
//
// Returns:
//   - Visual: the mesh visual; vertex data is bound with Set("a_position", data)
//   - error: an ErrValue error for an invalid color
func NewMesh(color any, options ...VisualBuilderOption) (Visual, error) {
	rgba, err := common.ParseColor(color)
	if err != nil {
		return nil, err
	}
	v, err := NewVisual(MeshVertexTemplate, MeshFragmentTemplate, options...)
	if err != nil {
		return nil, err
	}
	position, err := shader.NewAttribute("a_position", "vec3")
	if err != nil {
		return nil, err
	}
	if err := v.Vert().Set("position", position); err != nil {
		return nil, err
	}
	if err := v.Frag().Set("color", rgba); err != nil {
		return nil, err
	}
	if err := v.Frag().Set("color_transform", shader.MustFunction(PassTemplate)); err != nil {
		return nil, err
	}
	return v, nil
}
