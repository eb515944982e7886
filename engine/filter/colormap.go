package filter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Carmen-Shannon/oxy-gloo/common"
	"github.com/Carmen-Shannon/oxy-gloo/engine/shader"
)

// Colormap maps a scalar in [0, 1] to an RGBA color on the GPU.
type Colormap interface {
	// GLSLMap returns the source of a GLSL function `vec4 name(float t)` implementing the map.
	// The function name is free: it is renamed when composed.
	//
	// Returns:
	//   - string: the GLSL function source
	GLSLMap() string
}

type linearColormap struct {
	colors [][4]float32
}

var _ Colormap = &linearColormap{}

// NewLinearColormap creates a colormap interpolating linearly between evenly spaced colors.
//
// Parameters:
//   - colors: at least two values accepted by common.ParseColor, from t = 0 to t = 1
//
// Returns:
//   - Colormap: the colormap
//   - error: an ErrValue error for fewer than two or invalid colors
func NewLinearColormap(colors ...any) (Colormap, error) {
	if len(colors) < 2 {
		return nil, common.ValueErrorf("a colormap needs at least 2 colors, got %d", len(colors))
	}
	cm := &linearColormap{colors: make([][4]float32, len(colors))}
	for i, c := range colors {
		rgba, err := common.ParseColor(c)
		if err != nil {
			return nil, fmt.Errorf("colormap color %d: %w", i, err)
		}
		cm.colors[i] = rgba
	}
	return cm, nil
}

// MustLinearColormap is NewLinearColormap that panics on error.
func MustLinearColormap(colors ...any) Colormap {
	cm, err := NewLinearColormap(colors...)
	if err != nil {
		panic(err)
	}
	return cm
}

func (c *linearColormap) GLSLMap() string {
	var sb strings.Builder
	n := len(c.colors) - 1
	sb.WriteString("vec4 colormap(float t) {\n")
	sb.WriteString("    t = clamp(t, 0.0, 1.0);\n")
	for i := range n {
		lo := float32(i) / float32(n)
		ret := fmt.Sprintf("return mix(%s, %s, (t - %s) * %s);",
			vec4Literal(c.colors[i]), vec4Literal(c.colors[i+1]),
			shader.FormatFloat(lo), shader.FormatFloat(float32(n)))
		if i == n-1 {
			sb.WriteString("    " + ret + "\n")
			break
		}
		fmt.Fprintf(&sb, "    if (t <= %s) {\n        %s\n    }\n", shader.FormatFloat(float32(i+1)/float32(n)), ret)
	}
	sb.WriteString("}")
	return sb.String()
}

func vec4Literal(c [4]float32) string {
	parts := make([]string, len(c))
	for i, x := range c {
		parts[i] = shader.FormatFloat(x)
	}
	return "vec4(" + strings.Join(parts, ", ") + ")"
}

var (
	Grays = MustLinearColormap("black", "white")
	Hot   = MustLinearColormap("black", "red", "yellow", "white")
	Cool  = MustLinearColormap("cyan", "magenta")
	Blues = MustLinearColormap("white", "#08306b")
	Reds  = MustLinearColormap("white", "#67000d")
)

var colormaps = map[string]Colormap{
	"grays": Grays,
	"hot":   Hot,
	"cool":  Cool,
	"blues": Blues,
	"reds":  Reds,
}

// GetColormap returns a registered colormap by name.
func GetColormap(name string) (Colormap, error) {
	cm, ok := colormaps[strings.ToLower(name)]
	if !ok {
		return nil, common.KeyErrorf("unknown colormap %q, known: %s", name, strings.Join(ColormapNames(), ", "))
	}
	return cm, nil
}

// ColormapNames lists the registered colormap names in sorted order.
func ColormapNames() []string {
	names := make([]string, 0, len(colormaps))
	for name := range colormaps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
