package common

import (
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ParseColor converts a color value into normalized RGBA components.
//
// Accepted values are SVG color names ("black", "steelblue"), hex strings ("#rgb", "#rrggbb",
// "#rrggbbaa"), any color.Color, and [3]float32 / [4]float32 component arrays in [0, 1].
//
// Parameters:
//   - c: the color value
//
// Returns:
//   - [4]float32: red, green, blue and alpha in [0, 1]
//   - error: an ErrValue error if c cannot be parsed
func ParseColor(c any) ([4]float32, error) {
	switch v := c.(type) {
	case string:
		return parseColorString(v)
	case [4]float32:
		return v, nil
	case [3]float32:
		return [4]float32{v[0], v[1], v[2], 1}, nil
	case color.Color:
		r, g, b, a := v.RGBA()
		if a == 0 {
			return [4]float32{}, nil
		}
		// RGBA is alpha-premultiplied, undo it so the shader gets straight alpha.
		return [4]float32{
			float32(r) / float32(a),
			float32(g) / float32(a),
			float32(b) / float32(a),
			float32(a) / 0xffff,
		}, nil
	default:
		return [4]float32{}, ValueErrorf("cannot interpret %T as a color", c)
	}
}

func parseColorString(s string) ([4]float32, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if named, ok := colornames.Map[s]; ok {
		return ParseColor(named)
	}
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return [4]float32{}, ValueErrorf("unknown color %q", s)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return [4]float32{}, ValueErrorf("malformed hex color %q", s)
	}
	var out [4]float32
	for i := range out {
		v, err := strconv.ParseUint(hex[2*i:2*i+2], 16, 8)
		if err != nil {
			return [4]float32{}, ValueErrorf("malformed hex color %q", s)
		}
		out[i] = float32(v) / 255
	}
	return out, nil
}
