package program

import (
	"fmt"
	"io"

	"github.com/Carmen-Shannon/oxy-gloo/common"
)

// LoadSources converts a pair of shader sources into strings. Each source may be a string, a
// []byte, an io.Reader, a fmt.Stringer or nil for "no shader yet".
//
// Parameters:
//   - vertex: the vertex source
//   - fragment: the fragment source
//
// Returns:
//   - string: the vertex source text
//   - string: the fragment source text
//   - error: an ErrType error for other types, an ErrValue error if exactly one source is empty
func LoadSources(vertex, fragment any) (string, string, error) {
	v, err := loadSource("vertex", vertex)
	if err != nil {
		return "", "", err
	}
	f, err := loadSource("fragment", fragment)
	if err != nil {
		return "", "", err
	}
	if err := checkSourcePair(v, f); err != nil {
		return "", "", err
	}
	return v, f, nil
}

func loadSource(stage string, src any) (string, error) {
	switch s := src.(type) {
	case nil:
		return "", nil
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	case io.Reader:
		b, err := io.ReadAll(s)
		if err != nil {
			return "", fmt.Errorf("reading %s shader: %w", stage, err)
		}
		return string(b), nil
	case fmt.Stringer:
		return s.String(), nil
	default:
		return "", common.TypeErrorf("%s shader must be a string, got %T", stage, src)
	}
}
