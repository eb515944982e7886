package program

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-gloo/common"
)

var (
	// declRegex matches a qualified declaration statement and captures the qualifier, the type and
	// the declarator list, e.g. "uniform highp vec4 color, tint[2];" or "const float k = 2.0;".
	declRegex = regexp.MustCompile(`\b(uniform|attribute|varying|const)\s+(?:(?:lowp|mediump|highp)\s+)?(\w+)\s+([^;]+?)\s*;`)

	// declaratorRegex matches one declarator: a name, an optional array size and an optional initializer.
	declaratorRegex = regexp.MustCompile(`(?s)^(\w+)\s*(?:\[\s*(\d+)\s*\])?\s*(?:=.*)?$`)
)

// parsedDecl is one declaration statement split into its parts.
type parsedDecl struct {
	kind        common.VariableKind
	typeName    string
	declarators []string
}

// parseVariables extracts declared variables from a vertex/fragment source pair.
// Variables are returned vertex stage first, each stage in declaration order, with arrays expanded
// into one entry per element. A name declared in both stages is listed once and must agree on
// kind and type. Declarations of types the host cannot bind are skipped.
//
// Parameters:
//   - vertex: the vertex shader source
//   - fragment: the fragment shader source
//   - logger: receives a debug record for every skipped declaration
//
// Returns:
//   - []Variable: the declared variables in order
//   - map[string]Variable: the same variables keyed by name
//   - error: an ErrValue error if a name is declared twice with different kind or type
func parseVariables(vertex, fragment string, logger *slog.Logger) ([]Variable, map[string]Variable, error) {
	var ordered []Variable
	byName := make(map[string]Variable)

	for _, stage := range [...]struct{ name, source string }{{"vertex", vertex}, {"fragment", fragment}} {
		for _, decl := range parseDeclarations(common.StripComments(stage.source)) {
			if _, ok := common.LookupGLSLType(decl.typeName); !ok {
				logger.Debug("skipping declaration of unsupported type", "stage", stage.name, "type", decl.typeName)
				continue
			}
			for _, d := range decl.declarators {
				names, ok := expandDeclarator(d)
				if !ok {
					logger.Debug("skipping unrecognized declarator", "stage", stage.name, "declarator", d)
					continue
				}
				for _, name := range names {
					v := Variable{Kind: decl.kind, Type: decl.typeName, Name: name}
					if prev, seen := byName[name]; seen {
						if prev != v {
							return nil, nil, common.ValueErrorf("%q is declared as %s %s and as %s %s", name, prev.Kind, prev.Type, v.Kind, v.Type)
						}
						continue
					}
					byName[name] = v
					ordered = append(ordered, v)
				}
			}
		}
	}
	return ordered, byName, nil
}

// parseDeclarations finds every qualified declaration statement in comment-free source.
func parseDeclarations(source string) []parsedDecl {
	matches := declRegex.FindAllStringSubmatch(source, -1)
	decls := make([]parsedDecl, 0, len(matches))
	for _, m := range matches {
		kind, err := common.ParseVariableKind(m[1])
		if err != nil {
			continue
		}
		decls = append(decls, parsedDecl{
			kind:        kind,
			typeName:    m[2],
			declarators: splitAtTopLevelCommas(m[3]),
		})
	}
	return decls
}

// expandDeclarator turns "A" into [A] and "A[3]" into [A[0] A[1] A[2]].
func expandDeclarator(d string) ([]string, bool) {
	m := declaratorRegex.FindStringSubmatch(strings.TrimSpace(d))
	if m == nil {
		return nil, false
	}
	if m[2] == "" {
		return []string{m[1]}, true
	}
	n, err := strconv.Atoi(m[2])
	if err != nil || n <= 0 {
		return nil, false
	}
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("%s[%d]", m[1], i)
	}
	return names, true
}

// splitAtTopLevelCommas splits a declarator list on commas that are not nested inside
// parentheses or brackets, so initializers like vec4(1.0, 2.0, 3.0, 4.0) stay intact.
func splitAtTopLevelCommas(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i, ch := range s {
		switch ch {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}
