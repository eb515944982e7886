package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-gloo/common"
	"github.com/Carmen-Shannon/oxy-gloo/engine/filter"
	"github.com/Carmen-Shannon/oxy-gloo/engine/glir"
	"github.com/Carmen-Shannon/oxy-gloo/engine/program"
	"github.com/Carmen-Shannon/oxy-gloo/engine/resource"
	"github.com/Carmen-Shannon/oxy-gloo/engine/visual"
	"github.com/pelletier/go-toml/v2"
)

// Scene describes one draw call. Exactly one of Program and Mesh must be present.
type Scene struct {
	Mode        string         `toml:"mode"`
	VertexCount int            `toml:"vertex_count"`
	Program     *ProgramConfig `toml:"program"`
	Mesh        *MeshConfig    `toml:"mesh"`
	Filters     []FilterConfig `toml:"filters"`
	Values      map[string]any `toml:"values"`
	Indices     []uint32       `toml:"indices"`

	// dir resolves relative shader paths.
	dir string
}

// ProgramConfig holds raw program sources, inline or from files.
type ProgramConfig struct {
	Vertex       string `toml:"vertex"`
	Fragment     string `toml:"fragment"`
	VertexFile   string `toml:"vertex_file"`
	FragmentFile string `toml:"fragment_file"`
}

// MeshConfig configures a mesh visual. Vertex positions go to the a_position value.
type MeshConfig struct {
	Color string `toml:"color"`
}

// FilterConfig configures one filter attached to the mesh, in order.
type FilterConfig struct {
	Type      string     `toml:"type"`
	Level     float32    `toml:"level"`
	Width     float32    `toml:"width"`
	Color     string     `toml:"color"`
	Antialias float32    `toml:"antialias"`
	Alpha     float32    `toml:"alpha"`
	Colormap  string     `toml:"cmap"`
	ZRange    [2]float32 `toml:"zrange"`
}

// LoadScene reads a TOML scene file.
func LoadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := ParseScene(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.dir = filepath.Dir(path)
	return s, nil
}

// ParseScene decodes a TOML scene and applies defaults.
func ParseScene(data []byte) (*Scene, error) {
	s := &Scene{Mode: string(program.Triangles)}
	if err := toml.Unmarshal(data, s); err != nil {
		return nil, err
	}
	if (s.Program == nil) == (s.Mesh == nil) {
		return nil, common.ValueErrorf("scene needs exactly one of [program] and [mesh]")
	}
	if s.Program != nil && len(s.Filters) > 0 {
		return nil, common.ValueErrorf("filters need a [mesh]")
	}
	return s, nil
}

// drawer is the part of Program and Visual a scene draws through.
type drawer interface {
	Set(name string, value any) error
	Draw(mode program.PrimitiveMode, indices resource.Resource) error
}

// Frame is a built scene that can be drawn repeatedly.
type Frame struct {
	d       drawer
	mode    program.PrimitiveMode
	indices resource.Resource
}

// Draw records one draw call.
func (f *Frame) Draw() error {
	return f.d.Draw(f.mode, f.indices)
}

// Build creates the scene's program or mesh on q and binds its values. Library debug records go
// to logger.
func (s *Scene) Build(q glir.Queue, logger *slog.Logger) (*Frame, error) {
	mode, err := program.ParsePrimitiveMode(s.Mode)
	if err != nil {
		return nil, err
	}

	f := &Frame{mode: mode}
	if s.Program != nil {
		if f.d, err = s.buildProgram(q, logger); err != nil {
			return nil, err
		}
	} else {
		if f.d, err = s.buildMesh(q, logger); err != nil {
			return nil, err
		}
	}

	for _, name := range common.SortedKeys(s.Values) {
		v, err := toValue(s.Values[name])
		if err != nil {
			return nil, fmt.Errorf("value %q: %w", name, err)
		}
		if err := f.d.Set(name, v); err != nil {
			return nil, fmt.Errorf("value %q: %w", name, err)
		}
	}

	if len(s.Indices) > 0 {
		ib, err := resource.NewIndexBuffer(s.Indices)
		if err != nil {
			return nil, err
		}
		f.indices = ib
	}
	return f, nil
}

// Draw builds the scene on q and records one draw call.
func (s *Scene) Draw(q glir.Queue, logger *slog.Logger) error {
	f, err := s.Build(q, logger)
	if err != nil {
		return err
	}
	return f.Draw()
}

func (s *Scene) buildProgram(q glir.Queue, logger *slog.Logger) (program.Program, error) {
	vertex, err := s.source(s.Program.Vertex, s.Program.VertexFile)
	if err != nil {
		return nil, err
	}
	fragment, err := s.source(s.Program.Fragment, s.Program.FragmentFile)
	if err != nil {
		return nil, err
	}
	vs, fs, err := program.LoadSources(vertex, fragment)
	if err != nil {
		return nil, err
	}
	return program.NewProgram(vs, fs, program.WithQueue(q), program.WithLogger(logger), program.WithVertexCount(s.VertexCount))
}

// source returns the inline source or an open reader on the file, nil when neither is given.
func (s *Scene) source(inline, file string) (any, error) {
	if inline != "" && file != "" {
		return nil, common.ValueErrorf("give a shader inline or as a file, not both")
	}
	if file == "" {
		if inline == "" {
			return nil, nil
		}
		return inline, nil
	}
	if !filepath.IsAbs(file) {
		file = filepath.Join(s.dir, file)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}

func (s *Scene) buildMesh(q glir.Queue, logger *slog.Logger) (visual.Visual, error) {
	v, err := visual.NewMesh(common.Coalesce(s.Mesh.Color, "white"), visual.WithQueue(q), visual.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	for i, fc := range s.Filters {
		f, err := fc.build()
		if err != nil {
			return nil, fmt.Errorf("filter %d: %w", i, err)
		}
		if err := v.Attach(f); err != nil {
			return nil, fmt.Errorf("filter %d: %w", i, err)
		}
	}
	return v, nil
}

func (fc FilterConfig) build() (visual.Filter, error) {
	switch fc.Type {
	case "isoline":
		return filter.NewIsoline(
			common.Coalesce(fc.Level, 1), common.Coalesce(fc.Width, 1), common.Coalesce(fc.Color, "black"), common.Coalesce(fc.Antialias, 1))
	case "alpha":
		return filter.NewAlpha(common.Coalesce(fc.Alpha, 1)), nil
	case "color":
		return filter.NewColorFilter(common.Coalesce(fc.Color, "white"))
	case "z_colormap":
		return filter.NewZColormapFilter(common.Coalesce(fc.Colormap, "grays"), common.Coalesce(fc.ZRange, [2]float32{0, 1}))
	default:
		return nil, common.KeyErrorf("unknown filter type %q", fc.Type)
	}
}

// toValue converts a decoded TOML value: integers and floats become scalars, nested arrays
// become a row-major common.Array.
func toValue(v any) (any, error) {
	switch x := v.(type) {
	case int64:
		return int(x), nil
	case float64:
		return x, nil
	case bool:
		return x, nil
	case []any:
		var data []float32
		shape, err := flatten(x, 0, nil, &data)
		if err != nil {
			return nil, err
		}
		return common.NewArray(data, shape...)
	default:
		return nil, common.TypeErrorf("unsupported value %T", v)
	}
}

func flatten(x []any, depth int, shape []int, data *[]float32) ([]int, error) {
	if depth == len(shape) {
		shape = append(shape, len(x))
	} else if shape[depth] != len(x) {
		return nil, common.ValueErrorf("ragged array at depth %d", depth)
	}
	for _, e := range x {
		switch n := e.(type) {
		case []any:
			var err error
			if shape, err = flatten(n, depth+1, shape, data); err != nil {
				return nil, err
			}
		case int64:
			*data = append(*data, float32(n))
		case float64:
			*data = append(*data, float32(n))
		default:
			return nil, common.TypeErrorf("unsupported array element %T", e)
		}
	}
	return shape, nil
}
