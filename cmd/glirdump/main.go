// Command glirdump builds the program described by a TOML scene file, draws it once and prints
// the GL-IR command stream as YAML.
//
// Usage:
//
//	glirdump [-o out.yaml] [-v] [-repeat n] scene.toml
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/Carmen-Shannon/oxy-gloo/engine/glir"
	"github.com/Carmen-Shannon/oxy-gloo/engine/profiler"
	"github.com/Carmen-Shannon/oxy-gloo/engine/program"
	"gopkg.in/yaml.v3"
)

// yamlExecutor writes every command batch it receives as a YAML document.
type yamlExecutor struct {
	enc *yaml.Encoder
}

var _ glir.Executor = &yamlExecutor{}

// dumpedCommand is a command as written by yamlExecutor. DRAW commands also name the WebGPU
// topology the mode maps to; loops and fans have none and leave it empty.
type dumpedCommand struct {
	glir.Command `yaml:",inline"`
	Topology     string `yaml:"topology,omitempty"`
}

func newYAMLExecutor(w io.Writer) *yamlExecutor {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	return &yamlExecutor{enc: enc}
}

func (e *yamlExecutor) Execute(commands []glir.Command) error {
	docs := make([]dumpedCommand, len(commands))
	for i, c := range commands {
		docs[i] = dumpedCommand{Command: c, Topology: topology(c)}
	}
	if err := e.enc.Encode(docs); err != nil {
		return fmt.Errorf("encoding commands: %w", err)
	}
	return nil
}

func (e *yamlExecutor) Close() error {
	return e.enc.Close()
}

func topology(c glir.Command) string {
	if c.Kind != glir.CommandDraw || len(c.Args) == 0 {
		return ""
	}
	mode, ok := c.Args[0].(program.PrimitiveMode)
	if !ok {
		return ""
	}
	t, ok := mode.Topology()
	if !ok {
		return ""
	}
	return t.String()
}

func run(path string, out io.Writer, logger *slog.Logger, repeat int) error {
	scene, err := LoadScene(path)
	if err != nil {
		return err
	}
	q := glir.NewQueue()
	frame, err := scene.Build(q, logger)
	if err != nil {
		return err
	}
	if err := frame.Draw(); err != nil {
		return err
	}
	log.Printf("recorded %d commands", q.Len())

	ex := newYAMLExecutor(out)
	if err := q.Flush(ex); err != nil {
		return err
	}
	if err := ex.Close(); err != nil {
		return err
	}

	if repeat > 1 {
		p := profiler.NewProfiler()
		for range repeat - 1 {
			if err := frame.Draw(); err != nil {
				return err
			}
			p.Tick(len(q.Clear()))
		}
		p.Report()
	}
	return nil
}

// runMain parses args, runs the dump and returns the process exit code: 0 on success, 1 when the
// scene fails and 2 for bad usage.
func runMain(args []string, stdout, stderr io.Writer) int {
	log.SetOutput(stderr)
	log.SetFlags(0)
	log.SetPrefix("[glirdump] ")

	fs := flag.NewFlagSet("glirdump", flag.ContinueOnError)
	fs.SetOutput(stderr)
	output := fs.String("o", "", "write the command stream to this file instead of stdout")
	verbose := fs.Bool("v", false, "log library debug records to stderr")
	repeat := fs.Int("repeat", 1, "draw the scene this many times and log throughput stats")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: glirdump [-o out.yaml] [-v] [-repeat n] scene.toml")
		return 2
	}
	logger := slog.New(slog.DiscardHandler)
	if *verbose {
		logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	out := stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			log.Print(err)
			return 1
		}
		defer f.Close()
		out = f
	}
	if err := run(fs.Arg(0), out, logger, *repeat); err != nil {
		log.Print(err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(runMain(os.Args[1:], os.Stdout, os.Stderr))
}
