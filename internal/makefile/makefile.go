// Package makefile implements the Makefile emitter: given a populated
// graph.Environment it walks every node with a non-null output target and
// renders a target block for each, plus a clean target, sorted by output
// path, then appends a single .PHONY line and a trailing META line for the
// sticky-attribute cache.
package makefile

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goto10/mkmk/internal/graph"
	"github.com/goto10/mkmk/internal/vfs"
)

// Target is one emitted Makefile rule.
type Target struct {
	Output   string
	Inputs   []string
	Commands []string
}

// Write renders this target in Makefile syntax.
func (t *Target) Write(buf *strings.Builder) {
	fmt.Fprintf(buf, "%s: %s\n", t.Output, strings.Join(t.Inputs, " "))
	for _, cmd := range t.Commands {
		fmt.Fprintf(buf, "\t%s\n", cmd)
	}
	buf.WriteString("\n")
}

// Makefile accumulates targets and phony markers; it has no opinion on how
// they were derived, only on how to render them.
type Makefile struct {
	targets map[string]*Target
	phonies map[string]bool
}

// New returns an empty Makefile.
func New() *Makefile {
	return &Makefile{targets: map[string]*Target{}, phonies: map[string]bool{}}
}

// AddTarget registers a target, overwriting any earlier target with the
// same output path.
func (m *Makefile) AddTarget(output string, inputs, commands []string, isPhony bool) {
	m.targets[output] = &Target{Output: output, Inputs: inputs, Commands: commands}
	if isPhony {
		m.phonies[output] = true
	}
}

// Write renders every target, sorted by output path, followed by a single
// sorted .PHONY line if any phony targets were registered.
func (m *Makefile) Write(buf *strings.Builder) {
	names := make([]string, 0, len(m.targets))
	for name := range m.targets {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		m.targets[name].Write(buf)
	}
	if len(m.phonies) > 0 {
		phonies := make([]string, 0, len(m.phonies))
		for p := range m.phonies {
			phonies = append(phonies, p)
		}
		sort.Strings(phonies)
		fmt.Fprintf(buf, ".PHONY: %s\n\n", strings.Join(phonies, " "))
	}
}

// Build walks every node in env, in the shape spec.md §4.8 describes, and
// returns the rendered Makefile text (including the trailing META line).
// bindir is the build output root, removed wholesale by the clean target.
func Build(env *graph.Environment, bindir *vfs.Handle) (string, error) {
	mf := New()
	for _, node := range sortedByFullName(env.AllNodes()) {
		outputTarget, ok := node.OutputTarget()
		if !ok {
			continue
		}

		inputPaths := map[string]bool{}
		for _, e := range graph.Flatten(node.Edges()) {
			if f := e.Target.GetInputFile(); f != nil {
				inputPaths[f.Path()] = true
			}
		}
		for _, f := range node.ComputedDependencies() {
			inputPaths[f.Path()] = true
		}
		sortedInputs := make([]string, 0, len(inputPaths))
		for p := range inputPaths {
			sortedInputs = append(sortedInputs, p)
		}
		sort.Strings(sortedInputs)

		var commands []string
		if !node.IsPhony() {
			parent := filepath.Dir(outputTarget)
			commands = append(commands, env.System.EnsureFolder(parent).Actions(env.Options.Noisy)...)
		}
		if cmd := node.CommandLine(env.System); cmd != nil {
			commands = append(commands, cmd.Actions(env.Options.Noisy)...)
		}
		mf.AddTarget(outputTarget, sortedInputs, commands, node.IsPhony())
	}

	clean := env.System.ClearFolder(bindir.Path())
	mf.AddTarget("clean", nil, clean.Actions(env.Options.Noisy), true)

	var buf strings.Builder
	mf.Write(&buf)

	meta, err := env.Files.Cache().Dump()
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&buf, "# META: %s\n", string(meta))
	return buf.String(), nil
}

func sortedByFullName(nodes []graph.Node) []graph.Node {
	out := make([]graph.Node, len(nodes))
	copy(out, nodes)
	sort.Slice(out, func(i, j int) bool {
		return out[i].FullName().Compare(out[j].FullName()) < 0
	})
	return out
}
