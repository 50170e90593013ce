// Package dotgraph renders a graph.Environment's node set as a Graphviz dot
// file, and separately as an ASCII dependency tree for terminal output.
package dotgraph

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/goto10/mkmk/internal/graph"
)

var nonWordChars = regexp.MustCompile(`\W`)

func dotEscape(s string) string {
	return nonWordChars.ReplaceAllString(s, "_")
}

func annotationToString(key string, value any) string {
	switch v := value.(type) {
	case bool:
		if v {
			return dotEscape(key)
		}
		return "!" + dotEscape(key)
	default:
		return fmt.Sprintf("%s: %s", dotEscape(key), dotEscape(fmt.Sprint(v)))
	}
}

func annotationsToString(annots map[string]any) string {
	keys := make([]string, 0, len(annots))
	for k := range annots {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, annotationToString(k, annots[k]))
	}
	return strings.Join(parts, " ")
}

// Write renders every node in env, and its direct (unflattened) edges, as a
// "digraph G" in left-to-right layout.
func Write(env *graph.Environment, out io.Writer) error {
	nodes := env.AllNodes()
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].FullName().Compare(nodes[j].FullName()) < 0
	})

	if _, err := fmt.Fprint(out, "digraph G {\n  rankdir=LR;\n"); err != nil {
		return err
	}
	for _, node := range nodes {
		escaped := dotEscape(node.FullName().String())
		if _, err := fmt.Fprintf(out, "  %s [label=\"%s\"];\n", escaped, node.FullName().String()); err != nil {
			return err
		}
		for _, edge := range node.Edges() {
			escapedTarget := dotEscape(edge.Target.FullName().String())
			label := ""
			if len(edge.Annotations) > 0 {
				label = fmt.Sprintf(" [label=\"%s\"]", annotationsToString(edge.Annotations))
			}
			if _, err := fmt.Fprintf(out, "    %s -> %s%s;\n", escaped, escapedTarget, label); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprint(out, "}\n")
	return err
}

// PrintTree writes an ASCII dependency tree rooted at root to out. Nodes
// already visited anywhere earlier in the walk are never re-descended into —
// a repeated dependency is printed once more as a leaf marked "(*)" rather
// than expanded again, since the dependency graph is a DAG, not a tree.
func PrintTree(root graph.Node, out io.Writer) error {
	return printNode(out, root, "", true, map[string]bool{})
}

func printNode(out io.Writer, node graph.Node, prefix string, isRoot bool, visited map[string]bool) error {
	name := node.FullName().String()
	if isRoot {
		if _, err := fmt.Fprintf(out, "%s\n", name); err != nil {
			return err
		}
	}

	if visited[name] {
		return nil
	}
	visited[name] = true

	edges := node.Edges()
	for i, edge := range edges {
		isLast := i == len(edges)-1
		branch := "├── "
		childPrefix := prefix + "│   "
		if isLast {
			branch = "└── "
			childPrefix = prefix + "    "
		}

		childName := edge.Target.FullName().String()
		marker := ""
		if visited[childName] {
			marker = " (*)"
		}
		if _, err := fmt.Fprintf(out, "%s%s%s%s\n", prefix, branch, childName, marker); err != nil {
			return err
		}
		if marker == "" {
			if err := printNode(out, edge.Target, childPrefix, false, visited); err != nil {
				return err
			}
		}
	}
	return nil
}
