package graph

// Edge points at a dependency plus an annotation map (tag->value, usually
// bool, sometimes string) used to select subsets of a node's outgoing edges
// — "obj=true" input objects, a "runner=true" executable, a "source=true"
// copy input, and so on.
type Edge struct {
	Target      Node
	Annotations map[string]any
}

// NewEdge builds an Edge. A nil annotations map is treated as empty.
func NewEdge(target Node, annotations map[string]any) *Edge {
	if annotations == nil {
		annotations = map[string]any{}
	}
	return &Edge{Target: target, Annotations: annotations}
}

// HasAnnotations reports whether every key in query is present in the
// edge's annotations with an equal value; a key absent from the edge's
// annotations disqualifies the match. An empty query matches every edge.
func (e *Edge) HasAnnotations(query map[string]any) bool {
	for k, want := range query {
		got, ok := e.Annotations[k]
		if !ok || got != want {
			return false
		}
	}
	return true
}

// Filter returns the subset of edges matching query.
func Filter(edges []*Edge, query map[string]any) []*Edge {
	var out []*Edge
	for _, e := range edges {
		if e.HasAnnotations(query) {
			out = append(out, e)
		}
	}
	return out
}

// Flattenable is implemented by node kinds (GroupNode, and AliasNode via
// embedding) whose own edges should be substituted in place of an edge
// pointing at them, recursively, when a dependent enumerates its inputs.
type Flattenable interface {
	FlattenMembers() []*Edge
}

// Flatten expands every edge pointing at a Flattenable node into that
// node's own (recursively flattened) edges, leaving ordinary edges as-is.
func Flatten(edges []*Edge) []*Edge {
	var out []*Edge
	for _, e := range edges {
		if f, ok := e.Target.(Flattenable); ok {
			out = append(out, Flatten(f.FlattenMembers())...)
			continue
		}
		out = append(out, e)
	}
	return out
}
