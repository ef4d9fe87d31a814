// Package depgraph records which outputs each source file contributes to.
//
// A Graph is a directed edge set between file paths. Emitters produce one per
// build; the incremental builder compares graphs across builds to decide what
// to re-emit. Graphs are bipartite in practice (sources point at outputs) and
// no cycle handling is done.
package depgraph

import (
	"sort"

	"git.home.luguber.info/inful/catpages/internal/util/sets"
)

// Edge is a single source → target dependency.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph is a directed graph of file paths. The zero value is not usable; use
// New.
type Graph struct {
	out map[string]sets.Set[string]
	in  map[string]sets.Set[string]
}

func New() *Graph {
	return &Graph{
		out: make(map[string]sets.Set[string]),
		in:  make(map[string]sets.Set[string]),
	}
}

// FromEdges builds a graph from an edge list.
func FromEdges(edges []Edge) *Graph {
	g := New()
	for _, e := range edges {
		g.AddEdge(e.Source, e.Target)
	}
	return g
}

// AddEdge records that source contributes to target. Adding an existing edge
// is a no-op.
func (g *Graph) AddEdge(source, target string) {
	if g.out[source] == nil {
		g.out[source] = sets.New[string]()
	}
	if g.in[target] == nil {
		g.in[target] = sets.New[string]()
	}
	g.out[source].Add(target)
	g.in[target].Add(source)
}

// RemoveNode drops a node and every edge touching it.
func (g *Graph) RemoveNode(node string) {
	for target := range g.out[node] {
		g.in[target].Delete(node)
		if g.in[target].Len() == 0 {
			delete(g.in, target)
		}
	}
	for source := range g.in[node] {
		g.out[source].Delete(node)
		if g.out[source].Len() == 0 {
			delete(g.out, source)
		}
	}
	delete(g.out, node)
	delete(g.in, node)
}

func (g *Graph) HasEdge(source, target string) bool {
	return g.out[source].Has(target)
}

// Targets returns the outputs source contributes to, sorted.
func (g *Graph) Targets(source string) []string {
	return sets.Sorted(g.out[source])
}

// Sources returns the inputs that contribute to target, sorted.
func (g *Graph) Sources(target string) []string {
	return sets.Sorted(g.in[target])
}

// Dependents returns every node reachable from node, excluding node itself,
// sorted.
func (g *Graph) Dependents(node string) []string {
	seen := sets.New[string]()
	stack := []string{node}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for next := range g.out[n] {
			if next == node || seen.Has(next) {
				continue
			}
			seen.Add(next)
			stack = append(stack, next)
		}
	}
	return sets.Sorted(seen)
}

// SourceNodes returns every node with outgoing edges, sorted.
func (g *Graph) SourceNodes() []string {
	s := sets.New[string]()
	for n := range g.out {
		s.Add(n)
	}
	return sets.Sorted(s)
}

// TargetNodes returns every node with incoming edges, sorted.
func (g *Graph) TargetNodes() []string {
	s := sets.New[string]()
	for n := range g.in {
		s.Add(n)
	}
	return sets.Sorted(s)
}

// Edges returns all edges sorted by source then target.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for source, targets := range g.out {
		for target := range targets {
			edges = append(edges, Edge{Source: source, Target: target})
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Target < edges[j].Target
	})
	return edges
}

// Len returns the number of edges.
func (g *Graph) Len() int {
	n := 0
	for _, targets := range g.out {
		n += targets.Len()
	}
	return n
}

// Merge adds every edge of other to g.
func (g *Graph) Merge(other *Graph) {
	if other == nil {
		return
	}
	for source, targets := range other.out {
		for target := range targets {
			g.AddEdge(source, target)
		}
	}
}

// Equal reports whether both graphs hold the same edge set.
func (g *Graph) Equal(other *Graph) bool {
	if other == nil || g.Len() != other.Len() {
		return false
	}
	for source, targets := range g.out {
		for target := range targets {
			if !other.HasEdge(source, target) {
				return false
			}
		}
	}
	return true
}
