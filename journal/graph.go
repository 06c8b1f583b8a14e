package journal

import (
	"bytes"
	"fmt"
	"sort"
	"sync"

	"github.com/comalice/presenterx"
)

// singleVariant labels the state of a presenter without variants.
const singleVariant = "state"

// Edge is a variant change observed at least once.
type Edge struct {
	From   string
	To     string
	Label  string
	Weight int
}

// Graph accumulates the state variants a presenter moved through.
// It implements presenterx.Observer.
type Graph struct {
	mu      sync.Mutex
	nodes   map[string]int
	edges   map[[3]string]int
	current string
}

// NewGraph creates an empty Graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]int),
		edges: make(map[[3]string]int),
	}
}

func (g *Graph) Observe(t presenterx.Transition) {
	from, to := variantName(t.FromVariant), variantName(t.ToVariant)

	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.nodes) == 0 {
		g.nodes[from]++
	}
	g.nodes[to]++
	if from != to {
		g.edges[[3]string{from, to, t.ActionType}]++
	}
	g.current = to
}

// Edges returns the recorded variant changes sorted by source, target and label.
func (g *Graph) Edges() []Edge {
	g.mu.Lock()
	defer g.mu.Unlock()
	edges := make([]Edge, 0, len(g.edges))
	for k, w := range g.edges {
		edges = append(edges, Edge{From: k[0], To: k[1], Label: k[2], Weight: w})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		if edges[i].To != edges[j].To {
			return edges[i].To < edges[j].To
		}
		return edges[i].Label < edges[j].Label
	})
	return edges
}

// ExportDOT generates Graphviz DOT source. The current variant is filled.
func (g *Graph) ExportDOT() string {
	edges := g.Edges()

	g.mu.Lock()
	nodes := make([]string, 0, len(g.nodes))
	visits := make(map[string]int, len(g.nodes))
	for n, c := range g.nodes {
		nodes = append(nodes, n)
		visits[n] = c
	}
	current := g.current
	g.mu.Unlock()
	sort.Strings(nodes)

	var buf bytes.Buffer
	buf.WriteString(`digraph Presenter {
  rankdir=LR;
  node [shape=box, fontsize=10, style=rounded];
  edge [fontsize=9];
`)
	for _, n := range nodes {
		style := ""
		if n == current {
			style = ` style="rounded,filled" fillcolor=orange`
		}
		fmt.Fprintf(&buf, "  %q [label=%q%s];\n", n, fmt.Sprintf("%s (%d)", n, visits[n]), style)
	}
	for _, e := range edges {
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.From, e.To, fmt.Sprintf("%s x%d", e.Label, e.Weight))
	}
	buf.WriteString("}\n")
	return buf.String()
}

func variantName(v string) string {
	if v == "" {
		return singleVariant
	}
	return v
}
