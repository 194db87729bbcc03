// File: api.go
// Role: read-only facade over Graph's construction-time flags and a
// point-in-time GraphStats snapshot, used to introspect a topology snapshot
// (e.g. bfs.BFS rejecting a weighted input graph) without reaching into
// Graph's private fields.

package core

// GraphStats is an O(V+E) read-only summary of a Graph's configuration and
// size, for sanity-checking a topology snapshot (exercised by the core
// tests).
type GraphStats struct {
	DirectedDefault     bool
	Weighted            bool
	AllowsMulti         bool
	AllowsLoops         bool
	MixedMode           bool
	VertexCount         int
	EdgeCount           int
	DirectedEdgeCount   int
	UndirectedEdgeCount int
}

// NewMixedGraph constructs a Graph with mixed-mode enabled up front, then
// applies opts left-to-right. Sugar for NewGraph(WithMixedEdges(), opts...).
func NewMixedGraph(opts ...GraphOption) *Graph {
	mixed := make([]GraphOption, 0, len(opts)+1)
	mixed = append(mixed, WithMixedEdges())
	mixed = append(mixed, opts...)
	return NewGraph(mixed...)
}

// Weighted reports whether the graph treats edge weights as meaningful.
// Complexity: O(1).
func (g *Graph) Weighted() bool {
	g.muVert.RLock()
	defer g.muVert.RUnlock()
	return g.weighted
}

// Directed reports whether new edges default to directed.
// Complexity: O(1).
func (g *Graph) Directed() bool {
	g.muVert.RLock()
	defer g.muVert.RUnlock()
	return g.directed
}

// Looped reports whether the graph permits self-loops.
// Complexity: O(1).
func (g *Graph) Looped() bool {
	g.muVert.RLock()
	defer g.muVert.RUnlock()
	return g.allowLoops
}

// Multigraph reports whether the graph permits parallel edges.
// Complexity: O(1).
func (g *Graph) Multigraph() bool {
	g.muVert.RLock()
	defer g.muVert.RUnlock()
	return g.allowMulti
}

// MixedEdges reports whether the graph permits per-edge directedness overrides.
// Complexity: O(1).
func (g *Graph) MixedEdges() bool {
	g.muVert.RLock()
	defer g.muVert.RUnlock()
	return g.allowMixed
}

// Stats produces a read-only summary of the graph's configuration and size.
// Never holds muVert and muEdgeAdj simultaneously, to avoid lock-ordering
// issues under concurrent mutation.
// Complexity: O(V+E).
func (g *Graph) Stats() *GraphStats {
	g.muVert.RLock()
	stats := GraphStats{
		DirectedDefault: g.directed,
		Weighted:        g.weighted,
		AllowsMulti:     g.allowMulti,
		AllowsLoops:     g.allowLoops,
		MixedMode:       g.allowMixed,
		VertexCount:     len(g.vertices),
	}
	g.muVert.RUnlock()

	g.muEdgeAdj.RLock()
	stats.EdgeCount = len(g.edges)
	for _, e := range g.edges {
		if e.Directed {
			stats.DirectedEdgeCount++
		} else {
			stats.UndirectedEdgeCount++
		}
	}
	g.muEdgeAdj.RUnlock()

	return &stats
}
