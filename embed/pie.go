// Package embed builds initial hyperbolic coordinates for a topology before
// Ricci-flow refinement (package ricci) takes over. Two independent
// builders are provided, matching spec §4.2: PIE (Polar Increasing-angle
// Embedding) for trees, which gives Kleinberg's 100%-greedy-success
// guarantee, and Landmark-MDS for general connected graphs, which uses
// actual graph distances via farthest-point-sampled landmarks.
//
// Grounded on original_source/src/greedy_embedding.rs (PIE) and
// original_source/src/landmark_embedding.rs (Landmark-MDS), restructured
// into the teacher's functional-option-and-sentinel-error idiom and built
// on this module's own bfs.BFS rather than a hand-rolled queue.
package embed

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/hyperroute/bfs"
	"github.com/katalvlaran/hyperroute/core"
	"github.com/katalvlaran/hyperroute/hyperbolic"
	"github.com/katalvlaran/hyperroute/identity"
)

// ErrEmptyGraph is returned when the input graph has no vertices.
var ErrEmptyGraph = errors.New("embed: graph has no vertices")

// PIEResult is the output of BuildPIE: a coordinate per node plus the
// spanning tree metadata the greedy-forwarding invariant is checked
// against.
type PIEResult struct {
	Coordinates map[string]identity.RoutingCoordinate
	Root        string
	Children    map[string][]string
	MaxDepth    int
}

// pieConfig holds PIE's tunable radial-growth parameters.
type pieConfig struct {
	rootRadius float64
	maxRadius  float64
	radiusBase float64
}

// PIEOption configures BuildPIE.
type PIEOption func(*pieConfig)

// WithRootRadius overrides the radius assigned to the tree root (default
// 0.05 — small but non-zero, to avoid the singularity at the disk's
// origin).
func WithRootRadius(r float64) PIEOption {
	return func(cfg *pieConfig) { cfg.rootRadius = r }
}

// WithMaxRadius overrides the asymptotic radius deep subtrees approach
// (default 0.99, clamped below 1 to stay inside the disk).
func WithMaxRadius(r float64) PIEOption {
	return func(cfg *pieConfig) { cfg.maxRadius = r }
}

// WithRadiusBase overrides the exponential base controlling how quickly
// radius grows with depth (default 0.25 — steep growth, so even moderately
// deep trees approach the boundary).
func WithRadiusBase(base float64) PIEOption {
	return func(cfg *pieConfig) { cfg.radiusBase = base }
}

func newPIEConfig(opts ...PIEOption) pieConfig {
	cfg := pieConfig{rootRadius: 0.05, maxRadius: 0.99, radiusBase: 0.25}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// BuildPIE embeds g's vertices into the Poincaré disk using Polar
// Increasing-angle Embedding: a BFS spanning tree rooted at the
// highest-degree vertex, angle ranges halved at every branch, radius
// growing exponentially with depth. Satisfies invariant 4 (greedy
// forwarding on a tree never revisits a node and reaches the destination
// in at most diameter hops) by construction.
func BuildPIE(g *core.Graph, opts ...PIEOption) (*PIEResult, error) {
	if g == nil {
		return nil, ErrEmptyGraph
	}
	vertices := g.Vertices()
	if len(vertices) == 0 {
		return nil, ErrEmptyGraph
	}
	cfg := newPIEConfig(opts...)

	root, err := highestDegreeVertex(g, vertices)
	if err != nil {
		return nil, err
	}

	bfsResult, err := bfs.BFS(g, root)
	if err != nil {
		return nil, fmt.Errorf("embed: spanning tree from %q: %w", root, err)
	}

	children := make(map[string][]string, len(vertices))
	maxDepth := 0
	// bfsResult.Order is parent-before-child, so appending to the parent's
	// child list in this order reproduces the Rust implementation's
	// BFS-queue child ordering exactly.
	for _, id := range bfsResult.Order {
		if parent, ok := bfsResult.Parent[id]; ok {
			children[parent] = append(children[parent], id)
		}
		if d := bfsResult.Depth[id]; d > maxDepth {
			maxDepth = d
		}
	}

	coords := make(map[string]identity.RoutingCoordinate, len(vertices))
	angleLo := map[string]float64{root: 0}
	angleHi := map[string]float64{root: 2 * math.Pi}

	for _, id := range bfsResult.Order {
		depth := bfsResult.Depth[id]
		lo, hi := angleLo[id], angleHi[id]
		angle := (lo + hi) / 2

		radius := computeRadius(depth, cfg)
		point := hyperbolic.Point{}
		if radius >= 0.001 {
			p, err := hyperbolic.FromPolar(radius, angle)
			if err != nil {
				return nil, fmt.Errorf("embed: FromPolar(%v,%v): %w", radius, angle, err)
			}
			point = p
		}
		coords[id] = identity.NewRoutingCoordinate(point)

		kids := children[id]
		if len(kids) == 0 {
			continue
		}
		span := (hi - lo) / float64(len(kids))
		for i, child := range kids {
			angleLo[child] = lo + float64(i)*span
			angleHi[child] = lo + float64(i+1)*span
		}
	}

	return &PIEResult{
		Coordinates: coords,
		Root:        root,
		Children:    children,
		MaxDepth:    maxDepth,
	}, nil
}

// computeRadius grows radius exponentially with depth:
// r(d) = rootRadius + (maxRadius - rootRadius) * (1 - radiusBase^d),
// clamped to [rootRadius, maxRadius - 0.001].
func computeRadius(depth int, cfg pieConfig) float64 {
	if depth == 0 {
		return cfg.rootRadius
	}
	rng := cfg.maxRadius - cfg.rootRadius
	r := cfg.rootRadius + rng*(1-math.Pow(cfg.radiusBase, float64(depth)))
	if r < cfg.rootRadius {
		r = cfg.rootRadius
	}
	if r > cfg.maxRadius-0.001 {
		r = cfg.maxRadius - 0.001
	}
	return r
}

// highestDegreeVertex picks the vertex with the most neighbors, breaking
// ties by the lexicographically smallest ID for determinism.
func highestDegreeVertex(g *core.Graph, vertices []string) (string, error) {
	best := ""
	bestDegree := -1
	for _, id := range vertices {
		_, _, undirected, err := g.Degree(id)
		if err != nil {
			return "", fmt.Errorf("embed: Degree(%q): %w", id, err)
		}
		if undirected > bestDegree || (undirected == bestDegree && id < best) {
			best = id
			bestDegree = undirected
		}
	}
	return best, nil
}
