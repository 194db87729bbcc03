// Package ricci refines a topology's initial embedding (package embed)
// toward coordinates whose pairwise hyperbolic distances better reflect
// graph connectivity, using discrete Ricci-flow: per-edge curvature
// estimation (Sinkhorn-approximated Ollivier-Ricci for low-degree edges,
// O(1) Forman-Ricci for high-degree hubs) drives a flow step that proposes
// new target edge lengths, and proximal-regularized gradient descent moves
// coordinates toward those targets without drifting too far from where
// they already were.
//
// Grounded on original_source/src/ricci.rs (curvature + flow) and
// original_source/src/stability.rs (proximal regularization / max-drift
// clamp), restructured onto this module's core.Graph and
// identity.RoutingCoordinate types.
package ricci

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/hyperroute/core"
	"github.com/katalvlaran/hyperroute/hyperbolic"
	"github.com/katalvlaran/hyperroute/identity"
)

// ErrCoordinateMissing is returned when a graph vertex has no entry in the
// coordinate map passed to a ricci operation.
var ErrCoordinateMissing = errors.New("ricci: vertex has no coordinate")

// Method identifies which curvature estimator produced a CurvatureResult.
type Method int

const (
	// Sinkhorn is Ollivier-Ricci curvature approximated via entropy-
	// regularized optimal transport, used when deg(u)+deg(v) is at most
	// 2·DegreeThreshold.
	Sinkhorn Method = iota
	// Forman is combinatorial Forman-Ricci curvature (O(1)), used when
	// deg(u)+deg(v) exceeds 2·DegreeThreshold.
	Forman
)

func (m Method) String() string {
	switch m {
	case Sinkhorn:
		return "sinkhorn"
	case Forman:
		return "forman"
	default:
		return "unknown"
	}
}

// EdgeKey canonically identifies an undirected edge by its two endpoints,
// ordered so {u,v} and {v,u} compare equal and hash identically.
type EdgeKey struct {
	U, V string
}

func newEdgeKey(a, b string) EdgeKey {
	if a < b {
		return EdgeKey{U: a, V: b}
	}
	return EdgeKey{U: b, V: a}
}

// CurvatureResult is the curvature estimate for one edge.
type CurvatureResult struct {
	Edge   EdgeKey
	Value  float64
	Method Method
}

// sinkhornMaxIter, sinkhornEpsilon, and sinkhornLambda are the Sinkhorn
// solver's iteration cap, convergence threshold, and entropy-regularization
// weight, unchanged from the original implementation's tuned constants.
const (
	sinkhornMaxIter = 100
	sinkhornEpsilon = 1e-6
	sinkhornLambda  = 0.1
)

// neighborSets adjacency used by curvature estimation: each node's ID plus
// its list of live neighbor IDs.
type neighborSets map[string][]string

// buildNeighborSets reads g's undirected adjacency once so curvature
// estimation never re-queries the graph per edge.
func buildNeighborSets(g *core.Graph) (neighborSets, error) {
	vertices := g.Vertices()
	sets := make(neighborSets, len(vertices))
	for _, id := range vertices {
		nbrs, err := g.NeighborIDs(id)
		if err != nil {
			return nil, fmt.Errorf("ricci: NeighborIDs(%q): %w", id, err)
		}
		sets[id] = nbrs
	}
	return sets, nil
}

// ComputeCurvatures estimates curvature for every edge in g, switching
// between Sinkhorn and Forman per spec §4.3's hybrid rule: an edge whose
// endpoints' combined degree exceeds 2*degreeThreshold uses the O(1) Forman
// estimator, everything else uses the Sinkhorn-approximated Ollivier-Ricci
// estimator.
func ComputeCurvatures(g *core.Graph, coords map[string]identity.RoutingCoordinate, degreeThreshold int) ([]CurvatureResult, error) {
	sets, err := buildNeighborSets(g)
	if err != nil {
		return nil, err
	}

	seen := make(map[EdgeKey]bool)
	results := make([]CurvatureResult, 0, len(g.Edges()))
	for _, e := range g.Edges() {
		key := newEdgeKey(e.From, e.To)
		if seen[key] {
			continue
		}
		seen[key] = true

		result, err := computeCurvature(key, sets, coords, degreeThreshold)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

func computeCurvature(edge EdgeKey, sets neighborSets, coords map[string]identity.RoutingCoordinate, degreeThreshold int) (CurvatureResult, error) {
	degU, degV := len(sets[edge.U]), len(sets[edge.V])
	if degU+degV > degreeThreshold*2 {
		return computeFormanCurvature(edge, degU, degV), nil
	}
	return computeSinkhornCurvature(edge, sets, coords)
}

// computeFormanCurvature implements Ric_F(e) = 4 - deg(u) - deg(v): O(1),
// negative for edges between high-degree hubs, positive for well-connected
// low-degree edges.
func computeFormanCurvature(edge EdgeKey, degU, degV int) CurvatureResult {
	return CurvatureResult{
		Edge:   edge,
		Value:  4.0 - float64(degU) - float64(degV),
		Method: Forman,
	}
}

// computeSinkhornCurvature implements Ollivier-Ricci curvature
// κ(e) = 1 - W₁(μ_u, μ_v)/d(u,v), with the 1-Wasserstein distance between
// uniform neighborhood distributions approximated by Sinkhorn iteration.
func computeSinkhornCurvature(edge EdgeKey, sets neighborSets, coords map[string]identity.RoutingCoordinate) (CurvatureResult, error) {
	coordU, okU := coords[edge.U]
	coordV, okV := coords[edge.V]
	if !okU {
		return CurvatureResult{}, fmt.Errorf("%w: %q", ErrCoordinateMissing, edge.U)
	}
	if !okV {
		return CurvatureResult{}, fmt.Errorf("%w: %q", ErrCoordinateMissing, edge.V)
	}

	edgeLength, err := hyperbolic.Distance(coordU.Point, coordV.Point)
	if err != nil {
		return CurvatureResult{}, fmt.Errorf("ricci: edge length %v-%v: %w", edge.U, edge.V, err)
	}
	if edgeLength < 1e-10 {
		return CurvatureResult{Edge: edge, Value: 1.0, Method: Sinkhorn}, nil
	}

	nodesU := append([]string{edge.U}, sets[edge.U]...)
	nodesV := append([]string{edge.V}, sets[edge.V]...)
	if len(nodesU) == 0 || len(nodesV) == 0 {
		return CurvatureResult{Edge: edge, Value: 0, Method: Sinkhorn}, nil
	}

	muU := uniformDistribution(len(nodesU))
	muV := uniformDistribution(len(nodesV))

	cost, err := costMatrix(nodesU, nodesV, coords)
	if err != nil {
		return CurvatureResult{}, err
	}

	w1 := sinkhornDistance(muU, muV, cost)
	curvature := 1.0 - w1/edgeLength

	return CurvatureResult{Edge: edge, Value: curvature, Method: Sinkhorn}, nil
}

func uniformDistribution(n int) []float64 {
	dist := make([]float64, n)
	p := 1.0 / float64(n)
	for i := range dist {
		dist[i] = p
	}
	return dist
}

func costMatrix(nodesU, nodesV []string, coords map[string]identity.RoutingCoordinate) ([][]float64, error) {
	matrix := make([][]float64, len(nodesU))
	for i, idU := range nodesU {
		matrix[i] = make([]float64, len(nodesV))
		cu, ok := coords[idU]
		if !ok {
			continue
		}
		for j, idV := range nodesV {
			cv, ok := coords[idV]
			if !ok {
				continue
			}
			d, err := hyperbolic.Distance(cu.Point, cv.Point)
			if err != nil {
				return nil, fmt.Errorf("ricci: cost(%q,%q): %w", idU, idV, err)
			}
			matrix[i][j] = d
		}
	}
	return matrix, nil
}

// sinkhornDistance approximates the 1-Wasserstein distance between mu and
// nu under cost via entropy-regularized Sinkhorn-Knopp scaling.
func sinkhornDistance(mu, nu []float64, cost [][]float64) float64 {
	n, m := len(mu), len(nu)
	if n == 0 || m == 0 {
		return 0
	}

	k := make([][]float64, n)
	for i := 0; i < n; i++ {
		k[i] = make([]float64, m)
		for j := 0; j < m; j++ {
			k[i][j] = math.Exp(-cost[i][j] / sinkhornLambda)
		}
	}

	u := make([]float64, n)
	v := make([]float64, m)
	for i := range u {
		u[i] = 1.0
	}
	for j := range v {
		v[j] = 1.0
	}

	for iter := 0; iter < sinkhornMaxIter; iter++ {
		uOld := append([]float64(nil), u...)

		for j := 0; j < m; j++ {
			sum := 0.0
			for i := 0; i < n; i++ {
				sum += k[i][j] * u[i]
			}
			if sum > 1e-10 {
				v[j] = nu[j] / sum
			} else {
				v[j] = 0
			}
		}
		for i := 0; i < n; i++ {
			sum := 0.0
			for j := 0; j < m; j++ {
				sum += k[i][j] * v[j]
			}
			if sum > 1e-10 {
				u[i] = mu[i] / sum
			} else {
				u[i] = 0
			}
		}

		maxChange := 0.0
		for i := range u {
			if d := math.Abs(u[i] - uOld[i]); d > maxChange {
				maxChange = d
			}
		}
		if maxChange < sinkhornEpsilon {
			break
		}
	}

	w1 := 0.0
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			w1 += u[i] * k[i][j] * v[j] * cost[i][j]
		}
	}
	return w1
}
