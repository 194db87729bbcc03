package forward

import (
	"github.com/katalvlaran/hyperroute/hyperbolic"
	"github.com/katalvlaran/hyperroute/packet"
)

type khopNode struct {
	coord hyperbolic.Point
}

// localKHopSubgraph explores up to kHop hops from self via view, seeding
// depth-1 directly from the node's known immediate neighbors (so the
// result never disagrees with the caller's own neighbor list at depth 1).
// Returns the discovered node coordinates and an adjacency list keyed by
// node ID; nodes at the outer fringe (never expanded) have no adjacency
// entry and are treated as potential-field boundary nodes.
func localKHopSubgraph(selfID string, selfCoord hyperbolic.Point, neighbors []Neighbor, view LocalView, kHop int) (map[string]khopNode, map[string][]string) {
	nodes := map[string]khopNode{selfID: {coord: selfCoord}}
	adjacency := map[string][]string{}

	selfAdj := make([]string, 0, len(neighbors))
	frontier := make([]string, 0, len(neighbors))
	for _, nb := range neighbors {
		selfAdj = append(selfAdj, nb.ID)
		if _, seen := nodes[nb.ID]; !seen {
			nodes[nb.ID] = khopNode{coord: nb.Coord}
			frontier = append(frontier, nb.ID)
		}
	}
	adjacency[selfID] = selfAdj

	for depth := 1; depth < kHop && len(frontier) > 0; depth++ {
		next := make([]string, 0)
		for _, id := range frontier {
			descendants, ok := view.Neighbors(id)
			if !ok {
				continue
			}
			ids := make([]string, 0, len(descendants))
			for _, dn := range descendants {
				ids = append(ids, dn.ID)
				if _, seen := nodes[dn.ID]; !seen {
					nodes[dn.ID] = khopNode{coord: dn.Coord}
					next = append(next, dn.ID)
				}
			}
			adjacency[id] = ids
		}
		frontier = next
	}
	return nodes, adjacency
}

// hittingTimePotential runs spec §4.6's Gauss-Seidel iteration: φ_t(sink)
// = 0, φ_t(u) = 1 + mean(φ_t over neighbors), for PotentialIterations
// rounds over the given local subgraph. Nodes with no recorded adjacency
// (the k-hop boundary) keep their initial value unchanged, approximating
// the horizon beyond the local snapshot.
func hittingTimePotential(nodes map[string]khopNode, adjacency map[string][]string, sink string, iterations int) map[string]float64 {
	phi := make(map[string]float64, len(nodes))
	for id := range nodes {
		phi[id] = 1.0
	}
	_, hasSink := nodes[sink]
	if hasSink {
		phi[sink] = 0
	}

	for iter := 0; iter < iterations; iter++ {
		for id := range nodes {
			if hasSink && id == sink {
				continue
			}
			nbrs := adjacency[id]
			if len(nbrs) == 0 {
				continue
			}
			sum := 0.0
			for _, nid := range nbrs {
				sum += phi[nid]
			}
			phi[id] = 1 + sum/float64(len(nbrs))
		}
	}
	return phi
}

// stepHyperbolicPotential implements spec §4.6's HyperbolicPotential
// mode: score each immediate neighbor by hyperbolic distance plus a
// λ-weighted hitting-time potential solved over a local k-hop subgraph,
// forwarding if any neighbor strictly improves distance (phase 1) or
// potential (phase 2). Falls through to CompactTable otherwise, or
// immediately if the mode is disabled or no LocalView is available.
func (e *Engine) stepHyperbolicPotential(header *packet.Header, selfID string, selfCoord hyperbolic.Point, neighbors []Neighbor, view LocalView) (next string, transitioned bool, err error) {
	if !e.cfg.HyperbolicPotentialEnabled || view == nil {
		header.Mode = packet.CompactTable
		return "", true, nil
	}

	selfDist, derr := hyperbolic.Distance(selfCoord, header.TargetCoord)
	if derr != nil {
		return "", false, derr
	}

	nodes, adjacency := localKHopSubgraph(selfID, selfCoord, neighbors, view, e.cfg.PotentialKHop)
	phi := hittingTimePotential(nodes, adjacency, header.Destination, e.cfg.PotentialIterations)
	selfPhi := phi[selfID]

	ds := make(map[string]float64, len(neighbors))
	for _, nb := range neighbors {
		d, dd := hyperbolic.Distance(nb.Coord, header.TargetCoord)
		if dd != nil {
			continue
		}
		ds[nb.ID] = d
	}
	if len(ds) == 0 {
		header.Mode = packet.CompactTable
		return "", true, nil
	}

	minD, maxD := selfDist, selfDist
	minPhi, maxPhi := selfPhi, selfPhi
	for id, d := range ds {
		if d < minD {
			minD = d
		}
		if d > maxD {
			maxD = d
		}
		p := phi[id]
		if p < minPhi {
			minPhi = p
		}
		if p > maxPhi {
			maxPhi = p
		}
	}
	rangeD := maxD - minD
	rangePhi := maxPhi - minPhi
	lambda := 0.0
	if rangePhi > 0 {
		lambda = 0.5 * rangeD / rangePhi
	}
	score := func(id string) float64 { return ds[id] + lambda*phi[id] }

	bestID, bestScore := "", 0.0
	for _, id := range sortedNeighborIDs(neighbors) {
		d, ok := ds[id]
		if !ok || d >= selfDist {
			continue
		}
		s := score(id)
		if bestID == "" || s < bestScore {
			bestScore = s
			bestID = id
		}
	}
	if bestID != "" {
		return bestID, false, nil
	}

	for _, id := range sortedNeighborIDs(neighbors) {
		if _, ok := ds[id]; !ok {
			continue
		}
		if phi[id] >= selfPhi {
			continue
		}
		s := score(id)
		if bestID == "" || s < bestScore {
			bestScore = s
			bestID = id
		}
	}
	if bestID != "" {
		return bestID, false, nil
	}

	header.Mode = packet.CompactTable
	return "", true, nil
}
