package forward

import (
	"github.com/katalvlaran/hyperroute/hyperbolic"
	"github.com/katalvlaran/hyperroute/packet"
)

// stepGravity implements spec §4.6's Gravity mode: forward to the
// neighbor strictly closer to target_coord than self; on a local minimum,
// try the optional bounded lookahead, then transition to Pressure.
func (e *Engine) stepGravity(header *packet.Header, selfID string, selfCoord hyperbolic.Point, neighbors []Neighbor, view LocalView, networkSize int) (next string, transitioned bool, err error) {
	selfDist, err := hyperbolic.Distance(selfCoord, header.TargetCoord)
	if err != nil {
		return "", false, err
	}

	bestID := ""
	bestDist := selfDist
	for _, nb := range neighbors {
		d, derr := hyperbolic.Distance(nb.Coord, header.TargetCoord)
		if derr != nil {
			continue
		}
		if bestID == "" || d < bestDist {
			bestDist = d
			bestID = nb.ID
		}
	}
	if bestID != "" && bestDist < selfDist {
		return bestID, false, nil
	}

	if view != nil && e.cfg.LookaheadDepth > 0 && e.cfg.LookaheadMaxNodes > 0 {
		if hop, ok := e.lookahead(header, neighbors, view, selfDist); ok {
			return hop, false, nil
		}
	}

	header.Mode = packet.Pressure
	header.RecoveryThreshold = selfDist
	n := networkSize
	if n < 1 {
		n = e.cfg.NetworkSizeFloor
	}
	header.PressureBudget = n / 2
	header.PressureValues = make(map[string]float64)
	return "", true, nil
}

type lookaheadItem struct {
	nb       Neighbor
	firstHop string
	depth    int
}

// lookahead explores up to LookaheadDepth hops and LookaheadMaxNodes total
// nodes from self's immediate neighbors, looking for any descendant
// strictly closer to target_coord than self (spec §4.6's "optional
// intermediate step"). Returns the first-hop neighbor leading to the best
// descendant found, or ok=false if none improves on selfDist.
func (e *Engine) lookahead(header *packet.Header, neighbors []Neighbor, view LocalView, selfDist float64) (string, bool) {
	visited := make(map[string]bool, len(neighbors))
	queue := make([]lookaheadItem, 0, len(neighbors))
	for _, nb := range neighbors {
		visited[nb.ID] = true
		queue = append(queue, lookaheadItem{nb: nb, firstHop: nb.ID, depth: 1})
	}

	bestFirstHop := ""
	bestDist := selfDist
	explored := 0

	for len(queue) > 0 && explored < e.cfg.LookaheadMaxNodes {
		item := queue[0]
		queue = queue[1:]
		explored++

		d, derr := hyperbolic.Distance(item.nb.Coord, header.TargetCoord)
		if derr == nil && d < bestDist {
			bestDist = d
			bestFirstHop = item.firstHop
		}

		if item.depth >= e.cfg.LookaheadDepth {
			continue
		}
		descendants, ok := view.Neighbors(item.nb.ID)
		if !ok {
			continue
		}
		for _, dn := range descendants {
			if visited[dn.ID] {
				continue
			}
			visited[dn.ID] = true
			queue = append(queue, lookaheadItem{nb: dn, firstHop: item.firstHop, depth: item.depth + 1})
		}
	}

	if bestFirstHop == "" {
		return "", false
	}
	return bestFirstHop, true
}
