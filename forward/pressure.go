package forward

import (
	"github.com/katalvlaran/hyperroute/compact"
	"github.com/katalvlaran/hyperroute/hyperbolic"
	"github.com/katalvlaran/hyperroute/packet"
)

// stepPressure implements spec §4.6's Pressure mode: decrement the
// budget, forward to the pressure-adjusted-distance minimizer (ties by
// lexicographic ID), then bump and decay pressure_values. Recovers back
// to Gravity the moment self is again closer to target than
// recovery_threshold; exhausts to CompactTable (or TreeDFS if no table)
// once the budget runs out.
func (e *Engine) stepPressure(header *packet.Header, selfID string, selfCoord hyperbolic.Point, neighbors []Neighbor, table *compact.Table) (next string, transitioned bool, err error) {
	selfDist, err := hyperbolic.Distance(selfCoord, header.TargetCoord)
	if err != nil {
		return "", false, err
	}
	if selfDist < header.RecoveryThreshold {
		header.ResetToGravity()
		return "", true, nil
	}

	header.PressureBudget--
	if header.PressureBudget <= 0 {
		if table != nil {
			header.Mode = packet.CompactTable
		} else {
			header.Mode = packet.TreeDFS
		}
		return "", true, nil
	}

	if len(neighbors) == 0 {
		return "", false, ErrNoNeighbors
	}
	if header.PressureValues == nil {
		header.PressureValues = make(map[string]float64)
	}

	bestID := ""
	bestScore := 0.0
	for _, id := range sortedNeighborIDs(neighbors) {
		coord, ok := neighborCoord(neighbors, id)
		if !ok {
			continue
		}
		d, derr := hyperbolic.Distance(coord, header.TargetCoord)
		if derr != nil {
			continue
		}
		score := d + header.PressureValues[id]
		if bestID == "" || score < bestScore {
			bestScore = score
			bestID = id
		}
	}
	if bestID == "" {
		return "", false, ErrNoNeighbors
	}

	header.PressureValues[selfID] += e.cfg.PressureIncrement
	for id, v := range header.PressureValues {
		header.PressureValues[id] = v * e.cfg.PressureDecay
	}
	header.RecordVisit(selfID)

	return bestID, false, nil
}
