package forward

import (
	"github.com/katalvlaran/hyperroute/hyperbolic"
	"github.com/katalvlaran/hyperroute/packet"
)

// stepTreeDFS implements spec §4.6's TreeDFS fallback: sorted-neighbor,
// explicit-stack depth-first search guaranteed to visit the entire
// connected component in O(|V|) hops. Grounded on the teacher's
// dfs.DFS traversal discipline (sorted neighbor order, explicit stack,
// visited set), reimplemented as a single-hop decision since this
// traversal is distributed one hop per packet rather than a batch call.
func (e *Engine) stepTreeDFS(header *packet.Header, selfID string, selfCoord hyperbolic.Point, neighbors []Neighbor) (next string, transitioned bool, err error) {
	selfDist, err := hyperbolic.Distance(selfCoord, header.TargetCoord)
	if err != nil {
		return "", false, err
	}
	if header.RecoveryThreshold > 0 && selfDist < header.RecoveryThreshold {
		header.ResetToGravity()
		return "", true, nil
	}

	header.RecordVisit(selfID)

	for _, id := range sortedNeighborIDs(neighbors) {
		if !header.HasVisited(id) {
			header.DFSStack = append(header.DFSStack, selfID)
			return id, false, nil
		}
	}

	if n := len(header.DFSStack); n > 0 {
		popped := header.DFSStack[n-1]
		header.DFSStack = header.DFSStack[:n-1]
		return popped, false, nil
	}

	return "", false, ErrComponentExhausted
}
