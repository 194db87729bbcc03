package forward

import (
	"github.com/katalvlaran/hyperroute/compact"
	"github.com/katalvlaran/hyperroute/packet"
)

// stepCompactTable implements spec §4.6's CompactTable mode: stamp the
// full stretch-≤3 waypoint list on first entry, then advance along it —
// directly if the next waypoint is an immediate neighbor, otherwise via a
// local greedy step using the table's own next-hop routing toward that
// waypoint. Falls through to TreeDFS if no table is available, the path
// cannot be computed, or the path is exhausted without arrival.
func (e *Engine) stepCompactTable(header *packet.Header, selfID string, neighbors []Neighbor, table *compact.Table) (next string, transitioned bool, err error) {
	if table == nil {
		header.Mode = packet.TreeDFS
		return "", true, nil
	}

	if len(header.CompactPath) == 0 {
		path, perr := table.ComputePath(selfID, header.Destination)
		if perr != nil {
			header.Mode = packet.TreeDFS
			return "", true, nil
		}
		header.CompactPath = path
		header.CompactIndex = 0
	}

	if header.CompactIndex >= len(header.CompactPath)-1 {
		header.Mode = packet.TreeDFS
		return "", true, nil
	}

	waypoint := header.CompactPath[header.CompactIndex+1]
	for _, nb := range neighbors {
		if nb.ID == waypoint {
			header.CompactIndex++
			return waypoint, false, nil
		}
	}

	hop, _, herr := table.NextHop(selfID, waypoint)
	if herr != nil {
		header.Mode = packet.TreeDFS
		return "", true, nil
	}
	return hop, false, nil
}
