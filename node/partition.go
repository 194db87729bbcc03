package node

import (
	"sort"
	"strings"
	"time"
)

// PartitionInfo identifies a node's current connectivity partition (spec
// §4.9): a deterministic identifier derived from the sorted set of node IDs
// the node considers itself part of (self plus all known neighbors).
//
// Grounded on original_source/src/network.rs's PartitionInfo — same
// sorted-join identifier construction, detected_at using time.Time instead
// of a monotonic Instant since this package's callers already work in wall
// time (snapshot timestamps, TTL expiry).
type PartitionInfo struct {
	ID         string
	Nodes      []string
	DetectedAt time.Time
}

// ComputePartitionInfo builds a PartitionInfo from self plus its known
// neighbor IDs, sorted for a deterministic identifier.
func ComputePartitionInfo(selfID string, neighborIDs []string, now time.Time) PartitionInfo {
	nodes := make([]string, 0, len(neighborIDs)+1)
	nodes = append(nodes, selfID)
	nodes = append(nodes, neighborIDs...)
	sort.Strings(nodes)
	return PartitionInfo{
		ID:         strings.Join(nodes, ","),
		Nodes:      nodes,
		DetectedAt: now,
	}
}

// HealingEvent describes a detected partition-healing transition: the
// node's known-node set grew between two checks, meaning previously
// unreachable nodes have become reachable again.
type HealingEvent struct {
	PreviousPartitionID string
	CurrentPartitionID  string
	NewNodes            []string
}

// DetectHealing compares a previous and current PartitionInfo and reports a
// HealingEvent if current contains node IDs absent from previous (spec
// §4.9: "When a node's partition identifier grows (new IDs appear that
// were absent last check)").
func DetectHealing(previous, current PartitionInfo) (HealingEvent, bool) {
	prevSet := make(map[string]bool, len(previous.Nodes))
	for _, id := range previous.Nodes {
		prevSet[id] = true
	}

	var newNodes []string
	for _, id := range current.Nodes {
		if !prevSet[id] {
			newNodes = append(newNodes, id)
		}
	}
	if len(newNodes) == 0 {
		return HealingEvent{}, false
	}
	return HealingEvent{
		PreviousPartitionID: previous.ID,
		CurrentPartitionID:  current.ID,
		NewNodes:            newNodes,
	}, true
}
