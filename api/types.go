package api

import (
	"time"

	"github.com/katalvlaran/hyperroute/identity"
)

// Status is the initial status Submit-packet reports back to the caller
// (spec §6: "(packet_id, initial_status ∈ {in_transit, failed})").
// There is no arrived status: when forward.Engine.Step reports Arrived at
// submission (the destination is this node or an immediate neighbor),
// SubmitPacket records the delivery and still reports in_transit.
type Status string

const (
	StatusInTransit Status = "in_transit"
	StatusFailed    Status = "failed"
)

// CoordinateInfo is the wire-shaped coordinate report used by both
// Query-node-status and Query-neighbors, grounded on
// original_source/src/api.rs's CoordinateInfo. Z is always 0: this module's
// embedding is the 2-D Poincaré disk, so |z| from the original 3-D API is
// reported as a constant
// for wire-shape compatibility rather than fabricated as a real axis.
type CoordinateInfo struct {
	X       float64
	Y       float64
	Z       float64
	Version uint64
}

func coordinateInfo(rc identity.RoutingCoordinate) CoordinateInfo {
	return CoordinateInfo{X: rc.Point.X, Y: rc.Point.Y, Z: 0, Version: rc.Version}
}

// NodeStatus answers Query-node-status (spec §6).
type NodeStatus struct {
	ID                 string
	Coord              CoordinateInfo
	NeighborIDs        []string
	TransportAddresses []string
	Uptime             time.Duration
}

// NeighborView answers one entry of Query-neighbors (spec §6).
type NeighborView struct {
	ID               string
	Coord            CoordinateInfo
	Address          string
	LastHeartbeatAge time.Duration
	// RTTMillis is not sampled by this build: no component issues an
	// Ack-roundtrip probe (spec §6 lists Ack as a packet type but no
	// module schedules one). Always 0; kept so callers written against
	// original_source/src/api.rs's NeighborResponse shape still compile.
	RTTMillis uint64
}

// TopologyNode is one node entry in Query-topology's result.
type TopologyNode struct {
	ID      string
	Coord   CoordinateInfo
	IsLocal bool
}

// TopologyEdge is one edge entry in Query-topology's result.
type TopologyEdge struct {
	Source   string
	Target   string
	Distance float64
}

// TopologySnapshot is Query-topology's full result: the local view (self +
// neighbors), never the whole network (spec §6: "returns the local view").
type TopologySnapshot struct {
	Nodes []TopologyNode
	Edges []TopologyEdge
}

// TopologyEventKind tags a TopologyEvent's variant (spec §6's
// "{Snapshot, NodeJoin, NodeLeave, EdgeAdd, EdgeRemove, CoordinateChange}").
type TopologyEventKind uint8

const (
	EventSnapshot TopologyEventKind = iota
	EventNodeJoin
	EventNodeLeave
	EventEdgeAdd
	EventEdgeRemove
	EventCoordinateChange
)

// TopologyEvent is one item in Stream-topology-updates' lazy, unbounded
// sequence (spec §6: "consumers are free to drop lagging messages").
type TopologyEvent struct {
	Kind     TopologyEventKind
	NodeID   string
	Coord    CoordinateInfo
	Snapshot TopologySnapshot
}
