package api

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/katalvlaran/hyperroute/compact"
	"github.com/katalvlaran/hyperroute/fabric"
	"github.com/katalvlaran/hyperroute/forward"
	"github.com/katalvlaran/hyperroute/hyperbolic"
	"github.com/katalvlaran/hyperroute/identity"
	"github.com/katalvlaran/hyperroute/neighbor"
	"github.com/katalvlaran/hyperroute/packet"
	"github.com/katalvlaran/hyperroute/rlog"
	"github.com/katalvlaran/hyperroute/transport"
)

// topologyEventBuffer bounds Stream-topology-updates' channel. Spec §6
// explicitly allows dropping lagging consumers rather than blocking the
// publisher, so the channel is small and sends are non-blocking.
const topologyEventBuffer = 64

// Node is the single external-facing collaborator a running hyperroute
// instance exposes, implementing every operation spec §6 names. It owns no
// background loops itself — neighbor.Runner, the ricci refiner's schedule,
// and node.Join/Leave/HealPartition are driven by the caller (normally
// cmd/hyperrouted) — Node only answers queries and performs the
// synchronous per-packet forwarding decision.
type Node struct {
	id        string
	startedAt time.Time

	mu    sync.RWMutex
	coord identity.RoutingCoordinate
	table *compact.Table

	neighbors *neighbor.Store
	engine    *forward.Engine
	stats     *fabric.Stats
	pool      *transport.Pool
	addresses []string

	log *rlog.Logger

	eventsMu sync.Mutex
	events   chan TopologyEvent

	pendingMu sync.Mutex
	pending   map[string]int // packetID -> initial TTL, for in-process delivery hop counting
}

// NewNode constructs a Node. pool may be nil if this Node never transmits
// (e.g. a test double driving HandleIncoming locally only).
func NewNode(id string, initialCoord identity.RoutingCoordinate, neighbors *neighbor.Store, engine *forward.Engine, stats *fabric.Stats, pool *transport.Pool, addresses []string, log *rlog.Logger) *Node {
	if log == nil {
		log = rlog.Nop()
	}
	return &Node{
		id:        id,
		startedAt: time.Now(),
		coord:     initialCoord,
		neighbors: neighbors,
		engine:    engine,
		stats:     stats,
		pool:      pool,
		addresses: addresses,
		log:       log.For("api.node"),
		events:    make(chan TopologyEvent, topologyEventBuffer),
		pending:   make(map[string]int),
	}
}

// SetCoord updates the node's own routing coordinate, e.g. after a Ricci
// refinement pass. Publishes a CoordinateChange topology event.
func (n *Node) SetCoord(rc identity.RoutingCoordinate) {
	n.mu.Lock()
	n.coord = rc
	n.mu.Unlock()
	n.publish(TopologyEvent{Kind: EventCoordinateChange, NodeID: n.id, Coord: coordinateInfo(rc)})
}

func (n *Node) currentCoord() identity.RoutingCoordinate {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.coord
}

// SetCompactTable atomically swaps the node's compact routing table,
// e.g. after a topology-triggered rebuild (spec §5: "Landmark table: built
// once, read many; rebuilt only on major topology change").
func (n *Node) SetCompactTable(t *compact.Table) {
	n.mu.Lock()
	n.table = t
	n.mu.Unlock()
}

func (n *Node) currentTable() *compact.Table {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.table
}

func (n *Node) neighborSnapshot() []forward.Neighbor {
	recs := n.neighbors.All()
	out := make([]forward.Neighbor, 0, len(recs))
	for _, rec := range recs {
		out = append(out, forward.Neighbor{ID: rec.ID, Coord: rec.Coord.Point})
	}
	return out
}

func (n *Node) networkSizeEstimate() int {
	// No global membership census is available locally; fall back on the
	// neighbor count, which forward.Config.NetworkSizeFloor exists
	// precisely to raise to a sane minimum for Pressure's budget/TTL math.
	return n.neighbors.Count()
}

// SubmitPacket implements Submit-packet (spec §6): constructs a header
// aimed at destination's anchor coordinate (the dual coordinate model's
// Phase-1 target, spec §3), runs the local forwarding decision, and either
// delivers immediately (destination is this node or an immediate
// neighbor) or hands the header to the transport pool for the next hop.
func (n *Node) SubmitPacket(destination string, ttl int) (packetID string, status Status, err error) {
	target := identity.Anchor(destination)
	header, err := packet.NewHeader(packet.NewID(), n.id, destination, target, ttl)
	if err != nil {
		return "", StatusFailed, err
	}

	n.pendingMu.Lock()
	n.pending[header.PacketID] = ttl
	n.pendingMu.Unlock()

	status, stepErr := n.step(header)
	return header.PacketID, status, stepErr
}

// HandleIncoming is the transport.Handler a node registers with its TCP
// server for Data packets: it runs exactly one forwarding decision and
// either delivers locally or forwards onward.
func (n *Node) HandleIncoming(h *packet.Header, from net.Addr) error {
	if h.PacketType != packet.Data {
		return nil // Heartbeat/Discovery/CoordinateUpdate are neighbor's concern, not forwarding's
	}
	_, err := n.step(h)
	return err
}

// step runs one forward.Engine decision and carries out its outcome:
// deliver locally on Arrived, or hand off to the transport pool otherwise.
func (n *Node) step(header *packet.Header) (Status, error) {
	selfCoord := n.currentCoord().Point
	dec, err := n.engine.Step(header, n.id, selfCoord, n.neighborSnapshot(), n.currentTable(), nil, n.networkSizeEstimate())
	if err != nil {
		n.stats.RecordFailure()
		n.log.Warn().Str("packet_id", header.PacketID).Err(err).Msg("forwarding failed")
		return StatusFailed, err
	}
	n.stats.RecordRoute()
	n.stats.RecordHop(header.Mode)

	if dec.Arrived {
		n.recordDelivery(header)
		return StatusInTransit, nil
	}

	if n.pool == nil {
		n.stats.RecordFailure()
		return StatusFailed, fmt.Errorf("api: no transport pool configured, cannot forward to %s", dec.NextHop)
	}
	rec, ok := n.neighbors.Get(dec.NextHop)
	if !ok || rec.Address == "" {
		n.stats.RecordFailure()
		return StatusFailed, fmt.Errorf("api: no known address for next hop %s", dec.NextHop)
	}
	if err := n.pool.Send(rec.Address, header); err != nil {
		n.stats.RecordFailure()
		return StatusFailed, fmt.Errorf("api: send to %s: %w", dec.NextHop, err)
	}
	return StatusInTransit, nil
}

func (n *Node) recordDelivery(header *packet.Header) {
	n.pendingMu.Lock()
	initialTTL, tracked := n.pending[header.PacketID]
	delete(n.pending, header.PacketID)
	n.pendingMu.Unlock()

	hops := uint64(1)
	if tracked && initialTTL > header.TTL {
		hops = uint64(initialTTL - header.TTL)
	}
	n.stats.RecordDelivery(hops)
}

// QueryNodeStatus implements Query-node-status.
func (n *Node) QueryNodeStatus() NodeStatus {
	neighborIDs := make([]string, 0)
	for _, rec := range n.neighbors.All() {
		neighborIDs = append(neighborIDs, rec.ID)
	}
	return NodeStatus{
		ID:                 n.id,
		Coord:              coordinateInfo(n.currentCoord()),
		NeighborIDs:        neighborIDs,
		TransportAddresses: n.addresses,
		Uptime:             time.Since(n.startedAt),
	}
}

// QueryNeighbors implements Query-neighbors.
func (n *Node) QueryNeighbors(now time.Time) []NeighborView {
	recs := n.neighbors.All()
	out := make([]NeighborView, 0, len(recs))
	for _, rec := range recs {
		out = append(out, NeighborView{
			ID:               rec.ID,
			Coord:            coordinateInfo(rec.Coord),
			Address:          rec.Address,
			LastHeartbeatAge: now.Sub(rec.LastHeartbeat),
		})
	}
	return out
}

// QueryTopology implements Query-topology: self plus immediate neighbors,
// with hyperbolic distances on every self-to-neighbor edge (spec §6).
func (n *Node) QueryTopology() (TopologySnapshot, error) {
	self := n.currentCoord()
	snap := TopologySnapshot{
		Nodes: []TopologyNode{{ID: n.id, Coord: coordinateInfo(self), IsLocal: true}},
	}

	for _, rec := range n.neighbors.All() {
		snap.Nodes = append(snap.Nodes, TopologyNode{ID: rec.ID, Coord: coordinateInfo(rec.Coord)})
		dist, err := hyperbolic.Distance(self.Point, rec.Coord.Point)
		if err != nil {
			return TopologySnapshot{}, fmt.Errorf("api: distance to %s: %w", rec.ID, err)
		}
		snap.Edges = append(snap.Edges, TopologyEdge{Source: n.id, Target: rec.ID, Distance: dist})
	}
	return snap, nil
}

// StreamTopologyUpdates implements Stream-topology-updates: returns a
// receive-only channel of events. The caller is free to stop reading at
// any time; a slow or absent reader only causes publish to drop the
// oldest buffered event, never to block the node.
func (n *Node) StreamTopologyUpdates() <-chan TopologyEvent {
	return n.events
}

// publish sends ev to every current Stream-topology-updates subscriber
// without blocking: if the channel is full, the oldest event is dropped to
// make room (spec §6: "consumers are free to drop lagging messages").
func (n *Node) publish(ev TopologyEvent) {
	n.eventsMu.Lock()
	defer n.eventsMu.Unlock()

	select {
	case n.events <- ev:
		return
	default:
	}
	select {
	case <-n.events:
	default:
	}
	select {
	case n.events <- ev:
	default:
	}
}

// NotifyNeighborJoin publishes a NodeJoin event, called by the caller's
// neighbor.LeaveHandler-adjacent join path.
func (n *Node) NotifyNeighborJoin(id string) { n.publish(TopologyEvent{Kind: EventNodeJoin, NodeID: id}) }

// NotifyNeighborLeave publishes a NodeLeave event; wire this directly as a
// neighbor.LeaveHandler.
func (n *Node) NotifyNeighborLeave(id string) {
	n.publish(TopologyEvent{Kind: EventNodeLeave, NodeID: id})
}
