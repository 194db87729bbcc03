// Package packet defines the PacketHeader carried end-to-end by every
// forwarded packet, its tagged-variant Mode field, and the wire-adjacent
// Codec/Signer interfaces specified at their boundary by spec §6.
//
// The mode enumeration is a tagged variant (a Go const-typed int, matched
// with switch statements in package forward), not a polymorphic interface:
// per spec §9, the state transitions are few and the invariants on each
// mode's auxiliary header fields are tight enough that pattern-matching
// keeps invalid combinations visually obvious at every call site.
package packet

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/katalvlaran/hyperroute/hyperbolic"
)

// NewID generates a packet_id suitable for Submit-packet (spec §6). Uses a
// random (v4) UUID rather than a counter: packet IDs cross node boundaries
// and must not collide between independently-submitting nodes that share no
// coordination.
func NewID() string {
	return uuid.NewString()
}

// Sentinel errors for header construction and mutation.
var (
	// ErrEmptyDestination indicates Submit was called with a blank destination ID.
	ErrEmptyDestination = errors.New("packet: destination ID is empty")

	// ErrInvalidTTL indicates a TTL outside [1, 255] was requested at submit time.
	ErrInvalidTTL = errors.New("packet: ttl must be in [1, 255]")

	// ErrTTLExpired indicates a hop attempted to forward a packet whose TTL is 0.
	ErrTTLExpired = errors.New("packet: ttl expired")

	// ErrOversized indicates a decoded frame exceeded MaxFrameBytes.
	ErrOversized = errors.New("packet: frame exceeds maximum size")

	// ErrRendezvousAlreadyRewritten indicates a second attempt to rewrite
	// target_coord after Phase 1 has already ended for this packet.
	ErrRendezvousAlreadyRewritten = errors.New("packet: rendezvous rewrite already applied")
)

// MaxFrameBytes bounds both TCP and UDP frames (spec §6: 1 MiB).
const MaxFrameBytes = 1 << 20

// Mode is the packet's forwarding state, a tagged variant over the five
// states defined in spec §4.6.
type Mode uint8

const (
	// Gravity is greedy hyperbolic forwarding, the packet's initial and
	// steady-state mode whenever no local minimum has been hit.
	Gravity Mode = iota
	// Pressure is the local-minimum escape mode.
	Pressure
	// TreeDFS is the guaranteed-delivery graph-DFS fallback.
	TreeDFS
	// CompactTable routes via the precomputed stretch-≤3 landmark path.
	CompactTable
	// HyperbolicPotential is the alternative hitting-time-potential fallback.
	HyperbolicPotential
)

// String renders the Mode for logs and telemetry correlation.
func (m Mode) String() string {
	switch m {
	case Gravity:
		return "Gravity"
	case Pressure:
		return "Pressure"
	case TreeDFS:
		return "TreeDFS"
	case CompactTable:
		return "CompactTable"
	case HyperbolicPotential:
		return "HyperbolicPotential"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// Type is the carried packet_type field (spec §6); only Data participates
// in multi-hop forwarding.
type Type uint8

const (
	Data Type = iota
	Heartbeat
	Discovery
	CoordinateUpdate
	Ack
)

func (t Type) String() string {
	switch t {
	case Data:
		return "Data"
	case Heartbeat:
		return "Heartbeat"
	case Discovery:
		return "Discovery"
	case CoordinateUpdate:
		return "CoordinateUpdate"
	case Ack:
		return "Ack"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// Header is the packet header carried end-to-end by every Data packet
// (spec §3 "PacketHeader"). Exactly one node holds and mutates a given
// Header at a time; ownership transfers to the next hop on send.
type Header struct {
	PacketID    string
	PacketType  Type
	Source      string
	Destination string

	TargetCoord hyperbolic.Point
	Mode        Mode
	TTL         int

	Visited []string // append-only per hop in recovery modes; empty in Gravity

	PressureValues map[string]float64 // decays each hop; keyed by node ID
	RecoveryThreshold float64           // distance-to-target that triggered recovery
	PressureBudget    int               // remaining Pressure hops before falling back further

	DFSStack []string // explicit backtrack path for TreeDFS

	CompactPath  []string // precomputed waypoint list for CompactTable
	CompactIndex int

	rendezvousRewritten bool // true once target_coord has been rewritten at the rendezvous
}

// NewHeader constructs a Header in Phase 1 Gravity mode aimed at target
// (normally identity.Anchor(destination)). Returns ErrEmptyDestination or
// ErrInvalidTTL on bad input, matching the Submit-packet contract (spec §6).
func NewHeader(packetID, source, destination string, target hyperbolic.Point, ttl int) (*Header, error) {
	if destination == "" {
		return nil, ErrEmptyDestination
	}
	if ttl < 1 || ttl > 255 {
		return nil, ErrInvalidTTL
	}
	return &Header{
		PacketID:    packetID,
		PacketType:  Data,
		Source:      source,
		Destination: destination,
		TargetCoord: target,
		Mode:        Gravity,
		TTL:         ttl,
	}, nil
}

// DecrementTTL decrements TTL by exactly one, as every hop must (spec
// invariant (a): ttl never increases). Returns ErrTTLExpired if TTL is
// already 0; callers must check before calling.
func (h *Header) DecrementTTL() error {
	if h.TTL <= 0 {
		return ErrTTLExpired
	}
	h.TTL--
	return nil
}

// RewriteTarget performs the one-time rendezvous rewrite of TargetCoord
// (spec §4.5): it may be called at most once per packet. A second call
// returns ErrRendezvousAlreadyRewritten without mutating the header.
func (h *Header) RewriteTarget(newTarget hyperbolic.Point) error {
	if h.rendezvousRewritten {
		return ErrRendezvousAlreadyRewritten
	}
	h.TargetCoord = newTarget
	h.rendezvousRewritten = true
	h.ResetToGravity()
	return nil
}

// RendezvousRewritten reports whether RewriteTarget has already run.
func (h *Header) RendezvousRewritten() bool { return h.rendezvousRewritten }

// ResetToGravity clears all recovery-mode auxiliary state and returns the
// header to Gravity mode. This is the ONLY function permitted to clear
// Visited/DFSStack (spec §9's correction of the archive bug: TreeDFS's
// visited set is never reset except on re-entry to Gravity).
func (h *Header) ResetToGravity() {
	h.Mode = Gravity
	h.Visited = nil
	h.PressureValues = nil
	h.RecoveryThreshold = 0
	h.PressureBudget = 0
	h.DFSStack = nil
	h.CompactPath = nil
	h.CompactIndex = 0
}

// HasVisited reports whether node has already appeared in Visited.
func (h *Header) HasVisited(node string) bool {
	for _, v := range h.Visited {
		if v == node {
			return true
		}
	}
	return false
}

// RecordVisit appends node to Visited if not already present.
func (h *Header) RecordVisit(node string) {
	if !h.HasVisited(node) {
		h.Visited = append(h.Visited, node)
	}
}
