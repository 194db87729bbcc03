// Package forward implements the per-packet forwarding state machine (spec
// §4.6): Gravity greedy descent, Pressure local-minimum escape, TreeDFS
// guaranteed-delivery fallback, CompactTable landmark-path routing, and the
// optional HyperbolicPotential hitting-time recovery mode. All decisions
// are synchronous, reading only the packet header plus the calling node's
// local view of its own coordinate and immediate neighbors (spec §5: "The
// forwarding decision itself is synchronous and must not suspend").
//
// Grounded on original_source/src/routing.rs's GPRouter (Gravity/Pressure
// constants and escape logic) and original_source/src/tz_routing.rs /
// landmark_routing.rs (CompactTable fallthrough chain), restructured onto
// packet.Header's tagged-variant Mode field per spec §9, with TreeDFS's
// sorted-neighbor explicit-stack discipline grounded on the teacher's
// dfs.DFS traversal shape (reimplemented here as a single-hop decision,
// since this TreeDFS is distributed one hop per call, not a batch
// traversal dfs.DFS could be called into directly).
package forward

import (
	"errors"
	"fmt"
	"sort"

	"github.com/katalvlaran/hyperroute/compact"
	"github.com/katalvlaran/hyperroute/hyperbolic"
	"github.com/katalvlaran/hyperroute/packet"
	"github.com/katalvlaran/hyperroute/rlog"
)

// ErrNoNeighbors is returned when a mode needs to forward but the node has
// no neighbors at all.
var ErrNoNeighbors = errors.New("forward: node has no neighbors")

// ErrComponentExhausted is returned by TreeDFS when the local connected
// component has been fully explored without reaching the destination —
// spec §4.6: "authoritative evidence of disconnection."
var ErrComponentExhausted = errors.New("forward: tree-dfs exhausted connected component")

// ErrTooManyTransitions guards against a pathological mode-transition
// cycle within a single hop; legitimate chains are at most
// Gravity→Pressure→CompactTable→TreeDFS or
// Gravity→Pressure→HyperbolicPotential→CompactTable→TreeDFS.
var ErrTooManyTransitions = errors.New("forward: exceeded mode transitions for a single hop")

const maxModeTransitionsPerHop = 8

// Neighbor is a forwarding node's view of one immediate neighbor: its ID
// and current routing coordinate.
type Neighbor struct {
	ID    string
	Coord hyperbolic.Point
}

// LocalView supplies the bounded multi-hop neighborhood snapshot used by
// the optional Gravity lookahead and by HyperbolicPotential's local
// k-hop potential solve. A nil LocalView disables both — Gravity always
// transitions straight to Pressure on a local minimum, and
// HyperbolicPotential is treated as disabled regardless of
// Config.HyperbolicPotentialEnabled.
type LocalView interface {
	// Neighbors returns id's known immediate neighbors, or ok=false if id
	// is outside the caller's local snapshot.
	Neighbors(id string) (neighbors []Neighbor, ok bool)
}

// Decision is the outcome of one Step call: forward the packet to NextHop.
// Arrived is true when NextHop is the packet's destination, in which case
// the caller delivers locally instead of transmitting further.
type Decision struct {
	NextHop string
	Arrived bool
}

// Engine evaluates one forwarding decision per call to Step. Stateless
// across calls — all per-packet state lives in the packet.Header the
// caller owns.
type Engine struct {
	cfg Config
	log *rlog.Logger
}

// NewEngine builds an Engine. log may be nil (defaults to a no-op logger).
func NewEngine(cfg Config, log *rlog.Logger) *Engine {
	if log == nil {
		log = rlog.Nop()
	}
	return &Engine{cfg: cfg, log: log.For("forward")}
}

// Step decides the next hop for header at selfID, given selfCoord,
// the node's current immediate neighbors, the node's compact routing
// table (nil if not yet built), an optional multi-hop LocalView, and the
// node's best estimate of total network size (used by Pressure's budget
// and by Gravity's lookahead). Mutates header in place: mode transitions,
// TTL decrement, visited/stack/pressure bookkeeping.
func (e *Engine) Step(header *packet.Header, selfID string, selfCoord hyperbolic.Point, neighbors []Neighbor, table *compact.Table, view LocalView, networkSize int) (Decision, error) {
	if header.TTL <= 0 {
		return Decision{}, packet.ErrTTLExpired
	}

	// Common invariant: reaching the destination as a direct neighbor
	// terminates forwarding regardless of mode (spec §4.6).
	for _, nb := range neighbors {
		if nb.ID == header.Destination {
			if err := header.DecrementTTL(); err != nil {
				return Decision{}, err
			}
			return Decision{NextHop: nb.ID, Arrived: true}, nil
		}
	}

	for attempt := 0; attempt < maxModeTransitionsPerHop; attempt++ {
		var (
			next        string
			transitioned bool
			err         error
		)
		switch header.Mode {
		case packet.Gravity:
			next, transitioned, err = e.stepGravity(header, selfID, selfCoord, neighbors, view, networkSize)
		case packet.Pressure:
			next, transitioned, err = e.stepPressure(header, selfID, selfCoord, neighbors, table)
		case packet.TreeDFS:
			next, transitioned, err = e.stepTreeDFS(header, selfID, selfCoord, neighbors)
		case packet.CompactTable:
			next, transitioned, err = e.stepCompactTable(header, selfID, neighbors, table)
		case packet.HyperbolicPotential:
			next, transitioned, err = e.stepHyperbolicPotential(header, selfID, selfCoord, neighbors, view)
		default:
			return Decision{}, fmt.Errorf("forward: unknown mode %v", header.Mode)
		}
		if err != nil {
			return Decision{}, err
		}
		if transitioned {
			continue
		}
		if decErr := header.DecrementTTL(); decErr != nil {
			return Decision{}, decErr
		}
		return Decision{NextHop: next, Arrived: next == header.Destination}, nil
	}
	return Decision{}, ErrTooManyTransitions
}

// sortedNeighborIDs returns neighbor IDs in deterministic ascending order,
// as TreeDFS and Pressure's tie-break both require.
func sortedNeighborIDs(neighbors []Neighbor) []string {
	ids := make([]string, 0, len(neighbors))
	for _, nb := range neighbors {
		ids = append(ids, nb.ID)
	}
	sort.Strings(ids)
	return ids
}

func neighborCoord(neighbors []Neighbor, id string) (hyperbolic.Point, bool) {
	for _, nb := range neighbors {
		if nb.ID == id {
			return nb.Coord, true
		}
	}
	return hyperbolic.Point{}, false
}
