package node

import (
	"context"
	"fmt"
	"time"

	"github.com/katalvlaran/hyperroute/core"
	"github.com/katalvlaran/hyperroute/identity"
	"github.com/katalvlaran/hyperroute/neighbor"
	"github.com/katalvlaran/hyperroute/ricci"
	"github.com/katalvlaran/hyperroute/rlog"
)

// MaxJoinTimeout caps the join-response collection window (spec §4.9:
// "≤ 30 s").
const MaxJoinTimeout = 30 * time.Second

// MaxLeaveGrace caps the shutdown grace period (spec §4.9: "≤ 500 ms").
const MaxLeaveGrace = 500 * time.Millisecond

// PartitionHealingFlowIterations and PartitionHealingCoordIterations are
// the elevated Ricci-flow iteration counts a healing merge runs with (spec
// §4.9: "triggers a Ricci-flow refinement with increased iterations (10
// flow × 20 coord)").
const (
	PartitionHealingFlowIterations  = 10
	PartitionHealingCoordIterations = 20
)

// JoinResult is what Join produces: the node's initial routing coordinate
// (anchor-seeded, then refined once) and its populated neighbor store.
type JoinResult struct {
	Coord identity.RoutingCoordinate
	Store *neighbor.Store
}

// Join implements spec §4.9's join sequence: compute anchor(self) as the
// initial routing coordinate, collect discovery respondents from responses
// for up to joinTimeout (clamped to MaxJoinTimeout), record each as a
// neighbor, then run one Ricci-flow refinement over the resulting
// self-plus-neighbors star topology. Declares success even with zero
// neighbors (first node in the network) — the caller is expected to have
// already broadcast discovery to bootstrap contacts before calling Join.
func Join(ctx context.Context, selfID string, responses <-chan neighbor.Record, joinTimeout time.Duration, maxNeighbors int, refiner *ricci.Refiner, log *rlog.Logger) (*JoinResult, error) {
	if log == nil {
		log = rlog.Nop()
	}
	log = log.For("node")

	if joinTimeout > MaxJoinTimeout || joinTimeout <= 0 {
		joinTimeout = MaxJoinTimeout
	}

	coord := identity.NewRoutingCoordinate(identity.Anchor(selfID))
	store := neighbor.NewStore(selfID, maxNeighbors)
	store.SetSelfCoord(coord.Point)

	deadline := time.NewTimer(joinTimeout)
	defer deadline.Stop()

collectLoop:
	for {
		select {
		case rec, ok := <-responses:
			if !ok {
				break collectLoop
			}
			store.Upsert(rec)
		case <-deadline.C:
			break collectLoop
		case <-ctx.Done():
			break collectLoop
		}
	}

	log.Info().Str("node_id", selfID).Int("neighbors", store.Count()).Msg("join: discovery window closed")

	refined, err := refineSelf(selfID, coord, store, refiner)
	if err != nil {
		log.Warn().Err(err).Msg("join: initial refinement failed, keeping anchor coordinate")
		return &JoinResult{Coord: coord, Store: store}, nil
	}
	return &JoinResult{Coord: refined, Store: store}, nil
}

// refineSelf builds a one-hop star graph (self plus every known neighbor)
// and runs a single Ricci-flow refinement pass over it, returning self's
// refined coordinate. Used by both Join and partition healing.
func refineSelf(selfID string, coord identity.RoutingCoordinate, store *neighbor.Store, refiner *ricci.Refiner) (identity.RoutingCoordinate, error) {
	if refiner == nil {
		return coord, nil
	}

	g := core.NewGraph()
	if err := g.AddVertex(selfID); err != nil {
		return coord, fmt.Errorf("node: build refinement graph: %w", err)
	}

	coords := map[string]identity.RoutingCoordinate{selfID: coord}
	for _, rec := range store.All() {
		if err := g.AddVertex(rec.ID); err != nil {
			continue
		}
		if _, err := g.AddEdge(selfID, rec.ID, 0); err != nil {
			continue
		}
		coords[rec.ID] = rec.Coord
	}

	if len(coords) < 2 {
		return coord, nil
	}

	refined, err := refiner.Refine(g, coords)
	if err != nil {
		return coord, err
	}
	self, ok := refined[selfID]
	if !ok {
		return coord, nil
	}
	return self, nil
}

// Leave implements spec §4.9's leave sequence: wait the grace period
// (clamped to MaxLeaveGrace) for in-flight processing to settle, then drop
// every neighbor record. No explicit leave message is sent — peers detect
// absence via their own heartbeat timeout.
func Leave(store *neighbor.Store, grace time.Duration) {
	if grace > MaxLeaveGrace || grace < 0 {
		grace = MaxLeaveGrace
	}
	time.Sleep(grace)
	for _, rec := range store.All() {
		store.Remove(rec.ID)
	}
}

// HealPartition implements spec §4.9's partition-healing merge: re-derives
// the current partition info, and if new nodes appeared re-runs Ricci-flow
// refinement at the elevated iteration counts. Returns the healing event
// (ok=false if nothing healed) and the node's refined coordinate (unchanged
// if nothing healed or refiner is nil).
func HealPartition(selfID string, previous PartitionInfo, coord identity.RoutingCoordinate, store *neighbor.Store, healingRefiner *ricci.Refiner, now time.Time) (HealingEvent, identity.RoutingCoordinate, bool) {
	ids := make([]string, 0, store.Count())
	for _, rec := range store.All() {
		ids = append(ids, rec.ID)
	}
	current := ComputePartitionInfo(selfID, ids, now)

	event, healed := DetectHealing(previous, current)
	if !healed {
		return HealingEvent{}, coord, false
	}

	refined, err := refineSelf(selfID, coord, store, healingRefiner)
	if err != nil {
		return event, coord, true
	}
	return event, refined, true
}
