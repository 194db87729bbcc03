package neighbor

import (
	"context"
	"sync"
	"time"

	"github.com/katalvlaran/hyperroute/identity"
	"github.com/katalvlaran/hyperroute/rlog"
)

// DiscoveryMessage is the single-hop broadcast a node sends to its
// configured contact addresses to announce itself (spec §4.8).
type DiscoveryMessage struct {
	ID    string
	Coord identity.RoutingCoordinate
}

// HeartbeatMessage is the periodic liveness ping sent to every known
// neighbor address.
type HeartbeatMessage struct {
	ID string
}

// CoordinateUpdateMessage is unicast to every neighbor whenever the
// owner's own routing coordinate changes.
type CoordinateUpdateMessage struct {
	ID    string
	Coord identity.RoutingCoordinate
}

// Transport is the external collaborator neighbor's background tasks send
// through. Implementations live in package transport; this package only
// depends on the interface so it stays testable with a fake.
type Transport interface {
	SendDiscovery(addr string, msg DiscoveryMessage) error
	SendHeartbeat(addr string, msg HeartbeatMessage) error
	SendCoordinateUpdate(addr string, msg CoordinateUpdateMessage) error
}

// Config carries the three periodic intervals plus the failure timeout,
// mirroring config.NeighborConfig so a node can wire its loaded
// configuration straight through.
type Config struct {
	DiscoveryInterval   time.Duration
	HeartbeatInterval   time.Duration
	CoordUpdateInterval time.Duration
	FailureTimeout      time.Duration
}

// LeaveHandler is invoked once per neighbor ID that PruneExpired evicts, so
// the caller can trigger routing-table cleanup and an asynchronous
// coordinate refresh (spec §4.8).
type LeaveHandler func(id string)

// Runner drives a node's four periodic neighbor-maintenance tasks against
// a Store. Grounded on Klingon-tech-klingnet's p2p.Node ticker/context.Done
// background-loop shape (runDiscoveryLoop, runPersistLoop).
type Runner struct {
	store     *Store
	transport Transport
	cfg       Config
	log       *rlog.Logger
	selfID    string

	contactsMu sync.RWMutex
	contacts   []string

	onLeave LeaveHandler

	currentCoord func() identity.RoutingCoordinate

	wg sync.WaitGroup
}

// NewRunner builds a Runner. currentCoord is polled on every
// coordinate-update tick to detect changes worth broadcasting, and on every
// discovery tick for the announced coordinate; onLeave may be nil.
func NewRunner(store *Store, transport Transport, cfg Config, log *rlog.Logger, selfID string, currentCoord func() identity.RoutingCoordinate, onLeave LeaveHandler) *Runner {
	if log == nil {
		log = rlog.Nop()
	}
	return &Runner{
		store:        store,
		transport:    transport,
		cfg:          cfg,
		log:          log.For("neighbor"),
		selfID:       selfID,
		currentCoord: currentCoord,
		onLeave:      onLeave,
	}
}

// SetContacts replaces the bootstrap contact address list discovery
// broadcasts go to.
func (r *Runner) SetContacts(addrs []string) {
	r.contactsMu.Lock()
	r.contacts = append([]string(nil), addrs...)
	r.contactsMu.Unlock()
}

func (r *Runner) contactsSnapshot() []string {
	r.contactsMu.RLock()
	defer r.contactsMu.RUnlock()
	return append([]string(nil), r.contacts...)
}

// Start launches the four background loops; they run until ctx is
// cancelled. Call Wait after cancelling ctx to block until all have exited.
func (r *Runner) Start(ctx context.Context) {
	r.wg.Add(4)
	go r.runDiscoveryLoop(ctx)
	go r.runHeartbeatLoop(ctx)
	go r.runFailureDetectionLoop(ctx)
	go r.runCoordBroadcastLoop(ctx)
}

// Wait blocks until all background loops started by Start have returned.
func (r *Runner) Wait() { r.wg.Wait() }

func (r *Runner) runDiscoveryLoop(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.cfg.DiscoveryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.broadcastDiscovery()
		}
	}
}

func (r *Runner) broadcastDiscovery() {
	msg := DiscoveryMessage{ID: r.selfID, Coord: r.currentCoord()}
	for _, addr := range r.contactsSnapshot() {
		if err := r.transport.SendDiscovery(addr, msg); err != nil {
			r.log.Warn().Str("addr", addr).Err(err).Msg("discovery send failed")
		}
	}
}

func (r *Runner) runHeartbeatLoop(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.sendHeartbeats()
		}
	}
}

func (r *Runner) sendHeartbeats() {
	msg := HeartbeatMessage{ID: r.selfID}
	for _, rec := range r.store.All() {
		if err := r.transport.SendHeartbeat(rec.Address, msg); err != nil {
			r.log.Warn().Str("neighbor", rec.ID).Err(err).Msg("heartbeat send failed")
		}
	}
}

func (r *Runner) runFailureDetectionLoop(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.cfg.FailureTimeout / 5)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			removed := r.store.PruneExpired(r.cfg.FailureTimeout, now)
			for _, id := range removed {
				r.log.Info().Str("neighbor", id).Msg("neighbor failure detected")
				if r.onLeave != nil {
					r.onLeave(id)
				}
			}
		}
	}
}

func (r *Runner) runCoordBroadcastLoop(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.cfg.CoordUpdateInterval)
	defer ticker.Stop()

	var (
		lastBroadcast identity.RoutingCoordinate
		everSent      bool
	)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			current := r.currentCoord()
			if everSent && !current.NewerThan(lastBroadcast) {
				continue
			}
			lastBroadcast = current
			everSent = true
			msg := CoordinateUpdateMessage{ID: r.selfID, Coord: current}
			for _, rec := range r.store.All() {
				if err := r.transport.SendCoordinateUpdate(rec.Address, msg); err != nil {
					r.log.Warn().Str("neighbor", rec.ID).Err(err).Msg("coordinate update send failed")
				}
			}
		}
	}
}
