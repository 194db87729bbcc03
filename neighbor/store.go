// Package neighbor maintains the bounded NeighborRecord set a node keeps
// about its live peers (spec §4.8): eviction at capacity, failure detection
// via heartbeat timeout, and the periodic discovery/heartbeat/coordinate-
// broadcast background tasks a running node schedules against it.
//
// The per-entry RWMutex-guarded record shape is grounded on
// flavio-simonelli-KoordeDHT's routingEntry/RoutingTable (routing-entry with
// its own lock, read under RLock, written under Lock); the ticker +
// context.Done background-loop shape is grounded on
// Klingon-tech-klingnet's p2p.Node (runDiscoveryLoop/runPersistLoop).
package neighbor

import (
	"sync"
	"time"

	"github.com/katalvlaran/hyperroute/hyperbolic"
	"github.com/katalvlaran/hyperroute/identity"
)

// Record is what a node remembers about one live neighbor.
type Record struct {
	ID            string
	Address       string
	Coord         identity.RoutingCoordinate
	LastHeartbeat time.Time
}

type entry struct {
	mu  sync.RWMutex
	rec Record
}

// Store holds a node's neighbor set, bounded at maxSize. Safe for
// concurrent use; callers outside this package never see the internal
// per-entry locks.
type Store struct {
	mu        sync.RWMutex
	selfID    string
	selfCoord hyperbolic.Point
	maxSize   int
	entries   map[string]*entry
}

// NewStore builds an empty Store for a node identified by selfID, bounded
// at maxSize neighbors (spec default 10).
func NewStore(selfID string, maxSize int) *Store {
	return &Store{
		selfID:  selfID,
		maxSize: maxSize,
		entries: make(map[string]*entry),
	}
}

// SetSelfCoord updates the coordinate eviction distances are measured from.
func (s *Store) SetSelfCoord(p hyperbolic.Point) {
	s.mu.Lock()
	s.selfCoord = p
	s.mu.Unlock()
}

// Upsert adds or refreshes rec. Self is never recorded (spec §4.8: "Never
// record self"). If the store is at capacity and rec.ID is new, the
// neighbor at greatest hyperbolic distance from self is evicted first; its
// ID is returned as evicted with ok=true. Returns ok=false if rec was
// rejected (rec.ID == selfID).
func (s *Store) Upsert(rec Record) (evicted string, ok bool) {
	if rec.ID == s.selfID {
		return "", false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, exists := s.entries[rec.ID]; exists {
		e.mu.Lock()
		e.rec = rec
		e.mu.Unlock()
		return "", true
	}

	if len(s.entries) >= s.maxSize && s.maxSize > 0 {
		victim, found := s.farthestLocked()
		if found {
			delete(s.entries, victim)
			evicted = victim
		}
	}

	s.entries[rec.ID] = &entry{rec: rec}
	return evicted, true
}

// farthestLocked returns the neighbor ID at greatest hyperbolic distance
// from selfCoord. Caller must hold s.mu.
func (s *Store) farthestLocked() (string, bool) {
	var (
		victim   string
		maxDist  float64 = -1
		hasValue bool
	)
	for id, e := range s.entries {
		e.mu.RLock()
		coord := e.rec.Coord.Point
		e.mu.RUnlock()

		d, err := hyperbolic.Distance(s.selfCoord, coord)
		if err != nil {
			continue
		}
		if d > maxDist {
			maxDist = d
			victim = id
			hasValue = true
		}
	}
	return victim, hasValue
}

// Get returns neighbor id's record, if known.
func (s *Store) Get(id string) (Record, bool) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return Record{}, false
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.rec, true
}

// Remove drops id from the store, if present.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
}

// TouchHeartbeat refreshes id's LastHeartbeat to now, if id is known.
// Reports whether id was found.
func (s *Store) TouchHeartbeat(id string, now time.Time) bool {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	e.mu.Lock()
	e.rec.LastHeartbeat = now
	e.mu.Unlock()
	return true
}

// UpdateCoord applies a CoordinateUpdate to neighbor id if version is newer
// than the currently stored one (spec §4.8: "Recipients ignore updates with
// version ≤ stored_version"). Returns whether the update was applied.
func (s *Store) UpdateCoord(id string, coord identity.RoutingCoordinate) bool {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !coord.NewerThan(e.rec.Coord) {
		return false
	}
	e.rec.Coord = coord
	return true
}

// All returns a snapshot of every known neighbor record.
func (s *Store) All() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, 0, len(s.entries))
	for _, e := range s.entries {
		e.mu.RLock()
		out = append(out, e.rec)
		e.mu.RUnlock()
	}
	return out
}

// Count returns the number of neighbors currently held.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// PruneExpired removes every neighbor whose LastHeartbeat is older than
// failureTimeout as of now (spec §4.8 failure detection), returning the IDs
// removed so the caller can emit neighbor-leave signals for each.
func (s *Store) PruneExpired(failureTimeout time.Duration, now time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []string
	for id, e := range s.entries {
		e.mu.RLock()
		stale := now.Sub(e.rec.LastHeartbeat) > failureTimeout
		e.mu.RUnlock()
		if stale {
			delete(s.entries, id)
			removed = append(removed, id)
		}
	}
	return removed
}
