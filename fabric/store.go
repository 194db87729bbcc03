package fabric

import (
	"hash/fnv"
	"sync"

	"github.com/katalvlaran/hyperroute/identity"
)

// shardCount is the number of independent lock stripes the store splits
// across. Fixed rather than sized to expected load: the teacher's core.Graph
// uses exactly two stripes (muVert, muEdgeAdj) regardless of graph size, and
// this follows the same fixed-stripe-count idiom scaled up for a
// single-purpose key space.
const shardCount = 32

// NodeRecord is the concurrency fabric's view of one remote node: its
// routing coordinate and the neighbor IDs last reported for it.
type NodeRecord struct {
	ID        string
	Coord     identity.RoutingCoordinate
	Neighbors []string
}

type shard struct {
	mu      sync.RWMutex
	records map[string]NodeRecord
}

// Store is the lock-free-to-readers node store from spec §4.10: NodeId →
// NodeRecord, insert/update-coordinate/remove/enumerate, reads dominate
// writes. Implemented as striped shards (one RWMutex per shard) rather than
// a single global lock, so concurrent reads against different nodes never
// contend and a write to one node never blocks a reader of another.
type Store struct {
	shards [shardCount]*shard
}

// NewStore constructs an empty Store with all shards initialized.
func NewStore() *Store {
	s := &Store{}
	for i := range s.shards {
		s.shards[i] = &shard{records: make(map[string]NodeRecord)}
	}
	return s
}

func (s *Store) shardFor(id string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return s.shards[h.Sum32()%shardCount]
}

// Upsert inserts a new record or replaces an existing one unconditionally.
// Use UpdateCoord instead when the caller only has a coordinate and wants
// the version-ordering guarantee.
func (s *Store) Upsert(rec NodeRecord) {
	sh := s.shardFor(rec.ID)
	sh.mu.Lock()
	sh.records[rec.ID] = rec
	sh.mu.Unlock()
}

// Get returns a copy of the record for id and whether it was present.
func (s *Store) Get(id string) (NodeRecord, bool) {
	sh := s.shardFor(id)
	sh.mu.RLock()
	rec, ok := sh.records[id]
	sh.mu.RUnlock()
	return rec, ok
}

// UpdateCoord applies compare-and-increment version semantics (spec §4.10,
// §5's "version counter linearizes coordinate updates"): the update is
// applied only if coord.Version is strictly greater than the stored
// coordinate's version, or if id has no record yet. Returns whether the
// update was applied.
func (s *Store) UpdateCoord(id string, coord identity.RoutingCoordinate) bool {
	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	rec, ok := sh.records[id]
	if !ok {
		sh.records[id] = NodeRecord{ID: id, Coord: coord}
		return true
	}
	if !coord.NewerThan(rec.Coord) {
		return false
	}
	rec.Coord = coord
	sh.records[id] = rec
	return true
}

// UpdateNeighbors replaces the stored neighbor list for id, leaving the
// coordinate untouched. Used by the neighbor/discovery loop to keep the
// fabric's view of topology current without racing coordinate updates.
func (s *Store) UpdateNeighbors(id string, neighbors []string) {
	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	rec := sh.records[id]
	rec.ID = id
	rec.Neighbors = neighbors
	sh.records[id] = rec
}

// Remove deletes id's record, reporting whether it existed.
func (s *Store) Remove(id string) bool {
	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	_, ok := sh.records[id]
	delete(sh.records, id)
	return ok
}

// Count reports the total number of records across all shards.
func (s *Store) Count() int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		total += len(sh.records)
		sh.mu.RUnlock()
	}
	return total
}

// All enumerates every record currently stored. The returned slice is a
// snapshot; it does not observe subsequent writes.
func (s *Store) All() []NodeRecord {
	out := make([]NodeRecord, 0, shardCount)
	for _, sh := range s.shards {
		sh.mu.RLock()
		for _, rec := range sh.records {
			out = append(out, rec)
		}
		sh.mu.RUnlock()
	}
	return out
}
