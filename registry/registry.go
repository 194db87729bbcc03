// Package registry implements the home-node soft-state directory (spec
// §4.4): each destination ID's rendezvous node stores a HomeRegistration
// mapping that ID to its last-known routing coordinate, with a TTL the
// owning node must refresh before expiry.
//
// Grounded on original_source/src/coordinates.rs::HomeNodeRegistry, adapted
// from that file's combined anchor/routing/registration maps to a single
// registration table — this module's identity package already owns anchor
// and routing coordinate computation, so Registry only needs the soft-state
// directory half. Locking follows core.Graph's per-concern sync.RWMutex
// style (core/types.go).
package registry

import (
	"errors"
	"sync"
	"time"

	"github.com/katalvlaran/hyperroute/identity"
)

// ErrNotRegistered is returned by Lookup when id has no live registration.
var ErrNotRegistered = errors.New("registry: no live registration for id")

// HomeRegistration is the soft-state record a rendezvous node keeps for a
// destination: its last-known routing coordinate and the absolute instant
// the entry stops being authoritative.
type HomeRegistration struct {
	ID        string
	Coord     identity.RoutingCoordinate
	ExpiresAt time.Time
}

// live reports whether the registration has not yet expired as of now.
func (r HomeRegistration) live(now time.Time) bool {
	return now.Before(r.ExpiresAt)
}

// Registry is the rendezvous node's directory of HomeRegistrations. Safe
// for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]HomeRegistration
}

// New builds an empty Registry.
func New() *Registry {
	return &Registry{entries: make(map[string]HomeRegistration)}
}

// Register stores or refreshes id's registration with the given routing
// coordinate, expiring ttl after now. A later Register for the same id
// always overwrites the previous entry outright — registration carries no
// version-ordering requirement of its own (unlike RoutingCoordinate
// updates), since only the owning node ever registers itself.
func (r *Registry) Register(id string, coord identity.RoutingCoordinate, ttl time.Duration, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[id] = HomeRegistration{ID: id, Coord: coord, ExpiresAt: now.Add(ttl)}
}

// Lookup returns id's registration if one exists and has not expired as of
// now. Spec §4.5 treats ErrNotRegistered as a permanent delivery failure for
// the packet that triggered the lookup, not a retryable condition.
func (r *Registry) Lookup(id string, now time.Time) (HomeRegistration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.entries[id]
	if !ok || !reg.live(now) {
		return HomeRegistration{}, ErrNotRegistered
	}
	return reg, nil
}

// CleanupExpired drops every registration that has expired as of now,
// returning the count removed. Called on a periodic sweep; individual
// Lookup calls also self-filter expired entries so correctness never
// depends on sweep timing.
func (r *Registry) CleanupExpired(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, reg := range r.entries {
		if !reg.live(now) {
			delete(r.entries, id)
			removed++
		}
	}
	return removed
}

// Count returns the number of registrations currently held, expired or
// not (expired entries remain until CleanupExpired removes them).
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// RegistrationInterval returns ttl/3, the spec-mandated default refresh
// cadence (spec §4.4: "default TTL/3") for a node that must periodically
// re-register itself at its rendezvous.
func RegistrationInterval(ttl time.Duration) time.Duration {
	return ttl / 3
}
