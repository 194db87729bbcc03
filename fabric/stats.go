package fabric

import (
	"sync/atomic"

	"github.com/katalvlaran/hyperroute/packet"
)

// modeCount is the number of distinct packet.Mode values, fixing the width
// of Stats.hopsByMode without importing a map into the hot path.
const modeCount = 5

// Stats is the lock-free routing statistics block from spec §4.10: packets
// routed/delivered/failed and hops per mode, all plain atomics with no
// surrounding lock. Grounded on lockfree.rs's RoutingStats, one field per
// counter there mapped one-for-one onto a sync/atomic.Uint64 here.
type Stats struct {
	packetsRouted    atomic.Uint64
	packetsDelivered atomic.Uint64
	packetsFailed    atomic.Uint64
	totalHops        atomic.Uint64
	hopsByMode       [modeCount]atomic.Uint64
}

// NewStats constructs a zeroed Stats block.
func NewStats() *Stats {
	return &Stats{}
}

// RecordRoute marks one forwarding decision taken (one hop attempted,
// regardless of outcome).
func (s *Stats) RecordRoute() {
	s.packetsRouted.Add(1)
}

// RecordDelivery marks a packet's arrival at its destination, tallying the
// total hop count it took to get there.
func (s *Stats) RecordDelivery(hops uint64) {
	s.packetsDelivered.Add(1)
	s.totalHops.Add(hops)
}

// RecordFailure marks a packet that could not be delivered (TTL expiry,
// ErrComponentExhausted, or any other terminal forwarding error).
func (s *Stats) RecordFailure() {
	s.packetsFailed.Add(1)
}

// RecordHop tallies one hop taken while in the given mode.
func (s *Stats) RecordHop(mode packet.Mode) {
	if int(mode) < modeCount {
		s.hopsByMode[mode].Add(1)
	}
}

// Snapshot is a point-in-time, non-atomic read of every counter, suitable
// for logging or exporting to Prometheus.
type Snapshot struct {
	PacketsRouted    uint64
	PacketsDelivered uint64
	PacketsFailed    uint64
	TotalHops        uint64
	HopsByMode       map[string]uint64
}

// Snapshot reads every counter. Individual counters may be updated
// concurrently with the read; the result is a best-effort point-in-time
// view, matching lockfree.rs's RoutingStats::snapshot.
func (s *Stats) Snapshot() Snapshot {
	byMode := make(map[string]uint64, modeCount)
	for m := packet.Mode(0); int(m) < modeCount; m++ {
		byMode[m.String()] = s.hopsByMode[m].Load()
	}
	return Snapshot{
		PacketsRouted:    s.packetsRouted.Load(),
		PacketsDelivered: s.packetsDelivered.Load(),
		PacketsFailed:    s.packetsFailed.Load(),
		TotalHops:        s.totalHops.Load(),
		HopsByMode:       byMode,
	}
}
