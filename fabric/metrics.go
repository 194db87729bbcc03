package fabric

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/katalvlaran/hyperroute/rlog"
)

// MetricsNamespace prefixes every exported series, matching the
// project-as-namespace convention jihwankim/chaos-utils uses for its own
// prometheus collectors.
const MetricsNamespace = "hyperroute"

// Exporter periodically copies a Stats snapshot onto Prometheus
// Counter/Gauge vectors. The forwarding hot path only ever touches Stats's
// atomics directly (spec §4.10); Exporter's collector goroutine is the only
// thing that reads a Snapshot and is free to take as long as it needs.
type Exporter struct {
	stats *Stats
	log   *rlog.Logger

	packetsRouted    prometheus.Counter
	packetsDelivered prometheus.Counter
	packetsFailed    prometheus.Counter
	hopsPerMode      *prometheus.GaugeVec
	avgHopsGauge     prometheus.Gauge

	lastRouted    uint64
	lastDelivered uint64
	lastFailed    uint64
}

// NewExporter registers the fabric's metric series against reg and returns
// an Exporter ready to poll stats. Passing prometheus.NewRegistry() (rather
// than the global DefaultRegisterer) keeps repeated node construction in
// tests from panicking on duplicate registration.
func NewExporter(stats *Stats, reg prometheus.Registerer, log *rlog.Logger) (*Exporter, error) {
	if log == nil {
		log = rlog.Nop()
	}

	e := &Exporter{
		stats: stats,
		log:   log.For("fabric.metrics"),
		packetsRouted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "packets_routed_total",
			Help:      "Forwarding decisions taken, regardless of outcome.",
		}),
		packetsDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "packets_delivered_total",
			Help:      "Packets that reached their destination.",
		}),
		packetsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "packets_failed_total",
			Help:      "Packets that could not be delivered (TTL expiry, exhausted fallback chain).",
		}),
		hopsPerMode: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "hops_per_mode",
			Help:      "Cumulative hops taken while in each forwarding mode.",
		}, []string{"mode"}),
		avgHopsGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "average_hops_per_delivery",
			Help:      "Total hops divided by delivered packets, as of the last collection.",
		}),
	}

	collectors := []prometheus.Collector{
		e.packetsRouted, e.packetsDelivered, e.packetsFailed, e.hopsPerMode, e.avgHopsGauge,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Collect copies one Stats snapshot onto the registered series. Called both
// by Run's periodic loop and directly by tests that want a synchronous
// point-in-time export.
func (e *Exporter) Collect() {
	snap := e.stats.Snapshot()

	e.packetsRouted.Add(float64(counterDelta(&e.lastRouted, snap.PacketsRouted)))
	e.packetsDelivered.Add(float64(counterDelta(&e.lastDelivered, snap.PacketsDelivered)))
	e.packetsFailed.Add(float64(counterDelta(&e.lastFailed, snap.PacketsFailed)))

	for mode, hops := range snap.HopsByMode {
		e.hopsPerMode.WithLabelValues(mode).Set(float64(hops))
	}

	if snap.PacketsDelivered > 0 {
		e.avgHopsGauge.Set(float64(snap.TotalHops) / float64(snap.PacketsDelivered))
	}
}

// counterDelta tracks the previous snapshot's absolute count so Collect can
// report a delta Add to the monotonic prometheus.Counter (which has no
// Set), rather than a Gauge that could go backwards.
func counterDelta(last *uint64, current uint64) uint64 {
	prev := *last
	*last = current
	if current < prev {
		return 0
	}
	return current - prev
}

// Run polls Stats every interval and exports it until ctx is canceled.
// Grounded on neighbor.Runner's ticker+context.Done background-loop idiom.
func (e *Exporter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.log.Debug().Msg("metrics exporter stopping")
			return
		case <-ticker.C:
			e.Collect()
		}
	}
}
