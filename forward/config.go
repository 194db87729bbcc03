package forward

import "math"

// Config carries every tunable the forwarding state machine reads (spec
// §4.6). Field defaults match the spec's stated constants; zero-value
// Config is not usable directly — call DefaultConfig.
type Config struct {
	// PressureIncrement is added to pressure_values[self] before each
	// Pressure-mode send (default 5.0).
	PressureIncrement float64
	// PressureDecay multiplies every pressure_values entry after each
	// Pressure-mode send (default 0.95).
	PressureDecay float64
	// NetworkSizeFloor is used to estimate N for pressure_budget and TTL
	// when no better estimate (registry count) is available (default
	// 1024).
	NetworkSizeFloor int

	// LookaheadDepth and LookaheadMaxNodes bound the optional bounded
	// lookahead consulted before committing to a Gravity→Pressure
	// transition (spec §4.6's "optional intermediate step"). Zero depth
	// disables the lookahead entirely.
	LookaheadDepth    int
	LookaheadMaxNodes int

	// HyperbolicPotentialEnabled gates the HyperbolicPotential mode; the
	// spec marks it "usable when a distinguished build enables it" — off
	// by default.
	HyperbolicPotentialEnabled bool
	// PotentialKHop bounds the local subgraph HyperbolicPotential solves
	// φ_t over (default 3).
	PotentialKHop int
	// PotentialIterations is the number of Gauss-Seidel rounds used to
	// converge φ_t (default 20).
	PotentialIterations int

	// TTL budget formula parameters (spec §4.6: ttl =
	// max(αN, β·logN·D, TTLMin), capped at TTLMax).
	TTLAlpha float64
	TTLBeta  float64
	TTLMin   int
	TTLMax   int
}

// DefaultConfig returns the spec's stated defaults for every tunable.
func DefaultConfig() Config {
	return Config{
		PressureIncrement:          5.0,
		PressureDecay:              0.95,
		NetworkSizeFloor:           1024,
		LookaheadDepth:             0,
		LookaheadMaxNodes:          0,
		HyperbolicPotentialEnabled: false,
		PotentialKHop:              3,
		PotentialIterations:        20,
		TTLAlpha:                   0.01,
		TTLBeta:                    5,
		TTLMin:                     200,
		TTLMax:                     500000,
	}
}

// BudgetTTL computes the TTL a newly-submitted packet should be stamped
// with, given the node's best estimate of network size N and the
// hyperbolic diameter estimate D (spec §4.6: "ttl = max(αN, β·logN·D,
// TTL_min), capped at 500 000").
func (c Config) BudgetTTL(n int, diameter float64) int {
	if n < 1 {
		n = c.NetworkSizeFloor
	}
	alphaN := c.TTLAlpha * float64(n)
	betaLogND := c.TTLBeta * math.Log(float64(n)) * diameter
	ttl := math.Max(alphaN, math.Max(betaLogND, float64(c.TTLMin)))
	if ttl > float64(c.TTLMax) {
		ttl = float64(c.TTLMax)
	}
	return int(math.Ceil(ttl))
}
