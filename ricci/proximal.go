package ricci

import (
	"math"

	"github.com/katalvlaran/hyperroute/hyperbolic"
)

// proximalDriftEpsilon is the rounding slack spec invariant 9 allows past
// MaxDrift: "≤ max_drift + 10⁻⁶".
const proximalDriftEpsilon = 1e-6

// ProximalRegularizer suppresses coordinate oscillation across refinement
// rounds by capping how far a single update may move a node's own
// coordinate from where it was last snapshotted. Grounded on
// original_source/src/stability.rs::ProximalRegularizer.
type ProximalRegularizer struct {
	lambda   float64
	maxDrift float64
	previous map[string]hyperbolic.Point
}

// NewProximalRegularizer builds a regularizer with objective weight lambda
// and drift cap maxDrift (spec default 0.1).
func NewProximalRegularizer(lambda, maxDrift float64) *ProximalRegularizer {
	return &ProximalRegularizer{
		lambda:   lambda,
		maxDrift: maxDrift,
		previous: make(map[string]hyperbolic.Point),
	}
}

// Snapshot records id's current coordinate as "previous" ahead of a
// refinement round, so the next Regularize call has something to clamp
// against.
func (r *ProximalRegularizer) Snapshot(id string, p hyperbolic.Point) {
	r.previous[id] = p
}

// Previous returns id's last-snapshotted coordinate, if any.
func (r *ProximalRegularizer) Previous(id string) (hyperbolic.Point, bool) {
	p, ok := r.previous[id]
	return p, ok
}

// Regularize clamps a proposed coordinate so the hyperbolic distance from
// id's previous snapshot never exceeds maxDrift + proximalDriftEpsilon
// (invariant 9). The first update for an id has no previous snapshot and
// is accepted unclamped.
func (r *ProximalRegularizer) Regularize(id string, target hyperbolic.Point) (hyperbolic.Point, error) {
	prev, ok := r.previous[id]
	if !ok {
		return target, nil
	}

	drift, err := hyperbolic.Distance(prev, target)
	if err != nil {
		return hyperbolic.Point{}, err
	}
	if drift <= r.maxDrift {
		return target, nil
	}

	t := r.maxDrift / drift
	newX := prev.X*(1-t) + target.X*t
	newY := prev.Y*(1-t) + target.Y*t

	normSq := newX*newX + newY*newY
	if normSq >= 1.0 {
		scale := 0.99 / math.Sqrt(normSq)
		newX *= scale
		newY *= scale
	}

	clamped := hyperbolic.Point{X: newX, Y: newY}
	// The interpolation above is Euclidean, not geodesic, so re-check the
	// true hyperbolic drift and fall back to prev unchanged on the rare
	// case numerical error pushes it past the epsilon-widened bound.
	actualDrift, err := hyperbolic.Distance(prev, clamped)
	if err != nil {
		return hyperbolic.Point{}, err
	}
	if actualDrift > r.maxDrift+proximalDriftEpsilon {
		return prev, nil
	}
	return clamped, nil
}

// Penalty computes the proximal objective term λ·d(prev, proposed)² for
// id, 0 if id has no previous snapshot.
func (r *ProximalRegularizer) Penalty(id string, proposed hyperbolic.Point) (float64, error) {
	prev, ok := r.previous[id]
	if !ok {
		return 0, nil
	}
	drift, err := hyperbolic.Distance(prev, proposed)
	if err != nil {
		return 0, err
	}
	return r.lambda * drift * drift, nil
}

// HasConverged reports whether every id in coords is within threshold
// hyperbolic distance of its previous snapshot.
func (r *ProximalRegularizer) HasConverged(coords map[string]hyperbolic.Point, threshold float64) (bool, error) {
	for id, p := range coords {
		prev, ok := r.previous[id]
		if !ok {
			continue
		}
		d, err := hyperbolic.Distance(prev, p)
		if err != nil {
			return false, err
		}
		if d > threshold {
			return false, nil
		}
	}
	return true, nil
}
