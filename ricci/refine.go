package ricci

import (
	"math"

	"github.com/katalvlaran/hyperroute/core"
	"github.com/katalvlaran/hyperroute/hyperbolic"
	"github.com/katalvlaran/hyperroute/identity"
)

// RefinerConfig tunes a refinement round. Field names mirror
// config.RicciConfig and config.ForwardingConfig.DegreeThreshold so a node
// can wire its loaded configuration straight through.
type RefinerConfig struct {
	DegreeThreshold int
	ProximalAlpha   float64
	MaxDrift        float64
	Step            float64
	FlowIterations  int
	CoordIterations int
}

// DefaultRefinerConfig returns the spec-mandated defaults (§6's
// configuration table).
func DefaultRefinerConfig() RefinerConfig {
	return RefinerConfig{
		DegreeThreshold: 10,
		ProximalAlpha:   0.3,
		MaxDrift:        0.1,
		Step:            0.1,
		FlowIterations:  5,
		CoordIterations: 10,
	}
}

// Refiner runs discrete Ricci-flow refinement rounds against a fixed
// topology, carrying a ProximalRegularizer across rounds so repeated
// refinement of the same node never compounds unbounded drift.
type Refiner struct {
	cfg         RefinerConfig
	regularizer *ProximalRegularizer
}

// NewRefiner builds a Refiner with cfg's proximal parameters.
func NewRefiner(cfg RefinerConfig) *Refiner {
	return &Refiner{
		cfg:         cfg,
		regularizer: NewProximalRegularizer(cfg.ProximalAlpha, cfg.MaxDrift),
	}
}

// Refine runs cfg.FlowIterations rounds of curvature-driven target-length
// computation followed by cfg.CoordIterations rounds of stress gradient
// descent, then clamps every node's movement through the proximal
// regularizer before returning the updated coordinates. Grounded on
// original_source/src/ricci.rs::RicciFlow::run_optimization.
func (r *Refiner) Refine(g *core.Graph, coords map[string]identity.RoutingCoordinate) (map[string]identity.RoutingCoordinate, error) {
	for id, rc := range coords {
		r.regularizer.Snapshot(id, rc.Point)
	}

	points := make(map[string]hyperbolic.Point, len(coords))
	for id, rc := range coords {
		points[id] = rc.Point
	}

	for i := 0; i < r.cfg.FlowIterations; i++ {
		targetLengths, err := r.flowStep(g, points)
		if err != nil {
			return nil, err
		}
		points, err = r.optimizeCoordinates(g, points, targetLengths)
		if err != nil {
			return nil, err
		}
	}

	result := make(map[string]identity.RoutingCoordinate, len(coords))
	for id, p := range points {
		clamped, err := r.regularizer.Regularize(id, p)
		if err != nil {
			return nil, err
		}
		prevVersion := coords[id].Version
		result[id] = identity.RoutingCoordinate{Point: clamped, Version: prevVersion}
	}
	return result, nil
}

// flowStep computes curvature for every edge and proposes a new target
// length per the Ricci-flow equation ℓ_new = ℓ·clamp(1 - step·κ, 0.1, 2.0).
func (r *Refiner) flowStep(g *core.Graph, points map[string]hyperbolic.Point) (map[EdgeKey]float64, error) {
	coords := make(map[string]identity.RoutingCoordinate, len(points))
	for id, p := range points {
		coords[id] = identity.RoutingCoordinate{Point: p}
	}

	curvatures, err := ComputeCurvatures(g, coords, r.cfg.DegreeThreshold)
	if err != nil {
		return nil, err
	}

	targets := make(map[EdgeKey]float64, len(curvatures))
	for _, c := range curvatures {
		pu, okU := points[c.Edge.U]
		pv, okV := points[c.Edge.V]
		if !okU || !okV {
			continue
		}
		currentLength, err := hyperbolic.Distance(pu, pv)
		if err != nil {
			return nil, err
		}
		flowFactor := 1.0 - r.cfg.Step*c.Value
		flowFactor = math.Max(0.1, math.Min(2.0, flowFactor))
		targets[c.Edge] = currentLength * flowFactor
	}
	return targets, nil
}

// optimizeCoordinates runs cfg.CoordIterations of Euclidean-approximated
// gradient descent pulling each edge's Euclidean separation toward
// target_length mapped through tanh (a rough Euclidean analogue of
// hyperbolic distance), then projects back inside the disk.
func (r *Refiner) optimizeCoordinates(g *core.Graph, points map[string]hyperbolic.Point, targets map[EdgeKey]float64) (map[string]hyperbolic.Point, error) {
	current := make(map[string]hyperbolic.Point, len(points))
	for id, p := range points {
		current[id] = p
	}

	for iter := 0; iter < r.cfg.CoordIterations; iter++ {
		grad := make(map[string][2]float64, len(current))
		for edge, targetLen := range targets {
			pu, okU := current[edge.U]
			pv, okV := current[edge.V]
			if !okU || !okV {
				continue
			}
			dx, dy := pv.X-pu.X, pv.Y-pu.Y
			currentDist := math.Max(math.Sqrt(dx*dx+dy*dy), 0.001)

			targetEuclidean := math.Tanh(targetLen/3.0) * 0.9
			stress := currentDist - targetEuclidean
			gradScale := stress / currentDist * 0.1 // coord_step from original_source

			gu := grad[edge.U]
			gu[0] += dx * gradScale
			gu[1] += dy * gradScale
			grad[edge.U] = gu

			gv := grad[edge.V]
			gv[0] -= dx * gradScale
			gv[1] -= dy * gradScale
			grad[edge.V] = gv
		}

		for id, p := range current {
			gr := grad[id]
			x, y := p.X-gr[0], p.Y-gr[1]
			if rSq := x*x + y*y; rSq >= 0.99*0.99 {
				scale := 0.98 / math.Sqrt(rSq)
				x *= scale
				y *= scale
			}
			current[id] = hyperbolic.Point{X: x, Y: y}
		}
	}
	return current, nil
}
