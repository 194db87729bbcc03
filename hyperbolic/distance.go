package hyperbolic

import "math"

// Distance computes the hyperbolic distance between p and q in the Poincaré
// disk model:
//
//	d(p,q) = arcosh(1 + 2|p−q|² / ((1−|p|²)(1−|q|²)))
//
// Returns ErrOutsideDisk if either point fails Validate. Symmetric and zero
// on the diagonal to within float64 rounding.
// Complexity: O(1).
func Distance(p, q Point) (float64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	if err := q.Validate(); err != nil {
		return 0, err
	}
	return distanceUnchecked(p, q), nil
}

func distanceUnchecked(p, q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	numer := 2 * (dx*dx + dy*dy)
	denom := (1 - p.NormSq()) * (1 - q.NormSq())
	if denom <= 0 {
		// Degenerate only when a point sits exactly on the boundary, which
		// Validate already rejects; guard against float roundoff landing
		// denom at exactly zero for a near-boundary pair.
		denom = math.SmallestNonzeroFloat64
	}
	arg := 1 + numer/denom
	if arg < 1 {
		arg = 1 // guards sub-1 roundoff for coincident points
	}
	return math.Acosh(arg)
}

// DistanceAdaptive computes the hyperbolic distance between p and q,
// switching to the hyperboloid model (§4.1) whenever either point's |·|²
// exceeds BoundaryThreshold, to avoid the (1−|p|²) cancellation the naive
// Poincaré formula suffers near the disk boundary. The adaptive result must
// agree with Distance to 5e-2 whenever both are numerically valid.
func DistanceAdaptive(p, q Point) (float64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	if err := q.Validate(); err != nil {
		return 0, err
	}
	if p.NormSq() <= BoundaryThreshold && q.NormSq() <= BoundaryThreshold {
		return distanceUnchecked(p, q), nil
	}
	hp := poincareToHyperboloidUnchecked(p)
	hq := poincareToHyperboloidUnchecked(q)
	inner := hp.T*hq.T - hp.X*hq.X - hp.Y*hq.Y
	if inner < 1 {
		inner = 1 // roundoff guard; -inner product is ≥ 1 by the hyperboloid's metric signature
	}
	return math.Acosh(inner), nil
}

// MobiusAdd computes the Möbius (gyrovector) sum p ⊕ q on the Poincaré disk:
//
//	p ⊕ q = ((1 + 2⟨p,q⟩ + |q|²)p + (1−|p|²)q) / (1 + 2⟨p,q⟩ + |p|²|q|²)
//
// This is the disk's natural (non-commutative) group-like operation for
// coordinate transformations, not a distance metric itself. No other
// package of the module calls it.
func MobiusAdd(p, q Point) (Point, error) {
	if err := p.Validate(); err != nil {
		return Point{}, err
	}
	if err := q.Validate(); err != nil {
		return Point{}, err
	}
	dot := p.X*q.X + p.Y*q.Y
	p2, q2 := p.NormSq(), q.NormSq()
	denom := 1 + 2*dot + p2*q2
	if denom == 0 {
		denom = math.SmallestNonzeroFloat64
	}
	cp := 1 + 2*dot + q2
	cq := 1 - p2
	return Point{
		X: (cp*p.X + cq*q.X) / denom,
		Y: (cp*p.Y + cq*q.Y) / denom,
	}, nil
}

// FromPolar builds a Poincaré Point at radius r and angle θ (radians).
// Returns ErrInvalidRadius if r is outside [0, 1).
func FromPolar(r, theta float64) (Point, error) {
	if r < 0 || r >= 1 {
		return Point{}, ErrInvalidRadius
	}
	theta = NormalizeAngle(theta)
	return Point{X: r * math.Cos(theta), Y: r * math.Sin(theta)}, nil
}

// NormalizeAngle reduces theta into [0, 2π).
func NormalizeAngle(theta float64) float64 {
	const twoPi = 2 * math.Pi
	theta = math.Mod(theta, twoPi)
	if theta < 0 {
		theta += twoPi
	}
	return theta
}
