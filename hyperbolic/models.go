package hyperbolic

import "math"

// ToKlein converts a Poincaré point to the Klein disk model:
//
//	z_K = 2z_P / (1 + |z_P|²)
//
// Round-trip through ToPoincare agrees with the original to 1e-10 for
// |p|² < 0.9.
func ToKlein(p Point) (KleinPoint, error) {
	if err := p.Validate(); err != nil {
		return KleinPoint{}, err
	}
	s := 1 + p.NormSq()
	return KleinPoint{X: 2 * p.X / s, Y: 2 * p.Y / s}, nil
}

// FromKlein converts a Klein-model point back to the Poincaré disk:
//
//	z_P = z_K / (1 + sqrt(1 − |z_K|²))
func FromKlein(k KleinPoint) (Point, error) {
	n2 := k.X*k.X + k.Y*k.Y
	if n2 >= 1 {
		return Point{}, &DomainError{Err: ErrOutsideKleinDisk, X: k.X, Y: k.Y}
	}
	s := 1 + math.Sqrt(1-n2)
	return Point{X: k.X / s, Y: k.Y / s}, nil
}

func poincareToHyperboloidUnchecked(p Point) HyperboloidPoint {
	s := 1 - p.NormSq()
	return HyperboloidPoint{
		T: (1 + p.NormSq()) / s,
		X: 2 * p.X / s,
		Y: 2 * p.Y / s,
	}
}

// ToHyperboloid converts a Poincaré point to the upper hyperboloid sheet:
//
//	t = (1+|z|²)/(1−|z|²), x = 2x_P/(1−|z|²), y = 2y_P/(1−|z|²)
func ToHyperboloid(p Point) (HyperboloidPoint, error) {
	if err := p.Validate(); err != nil {
		return HyperboloidPoint{}, err
	}
	return poincareToHyperboloidUnchecked(p), nil
}

// FromHyperboloid converts a hyperboloid point back to the Poincaré disk:
//
//	z_P = (x, y) / (1 + t)
func FromHyperboloid(h HyperboloidPoint) (Point, error) {
	if h.T <= 0 {
		return Point{}, &DomainError{Err: ErrOffHyperboloid, X: h.X, Y: h.Y}
	}
	m := h.T*h.T - h.X*h.X - h.Y*h.Y
	if math.Abs(m-1) > 1e-6 {
		return Point{}, &DomainError{Err: ErrOffHyperboloid, X: h.X, Y: h.Y}
	}
	s := 1 + h.T
	return Point{X: h.X / s, Y: h.Y / s}, nil
}

// ToUpperHalfPlane converts a Poincaré point to the upper half-plane model
// via the standard Cayley-type transform centered at (0,-1):
//
//	w = (x, y+1) mapped by z ↦ i(1−z)/(1+z) restricted to the real axis pair.
//
// We use the equivalent closed form for a point already in Cartesian
// Poincaré coordinates, treating the disk as centered at the origin and the
// half-plane boundary as the real axis.
func ToUpperHalfPlane(p Point) (UpperHalfPlanePoint, error) {
	if err := p.Validate(); err != nil {
		return UpperHalfPlanePoint{}, err
	}
	// Möbius map f(x+iy) = i(1-z)/(1+z), z = x+iy.
	denomRe := 1 + p.X
	denomIm := p.Y
	denom := denomRe*denomRe + denomIm*denomIm
	if denom == 0 {
		denom = math.SmallestNonzeroFloat64
	}
	// i(1-z) = i(1-x-iy) = y + i(1-x)
	numRe := p.Y
	numIm := 1 - p.X
	// divide (numRe + i numIm) by (denomRe + i denomIm)
	re := (numRe*denomRe + numIm*denomIm) / denom
	im := (numIm*denomRe - numRe*denomIm) / denom
	if im <= 0 {
		im = math.SmallestNonzeroFloat64
	}
	return UpperHalfPlanePoint{X: re, Y: im}, nil
}

// FromUpperHalfPlane inverts ToUpperHalfPlane: z = (i-w)/(i+w).
func FromUpperHalfPlane(u UpperHalfPlanePoint) (Point, error) {
	if u.Y <= 0 {
		return Point{}, &DomainError{Err: ErrNotUpperHalfPlane, X: u.X, Y: u.Y}
	}
	// (i - w) = (-x) + i(1-y); (i + w) = x + i(1+y)
	numRe, numIm := -u.X, 1-u.Y
	denomRe, denomIm := u.X, 1+u.Y
	denom := denomRe*denomRe + denomIm*denomIm
	if denom == 0 {
		denom = math.SmallestNonzeroFloat64
	}
	re := (numRe*denomRe + numIm*denomIm) / denom
	im := (numIm*denomRe - numRe*denomIm) / denom
	return Point{X: re, Y: im}, nil
}
