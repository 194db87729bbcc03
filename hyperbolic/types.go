// Package hyperbolic implements the Poincaré-disk point type and the
// hyperbolic-geometry kernel every other package in this module routes on:
// distance, Möbius addition, and conversions to the Klein, hyperboloid, and
// upper-half-plane models.
//
// Every exported operation validates its inputs up front and returns an
// explicit error on domain violations (point outside the disk, degenerate
// conversions); callers must not silently clamp, per the package contract.
//
// Numeric precision near the unit circle is the central concern: the naive
// Poincaré distance formula loses precision as |p|² approaches 1 because its
// denominator (1−|p|²)(1−|q|²) goes to zero. DistanceAdaptive switches to the
// hyperboloid model above BoundaryThreshold to avoid that cancellation.
package hyperbolic

import (
	"errors"
	"fmt"
)

// ErrOutsideDisk indicates a Point does not satisfy x²+y² < 1.
var ErrOutsideDisk = errors.New("hyperbolic: point outside open unit disk")

// ErrOutsideKleinDisk indicates a KleinPoint does not satisfy |z|² < 1.
var ErrOutsideKleinDisk = errors.New("hyperbolic: point outside open Klein disk")

// ErrOffHyperboloid indicates a HyperboloidPoint does not satisfy t²−x²−y²=1, t>0.
var ErrOffHyperboloid = errors.New("hyperbolic: point not on upper hyperboloid sheet")

// ErrNotUpperHalfPlane indicates an UpperHalfPlanePoint does not satisfy y > 0.
var ErrNotUpperHalfPlane = errors.New("hyperbolic: point not in upper half plane")

// ErrInvalidRadius indicates a polar radius outside [0, 1).
var ErrInvalidRadius = errors.New("hyperbolic: radius must be in [0, 1)")

// BoundaryThreshold is |p|² above which adaptive distance switches models
// (spec: 0.9025 == 0.95²) to avoid (1−|p|²) cancellation near the boundary.
const BoundaryThreshold = 0.9025

// DomainError wraps ErrOutsideDisk (or a sibling sentinel) with the offending
// coordinates, so a caller can log exactly what failed without re-deriving it.
type DomainError struct {
	Err  error
	X, Y float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: (%.6g, %.6g)", e.Err, e.X, e.Y)
}

func (e *DomainError) Unwrap() error { return e.Err }

// Point is a coordinate in the Poincaré disk model: x²+y² < 1, identity is
// the origin. This is the RoutingCoordinate/AnchorCoordinate payload type
// used throughout the module.
type Point struct {
	X, Y float64
}

// Origin is the hyperbolic-plane identity point.
var Origin = Point{}

// NormSq returns |p|² = x²+y².
func (p Point) NormSq() float64 { return p.X*p.X + p.Y*p.Y }

// InDisk reports whether p satisfies the open-disk invariant.
func (p Point) InDisk() bool { return p.NormSq() < 1 }

// Validate returns ErrOutsideDisk (wrapped in a *DomainError) if p is not
// strictly inside the unit disk.
func (p Point) Validate() error {
	if !p.InDisk() {
		return &DomainError{Err: ErrOutsideDisk, X: p.X, Y: p.Y}
	}
	return nil
}

// KleinPoint is a coordinate in the Klein (Beltrami-Klein) disk model:
// |z|² < 1, straight lines are geodesics.
type KleinPoint struct {
	X, Y float64
}

// HyperboloidPoint is a coordinate on the upper sheet of the two-sheet
// hyperboloid model: t²−x²−y² = 1, t > 0.
type HyperboloidPoint struct {
	T, X, Y float64
}

// UpperHalfPlanePoint is a coordinate in the upper half-plane model: y > 0.
type UpperHalfPlanePoint struct {
	X, Y float64
}
