// Package hyperbolic: see types.go for the package overview.
//
// Models and their invariants:
//
//	Poincaré     x²+y²   < 1
//	Klein        |z|²    < 1
//	Hyperboloid  t²-x²-y² = 1, t > 0
//	UpperHalfPlane y > 0
//
// Conversions round-trip to 1e-10 for |p|² < 0.9 (see models_test.go).
package hyperbolic
