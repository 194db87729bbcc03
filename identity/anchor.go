// Package identity maps an opaque node ID to its AnchorCoordinate: a
// deterministic, topology-independent point near the Poincaré disk's
// boundary that any node can compute for any ID without communication.
//
// This is the static half of the dual coordinate model (spec §3): every
// node can locate the anchor for a destination it has never met, and
// forwarding aims at that anchor until a rendezvous rewrites the target to
// the destination's live routing coordinate (see package registry).
package identity

import (
	"crypto/sha256"
	"encoding/binary"
	"math"

	"github.com/katalvlaran/hyperroute/hyperbolic"
)

// AnchorRadius is the fixed radius (spec: ≈0.95) anchors are placed at —
// close enough to the boundary to spread IDs across a near-maximal angular
// range, far enough inside to keep hyperbolic distances finite.
const AnchorRadius = 0.95

// Anchor computes the deterministic anchor coordinate for id:
//
//	polar(r=AnchorRadius, θ = (hash64(id) / 2⁶⁴) · 2π)
//
// using the first 8 bytes of SHA-256(id) as the angle seed. Pure function of
// id; never touches the network or any mutable state.
func Anchor(id string) hyperbolic.Point {
	sum := sha256.Sum256([]byte(id))
	h := binary.BigEndian.Uint64(sum[:8])
	theta := (float64(h) / math.MaxUint64) * 2 * math.Pi
	// AnchorRadius and a normalized theta are always valid polar inputs.
	p, _ := hyperbolic.FromPolar(AnchorRadius, theta)
	return p
}

// AnchorAtRadius computes the anchor coordinate for id at a custom radius,
// for deployments that tune the boundary margin away from the default 0.95.
// Returns hyperbolic.ErrInvalidRadius if radius is outside [0, 1).
func AnchorAtRadius(id string, radius float64) (hyperbolic.Point, error) {
	sum := sha256.Sum256([]byte(id))
	h := binary.BigEndian.Uint64(sum[:8])
	theta := (float64(h) / math.MaxUint64) * 2 * math.Pi
	return hyperbolic.FromPolar(radius, theta)
}
