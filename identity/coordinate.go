package identity

import "github.com/katalvlaran/hyperroute/hyperbolic"

// RoutingCoordinate is the dynamic half of the dual coordinate model (spec
// §3): a node's live position in the Poincaré disk plus a monotonically
// non-decreasing Version. Only the owning node may increase Version; every
// other holder treats it as a stale/fresh marker on a received copy.
type RoutingCoordinate struct {
	Point   hyperbolic.Point
	Version uint64
}

// NewRoutingCoordinate constructs a RoutingCoordinate at version 0, the
// value every node starts with before its first Ricci refinement or
// embedding pass assigns it a real position.
func NewRoutingCoordinate(p hyperbolic.Point) RoutingCoordinate {
	return RoutingCoordinate{Point: p, Version: 0}
}

// NewerThan reports whether rc should replace other as the stored
// coordinate for the same node: strictly greater version wins, equal or
// lesser versions are discarded (spec invariant 5 and scenario S5).
func (rc RoutingCoordinate) NewerThan(other RoutingCoordinate) bool {
	return rc.Version > other.Version
}
