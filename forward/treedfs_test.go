package forward_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hyperroute/forward"
	"github.com/katalvlaran/hyperroute/hyperbolic"
	"github.com/katalvlaran/hyperroute/packet"
)

func treeDFSHeader(t *testing.T, target hyperbolic.Point) *packet.Header {
	t.Helper()
	header, err := packet.NewHeader("p1", "self", "dest", target, 20)
	require.NoError(t, err)
	header.Mode = packet.TreeDFS
	return header
}

func TestTreeDFSPicksFirstUnvisitedNeighborInSortedOrder(t *testing.T) {
	target := mustPolar(t, 0.8, 0)
	header := treeDFSHeader(t, target)

	neighbors := []forward.Neighbor{
		{ID: "zeta", Coord: mustPolar(t, 0.1, 1)},
		{ID: "alpha", Coord: mustPolar(t, 0.1, 2)},
	}
	engine := forward.NewEngine(forward.DefaultConfig(), nil)
	dec, err := engine.Step(header, "self", hyperbolic.Origin, neighbors, nil, nil, 100)
	require.NoError(t, err)
	require.Equal(t, "alpha", dec.NextHop)
	require.Equal(t, []string{"self"}, header.DFSStack)
	require.True(t, header.HasVisited("self"))
}

func TestTreeDFSBacktracksWhenAllNeighborsVisited(t *testing.T) {
	target := mustPolar(t, 0.8, 0)
	header := treeDFSHeader(t, target)
	header.Visited = []string{"n1"}
	header.DFSStack = []string{"parent"}

	neighbors := []forward.Neighbor{{ID: "n1", Coord: mustPolar(t, 0.1, 1)}}
	engine := forward.NewEngine(forward.DefaultConfig(), nil)
	dec, err := engine.Step(header, "self", hyperbolic.Origin, neighbors, nil, nil, 100)
	require.NoError(t, err)
	require.Equal(t, "parent", dec.NextHop)
	require.Empty(t, header.DFSStack)
}

func TestTreeDFSFailsWhenComponentExhausted(t *testing.T) {
	target := mustPolar(t, 0.8, 0)
	header := treeDFSHeader(t, target)
	header.Visited = []string{"n1"}

	neighbors := []forward.Neighbor{{ID: "n1", Coord: mustPolar(t, 0.1, 1)}}
	engine := forward.NewEngine(forward.DefaultConfig(), nil)
	_, err := engine.Step(header, "self", hyperbolic.Origin, neighbors, nil, nil, 100)
	require.ErrorIs(t, err, forward.ErrComponentExhausted)
}

func TestTreeDFSRecoversToGravityWithinThreshold(t *testing.T) {
	target := mustPolar(t, 0.8, 0)
	self := mustPolar(t, 0.1, 0)
	header := treeDFSHeader(t, target)
	header.RecoveryThreshold = 100.0

	// n1 sits much closer to target than self, so after the TreeDFS→Gravity
	// reset, Gravity forwards to it in the same hop rather than bouncing
	// straight into Pressure.
	neighbors := []forward.Neighbor{{ID: "n1", Coord: mustPolar(t, 0.7, 0)}}
	engine := forward.NewEngine(forward.DefaultConfig(), nil)
	dec, err := engine.Step(header, "self", self, neighbors, nil, nil, 100)
	require.NoError(t, err)
	require.Equal(t, packet.Gravity, header.Mode)
	require.Equal(t, "n1", dec.NextHop)
}
