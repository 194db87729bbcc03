package forward_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hyperroute/compact"
	"github.com/katalvlaran/hyperroute/core"
	"github.com/katalvlaran/hyperroute/forward"
	"github.com/katalvlaran/hyperroute/hyperbolic"
	"github.com/katalvlaran/hyperroute/packet"
)

// buildChain returns self--n1--n2--dest, each hop a direct neighbor of the
// next only, so CompactTable must route self to n1 via first-hop info.
func buildChain(t *testing.T) *compact.Table {
	t.Helper()
	g := core.NewGraph()
	ids := []string{"self", "n1", "n2", "dest"}
	for _, id := range ids {
		require.NoError(t, g.AddVertex(id))
	}
	for i := 0; i < len(ids)-1; i++ {
		_, err := g.AddEdge(ids[i], ids[i+1], 0)
		require.NoError(t, err)
	}
	table, err := compact.Build(g, 2)
	require.NoError(t, err)
	return table
}

func TestCompactTableStampsPathAndAdvances(t *testing.T) {
	target := mustPolar(t, 0.5, 0)
	header, err := packet.NewHeader("p1", "self", "dest", target, 20)
	require.NoError(t, err)
	header.Mode = packet.CompactTable

	table := buildChain(t)
	neighbors := []forward.Neighbor{{ID: "n1", Coord: hyperbolic.Origin}}
	engine := forward.NewEngine(forward.DefaultConfig(), nil)

	dec, err := engine.Step(header, "self", hyperbolic.Origin, neighbors, table, nil, 100)
	require.NoError(t, err)
	require.Equal(t, "n1", dec.NextHop)
	require.NotEmpty(t, header.CompactPath)
	require.Equal(t, 1, header.CompactIndex)
}

func TestCompactTableFallsThroughToTreeDFSWithoutTable(t *testing.T) {
	target := mustPolar(t, 0.5, 0)
	header, err := packet.NewHeader("p1", "self", "dest", target, 20)
	require.NoError(t, err)
	header.Mode = packet.CompactTable

	neighbors := []forward.Neighbor{{ID: "n1", Coord: mustPolar(t, 0.1, 0)}}
	engine := forward.NewEngine(forward.DefaultConfig(), nil)

	dec, err := engine.Step(header, "self", hyperbolic.Origin, neighbors, nil, nil, 100)
	require.NoError(t, err)
	require.Equal(t, packet.TreeDFS, header.Mode)
	require.Equal(t, "n1", dec.NextHop)
}

func TestCompactTableFallsThroughWhenPathExhausted(t *testing.T) {
	target := mustPolar(t, 0.5, 0)
	header, err := packet.NewHeader("p1", "self", "dest", target, 20)
	require.NoError(t, err)
	header.Mode = packet.CompactTable
	header.CompactPath = []string{"self", "n1"}
	header.CompactIndex = 1 // already at the last waypoint without arrival

	table := buildChain(t)
	neighbors := []forward.Neighbor{{ID: "n1", Coord: mustPolar(t, 0.1, 0)}}
	engine := forward.NewEngine(forward.DefaultConfig(), nil)

	dec, err := engine.Step(header, "self", hyperbolic.Origin, neighbors, table, nil, 100)
	require.NoError(t, err)
	require.Equal(t, packet.TreeDFS, header.Mode)
	require.Equal(t, "n1", dec.NextHop)
}
