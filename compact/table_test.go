package compact_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hyperroute/compact"
	"github.com/katalvlaran/hyperroute/core"
	matrix "github.com/katalvlaran/hyperroute/linalg"
	"github.com/katalvlaran/hyperroute/topology"
)

// stretchBound is the Thorup-Zwick worst-case path-length multiplier compact
// tables guarantee over the true shortest path (spec §4.7).
const stretchBound = 3

// floydWarshallGroundTruth returns the true all-pairs hop-distance matrix for
// g (unweighted: every edge costs 1), indexed by each vertex's position in
// the (sorted) id slice it also returns.
func floydWarshallGroundTruth(t *testing.T, g *core.Graph) ([]string, *matrix.Dense) {
	t.Helper()

	ids := g.Vertices()
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	dist, err := matrix.NewDistanceMatrix(len(ids))
	require.NoError(t, err)

	for _, e := range g.Edges() {
		u, v := index[e.From], index[e.To]
		require.NoError(t, dist.Set(u, v, 1))
		require.NoError(t, dist.Set(v, u, 1))
	}

	require.NoError(t, matrix.FloydWarshall(dist))

	return ids, dist
}

// TestComputePathRespectsStretchBoundAgainstFloydWarshallGroundTruth builds a
// denser grid topology, computes true all-pairs hop-distances via
// linalg.FloydWarshall, and checks every compact.ComputePath result against
// stretchBound * trueDistance.
func TestComputePathRespectsStretchBoundAgainstFloydWarshallGroundTruth(t *testing.T) {
	g, err := topology.BuildGraph(nil, nil, topology.Grid(4, 4))
	require.NoError(t, err)

	ids, dist := floydWarshallGroundTruth(t, g)
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	table, err := compact.Build(g, 0)
	require.NoError(t, err)

	for _, src := range ids {
		for _, dst := range ids {
			if src == dst {
				continue
			}
			trueDist, err := dist.At(index[src], index[dst])
			require.NoError(t, err)
			if math.IsInf(trueDist, 1) {
				continue // unreachable pair; nothing to bound
			}

			path, err := table.ComputePath(src, dst)
			require.NoError(t, err)
			require.LessOrEqualf(t, float64(len(path)-1), stretchBound*trueDist,
				"%s->%s: compact path length %d exceeds %dx true distance %v", src, dst, len(path)-1, stretchBound, trueDist)
		}
	}
}

// buildTestLine returns 0--1--2--3--4--5--6 (mirrors tz_routing.rs tests'
// line-graph fixture).
func buildTestLine(t *testing.T) *core.Graph {
	t.Helper()
	g := core.NewGraph()
	ids := []string{"0", "1", "2", "3", "4", "5", "6"}
	for _, id := range ids {
		require.NoError(t, g.AddVertex(id))
	}
	for i := 0; i < len(ids)-1; i++ {
		_, err := g.AddEdge(ids[i], ids[i+1], 0)
		require.NoError(t, err)
	}
	return g
}

// buildTestStar returns a hub node "c" connected to 6 leaves.
func buildTestStar(t *testing.T) *core.Graph {
	t.Helper()
	g := core.NewGraph()
	require.NoError(t, g.AddVertex("c"))
	for i := 0; i < 6; i++ {
		leaf := string(rune('a' + i))
		require.NoError(t, g.AddVertex(leaf))
		_, err := g.AddEdge("c", leaf, 0)
		require.NoError(t, err)
	}
	return g
}

func TestBuildProducesEntryForEveryVertex(t *testing.T) {
	g := buildTestLine(t)
	table, err := compact.Build(g, 0)
	require.NoError(t, err)

	for _, id := range g.Vertices() {
		_, ok := table.NodeInfo(id)
		require.Truef(t, ok, "vertex %s missing from compact table", id)
	}
}

func TestBuildSelectsHighestDegreeNodeFirst(t *testing.T) {
	g := buildTestStar(t)
	table, err := compact.Build(g, 1)
	require.NoError(t, err)
	require.Equal(t, []string{"c"}, table.Landmarks)
}

func TestBuildRejectsEmptyGraph(t *testing.T) {
	_, err := compact.Build(core.NewGraph(), 0)
	require.ErrorIs(t, err, compact.ErrEmptyGraph)
}

func TestBuildRejectsNilGraph(t *testing.T) {
	_, err := compact.Build(nil, 0)
	require.ErrorIs(t, err, compact.ErrEmptyGraph)
}

func TestNextHopReachesDestinationOnLine(t *testing.T) {
	g := buildTestLine(t)
	table, err := compact.Build(g, 3)
	require.NoError(t, err)

	path, err := table.ComputePath("0", "6")
	require.NoError(t, err)
	require.Equal(t, "0", path[0])
	require.Equal(t, "6", path[len(path)-1])
}

func TestNextHopSameNodeReturnsDestinationFlag(t *testing.T) {
	g := buildTestLine(t)
	table, err := compact.Build(g, 2)
	require.NoError(t, err)

	next, isDest, err := table.NextHop("3", "3")
	require.NoError(t, err)
	require.True(t, isDest)
	require.Equal(t, "3", next)
}

func TestNextHopUnknownNodeFails(t *testing.T) {
	g := buildTestLine(t)
	table, err := compact.Build(g, 2)
	require.NoError(t, err)

	_, _, err = table.NextHop("ghost", "3")
	require.ErrorIs(t, err, compact.ErrUnknownNode)
}

func TestComputePathStaysWithinStretchBoundOnStar(t *testing.T) {
	g := buildTestStar(t)
	table, err := compact.Build(g, 1)
	require.NoError(t, err)

	path, err := table.ComputePath("a", "b")
	require.NoError(t, err)
	// True shortest path a-c-b has length 2 (3 nodes); stretch <= 3 means
	// the compact path should never exceed 2*3+1 = 7 nodes here.
	require.LessOrEqual(t, len(path), 7)
	require.Equal(t, "b", path[len(path)-1])
}

func TestComputePathSameNodeIsTrivial(t *testing.T) {
	g := buildTestLine(t)
	table, err := compact.Build(g, 2)
	require.NoError(t, err)

	path, err := table.ComputePath("2", "2")
	require.NoError(t, err)
	require.Equal(t, []string{"2"}, path)
}
