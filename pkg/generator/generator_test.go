package generator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Shaip161/KaGen/pkg/comm"
	"github.com/Shaip161/KaGen/pkg/graph"
)

func singleRank(t *testing.T) comm.Communicator {
	t.Helper()
	return comm.NewLocalGroup(1)[0]
}

func TestGeneratorTakeMovesOutOnce(t *testing.T) {
	f, err := NewFactory(FamilyGNMDirected)
	require.NoError(t, err)
	cfg, err := f.NormalizeParameters(Config{N: 16, M: 20, Seed: 3}, 1)
	require.NoError(t, err)
	gen, err := f.Create(cfg, 0, 1)
	require.NoError(t, err)

	require.NoError(t, gen.Generate(graph.RepEdgeList))
	require.NoError(t, gen.Finalize(singleRank(t)))

	got := gen.Take()
	require.Equal(t, graph.VertexRange{First: 0, Last: 16}, got.Vertices)
	require.Len(t, got.Edges, 20)

	// The buffers moved out; a second Take yields an empty graph.
	empty := gen.Take()
	require.Empty(t, empty.Edges)
	require.Zero(t, empty.Vertices.N())
	require.Zero(t, gen.GetNumberOfEdges())
}

func TestGeneratorRegenerateResets(t *testing.T) {
	f, err := NewFactory(FamilyGNMDirected)
	require.NoError(t, err)
	cfg, err := f.NormalizeParameters(Config{N: 16, M: 20, Seed: 3}, 1)
	require.NoError(t, err)
	gen, err := f.Create(cfg, 0, 1)
	require.NoError(t, err)

	require.NoError(t, gen.Generate(graph.RepEdgeList))
	first := gen.GetNumberOfEdges()

	// A second Generate starts from clean buffers, not on top of the old.
	require.NoError(t, gen.Generate(graph.RepEdgeList))
	require.Equal(t, first, gen.GetNumberOfEdges())
}

func TestGetNumberOfEdgesTakesLargerBuffer(t *testing.T) {
	gen := &Generator{}
	require.Zero(t, gen.GetNumberOfEdges())

	gen.edges = graph.Edgelist{{Tail: 0, Head: 1}, {Tail: 1, Head: 0}}
	require.Equal(t, uint64(2), gen.GetNumberOfEdges())

	gen.adjncy = []uint64{1, 0, 2}
	require.Equal(t, uint64(3), gen.GetNumberOfEdges())
}

func TestFilterDuplicateEdgesIdempotent(t *testing.T) {
	gen := &Generator{edges: graph.Edgelist{
		{Tail: 2, Head: 1}, {Tail: 0, Head: 1}, {Tail: 2, Head: 1}, {Tail: 0, Head: 1}, {Tail: 0, Head: 2},
	}}
	gen.FilterDuplicateEdges()
	want := graph.Edgelist{{Tail: 0, Head: 1}, {Tail: 0, Head: 2}, {Tail: 2, Head: 1}}
	require.Equal(t, want, gen.edges)

	gen.FilterDuplicateEdges()
	require.Equal(t, want, gen.edges)
}

func TestFilterDuplicateEdgesKeepsFirstWeight(t *testing.T) {
	gen := &Generator{
		edges:       graph.Edgelist{{Tail: 1, Head: 0}, {Tail: 0, Head: 1}, {Tail: 1, Head: 0}},
		edgeWeights: []int64{7, 3, 9},
	}
	gen.FilterDuplicateEdges()
	require.Equal(t, graph.Edgelist{{Tail: 0, Head: 1}, {Tail: 1, Head: 0}}, gen.edges)
	require.Equal(t, []int64{3, 7}, gen.edgeWeights)
}

func TestAdaptEdgeListToCSR(t *testing.T) {
	f, err := NewFactory(FamilyGNMDirected)
	require.NoError(t, err)
	cfg, err := f.NormalizeParameters(Config{N: 12, M: 15, Seed: 11}, 1)
	require.NoError(t, err)
	gen, err := f.Create(cfg, 0, 1)
	require.NoError(t, err)

	require.NoError(t, gen.Generate(graph.RepCSR))
	require.NoError(t, gen.Finalize(singleRank(t)))

	got := gen.Take()
	require.Equal(t, graph.RepCSR, got.Representation)
	require.Nil(t, got.Edges)
	require.NoError(t, graph.CheckCSR(got.Vertices, got.Xadj, got.Adjncy, 12))
	require.Equal(t, uint64(15), got.NumberOfLocalEdges())
}

func TestAdaptCSRToEdgeList(t *testing.T) {
	f, err := NewFactory(FamilyGrid2D)
	require.NoError(t, err)
	cfg, err := f.NormalizeParameters(Config{N: 9, Prob: 1, Seed: 5}, 1)
	require.NoError(t, err)
	gen, err := f.Create(cfg, 0, 1)
	require.NoError(t, err)

	require.NoError(t, gen.Generate(graph.RepEdgeList))
	require.NoError(t, gen.Finalize(singleRank(t)))

	got := gen.Take()
	require.Equal(t, graph.RepEdgeList, got.Representation)
	require.Nil(t, got.Xadj)
	// Full 3x3 lattice: 12 undirected edges, both directions present.
	require.Len(t, got.Edges, 24)
}

func TestSetVertexRangeOverrides(t *testing.T) {
	gen := &Generator{}
	gen.SetVertexRange(4, 9)
	require.Equal(t, graph.VertexRange{First: 4, Last: 9}, gen.VertexRange())
	require.Equal(t, uint64(5), gen.VertexRange().N())
}
