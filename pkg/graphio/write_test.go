package graphio

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Shaip161/KaGen/pkg/comm"
	"github.com/Shaip161/KaGen/pkg/graph"
)

// writeOnGroup writes the per-rank slices to path and returns the
// per-rank errors.
func writeOnGroup(path string, format Format, slices []graph.Graph, directed bool) []error {
	errs := make([]error, len(slices))
	var wg sync.WaitGroup
	for _, c := range comm.NewLocalGroup(len(slices)) {
		c := c
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[c.Rank()] = Write(path, format, &slices[c.Rank()], directed, c)
		}()
	}
	wg.Wait()
	return errs
}

func twoRankSlices() []graph.Graph {
	return []graph.Graph{
		{
			Vertices: graph.VertexRange{First: 0, Last: 2},
			Edges: graph.Edgelist{
				{Tail: 0, Head: 1}, {Tail: 1, Head: 0}, {Tail: 1, Head: 3},
			},
		},
		{
			Vertices: graph.VertexRange{First: 2, Last: 4},
			Edges: graph.Edgelist{
				{Tail: 2, Head: 3}, {Tail: 3, Head: 1},
			},
		},
	}
}

func allEdges(slices []graph.Graph) graph.Edgelist {
	var all graph.Edgelist
	for _, g := range slices {
		all = append(all, g.Edges...)
	}
	return all
}

func TestWriteEdgelistAndReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.edgelist")
	slices := twoRankSlices()

	for _, err := range writeOnGroup(path, FormatEdgelist, slices, true) {
		require.NoError(t, err)
	}

	n, m, edges, err := ReadEdgelist(path)
	require.NoError(t, err)
	require.Equal(t, uint64(4), n)
	require.Equal(t, uint64(5), m)
	// Body follows rank order, so the concatenation round-trips.
	require.Equal(t, allEdges(slices), edges)
}

func TestWriteEdgelistUndirectedSkipsMirrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.edgelist")
	slices := []graph.Graph{
		{
			Vertices: graph.VertexRange{First: 0, Last: 2},
			Edges:    graph.Edgelist{{Tail: 0, Head: 1}, {Tail: 1, Head: 0}},
		},
		{
			Vertices: graph.VertexRange{First: 2, Last: 2},
		},
	}

	for _, err := range writeOnGroup(path, FormatEdgelist, slices, false) {
		require.NoError(t, err)
	}

	n, m, edges, err := ReadEdgelist(path)
	require.NoError(t, err)
	require.Equal(t, uint64(2), n)
	// The header still counts both stored directions.
	require.Equal(t, uint64(2), m)
	require.Equal(t, graph.Edgelist{{Tail: 0, Head: 1}}, edges)
}

func TestWritePlainEdgelistRangePartition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.plain-edgelist")
	slices := twoRankSlices()

	for _, err := range writeOnGroup(path, FormatPlainEdgelist, slices, true) {
		require.NoError(t, err)
	}

	want := allEdges(slices)
	size, err := FileSize(path)
	require.NoError(t, err)

	// Any byte split must partition the records between the two halves.
	for mid := int64(0); mid <= size; mid++ {
		head, err := ReadPlainEdgelistRange(path, 0, mid)
		require.NoError(t, err)
		tail, err := ReadPlainEdgelistRange(path, mid, size)
		require.NoError(t, err)
		require.Equal(t, want, append(head, tail...), "split at byte %d", mid)
	}
}

func TestWriteBinaryEdgelistRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatBinaryEdgelist, FormatBinaryEdgelist32} {
		path := filepath.Join(t.TempDir(), "graph."+format.String())
		slices := twoRankSlices()

		for _, err := range writeOnGroup(path, format, slices, true) {
			require.NoError(t, err)
		}

		n, m, edges, err := ReadBinaryEdgelist(path, format)
		require.NoError(t, err)
		require.Equal(t, uint64(4), n, format.String())
		require.Equal(t, uint64(5), m, format.String())
		require.Equal(t, allEdges(slices), edges, format.String())
	}
}

func TestWriteBinaryRangePartition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.binary-edgelist")
	slices := twoRankSlices()

	for _, err := range writeOnGroup(path, FormatBinaryEdgelist, slices, true) {
		require.NoError(t, err)
	}

	want := allEdges(slices)
	body := int64(len(want)) * recordBytes(FormatBinaryEdgelist)
	for mid := int64(0); mid <= body; mid += 8 {
		head, err := ReadBinaryEdgelistRange(path, FormatBinaryEdgelist, 0, mid)
		require.NoError(t, err)
		tail, err := ReadBinaryEdgelistRange(path, FormatBinaryEdgelist, mid, body)
		require.NoError(t, err)
		require.Equal(t, want, append(head, tail...), "split at byte %d", mid)
	}
}

func TestWriteCSRSlice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.edgelist")
	slices := []graph.Graph{
		{
			Vertices:       graph.VertexRange{First: 0, Last: 3},
			Representation: graph.RepCSR,
			Xadj:           []uint64{0, 1, 3, 3},
			Adjncy:         []uint64{1, 0, 2},
		},
	}

	for _, err := range writeOnGroup(path, FormatEdgelist, slices, true) {
		require.NoError(t, err)
	}

	n, m, edges, err := ReadEdgelist(path)
	require.NoError(t, err)
	require.Equal(t, uint64(3), n)
	require.Equal(t, uint64(3), m)
	require.Equal(t, graph.Edgelist{
		{Tail: 0, Head: 1}, {Tail: 1, Head: 0}, {Tail: 1, Head: 2},
	}, edges)
}
