package graphio

import (
	"bufio"
	"fmt"
	"os"

	"github.com/Shaip161/KaGen/pkg/comm"
	"github.com/Shaip161/KaGen/pkg/graph"
)

// Write stores a distributed graph at path. Collective: every rank
// passes its own slice, rank 0 truncates the file and writes the header,
// then the ranks append their bodies one after another behind a barrier
// chain. directed=false drops tail > head entries from the body; the
// header still counts every stored entry.
//
// A rank that fails locally keeps joining the remaining barriers so the
// group stays in step, and reports its own error.
func Write(path string, format Format, g *graph.Graph, directed bool, c comm.Communicator) error {
	edges, err := writableEdges(g)

	var localM uint64
	if err == nil {
		localM = uint64(len(edges))
	}
	n := c.AllreduceMax(g.Vertices.Last)
	m := c.AllreduceSum(localM)

	for rank := 0; rank < c.Size(); rank++ {
		if rank == c.Rank() && err == nil {
			if rank == 0 {
				err = createWithHeader(path, format, n, m)
			}
			if err == nil {
				err = appendBody(path, format, edges, directed)
			}
		}
		c.Barrier()
	}
	return err
}

// writableEdges returns the edge list view of whichever representation
// is populated.
func writableEdges(g *graph.Graph) (graph.Edgelist, error) {
	if g.Edges != nil || g.Xadj == nil {
		return g.Edges, nil
	}
	return graph.BuildEdgeList(g.Vertices, g.Xadj, g.Adjncy)
}

func createWithHeader(path string, format Format, n, m uint64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	switch format {
	case FormatEdgelist:
		_, err = fmt.Fprintf(f, "p %d %d\n", n, m)
	case FormatBinaryEdgelist, FormatBinaryEdgelist32:
		err = writeBinaryHeader(f, n, m)
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("write header to %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func appendBody(path string, format Format, edges graph.Edgelist, directed bool) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return fmt.Errorf("append to %s: %w", path, err)
	}
	w := bufio.NewWriterSize(f, 1<<20)
	switch format {
	case FormatEdgelist:
		err = writeEdgelistBody(w, edges, directed)
	case FormatPlainEdgelist:
		err = writePlainEdgelistBody(w, edges)
	case FormatBinaryEdgelist, FormatBinaryEdgelist32:
		err = writeBinaryBody(w, edges, directed, format)
	default:
		err = fmt.Errorf("unknown graph format %d", int(format))
	}
	if err == nil {
		err = w.Flush()
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("write body to %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
