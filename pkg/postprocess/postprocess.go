// Package postprocess implements the operations applied to generator
// output once the local edges exist: moving edges to the rank that owns
// their tail, completing reverse edges across rank boundaries, and the
// collective validation checks.
package postprocess

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Shaip161/KaGen/pkg/comm"
	"github.com/Shaip161/KaGen/pkg/graph"
)

// ErrValidation is the root of all validation failures.
var ErrValidation = errors.New("graph validation failed")

// Operation names one postprocessing step of the catalogue.
type Operation int

const (
	RedistributeGraph Operation = iota
	ValidateRangesConsecutive
	ValidateUndirected
	FixUndirectedEdgeList
)

func (op Operation) String() string {
	switch op {
	case RedistributeGraph:
		return "redistribute-graph"
	case ValidateRangesConsecutive:
		return "validate-ranges-consecutive"
	case ValidateUndirected:
		return "validate-undirected"
	case FixUndirectedEdgeList:
		return "fix-undirected-edge-list"
	default:
		return fmt.Sprintf("operation(%d)", int(op))
	}
}

// Apply runs one named operation on g in place. n is the global vertex
// count, consumed by range validation. Every rank must apply the same
// operations in the same order.
func Apply(op Operation, g *graph.Graph, n uint64, c comm.Communicator) error {
	switch op {
	case RedistributeGraph:
		g.Edges = RedistributeEdges(g.Edges, g.Vertices, c)
		return nil
	case ValidateRangesConsecutive:
		return CheckRangesConsecutive(g.Vertices, n, c)
	case ValidateUndirected:
		return CheckUndirected(g.Edges, g.Vertices, c)
	case FixUndirectedEdgeList:
		g.Edges = AddNonlocalReverseEdges(g.Edges, g.Vertices, c)
		return nil
	default:
		return fmt.Errorf("unknown postprocessing operation %d", int(op))
	}
}

// GatherRanges collects every rank's vertex range, indexed by rank.
func GatherRanges(vr graph.VertexRange, c comm.Communicator) []graph.VertexRange {
	flat := c.AllgatherUint64s([]uint64{vr.First, vr.Last})
	ranges := make([]graph.VertexRange, len(flat))
	for i, f := range flat {
		ranges[i] = graph.VertexRange{First: f[0], Last: f[1]}
	}
	return ranges
}

// ownerOf returns the rank whose range contains v. Ranges must be
// consecutive and ascending.
func ownerOf(ranges []graph.VertexRange, v uint64) int {
	return sort.Search(len(ranges), func(i int) bool { return ranges[i].Last > v })
}

// decodePairs appends the (tail, head) pairs flattened in flat to dst,
// swapping the endpoints when reversed.
func decodePairs(dst graph.Edgelist, flat []uint64, reversed bool) graph.Edgelist {
	for i := 0; i+1 < len(flat); i += 2 {
		if reversed {
			dst = append(dst, graph.Edge{Tail: flat[i+1], Head: flat[i]})
		} else {
			dst = append(dst, graph.Edge{Tail: flat[i], Head: flat[i+1]})
		}
	}
	return dst
}

// RedistributeEdges moves every edge to the rank owning its tail and
// returns the sorted, deduplicated local list. Afterwards each local
// edge's tail lies in vr, with the global edge set unchanged up to
// duplicates.
func RedistributeEdges(edges graph.Edgelist, vr graph.VertexRange, c comm.Communicator) graph.Edgelist {
	ranges := GatherRanges(vr, c)
	buckets := make([][]uint64, c.Size())
	for _, e := range edges {
		dst := ownerOf(ranges, e.Tail)
		buckets[dst] = append(buckets[dst], e.Tail, e.Head)
	}
	recv := c.AlltoallUint64s(buckets)
	out := make(graph.Edgelist, 0, len(edges))
	for _, flat := range recv {
		out = decodePairs(out, flat, false)
	}
	return graph.SortAndDedupEdges(out)
}

// AddNonlocalReverseEdges completes an almost-undirected edge list: each
// edge crossing a rank boundary is shipped to the head's owner, which
// appends the reversed copy. The result is sorted and deduplicated.
// Reverses of fully local edges are the producing generator's business.
func AddNonlocalReverseEdges(edges graph.Edgelist, vr graph.VertexRange, c comm.Communicator) graph.Edgelist {
	ranges := GatherRanges(vr, c)
	buckets := make([][]uint64, c.Size())
	for _, e := range edges {
		if !vr.Contains(e.Head) {
			dst := ownerOf(ranges, e.Head)
			buckets[dst] = append(buckets[dst], e.Tail, e.Head)
		}
	}
	recv := c.AlltoallUint64s(buckets)
	out := edges
	for _, flat := range recv {
		out = decodePairs(out, flat, true)
	}
	return graph.SortAndDedupEdges(out)
}

// CheckRangesConsecutive verifies that the gathered vertex ranges start at
// zero, are consecutive without gap or overlap, and end at n. Every rank
// evaluates the same gathered data, so all ranks agree on the outcome.
func CheckRangesConsecutive(vr graph.VertexRange, n uint64, c comm.Communicator) error {
	ranges := GatherRanges(vr, c)
	if ranges[0].First != 0 {
		return fmt.Errorf("%w: first range starts at %d, want 0", ErrValidation, ranges[0].First)
	}
	for i := 0; i+1 < len(ranges); i++ {
		if ranges[i].Last != ranges[i+1].First {
			return fmt.Errorf("%w: ranges of rank %d and %d do not meet (%d vs %d)",
				ErrValidation, i, i+1, ranges[i].Last, ranges[i+1].First)
		}
	}
	if last := ranges[len(ranges)-1].Last; last != n {
		return fmt.Errorf("%w: ranges end at %d, want %d", ErrValidation, last, n)
	}
	return nil
}

// CheckUndirected verifies that every edge has its reverse somewhere in
// the distributed graph. Local reverses are checked against the local
// list; edges whose head lives elsewhere are shipped to the head's owner
// for the check. Requires tails to be local (run after redistribution).
// The per-rank outcomes are combined with a logical-OR reduction, so
// either all ranks return nil or all return an error.
func CheckUndirected(edges graph.Edgelist, vr graph.VertexRange, c comm.Communicator) error {
	ranges := GatherRanges(vr, c)
	sorted := append(graph.Edgelist(nil), edges...)
	graph.SortEdges(sorted)

	missing := false
	buckets := make([][]uint64, c.Size())
	for _, e := range edges {
		if vr.Contains(e.Head) {
			if !graph.ContainsEdge(sorted, graph.Edge{Tail: e.Head, Head: e.Tail}) {
				missing = true
			}
		} else {
			dst := ownerOf(ranges, e.Head)
			buckets[dst] = append(buckets[dst], e.Tail, e.Head)
		}
	}
	recv := c.AlltoallUint64s(buckets)
	for _, flat := range recv {
		for i := 0; i+1 < len(flat); i += 2 {
			if !graph.ContainsEdge(sorted, graph.Edge{Tail: flat[i+1], Head: flat[i]}) {
				missing = true
			}
		}
	}
	if c.AllreduceOr(missing) {
		return fmt.Errorf("%w: an edge is missing its reverse", ErrValidation)
	}
	return nil
}

// CheckSimple verifies the local lists describe a simple graph: tails
// inside the local range, no self loops, no duplicate edges. Outcomes are
// OR-reduced like CheckUndirected.
func CheckSimple(edges graph.Edgelist, vr graph.VertexRange, c comm.Communicator) error {
	var local error
	sorted := append(graph.Edgelist(nil), edges...)
	graph.SortEdges(sorted)
	for i, e := range sorted {
		switch {
		case !vr.Contains(e.Tail):
			local = fmt.Errorf("%w: tail %d outside local range [%d, %d)", ErrValidation, e.Tail, vr.First, vr.Last)
		case e.Tail == e.Head:
			local = fmt.Errorf("%w: self loop at vertex %d", ErrValidation, e.Tail)
		case i > 0 && e == sorted[i-1]:
			local = fmt.Errorf("%w: duplicate edge (%d, %d)", ErrValidation, e.Tail, e.Head)
		}
		if local != nil {
			break
		}
	}
	if c.AllreduceOr(local != nil) {
		if local != nil {
			return local
		}
		return fmt.Errorf("%w: defect on another rank", ErrValidation)
	}
	return nil
}
