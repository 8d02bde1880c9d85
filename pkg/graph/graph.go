package graph

import "fmt"

// Representation selects how a generated graph is stored.
type Representation int

const (
	// RepEdgeList stores explicit (tail, head) pairs.
	RepEdgeList Representation = iota
	// RepCSR stores compressed sparse rows: Xadj offsets plus Adjncy heads.
	RepCSR
)

func (r Representation) String() string {
	switch r {
	case RepEdgeList:
		return "edge-list"
	case RepCSR:
		return "csr"
	default:
		return fmt.Sprintf("representation(%d)", int(r))
	}
}

// VertexRange is the half-open interval [First, Last) of global vertex IDs
// owned by one rank. Ranges across ranks are disjoint, consecutive and
// ascending; their union covers [0, n).
type VertexRange struct {
	First uint64
	Last  uint64
}

// N returns the number of vertices in the range.
func (r VertexRange) N() uint64 { return r.Last - r.First }

// Contains reports whether global vertex v falls inside the range.
func (r VertexRange) Contains(v uint64) bool { return v >= r.First && v < r.Last }

// Edge is a directed pair of global vertex IDs. Undirected graphs carry both
// directions as separate entries.
type Edge struct {
	Tail uint64
	Head uint64
}

// Edgelist is the per-rank list of local edges.
type Edgelist []Edge

// Graph is the per-rank slice of a distributed graph: the owned vertex range
// plus local edges in one of two representations. In CSR form, Xadj has
// N()+1 monotone offsets into Adjncy and tails are implicit by position;
// only one representation is populated unless a caller expands the other.
type Graph struct {
	Vertices       VertexRange
	Representation Representation

	Edges  Edgelist
	Xadj   []uint64
	Adjncy []uint64

	VertexWeights []int64
	EdgeWeights   []int64

	// Optional unit-square/cube coordinates, one entry per local vertex.
	// CoordZ stays empty for 2-D geometries.
	CoordX []float64
	CoordY []float64
	CoordZ []float64
}

// NumberOfLocalVertices returns the size of the owned vertex range.
func (g *Graph) NumberOfLocalVertices() uint64 { return g.Vertices.N() }

// NumberOfLocalEdges returns the local edge count regardless of which
// representation is populated.
func (g *Graph) NumberOfLocalEdges() uint64 {
	if len(g.Adjncy) > len(g.Edges) {
		return uint64(len(g.Adjncy))
	}
	return uint64(len(g.Edges))
}

// Neighbors returns the adjacency slice of the local vertex with index u.
// Valid only for CSR graphs.
func (g *Graph) Neighbors(u uint64) []uint64 {
	return g.Adjncy[g.Xadj[u]:g.Xadj[u+1]]
}
