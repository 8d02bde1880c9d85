// Package generator implements the graph family kernels and the shared
// lifecycle they run under: reset, generate into the family's native
// representation, finalize (communication fix-ups plus representation
// adaptation), and a single move-out of the result.
package generator

import (
	"github.com/Shaip161/KaGen/pkg/comm"
	"github.com/Shaip161/KaGen/pkg/graph"
)

// kernel is one family's generation routine. It fills the Generator's
// buffers in the family's native representation; the base adapts the
// other representation on demand.
type kernel interface {
	nativeRepresentation() graph.Representation
	generate(g *Generator) error
}

// finalizer is implemented by kernels whose raw output needs a
// communication step: redistribution of nonlocal tails, or reverse-edge
// completion for almost-undirected families.
type finalizer interface {
	finalize(g *Generator, c comm.Communicator) error
}

// Generator drives one family kernel through its lifecycle. All buffers
// live here; kernels append through the push helpers so the move-out
// semantics stay in one place.
type Generator struct {
	config Config
	rank   int
	size   int

	impl      kernel
	requested graph.Representation

	vertices graph.VertexRange
	edges    graph.Edgelist
	xadj     []uint64
	adjncy   []uint64

	vertexWeights []int64
	edgeWeights   []int64
	coordX        []float64
	coordY        []float64
	coordZ        []float64
}

// Config returns the normalized configuration the generator runs with.
func (g *Generator) Config() Config { return g.config }

// VertexRange returns the owned range.
func (g *Generator) VertexRange() graph.VertexRange { return g.vertices }

// SetVertexRange overrides the owned range, for callers that reassign
// vertices after generation.
func (g *Generator) SetVertexRange(first, last uint64) {
	g.vertices = graph.VertexRange{First: first, Last: last}
}

// Generate clears all buffers and runs the family kernel. The requested
// representation is recorded; if it differs from the kernel's native one,
// Finalize performs the conversion.
func (g *Generator) Generate(rep graph.Representation) error {
	g.reset()
	g.requested = rep
	switch rep {
	case graph.RepCSR:
		return g.generateCSR()
	default:
		return g.generateEdgeList()
	}
}

func (g *Generator) generateEdgeList() error { return g.impl.generate(g) }
func (g *Generator) generateCSR() error      { return g.impl.generate(g) }

func (g *Generator) reset() {
	g.vertices = graph.VertexRange{}
	g.edges = nil
	g.xadj, g.adjncy = nil, nil
	g.vertexWeights, g.edgeWeights = nil, nil
	g.coordX, g.coordY, g.coordZ = nil, nil, nil
}

// Finalize completes the generated graph: first the kernel's
// communication hook if it has one, then conversion from the native to
// the requested representation. Collective; every rank must call it in
// the same program position.
func (g *Generator) Finalize(c comm.Communicator) error {
	if f, ok := g.impl.(finalizer); ok {
		if err := f.finalize(g, c); err != nil {
			return err
		}
	}
	return g.adaptRepresentation()
}

// adaptRepresentation bridges the native and requested representations.
// Kernels that are already native to the request leave nothing to do.
func (g *Generator) adaptRepresentation() error {
	switch g.requested {
	case graph.RepCSR:
		if g.xadj == nil {
			xadj, adjncy, err := graph.BuildCSR(g.vertices, g.edges)
			if err != nil {
				return err
			}
			g.xadj, g.adjncy = xadj, adjncy
			g.edges = nil
		}
	default:
		if g.edges == nil && g.xadj != nil {
			edges, err := graph.BuildEdgeList(g.vertices, g.xadj, g.adjncy)
			if err != nil {
				return err
			}
			g.edges = edges
			g.xadj, g.adjncy = nil, nil
		}
	}
	return nil
}

// GetNumberOfEdges returns the local edge count in whichever
// representation is populated.
func (g *Generator) GetNumberOfEdges() uint64 {
	if len(g.adjncy) > len(g.edges) {
		return uint64(len(g.adjncy))
	}
	return uint64(len(g.edges))
}

// FilterDuplicateEdges sorts the edge list and drops duplicates. Calling
// it again is a no-op. Weights, when present, follow the permutation and
// duplicates lose theirs.
func (g *Generator) FilterDuplicateEdges() {
	if g.edgeWeights != nil {
		g.edges, g.edgeWeights = graph.SortAndDedupWeighted(g.edges, g.edgeWeights)
		return
	}
	g.edges = graph.SortAndDedupEdges(g.edges)
}

// Take moves the generated graph out of the generator exactly once. The
// internal buffers are cleared; a second Take yields an empty graph.
func (g *Generator) Take() graph.Graph {
	out := graph.Graph{
		Vertices:       g.vertices,
		Representation: g.requested,
		Edges:          g.edges,
		Xadj:           g.xadj,
		Adjncy:         g.adjncy,
		VertexWeights:  g.vertexWeights,
		EdgeWeights:    g.edgeWeights,
		CoordX:         g.coordX,
		CoordY:         g.coordY,
		CoordZ:         g.coordZ,
	}
	g.reset()
	return out
}

func (g *Generator) pushEdge(tail, head uint64) {
	g.edges = append(g.edges, graph.Edge{Tail: tail, Head: head})
}

func (g *Generator) pushCoordinate2D(x, y float64) {
	g.coordX = append(g.coordX, x)
	g.coordY = append(g.coordY, y)
}

func (g *Generator) pushCoordinate3D(x, y, z float64) {
	g.coordX = append(g.coordX, x)
	g.coordY = append(g.coordY, y)
	g.coordZ = append(g.coordZ, z)
}
