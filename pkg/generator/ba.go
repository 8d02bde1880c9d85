package generator

import (
	"github.com/Shaip161/KaGen/pkg/comm"
	"github.com/Shaip161/KaGen/pkg/graph"
	"github.com/Shaip161/KaGen/pkg/postprocess"
	"github.com/Shaip161/KaGen/pkg/rng"
)

// baKernel grows a preferential-attachment graph. Conceptually the
// construction fills a repeat array: slot 2e holds the tail of edge e,
// slot 2e+1 a uniform draw over all earlier slots, biasing heads toward
// high-degree vertices. The array is never materialized; a head resolves
// by chasing odd slots through their hash-keyed draws until an even slot
// names a vertex. Any rank can replay any slot, so attachment to remote
// history costs no communication.
type baKernel struct{}

func (k *baKernel) nativeRepresentation() graph.Representation { return graph.RepEdgeList }

func (k *baKernel) generate(g *Generator) error {
	cfg := g.config
	first, last := chunkVertexSpan(cfg.N, cfg.K, uint64(g.rank))
	g.SetVertexRange(first, last)

	d := cfg.MinDegree
	for v := first; v < last; v++ {
		for i := uint64(0); i < d; i++ {
			pos := 2*(v*d+i) + 1
			for pos&1 == 1 {
				pos = rng.Uintn(pos, cfg.Seed, tagChase, pos)
			}
			w := pos / (2 * d)
			if w == v && !cfg.SelfLoops {
				continue
			}
			g.pushEdge(v, w)
			if !cfg.Directed && w != v {
				g.pushEdge(w, v)
			}
		}
	}
	return nil
}

// finalize ships the reverse directions of the undirected variant to the
// ranks owning their tails.
func (k *baKernel) finalize(g *Generator, c comm.Communicator) error {
	if g.config.Directed {
		return nil
	}
	g.edges = postprocess.RedistributeEdges(g.edges, g.vertices, c)
	return nil
}
