package generator

import (
	"github.com/Shaip161/KaGen/pkg/chunks"
	"github.com/Shaip161/KaGen/pkg/graph"
	"github.com/Shaip161/KaGen/pkg/rng"
)

// gnpKernel retains every possible edge independently with probability p,
// visiting retained cells by geometric skips. Directed chunks own whole
// row blocks. Undirected pairs live in chunk-pair blocks whose streams
// are keyed by the pair, so both owners replay the same cells and each
// pushes only the directions whose tail it owns. Tails never leave the
// rank, hence no finalize hook.
type gnpKernel struct {
	directed bool
}

func (k *gnpKernel) nativeRepresentation() graph.Representation { return graph.RepEdgeList }

func (k *gnpKernel) generate(g *Generator) error {
	cfg := g.config
	first, count := chunks.RangeForRank(cfg.K, g.rank, g.size)

	vf, _ := chunkVertexSpan(cfg.N, cfg.K, first)
	_, vl := chunkVertexSpan(cfg.N, cfg.K, first+count-1)
	g.SetVertexRange(vf, vl)

	if k.directed {
		for c := first; c < first+count; c++ {
			k.generateRows(g, c)
		}
		return nil
	}

	own := func(c uint64) bool { return c >= first && c < first+count }
	for lo := uint64(0); lo < cfg.K; lo++ {
		for hi := lo; hi < cfg.K; hi++ {
			if own(lo) || own(hi) {
				k.generateBlock(g, lo, hi, own(lo), own(hi))
			}
		}
	}
	return nil
}

// generateRows samples the directed row block of one chunk.
func (k *gnpKernel) generateRows(g *Generator, c uint64) {
	cfg := g.config
	f, l := chunkVertexSpan(cfg.N, cfg.K, c)
	cols := cfg.N - 1
	if cfg.SelfLoops {
		cols = cfg.N
	}
	rnd := rng.NewStream(cfg.Seed, tagEdges, c)
	skipSample(rnd, (l-f)*cols, cfg.Prob, func(cell uint64) {
		u := f + cell/cols
		v := cell % cols
		if !cfg.SelfLoops && v >= u {
			v++
		}
		g.pushEdge(u, v)
	})
}

// generateBlock samples the unordered pairs between chunks lo and hi.
// Each replaying rank pushes the directions it owns the tail of.
func (k *gnpKernel) generateBlock(g *Generator, lo, hi uint64, ownLo, ownHi bool) {
	cfg := g.config
	fLo, lLo := chunkVertexSpan(cfg.N, cfg.K, lo)
	rnd := rng.NewStream(cfg.Seed, tagEdges, lo, hi)

	if lo == hi {
		rows := lLo - fLo
		space := rows * (rows - 1) / 2
		if cfg.SelfLoops {
			space = rows * (rows + 1) / 2
		}
		skipSample(rnd, space, cfg.Prob, func(cell uint64) {
			a, b := decodeTriangle(cell, cfg.SelfLoops)
			u, v := fLo+b, fLo+a
			g.pushEdge(u, v)
			if u != v {
				g.pushEdge(v, u)
			}
		})
		return
	}

	fHi, lHi := chunkVertexSpan(cfg.N, cfg.K, hi)
	rowsHi := lHi - fHi
	skipSample(rnd, (lLo-fLo)*rowsHi, cfg.Prob, func(cell uint64) {
		u := fLo + cell/rowsHi
		v := fHi + cell%rowsHi
		if ownLo {
			g.pushEdge(u, v)
		}
		if ownHi {
			g.pushEdge(v, u)
		}
	})
}
