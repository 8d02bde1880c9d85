package generator

import (
	"math/bits"

	"golang.org/x/exp/rand"

	"github.com/Shaip161/KaGen/pkg/chunks"
	"github.com/Shaip161/KaGen/pkg/comm"
	"github.com/Shaip161/KaGen/pkg/graph"
	"github.com/Shaip161/KaGen/pkg/postprocess"
	"github.com/Shaip161/KaGen/pkg/rng"
)

// rmatKernel recursively drops each edge into one quadrant of the
// adjacency matrix per level, following the initiator probabilities.
// The kronecker flavor uses the bitwise descent of the Graph500
// reference kernel instead of full quadrant selection. Ranks draw
// disjoint shares of the global edge budget; tails land anywhere, so
// finalize redistributes.
type rmatKernel struct {
	kronecker bool
}

func (k *rmatKernel) nativeRepresentation() graph.Representation { return graph.RepEdgeList }

func (k *rmatKernel) generate(g *Generator) error {
	cfg := g.config
	first, last := chunkVertexSpan(cfg.N, cfg.K, uint64(g.rank))
	g.SetVertexRange(first, last)

	mf, ml := chunks.ComputeRange(cfg.M, g.size, g.rank)
	levels := uint(bits.Len64(cfg.N) - 1)
	rnd := rng.NewStream(cfg.Seed, tagEdges, uint64(g.rank))
	for e := mf; e < ml; e++ {
		for {
			u, v := k.descend(cfg, rnd, levels)
			if u == v && !cfg.SelfLoops {
				continue
			}
			g.pushEdge(u, v)
			break
		}
	}
	return nil
}

func (k *rmatKernel) finalize(g *Generator, c comm.Communicator) error {
	g.edges = postprocess.RedistributeEdges(g.edges, g.vertices, c)
	return nil
}

func (k *rmatKernel) descend(cfg Config, rnd *rand.Rand, levels uint) (u, v uint64) {
	a, b, c := cfg.RMatA, cfg.RMatB, cfg.RMatC
	if k.kronecker {
		// Graph500 reference descent: the row bit splits the matrix in
		// half, the column bit follows the renormalized half.
		ab := a + b
		aNorm := a / ab
		cNorm := c / (1 - ab)
		for h := uint(0); h < levels; h++ {
			var ubit, vbit uint64
			if rnd.Float64() > ab {
				ubit = 1
			}
			threshold := aNorm
			if ubit == 1 {
				threshold = cNorm
			}
			if rnd.Float64() > threshold {
				vbit = 1
			}
			u |= ubit << h
			v |= vbit << h
		}
		return u, v
	}
	for h := uint(0); h < levels; h++ {
		r := rnd.Float64()
		var ubit, vbit uint64
		switch {
		case r < a:
		case r < a+b:
			vbit = 1
		case r < a+b+c:
			ubit = 1
		default:
			ubit, vbit = 1, 1
		}
		u = u<<1 | ubit
		v = v<<1 | vbit
	}
	return u, v
}
