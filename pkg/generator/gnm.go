package generator

import (
	"sort"

	"github.com/Shaip161/KaGen/pkg/chunks"
	"github.com/Shaip161/KaGen/pkg/comm"
	"github.com/Shaip161/KaGen/pkg/graph"
	"github.com/Shaip161/KaGen/pkg/postprocess"
	"github.com/Shaip161/KaGen/pkg/rng"
)

// gnmKernel samples a fixed global number of edges uniformly at random.
// The edge space is carved into per-chunk cell spaces; the global budget
// splits over chunks by capacity-weighted binomial splitting, and each
// chunk draws its quota without replacement. Directed chunks own whole
// row blocks, so tails stay local. Undirected pairs are owned by the
// chunk of the lower endpoint and emitted in both directions; the upper
// direction may leave the rank and is fixed by redistribution.
type gnmKernel struct {
	directed bool
}

func (k *gnmKernel) nativeRepresentation() graph.Representation { return graph.RepEdgeList }

func (k *gnmKernel) generate(g *Generator) error {
	cfg := g.config
	first, count := chunks.RangeForRank(cfg.K, g.rank, g.size)

	vf, _ := chunkVertexSpan(cfg.N, cfg.K, first)
	_, vl := chunkVertexSpan(cfg.N, cfg.K, first+count-1)
	g.SetVertexRange(vf, vl)

	caps := k.chunkCapacities(cfg)
	quotaSeed := rng.Hash(cfg.Seed, tagQuota)
	for c := first; c < first+count; c++ {
		quota, _ := chunks.SplitWeighted(quotaSeed, cfg.M, caps, c)
		k.generateChunk(g, c, quota, caps[c])
	}
	return nil
}

func (k *gnmKernel) finalize(g *Generator, c comm.Communicator) error {
	if !k.directed {
		g.edges = postprocess.RedistributeEdges(g.edges, g.vertices, c)
	}
	return nil
}

// chunkCapacities returns, per chunk, how many distinct cells its edge
// space holds.
func (k *gnmKernel) chunkCapacities(cfg Config) []uint64 {
	caps := make([]uint64, cfg.K)
	for c := range caps {
		f, l := chunkVertexSpan(cfg.N, cfg.K, uint64(c))
		if k.directed {
			cols := cfg.N - 1
			if cfg.SelfLoops {
				cols = cfg.N
			}
			caps[c] = (l - f) * cols
		} else {
			caps[c] = triangleCapacity(cfg.N, f, l, cfg.SelfLoops)
		}
	}
	return caps
}

func (k *gnmKernel) generateChunk(g *Generator, c, quota, capacity uint64) {
	cfg := g.config
	f, l := chunkVertexSpan(cfg.N, cfg.K, c)
	rnd := rng.NewStream(cfg.Seed, tagEdges, c)

	if k.directed {
		cols := cfg.N - 1
		if cfg.SelfLoops {
			cols = cfg.N
		}
		for _, cell := range sampleDistinct(rnd, capacity, quota) {
			u := f + cell/cols
			v := cell % cols
			if !cfg.SelfLoops && v >= u {
				v++
			}
			g.pushEdge(u, v)
		}
		return
	}

	for _, cell := range sampleDistinct(rnd, capacity, quota) {
		u, v := decodeMinPair(cfg.N, f, l, cfg.SelfLoops, cell)
		g.pushEdge(u, v)
		if u != v {
			g.pushEdge(v, u)
		}
	}
}

// triangleCapacity counts the unordered pairs {u, v} with u in [f, l) and
// v > u, or v >= u when self loops are allowed.
func triangleCapacity(n, f, l uint64, selfLoops bool) uint64 {
	rows := l - f
	sum := rows*(n-1) - (f+l-1)*rows/2
	if selfLoops {
		sum += rows
	}
	return sum
}

// decodeMinPair maps a cell index of the [f, l) chunk's unordered-pair
// space onto the pair (u, v) with u the lower endpoint.
func decodeMinPair(n, f, l uint64, selfLoops bool, cell uint64) (uint64, uint64) {
	idx := sort.Search(int(l-f), func(i int) bool {
		return triangleCapacity(n, f, f+uint64(i)+1, selfLoops) > cell
	})
	u := f + uint64(idx)
	off := cell - triangleCapacity(n, f, u, selfLoops)
	if selfLoops {
		return u, u + off
	}
	return u, u + 1 + off
}
