package generator

import (
	"github.com/Shaip161/KaGen/pkg/chunks"
	"github.com/Shaip161/KaGen/pkg/graph"
	"github.com/Shaip161/KaGen/pkg/rng"
)

// gridKernel keeps each lattice edge with probability p. Chunks tile the
// lattice as a square or cubic chunk grid; vertex IDs are contiguous per
// chunk, local row-major within it. Retention is decided by a coin keyed
// on the lattice edge itself, so both endpoints flip the same coin and
// the adjacency comes out symmetric with no communication. Native CSR:
// each vertex's neighbors are emitted in one pass.
type gridKernel struct {
	threeD bool
}

func (k *gridKernel) nativeRepresentation() graph.Representation { return graph.RepCSR }

// gridLayout precomputes the chunk tiling. The 2-D lattice runs through
// the same code with depth 1 and two axes.
type gridLayout struct {
	gx, gy, gz uint64
	perDim     uint64
	threeD     bool
	offsets    []uint64 // vertex ID offset per chunk, length k+1
}

func newGridLayout(cfg Config, threeD bool) *gridLayout {
	lay := &gridLayout{gx: cfg.GridX, gy: cfg.GridY, gz: cfg.GridZ, threeD: threeD}
	if threeD {
		lay.perDim = chunks.Icbrt(cfg.K)
	} else {
		lay.perDim = chunks.Isqrt(cfg.K)
		lay.gz = 1
	}
	lay.offsets = make([]uint64, cfg.K+1)
	for c := uint64(0); c < cfg.K; c++ {
		xf, xl, yf, yl, zf, zl := lay.chunkBox(c)
		lay.offsets[c+1] = lay.offsets[c] + (xl-xf)*(yl-yf)*(zl-zf)
	}
	return lay
}

// chunkBox returns the half-open lattice box of a chunk.
func (lay *gridLayout) chunkBox(c uint64) (xf, xl, yf, yl, zf, zl uint64) {
	cx, cy, cz := chunks.Decode3D(c, lay.perDim, lay.perDim)
	xf, xl = chunks.ComputeRange(lay.gx, int(lay.perDim), int(cx))
	yf, yl = chunks.ComputeRange(lay.gy, int(lay.perDim), int(cy))
	if lay.threeD {
		zf, zl = chunks.ComputeRange(lay.gz, int(lay.perDim), int(cz))
	} else {
		zf, zl = 0, 1
	}
	return
}

// vertexID maps lattice coordinates to the global vertex ID under the
// chunk-contiguous numbering.
func (lay *gridLayout) vertexID(x, y, z uint64) uint64 {
	cx := uint64(chunks.OwnerOfChunk(x, lay.gx, int(lay.perDim)))
	cy := uint64(chunks.OwnerOfChunk(y, lay.gy, int(lay.perDim)))
	cz := uint64(0)
	if lay.threeD {
		cz = uint64(chunks.OwnerOfChunk(z, lay.gz, int(lay.perDim)))
	}
	c := chunks.Encode3D(cx, cy, cz, lay.perDim, lay.perDim)
	xf, xl, yf, yl, zf, _ := lay.chunkBox(c)
	return lay.offsets[c] + ((z-zf)*(yl-yf)+(y-yf))*(xl-xf) + (x - xf)
}

func (k *gridKernel) generate(g *Generator) error {
	cfg := g.config
	lay := newGridLayout(cfg, k.threeD)
	first, count := chunks.RangeForRank(cfg.K, g.rank, g.size)
	g.SetVertexRange(lay.offsets[first], lay.offsets[first+count])

	axes := 2
	if k.threeD {
		axes = 3
	}
	dims := [3]uint64{lay.gx, lay.gy, lay.gz}

	g.xadj = append(g.xadj, 0)
	var kept []latticeNeighbor
	for c := first; c < first+count; c++ {
		xf, xl, yf, yl, zf, zl := lay.chunkBox(c)
		for z := zf; z < zl; z++ {
			for y := yf; y < yl; y++ {
				for x := xf; x < xl; x++ {
					kept = kept[:0]
					for axis := 0; axis < axes; axis++ {
						for _, step := range [2]int64{-1, 1} {
							nc := [3]uint64{x, y, z}
							w, ok := chunks.WrapCoord(int64(nc[axis])+step, dims[axis], cfg.Periodic)
							if !ok {
								continue
							}
							nc[axis] = w
							if nc == [3]uint64{x, y, z} {
								continue
							}
							// The coin is keyed on the cell the positive
							// step starts from, so both endpoints of the
							// lattice edge reproduce it.
							base := nc
							if step > 0 {
								base = [3]uint64{x, y, z}
							}
							code := chunks.Encode3D(base[0], base[1], base[2], lay.gx, lay.gy)
							keep := rng.Bernoulli(cfg.Prob, cfg.Seed, tagEdges, code, uint64(axis))
							kept = mergeNeighbor(kept, lay.vertexID(nc[0], nc[1], nc[2]), keep)
						}
					}
					for _, nb := range kept {
						if nb.keep {
							g.adjncy = append(g.adjncy, nb.id)
						}
					}
					g.xadj = append(g.xadj, uint64(len(g.adjncy)))
					if cfg.Coordinates {
						if k.threeD {
							g.pushCoordinate3D(cellCenter(x, lay.gx), cellCenter(y, lay.gy), cellCenter(z, lay.gz))
						} else {
							g.pushCoordinate2D(cellCenter(x, lay.gx), cellCenter(y, lay.gy))
						}
					}
				}
			}
		}
	}
	return nil
}

type latticeNeighbor struct {
	id   uint64
	keep bool
}

// mergeNeighbor folds a candidate lattice edge into the per-vertex list.
// Wrapping lattices narrower than three cells reach the same neighbor
// through both directions of an axis; those candidates are distinct
// edges, so a neighbor is kept when any of its coins comes up true.
func mergeNeighbor(kept []latticeNeighbor, id uint64, keep bool) []latticeNeighbor {
	for i := range kept {
		if kept[i].id == id {
			kept[i].keep = kept[i].keep || keep
			return kept
		}
	}
	return append(kept, latticeNeighbor{id: id, keep: keep})
}

func cellCenter(c, dim uint64) float64 {
	return (float64(c) + 0.5) / float64(dim)
}
