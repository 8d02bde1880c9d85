package generator

import (
	"github.com/Shaip161/KaGen/pkg/chunks"
	"github.com/Shaip161/KaGen/pkg/graph"
	"github.com/Shaip161/KaGen/pkg/rng"
)

// rggKernel throws n points uniformly into the unit square or cube and
// connects every pair closer than the radius. Chunks tile the space; a
// chunk's points split over a cell grid fine enough that all neighbors
// of a cell lie in the surrounding cell layer. Points of any cell,
// including cells of other ranks' chunks, are regenerated on demand from
// the cell's keyed stream, so every ordered edge is emitted exactly once
// by the rank owning its tail and the output is undirected with no
// communication.
type rggKernel struct {
	threeD bool
}

func (k *rggKernel) nativeRepresentation() graph.Representation { return graph.RepEdgeList }

type rggPoint struct {
	id      uint64
	x, y, z float64
}

type rggSpace struct {
	cfg       Config
	threeD    bool
	chunksDim uint64 // chunks per dimension
	cellsDim  uint64 // cells per dimension within a chunk
	cellWidth float64
	seedV     uint64
	cache     map[uint64][]rggPoint // keyed by global cell code
}

func newRGGSpace(cfg Config, threeD bool) *rggSpace {
	s := &rggSpace{cfg: cfg, threeD: threeD, seedV: rng.Hash(cfg.Seed, tagVertices)}
	if threeD {
		s.chunksDim = chunks.Icbrt(cfg.K)
	} else {
		s.chunksDim = chunks.Isqrt(cfg.K)
	}
	chunkWidth := 1 / float64(s.chunksDim)
	s.cellsDim = uint64(chunkWidth / cfg.Radius)
	if s.cellsDim == 0 {
		s.cellsDim = 1
	}
	s.cellWidth = chunkWidth / float64(s.cellsDim)
	s.cache = make(map[uint64][]rggPoint)
	return s
}

func (s *rggSpace) cellsTotal() uint64 {
	if s.threeD {
		return s.cellsDim * s.cellsDim * s.cellsDim
	}
	return s.cellsDim * s.cellsDim
}

// cellPoints regenerates the points of one global cell. The chunk's point
// count comes from the global split, the cell's from the chunk-keyed
// split, and the coordinates from the cell-keyed stream, so every rank
// derives identical points for any cell it looks at.
func (s *rggSpace) cellPoints(gcx, gcy, gcz uint64) []rggPoint {
	gdim := s.chunksDim * s.cellsDim
	code := chunks.Encode3D(gcx, gcy, gcz, gdim, gdim)
	if pts, ok := s.cache[code]; ok {
		return pts
	}

	ccx, cx := gcx/s.cellsDim, gcx%s.cellsDim
	ccy, cy := gcy/s.cellsDim, gcy%s.cellsDim
	ccz, cz := gcz/s.cellsDim, gcz%s.cellsDim
	chunkID := chunks.Encode3D(ccx, ccy, ccz, s.chunksDim, s.chunksDim)
	cellIdx := chunks.Encode3D(cx, cy, cz, s.cellsDim, s.cellsDim)

	chunkCount, chunkOff := chunks.SplitUniform(s.seedV, s.cfg.N, s.cfg.K, chunkID)
	cellCount, cellOff := chunks.SplitUniform(rng.Hash(s.cfg.Seed, tagCells, chunkID), chunkCount, s.cellsTotal(), cellIdx)

	x0 := float64(gcx) * s.cellWidth
	y0 := float64(gcy) * s.cellWidth
	z0 := float64(gcz) * s.cellWidth
	rnd := rng.NewStream(s.cfg.Seed, tagCoords, chunkID, cellIdx)
	pts := make([]rggPoint, cellCount)
	for j := range pts {
		pts[j].id = chunkOff + cellOff + uint64(j)
		pts[j].x = x0 + rnd.Float64()*s.cellWidth
		pts[j].y = y0 + rnd.Float64()*s.cellWidth
		if s.threeD {
			pts[j].z = z0 + rnd.Float64()*s.cellWidth
		}
	}
	s.cache[code] = pts
	return pts
}

func (k *rggKernel) generate(g *Generator) error {
	cfg := g.config
	s := newRGGSpace(cfg, k.threeD)
	first, count := chunks.RangeForRank(cfg.K, g.rank, g.size)

	fc, fo := chunks.SplitUniform(s.seedV, cfg.N, cfg.K, first)
	lc, lo := fc, fo
	if count > 1 {
		lc, lo = chunks.SplitUniform(s.seedV, cfg.N, cfg.K, first+count-1)
	}
	g.SetVertexRange(fo, lo+lc)

	r2 := cfg.Radius * cfg.Radius
	zCells := uint64(1)
	if k.threeD {
		zCells = s.cellsDim
	}

	for c := first; c < first+count; c++ {
		ccx, ccy, ccz := chunks.Decode3D(c, s.chunksDim, s.chunksDim)
		for cz := uint64(0); cz < zCells; cz++ {
			for cy := uint64(0); cy < s.cellsDim; cy++ {
				for cx := uint64(0); cx < s.cellsDim; cx++ {
					gcx := ccx*s.cellsDim + cx
					gcy := ccy*s.cellsDim + cy
					gcz := ccz*s.cellsDim + cz
					pts := s.cellPoints(gcx, gcy, gcz)
					if cfg.Coordinates {
						for _, p := range pts {
							if k.threeD {
								g.pushCoordinate3D(p.x, p.y, p.z)
							} else {
								g.pushCoordinate2D(p.x, p.y)
							}
						}
					}
					k.cellEdges(g, s, pts, gcx, gcy, gcz, r2)
				}
			}
		}
	}
	return nil
}

// cellEdges emits the edges with tails in one cell: both directions for
// pairs inside the cell, the outgoing direction for pairs reaching into
// the neighbor layer. The neighbor cell emits the reverse when its own
// rank visits it.
func (k *rggKernel) cellEdges(g *Generator, s *rggSpace, pts []rggPoint, gcx, gcy, gcz uint64, r2 float64) {
	for i := 0; i < len(pts); i++ {
		for j := i + 1; j < len(pts); j++ {
			if pointDist2(pts[i], pts[j]) <= r2 {
				g.pushEdge(pts[i].id, pts[j].id)
				g.pushEdge(pts[j].id, pts[i].id)
			}
		}
	}

	gdim := int64(s.chunksDim * s.cellsDim)
	zLo, zHi := int64(0), int64(0)
	if k.threeD {
		zLo, zHi = -1, 1
	}
	for dz := zLo; dz <= zHi; dz++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for dx := int64(-1); dx <= 1; dx++ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				nx, ny, nz := int64(gcx)+dx, int64(gcy)+dy, int64(gcz)+dz
				if nx < 0 || nx >= gdim || ny < 0 || ny >= gdim || nz < 0 || nz >= gdim {
					continue
				}
				npts := s.cellPoints(uint64(nx), uint64(ny), uint64(nz))
				for _, p := range pts {
					for _, q := range npts {
						if pointDist2(p, q) <= r2 {
							g.pushEdge(p.id, q.id)
						}
					}
				}
			}
		}
	}
}

func pointDist2(a, b rggPoint) float64 {
	dx := a.x - b.x
	dy := a.y - b.y
	dz := a.z - b.z
	return dx*dx + dy*dy + dz*dz
}
