package generator

import (
	"math"
	"sort"

	"github.com/Shaip161/KaGen/pkg/chunks"
	"github.com/Shaip161/KaGen/pkg/comm"
	"github.com/Shaip161/KaGen/pkg/graph"
	"github.com/Shaip161/KaGen/pkg/postprocess"
	"github.com/Shaip161/KaGen/pkg/rng"
)

// rhgKernel samples a threshold random hyperbolic graph: n points in the
// hyperbolic disk of radius R, radial density alpha*sinh(alpha*r), edges
// between pairs closer than R. Chunks are angular sectors; each sector's
// points split radially over annuli whose counts come from sequential
// binomials, and any rank regenerates any cell on demand. A query walks
// the annuli and visits only sectors inside the angular window that can
// still reach the query point. Local pairs are emitted by both tails;
// cross-rank pairs only by the lowerID, which leaves the graph almost
// undirected until finalize completes the reverse directions.
type rhgKernel struct{}

func (k *rhgKernel) nativeRepresentation() graph.Representation { return graph.RepEdgeList }

type hypPoint struct {
	id    uint64
	phi   float64
	r     float64
	coshR float64
	sinhR float64
}

type hypSlot struct {
	count      uint64
	offset     uint64
	minR, maxR float64
}

type hypBoundary struct {
	coshR float64
	sinhR float64
}

type hypSpace struct {
	cfg        Config
	alpha      float64
	radius     float64 // disk radius R
	coshRadius float64
	annuli     uint64
	seedV      uint64
	bounds     []hypBoundary
	slotCache  map[uint64][]hypSlot
	cellCache  map[uint64][]hypPoint
}

func newHypSpace(cfg Config) *hypSpace {
	s := &hypSpace{
		cfg:       cfg,
		alpha:     (cfg.Gamma - 1) / 2,
		seedV:     rng.Hash(cfg.Seed, tagVertices),
		slotCache: make(map[uint64][]hypSlot),
		cellCache: make(map[uint64][]hypPoint),
	}
	s.radius = targetRadius(float64(cfg.N), cfg.AvgDegree, s.alpha)
	s.coshRadius = math.Cosh(s.radius)
	s.annuli = uint64(math.Floor(s.alpha * s.radius / math.Ln2))
	if s.annuli == 0 {
		s.annuli = 1
	}
	s.bounds = make([]hypBoundary, s.annuli)
	for b := uint64(0); b < s.annuli; b++ {
		minR := float64(b) * s.radius / float64(s.annuli)
		s.bounds[b] = hypBoundary{coshR: math.Cosh(minR), sinhR: math.Sinh(minR)}
	}
	return s
}

// area is the hyperbolic disk area up to radius r, modulo constants.
func (s *hypSpace) area(r float64) float64 {
	return math.Cosh(s.alpha*r) - 1
}

// chunkAnnuli splits one sector's points over the annuli. The binomial
// for annulus b is keyed by (chunk, b); the outermost takes the exact
// remainder so no point is lost to rounding.
func (s *hypSpace) chunkAnnuli(c uint64) []hypSlot {
	if slots, ok := s.slotCache[c]; ok {
		return slots
	}
	count, offset := chunks.SplitUniform(s.seedV, s.cfg.N, s.cfg.K, c)
	slots := make([]hypSlot, s.annuli)
	totalArea := s.area(s.radius)
	minR := 0.0
	for b := range slots {
		maxR := float64(b+1) * s.radius / float64(s.annuli)
		ringArea := s.area(maxR) - s.area(minR)
		cnt := count
		if b < len(slots)-1 {
			cnt = rng.Binomial(count, ringArea/totalArea, s.cfg.Seed, tagAnnuli, c, uint64(b))
		}
		slots[b] = hypSlot{count: cnt, offset: offset, minR: minR, maxR: maxR}
		count -= cnt
		offset += cnt
		totalArea -= ringArea
		minR = maxR
	}
	s.slotCache[c] = slots
	return slots
}

// cellPoints regenerates the points of one sector-annulus cell: sorted
// uniform angles over the sector, radii by the inverse CDF over the
// annulus. IDs continue the slot offset in angle order.
func (s *hypSpace) cellPoints(c, b uint64) []hypPoint {
	key := c*s.annuli + b
	if pts, ok := s.cellCache[key]; ok {
		return pts
	}
	slot := s.chunkAnnuli(c)[b]
	sector := 2 * math.Pi / float64(s.cfg.K)
	minPhi := float64(c) * sector

	rnd := rng.NewStream(s.cfg.Seed, tagCoords, c, b)
	angles := make([]float64, slot.count)
	for i := range angles {
		angles[i] = minPhi + rnd.Float64()*sector
	}
	sort.Float64s(angles)

	coshMin := math.Cosh(s.alpha * slot.minR)
	coshMax := math.Cosh(s.alpha * slot.maxR)
	pts := make([]hypPoint, slot.count)
	for i := range pts {
		r := math.Acosh(rnd.Float64()*(coshMax-coshMin)+coshMin) / s.alpha
		pts[i] = hypPoint{id: slot.offset + uint64(i), phi: angles[i], r: r, coshR: math.Cosh(r), sinhR: math.Sinh(r)}
	}
	s.cellCache[key] = pts
	return pts
}

// angularWindow bounds how far in angle a point at the annulus' inner
// radius can sit and still be within distance R of q. full means the
// whole circle; reachable false skips the annulus outright.
func (s *hypSpace) angularWindow(q hypPoint, b uint64) (diff float64, reachable bool) {
	arg := (q.coshR*s.bounds[b].coshR - s.coshRadius) / (q.sinhR * s.bounds[b].sinhR)
	switch {
	case arg > 1:
		return 0, false
	case arg < -1 || math.IsNaN(arg):
		return math.Pi, true
	default:
		return math.Acos(arg), true
	}
}

func (k *rhgKernel) generate(g *Generator) error {
	cfg := g.config
	s := newHypSpace(cfg)
	first, count := chunks.RangeForRank(cfg.K, g.rank, g.size)

	fc, fo := chunks.SplitUniform(s.seedV, cfg.N, cfg.K, first)
	lc, lo := fc, fo
	if count > 1 {
		lc, lo = chunks.SplitUniform(s.seedV, cfg.N, cfg.K, first+count-1)
	}
	g.SetVertexRange(fo, lo+lc)

	for c := first; c < first+count; c++ {
		for b := uint64(0); b < s.annuli; b++ {
			pts := s.cellPoints(c, b)
			if cfg.Coordinates {
				for _, p := range pts {
					x, y := poincare(p)
					g.pushCoordinate2D(x, y)
				}
			}
			for _, q := range pts {
				k.query(g, s, q)
			}
		}
	}
	return nil
}

// query emits the edges of one local point. Every rank computing the
// same pair derives the identical distance, so the ID rule alone decides
// who emits across ranks.
func (k *rhgKernel) query(g *Generator, s *hypSpace, q hypPoint) {
	cfg := g.config
	sector := 2 * math.Pi / float64(cfg.K)
	for b := uint64(0); b < s.annuli; b++ {
		diff, reachable := s.angularWindow(q, b)
		if !reachable {
			continue
		}
		c0 := int64(math.Floor((q.phi - diff) / sector))
		c1 := int64(math.Floor((q.phi + diff) / sector))
		if c1-c0+1 >= int64(cfg.K) {
			c0, c1 = 0, int64(cfg.K)-1
		}
		for t := c0; t <= c1; t++ {
			cc := uint64(((t % int64(cfg.K)) + int64(cfg.K)) % int64(cfg.K))
			local := chunks.OwnerOfChunk(cc, cfg.K, g.size) == g.rank
			for _, v := range s.cellPoints(cc, b) {
				if v.id == q.id {
					continue
				}
				coshDist := q.coshR*v.coshR - q.sinhR*v.sinhR*math.Cos(q.phi-v.phi)
				if coshDist > s.coshRadius {
					continue
				}
				if local || q.id < v.id {
					g.pushEdge(q.id, v.id)
				}
			}
		}
	}
}

// finalize completes the reverse directions of cross-rank pairs.
func (k *rhgKernel) finalize(g *Generator, c comm.Communicator) error {
	g.edges = postprocess.AddNonlocalReverseEdges(g.edges, g.vertices, c)
	return nil
}

// poincare projects a point onto the Poincare disk model.
func poincare(p hypPoint) (x, y float64) {
	invLen := (p.coshR + 1) / 2
	pr := math.Sqrt(1 - 1/invLen)
	return pr * math.Sin(p.phi), pr * math.Cos(p.phi)
}

// expectedDegree is the mean degree of the threshold model at disk
// radius R, following Krioukov et al.'s closed form.
func expectedDegree(n, alpha, r float64) float64 {
	gamma := 2*alpha + 1
	xi := (gamma - 1) / (gamma - 2)
	firstTerm := math.Exp(-r / 2)
	secondTerm := math.Exp(-alpha*r) *
		(alpha*(r/2)*((math.Pi/4)*(1/(alpha*alpha))-(math.Pi-1)*(1/alpha)+(math.Pi-2)) - 1)
	return n * (2 / math.Pi) * xi * xi * (firstTerm + secondTerm)
}

// targetRadius finds the disk radius matching the desired average degree
// by bisection; degree falls monotonically in R.
func targetRadius(n, avgDegree, alpha float64) float64 {
	plExp := 2*alpha + 1
	xiInv := (plExp - 2) / (plExp - 1)
	v := avgDegree * (math.Pi / 2) * xiInv * xiInv
	r := 2 * math.Log(n/v)
	lower, upper := r/2, r*2
	for i := 0; i < 200; i++ {
		r = (lower + upper) / 2
		d := expectedDegree(n, alpha, r)
		if math.Abs(d-avgDegree) <= 1e-2 {
			break
		}
		if d < avgDegree {
			upper = r
		} else {
			lower = r
		}
	}
	return r
}
