// Package kagen exposes graph generation behind one facade: a Generate
// function that drives the normalize, generate, finalize, validate and
// statistics pipeline on one rank, an object-style wrapper with
// per-family convenience methods, and a parser for the option-string
// mini-language used by callers that configure by text.
package kagen

import (
	"github.com/Shaip161/KaGen/pkg/comm"
	"github.com/Shaip161/KaGen/pkg/generator"
	"github.com/Shaip161/KaGen/pkg/graph"
)

// KaGen generates graphs on one rank of a group. The struct accumulates
// cross-call settings (seed, chunk count, statistics, validation); each
// Generate method fills in the family parameters and runs the full
// pipeline. Every rank of the group needs its own instance configured
// identically.
type KaGen struct {
	comm comm.Communicator
	cfg  generator.Config
}

// New returns a generator bound to one communicator, seeded with 1 and
// producing edge lists until told otherwise.
func New(c comm.Communicator) *KaGen {
	return &KaGen{
		comm: c,
		cfg: generator.Config{
			Seed:           1,
			Representation: graph.RepEdgeList,
		},
	}
}

// SetSeed fixes the sampling seed. Every rank must use the same seed;
// all randomness derives from it.
func (k *KaGen) SetSeed(seed uint64) { k.cfg.Seed = seed }

// SetNumberOfChunks overrides the number of vertex chunks. Zero keeps
// the per-family default.
func (k *KaGen) SetNumberOfChunks(chunks uint64) { k.cfg.K = chunks }

// EnableUndirectedGraphVerification checks after every generation that
// the result is simple and, for undirected families, that both
// directions of each edge are present.
func (k *KaGen) EnableUndirectedGraphVerification() { k.cfg.ValidateSimple = true }

// EnableBasicStatistics reports global vertex and edge counts after each
// generation.
func (k *KaGen) EnableBasicStatistics() { k.cfg.Statistics = generator.StatsBasic }

// EnableAdvancedStatistics additionally reports a degree summary.
func (k *KaGen) EnableAdvancedStatistics() { k.cfg.Statistics = generator.StatsAdvanced }

// EnableCoordinates keeps vertex coordinates on geometric families.
func (k *KaGen) EnableCoordinates() { k.cfg.Coordinates = true }

// EnableOutput records where the driving program should write the graph.
// The facade itself never writes; the CLI consumes these settings.
func (k *KaGen) EnableOutput(path, format string) {
	k.cfg.OutputFile = path
	k.cfg.OutputFormat = format
}

// SetQuiet suppresses informational logging.
func (k *KaGen) SetQuiet(quiet bool) { k.cfg.Quiet = quiet }

// UseCSRRepresentation makes subsequent generations return CSR graphs.
func (k *KaGen) UseCSRRepresentation() { k.cfg.Representation = graph.RepCSR }

// UseEdgeListRepresentation makes subsequent generations return edge
// lists. This is the default.
func (k *KaGen) UseEdgeListRepresentation() { k.cfg.Representation = graph.RepEdgeList }

// GenerateDirectedGNM samples m directed edges among n vertices.
func (k *KaGen) GenerateDirectedGNM(n, m uint64, selfLoops bool) (graph.Graph, error) {
	cfg := k.cfg
	cfg.Family = generator.FamilyGNMDirected
	cfg.N, cfg.M, cfg.SelfLoops = n, m, selfLoops
	return Generate(cfg, k.comm)
}

// GenerateUndirectedGNM samples m undirected edges among n vertices.
func (k *KaGen) GenerateUndirectedGNM(n, m uint64, selfLoops bool) (graph.Graph, error) {
	cfg := k.cfg
	cfg.Family = generator.FamilyGNMUndirected
	cfg.N, cfg.M, cfg.SelfLoops = n, m, selfLoops
	return Generate(cfg, k.comm)
}

// GenerateDirectedGNP keeps each directed pair with probability p.
func (k *KaGen) GenerateDirectedGNP(n uint64, p float64, selfLoops bool) (graph.Graph, error) {
	cfg := k.cfg
	cfg.Family = generator.FamilyGNPDirected
	cfg.N, cfg.Prob, cfg.SelfLoops = n, p, selfLoops
	return Generate(cfg, k.comm)
}

// GenerateUndirectedGNP keeps each vertex pair with probability p.
func (k *KaGen) GenerateUndirectedGNP(n uint64, p float64, selfLoops bool) (graph.Graph, error) {
	cfg := k.cfg
	cfg.Family = generator.FamilyGNPUndirected
	cfg.N, cfg.Prob, cfg.SelfLoops = n, p, selfLoops
	return Generate(cfg, k.comm)
}

// GenerateRGG2D connects n random points in the unit square whose
// distance is below radius.
func (k *KaGen) GenerateRGG2D(n uint64, radius float64) (graph.Graph, error) {
	cfg := k.cfg
	cfg.Family = generator.FamilyRGG2D
	cfg.N, cfg.Radius = n, radius
	return Generate(cfg, k.comm)
}

// GenerateRGG3D connects n random points in the unit cube whose distance
// is below radius.
func (k *KaGen) GenerateRGG3D(n uint64, radius float64) (graph.Graph, error) {
	cfg := k.cfg
	cfg.Family = generator.FamilyRGG3D
	cfg.N, cfg.Radius = n, radius
	return Generate(cfg, k.comm)
}

// GenerateRDG2D exists for parity with the family catalogue. Random
// Delaunay graphs need a computational geometry backend this build does
// not include, so the call always fails with a configuration error.
func (k *KaGen) GenerateRDG2D(n uint64) (graph.Graph, error) {
	cfg := k.cfg
	cfg.Family = generator.FamilyRDG2D
	cfg.N = n
	return Generate(cfg, k.comm)
}

// GenerateGrid2D builds an x by y lattice keeping each lattice edge with
// probability p.
func (k *KaGen) GenerateGrid2D(x, y uint64, p float64, periodic bool) (graph.Graph, error) {
	cfg := k.cfg
	cfg.Family = generator.FamilyGrid2D
	cfg.GridX, cfg.GridY, cfg.Prob, cfg.Periodic = x, y, p, periodic
	return Generate(cfg, k.comm)
}

// GenerateGrid3D builds an x by y by z lattice keeping each lattice edge
// with probability p.
func (k *KaGen) GenerateGrid3D(x, y, z uint64, p float64, periodic bool) (graph.Graph, error) {
	cfg := k.cfg
	cfg.Family = generator.FamilyGrid3D
	cfg.GridX, cfg.GridY, cfg.GridZ, cfg.Prob, cfg.Periodic = x, y, z, p, periodic
	return Generate(cfg, k.comm)
}

// GenerateBA grows a preferential-attachment graph where every vertex
// issues minDegree edges.
func (k *KaGen) GenerateBA(n, minDegree uint64, directed bool) (graph.Graph, error) {
	cfg := k.cfg
	cfg.Family = generator.FamilyBA
	cfg.N, cfg.MinDegree, cfg.Directed = n, minDegree, directed
	return Generate(cfg, k.comm)
}

// GenerateRHG samples n points on a hyperbolic disk with power-law
// exponent gamma and the given average degree.
func (k *KaGen) GenerateRHG(n uint64, gamma, avgDegree float64) (graph.Graph, error) {
	cfg := k.cfg
	cfg.Family = generator.FamilyRHG
	cfg.N, cfg.Gamma, cfg.AvgDegree = n, gamma, avgDegree
	return Generate(cfg, k.comm)
}

// GenerateKronecker samples m edges from the Graph500 Kronecker
// distribution over n vertices; n must be a power of two.
func (k *KaGen) GenerateKronecker(n, m uint64) (graph.Graph, error) {
	cfg := k.cfg
	cfg.Family = generator.FamilyKronecker
	cfg.N, cfg.M = n, m
	return Generate(cfg, k.comm)
}

// GenerateRMAT samples m edges by recursive quadrant descent with
// initiator probabilities a, b, c; n must be a power of two.
func (k *KaGen) GenerateRMAT(n, m uint64, a, b, c float64) (graph.Graph, error) {
	cfg := k.cfg
	cfg.Family = generator.FamilyRMAT
	cfg.N, cfg.M = n, m
	cfg.RMatA, cfg.RMatB, cfg.RMatC = a, b, c
	return Generate(cfg, k.comm)
}

// GenerateFromOptions parses the option-string mini-language on top of
// the accumulated settings and runs the pipeline.
func (k *KaGen) GenerateFromOptions(options string) (graph.Graph, error) {
	cfg, err := ApplyOptions(k.cfg, options)
	if err != nil {
		return graph.Graph{}, err
	}
	return Generate(cfg, k.comm)
}
