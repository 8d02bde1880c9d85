package generator

import "github.com/Shaip161/KaGen/pkg/graph"

// StatisticsLevel selects how much gets reported about a generated graph.
type StatisticsLevel int

const (
	StatsNone StatisticsLevel = iota
	StatsBasic
	StatsAdvanced
)

// Config carries every generator parameter as plain data. Callers fill in
// what they know, NormalizeParameters validates and completes the rest,
// and the kernels only ever read the normalized copy. Nothing in here is
// ambient state; the same struct is passed explicitly on every rank.
type Config struct {
	Family Family

	N uint64 // number of vertices
	M uint64 // number of edges, for families sampling a fixed count
	K uint64 // number of chunks; 0 picks the family default

	Prob      float64 // edge probability (GNP, GRID)
	Radius    float64 // connection radius (RGG)
	Gamma     float64 // power-law exponent (RHG)
	AvgDegree float64 // target average degree (RHG)
	MinDegree uint64  // edges issued per vertex (BA)
	GridX     uint64  // lattice extents (GRID)
	GridY     uint64
	GridZ     uint64
	RMatA     float64 // initiator matrix (RMAT, KRONECKER)
	RMatB     float64
	RMatC     float64

	Seed uint64

	Periodic    bool // wrap lattice neighborhoods at the boundary (GRID)
	SelfLoops   bool // keep self loops where the family can produce them
	Directed    bool // directed output (BA)
	Coordinates bool // record vertex coordinates (geometric families)

	// Consumed by the facade rather than the kernels.
	Representation     graph.Representation
	Quiet              bool
	Statistics         StatisticsLevel
	ValidateSimple     bool
	SkipPostprocessing bool

	OutputFile   string
	OutputFormat string
}
