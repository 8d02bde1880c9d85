package kagen

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/Shaip161/KaGen/pkg/comm"
	"github.com/Shaip161/KaGen/pkg/graph"
)

// BasicStatistics summarizes a distributed graph: global counts plus the
// spread of per-rank edge counts.
type BasicStatistics struct {
	GlobalN uint64
	GlobalM uint64

	MinLocalM  uint64
	MeanLocalM float64
	MaxLocalM  uint64
}

// CollectBasic gathers basic statistics. Collective: every rank must call
// it, and every rank receives the same result.
func CollectBasic(g *graph.Graph, c comm.Communicator) BasicStatistics {
	counts := c.AllgatherUint64(g.NumberOfLocalEdges())

	st := BasicStatistics{
		GlobalN:   c.AllreduceMax(g.Vertices.Last),
		MinLocalM: math.MaxUint64,
	}
	var total uint64
	for _, m := range counts {
		total += m
		if m < st.MinLocalM {
			st.MinLocalM = m
		}
		if m > st.MaxLocalM {
			st.MaxLocalM = m
		}
	}
	st.GlobalM = total
	st.MeanLocalM = float64(total) / float64(len(counts))
	return st
}

// DegreeStatistics summarizes the degree distribution. Degrees count the
// stored entries per tail, so on undirected graphs, which carry both
// directions, this is the full degree.
type DegreeStatistics struct {
	MinDegree  uint64
	MeanDegree float64
	MaxDegree  uint64
	Isolated   uint64
}

// CollectDegrees computes the degree summary across all ranks. Collective
// like CollectBasic.
func CollectDegrees(g *graph.Graph, c comm.Communicator) DegreeStatistics {
	degrees := localDegrees(g)

	localMin := uint64(math.MaxUint64)
	var localMax, localSum, localIsolated uint64
	for _, d := range degrees {
		if d < localMin {
			localMin = d
		}
		if d > localMax {
			localMax = d
		}
		localSum += d
		if d == 0 {
			localIsolated++
		}
	}

	// No min reduction on the communicator; gather and fold instead.
	st := DegreeStatistics{MinDegree: math.MaxUint64}
	for _, m := range c.AllgatherUint64(localMin) {
		if m < st.MinDegree {
			st.MinDegree = m
		}
	}
	if st.MinDegree == math.MaxUint64 {
		st.MinDegree = 0
	}
	st.MaxDegree = c.AllreduceMax(localMax)
	st.Isolated = c.AllreduceSum(localIsolated)

	globalSum := c.AllreduceSum(localSum)
	if globalN := c.AllreduceMax(g.Vertices.Last); globalN > 0 {
		st.MeanDegree = float64(globalSum) / float64(globalN)
	}
	return st
}

// localDegrees counts stored entries per owned vertex, from whichever
// representation is populated.
func localDegrees(g *graph.Graph) []uint64 {
	degrees := make([]uint64, g.Vertices.N())
	if g.Xadj != nil {
		for i := range degrees {
			degrees[i] = g.Xadj[i+1] - g.Xadj[i]
		}
		return degrees
	}
	for _, e := range g.Edges {
		degrees[e.Tail-g.Vertices.First]++
	}
	return degrees
}

func logBasicStatistics(g *graph.Graph, c comm.Communicator, logger zerolog.Logger) {
	st := CollectBasic(g, c)
	logger.Info().
		Uint64("global_n", st.GlobalN).
		Uint64("global_m", st.GlobalM).
		Uint64("min_local_m", st.MinLocalM).
		Float64("mean_local_m", st.MeanLocalM).
		Uint64("max_local_m", st.MaxLocalM).
		Msg("basic statistics")
}

func logDegreeStatistics(g *graph.Graph, c comm.Communicator, logger zerolog.Logger) {
	st := CollectDegrees(g, c)
	logger.Info().
		Uint64("min_degree", st.MinDegree).
		Float64("mean_degree", st.MeanDegree).
		Uint64("max_degree", st.MaxDegree).
		Uint64("isolated_vertices", st.Isolated).
		Msg("degree statistics")
}
