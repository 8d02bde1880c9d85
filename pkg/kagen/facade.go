package kagen

import (
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/Shaip161/KaGen/pkg/comm"
	"github.com/Shaip161/KaGen/pkg/generator"
	"github.com/Shaip161/KaGen/pkg/graph"
	"github.com/Shaip161/KaGen/pkg/postprocess"
)

// Generate runs the full pipeline for one rank and returns its slice of
// the distributed graph: normalize, generate, finalize, then optional
// validation and statistics. Every rank of the group must call Generate
// with an identical configuration; the collectives behind finalization,
// validation and statistics otherwise deadlock.
func Generate(cfg generator.Config, c comm.Communicator) (graph.Graph, error) {
	logger := newLogger(cfg, c.Rank())

	factory, err := generator.NewFactory(cfg.Family)
	if err != nil {
		return graph.Graph{}, err
	}
	cfg, err = factory.NormalizeParameters(cfg, c.Size())
	if err != nil {
		return graph.Graph{}, err
	}
	gen, err := factory.Create(cfg, c.Rank(), c.Size())
	if err != nil {
		return graph.Graph{}, err
	}

	start := time.Now()
	logger.Info().
		Str("family", cfg.Family.String()).
		Uint64("n", cfg.N).
		Uint64("chunks", cfg.K).
		Int("ranks", c.Size()).
		Msg("generating graph")

	if err := gen.Generate(cfg.Representation); err != nil {
		return graph.Graph{}, err
	}
	generated := time.Since(start)

	if !cfg.SkipPostprocessing {
		finalizeStart := time.Now()
		edgesBefore := gen.GetNumberOfEdges()
		if err := gen.Finalize(c); err != nil {
			return graph.Graph{}, err
		}
		globalBefore := c.AllreduceSum(edgesBefore)
		globalAfter := c.AllreduceSum(gen.GetNumberOfEdges())
		logger.Debug().
			Uint64("edges_before", globalBefore).
			Uint64("edges_after", globalAfter).
			Dur("took", time.Since(finalizeStart)).
			Msg("finalized graph")
	}

	g := gen.Take()

	if cfg.ValidateSimple {
		if err := validate(&g, cfg, c); err != nil {
			return graph.Graph{}, err
		}
		logger.Debug().Msg("validation passed")
	}

	logger.Info().
		Uint64("local_edges", g.NumberOfLocalEdges()).
		Dur("generate", generated).
		Dur("total", time.Since(start)).
		Msg("graph ready")

	if cfg.Statistics >= generator.StatsBasic {
		logBasicStatistics(&g, c, logger)
	}
	if cfg.Statistics >= generator.StatsAdvanced {
		logDegreeStatistics(&g, c, logger)
	}
	return g, nil
}

// validate runs the simple-graph checks on the freshly generated slice.
// CSR output is expanded to a throwaway edge list first so both
// representations flow through the same checks.
func validate(g *graph.Graph, cfg generator.Config, c comm.Communicator) error {
	edges := g.Edges
	if edges == nil && g.Xadj != nil {
		var err error
		edges, err = graph.BuildEdgeList(g.Vertices, g.Xadj, g.Adjncy)
		if err != nil {
			return err
		}
	}
	if err := postprocess.CheckSimple(edges, g.Vertices, c); err != nil {
		return err
	}
	if UndirectedOutput(cfg) {
		return postprocess.CheckUndirected(edges, g.Vertices, c)
	}
	return nil
}

// UndirectedOutput reports whether the configuration produces a graph
// storing both directions of every edge. Writers use it to emit each
// undirected edge once.
func UndirectedOutput(cfg generator.Config) bool {
	switch cfg.Family {
	case generator.FamilyGNMUndirected, generator.FamilyGNPUndirected,
		generator.FamilyRGG2D, generator.FamilyRGG3D,
		generator.FamilyGrid2D, generator.FamilyGrid3D,
		generator.FamilyRHG:
		return true
	case generator.FamilyBA:
		return !cfg.Directed
	}
	return false
}

// newLogger builds the facade logger. Only rank 0 prints; the remaining
// ranks would repeat the same global numbers.
func newLogger(cfg generator.Config, rank int) zerolog.Logger {
	if rank != 0 {
		return zerolog.Nop()
	}
	level := zerolog.InfoLevel
	if cfg.Quiet {
		level = zerolog.WarnLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}
