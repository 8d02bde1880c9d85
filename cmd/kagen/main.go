package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Shaip161/KaGen/pkg/chunks"
	"github.com/Shaip161/KaGen/pkg/comm"
	"github.com/Shaip161/KaGen/pkg/generator"
	"github.com/Shaip161/KaGen/pkg/graph"
	"github.com/Shaip161/KaGen/pkg/graphio"
	"github.com/Shaip161/KaGen/pkg/kagen"
	"github.com/Shaip161/KaGen/pkg/postprocess"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "kagen",
		Short: "Scalable communication-free random graph generation",
	}

	var generateConfig string

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a random graph across a local process group",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, generateConfig)
		},
	}

	registerGenerateFlags(generateCmd.Flags())
	generateCmd.Flags().StringVar(&generateConfig, "config", "", "YAML config file, flags override it")

	var (
		checkFormat     string
		checkProcs      int
		checkUndirected bool
		checkQuiet      bool
	)

	checkCmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a graph file and report defects",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(args[0], checkFormat, checkProcs, checkUndirected, checkQuiet)
		},
	}
	checkCmd.Flags().StringVar(&checkFormat, "format", "edgelist", "Input file format")
	checkCmd.Flags().IntVar(&checkProcs, "procs", 1, "Number of ranks in the local group")
	checkCmd.Flags().BoolVar(&checkUndirected, "undirected", false, "Require the reverse of every stored edge")
	checkCmd.Flags().BoolVar(&checkQuiet, "quiet", false, "Only log warnings")

	var (
		importOutput string
		importFormat string
		importBBox   string
		importQuiet  bool
	)

	importCmd := &cobra.Command{
		Use:   "import <file.osm.pbf>",
		Short: "Convert an OpenStreetMap road network into a graph file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(args[0], importOutput, importFormat, importBBox, importQuiet)
		},
	}
	importCmd.Flags().StringVar(&importOutput, "output", "", "Output graph file")
	importCmd.Flags().StringVar(&importFormat, "format", "edgelist", "Output file format")
	importCmd.Flags().StringVar(&importBBox, "bbox", "", "Bounding box filter minLat,minLon,maxLat,maxLon")
	importCmd.Flags().BoolVar(&importQuiet, "quiet", false, "Only log warnings")
	_ = importCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(generateCmd, checkCmd, importCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// registerGenerateFlags declares one flag per generator configuration
// field. The flag names double as viper keys for YAML presets.
func registerGenerateFlags(f *pflag.FlagSet) {
	f.String("type", "", "Graph family (gnm_undirected, gnp_directed, rgg2d, grid3d, ba, rhg, rmat, ...)")
	f.Uint64("n", 0, "Number of vertices")
	f.Uint64("m", 0, "Number of edges (GNM, RMAT, Kronecker)")
	f.Uint64("k", 0, "Number of chunks, 0 picks the family default")
	f.Float64("prob", 0, "Edge probability (GNP, GRID)")
	f.Float64("radius", 0, "Connection radius (RGG)")
	f.Float64("gamma", 0, "Power-law exponent (RHG)")
	f.Float64("avg-degree", 0, "Target average degree (RHG)")
	f.Uint64("min-degree", 0, "Edges issued per vertex (BA)")
	f.Uint64("grid-x", 0, "Lattice extent along x (GRID)")
	f.Uint64("grid-y", 0, "Lattice extent along y (GRID)")
	f.Uint64("grid-z", 0, "Lattice extent along z (GRID)")
	f.Float64("rmat-a", 0, "Initiator matrix entry a (RMAT, Kronecker)")
	f.Float64("rmat-b", 0, "Initiator matrix entry b (RMAT, Kronecker)")
	f.Float64("rmat-c", 0, "Initiator matrix entry c (RMAT, Kronecker)")
	f.Uint64("seed", 1, "Seed for the random streams")
	f.Bool("periodic", false, "Wrap lattice neighborhoods at the boundary (GRID)")
	f.Bool("self-loops", false, "Keep self loops where the family can produce them")
	f.Bool("directed", false, "Directed output (BA)")
	f.Bool("coordinates", false, "Record vertex coordinates (geometric families)")
	f.String("representation", "edgelist", "Output representation, edgelist or csr")
	f.String("stats", "none", "Statistics level, none, basic or advanced")
	f.Bool("validate", false, "Verify that the generated graph is simple")
	f.Bool("skip-postprocessing", false, "Keep the raw generator output")
	f.Bool("quiet", false, "Only log warnings")
	f.String("output", "", "Write the graph to this file")
	f.String("format", "edgelist", "Output file format")
	f.Int("procs", 1, "Number of ranks in the local group")
	f.String("options", "", "Option string overriding the flags (type=gnm_undirected;n=8;m=10)")
}

func runGenerate(cmd *cobra.Command, configPath string) error {
	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file: %w", err)
		}
	}
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	cfg, err := configFromViper(v)
	if err != nil {
		return err
	}

	options := v.GetString("options")
	switch {
	case options != "":
		if v.GetString("type") == "" {
			// Without --type the option string must name the family.
			if _, err := kagen.ParseOptions(options); err != nil {
				return err
			}
		}
		if cfg, err = kagen.ApplyOptions(cfg, options); err != nil {
			return err
		}
	case v.GetString("type") == "":
		return fmt.Errorf("%w: no graph family, pass --type or --options", generator.ErrConfiguration)
	}

	procs := v.GetInt("procs")
	if procs < 1 {
		return fmt.Errorf("%w: procs must be at least 1, got %d", generator.ErrConfiguration, procs)
	}

	var format graphio.Format
	if cfg.OutputFile != "" {
		if format, err = graphio.ParseFormat(cfg.OutputFormat); err != nil {
			return err
		}
	}

	start := time.Now()
	graphs, err := generateOnGroup(cfg, procs, format)
	if err != nil {
		return err
	}

	var total uint64
	for i := range graphs {
		total += graphs[i].NumberOfLocalEdges()
	}
	logger := newLogger(cfg.Quiet)
	event := logger.Info().
		Int("ranks", procs).
		Uint64("total_edges", total).
		Dur("elapsed", time.Since(start))
	if cfg.OutputFile != "" {
		event = event.Str("output", cfg.OutputFile).Str("format", format.String())
	}
	event.Msg("done")
	return nil
}

// configFromViper assembles a generator configuration from the merged
// flag and config-file settings. Changed flags win over file values,
// file values win over flag defaults.
func configFromViper(v *viper.Viper) (generator.Config, error) {
	cfg := generator.Config{
		N:         v.GetUint64("n"),
		M:         v.GetUint64("m"),
		K:         v.GetUint64("k"),
		Prob:      v.GetFloat64("prob"),
		Radius:    v.GetFloat64("radius"),
		Gamma:     v.GetFloat64("gamma"),
		AvgDegree: v.GetFloat64("avg-degree"),
		MinDegree: v.GetUint64("min-degree"),
		GridX:     v.GetUint64("grid-x"),
		GridY:     v.GetUint64("grid-y"),
		GridZ:     v.GetUint64("grid-z"),
		RMatA:     v.GetFloat64("rmat-a"),
		RMatB:     v.GetFloat64("rmat-b"),
		RMatC:     v.GetFloat64("rmat-c"),
		Seed:      v.GetUint64("seed"),

		Periodic:    v.GetBool("periodic"),
		SelfLoops:   v.GetBool("self-loops"),
		Directed:    v.GetBool("directed"),
		Coordinates: v.GetBool("coordinates"),

		Quiet:              v.GetBool("quiet"),
		ValidateSimple:     v.GetBool("validate"),
		SkipPostprocessing: v.GetBool("skip-postprocessing"),
		OutputFile:         v.GetString("output"),
		OutputFormat:       v.GetString("format"),
	}

	if s := v.GetString("type"); s != "" {
		fam, err := generator.ParseFamily(s)
		if err != nil {
			return cfg, err
		}
		cfg.Family = fam
	}
	var err error
	if cfg.Representation, err = kagen.ParseRepresentation(v.GetString("representation")); err != nil {
		return cfg, err
	}
	if cfg.Statistics, err = kagen.ParseStatisticsLevel(v.GetString("stats")); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// generateOnGroup runs the facade on every rank of a fresh local group
// and optionally writes the distributed graph. Facade errors are
// collective, so either every rank reaches the write or none does.
func generateOnGroup(cfg generator.Config, procs int, format graphio.Format) ([]graph.Graph, error) {
	group := comm.NewLocalGroup(procs)
	graphs := make([]graph.Graph, procs)
	errs := make([]error, procs)
	directed := !kagen.UndirectedOutput(cfg)

	var wg sync.WaitGroup
	for rank, c := range group {
		wg.Add(1)
		go func(rank int, c comm.Communicator) {
			defer wg.Done()
			g, err := kagen.Generate(cfg, c)
			if err != nil {
				errs[rank] = err
				return
			}
			graphs[rank] = g
			if cfg.OutputFile != "" {
				errs[rank] = graphio.Write(cfg.OutputFile, format, &graphs[rank], directed, c)
			}
		}(rank, c)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return graphs, nil
}

func runCheck(path, formatName string, procs int, undirected, quiet bool) error {
	logger := newLogger(quiet)

	format, err := graphio.ParseFormat(formatName)
	if err != nil {
		return err
	}
	if procs < 1 {
		return fmt.Errorf("%w: procs must be at least 1, got %d", generator.ErrConfiguration, procs)
	}

	var (
		n, m  uint64
		edges graph.Edgelist
	)
	switch format {
	case graphio.FormatBinaryEdgelist, graphio.FormatBinaryEdgelist32:
		n, m, edges, err = graphio.ReadBinaryEdgelist(path, format)
	default:
		n, m, edges, err = graphio.ReadEdgelist(path)
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	logger.Info().
		Str("file", path).
		Uint64("vertices", n).
		Uint64("header_edges", m).
		Int("stored_edges", len(edges)).
		Msg("graph loaded")

	ranges := make([]graph.VertexRange, procs)
	for r := range ranges {
		first, last := chunks.ComputeRange(n, procs, r)
		ranges[r] = graph.VertexRange{First: first, Last: last}
	}
	parts := make([]graph.Edgelist, procs)
	for _, e := range edges {
		owner := sort.Search(procs, func(i int) bool { return ranges[i].Last > e.Tail })
		if owner == procs {
			// Tails beyond the vertex count surface as locality defects.
			owner = procs - 1
		}
		parts[owner] = append(parts[owner], e)
	}

	group := comm.NewLocalGroup(procs)
	errs := make([]error, procs)
	var wg sync.WaitGroup
	for rank, c := range group {
		wg.Add(1)
		go func(rank int, c comm.Communicator) {
			defer wg.Done()
			g := graph.Graph{Vertices: ranges[rank], Edges: parts[rank]}
			errs[rank] = checkOnRank(&g, n, undirected, c)
		}(rank, c)
	}
	wg.Wait()

	for rank, err := range errs {
		if err != nil {
			return fmt.Errorf("rank %d: %w", rank, err)
		}
	}

	if procs == 1 {
		count, largest := graph.LocalComponents(ranges[0], parts[0])
		logger.Info().Uint64("components", count).Uint64("largest", largest).Msg("connectivity")
	}
	logger.Info().Msg("graph OK")
	return nil
}

func runImport(path, output, formatName, bbox string, quiet bool) error {
	logger := newLogger(quiet)

	format, err := graphio.ParseFormat(formatName)
	if err != nil {
		return err
	}
	var box graphio.BBox
	if bbox != "" {
		if _, err := fmt.Sscanf(bbox, "%f,%f,%f,%f", &box.MinLat, &box.MinLon, &box.MaxLat, &box.MaxLon); err != nil {
			return fmt.Errorf("%w: bbox wants minLat,minLon,maxLat,maxLon, got %q", generator.ErrConfiguration, bbox)
		}
	}

	start := time.Now()
	g, err := graphio.ReadOSM(context.Background(), path, box)
	if err != nil {
		return fmt.Errorf("importing %s: %w", path, err)
	}
	logger.Info().
		Uint64("vertices", g.Vertices.N()).
		Int("edges", len(g.Edges)).
		Msg("road network imported")

	// Road arcs already store each travel direction explicitly.
	c := comm.NewLocalGroup(1)[0]
	if err := graphio.Write(output, format, &g, true, c); err != nil {
		return err
	}

	info, err := os.Stat(output)
	if err != nil {
		return err
	}
	logger.Info().
		Str("output", output).
		Str("format", format.String()).
		Int64("bytes", info.Size()).
		Dur("elapsed", time.Since(start)).
		Msg("done")
	return nil
}

// checkOnRank runs the validation catalogue on one rank. Each check is
// all-or-none across the group, so every rank takes the same early exit.
func checkOnRank(g *graph.Graph, n uint64, undirected bool, c comm.Communicator) error {
	if err := postprocess.Apply(postprocess.ValidateRangesConsecutive, g, n, c); err != nil {
		return err
	}
	if err := postprocess.CheckSimple(g.Edges, g.Vertices, c); err != nil {
		return err
	}
	if undirected {
		return postprocess.Apply(postprocess.ValidateUndirected, g, n, c)
	}
	return nil
}

func newLogger(quiet bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if quiet {
		level = zerolog.WarnLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}
