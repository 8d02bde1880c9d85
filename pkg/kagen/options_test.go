package kagen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Shaip161/KaGen/pkg/generator"
	"github.com/Shaip161/KaGen/pkg/graph"
)

func TestParseOptions(t *testing.T) {
	cfg, err := ParseOptions("type=gnm_undirected;n=1000;m=4000;self_loops;seed=7")
	require.NoError(t, err)
	require.Equal(t, generator.FamilyGNMUndirected, cfg.Family)
	require.Equal(t, uint64(1000), cfg.N)
	require.Equal(t, uint64(4000), cfg.M)
	require.True(t, cfg.SelfLoops)
	require.Equal(t, uint64(7), cfg.Seed)
	require.Equal(t, graph.RepEdgeList, cfg.Representation)
}

func TestParseOptionsLog2Exponents(t *testing.T) {
	cfg, err := ParseOptions("type=rmat;N=10;M=14")
	require.NoError(t, err)
	require.Equal(t, uint64(1024), cfg.N)
	require.Equal(t, uint64(16384), cfg.M)
}

func TestParseOptionsDirectCountWins(t *testing.T) {
	for _, options := range []string{
		"type=gnm;n=100;N=10",
		"type=gnm;N=10;n=100",
	} {
		cfg, err := ParseOptions(options)
		require.NoError(t, err, options)
		require.Equal(t, uint64(100), cfg.N, options)
	}
}

func TestParseOptionsFamilyAliases(t *testing.T) {
	for options, want := range map[string]generator.Family{
		"type=gnm":            generator.FamilyGNMUndirected,
		"type=gnp":            generator.FamilyGNPUndirected,
		"type=gnm-undirected": generator.FamilyGNMUndirected,
		"type=rgg_2d":         generator.FamilyRGG2D,
		"type=rgg3d":          generator.FamilyRGG3D,
	} {
		cfg, err := ParseOptions(options)
		require.NoError(t, err, options)
		require.Equal(t, want, cfg.Family, options)
	}
}

func TestParseOptionsGridWithBareFlag(t *testing.T) {
	cfg, err := ParseOptions("type=grid2d;x=4;y=3;p=0.5;periodic")
	require.NoError(t, err)
	require.Equal(t, uint64(4), cfg.GridX)
	require.Equal(t, uint64(3), cfg.GridY)
	require.InDelta(t, 0.5, cfg.Prob, 1e-12)
	require.True(t, cfg.Periodic)

	cfg, err = ParseOptions("type=grid2d;x=4;y=3;periodic=false")
	require.NoError(t, err)
	require.False(t, cfg.Periodic)
}

func TestParseOptionsRepresentationAndStats(t *testing.T) {
	cfg, err := ParseOptions("type=gnm;n=8;m=4;rep=csr;stats=advanced;quiet;validate")
	require.NoError(t, err)
	require.Equal(t, graph.RepCSR, cfg.Representation)
	require.Equal(t, generator.StatsAdvanced, cfg.Statistics)
	require.True(t, cfg.Quiet)
	require.True(t, cfg.ValidateSimple)
}

func TestParseOptionsRHG(t *testing.T) {
	cfg, err := ParseOptions("type=rhg;N=10;gamma=2.6;d=8;coordinates")
	require.NoError(t, err)
	require.Equal(t, uint64(1024), cfg.N)
	require.InDelta(t, 2.6, cfg.Gamma, 1e-12)
	require.InDelta(t, 8, cfg.AvgDegree, 1e-12)
	require.True(t, cfg.Coordinates)
}

func TestParseOptionsTolerantSpacing(t *testing.T) {
	cfg, err := ParseOptions(" type = gnm ; n = 8 ;; m=4 ")
	require.NoError(t, err)
	require.Equal(t, generator.FamilyGNMUndirected, cfg.Family)
	require.Equal(t, uint64(8), cfg.N)
	require.Equal(t, uint64(4), cfg.M)
}

func TestParseOptionsErrors(t *testing.T) {
	for _, options := range []string{
		"n=100",                // missing type
		"type=zzz",             // unknown family
		"type=gnm;foo=1",       // unknown key
		"type=gnm;frobnicate",  // unknown flag
		"type=gnm;n=abc",       // not a number
		"type=gnm;N=64",        // exponent out of range
		"type=gnm;periodic=no", // not a boolean
		"type=gnm;rep=matrix",  // unknown representation
		"type=gnm;stats=all",   // unknown level
	} {
		_, err := ParseOptions(options)
		require.ErrorIs(t, err, generator.ErrConfiguration, options)
	}
}

func TestApplyOptionsLayersOverBase(t *testing.T) {
	base := generator.Config{
		Family: generator.FamilyRHG,
		N:      512,
		Gamma:  3,
		Quiet:  true,
		Seed:   1,
	}
	cfg, err := ApplyOptions(base, "seed=9;validate")
	require.NoError(t, err)
	require.Equal(t, generator.FamilyRHG, cfg.Family)
	require.Equal(t, uint64(512), cfg.N)
	require.Equal(t, uint64(9), cfg.Seed)
	require.True(t, cfg.Quiet)
	require.True(t, cfg.ValidateSimple)
}
