package generator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFamily(t *testing.T) {
	cases := []struct {
		in   string
		want Family
	}{
		{"gnm_undirected", FamilyGNMUndirected},
		{"gnm", FamilyGNMUndirected},
		{"gnp", FamilyGNPUndirected},
		{"GNP_DIRECTED", FamilyGNPDirected},
		{"rgg-2d", FamilyRGG2D},
		{"rgg3d", FamilyRGG3D},
		{"grid_2d", FamilyGrid2D},
		{"ba", FamilyBA},
		{"rmat", FamilyRMAT},
		{"kronecker", FamilyKronecker},
		{"rhg", FamilyRHG},
		{"rdg2d", FamilyRDG2D},
	}
	for _, tc := range cases {
		got, err := ParseFamily(tc.in)
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, got, tc.in)
	}

	_, err := ParseFamily("smallworld")
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestNewFactoryDelaunayUnavailable(t *testing.T) {
	for _, fam := range []Family{FamilyRDG2D, FamilyRDG3D} {
		_, err := NewFactory(fam)
		require.ErrorIs(t, err, ErrConfiguration, fam.String())
	}
}

func TestEnsureSquareChunkSize(t *testing.T) {
	cfg := Config{K: 4}
	require.NoError(t, EnsureSquareChunkSize(&cfg, 4))
	require.Equal(t, uint64(4), cfg.K)

	cfg = Config{K: 3}
	require.ErrorIs(t, EnsureSquareChunkSize(&cfg, 3), ErrConfiguration)

	// Defaults: 2 ranks is a power of two, doubling gives a square.
	cfg = Config{}
	require.NoError(t, EnsureSquareChunkSize(&cfg, 2))
	require.Equal(t, uint64(4), cfg.K)

	// 3 ranks take the smallest square multiple.
	cfg = Config{}
	require.NoError(t, EnsureSquareChunkSize(&cfg, 3))
	require.Equal(t, uint64(9), cfg.K)

	// Fewer chunks than ranks cannot be assigned.
	cfg = Config{K: 4}
	require.ErrorIs(t, EnsureSquareChunkSize(&cfg, 5), ErrConfiguration)
}

func TestEnsureCubicChunkSize(t *testing.T) {
	cfg := Config{}
	require.NoError(t, EnsureCubicChunkSize(&cfg, 4))
	require.Equal(t, uint64(8), cfg.K)

	cfg = Config{K: 9}
	require.ErrorIs(t, EnsureCubicChunkSize(&cfg, 2), ErrConfiguration)
}

func TestEnsurePowerOfTwoChunkSize(t *testing.T) {
	cfg := Config{}
	require.NoError(t, EnsurePowerOfTwoChunkSize(&cfg, 3))
	require.Equal(t, uint64(4), cfg.K)

	cfg = Config{K: 6}
	require.ErrorIs(t, EnsurePowerOfTwoChunkSize(&cfg, 2), ErrConfiguration)
}

func TestEnsureOneChunkPerPE(t *testing.T) {
	cfg := Config{}
	require.NoError(t, EnsureOneChunkPerPE(&cfg, 4))
	require.Equal(t, uint64(4), cfg.K)

	cfg = Config{K: 5}
	require.ErrorIs(t, EnsureOneChunkPerPE(&cfg, 4), ErrConfiguration)
}

func TestNormalizeGNM(t *testing.T) {
	f, err := NewFactory(FamilyGNMUndirected)
	require.NoError(t, err)

	cfg, err := f.NormalizeParameters(Config{N: 8, M: 10}, 4)
	require.NoError(t, err)
	require.Equal(t, uint64(4), cfg.K)
	require.Equal(t, FamilyGNMUndirected, cfg.Family)

	// 3 vertices hold at most 3 undirected edges.
	_, err = f.NormalizeParameters(Config{N: 3, M: 4}, 1)
	require.ErrorIs(t, err, ErrConfiguration)

	fd, err := NewFactory(FamilyGNMDirected)
	require.NoError(t, err)
	_, err = fd.NormalizeParameters(Config{N: 3, M: 7}, 1)
	require.ErrorIs(t, err, ErrConfiguration)
	_, err = fd.NormalizeParameters(Config{N: 3, M: 6}, 1)
	require.NoError(t, err)
}

func TestNormalizeGNP(t *testing.T) {
	f, err := NewFactory(FamilyGNPDirected)
	require.NoError(t, err)

	_, err = f.NormalizeParameters(Config{N: 10, Prob: 1.5}, 2)
	require.ErrorIs(t, err, ErrConfiguration)

	cfg, err := f.NormalizeParameters(Config{N: 10, Prob: 0.5}, 2)
	require.NoError(t, err)
	require.Equal(t, uint64(2), cfg.K)
}

func TestNormalizeRGG(t *testing.T) {
	f, err := NewFactory(FamilyRGG2D)
	require.NoError(t, err)

	// Radius derived from the edge budget when absent.
	cfg, err := f.NormalizeParameters(Config{N: 1000, M: 8000}, 4)
	require.NoError(t, err)
	require.InDelta(t, 0.0714, cfg.Radius, 0.001)

	// A radius wider than a chunk breaks the neighborhood invariant.
	_, err = f.NormalizeParameters(Config{N: 100, Radius: 0.6, K: 4}, 4)
	require.ErrorIs(t, err, ErrConfiguration)

	_, err = f.NormalizeParameters(Config{N: 100}, 4)
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestNormalizeGrid(t *testing.T) {
	f, err := NewFactory(FamilyGrid2D)
	require.NoError(t, err)

	cfg, err := f.NormalizeParameters(Config{N: 9, Prob: 1}, 1)
	require.NoError(t, err)
	require.Equal(t, uint64(3), cfg.GridX)
	require.Equal(t, uint64(3), cfg.GridY)

	_, err = f.NormalizeParameters(Config{N: 10, Prob: 1}, 1)
	require.ErrorIs(t, err, ErrConfiguration)

	// Explicit extents override the vertex count.
	cfg, err = f.NormalizeParameters(Config{N: 1, GridX: 2, GridY: 3, Prob: 0.5}, 1)
	require.NoError(t, err)
	require.Equal(t, uint64(6), cfg.N)

	// Probability falls out of the edge budget.
	cfg, err = f.NormalizeParameters(Config{GridX: 4, GridY: 4, N: 16, M: 12}, 1)
	require.NoError(t, err)
	require.InDelta(t, 0.5, cfg.Prob, 1e-9)
}

func TestNormalizeRMAT(t *testing.T) {
	f, err := NewFactory(FamilyRMAT)
	require.NoError(t, err)

	_, err = f.NormalizeParameters(Config{N: 6, M: 10}, 2)
	require.ErrorIs(t, err, ErrConfiguration)

	_, err = f.NormalizeParameters(Config{N: 8}, 2)
	require.ErrorIs(t, err, ErrConfiguration)

	cfg, err := f.NormalizeParameters(Config{N: 8, M: 10}, 2)
	require.NoError(t, err)
	require.InDelta(t, 0.57, cfg.RMatA, 1e-9)
	require.InDelta(t, 0.19, cfg.RMatB, 1e-9)
	require.InDelta(t, 0.19, cfg.RMatC, 1e-9)

	_, err = f.NormalizeParameters(Config{N: 8, M: 10, RMatA: 0.8, RMatB: 0.2, RMatC: 0.2}, 2)
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestNormalizeRHG(t *testing.T) {
	f, err := NewFactory(FamilyRHG)
	require.NoError(t, err)

	_, err = f.NormalizeParameters(Config{N: 64, Gamma: 2, AvgDegree: 4}, 2)
	require.ErrorIs(t, err, ErrConfiguration)

	_, err = f.NormalizeParameters(Config{N: 64, Gamma: 3, AvgDegree: 0}, 2)
	require.ErrorIs(t, err, ErrConfiguration)

	_, err = f.NormalizeParameters(Config{N: 64, Gamma: 3, AvgDegree: 64}, 2)
	require.ErrorIs(t, err, ErrConfiguration)

	cfg, err := f.NormalizeParameters(Config{N: 64, Gamma: 3, AvgDegree: 8}, 3)
	require.NoError(t, err)
	require.Equal(t, uint64(4), cfg.K)
}

func TestNormalizeBA(t *testing.T) {
	f, err := NewFactory(FamilyBA)
	require.NoError(t, err)

	_, err = f.NormalizeParameters(Config{N: 16}, 2)
	require.ErrorIs(t, err, ErrConfiguration)

	cfg, err := f.NormalizeParameters(Config{N: 16, MinDegree: 2}, 2)
	require.NoError(t, err)
	require.Equal(t, uint64(2), cfg.K)
}

func TestNormalizeRejectsBadGroup(t *testing.T) {
	f, err := NewFactory(FamilyGNPDirected)
	require.NoError(t, err)

	_, err = f.NormalizeParameters(Config{N: 10, Prob: 0.1}, 0)
	require.ErrorIs(t, err, ErrConfiguration)

	_, err = f.NormalizeParameters(Config{Prob: 0.1}, 2)
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestCreateRankBounds(t *testing.T) {
	f, err := NewFactory(FamilyGNMDirected)
	require.NoError(t, err)
	cfg, err := f.NormalizeParameters(Config{N: 8, M: 4}, 2)
	require.NoError(t, err)

	_, err = f.Create(cfg, 2, 2)
	require.ErrorIs(t, err, ErrConfiguration)

	gen, err := f.Create(cfg, 1, 2)
	require.NoError(t, err)
	require.Equal(t, cfg, gen.Config())
}
