package generator

import (
	"fmt"
	"math"
	"strings"

	"github.com/Shaip161/KaGen/pkg/chunks"
)

// Family enumerates the graph families this build can generate. The set
// is closed: kernels are selected by tag, never by registering new types.
type Family int

const (
	FamilyGNMDirected Family = iota
	FamilyGNMUndirected
	FamilyGNPDirected
	FamilyGNPUndirected
	FamilyRGG2D
	FamilyRGG3D
	FamilyRDG2D
	FamilyRDG3D
	FamilyGrid2D
	FamilyGrid3D
	FamilyBA
	FamilyKronecker
	FamilyRMAT
	FamilyRHG
)

func (f Family) String() string {
	switch f {
	case FamilyGNMDirected:
		return "gnm_directed"
	case FamilyGNMUndirected:
		return "gnm_undirected"
	case FamilyGNPDirected:
		return "gnp_directed"
	case FamilyGNPUndirected:
		return "gnp_undirected"
	case FamilyRGG2D:
		return "rgg2d"
	case FamilyRGG3D:
		return "rgg3d"
	case FamilyRDG2D:
		return "rdg2d"
	case FamilyRDG3D:
		return "rdg3d"
	case FamilyGrid2D:
		return "grid2d"
	case FamilyGrid3D:
		return "grid3d"
	case FamilyBA:
		return "ba"
	case FamilyKronecker:
		return "kronecker"
	case FamilyRMAT:
		return "rmat"
	case FamilyRHG:
		return "rhg"
	default:
		return fmt.Sprintf("family(%d)", int(f))
	}
}

// ParseFamily resolves a family name. Underscores and hyphens are
// interchangeable.
func ParseFamily(s string) (Family, error) {
	switch strings.ReplaceAll(strings.ToLower(s), "-", "_") {
	case "gnm_directed":
		return FamilyGNMDirected, nil
	case "gnm_undirected", "gnm":
		return FamilyGNMUndirected, nil
	case "gnp_directed":
		return FamilyGNPDirected, nil
	case "gnp_undirected", "gnp":
		return FamilyGNPUndirected, nil
	case "rgg2d", "rgg_2d":
		return FamilyRGG2D, nil
	case "rgg3d", "rgg_3d":
		return FamilyRGG3D, nil
	case "rdg2d", "rdg_2d":
		return FamilyRDG2D, nil
	case "rdg3d", "rdg_3d":
		return FamilyRDG3D, nil
	case "grid2d", "grid_2d":
		return FamilyGrid2D, nil
	case "grid3d", "grid_3d":
		return FamilyGrid3D, nil
	case "ba":
		return FamilyBA, nil
	case "kronecker":
		return FamilyKronecker, nil
	case "rmat":
		return FamilyRMAT, nil
	case "rhg":
		return FamilyRHG, nil
	default:
		return 0, fmt.Errorf("%w: unknown generator family %q", ErrConfiguration, s)
	}
}

// Factory validates configurations and constructs generators for one
// family.
type Factory struct {
	family Family
}

// NewFactory returns the factory for a family. Families this build cannot
// provide yield a configuration error.
func NewFactory(f Family) (*Factory, error) {
	switch f {
	case FamilyRDG2D, FamilyRDG3D:
		return nil, fmt.Errorf("%w: %s requires a computational geometry backend this build does not include", ErrConfiguration, f)
	case FamilyGNMDirected, FamilyGNMUndirected, FamilyGNPDirected, FamilyGNPUndirected,
		FamilyRGG2D, FamilyRGG3D, FamilyGrid2D, FamilyGrid3D,
		FamilyBA, FamilyKronecker, FamilyRMAT, FamilyRHG:
		return &Factory{family: f}, nil
	default:
		return nil, fmt.Errorf("%w: unknown generator family %d", ErrConfiguration, int(f))
	}
}

// Family returns the family this factory builds.
func (f *Factory) Family() Family { return f.family }

// NormalizeParameters fills family defaults, enforces the family's chunk
// and parameter constraints, and returns the normalized copy that Create
// and the kernels consume. Deterministic: all ranks must pass identical
// input and obtain identical output. No communication happens here.
func (f *Factory) NormalizeParameters(cfg Config, size int) (Config, error) {
	cfg.Family = f.family
	if size <= 0 {
		return cfg, fmt.Errorf("%w: communicator size %d must be positive", ErrConfiguration, size)
	}
	if cfg.N == 0 {
		return cfg, fmt.Errorf("%w: number of vertices must be positive", ErrConfiguration)
	}

	switch f.family {
	case FamilyGNMDirected, FamilyGNMUndirected:
		if err := EnsureDefaultChunkSize(&cfg, size); err != nil {
			return cfg, err
		}
		directed := f.family == FamilyGNMDirected
		if cap := pairCapacity(cfg.N, directed, cfg.SelfLoops); cfg.M > cap {
			return cfg, fmt.Errorf("%w: %d edges exceed the capacity %d of %d vertices", ErrConfiguration, cfg.M, cap, cfg.N)
		}

	case FamilyGNPDirected, FamilyGNPUndirected:
		if err := EnsureDefaultChunkSize(&cfg, size); err != nil {
			return cfg, err
		}
		if cfg.Prob < 0 || cfg.Prob > 1 {
			return cfg, fmt.Errorf("%w: edge probability %g must lie in [0, 1]", ErrConfiguration, cfg.Prob)
		}

	case FamilyRGG2D:
		if err := EnsureSquareChunkSize(&cfg, size); err != nil {
			return cfg, err
		}
		if cfg.Radius == 0 && cfg.M > 0 {
			n := float64(cfg.N)
			cfg.Radius = math.Sqrt(2 * float64(cfg.M) / (math.Pi * n * n))
		}
		if cfg.Radius <= 0 {
			return cfg, fmt.Errorf("%w: connection radius must be positive", ErrConfiguration)
		}
		if width := 1 / float64(chunks.Isqrt(cfg.K)); cfg.Radius > width {
			return cfg, fmt.Errorf("%w: connection radius %g exceeds the chunk width %g; use fewer chunks", ErrConfiguration, cfg.Radius, width)
		}

	case FamilyRGG3D:
		if err := EnsureCubicChunkSize(&cfg, size); err != nil {
			return cfg, err
		}
		if cfg.Radius == 0 && cfg.M > 0 {
			n := float64(cfg.N)
			cfg.Radius = math.Cbrt(3 * float64(cfg.M) / (2 * math.Pi * n * n))
		}
		if cfg.Radius <= 0 {
			return cfg, fmt.Errorf("%w: connection radius must be positive", ErrConfiguration)
		}
		if width := 1 / float64(chunks.Icbrt(cfg.K)); cfg.Radius > width {
			return cfg, fmt.Errorf("%w: connection radius %g exceeds the chunk width %g; use fewer chunks", ErrConfiguration, cfg.Radius, width)
		}

	case FamilyGrid2D:
		if err := EnsureSquareChunkSize(&cfg, size); err != nil {
			return cfg, err
		}
		if cfg.GridX == 0 || cfg.GridY == 0 {
			side := chunks.Isqrt(cfg.N)
			if side*side != cfg.N {
				return cfg, fmt.Errorf("%w: %d vertices do not form a square lattice; give explicit extents", ErrConfiguration, cfg.N)
			}
			cfg.GridX, cfg.GridY = side, side
		}
		cfg.N = cfg.GridX * cfg.GridY
		if err := normalizeGridProb(&cfg, maxGridEdges2D(cfg)); err != nil {
			return cfg, err
		}

	case FamilyGrid3D:
		if err := EnsureCubicChunkSize(&cfg, size); err != nil {
			return cfg, err
		}
		if cfg.GridX == 0 || cfg.GridY == 0 || cfg.GridZ == 0 {
			side := chunks.Icbrt(cfg.N)
			if side*side*side != cfg.N {
				return cfg, fmt.Errorf("%w: %d vertices do not form a cubic lattice; give explicit extents", ErrConfiguration, cfg.N)
			}
			cfg.GridX, cfg.GridY, cfg.GridZ = side, side, side
		}
		cfg.N = cfg.GridX * cfg.GridY * cfg.GridZ
		if err := normalizeGridProb(&cfg, maxGridEdges3D(cfg)); err != nil {
			return cfg, err
		}

	case FamilyBA:
		if err := EnsureOneChunkPerPE(&cfg, size); err != nil {
			return cfg, err
		}
		if cfg.MinDegree == 0 {
			return cfg, fmt.Errorf("%w: minimum degree must be positive", ErrConfiguration)
		}

	case FamilyKronecker, FamilyRMAT:
		if err := EnsureOneChunkPerPE(&cfg, size); err != nil {
			return cfg, err
		}
		if cfg.N < 2 || !chunks.IsPowerOfTwo(cfg.N) {
			return cfg, fmt.Errorf("%w: number of vertices %d must be a power of two and at least 2", ErrConfiguration, cfg.N)
		}
		if cfg.M == 0 {
			return cfg, fmt.Errorf("%w: number of edges must be positive", ErrConfiguration)
		}
		if cfg.RMatA == 0 && cfg.RMatB == 0 && cfg.RMatC == 0 {
			cfg.RMatA, cfg.RMatB, cfg.RMatC = 0.57, 0.19, 0.19
		}
		if cfg.RMatA < 0 || cfg.RMatB < 0 || cfg.RMatC < 0 || cfg.RMatA+cfg.RMatB+cfg.RMatC > 1 {
			return cfg, fmt.Errorf("%w: initiator probabilities (%g, %g, %g) must be nonnegative and sum to at most 1", ErrConfiguration, cfg.RMatA, cfg.RMatB, cfg.RMatC)
		}

	case FamilyRHG:
		if err := EnsurePowerOfTwoChunkSize(&cfg, size); err != nil {
			return cfg, err
		}
		if cfg.Gamma <= 2 {
			return cfg, fmt.Errorf("%w: power-law exponent %g must exceed 2", ErrConfiguration, cfg.Gamma)
		}
		if cfg.AvgDegree <= 0 || cfg.AvgDegree >= float64(cfg.N) {
			return cfg, fmt.Errorf("%w: average degree %g must lie in (0, n)", ErrConfiguration, cfg.AvgDegree)
		}

	default:
		return cfg, fmt.Errorf("%w: family %s cannot be normalized", ErrConfiguration, f.family)
	}
	return cfg, nil
}

// Create builds the rank-local generator for a configuration that went
// through NormalizeParameters. Pure construction: no randomness, no
// communication.
func (f *Factory) Create(cfg Config, rank, size int) (*Generator, error) {
	if rank < 0 || rank >= size {
		return nil, fmt.Errorf("%w: rank %d outside communicator of size %d", ErrConfiguration, rank, size)
	}
	var impl kernel
	switch f.family {
	case FamilyGNMDirected:
		impl = &gnmKernel{directed: true}
	case FamilyGNMUndirected:
		impl = &gnmKernel{}
	case FamilyGNPDirected:
		impl = &gnpKernel{directed: true}
	case FamilyGNPUndirected:
		impl = &gnpKernel{}
	case FamilyRGG2D:
		impl = &rggKernel{}
	case FamilyRGG3D:
		impl = &rggKernel{threeD: true}
	case FamilyGrid2D:
		impl = &gridKernel{}
	case FamilyGrid3D:
		impl = &gridKernel{threeD: true}
	case FamilyBA:
		impl = &baKernel{}
	case FamilyKronecker:
		impl = &rmatKernel{kronecker: true}
	case FamilyRMAT:
		impl = &rmatKernel{}
	case FamilyRHG:
		impl = &rhgKernel{}
	default:
		return nil, fmt.Errorf("%w: family %s has no kernel", ErrConfiguration, f.family)
	}
	return &Generator{config: cfg, rank: rank, size: size, impl: impl}, nil
}

// EnsureDefaultChunkSize applies the unconstrained chunk default: one
// chunk per rank, and never fewer chunks than ranks.
func EnsureDefaultChunkSize(cfg *Config, size int) error {
	if cfg.K == 0 {
		cfg.K = uint64(size)
	}
	if cfg.K < uint64(size) {
		return fmt.Errorf("%w: %d chunks cannot cover %d ranks", ErrConfiguration, cfg.K, size)
	}
	return nil
}

// EnsureSquareChunkSize enforces a perfect-square chunk count, defaulting
// to the smallest square compatible with the rank count.
func EnsureSquareChunkSize(cfg *Config, size int) error {
	if cfg.K == 0 {
		cfg.K = chunks.SquareCountFor(size)
	}
	if !chunks.IsSquare(cfg.K) {
		return fmt.Errorf("%w: chunk count %d is not a perfect square", ErrConfiguration, cfg.K)
	}
	if cfg.K < uint64(size) {
		return fmt.Errorf("%w: %d chunks cannot cover %d ranks", ErrConfiguration, cfg.K, size)
	}
	return nil
}

// EnsureCubicChunkSize enforces a perfect-cube chunk count, defaulting to
// the smallest cube compatible with the rank count.
func EnsureCubicChunkSize(cfg *Config, size int) error {
	if cfg.K == 0 {
		cfg.K = chunks.CubeCountFor(size)
	}
	if !chunks.IsCube(cfg.K) {
		return fmt.Errorf("%w: chunk count %d is not a perfect cube", ErrConfiguration, cfg.K)
	}
	if cfg.K < uint64(size) {
		return fmt.Errorf("%w: %d chunks cannot cover %d ranks", ErrConfiguration, cfg.K, size)
	}
	return nil
}

// EnsurePowerOfTwoChunkSize enforces a power-of-two chunk count,
// defaulting to the smallest power of two covering the rank count.
func EnsurePowerOfTwoChunkSize(cfg *Config, size int) error {
	if cfg.K == 0 {
		cfg.K = chunks.PowerOfTwoCountFor(size)
	}
	if !chunks.IsPowerOfTwo(cfg.K) {
		return fmt.Errorf("%w: chunk count %d is not a power of two", ErrConfiguration, cfg.K)
	}
	if cfg.K < uint64(size) {
		return fmt.Errorf("%w: %d chunks cannot cover %d ranks", ErrConfiguration, cfg.K, size)
	}
	return nil
}

// EnsureOneChunkPerPE pins the chunk count to the rank count, for
// families that sample per rank rather than per chunk.
func EnsureOneChunkPerPE(cfg *Config, size int) error {
	if cfg.K == 0 {
		cfg.K = uint64(size)
	}
	if cfg.K != uint64(size) {
		return fmt.Errorf("%w: chunk count %d must equal the communicator size %d", ErrConfiguration, cfg.K, size)
	}
	return nil
}

// pairCapacity returns how many distinct edges n vertices can host,
// saturating instead of overflowing for very large n.
func pairCapacity(n uint64, directed, selfLoops bool) uint64 {
	if n > 1<<32 {
		return math.MaxUint64
	}
	if directed {
		if selfLoops {
			return n * n
		}
		return n * (n - 1)
	}
	if selfLoops {
		return n * (n + 1) / 2
	}
	return n * (n - 1) / 2
}

// normalizeGridProb derives the lattice retention probability from an
// edge budget when necessary and bounds it.
func normalizeGridProb(cfg *Config, maxEdges uint64) error {
	if cfg.Prob == 0 && cfg.M > 0 {
		if maxEdges == 0 {
			return fmt.Errorf("%w: lattice has no edges to retain", ErrConfiguration)
		}
		cfg.Prob = float64(cfg.M) / float64(maxEdges)
	}
	if cfg.Prob < 0 || cfg.Prob > 1 {
		return fmt.Errorf("%w: edge probability %g must lie in [0, 1]", ErrConfiguration, cfg.Prob)
	}
	return nil
}

// maxGridEdges2D counts the undirected edges of the full 2-D lattice.
func maxGridEdges2D(cfg Config) uint64 {
	x, y := cfg.GridX, cfg.GridY
	if cfg.Periodic {
		return 2 * x * y
	}
	return x*(y-1) + y*(x-1)
}

// maxGridEdges3D counts the undirected edges of the full 3-D lattice.
func maxGridEdges3D(cfg Config) uint64 {
	x, y, z := cfg.GridX, cfg.GridY, cfg.GridZ
	if cfg.Periodic {
		return 3 * x * y * z
	}
	return x*y*(z-1) + x*z*(y-1) + y*z*(x-1)
}
