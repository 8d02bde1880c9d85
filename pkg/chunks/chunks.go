// Package chunks implements the work decomposition shared by all
// generators: k chunks assigned contiguously to ranks, row-major chunk
// grids for the geometric families, and deterministic splitting of item
// counts over chunks so any rank can recompute any chunk's share without
// communication.
package chunks

import (
	"math"
	"sort"

	"github.com/Shaip161/KaGen/pkg/rng"
)

// RangeForRank returns the first chunk and chunk count owned by rank.
// Chunks are dealt contiguously, k/size each, with the k%size leftover
// chunks going to the lowest ranks.
func RangeForRank(k uint64, rank, size int) (first, count uint64) {
	per := k / uint64(size)
	leftover := k % uint64(size)
	r := uint64(rank)
	if r < leftover {
		return r * (per + 1), per + 1
	}
	return leftover*(per+1) + (r-leftover)*per, per
}

// OwnerOfChunk is the inverse of RangeForRank.
func OwnerOfChunk(chunk, k uint64, size int) int {
	per := k / uint64(size)
	leftover := k % uint64(size)
	boundary := leftover * (per + 1)
	if chunk < boundary {
		return int(chunk / (per + 1))
	}
	return int(leftover + (chunk-boundary)/per)
}

// ComputeRange splits n items into size balanced contiguous ranges and
// returns the half-open range of the given rank. The n%size remainder
// goes to the lowest ranks.
func ComputeRange(n uint64, size, rank int) (first, last uint64) {
	per := n / uint64(size)
	rem := n % uint64(size)
	r := uint64(rank)
	first = r * per
	if r < rem {
		first += r
	} else {
		first += rem
	}
	last = first + per
	if r < rem {
		last++
	}
	return first, last
}

// Encode2D maps grid coordinates to a row-major chunk ID.
func Encode2D(x, y, width uint64) uint64 { return y*width + x }

// Decode2D is the inverse of Encode2D.
func Decode2D(id, width uint64) (x, y uint64) { return id % width, id / width }

// Encode3D maps grid coordinates to a row-major chunk ID, x fastest.
func Encode3D(x, y, z, width, height uint64) uint64 { return (z*height+y)*width + x }

// Decode3D is the inverse of Encode3D.
func Decode3D(id, width, height uint64) (x, y, z uint64) {
	x = id % width
	y = (id / width) % height
	z = id / (width * height)
	return
}

// WrapCoord maps a possibly out-of-range grid coordinate onto [0, dim),
// wrapping when periodic. ok is false outside a non-periodic grid.
func WrapCoord(c int64, dim uint64, periodic bool) (uint64, bool) {
	if c >= 0 && uint64(c) < dim {
		return uint64(c), true
	}
	if !periodic {
		return 0, false
	}
	m := int64(dim)
	return uint64(((c % m) + m) % m), true
}

// Isqrt returns the integer square root of v.
func Isqrt(v uint64) uint64 {
	r := uint64(math.Sqrt(float64(v)))
	for r > 0 && r*r > v {
		r--
	}
	for (r+1)*(r+1) <= v {
		r++
	}
	return r
}

// Icbrt returns the integer cube root of v.
func Icbrt(v uint64) uint64 {
	r := uint64(math.Cbrt(float64(v)))
	for r > 0 && r*r*r > v {
		r--
	}
	for (r+1)*(r+1)*(r+1) <= v {
		r++
	}
	return r
}

// IsSquare reports whether v is a perfect square.
func IsSquare(v uint64) bool { r := Isqrt(v); return r*r == v }

// IsCube reports whether v is a perfect cube.
func IsCube(v uint64) bool { r := Icbrt(v); return r*r*r == v }

// IsPowerOfTwo reports whether v is a power of two.
func IsPowerOfTwo(v uint64) bool { return v > 0 && v&(v-1) == 0 }

// SquareCountFor picks a default square chunk count for a group of the
// given size: the size itself when square, twice the size for powers of
// two (2^odd doubles to 2^even), otherwise the smallest square multiple.
func SquareCountFor(size int) uint64 {
	s := uint64(size)
	if IsSquare(s) {
		return s
	}
	if IsPowerOfTwo(s) {
		return 2 * s
	}
	for m := s; ; m += s {
		if IsSquare(m) {
			return m
		}
	}
}

// CubeCountFor is the cubic analogue of SquareCountFor.
func CubeCountFor(size int) uint64 {
	s := uint64(size)
	if IsCube(s) {
		return s
	}
	if IsPowerOfTwo(s) {
		if IsCube(2 * s) {
			return 2 * s
		}
		return 4 * s
	}
	for m := s; ; m += s {
		if IsCube(m) {
			return m
		}
	}
}

// PowerOfTwoCountFor returns the smallest power of two >= size.
func PowerOfTwoCountFor(size int) uint64 {
	p := uint64(1)
	for p < uint64(size) {
		p <<= 1
	}
	return p
}

// SplitUniform distributes n items over k chunks by halving the chunk
// window and drawing a binomial variate for the left half at every level,
// keyed by (seed, level, window start). It returns chunk index's item
// count and the number of items in all lower chunks. Any rank computes
// any chunk's split in O(log k) without communication.
func SplitUniform(seed, n, k, index uint64) (count, offset uint64) {
	lo := uint64(0)
	nn := n
	level := uint64(0)
	for kk := k; kk > 1; level++ {
		midk := (kk + 1) / 2
		v := rng.Binomial(nn, float64(midk)/float64(kk), seed, level, lo)
		if index < lo+midk {
			kk = midk
			nn = v
		} else {
			offset += v
			nn -= v
			lo += midk
			kk -= midk
		}
	}
	return nn, offset
}

// OffsetsUniform materializes the k+1 boundary offsets of SplitUniform,
// so offsets[i] is the first item of chunk i and offsets[k] == n.
func OffsetsUniform(seed, n, k uint64) []uint64 {
	offsets := make([]uint64, k+1)
	for i := uint64(0); i < k; i++ {
		_, off := SplitUniform(seed, n, k, i)
		offsets[i] = off
	}
	offsets[k] = n
	return offsets
}

// FindChunk returns the chunk whose [offsets[i], offsets[i+1]) range
// contains item, given the boundaries from OffsetsUniform.
func FindChunk(offsets []uint64, item uint64) uint64 {
	i := sort.Search(len(offsets)-1, func(i int) bool { return offsets[i+1] > item })
	return uint64(i)
}

// SplitWeighted is SplitUniform with a per-chunk capacity: chunk i
// receives at most caps[i] items and total must not exceed the summed
// capacity. The binomial draw per level is clamped so neither half
// overflows, standing in for an exact hypergeometric split.
func SplitWeighted(seed, total uint64, caps []uint64, index uint64) (count, offset uint64) {
	lo := 0
	nn := total
	level := uint64(0)
	for kk := len(caps); kk > 1; level++ {
		midk := (kk + 1) / 2
		var capL, capAll uint64
		for i := lo; i < lo+kk; i++ {
			capAll += caps[i]
			if i < lo+midk {
				capL += caps[i]
			}
		}
		var v uint64
		if capAll > 0 {
			v = rng.Binomial(nn, float64(capL)/float64(capAll), seed, level, uint64(lo))
		}
		if v > capL {
			v = capL
		}
		if rest := capAll - capL; nn-v > rest {
			v = nn - rest
		}
		if int(index) < lo+midk {
			kk = midk
			nn = v
		} else {
			offset += v
			nn -= v
			lo += midk
			kk -= midk
		}
	}
	return nn, offset
}
