package generator

import (
	"math"

	"golang.org/x/exp/rand"

	"github.com/Shaip161/KaGen/pkg/chunks"
)

// Key-path tags keep the hash streams of unrelated concerns disjoint.
const (
	tagVertices uint64 = iota + 1
	tagCells
	tagCoords
	tagEdges
	tagQuota
	tagChase
	tagAnnuli
)

// chunkVertexSpan returns the [first, last) vertex rows of chunk c when n
// vertices are dealt evenly over k chunks.
func chunkVertexSpan(n, k, c uint64) (first, last uint64) {
	return chunks.ComputeRange(n, int(k), int(c))
}

// sampleDistinct draws count distinct values from [0, space) off one
// stream, in draw order. Once count passes half the space it samples the
// complement instead, keeping the rejection loop short.
func sampleDistinct(rnd *rand.Rand, space, count uint64) []uint64 {
	if count > space {
		count = space
	}
	if count == 0 {
		return nil
	}
	if 2*count > space {
		excluded := make(map[uint64]struct{}, space-count)
		for uint64(len(excluded)) < space-count {
			excluded[rnd.Uint64n(space)] = struct{}{}
		}
		out := make([]uint64, 0, count)
		for v := uint64(0); v < space; v++ {
			if _, ok := excluded[v]; !ok {
				out = append(out, v)
			}
		}
		return out
	}
	seen := make(map[uint64]struct{}, count)
	out := make([]uint64, 0, count)
	for uint64(len(out)) < count {
		v := rnd.Uint64n(space)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// skipSample visits the Bernoulli(p)-retained cells of a space of sz
// cells using geometric jumps, so the cost is proportional to the number
// of retained cells rather than to sz.
func skipSample(rnd *rand.Rand, sz uint64, p float64, visit func(cell uint64)) {
	if p <= 0 || sz == 0 {
		return
	}
	if p >= 1 {
		for i := uint64(0); i < sz; i++ {
			visit(i)
		}
		return
	}
	lq := math.Log1p(-p)
	pos := uint64(0)
	for {
		skip := math.Floor(math.Log1p(-rnd.Float64()) / lq)
		if skip >= float64(sz) {
			return
		}
		pos += uint64(skip)
		if pos >= sz {
			return
		}
		visit(pos)
		pos++
	}
}

// decodeTriangle maps a linear index onto the pair (a, b) with b < a, or
// b <= a when the diagonal is included, enumerated row by row.
func decodeTriangle(i uint64, withDiagonal bool) (a, b uint64) {
	if withDiagonal {
		a = uint64((math.Sqrt(float64(8*i+1)) - 1) / 2)
		for a > 0 && a*(a+1)/2 > i {
			a--
		}
		for (a+1)*(a+2)/2 <= i {
			a++
		}
		return a, i - a*(a+1)/2
	}
	a = uint64((1 + math.Sqrt(float64(8*i+1))) / 2)
	for a > 1 && a*(a-1)/2 > i {
		a--
	}
	for (a+1)*a/2 <= i {
		a++
	}
	return a, i - a*(a-1)/2
}
