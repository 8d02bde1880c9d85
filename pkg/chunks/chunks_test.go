package chunks

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRangeForRank(t *testing.T) {
	// 10 chunks over 4 ranks: 3,3,2,2 with the leftover on low ranks.
	wantFirst := []uint64{0, 3, 6, 8}
	wantCount := []uint64{3, 3, 2, 2}
	for r := 0; r < 4; r++ {
		first, count := RangeForRank(10, r, 4)
		require.Equal(t, wantFirst[r], first, "rank %d", r)
		require.Equal(t, wantCount[r], count, "rank %d", r)
	}
}

func TestRangeForRankCoversAllChunks(t *testing.T) {
	for _, tc := range []struct{ k, size uint64 }{{4, 4}, {10, 4}, {16, 3}, {7, 7}, {64, 5}} {
		next := uint64(0)
		for r := 0; r < int(tc.size); r++ {
			first, count := RangeForRank(tc.k, r, int(tc.size))
			require.Equal(t, next, first, "k=%d size=%d rank=%d", tc.k, tc.size, r)
			next = first + count
			for c := first; c < first+count; c++ {
				require.Equal(t, r, OwnerOfChunk(c, tc.k, int(tc.size)))
			}
		}
		require.Equal(t, tc.k, next)
	}
}

func TestComputeRange(t *testing.T) {
	// 10 vertices over 4 ranks.
	want := [][2]uint64{{0, 3}, {3, 6}, {6, 8}, {8, 10}}
	for r := 0; r < 4; r++ {
		first, last := ComputeRange(10, 4, r)
		require.Equal(t, want[r][0], first)
		require.Equal(t, want[r][1], last)
	}
}

func TestEncodeDecode(t *testing.T) {
	for y := uint64(0); y < 3; y++ {
		for x := uint64(0); x < 4; x++ {
			id := Encode2D(x, y, 4)
			gx, gy := Decode2D(id, 4)
			require.Equal(t, x, gx)
			require.Equal(t, y, gy)
		}
	}
	require.EqualValues(t, 0, Encode2D(0, 0, 4))
	require.EqualValues(t, 11, Encode2D(3, 2, 4))

	for z := uint64(0); z < 2; z++ {
		for y := uint64(0); y < 3; y++ {
			for x := uint64(0); x < 4; x++ {
				id := Encode3D(x, y, z, 4, 3)
				gx, gy, gz := Decode3D(id, 4, 3)
				require.Equal(t, x, gx)
				require.Equal(t, y, gy)
				require.Equal(t, z, gz)
			}
		}
	}
}

func TestWrapCoord(t *testing.T) {
	v, ok := WrapCoord(2, 4, false)
	require.True(t, ok)
	require.EqualValues(t, 2, v)

	_, ok = WrapCoord(-1, 4, false)
	require.False(t, ok)
	_, ok = WrapCoord(4, 4, false)
	require.False(t, ok)

	v, ok = WrapCoord(-1, 4, true)
	require.True(t, ok)
	require.EqualValues(t, 3, v)
	v, ok = WrapCoord(4, 4, true)
	require.True(t, ok)
	require.EqualValues(t, 0, v)
}

func TestShapePredicates(t *testing.T) {
	require.True(t, IsSquare(4))
	require.False(t, IsSquare(3))
	require.True(t, IsCube(27))
	require.False(t, IsCube(9))
	require.True(t, IsPowerOfTwo(8))
	require.False(t, IsPowerOfTwo(6))
	require.False(t, IsPowerOfTwo(0))
}

func TestDefaultChunkCounts(t *testing.T) {
	require.EqualValues(t, 4, SquareCountFor(4))
	require.EqualValues(t, 4, SquareCountFor(2))
	require.EqualValues(t, 16, SquareCountFor(8))
	require.EqualValues(t, 9, SquareCountFor(3))

	require.EqualValues(t, 8, CubeCountFor(8))
	require.EqualValues(t, 8, CubeCountFor(2))
	require.EqualValues(t, 8, CubeCountFor(4))
	require.EqualValues(t, 27, CubeCountFor(3))

	require.EqualValues(t, 4, PowerOfTwoCountFor(3))
	require.EqualValues(t, 4, PowerOfTwoCountFor(4))
	require.EqualValues(t, 8, PowerOfTwoCountFor(5))
	require.EqualValues(t, 1, PowerOfTwoCountFor(1))
}

func TestSplitUniform(t *testing.T) {
	const seed, n, k = 1, 1000, 16

	var sum uint64
	prev := uint64(0)
	for i := uint64(0); i < k; i++ {
		count, offset := SplitUniform(seed, n, k, i)
		require.Equal(t, prev, offset, "chunk %d", i)
		prev = offset + count
		sum += count
	}
	require.EqualValues(t, n, sum)

	// Deterministic replay.
	c1, o1 := SplitUniform(seed, n, k, 5)
	c2, o2 := SplitUniform(seed, n, k, 5)
	require.Equal(t, c1, c2)
	require.Equal(t, o1, o2)

	// Degenerate cases.
	c, o := SplitUniform(seed, 0, k, 3)
	require.Zero(t, c)
	require.Zero(t, o)
	c, o = SplitUniform(seed, n, 1, 0)
	require.EqualValues(t, n, c)
	require.Zero(t, o)
}

func TestOffsetsUniform(t *testing.T) {
	const seed, n, k = 7, 500, 8
	offsets := OffsetsUniform(seed, n, k)
	require.Len(t, offsets, k+1)
	require.Zero(t, offsets[0])
	require.EqualValues(t, n, offsets[k])
	for i := uint64(0); i < k; i++ {
		count, off := SplitUniform(seed, n, k, i)
		require.Equal(t, offsets[i], off)
		require.Equal(t, offsets[i+1], off+count)
	}

	for item := uint64(0); item < n; item += 13 {
		c := FindChunk(offsets, item)
		require.LessOrEqual(t, offsets[c], item)
		require.Greater(t, offsets[c+1], item)
	}
}

func TestSplitWeighted(t *testing.T) {
	const seed = 3
	caps := []uint64{10, 0, 25, 5, 100, 1}
	var capSum uint64
	for _, c := range caps {
		capSum += c
	}
	total := capSum - 7

	var sum uint64
	prev := uint64(0)
	for i := range caps {
		count, offset := SplitWeighted(seed, total, caps, uint64(i))
		require.LessOrEqual(t, count, caps[i], "chunk %d over capacity", i)
		require.Equal(t, prev, offset, "chunk %d", i)
		prev = offset + count
		sum += count
	}
	require.Equal(t, total, sum)
}

func TestSplitWeightedFull(t *testing.T) {
	// total == capacity forces every chunk to its cap.
	caps := []uint64{4, 9, 1, 6}
	for i, c := range caps {
		count, _ := SplitWeighted(11, 20, caps, uint64(i))
		require.Equal(t, c, count)
	}
}
