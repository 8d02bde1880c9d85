// Package comm provides the blocking collectives the generators run on.
// Every rank executes the same program order; a collective returns only
// after all ranks of the group entered the same call. Ranks that diverge
// in their collective sequence deadlock the group, mirroring the usual
// SPMD contract.
package comm

// Communicator connects one rank to its peer group.
type Communicator interface {
	Rank() int
	Size() int

	// Barrier blocks until every rank reached it.
	Barrier()

	// AllgatherUint64 contributes one value and returns every rank's
	// contribution, indexed by rank.
	AllgatherUint64(v uint64) []uint64

	// AllgatherUint64s is the variable-length form; the result holds one
	// slice per rank. Contributions are copied on entry.
	AllgatherUint64s(vs []uint64) [][]uint64

	// AlltoallUint64s sends buckets[r] to rank r and returns the slices
	// every rank sent here, indexed by source rank. len(buckets) must
	// equal Size.
	AlltoallUint64s(buckets [][]uint64) [][]uint64

	AllreduceSum(v uint64) uint64
	AllreduceMax(v uint64) uint64

	// AllreduceOr combines a per-rank flag with logical OR.
	AllreduceOr(v bool) bool
}
