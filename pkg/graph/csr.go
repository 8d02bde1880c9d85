package graph

import "fmt"

// BuildCSR converts a local edge list into CSR arrays for the given vertex
// range. Every tail must lie inside vr. The edge multiset is preserved;
// relative order of heads under one tail follows the input order.
//
// An empty edge list yields Xadj of vr.N()+1 zeros and an empty Adjncy, so
// the result is always structurally valid.
func BuildCSR(vr VertexRange, edges Edgelist) (xadj, adjncy []uint64, err error) {
	n := vr.N()
	xadj = make([]uint64, n+1)
	adjncy = make([]uint64, len(edges))

	// Pass 1: count out-degrees.
	for _, e := range edges {
		if !vr.Contains(e.Tail) {
			return nil, nil, fmt.Errorf("csr build: tail %d outside local range [%d, %d)", e.Tail, vr.First, vr.Last)
		}
		xadj[e.Tail-vr.First+1]++
	}
	// Prefix sum.
	for i := uint64(1); i <= n; i++ {
		xadj[i] += xadj[i-1]
	}
	// Pass 2: place heads using a per-vertex cursor.
	pos := make([]uint64, n)
	copy(pos, xadj[:n])
	for _, e := range edges {
		u := e.Tail - vr.First
		adjncy[pos[u]] = e.Head
		pos[u]++
	}
	return xadj, adjncy, nil
}

// BuildCSRWeighted is BuildCSR with edge weights carried through the same
// permutation. weights must have one entry per edge.
func BuildCSRWeighted(vr VertexRange, edges Edgelist, weights []int64) (xadj, adjncy []uint64, outWeights []int64, err error) {
	if len(weights) != len(edges) {
		return nil, nil, nil, fmt.Errorf("csr build: %d weights for %d edges", len(weights), len(edges))
	}
	n := vr.N()
	xadj = make([]uint64, n+1)
	adjncy = make([]uint64, len(edges))
	outWeights = make([]int64, len(edges))

	for _, e := range edges {
		if !vr.Contains(e.Tail) {
			return nil, nil, nil, fmt.Errorf("csr build: tail %d outside local range [%d, %d)", e.Tail, vr.First, vr.Last)
		}
		xadj[e.Tail-vr.First+1]++
	}
	for i := uint64(1); i <= n; i++ {
		xadj[i] += xadj[i-1]
	}
	pos := make([]uint64, n)
	copy(pos, xadj[:n])
	for i, e := range edges {
		u := e.Tail - vr.First
		adjncy[pos[u]] = e.Head
		outWeights[pos[u]] = weights[i]
		pos[u]++
	}
	return xadj, adjncy, outWeights, nil
}

// BuildEdgeList expands CSR arrays back into an explicit edge list. Together
// with BuildCSR it preserves the edge multiset in either direction.
func BuildEdgeList(vr VertexRange, xadj, adjncy []uint64) (Edgelist, error) {
	n := vr.N()
	if uint64(len(xadj)) != n+1 {
		return nil, fmt.Errorf("csr expand: len(xadj) = %d, want %d", len(xadj), n+1)
	}
	edges := make(Edgelist, 0, len(adjncy))
	for i := uint64(0); i < n; i++ {
		for j := xadj[i]; j < xadj[i+1]; j++ {
			edges = append(edges, Edge{Tail: vr.First + i, Head: adjncy[j]})
		}
	}
	return edges, nil
}

// CheckCSR verifies the structural CSR invariants: offset array length,
// zero start, monotone offsets ending at len(adjncy), and heads below
// totalN. totalN == 0 skips the head bound check.
func CheckCSR(vr VertexRange, xadj, adjncy []uint64, totalN uint64) error {
	n := vr.N()
	if uint64(len(xadj)) != n+1 {
		return fmt.Errorf("csr: len(xadj) = %d, want %d", len(xadj), n+1)
	}
	if xadj[0] != 0 {
		return fmt.Errorf("csr: xadj[0] = %d, want 0", xadj[0])
	}
	if xadj[n] != uint64(len(adjncy)) {
		return fmt.Errorf("csr: xadj[%d] = %d, want %d", n, xadj[n], len(adjncy))
	}
	for i := uint64(0); i < n; i++ {
		if xadj[i] > xadj[i+1] {
			return fmt.Errorf("csr: xadj not monotone at vertex %d", vr.First+i)
		}
	}
	if totalN > 0 {
		for i, h := range adjncy {
			if h >= totalN {
				return fmt.Errorf("csr: adjncy[%d] = %d out of bounds (n = %d)", i, h, totalN)
			}
		}
	}
	return nil
}
