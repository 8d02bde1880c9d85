package graph

// UnionFind is a disjoint-set structure with path halving and union by rank,
// used for component counts over the rank-local part of a graph.
type UnionFind struct {
	parent []uint64
	rank   []byte
	size   []uint64
}

// NewUnionFind creates a UnionFind for n elements.
func NewUnionFind(n uint64) *UnionFind {
	parent := make([]uint64, n)
	size := make([]uint64, n)
	for i := range parent {
		parent[i] = uint64(i)
		size[i] = 1
	}
	return &UnionFind{
		parent: parent,
		rank:   make([]byte, n),
		size:   size,
	}
}

// Find returns the representative of the set containing x, with path halving.
func (uf *UnionFind) Find(x uint64) uint64 {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

// Union merges the sets containing x and y. Returns false if already merged.
func (uf *UnionFind) Union(x, y uint64) bool {
	rx := uf.Find(x)
	ry := uf.Find(y)
	if rx == ry {
		return false
	}
	if uf.rank[rx] < uf.rank[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	uf.size[rx] += uf.size[ry]
	if uf.rank[rx] == uf.rank[ry] {
		uf.rank[rx]++
	}
	return true
}

// LocalComponents treats the edges with both endpoints inside vr as an
// undirected subgraph and returns its number of weakly connected components
// and the size of the largest one. Vertices touched only by cut edges count
// as singletons.
func LocalComponents(vr VertexRange, edges Edgelist) (count, largest uint64) {
	n := vr.N()
	if n == 0 {
		return 0, 0
	}
	uf := NewUnionFind(n)
	for _, e := range edges {
		if vr.Contains(e.Tail) && vr.Contains(e.Head) {
			uf.Union(e.Tail-vr.First, e.Head-vr.First)
		}
	}
	for i := uint64(0); i < n; i++ {
		if uf.Find(i) == i {
			count++
			if uf.size[i] > largest {
				largest = uf.size[i]
			}
		}
	}
	return count, largest
}
