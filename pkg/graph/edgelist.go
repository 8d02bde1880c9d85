package graph

import "sort"

// SortEdges orders edges by (tail, head).
func SortEdges(edges Edgelist) {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Tail != edges[j].Tail {
			return edges[i].Tail < edges[j].Tail
		}
		return edges[i].Head < edges[j].Head
	})
}

// SortAndDedupEdges sorts edges by (tail, head) and drops exact duplicates
// in place, returning the shortened list. Applying it twice is a no-op.
func SortAndDedupEdges(edges Edgelist) Edgelist {
	if len(edges) == 0 {
		return edges
	}
	SortEdges(edges)
	out := edges[:1]
	for _, e := range edges[1:] {
		if e != out[len(out)-1] {
			out = append(out, e)
		}
	}
	return out
}

// SortAndDedupWeighted is SortAndDedupEdges with edge weights. Weights follow
// the sort permutation; for duplicate edges the first occurrence keeps its
// weight and the rest are dropped.
func SortAndDedupWeighted(edges Edgelist, weights []int64) (Edgelist, []int64) {
	if len(edges) == 0 {
		return edges, weights
	}
	idx := make([]int, len(edges))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ea, eb := edges[idx[a]], edges[idx[b]]
		if ea.Tail != eb.Tail {
			return ea.Tail < eb.Tail
		}
		return ea.Head < eb.Head
	})
	outEdges := make(Edgelist, 0, len(edges))
	outWeights := make([]int64, 0, len(weights))
	for _, i := range idx {
		e := edges[i]
		if len(outEdges) > 0 && e == outEdges[len(outEdges)-1] {
			continue
		}
		outEdges = append(outEdges, e)
		outWeights = append(outWeights, weights[i])
	}
	return outEdges, outWeights
}

// ContainsEdge reports whether the (tail, head)-sorted list contains e.
func ContainsEdge(sorted Edgelist, e Edge) bool {
	i := sort.Search(len(sorted), func(i int) bool {
		if sorted[i].Tail != e.Tail {
			return sorted[i].Tail > e.Tail
		}
		return sorted[i].Head >= e.Head
	})
	return i < len(sorted) && sorted[i] == e
}
