package comm

import "sync"

// round is one collective rendezvous: a slot per rank and a channel closed
// when the last rank deposits. Finished rounds are immutable, so waiters
// read vals without holding the lock.
type round struct {
	vals []any
	n    int
	done chan struct{}
}

func newRound(size int) *round {
	return &round{vals: make([]any, size), done: make(chan struct{})}
}

// hub is the shared side of a local group. Collectives are matched purely
// by order of arrival, one round at a time.
type hub struct {
	size int
	mu   sync.Mutex
	cur  *round
}

// exchange deposits v for rank and blocks until all ranks of the current
// round deposited, then returns the rank-indexed contributions.
func (h *hub) exchange(rank int, v any) []any {
	h.mu.Lock()
	r := h.cur
	r.vals[rank] = v
	r.n++
	if r.n == h.size {
		h.cur = newRound(h.size)
		h.mu.Unlock()
		close(r.done)
	} else {
		h.mu.Unlock()
		<-r.done
	}
	return r.vals
}

// localComm is one rank's endpoint of an in-process group. The intended use
// is one goroutine per rank, each running the same program.
type localComm struct {
	rank int
	hub  *hub
}

// NewLocalGroup creates an in-process group of the given size and returns
// one connected Communicator per rank.
func NewLocalGroup(size int) []Communicator {
	if size <= 0 {
		panic("comm: group size must be positive")
	}
	h := &hub{size: size, cur: newRound(size)}
	comms := make([]Communicator, size)
	for i := range comms {
		comms[i] = &localComm{rank: i, hub: h}
	}
	return comms
}

func (c *localComm) Rank() int { return c.rank }
func (c *localComm) Size() int { return c.hub.size }

func (c *localComm) Barrier() {
	c.hub.exchange(c.rank, nil)
}

func (c *localComm) AllgatherUint64(v uint64) []uint64 {
	vals := c.hub.exchange(c.rank, v)
	out := make([]uint64, len(vals))
	for i, x := range vals {
		out[i] = x.(uint64)
	}
	return out
}

func (c *localComm) AllgatherUint64s(vs []uint64) [][]uint64 {
	cp := make([]uint64, len(vs))
	copy(cp, vs)
	vals := c.hub.exchange(c.rank, cp)
	out := make([][]uint64, len(vals))
	for i, x := range vals {
		out[i] = x.([]uint64)
	}
	return out
}

func (c *localComm) AlltoallUint64s(buckets [][]uint64) [][]uint64 {
	if len(buckets) != c.hub.size {
		panic("comm: alltoall bucket count does not match group size")
	}
	cp := make([][]uint64, len(buckets))
	for i, b := range buckets {
		cp[i] = make([]uint64, len(b))
		copy(cp[i], b)
	}
	vals := c.hub.exchange(c.rank, cp)
	out := make([][]uint64, len(vals))
	for src, x := range vals {
		out[src] = x.([][]uint64)[c.rank]
	}
	return out
}

func (c *localComm) AllreduceSum(v uint64) uint64 {
	var sum uint64
	for _, x := range c.AllgatherUint64(v) {
		sum += x
	}
	return sum
}

func (c *localComm) AllreduceMax(v uint64) uint64 {
	var max uint64
	for _, x := range c.AllgatherUint64(v) {
		if x > max {
			max = x
		}
	}
	return max
}

func (c *localComm) AllreduceOr(v bool) bool {
	var x uint64
	if v {
		x = 1
	}
	return c.AllreduceSum(x) > 0
}
