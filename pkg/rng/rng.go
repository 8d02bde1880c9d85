// Package rng derives the deterministic randomness the generators run on.
// Every random decision is keyed by a path of integers (seed, level, chunk,
// cell, ...) hashed into a sub-seed, so any rank can replay any other
// rank's decisions without communication.
package rng

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Hash folds a key path into one 64-bit sub-seed.
func Hash(keys ...uint64) uint64 {
	h := xxhash.New()
	var buf [8]byte
	for _, k := range keys {
		binary.LittleEndian.PutUint64(buf[:], k)
		h.Write(buf[:])
	}
	return h.Sum64()
}

// NewStream returns a PCG stream seeded by the hashed key path. Streams for
// distinct paths are independent for all practical purposes.
func NewStream(keys ...uint64) *rand.Rand {
	return rand.New(rand.NewSource(Hash(keys...)))
}

// Uintn draws one value in [0, max) keyed by the path. max must be > 0.
func Uintn(max uint64, keys ...uint64) uint64 {
	return NewStream(keys...).Uint64n(max)
}

// Bernoulli draws one coin with success probability p keyed by the path.
func Bernoulli(p float64, keys ...uint64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return NewStream(keys...).Float64() < p
}

// Binomial draws one binomial(n, p) variate keyed by the path. Degenerate
// parameters short-circuit so callers can split zero-sized work freely.
func Binomial(n uint64, p float64, keys ...uint64) uint64 {
	if n == 0 || p <= 0 {
		return 0
	}
	if p >= 1 {
		return n
	}
	b := distuv.Binomial{N: float64(n), P: p, Src: rand.NewSource(Hash(keys...))}
	v := uint64(b.Rand())
	if v > n {
		v = n
	}
	return v
}
