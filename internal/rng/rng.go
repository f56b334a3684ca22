// Package rng provides the seedable random sources threaded through every
// decision and combat call. Nothing in the engine reads a global generator.
package rng

import (
	"encoding/binary"
	"math/rand/v2"

	"golang.org/x/crypto/blake2b"
)

// Source supplies uniform floats in [0,1) and integer picks in [0,n).
// Implementations are not safe for concurrent use; give each goroutine its own.
type Source interface {
	Float64() float64
	IntN(n int) int
}

// Rand is a seeded PCG generator.
type Rand struct {
	r *rand.Rand
}

// New creates a generator from a 64-bit seed. Seed 0 is mapped to 1.
func New(seed uint64) *Rand {
	if seed == 0 {
		seed = 1
	}
	return &Rand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Float64 returns a uniform float in [0,1).
func (g *Rand) Float64() float64 {
	return g.r.Float64()
}

// IntN returns a uniform int in [0,n). n <= 0 yields 0.
func (g *Rand) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return g.r.IntN(n)
}

// DeriveSeed mixes a simulation seed with a stream id (usually an agent id).
// Streams are independent of roster order, so a run replays identically no
// matter how agents are scheduled across workers.
func DeriveSeed(base uint64, stream uint32) uint64 {
	var buf [12]byte
	binary.LittleEndian.PutUint64(buf[:8], base)
	binary.LittleEndian.PutUint32(buf[8:], stream)

	sum := blake2b.Sum256(buf[:])
	return binary.LittleEndian.Uint64(sum[:8])
}

// ForStream returns a generator for one stream of a simulation seed.
func ForStream(base uint64, stream uint32) *Rand {
	return New(DeriveSeed(base, stream))
}

// Chance draws once and reports whether the roll fell below p.
func Chance(s Source, p float64) bool {
	return s.Float64() < p
}

// CoinFlip returns +1 or -1 with equal probability.
func CoinFlip(s Source) float64 {
	if s.Float64() < 0.5 {
		return 1
	}
	return -1
}

// Between returns a uniform float in [lo,hi).
func Between(s Source, lo, hi float64) float64 {
	return lo + s.Float64()*(hi-lo)
}
