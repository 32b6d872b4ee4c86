package partitioner

import (
	"math/rand/v2"

	"github.com/zeebo/xxh3"
)

// RandomSource supplies uniform integers in [0, n). *rand.Rand satisfies it.
type RandomSource interface {
	Int64N(n int64) int64
}

// NewSeededSource returns a deterministic source for the given seed string.
// The same seed always produces the same sequence of draws.
func NewSeededSource(seed string) *rand.Rand {
	h := xxh3.HashString128(seed)
	return rand.New(rand.NewPCG(h.Hi, h.Lo))
}

// newRuntimeSource returns a source seeded from the runtime's entropy
func newRuntimeSource() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
