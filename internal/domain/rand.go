package domain

import "math/rand/v2"

// Rand is the random source used for shuffles and word picks.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// DefaultRand is backed by the goroutine-safe math/rand/v2 top-level source
var DefaultRand Rand = globalRand{}

// Shuffle performs an in-place Fisher-Yates shuffle
func Shuffle[T any](rng Rand, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}
