package randutil

import (
	rand "math/rand/v2"
	"time"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from seed. Two generators
// built from the same seed produce the same sequence, which is what makes a
// session replayable.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Seed returns seed unchanged when it is non-zero, otherwise a seed derived
// from the current time. Zero means "not set" on the command line.
func Seed(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}

// splitmix64 finaliser
func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
