/* math/rand interface over a Hash-DRBG. Shape follows the crypto/rand
 * source by Stefan Nilsson, https://yourbasic.org/golang/crypto-rand-int/,
 * as modified by SA6MWA with a mutex lock to be goroutine-safe.
 */

package crand

import (
	"math/rand"
	"sync"

	"pkt.systems/hdrbg"
)

// Source is a rand.Source64 drawing from a DRBG. The DRBG itself is
// single-writer, so Source serialises access with its own mutex; callers must
// not use the wrapped DRBG directly while the Source is live.
type Source struct {
	mu  sync.Mutex
	rng *hdrbg.DRBG
}

// NewSource wraps rng.
func NewSource(rng *hdrbg.DRBG) *Source {
	return &Source{rng: rng}
}

// New returns a *rand.Rand backed by rng.
func New(rng *hdrbg.DRBG) *rand.Rand {
	return rand.New(NewSource(rng))
}

// Seed is a no-op; seeding is the DRBG's business.
func (s *Source) Seed(int64) {}

// Int63 returns a non-negative 63-bit integer.
func (s *Source) Int63() int64 {
	return int64(s.Uint64() & ^uint64(1<<63))
}

// Uint64 returns a uniform 64-bit integer. It panics if the DRBG fails,
// since rand.Source has no error channel.
func (s *Source) Uint64() uint64 {
	s.mu.Lock()
	v, err := s.rng.Uint64()
	s.mu.Unlock()
	if err != nil {
		panic(err)
	}
	return v
}

// Read fills p with generated bytes, in chunks of at most
// hdrbg.MaxRequestLength.
func (s *Source) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for n < len(p) {
		end := min(len(p), n+hdrbg.MaxRequestLength)
		if _, err := s.rng.Generate(p[n:end], false); err != nil {
			return n, err
		}
		n = end
	}
	return n, nil
}

var global = sync.OnceValue(func() *Source {
	rng, err := hdrbg.New()
	if err != nil {
		panic(err)
	}
	return NewSource(rng)
})

var globalRand = sync.OnceValue(func() *rand.Rand {
	return rand.New(global())
})

// Int63 returns a non-negative 63-bit integer from the package source.
func Int63() int64 { return global().Int63() }

// Uint32 returns a pseudo-random 32-bit value.
func Uint32() uint32 { return globalRand().Uint32() }

// Uint64 returns a pseudo-random 64-bit value.
func Uint64() uint64 { return global().Uint64() }

// Intn returns a pseudo-random integer in [0, n).
func Intn(n int) int { return globalRand().Intn(n) }

// Int63n returns a pseudo-random 63-bit integer in [0, n).
func Int63n(n int64) int64 { return globalRand().Int63n(n) }

// Float64 returns a pseudo-random float64 in [0.0, 1.0).
func Float64() float64 { return globalRand().Float64() }

// Perm returns a pseudo-random permutation of the numbers [0, n).
func Perm(n int) []int { return globalRand().Perm(n) }

// Shuffle pseudo-randomly permutes n elements using the supplied swap function.
func Shuffle(n int, swap func(i, j int)) { globalRand().Shuffle(n, swap) }

// Read fills p with generated bytes.
func Read(p []byte) (int, error) { return global().Read(p) }
