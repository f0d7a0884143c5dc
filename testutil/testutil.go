package testutil

import (
	"math/rand"
	"sync"

	"github.com/hupe1980/bitkit"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Int63 returns a non-negative pseudo-random int64.
func (r *RNG) Int63() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Int63()
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Bool returns a pseudo-random bit.
func (r *RNG) Bool() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()&1 == 1
}

// Fill overwrites every bit of ba with pseudo-random data.
// Locks only once per call (preferred over calling Bool in a loop).
func (r *RNG) Fill(ba *bitkit.BitArray) {
	r.mu.Lock()
	defer r.mu.Unlock()

	payload := ba.Bytes()
	for i := range payload {
		payload[i] = byte(r.rand.Uint64())
	}
	ba.SetBytes(payload)
}

// RandomBits generates a bit array of the given size with uniformly random
// contents.
func (r *RNG) RandomBits(size uint64) *bitkit.BitArray {
	ba := bitkit.New(size)
	r.Fill(ba)
	return ba
}

// RandomRange picks a uniformly random half-open bit range within an array
// of the given size. The range may be empty.
func (r *RNG) RandomRange(size uint64) (offset, length uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if size == 0 {
		return 0, 0
	}
	offset = r.rand.Uint64() % size
	length = r.rand.Uint64() % (size - offset + 1)
	return offset, length
}

// RandomAmount picks a rotation distance spread across the interesting
// cases: small, negative, and far beyond the range length.
func (r *RNG) RandomAmount(length uint64) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	span := int64(length)*4 + 8
	return r.rand.Int63n(2*span+1) - span
}
