package core

import "math"

// SimpleRNG is a deterministic pseudo-random number generator.
// Uses a simple LCG (Linear Congruential Generator) so that two runs with the
// same seed and inputs produce identical simulations.
type SimpleRNG struct {
	state uint64
}

// NewSimpleRNG creates a new RNG with the given seed.
func NewSimpleRNG(seed int64) *SimpleRNG {
	s := uint64(seed) //#nosec G115 -- intentional conversion for RNG seeding
	if s == 0 {
		s = 1
	}
	return &SimpleRNG{state: s}
}

// Next generates the next random uint64.
func (r *SimpleRNG) Next() uint64 {
	r.state = r.state*6364136223846793005 + 1442695040888963407
	return r.state
}

// Intn returns a random int in [0, n).
func (r *SimpleRNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() % uint64(n)) //#nosec G115 -- n is always positive
}

// Float64 returns a random float64 in [0, 1).
func (r *SimpleRNG) Float64() float64 {
	return float64(r.Next()>>11) / float64(1<<53)
}

// Range returns a random float64 in [lo, hi).
func (r *SimpleRNG) Range(lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// Chance reports whether a roll against probability p succeeds.
// p <= 0 never succeeds and p >= 1 always does.
func (r *SimpleRNG) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return r.Float64() < p
}

// Angle returns a random angle in [0, 2π).
func (r *SimpleRNG) Angle() float64 {
	return r.Float64() * 2 * math.Pi
}

// State returns the internal state, used when hashing snapshots.
func (r *SimpleRNG) State() uint64 {
	return r.state
}
