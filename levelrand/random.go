// Copyright (c) 2024 LevelGraph Go Contributors
//
// Permission is hereby granted, free of charge, to any person
// obtaining a copy of this software and associated documentation
// files (the "Software"), to deal in the Software without
// restriction, including without limitation the rights to use,
// copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the
// Software is furnished to do so, subject to the following
// conditions:
//
// The above copyright notice and this permission notice shall be
// included in all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
// EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES
// OF MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND
// NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT
// HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY,
// WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR
// OTHER DEALINGS IN THE SOFTWARE.

// Package levelrand implements the exponential level-assignment
// sampler used to pick how many upper levels a newly inserted vector
// participates in, plus a default thread-safe PRNG satisfying its
// contract. The PRNG itself is treated as swappable: callers may
// supply their own ThreadSafeRng, since reproducibility depends only
// on the seed and recurrence, not on this package's own implementation
// being used.
package levelrand

import "sync/atomic"

// ThreadSafeRng is the contract an exponential-sampling source must
// satisfy: a uint64 stream safely callable from concurrent goroutines.
type ThreadSafeRng interface {
	NextU64() uint64
}

// DefaultSeed is the seed used when none is supplied, per spec.
const DefaultSeed = 42

// lcgMultiplier and lcgIncrement are the atomic LCG parameters (from
// Numerical Recipes) specified as the reproducibility-critical
// recurrence.
const (
	lcgMultiplier = 6364136223846793005
	lcgIncrement  = 1
)

// AtomicRng is the default ThreadSafeRng: a lock-free atomic LCG.
// NextU64 evolves the state itself by the full LCG step on each call
// and returns the pre-update value, per the recurrence
// x <- x*6364136223846793005 + 1.
type AtomicRng struct {
	state atomic.Uint64
}

// NewAtomicRng seeds a new AtomicRng.
func NewAtomicRng(seed uint64) *AtomicRng {
	r := &AtomicRng{}
	r.state.Store(seed)
	return r
}

// NextU64 returns the current state and advances it via the LCG step.
func (r *AtomicRng) NextU64() uint64 {
	for {
		old := r.state.Load()
		next := old*lcgMultiplier + lcgIncrement
		if r.state.CompareAndSwap(old, next) {
			return old
		}
	}
}

var _ ThreadSafeRng = (*AtomicRng)(nil)

// ExponentialRandom draws u in [0,1) from rng and returns the smallest
// non-negative integer n such that factor^(n+1) <= 1 - u*(1 -
// factor^(max+1)), clamped to [0, max]. factor must be in (0, 1).
func ExponentialRandom(rng ThreadSafeRng, factor float64, max uint8) uint8 {
	maxPower := pow(factor, int(max)+1)
	u := float64(rng.NextU64()) / (float64(maxUint64) + 1.0)
	thresh := 1.0 - u*(1.0-maxPower)

	var n uint8
	current := factor
	for n < max {
		if current <= thresh {
			return n
		}
		current *= factor
		n++
	}
	return n
}

const maxUint64 = 1<<64 - 1

func pow(base float64, exp int) float64 {
	result := 1.0
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}
