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

// Package fixedset implements a fixed-size, power-of-two-masked
// visited-node bitset used to deduplicate nodes during a single graph
// traversal. Collisions are possible and acceptable: the set is
// reinitialized for every traversal and sized so that probed nodes are
// a small fraction of its capacity, so a false positive only costs a
// little recall, never correctness.
package fixedset

// Set is a fixed-capacity bitset over uint32 values.
type Set struct {
	buckets []uint64
	mask    uint32
}

// New returns a Set sized to the next power of two at least as large
// as expectedLen (minimum 1 bucket, i.e. 64 representable slots).
func New(expectedLen int) *Set {
	buckets := nextPow2(expectedLen)
	if buckets < 1 {
		buckets = 1
	}
	return &Set{
		buckets: make([]uint64, buckets),
		mask:    uint32(buckets - 1),
	}
}

// Insert marks value as visited.
func (s *Set) Insert(value uint32) {
	bucket := (value >> 6) & s.mask
	bit := value & 0x3f
	s.buckets[bucket] |= 1 << bit
}

// IsMember reports whether value (or a colliding value) was inserted.
func (s *Set) IsMember(value uint32) bool {
	bucket := (value >> 6) & s.mask
	bit := value & 0x3f
	return s.buckets[bucket]&(1<<bit) != 0
}

// nextPow2 returns the smallest power of two >= n (n > 0).
func nextPow2(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	return n + 1
}
