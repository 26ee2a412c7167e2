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

package arena

import "sync/atomic"

// uint32Counter is the shared index-assignment counter backing both
// Arena and DoubleArena. fetch-and-add is the common path; Go's atomic
// package gives sequentially-consistent ordering for every operation,
// which is at least as strong as the acquire/release discipline the
// reference design calls for.
type uint32Counter struct {
	v atomic.Uint32
}

// next reserves and returns the next index, panicking if doing so
// would collide with the reserved invalid-handle sentinel.
func (c *uint32Counter) next() uint32 {
	idx := c.v.Add(1) - 1
	if idx == invalidIndex {
		panic("arena: capacity exhausted")
	}
	return idx
}

func (c *uint32Counter) load() uint32 { return c.v.Load() }

func (c *uint32Counter) reset() { c.v.Store(0) }
