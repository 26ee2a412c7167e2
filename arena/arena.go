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

import "sync"

// DefaultChunkSize is the slot count per chunk when none is given.
const DefaultChunkSize = 1024

// core holds the chunk storage shared by Arena and DoubleArena. It has
// no counter of its own; the owner supplies the index to write at.
type core[T any, A any] struct {
	mu        sync.RWMutex
	chunks    [][]T
	chunkSize int
	newItem   func(A) T
}

func newCore[T any, A any](chunkSize int, newItem func(A) T) *core[T, A] {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &core[T, A]{chunkSize: chunkSize, newItem: newItem}
}

// writeAt ensures the chunk holding idx exists, then constructs and
// stores the record there. It never races with readers because no
// handle for idx has been returned to anyone yet.
func (c *core[T, A]) writeAt(idx uint32, args A) {
	chunkIdx := int(idx) / c.chunkSize
	offset := int(idx) % c.chunkSize

	c.mu.RLock()
	n := len(c.chunks)
	c.mu.RUnlock()

	var chunk []T
	if chunkIdx >= n {
		c.mu.Lock()
		for chunkIdx >= len(c.chunks) {
			c.chunks = append(c.chunks, make([]T, c.chunkSize))
		}
		chunk = c.chunks[chunkIdx]
		c.mu.Unlock()
	} else {
		c.mu.RLock()
		chunk = c.chunks[chunkIdx]
		c.mu.RUnlock()
	}

	chunk[offset] = c.newItem(args)
}

// get returns a pointer into the slot for idx. The pointer remains
// valid for the arena's lifetime: chunks are never resized or moved
// once appended, only the outer chunk list grows.
func (c *core[T, A]) get(idx uint32) *T {
	chunkIdx := int(idx) / c.chunkSize
	offset := int(idx) % c.chunkSize

	c.mu.RLock()
	chunk := c.chunks[chunkIdx]
	c.mu.RUnlock()

	return &chunk[offset]
}

func (c *core[T, A]) clear() {
	c.mu.Lock()
	c.chunks = nil
	c.mu.Unlock()
}

// Arena is a concurrent, chunked, append-only slab allocator handing
// out stable Handle[T] values. newItem is captured once at
// construction and is invoked with the caller's alloc-time arguments
// to build each record; it carries any layout metadata (dims, m, ...)
// needed to size the record, since every record in one Arena shares
// that metadata.
type Arena[T any, A any] struct {
	core      *core[T, A]
	nextIndex uint32Counter
}

// NewArena creates an Arena whose records are built by newItem.
func NewArena[T any, A any](chunkSize int, newItem func(A) T) *Arena[T, A] {
	return &Arena[T, A]{core: newCore[T, A](chunkSize, newItem)}
}

// Alloc atomically reserves the next index, constructs the record
// there, and returns its handle. Safe to call concurrently from any
// number of goroutines. Panics if the arena's capacity (u32 max - 1
// records) would be exceeded.
func (a *Arena[T, A]) Alloc(args A) Handle[T] {
	idx := a.nextIndex.next()
	a.core.writeAt(idx, args)
	return handleOf[T](idx)
}

// Get returns a pointer to the slot referenced by h. Undefined if h
// was never allocated from this arena.
func (a *Arena[T, A]) Get(h Handle[T]) *T { return a.core.get(h.idx) }

// Len returns the number of records allocated so far.
func (a *Arena[T, A]) Len() int { return int(a.nextIndex.load()) }

// IsEmpty reports whether no records have been allocated.
func (a *Arena[T, A]) IsEmpty() bool { return a.Len() == 0 }

// Clear invalidates every handle and releases chunk storage.
func (a *Arena[T, A]) Clear() {
	a.core.clear()
	a.nextIndex.reset()
}

// DoubleArena is two chunk stores sharing a single index counter,
// producing DoubleHandle[A, B] values whose two halves always refer
// to the same slot index in their respective stores.
type DoubleArena[A any, ArgsA any, B any, ArgsB any] struct {
	coreA     *core[A, ArgsA]
	coreB     *core[B, ArgsB]
	nextIndex uint32Counter
}

// NewDoubleArena creates a DoubleArena whose two record kinds are
// built by newA and newB respectively.
func NewDoubleArena[A any, ArgsA any, B any, ArgsB any](
	chunkSize int, newA func(ArgsA) A, newB func(ArgsB) B,
) *DoubleArena[A, ArgsA, B, ArgsB] {
	return &DoubleArena[A, ArgsA, B, ArgsB]{
		coreA: newCore[A, ArgsA](chunkSize, newA),
		coreB: newCore[B, ArgsB](chunkSize, newB),
	}
}

// Alloc reserves one shared index and constructs both records under
// it, returning the combined handle.
func (d *DoubleArena[A, ArgsA, B, ArgsB]) Alloc(argsA ArgsA, argsB ArgsB) DoubleHandle[A, B] {
	idx := d.nextIndex.next()
	d.coreA.writeAt(idx, argsA)
	d.coreB.writeAt(idx, argsB)
	return doubleHandleOf[A, B](idx)
}

// GetA returns a pointer to the A-side slot referenced by h.
func (d *DoubleArena[A, ArgsA, B, ArgsB]) GetA(h Handle[A]) *A { return d.coreA.get(h.idx) }

// GetB returns a pointer to the B-side slot referenced by h.
func (d *DoubleArena[A, ArgsA, B, ArgsB]) GetB(h Handle[B]) *B { return d.coreB.get(h.idx) }

// Len returns the number of index slots allocated so far.
func (d *DoubleArena[A, ArgsA, B, ArgsB]) Len() int { return int(d.nextIndex.load()) }

// Clear invalidates every handle and releases both chunk stores.
func (d *DoubleArena[A, ArgsA, B, ArgsB]) Clear() {
	d.coreA.clear()
	d.coreB.clear()
	d.nextIndex.reset()
}
