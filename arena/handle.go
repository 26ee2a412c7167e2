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

// Package arena implements a concurrent, chunked, append-only slab
// allocator that hands out stable 32-bit handles to records whose size
// is fixed per arena but decided at construction time (neighbor
// fan-out, vector dimension, quantization width).
//
// Handles are never invalidated by later allocations: the chunk list
// grows by appending whole chunks, never by moving or resizing an
// existing one, so a *T returned by Get remains valid for the life of
// the arena (or until Clear, which invalidates every handle at once).
package arena

import "math"

// invalidIndex is the reserved sentinel marking an unallocated handle.
const invalidIndex = math.MaxUint32

// Handle is an opaque 32-bit reference into an Arena[T]. The type
// parameter exists only to keep handles from different arenas from
// being mixed up at compile time; it carries no runtime value.
type Handle[T any] struct {
	idx uint32
}

// InvalidHandle returns the reserved not-allocated handle for T.
func InvalidHandle[T any]() Handle[T] {
	return Handle[T]{idx: invalidIndex}
}

// Index returns the handle's underlying slot index.
func (h Handle[T]) Index() uint32 { return h.idx }

// IsValid reports whether h was produced by a real allocation.
func (h Handle[T]) IsValid() bool { return h.idx != invalidIndex }

// handleOf reconstructs a handle from a raw index, for internal use by
// code that already knows the index is valid (e.g. DoubleHandle.Split).
func handleOf[T any](idx uint32) Handle[T] { return Handle[T]{idx: idx} }

// HandleFromIndex reconstructs a handle from a raw index previously
// obtained via Handle.Index. For callers that store raw indices
// directly for compactness (e.g. hnsw's neighbor lists) and need to
// rebuild a typed handle to call Arena.Get.
func HandleFromIndex[T any](idx uint32) Handle[T] { return handleOf[T](idx) }

// DoubleHandle is a single index referring in parallel to two arenas
// that hold two representations of the same logical record (e.g. a
// vector's raw and quantized copies). It splits into independently
// typed handles for each side without re-allocating or re-indexing.
type DoubleHandle[A, B any] struct {
	idx uint32
}

// doubleHandleOf constructs a DoubleHandle from a raw index.
func doubleHandleOf[A, B any](idx uint32) DoubleHandle[A, B] {
	return DoubleHandle[A, B]{idx: idx}
}

// Index returns the shared slot index.
func (h DoubleHandle[A, B]) Index() uint32 { return h.idx }

// IsValid reports whether h was produced by a real allocation.
func (h DoubleHandle[A, B]) IsValid() bool { return h.idx != invalidIndex }

// Split returns the two independently-typed handles sharing h's index.
func (h DoubleHandle[A, B]) Split() (Handle[A], Handle[B]) {
	return handleOf[A](h.idx), handleOf[B](h.idx)
}

// HandleA returns just the left-hand handle.
func (h DoubleHandle[A, B]) HandleA() Handle[A] { return handleOf[A](h.idx) }

// HandleB returns just the right-hand handle.
func (h DoubleHandle[A, B]) HandleB() Handle[B] { return handleOf[B](h.idx) }
