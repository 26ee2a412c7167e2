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

import (
	"sync"
	"testing"
)

func TestBasicAllocation(t *testing.T) {
	a := NewArena[int, int](4, func(v int) int { return v })

	h0 := a.Alloc(10)
	h1 := a.Alloc(20)
	h2 := a.Alloc(30)

	if got := *a.Get(h0); got != 10 {
		t.Fatalf("h0 = %d, want 10", got)
	}
	if got := *a.Get(h1); got != 20 {
		t.Fatalf("h1 = %d, want 20", got)
	}
	if got := *a.Get(h2); got != 30 {
		t.Fatalf("h2 = %d, want 30", got)
	}
	if a.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", a.Len())
	}
}

func TestChunkExpansion(t *testing.T) {
	const chunkSize = 4
	a := NewArena[int, int](chunkSize, func(v int) int { return v })

	var handles []Handle[int]
	for i := 0; i < chunkSize*3+1; i++ {
		handles = append(handles, a.Alloc(i))
	}

	for i, h := range handles {
		if got := *a.Get(h); got != i {
			t.Fatalf("slot %d = %d, want %d", i, got, i)
		}
	}
	if a.Len() != len(handles) {
		t.Fatalf("Len() = %d, want %d", a.Len(), len(handles))
	}
}

func TestHandleStableAcrossGrowth(t *testing.T) {
	// P1: handles read back their original value even after later
	// allocations force the chunk list to grow.
	a := NewArena[int, int](2, func(v int) int { return v })
	h0 := a.Alloc(100)
	for i := 0; i < 50; i++ {
		a.Alloc(i)
	}
	if got := *a.Get(h0); got != 100 {
		t.Fatalf("h0 = %d after growth, want 100", got)
	}
}

func TestClearResetsCounterAndCapacity(t *testing.T) {
	a := NewArena[int, int](4, func(v int) int { return v })
	a.Alloc(1)
	a.Alloc(2)
	a.Clear()

	if a.Len() != 0 {
		t.Fatalf("Len() after Clear = %d, want 0", a.Len())
	}
	h := a.Alloc(99)
	if h.Index() != 0 {
		t.Fatalf("first handle after Clear = %d, want 0", h.Index())
	}
	if got := *a.Get(h); got != 99 {
		t.Fatalf("value after Clear = %d, want 99", got)
	}
}

func TestLargeAllocation(t *testing.T) {
	a := NewArena[int, int](32, func(v int) int { return v })
	const n = 1000
	handles := make([]Handle[int], n)
	for i := range n {
		handles[i] = a.Alloc(i * 2)
	}
	for i, h := range handles {
		if got := *a.Get(h); got != i*2 {
			t.Fatalf("slot %d = %d, want %d", i, got, i*2)
		}
	}
}

func TestConcurrentAllocationsGetDistinctIndices(t *testing.T) {
	a := NewArena[int, int](16, func(v int) int { return v })

	const goroutines = 8
	const perGoroutine = 500

	var wg sync.WaitGroup
	results := make([][]Handle[int], goroutines)
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			hs := make([]Handle[int], perGoroutine)
			for i := 0; i < perGoroutine; i++ {
				hs[i] = a.Alloc(g*perGoroutine + i)
			}
			results[g] = hs
		}(g)
	}
	wg.Wait()

	seen := make(map[uint32]bool)
	for _, hs := range results {
		for _, h := range hs {
			if seen[h.Index()] {
				t.Fatalf("duplicate index %d handed out", h.Index())
			}
			seen[h.Index()] = true
		}
	}
	if a.Len() != goroutines*perGoroutine {
		t.Fatalf("Len() = %d, want %d", a.Len(), goroutines*perGoroutine)
	}
}

func TestDoubleArenaSharesIndex(t *testing.T) {
	d := NewDoubleArena[int, int, string, string](4,
		func(v int) int { return v },
		func(s string) string { return s },
	)

	h0 := d.Alloc(1, "one")
	h1 := d.Alloc(2, "two")

	if h0.Index() != 0 || h1.Index() != 1 {
		t.Fatalf("indices = %d,%d want 0,1", h0.Index(), h1.Index())
	}

	a0, b0 := h0.Split()
	if got := *d.GetA(a0); got != 1 {
		t.Fatalf("A side = %d, want 1", got)
	}
	if got := *d.GetB(b0); got != "one" {
		t.Fatalf("B side = %q, want one", got)
	}
}

func TestInvalidHandle(t *testing.T) {
	h := InvalidHandle[int]()
	if h.IsValid() {
		t.Fatal("InvalidHandle reports valid")
	}
}
