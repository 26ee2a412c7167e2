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

package hnsw

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/benbenbenbenbenben/vecgraph/arena"
	"github.com/benbenbenbenbenben/vecgraph/quant"
)

func randomVector(dims int, rng *rand.Rand) []float32 {
	v := make([]float32, dims)
	for i := range v {
		v[i] = rng.Float32()*2 - 1
	}
	return v
}

func newTestGraph(t *testing.T, opts ...GraphOption) *Graph {
	t.Helper()
	g, err := NewGraph(16, 32, 32, 4, quant.FullPrecisionFP, quant.Cosine, opts...)
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}
	return g
}

func TestNewGraphValidatesArguments(t *testing.T) {
	cases := []struct {
		name               string
		m, m0, dims, levels int
	}{
		{"zero dims", 16, 32, 0, 4},
		{"m too small", 1, 32, 32, 4},
		{"m0 too small", 16, 1, 32, 4},
		{"zero levels", 16, 32, 32, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NewGraph(uint16(c.m), uint16(c.m0), uint16(c.dims), uint8(c.levels), quant.FullPrecisionFP, quant.Cosine)
			if err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

// S1: empty graph search returns no results and no error.
func TestEmptyGraphSearch(t *testing.T) {
	g := newTestGraph(t)
	rng := rand.New(rand.NewSource(1))
	query := randomVector(32, rng)

	results, err := g.Search(query, 32, 10)
	if err != nil {
		t.Fatalf("Search on empty graph: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("got %d results, want 0", len(results))
	}
}

// S2: insert two points, search finds the nearer one first.
func TestTwoPointInsertAndSearch(t *testing.T) {
	g := newTestGraph(t)
	near := make([]float32, 32)
	near[0] = 1.0
	far := make([]float32, 32)
	far[31] = -1.0

	idNear, err := g.Index(near, 32)
	if err != nil {
		t.Fatalf("Index(near): %v", err)
	}
	idFar, err := g.Index(far, 32)
	if err != nil {
		t.Fatalf("Index(far): %v", err)
	}

	query := make([]float32, 32)
	query[0] = 1.0
	results, err := g.Search(query, 32, 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("no results")
	}
	if results[0].Node != idNear {
		t.Fatalf("closest result = %v, want %v (far id %v)", results[0].Node, idNear, idFar)
	}
}

// P1/P2 (graph-level): NodeIds are distinct under sequential insertion,
// and Len() counts every insert plus the sentinel.
func TestSequentialInsertDistinctIds(t *testing.T) {
	g := newTestGraph(t)
	rng := rand.New(rand.NewSource(2))
	seen := make(map[NodeId]bool)
	for i := 0; i < 200; i++ {
		id, err := g.Index(randomVector(32, rng), 32)
		if err != nil {
			t.Fatalf("Index: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate id %v at insertion %d", id, i)
		}
		seen[id] = true
	}
	if g.Len() != 201 {
		t.Fatalf("Len() = %d, want 201 (200 inserts + sentinel)", g.Len())
	}
}

// P5: neighbor lists never exceed their configured capacity.
func TestNeighborListCapacity(t *testing.T) {
	g := newTestGraph(t)
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 300; i++ {
		if _, err := g.Index(randomVector(32, rng), 32); err != nil {
			t.Fatalf("Index: %v", err)
		}
	}

	for i := uint32(0); i < uint32(g.node0Arena.Len()); i++ {
		n0 := g.node0Arena.Get(arena.HandleFromIndex[node0](i))
		if len(n0.neighbors.entries) > n0.neighbors.capacity {
			t.Fatalf("node0[%d] has %d neighbors, capacity %d", i, len(n0.neighbors.entries), n0.neighbors.capacity)
		}
	}
	for i := uint32(0); i < uint32(g.nodeArena.Len()); i++ {
		n := g.nodeArena.Get(arena.HandleFromIndex[node](i))
		if len(n.neighbors.entries) > n.neighbors.capacity {
			t.Fatalf("node[%d] has %d neighbors, capacity %d", i, len(n.neighbors.entries), n.neighbors.capacity)
		}
	}
}

// P7: Search results are sorted best-first under the metric's
// cmp_score direction.
func TestSearchResultsSortedBestFirst(t *testing.T) {
	g := newTestGraph(t)
	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 150; i++ {
		if _, err := g.Index(randomVector(32, rng), 32); err != nil {
			t.Fatalf("Index: %v", err)
		}
	}

	results, err := g.Search(randomVector(32, rng), 64, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for i := 1; i < len(results); i++ {
		if g.metric.CmpScore(results[i-1].Score, results[i].Score) < 0 {
			t.Fatalf("result %d (%v) scores worse than result %d (%v)", i-1, results[i-1].Score, i, results[i].Score)
		}
	}
}

// P9/S6: concurrent inserts all receive distinct ids and Len() ends up
// exactly equal to the total inserted plus one for the sentinel.
func TestConcurrentInsertDistinctCount(t *testing.T) {
	g := newTestGraph(t)
	const goroutines = 8
	const perGoroutine = 200

	type result struct {
		id  NodeId
		err error
	}
	out := make(chan result, goroutines*perGoroutine)
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for gi := 0; gi < goroutines; gi++ {
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < perGoroutine; i++ {
				id, err := g.Index(randomVector(32, rng), 24)
				out <- result{id: id, err: err}
			}
		}(int64(gi))
	}
	wg.Wait()
	close(out)

	seen := make(map[NodeId]bool)
	for r := range out {
		if r.err != nil {
			t.Fatalf("Index: %v", r.err)
		}
		if seen[r.id] {
			t.Fatalf("duplicate id %v", r.id)
		}
		seen[r.id] = true
	}
	if g.Len() != goroutines*perGoroutine+1 {
		t.Fatalf("Len() = %d, want %d", g.Len(), goroutines*perGoroutine+1)
	}
}

// TestConcurrentInsertIdMatchesVector guards against Node0 arena index
// and vector arena index diverging under concurrent insertion: Index
// allocates g.vecArena then g.node0Arena under two independent atomic
// counters with no lock spanning them, so interleaved concurrent
// inserts can give one vector a vec index that differs from its Node0
// index. A caller-facing NodeId must always resolve back to the exact
// vector that Index was given for it.
func TestConcurrentInsertIdMatchesVector(t *testing.T) {
	g := newTestGraph(t)
	const goroutines = 8
	const perGoroutine = 100

	type inserted struct {
		id  NodeId
		vec []float32
	}
	out := make(chan inserted, goroutines*perGoroutine)
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for gi := 0; gi < goroutines; gi++ {
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed + 1000))
			for i := 0; i < perGoroutine; i++ {
				vec := randomVector(32, rng)
				id, err := g.Index(vec, 24)
				if err != nil {
					t.Errorf("Index: %v", err)
					return
				}
				out <- inserted{id: id, vec: vec}
			}
		}(int64(gi))
	}
	wg.Wait()
	close(out)

	byID := make(map[NodeId][]float32)
	for r := range out {
		byID[r.id] = r.vec
	}

	// Querying each recorded vector exactly must return that vector's
	// own id as the best (score 1.0 under Cosine) match.
	checked := 0
	for id, vec := range byID {
		results, err := g.Search(vec, 200, 1)
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if len(results) == 0 {
			t.Fatalf("no results searching for inserted vector id %v", id)
		}
		if results[0].Node != id {
			t.Fatalf("searching vector inserted as id %v returned best match id %v instead", id, results[0].Node)
		}
		checked++
		if checked >= 25 {
			break
		}
	}
}

// S6: 8 threads each insert 10,000 vectors into one graph; final
// Len() == 80001 (sentinel included), and a subsequent search returns
// results in non-increasing cmp_score order.
func TestS6ConcurrentInsertEightByTenThousand(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping large concurrent-insert scenario in -short mode")
	}
	g := newTestGraph(t)
	const goroutines = 8
	const perGoroutine = 10_000

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for gi := 0; gi < goroutines; gi++ {
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < perGoroutine; i++ {
				if _, err := g.Index(randomVector(32, rng), 16); err != nil {
					t.Errorf("Index: %v", err)
					return
				}
			}
		}(int64(gi))
	}
	wg.Wait()

	if g.Len() != goroutines*perGoroutine+1 {
		t.Fatalf("Len() = %d, want %d", g.Len(), goroutines*perGoroutine+1)
	}

	rng := rand.New(rand.NewSource(999))
	results, err := g.Search(randomVector(32, rng), 32, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for i := 1; i < len(results); i++ {
		if g.metric.CmpScore(results[i-1].Score, results[i].Score) < 0 {
			t.Fatalf("result %d scores worse than result %d", i-1, i)
		}
	}
}

// P8: recall floor against brute-force ground truth.
func TestRecallFloor(t *testing.T) {
	const dims = 32
	const n = 1000
	const topK = 10

	g, err := NewGraph(16, 32, dims, 4, quant.FullPrecisionFP, quant.Cosine, WithLevelFactor(0.4))
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}

	rng := rand.New(rand.NewSource(42))
	vectors := make([][]float32, n)
	for i := range vectors {
		vectors[i] = randomVector(dims, rng)
		if _, err := g.Index(vectors[i], 100); err != nil {
			t.Fatalf("Index: %v", err)
		}
	}

	metric := quant.NewDistanceMetric(quant.Cosine, quant.FullPrecisionFP)
	query := randomVector(dims, rng)

	type scored = struct {
		id    int
		score float32
	}
	truth := make([]scored, n)
	for i, v := range vectors {
		ra := quant.RawVec{Vec: query}
		rb := quant.RawVec{Vec: v}
		truth[i] = scored{id: i, score: metric.CalculateRaw(&ra, ra.Mag(), &rb, rb.Mag())}
	}
	sortScoredDesc(truth)
	groundTruth := make(map[int]bool, topK)
	for i := 0; i < topK && i < len(truth); i++ {
		groundTruth[truth[i].id] = true
	}

	results, err := g.Search(query, 100, topK)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	hits := 0
	for _, r := range results {
		if groundTruth[int(r.Node)] {
			hits++
		}
	}
	recall := float64(hits) / float64(topK)
	if recall < 0.85 {
		t.Fatalf("recall@%d = %v, want >= 0.85", topK, recall)
	}
}

func sortScoredDesc(s []struct {
	id    int
	score float32
}) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j].score > s[j-1].score; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}
