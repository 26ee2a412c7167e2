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
	"fmt"
	"sort"

	"github.com/benbenbenbenbenben/vecgraph/arena"
	"github.com/benbenbenbenbenben/vecgraph/quant"
	"golang.org/x/sync/errgroup"
)

// descendToBase runs the single-best descent used by both Index and
// Search: greedy top_k=1 search from the permanent root down through
// every upper level, landing at the Node0 (level-0) entry point. ef
// bounds how many nodes each level's descent search may visit.
func (g *Graph) descendToBase(query *quant.QuantVec, ef int) uint32 {
	cursor := entryCursor{idx: g.topLevelRoot.Index(), isNode0: false}
	for level := g.levels; level >= 1; level-- {
		best := g.searchLevel(cursor.idx, query, ef, 1, true)
		winner := best[0].index
		cursor = g.descendFromNode(winner, level)
	}
	return cursor.idx
}

func (g *Graph) validateSearchArgs(query []float32, topK uint16) error {
	if len(query) != int(g.dims) {
		return fmt.Errorf("hnsw: query has %d components, want %d: %w", len(query), g.dims, ErrDimensionMismatch)
	}
	if int(topK) >= maxTopK {
		return fmt.Errorf("hnsw: topK=%d: %w", topK, ErrInvalidTopK)
	}
	return nil
}

// Search runs the two-stage quantized-then-raw rerank pipeline
// (§5.6.6): a coarse quantized search over ef-bounded candidates at
// level 0, widened to topK*8, then a raw-vector rescore before the
// final top-topK selection.
func (g *Graph) Search(query []float32, ef, topK uint16) ([]SearchResult, error) {
	if err := g.validateSearchArgs(query, topK); err != nil {
		return nil, err
	}
	if topK == 0 || g.Len() <= 1 {
		return nil, nil
	}

	queryQuant := quant.NewQuantVecFactory(g.quantization, g.dims)(query)
	entryIdx := g.descendToBase(&queryQuant, int(ef))
	// includeRoot=false: the sentinel is a valid wiring neighbor but
	// must never surface as a caller-facing result.
	coarse := g.searchLevel0(entryIdx, &queryQuant, int(ef), int(topK)*8, false)

	rawQuery := quant.RawVec{Vec: query}
	magQuery := rawQuery.Mag()

	rescored := make([]candidate, len(coarse))
	rescoreOne := func(i int) {
		c := coarse[i]
		n0 := g.node0Arena.Get(arena.HandleFromIndex[node0](c.index))
		raw := g.vecArena.GetA(n0.vec.HandleA())
		score := g.metric.CalculateRaw(&rawQuery, magQuery, raw, raw.Mag())
		rescored[i] = candidate{index: c.index, score: score}
	}

	if len(coarse) >= g.rerankThreshold {
		var eg errgroup.Group
		for i := range coarse {
			i := i
			eg.Go(func() error {
				rescoreOne(i)
				return nil
			})
		}
		_ = eg.Wait() // rescoreOne never errors; Wait only synchronizes.
	} else {
		for i := range coarse {
			rescoreOne(i)
		}
	}

	return g.finalizeResults(rescored, topK), nil
}

// SearchQuantized is Search's diagnostic sibling: it returns the
// coarse quantized-stage ranking directly, skipping the raw-vector
// rerank (§5.6.6).
func (g *Graph) SearchQuantized(query []float32, ef, topK uint16) ([]SearchResult, error) {
	if err := g.validateSearchArgs(query, topK); err != nil {
		return nil, err
	}
	if topK == 0 || g.Len() <= 1 {
		return nil, nil
	}

	queryQuant := quant.NewQuantVecFactory(g.quantization, g.dims)(query)
	entryIdx := g.descendToBase(&queryQuant, int(ef))
	coarse := g.searchLevel0(entryIdx, &queryQuant, int(ef), int(topK), false)

	return g.finalizeResults(coarse, topK), nil
}

// finalizeResults sorts candidates best-first, truncates to topK, and
// resolves each candidate's Node0 arena index to its caller-facing
// NodeId via the Node0's own vec handle. The two are not
// interchangeable: Index allocates g.vecArena and g.node0Arena under
// two independent atomic counters with no lock spanning them, so under
// concurrent insertion a vector's vec index and its Node0 index can
// diverge (§3 defines the caller id as raw vector index - 1).
func (g *Graph) finalizeResults(results []candidate, topK uint16) []SearchResult {
	sort.Slice(results, func(i, j int) bool {
		return g.metric.CmpScore(results[i].score, results[j].score) > 0
	})
	if int(topK) < len(results) {
		results = results[:topK]
	}
	out := make([]SearchResult, len(results))
	for i, c := range results {
		n0 := g.node0Arena.Get(arena.HandleFromIndex[node0](c.index))
		out[i] = SearchResult{Node: NodeId(n0.vec.Index() - 1), Score: c.score}
	}
	return out
}
