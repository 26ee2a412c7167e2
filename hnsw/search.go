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
	"container/heap"
	"sort"

	"github.com/benbenbenbenbenben/vecgraph/arena"
	"github.com/benbenbenbenbenben/vecgraph/fixedset"
	"github.com/benbenbenbenbenben/vecgraph/quant"
)

// searchGeneric is the shared greedy bounded search (§5.6.3) used by
// searchLevel and searchLevel0, parameterized over how to fetch a
// node's quantized vector and neighbor list so the same traversal
// logic serves both the Node and Node0 arenas.
func (g *Graph) searchGeneric(
	entryIdx uint32, query *quant.QuantVec, ef, topK int, includeRoot bool,
	getQuant func(uint32) *quant.QuantVec, getNeighbors func(uint32) *neighbors,
) []candidate {
	if ef < 1 {
		ef = 1
	}
	visited := fixedset.New(ef*4 + 16)
	visited.Insert(entryIdx)

	candidates := &scoreHeap{metric: g.metric, bestFirst: true}
	heap.Push(candidates, candidate{index: entryIdx, score: g.metric.Calculate(query, getQuant(entryIdx))})

	results := make([]candidate, 0, ef)
	nodesVisited := 0

	for candidates.Len() > 0 {
		c := heap.Pop(candidates).(candidate)
		if nodesVisited >= ef {
			break
		}
		nodesVisited++

		if includeRoot || c.index != 0 {
			results = append(results, c)
		}

		for _, nb := range getNeighbors(c.index).snapshot() {
			if visited.IsMember(nb.node) {
				continue
			}
			visited.Insert(nb.node)
			score := g.metric.Calculate(query, getQuant(nb.node))
			heap.Push(candidates, candidate{index: nb.node, score: score})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return g.metric.CmpScore(results[i].score, results[j].score) > 0
	})
	if topK < len(results) {
		results = results[:topK]
	}
	return results
}

// searchLevel runs the bounded greedy search among level->=1 Node
// records.
func (g *Graph) searchLevel(entryIdx uint32, query *quant.QuantVec, ef, topK int, includeRoot bool) []candidate {
	getQuant := func(idx uint32) *quant.QuantVec {
		n := g.nodeArena.Get(arena.HandleFromIndex[node](idx))
		return g.vecArena.GetB(n.vec.HandleB())
	}
	getNeighbors := func(idx uint32) *neighbors {
		return &g.nodeArena.Get(arena.HandleFromIndex[node](idx)).neighbors
	}
	return g.searchGeneric(entryIdx, query, ef, topK, includeRoot, getQuant, getNeighbors)
}

// searchLevel0 runs the bounded greedy search among level-0 Node0
// records.
func (g *Graph) searchLevel0(entryIdx uint32, query *quant.QuantVec, ef, topK int, includeRoot bool) []candidate {
	getQuant := func(idx uint32) *quant.QuantVec {
		n0 := g.node0Arena.Get(arena.HandleFromIndex[node0](idx))
		return g.vecArena.GetB(n0.vec.HandleB())
	}
	getNeighbors := func(idx uint32) *neighbors {
		return &g.node0Arena.Get(arena.HandleFromIndex[node0](idx)).neighbors
	}
	return g.searchGeneric(entryIdx, query, ef, topK, includeRoot, getQuant, getNeighbors)
}
