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

import "github.com/benbenbenbenbenben/vecgraph/quant"

// candidate pairs a visited arena index with its score against the
// current query, for use in a scoreHeap.
type candidate struct {
	index uint32
	score float32
}

// scoreHeap is a container/heap.Interface over candidates, configurable
// as a best-first (min side of cmp_score) or worst-first heap via
// metric+bestFirst, mirroring the teacher's nodeHeap but parameterized
// on DistanceMetric.CmpScore rather than a plain float comparison.
type scoreHeap struct {
	items     []candidate
	metric    quant.DistanceMetric
	bestFirst bool // true: Pop yields the best-scoring candidate first
}

func (h *scoreHeap) Len() int { return len(h.items) }

func (h *scoreHeap) Less(i, j int) bool {
	cmp := h.metric.CmpScore(h.items[i].score, h.items[j].score)
	if h.bestFirst {
		return cmp > 0
	}
	return cmp < 0
}

func (h *scoreHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *scoreHeap) Push(x any) { h.items = append(h.items, x.(candidate)) }

func (h *scoreHeap) Pop() any {
	n := len(h.items)
	item := h.items[n-1]
	h.items = h.items[:n-1]
	return item
}
