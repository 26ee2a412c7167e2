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

// Package hnsw implements the Hierarchical Navigable Small World graph
// engine: construction, insertion, greedy bounded search, and the
// two-stage quantized-then-raw rerank search pipeline, built on top of
// the arena and quant packages.
package hnsw

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/benbenbenbenbenben/vecgraph/arena"
	"github.com/benbenbenbenbenben/vecgraph/levelrand"
	"github.com/benbenbenbenbenben/vecgraph/quant"
)

// NodeId is a caller-facing handle to an inserted vector. It equals
// the underlying vector arena index minus one, hiding the sentinel
// record allocated at construction.
type NodeId uint32

// SearchResult pairs a NodeId with the score it achieved against a
// query, under the graph's configured DistanceMetric.
type SearchResult struct {
	Node  NodeId
	Score float32
}

// Graph is a concurrent HNSW index. Construct with NewGraph; the zero
// value is not usable.
type Graph struct {
	m, m0        uint16
	dims         uint16
	levels       uint8
	quantization quant.Quantization
	metric       quant.DistanceMetric

	nodeArena  *arena.Arena[node, nodeArgs]
	node0Arena *arena.Arena[node0, node0Args]
	vecArena   *arena.DoubleArena[quant.RawVec, []float32, quant.QuantVec, []float32]

	topLevelRoot arena.Handle[node]

	rng             levelrand.ThreadSafeRng
	levelFactor     float64
	logger          *slog.Logger
	backLinkTimeout time.Duration
	rerankThreshold int
}

// NewGraph constructs a Graph with a permanent sentinel entry point
// chain spanning every level from 1 to levels, plus its level-0
// record (§5.6.1). m and m0 bound the neighbor fan-out at upper
// levels and level 0 respectively; dims is the vector dimensionality;
// levels bounds how many upper levels the graph may use.
func NewGraph(
	m, m0 uint16, dims uint16, levels uint8,
	quantization quant.Quantization, metricKind quant.MetricKind,
	opts ...GraphOption,
) (*Graph, error) {
	if dims == 0 || m < 2 || m0 < 2 || levels < 1 {
		return nil, fmt.Errorf("hnsw: m=%d m0=%d dims=%d levels=%d: %w", m, m0, dims, levels, ErrInvalidArguments)
	}

	cfg := applyOptions(opts...)

	g := &Graph{
		m:            m,
		m0:           m0,
		dims:         dims,
		levels:       levels,
		quantization: quantization,
		metric:       quant.NewDistanceMetric(metricKind, quantization),

		rng:             cfg.rng,
		levelFactor:     cfg.levelFactor,
		logger:          cfg.logger,
		backLinkTimeout: cfg.backLinkTimeout,
		rerankThreshold: cfg.rerankThreshold,
	}

	newRaw := quant.NewRawVecFactory(dims)
	newQuant := quant.NewQuantVecFactory(quantization, dims)
	g.vecArena = arena.NewDoubleArena(cfg.chunkSize, newRaw, newQuant)
	g.nodeArena = arena.NewArena(cfg.chunkSize, newNode)
	g.node0Arena = arena.NewArena(cfg.chunkSize, newNode0)

	sentinel := make([]float32, dims)
	vecH := g.vecArena.Alloc(sentinel, sentinel)

	node0H := g.node0Arena.Alloc(node0Args{vec: vecH, capacity: int(m0)})

	var prevNodeH arena.Handle[node]
	for level := uint8(1); level <= levels; level++ {
		args := nodeArgs{level: level, vec: vecH, capacity: int(m)}
		if level == 1 {
			args.childNode0 = node0H
			args.hasNode0Child = true
		} else {
			args.childNode = prevNodeH
		}
		prevNodeH = g.nodeArena.Alloc(args)
	}
	g.topLevelRoot = prevNodeH

	return g, nil
}

// Len returns the number of vectors allocated so far, including the
// permanent sentinel: k successful Index calls yield Len() == k+1.
func (g *Graph) Len() int {
	return g.vecArena.Len()
}

func (g *Graph) logSkippedBackLink(evictedIdx uint32) {
	if g.logger == nil {
		return
	}
	g.logger.Debug("hnsw: skipped stale back-link removal, contention timeout", "evicted_index", evictedIdx)
}
