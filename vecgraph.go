// Copyright (c) 2013-2024 Matteo Collina and LevelGraph Contributors
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

// Package vecgraph is an embedded, in-memory approximate nearest-neighbor
// index over dense float32 vectors, built on a Hierarchical Navigable
// Small World (HNSW) graph with optional per-vector scalar quantization
// and a two-stage quantized-then-reranked search.
//
// Basic usage:
//
//	g, err := vecgraph.NewGraph(16, 32, 128, 4, quant.FullPrecisionFP, quant.Cosine)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	id, err := g.Index(embedding, 64)
//
//	results, err := g.Search(query, 64, 10)
//	for _, r := range results {
//	    fmt.Println(r.Node, r.Score)
//	}
//
// The graph supports concurrent Index and Search calls against a single
// instance. It does not support deleting vectors, persisting to disk, or
// exposing itself as a network service; it is meant to be embedded in a
// larger serving process that owns those concerns.
package vecgraph

import (
	"github.com/benbenbenbenbenben/vecgraph/hnsw"
	"github.com/benbenbenbenbenben/vecgraph/quant"
)

// Graph is an alias for hnsw.Graph, the core HNSW index.
type Graph = hnsw.Graph

// NodeId is an alias for hnsw.NodeId, the caller-facing identifier
// returned by Index and carried on every SearchResult.
type NodeId = hnsw.NodeId

// SearchResult is an alias for hnsw.SearchResult.
type SearchResult = hnsw.SearchResult

// GraphOption is an alias for hnsw.GraphOption.
type GraphOption = hnsw.GraphOption

// Quantization is an alias for quant.Quantization, the on-the-wire vector
// representation a Graph stores alongside each raw vector.
type Quantization = quant.Quantization

// MetricKind is an alias for quant.MetricKind, the distance function a
// Graph ranks candidates by.
type MetricKind = quant.MetricKind

// Quantization values, re-exported for callers that don't need the quant
// package directly.
const (
	SignedByte      = quant.SignedByte
	UnsignedByte    = quant.UnsignedByte
	HalfPrecisionFP = quant.HalfPrecisionFP
	FullPrecisionFP = quant.FullPrecisionFP
)

// MetricKind values, re-exported for callers that don't need the quant
// package directly.
const (
	Cosine     = quant.Cosine
	DotProduct = quant.DotProduct
	Euclidean  = quant.Euclidean
	Hamming    = quant.Hamming
)

// NewGraph is an alias for hnsw.NewGraph.
var NewGraph = hnsw.NewGraph

// MemProject is an alias for hnsw.MemProject.
var MemProject = hnsw.MemProject

// GraphOption constructors, re-exported for convenience.
var (
	WithChunkSize       = hnsw.WithChunkSize
	WithSeed            = hnsw.WithSeed
	WithRNG             = hnsw.WithRNG
	WithLevelFactor     = hnsw.WithLevelFactor
	WithLogger          = hnsw.WithLogger
	WithBackLinkTimeout = hnsw.WithBackLinkTimeout
	WithRerankThreshold = hnsw.WithRerankThreshold
)

// Sentinel errors, re-exported from hnsw.
var (
	ErrInvalidArguments  = hnsw.ErrInvalidArguments
	ErrDimensionMismatch = hnsw.ErrDimensionMismatch
	ErrInvalidTopK       = hnsw.ErrInvalidTopK
)
