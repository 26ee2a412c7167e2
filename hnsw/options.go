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
	"log/slog"
	"time"

	"github.com/benbenbenbenbenben/vecgraph/arena"
	"github.com/benbenbenbenbenben/vecgraph/levelrand"
)

// config holds the tunables NewGraph assembles from GraphOptions.
type config struct {
	chunkSize       int
	seed            uint64
	rng             levelrand.ThreadSafeRng
	levelFactor     float64
	logger          *slog.Logger
	backLinkTimeout time.Duration
	rerankThreshold int
}

func defaultConfig() *config {
	return &config{
		chunkSize:       arena.DefaultChunkSize,
		seed:            levelrand.DefaultSeed,
		levelFactor:     0.4,
		backLinkTimeout: time.Second,
		rerankThreshold: 64,
	}
}

// GraphOption configures a Graph at construction time.
type GraphOption func(*config)

// WithChunkSize sets the arena chunk size backing node and vector
// storage. Default: arena.DefaultChunkSize.
func WithChunkSize(size int) GraphOption {
	return func(c *config) { c.chunkSize = size }
}

// WithSeed sets the default AtomicRng's seed. Ignored if WithRNG is
// also given. Default: levelrand.DefaultSeed.
func WithSeed(seed uint64) GraphOption {
	return func(c *config) { c.seed = seed }
}

// WithRNG supplies a custom level-sampling source, overriding the
// default seeded AtomicRng.
func WithRNG(rng levelrand.ThreadSafeRng) GraphOption {
	return func(c *config) { c.rng = rng }
}

// WithLevelFactor sets the exponential level-sampling decay factor.
// Default: 0.4.
func WithLevelFactor(factor float64) GraphOption {
	return func(c *config) { c.levelFactor = factor }
}

// WithLogger attaches a logger for best-effort-degradation notices
// (e.g. a skipped back-link removal). A nil logger (the default)
// disables logging entirely.
func WithLogger(logger *slog.Logger) GraphOption {
	return func(c *config) { c.logger = logger }
}

// WithBackLinkTimeout bounds how long an eviction will wait to acquire
// an evicted neighbor's write lock before giving up on removing its
// stale back-link. Default: 1 second.
func WithBackLinkTimeout(d time.Duration) GraphOption {
	return func(c *config) { c.backLinkTimeout = d }
}

// WithRerankThreshold sets the candidate count at or above which
// Search's rerank stage fans out across goroutines instead of running
// sequentially. Default: 64.
func WithRerankThreshold(n int) GraphOption {
	return func(c *config) { c.rerankThreshold = n }
}

func applyOptions(opts ...GraphOption) *config {
	c := defaultConfig()
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = levelrand.NewAtomicRng(c.seed)
	}
	return c
}
