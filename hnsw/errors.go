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

import "errors"

// Sentinel errors returned at the package's trust boundary: graph
// construction and the public Index/Search entry points. Anything
// downstream of successful validation panics instead, since it
// indicates a bug rather than a caller mistake.
var (
	// ErrInvalidArguments is returned by NewGraph when m, m0, dims, or
	// levels fall outside their valid ranges.
	ErrInvalidArguments = errors.New("hnsw: invalid constructor arguments")

	// ErrDimensionMismatch is returned by Index/Search when a supplied
	// vector's length does not equal the graph's configured dims.
	ErrDimensionMismatch = errors.New("hnsw: vector dimension mismatch")

	// ErrInvalidTopK is returned by Search/SearchQuantized when topK is
	// outside [0, 8192).
	ErrInvalidTopK = errors.New("hnsw: topK out of range")
)

const maxTopK = 8192
