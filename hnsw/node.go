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
	"github.com/benbenbenbenbenben/vecgraph/arena"
	"github.com/benbenbenbenbenben/vecgraph/quant"
)

// vecHandle is the shared raw/quantized vector pair every node carries.
type vecHandle = arena.DoubleHandle[quant.RawVec, quant.QuantVec]

// node is a level-≥1 graph record. Its child points at another node
// when level > 1, or at a node0 when level == 1; hasNode0Child says
// which field is live, since Go has no const-generic way to carry that
// distinction in the type itself the way the reference design's
// separate per-level record types do.
type node struct {
	level         uint8
	vec           vecHandle
	childNode     arena.Handle[node]
	childNode0    arena.Handle[node0]
	hasNode0Child bool
	neighbors     neighbors
}

// node0 is the level-0 graph record: the base layer every inserted
// vector belongs to regardless of its sampled target level.
type node0 struct {
	vec       vecHandle
	neighbors neighbors
}

// nodeArgs builds a node. Exactly one of childNode/childNode0 is
// meaningful, selected by hasNode0Child.
type nodeArgs struct {
	level         uint8
	vec           vecHandle
	childNode     arena.Handle[node]
	childNode0    arena.Handle[node0]
	hasNode0Child bool
	capacity      int
}

func newNode(a nodeArgs) node {
	return node{
		level:         a.level,
		vec:           a.vec,
		childNode:     a.childNode,
		childNode0:    a.childNode0,
		hasNode0Child: a.hasNode0Child,
		neighbors:     newNeighbors(a.capacity),
	}
}

type node0Args struct {
	vec      vecHandle
	capacity int
}

func newNode0(a node0Args) node0 {
	return node0{
		vec:       a.vec,
		neighbors: newNeighbors(a.capacity),
	}
}
