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
	"math"
	"unsafe"

	"github.com/benbenbenbenbenben/vecgraph/quant"
)

const memProjectChunkSize = 1024

// nodeSizeAligned estimates one Node record's resident size: its
// fixed fields plus an m-entry neighbor list.
func nodeSizeAligned(m uint16) uint64 {
	return uint64(unsafe.Sizeof(node{})) + uint64(m)*uint64(unsafe.Sizeof(neighborEntry{}))
}

// node0SizeAligned estimates one Node0 record's resident size.
func node0SizeAligned(m0 uint16) uint64 {
	return uint64(unsafe.Sizeof(node0{})) + uint64(m0)*uint64(unsafe.Sizeof(neighborEntry{}))
}

// lenToCap rounds x up to the next power of two (0 maps to 0), mirroring
// the chunk-pointer-array growth policy arena.core actually exhibits.
func lenToCap(x uint64) uint64 {
	if x == 0 {
		return 0
	}
	x--
	x |= x >> 1
	x |= x >> 2
	x |= x >> 4
	x |= x >> 8
	x |= x >> 16
	x |= x >> 32
	return x + 1
}

func ceilDiv(a, b uint64) uint64 {
	if a == 0 {
		return 0
	}
	return (a + b - 1) / b
}

// MemProject estimates, in bytes, the resident memory a graph built
// with the given parameters would occupy once it holds datasetSize
// vectors, without actually constructing one. Per-level node counts
// decay as datasetSize * 0.4^level for level in [1, levels], matching
// the exponential level sampler's expected population at each level.
func MemProject(m, m0, dims uint16, levels uint8, quantization quant.Quantization, datasetSize uint64) uint64 {
	const graphSizeBytes = 232
	const ptrSize = uint64(unsafe.Sizeof(uintptr(0)))

	node0Size := node0SizeAligned(m0)
	nodeSize := nodeSizeAligned(m)

	rawVecSize := uint64(dims) * 4
	quantVecSize := uint64(quantization.Size()) * uint64(dims)
	vecSize := rawVecSize + quantVecSize

	nodeArenaSize := 0.0
	for level := uint8(1); level <= levels; level++ {
		multiplier := math.Pow(0.4, float64(level))
		nodeArenaSize += multiplier * float64(datasetSize)
	}

	node0ArenaLen := datasetSize
	nodeArenaLen := uint64(nodeArenaSize)
	vecArenaLen := datasetSize

	node0ArenaVecCap := lenToCap(ceilDiv(node0ArenaLen, memProjectChunkSize))
	nodeArenaVecCap := lenToCap(ceilDiv(nodeArenaLen, memProjectChunkSize))
	vecArenaVecCap := lenToCap(ceilDiv(vecArenaLen, memProjectChunkSize))

	node0ArenaHeapSize := node0ArenaVecCap*ptrSize + node0ArenaLen*node0Size
	nodeArenaHeapSize := nodeArenaVecCap*ptrSize + nodeArenaLen*nodeSize
	vecArenaHeapSize := vecArenaVecCap*ptrSize + vecArenaLen*vecSize

	return graphSizeBytes + node0ArenaHeapSize + nodeArenaHeapSize + vecArenaHeapSize
}
