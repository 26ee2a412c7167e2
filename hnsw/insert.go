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

	"github.com/benbenbenbenbenben/vecgraph/arena"
	"github.com/benbenbenbenbenben/vecgraph/levelrand"
	"github.com/benbenbenbenbenben/vecgraph/quant"
)

// entryCursor tracks the current descent position during insertion:
// either a level->=1 Node index, or the level-0 Node0 index.
type entryCursor struct {
	idx     uint32
	isNode0 bool
}

// levelCandidates remembers one level's bounded search results so the
// new node's chain can be allocated bottom-up after the entire
// top-down descent completes (a Node's child must exist before the
// Node itself can reference it).
type levelCandidates struct {
	level      uint8 // 0 means the Node0 (base) level
	candidates []candidate
}

// Index inserts vec into the graph and returns its caller-facing id
// (§5.6.2). ef bounds the candidate pool searched at each wired level.
func (g *Graph) Index(vec []float32, ef uint16) (NodeId, error) {
	if len(vec) != int(g.dims) {
		return 0, fmt.Errorf("hnsw: vector has %d components, want %d: %w", len(vec), g.dims, ErrDimensionMismatch)
	}

	queryQuant := quant.NewQuantVecFactory(g.quantization, g.dims)(vec)
	targetLevel := levelrand.ExponentialRandom(g.rng, g.levelFactor, g.levels)

	cursor := entryCursor{idx: g.topLevelRoot.Index(), isNode0: false}

	// Pass 1: single-best descent through every level strictly above
	// targetLevel (§5.6.2 step 3).
	for level := g.levels; level > targetLevel; level-- {
		best := g.searchLevel(cursor.idx, &queryQuant, int(ef), 1, true)
		winner := best[0].index
		cursor = g.descendFromNode(winner, level)
	}

	// Pass 2: bounded (top_k = m) search at every level from
	// targetLevel down to 1, remembering each level's candidates and
	// advancing the descent cursor through the winning EXISTING
	// node's child (§5.6.2 step 4).
	var collected []levelCandidates
	for level := targetLevel; level >= 1; level-- {
		results := g.searchLevel(cursor.idx, &queryQuant, int(ef), int(g.m), true)
		collected = append(collected, levelCandidates{level: level, candidates: results})
		winner := results[0].index
		cursor = g.descendFromNode(winner, level)
	}

	// Step 5: bounded (top_k = m0) search at level 0.
	level0Results := g.searchLevel0(cursor.idx, &queryQuant, int(ef), int(g.m0), true)

	// Pass 3: allocate and wire the new node's chain bottom-up.
	vecH := g.vecArena.Alloc(vec, vec)

	node0H := g.node0Arena.Alloc(node0Args{vec: vecH, capacity: int(g.m0)})
	g.node0Arena.Get(node0H).neighbors.seedFromResults(candidatesToEntries(level0Results), g.metric)
	g.wireBackLinks(node0H.Index(), level0Results, g.node0NeighborsOf)

	prevNode0 := node0H
	var prevNode arena.Handle[node]
	for i := len(collected) - 1; i >= 0; i-- {
		lc := collected[i]
		args := nodeArgs{level: lc.level, vec: vecH, capacity: int(g.m)}
		if lc.level == 1 {
			args.childNode0 = prevNode0
			args.hasNode0Child = true
		} else {
			args.childNode = prevNode
		}
		newNodeH := g.nodeArena.Alloc(args)
		g.nodeArena.Get(newNodeH).neighbors.seedFromResults(candidatesToEntries(lc.candidates), g.metric)
		g.wireBackLinks(newNodeH.Index(), lc.candidates, g.nodeNeighborsOf)
		prevNode = newNodeH
	}

	return NodeId(vecH.Index() - 1), nil
}

// descendFromNode follows the winning candidate's child pointer,
// landing in the Node0 domain exactly when the winner lived at level 1.
func (g *Graph) descendFromNode(winnerIdx uint32, winnerLevel uint8) entryCursor {
	winner := g.nodeArena.Get(arena.HandleFromIndex[node](winnerIdx))
	if winnerLevel == 1 {
		return entryCursor{idx: winner.childNode0.Index(), isNode0: true}
	}
	return entryCursor{idx: winner.childNode.Index(), isNode0: false}
}

func (g *Graph) nodeNeighborsOf(idx uint32) *neighbors {
	return &g.nodeArena.Get(arena.HandleFromIndex[node](idx)).neighbors
}

func (g *Graph) node0NeighborsOf(idx uint32) *neighbors {
	return &g.node0Arena.Get(arena.HandleFromIndex[node0](idx)).neighbors
}

// wireBackLinks inserts newIdx into each candidate's own neighbor
// list, evicting that list's weakest entry if full (§5.6.4/§5.6.5).
// getNeighbors resolves an arena index to its neighbor list within the
// level the candidates came from.
func (g *Graph) wireBackLinks(newIdx uint32, candidates []candidate, getNeighbors func(uint32) *neighbors) {
	for _, c := range candidates {
		result := getNeighbors(c.index).insertWithEviction(newIdx, c.score, g.metric)
		if !result.hadEvict {
			continue
		}
		evictedNeighbors := getNeighbors(result.evicted.node)
		if !evictedNeighbors.removeBackLink(c.index, g.backLinkTimeout, g.metric) {
			g.logSkippedBackLink(result.evicted.node)
		}
	}
}

func candidatesToEntries(cs []candidate) []neighborEntry {
	out := make([]neighborEntry, len(cs))
	for i, c := range cs {
		out[i] = neighborEntry{node: c.index, score: c.score}
	}
	return out
}
