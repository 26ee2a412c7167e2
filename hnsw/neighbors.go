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
	"sync"
	"time"

	"github.com/benbenbenbenbenben/vecgraph/quant"
)

// neighborEntry pairs a neighbor's node handle with the score it had
// when last inserted into the list that holds it.
type neighborEntry struct {
	node  uint32 // raw arena index of the neighboring Node/Node0
	score float32
}

// neighbors is a bounded, mutable adjacency list for one node at one
// level. capacity is m or m0, fixed at construction. It tracks the
// weakest entry's slot and score so eviction never needs a full scan
// on the common (list-not-yet-full) path.
type neighbors struct {
	mu          sync.RWMutex
	capacity    int
	entries     []neighborEntry
	full        bool
	lowestIndex int
	lowestScore float32
}

func newNeighbors(capacity int) neighbors {
	return neighbors{
		capacity: capacity,
		entries:  make([]neighborEntry, 0, capacity),
	}
}

// snapshot copies the current entries under a read lock, for use by
// searchLevel which must not hold the lock while scoring candidates.
func (n *neighbors) snapshot() []neighborEntry {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]neighborEntry, len(n.entries))
	copy(out, n.entries)
	return out
}

// seedFromResults installs up to capacity search results verbatim,
// used once at construction time for a freshly allocated node
// (§5.6.4). Not safe for concurrent use — the node is not yet
// reachable from any other node.
func (n *neighbors) seedFromResults(results []neighborEntry, metric quant.DistanceMetric) {
	count := len(results)
	if count > n.capacity {
		count = n.capacity
	}
	n.entries = append(n.entries, results[:count]...)
	if count == n.capacity {
		n.full = true
		n.recomputeLowest(metric)
	} else {
		n.lowestIndex = count
	}
}

// recomputeLowest linearly scans entries to find the current weakest
// score, per §5.6.5. Caller must hold the write lock.
func (n *neighbors) recomputeLowest(metric quant.DistanceMetric) {
	if len(n.entries) == 0 {
		n.lowestIndex = 0
		n.lowestScore = metric.WorstScore()
		return
	}
	worstIdx := 0
	worstScore := n.entries[0].score
	for i := 1; i < len(n.entries); i++ {
		if metric.CmpScore(n.entries[i].score, worstScore) < 0 {
			worstIdx = i
			worstScore = n.entries[i].score
		}
	}
	n.lowestIndex = worstIdx
	n.lowestScore = worstScore
}

// insertEvictResult describes what happened to an insert attempt, so
// the caller can decide whether to chase a back-link removal.
type insertEvictResult struct {
	inserted bool
	evicted  neighborEntry
	hadEvict bool
}

// insertWithEviction attempts to add (node, score) to the list,
// evicting the current weakest entry if the list is full and the new
// score beats it (§5.6.5).
func (n *neighbors) insertWithEviction(node uint32, score float32, metric quant.DistanceMetric) insertEvictResult {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.full {
		n.entries = append(n.entries, neighborEntry{node: node, score: score})
		if len(n.entries) == n.capacity {
			n.full = true
			n.recomputeLowest(metric)
		} else {
			n.lowestIndex = len(n.entries)
		}
		return insertEvictResult{inserted: true}
	}

	if metric.CmpScore(score, n.lowestScore) <= 0 {
		return insertEvictResult{inserted: false}
	}

	evicted := n.entries[n.lowestIndex]
	n.entries[n.lowestIndex] = neighborEntry{node: node, score: score}
	n.recomputeLowest(metric)
	return insertEvictResult{inserted: true, evicted: evicted, hadEvict: true}
}

// removeBackLink best-effort marks the entry pointing at target as the
// weakest possible under metric, rather than compacting the slice
// (compaction would shift every other entry's slot meaning
// mid-traversal for a concurrent reader). Using metric.WorstScore()
// rather than a literal 0 matters: for a lower-is-better metric like
// Euclidean or Hamming, 0 is the BEST possible score, which would pin
// the stale entry as the most-desirable neighbor forever instead of
// making it the next one evicted. Returns false if the write lock
// could not be acquired within timeout (§5.3/§5.6.5 best-effort
// degradation).
func (n *neighbors) removeBackLink(target uint32, timeout time.Duration, metric quant.DistanceMetric) bool {
	deadline := time.Now().Add(timeout)
	const pollInterval = 200 * time.Microsecond
	for {
		if n.mu.TryLock() {
			break
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(pollInterval)
	}
	defer n.mu.Unlock()

	for i := range n.entries {
		if n.entries[i].node == target {
			n.entries[i].score = metric.WorstScore()
		}
	}
	// Only a full list tracks lowestIndex/lowestScore as "the weakest
	// entry" — while not full, lowestIndex instead tracks the next
	// free slot (see insertWithEviction), which recomputeLowest must
	// not disturb.
	if n.full {
		n.recomputeLowest(metric)
	}
	return true
}

// snapshotInto is a zero-allocation variant of snapshot for the hot
// search path, appending into dst and returning the grown slice.
func (n *neighbors) snapshotInto(dst []neighborEntry) []neighborEntry {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return append(dst, n.entries...)
}
