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

package quant

import (
	"math/rand"
	"testing"
)

func TestCosineBounds(t *testing.T) {
	// P4: cosine(a, b) in [-1, 1] within tolerance; cosine(a, a) >= 1-eps.
	rng := rand.New(rand.NewSource(7))
	m := NewDistanceMetric(Cosine, FullPrecisionFP)
	const dims = 16

	for trial := 0; trial < 50; trial++ {
		a := randomVector(dims, rng)
		b := randomVector(dims, rng)
		qa := NewQuantVecFactory(FullPrecisionFP, dims)(a)
		qb := NewQuantVecFactory(FullPrecisionFP, dims)(b)

		score := m.Calculate(&qa, &qb)
		if score < -1.0001 || score > 1.0001 {
			t.Fatalf("trial %d: cosine = %v, want in [-1,1]", trial, score)
		}

		self := m.Calculate(&qa, &qa)
		if self < 1-1e-3 {
			t.Fatalf("trial %d: cosine(a,a) = %v, want >= 1-eps", trial, self)
		}
	}
}

func TestCosineZeroMagnitude(t *testing.T) {
	m := NewDistanceMetric(Cosine, FullPrecisionFP)
	zero := NewQuantVecFactory(FullPrecisionFP, 4)([]float32{0, 0, 0, 0})
	other := NewQuantVecFactory(FullPrecisionFP, 4)([]float32{1, 0, 0, 0})

	if got := m.Calculate(&zero, &other); got != 0 {
		t.Fatalf("cosine with zero magnitude = %v, want 0", got)
	}
}

func TestCmpScoreDirection(t *testing.T) {
	cases := []struct {
		kind   MetricKind
		better float32
		worse  float32
	}{
		{Cosine, 0.9, 0.1},
		{DotProduct, 10, -5},
		{Euclidean, 0.1, 10},
		{Hamming, 0, 5},
	}
	for _, c := range cases {
		m := NewDistanceMetric(c.kind, FullPrecisionFP)
		if cmp := m.CmpScore(c.better, c.worse); cmp <= 0 {
			t.Fatalf("%v: CmpScore(better=%v, worse=%v) = %d, want > 0", c.kind, c.better, c.worse, cmp)
		}
		if cmp := m.CmpScore(c.worse, c.better); cmp >= 0 {
			t.Fatalf("%v: CmpScore(worse=%v, better=%v) = %d, want < 0", c.kind, c.worse, c.better, cmp)
		}
	}
}

func TestWorstScoreIsNeverBetterThanReal(t *testing.T) {
	for _, kind := range []MetricKind{Cosine, DotProduct, Euclidean, Hamming} {
		m := NewDistanceMetric(kind, FullPrecisionFP)
		worst := m.WorstScore()
		realisticGood := float32(1.0)
		if cmp := m.CmpScore(realisticGood, worst); cmp <= 0 {
			t.Fatalf("%v: a realistic score did not beat WorstScore (cmp=%d)", kind, cmp)
		}
	}
}

func TestDotProductRawMatchesQuantizedFullPrecision(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	const dims = 8
	a := randomVector(dims, rng)
	b := randomVector(dims, rng)

	m := NewDistanceMetric(DotProduct, FullPrecisionFP)
	qa := NewQuantVecFactory(FullPrecisionFP, dims)(a)
	qb := NewQuantVecFactory(FullPrecisionFP, dims)(b)
	quantScore := m.Calculate(&qa, &qb)

	ra := RawVec{Vec: a}
	rb := RawVec{Vec: b}
	rawScore := m.CalculateRaw(&ra, ra.Mag(), &rb, rb.Mag())

	diff := quantScore - rawScore
	if diff < 0 {
		diff = -diff
	}
	if diff > 1e-3 {
		t.Fatalf("quantized dot %v vs raw dot %v differ by %v", quantScore, rawScore, diff)
	}
}
