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

import "math"

// MetricKind selects which distance function a DistanceMetric computes.
type MetricKind uint8

const (
	// Cosine ranks by cosine similarity; higher is better.
	Cosine MetricKind = iota + 1
	// DotProduct ranks by raw dot product; higher is better.
	DotProduct
	// Euclidean ranks by L2 distance; lower is better.
	Euclidean
	// Hamming ranks by component-mismatch count; lower is better.
	Hamming
)

func (k MetricKind) String() string {
	switch k {
	case Cosine:
		return "Cosine"
	case DotProduct:
		return "DotProduct"
	case Euclidean:
		return "Euclidean"
	case Hamming:
		return "Hamming"
	default:
		return "Unknown"
	}
}

// higherIsBetter reports the metric's cmp_score direction.
func (k MetricKind) higherIsBetter() bool {
	return k == Cosine || k == DotProduct
}

// DistanceMetric bundles a metric kind with the quantization its
// quantized-side calculations expect.
type DistanceMetric struct {
	Kind         MetricKind
	Quantization Quantization
}

// NewDistanceMetric constructs a DistanceMetric bundle.
func NewDistanceMetric(kind MetricKind, q Quantization) DistanceMetric {
	return DistanceMetric{Kind: kind, Quantization: q}
}

// CmpScore reports whether a is better (positive), worse (negative),
// or tied (zero) with b under m's ordering direction.
func (m DistanceMetric) CmpScore(a, b float32) int {
	if m.Kind.higherIsBetter() {
		return cmpF32(a, b)
	}
	return cmpF32(b, a)
}

func cmpF32(a, b float32) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}

// WorstScore returns a sentinel guaranteed to compare worse than any
// real score m.Calculate/m.CalculateRaw could return, used to seed
// "weakest recorded" bookkeeping before any real neighbor exists.
//
// spec.md's prose lists literal sentinel values (2.0, 0.0, 0.0, +Inf
// for Cosine/DotProduct/Euclidean/Hamming respectively) that are
// internally inconsistent with its own stated cmp_score direction: a
// "higher is better" metric's worst sentinel must be a low value, not
// a value above the metric's best case. This implementation instead
// takes the worst endpoint of each metric's declared range from
// original_source/src/metric.rs (Cosine: -1.0..1.0, DotProduct:
// -Inf..Inf, Euclidean: Inf..0.0, Hamming: Inf..0.0 in
// worst..best order) — see DESIGN.md.
func (m DistanceMetric) WorstScore() float32 {
	switch m.Kind {
	case Cosine:
		return -2.0 // strictly below the valid [-1, 1] range
	case DotProduct:
		return float32(math.Inf(-1))
	case Euclidean:
		return float32(math.Inf(1))
	case Hamming:
		return float32(math.Inf(1))
	default:
		panic("quant: unknown metric kind")
	}
}

// Calculate scores two quantized vectors under m.
func (m DistanceMetric) Calculate(a, b *QuantVec) float32 {
	switch m.Kind {
	case Cosine:
		return cosineFromDot(quantDot(a, b), a.Mag, b.Mag)
	case DotProduct:
		return quantDot(a, b)
	case Euclidean:
		return quantEuclidean(a, b)
	case Hamming:
		return quantHamming(a, b)
	default:
		panic("quant: unknown metric kind")
	}
}

// CalculateRaw scores two raw vectors, used during rerank.
// magA/magB are the vectors' squared self-dot-products.
func (m DistanceMetric) CalculateRaw(a *RawVec, magA float32, b *RawVec, magB float32) float32 {
	switch m.Kind {
	case Cosine:
		return cosineFromDot(dotProductF32(a.Vec, b.Vec), magA, magB)
	case DotProduct:
		return dotProductF32(a.Vec, b.Vec)
	case Euclidean:
		return float32(math.Sqrt(float64(squaredDistanceF32(a.Vec, b.Vec))))
	case Hamming:
		var n int
		for i := range a.Vec {
			if a.Vec[i] != b.Vec[i] {
				n++
			}
		}
		return float32(n)
	default:
		panic("quant: unknown metric kind")
	}
}

func cosineFromDot(dot, magA, magB float32) float32 {
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (float32(math.Sqrt(float64(magA))) * float32(math.Sqrt(float64(magB))))
}

// quantDot computes the dot product of two quantized vectors sharing
// the same quantization, normalized per spec.md §4.2: unsigned-byte
// sums divide by 255^2, signed-byte sums divide by 128^2, FP paths sum
// directly via SIMD.
func quantDot(a, b *QuantVec) float32 {
	switch a.Quantization {
	case SignedByte:
		sa, sb := a.AsSignedByte(), b.AsSignedByte()
		var sum int32
		for i := range sa {
			sum += int32(sa[i]) * int32(sb[i])
		}
		return float32(sum) / 16384.0
	case UnsignedByte:
		ua, ub := a.AsUnsignedByte(), b.AsUnsignedByte()
		var sum uint32
		for i := range ua {
			sum += uint32(ua[i]) * uint32(ub[i])
		}
		return float32(sum) / 65025.0
	case HalfPrecisionFP:
		return dotProductF32(a.AsHalfPrecisionFP(), b.AsHalfPrecisionFP())
	case FullPrecisionFP:
		return dotProductF32(a.AsFullPrecisionFP(), b.AsFullPrecisionFP())
	default:
		panic("quant: unknown quantization kind")
	}
}

// quantEuclidean dequantizes both sides to float32 and computes L2
// distance. A fixed-point squared difference has no natural shared
// scale across quantizations the way a dot product does, so dequantize
// first (spec.md §4.3 permits deferring this kernel; this module
// implements it fully, see SPEC_FULL.md §5.3).
func quantEuclidean(a, b *QuantVec) float32 {
	da, db := a.Dequantize(), b.Dequantize()
	return float32(math.Sqrt(float64(squaredDistanceF32(da, db))))
}

// quantHamming counts differing encoded bytes for byte quantizations,
// or differing IEEE bit patterns for FP quantizations (undefined by
// spec.md; this module's supplemental choice, see SPEC_FULL.md §5.3).
func quantHamming(a, b *QuantVec) float32 {
	size := a.Quantization.Size()
	var n int
	for i := 0; i+size <= len(a.Data); i += size {
		for j := i; j < i+size; j++ {
			if a.Data[j] != b.Data[j] {
				n++
				break
			}
		}
	}
	return float32(n)
}
