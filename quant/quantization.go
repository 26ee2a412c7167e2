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

// Package quant implements the raw and quantized vector storage
// layout, the per-component encoding rules for each quantization kind,
// and the distance metrics that operate over both representations.
package quant

// Quantization selects the on-the-wire component encoding for a
// QuantVec. The zero value is not a valid quantization; callers must
// pick one explicitly.
type Quantization uint8

const (
	// SignedByte encodes each component as round(x*127) clamped to
	// [-128, 127].
	SignedByte Quantization = iota + 1
	// UnsignedByte encodes each component as round(x*255) clamped to
	// [0, 255].
	UnsignedByte
	// HalfPrecisionFP stores each component as an IEEE-754 binary16.
	HalfPrecisionFP
	// FullPrecisionFP stores each component as a bitwise float32 copy.
	FullPrecisionFP
)

// Size returns the number of bytes one component occupies under q.
func (q Quantization) Size() int {
	switch q {
	case SignedByte, UnsignedByte:
		return 1
	case HalfPrecisionFP:
		return 2
	case FullPrecisionFP:
		return 4
	default:
		panic("quant: unknown quantization kind")
	}
}

func (q Quantization) String() string {
	switch q {
	case SignedByte:
		return "SignedByte"
	case UnsignedByte:
		return "UnsignedByte"
	case HalfPrecisionFP:
		return "HalfPrecisionFP"
	case FullPrecisionFP:
		return "FullPrecisionFP"
	default:
		return "Unknown"
	}
}
