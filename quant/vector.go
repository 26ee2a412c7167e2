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

// RawVec is a dense, full-precision copy of an inserted vector.
type RawVec struct {
	Vec []float32
}

// Mag returns the raw vector's squared magnitude (self dot product,
// not square-rooted), matching QuantVec.Mag's convention so the two
// are directly comparable during rerank.
func (r *RawVec) Mag() float32 { return dotProductF32(r.Vec, r.Vec) }

// NewRawVecFactory returns a constructor suitable for arena.NewArena,
// copying the supplied vector (the arena never aliases caller slices).
func NewRawVecFactory(dims uint16) func([]float32) RawVec {
	return func(v []float32) RawVec {
		cp := make([]float32, dims)
		copy(cp, v)
		return RawVec{Vec: cp}
	}
}

// QuantVec is the quantized representation of an inserted vector: a
// precomputed self-dot-product magnitude followed by dims components
// packed at Quantization.Size() bytes each.
type QuantVec struct {
	Mag          float32
	Quantization Quantization
	Data         []byte
}

// NewQuantVecFactory returns a constructor suitable for arena.NewArena
// (or arena.NewDoubleArena's B side) that encodes a raw []float32 into
// the given quantization.
func NewQuantVecFactory(q Quantization, dims uint16) func([]float32) QuantVec {
	size := q.Size()
	return func(v []float32) QuantVec {
		data := make([]byte, int(dims)*size)
		encodeComponents(q, v, data)
		return QuantVec{
			Mag:          dotProductF32(v, v),
			Quantization: q,
			Data:         data,
		}
	}
}

func encodeComponents(q Quantization, v []float32, dst []byte) {
	switch q {
	case SignedByte:
		for i, x := range v {
			dst[i] = byte(int8(clampF32(roundF32(x*127), -128, 127)))
		}
	case UnsignedByte:
		for i, x := range v {
			dst[i] = byte(uint8(clampF32(roundF32(x*255), 0, 255)))
		}
	case HalfPrecisionFP:
		for i, x := range v {
			bits := float32ToFloat16Bits(x)
			dst[i*2] = byte(bits)
			dst[i*2+1] = byte(bits >> 8)
		}
	case FullPrecisionFP:
		for i, x := range v {
			bits := math.Float32bits(x)
			dst[i*4] = byte(bits)
			dst[i*4+1] = byte(bits >> 8)
			dst[i*4+2] = byte(bits >> 16)
			dst[i*4+3] = byte(bits >> 24)
		}
	default:
		panic("quant: unknown quantization kind")
	}
}

func roundF32(x float32) float32 { return float32(math.Round(float64(x))) }

func clampF32(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Len returns the number of components encoded in v.
func (v *QuantVec) Len() int { return len(v.Data) / v.Quantization.Size() }

// AsSignedByte decodes v's components as signed bytes. Valid only when
// v.Quantization == SignedByte.
func (v *QuantVec) AsSignedByte() []int8 {
	out := make([]int8, v.Len())
	for i := range out {
		out[i] = int8(v.Data[i])
	}
	return out
}

// AsUnsignedByte decodes v's components as unsigned bytes. Valid only
// when v.Quantization == UnsignedByte.
func (v *QuantVec) AsUnsignedByte() []uint8 {
	out := make([]uint8, v.Len())
	copy(out, v.Data)
	return out
}

// AsHalfPrecisionFP decodes v's components to float32, reading them as
// IEEE-754 binary16. Valid only when v.Quantization == HalfPrecisionFP.
func (v *QuantVec) AsHalfPrecisionFP() []float32 {
	n := v.Len()
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		bits := uint16(v.Data[i*2]) | uint16(v.Data[i*2+1])<<8
		out[i] = float16BitsToFloat32(bits)
	}
	return out
}

// AsFullPrecisionFP decodes v's components to float32. Valid only
// when v.Quantization == FullPrecisionFP.
func (v *QuantVec) AsFullPrecisionFP() []float32 {
	n := v.Len()
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		bits := uint32(v.Data[i*4]) | uint32(v.Data[i*4+1])<<8 |
			uint32(v.Data[i*4+2])<<16 | uint32(v.Data[i*4+3])<<24
		out[i] = math.Float32frombits(bits)
	}
	return out
}

// Dequantize decodes v back to a full float32 vector regardless of
// quantization kind, undoing the fixed-point scale for byte encodings.
func (v *QuantVec) Dequantize() []float32 {
	switch v.Quantization {
	case SignedByte:
		sb := v.AsSignedByte()
		out := make([]float32, len(sb))
		for i, b := range sb {
			out[i] = float32(b) / 127.0
		}
		return out
	case UnsignedByte:
		ub := v.AsUnsignedByte()
		out := make([]float32, len(ub))
		for i, b := range ub {
			out[i] = float32(b) / 255.0
		}
		return out
	case HalfPrecisionFP:
		return v.AsHalfPrecisionFP()
	case FullPrecisionFP:
		return v.AsFullPrecisionFP()
	default:
		panic("quant: unknown quantization kind")
	}
}
