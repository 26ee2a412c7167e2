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
	"math"

	"github.com/ajroetker/go-highway/hwy"
)

// dotProductF32 computes the dot product of two equal-length float32
// slices using SIMD lanes where available, falling back to a scalar
// tail for the remainder. Loop shape mirrors go-highway's own
// dequantization kernels: load, multiply, store to a scratch buffer,
// then reduce the buffer with a plain Go loop.
func dotProductF32(a, b []float32) float32 {
	n := len(a)
	lanes := hwy.NumLanes[float32]()
	var sum float32

	i := 0
	if lanes > 1 && n >= lanes {
		buf := make([]float32, lanes)
		for ; i+lanes <= n; i += lanes {
			va := hwy.Load(a[i : i+lanes])
			vb := hwy.Load(b[i : i+lanes])
			prod := hwy.Mul(va, vb)
			hwy.Store(prod, buf)
			for _, v := range buf {
				sum += v
			}
		}
	}
	for ; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

// squaredDistanceF32 computes sum((a[i]-b[i])^2) using the same
// load/subtract/multiply-via-store scratch-buffer idiom as
// dotProductF32.
func squaredDistanceF32(a, b []float32) float32 {
	n := len(a)
	lanes := hwy.NumLanes[float32]()
	var sum float32

	i := 0
	if lanes > 1 && n >= lanes {
		buf := make([]float32, lanes)
		for ; i+lanes <= n; i += lanes {
			va := hwy.Load(a[i : i+lanes])
			vb := hwy.Load(b[i : i+lanes])
			diff := hwy.Sub(va, vb)
			sq := hwy.Mul(diff, diff)
			hwy.Store(sq, buf)
			for _, v := range buf {
				sum += v
			}
		}
	}
	for ; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// float32ToFloat16Bits converts f to the bit pattern of its nearest
// IEEE-754 binary16 representation. Subnormal and overflowing inputs
// flush to signed zero / signed infinity respectively, which is
// acceptable for a quantization scheme already trading precision for
// space.
func float32ToFloat16Bits(f float32) uint16 {
	bits := math.Float32bits(f)
	sign := uint16((bits >> 16) & 0x8000)
	exp := int32((bits>>23)&0xFF) - 127 + 15
	mant := bits & 0x7FFFFF

	switch {
	case exp <= 0:
		return sign
	case exp >= 0x1F:
		return sign | 0x7C00
	default:
		h := sign | uint16(exp)<<10 | uint16(mant>>13)
		if mant&0x1000 != 0 {
			h++ // round to nearest; a mantissa carry bumps the exponent
		}
		return h
	}
}

// float16BitsToFloat32 decodes an IEEE-754 binary16 bit pattern back
// to float32. Grounded on the inline binary16 decode used by
// go-highway's gguf dequantization kernels (sign/exponent/mantissa
// bitfield extraction, bias rebasing by adding 112 to the 5-bit
// exponent before widening to a 23-bit mantissa).
func float16BitsToFloat32(bits uint16) float32 {
	raw := uint32(bits)
	sign := raw >> 15
	exp := (raw >> 10) & 0x1F
	mant := raw & 0x3FF

	if exp == 0 {
		return math.Float32frombits(sign << 31)
	}
	return math.Float32frombits((sign << 31) | ((exp + 112) << 23) | (mant << 13))
}
