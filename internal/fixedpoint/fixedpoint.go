// Package fixedpoint implements a deterministic fixed-point scalar used
// throughout the simulation in place of floating point.
package fixedpoint

import (
	"encoding/binary"
	"math"
)

// FixedPoint is a signed 64-bit fixed-point number with 12 fractional bits,
// equivalent to Rust's FixedI64<U12>.
type FixedPoint int64

// Frac is the number of fractional bits.
const Frac = 12

// Scale is 2^Frac, the integer value representing 1.0.
const Scale FixedPoint = 1 << Frac

// Zero is the additive identity.
const Zero FixedPoint = 0

// One is 1.0 in fixed-point representation.
const One FixedPoint = Scale

// FromInt converts a whole number into fixed-point.
func FromInt(n int64) FixedPoint {
	return FixedPoint(n) * Scale
}

// FromFloat64 converts a float64 into fixed-point, rounding to the nearest
// representable value with ties rounding to even. Conversion from float is
// only ever performed at system boundaries (input capture, rendering),
// never inside simulation logic.
func FromFloat64(f float64) FixedPoint {
	scaled := f * float64(Scale)
	return FixedPoint(roundTiesToEven(scaled))
}

// Float64 converts fixed-point back to a float64, for rendering.
func (f FixedPoint) Float64() float64 {
	return float64(f) / float64(Scale)
}

// Add returns f+g.
func (f FixedPoint) Add(g FixedPoint) FixedPoint {
	return f + g
}

// Sub returns f-g.
func (f FixedPoint) Sub(g FixedPoint) FixedPoint {
	return f - g
}

// Mul returns f*g, truncating toward zero.
func (f FixedPoint) Mul(g FixedPoint) FixedPoint {
	product := int64(f) * int64(g)
	return FixedPoint(product / int64(Scale))
}

// Div returns f/g, truncating toward zero. Panics if g is zero: division by
// zero is a programmer error, not a recoverable runtime condition.
func (f FixedPoint) Div(g FixedPoint) FixedPoint {
	if g == 0 {
		panic("fixedpoint: division by zero")
	}
	numerator := int64(f) << Frac
	return FixedPoint(numerator / int64(g))
}

// Neg returns -f.
func (f FixedPoint) Neg() FixedPoint {
	return -f
}

// Abs returns the absolute value of f.
func (f FixedPoint) Abs() FixedPoint {
	if f < 0 {
		return -f
	}
	return f
}

// Bytes encodes f into its canonical 8-byte big-endian form.
func (f FixedPoint) Bytes() [8]byte {
	var out [8]byte
	binary.BigEndian.PutUint64(out[:], uint64(f))
	return out
}

// FromBytes decodes the canonical 8-byte big-endian form produced by Bytes.
func FromBytes(b [8]byte) FixedPoint {
	return FixedPoint(binary.BigEndian.Uint64(b[:]))
}

func roundTiesToEven(f float64) int64 {
	rounded := math.RoundToEven(f)
	return int64(rounded)
}
