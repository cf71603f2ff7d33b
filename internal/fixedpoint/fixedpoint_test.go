package fixedpoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromIntAndFloat64(t *testing.T) {
	assert.Equal(t, FixedPoint(3*4096), FromInt(3))
	assert.Equal(t, float64(3), FromInt(3).Float64())
}

func TestFromFloat64RoundTripsExactValues(t *testing.T) {
	f := FromFloat64(1.5)
	assert.Equal(t, 1.5, f.Float64())
}

func TestFromFloat64RoundsTiesToEven(t *testing.T) {
	// 0.5/4096 chosen so the scaled value lands exactly on a tie.
	half := FixedPoint(1)
	lowTie := float64(half) / 2 / float64(Scale)
	got := FromFloat64(lowTie)
	assert.Equal(t, FixedPoint(0), got)
}

func TestAddSub(t *testing.T) {
	a := FromInt(5)
	b := FromInt(3)
	assert.Equal(t, FromInt(8), a.Add(b))
	assert.Equal(t, FromInt(2), a.Sub(b))
}

func TestMulTruncatesTowardZero(t *testing.T) {
	a := FromFloat64(1.5)
	b := FromFloat64(2.0)
	assert.Equal(t, FromFloat64(3.0), a.Mul(b))

	neg := FromFloat64(-1.5)
	got := neg.Mul(FromFloat64(1.0))
	assert.Equal(t, neg, got)
}

func TestDivTruncatesTowardZero(t *testing.T) {
	a := FromInt(7)
	b := FromInt(2)
	assert.Equal(t, FromFloat64(3.5), a.Div(b))

	neg := FromInt(-7)
	got := neg.Div(b)
	assert.Equal(t, FromFloat64(-3.5), got)
}

func TestDivByZeroPanics(t *testing.T) {
	require.Panics(t, func() {
		FromInt(1).Div(Zero)
	})
}

func TestBytesRoundTrip(t *testing.T) {
	values := []FixedPoint{0, 1, -1, FromInt(12345), FromInt(-99999), FromFloat64(3.14159)}
	for _, v := range values {
		got := FromBytes(v.Bytes())
		assert.Equal(t, v, got)
	}
}

func TestAbsNeg(t *testing.T) {
	v := FromInt(-5)
	assert.Equal(t, FromInt(5), v.Abs())
	assert.Equal(t, FromInt(5), v.Neg())
}
