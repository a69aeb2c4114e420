package fixed

import (
	"cmp"
	"math"
)

// FracBits is the number of fractional bits in a Q16 value.
const FracBits = 16

// One is 1.0 in Q16.
const One int32 = 1 << FracBits

// Sample range of the 32-bit host buffers.
const (
	MaxSample = math.MaxInt32
	MinSample = math.MinInt32
)

// Mul multiplies a Q16 coefficient with a sample and shifts the product back
// to sample scale. The product is accumulated in 64 bits; the shift is
// arithmetic, so results are truncated toward negative infinity.
func Mul(q, x int32) int64 {
	return (int64(q) * int64(x)) >> FracBits
}

// Blend returns q*a + (One-q)*b in Q16, shifted back to sample scale.
// Both products share one 64-bit accumulator before the shift.
func Blend(q, a, b int32) int32 {
	acc := int64(q)*int64(a) + int64(One-q)*int64(b)
	return int32(acc >> FracBits)
}

// Saturate clamps a wide accumulator to the int32 sample range.
func Saturate(v int64) int32 {
	if v > MaxSample {
		return MaxSample
	}

	if v < MinSample {
		return MinSample
	}

	return int32(v)
}

// Clamp limits value to the inclusive range [lo, hi].
func Clamp[T cmp.Ordered](value, lo, hi T) T {
	if lo > hi {
		lo, hi = hi, lo
	}

	return min(max(value, lo), hi)
}

// FromFloat converts f to Q16, truncating toward zero.
func FromFloat(f float64) int32 {
	return int32(f * float64(One))
}

// ToFloat converts a Q16 value to float64.
func ToFloat(q int32) float64 {
	return float64(q) / float64(One)
}
