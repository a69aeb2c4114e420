package fixed

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		value    int
		lo       int
		hi       int
		expected int
	}{
		{name: "inside", value: 5, lo: 0, hi: 10, expected: 5},
		{name: "below", value: -1, lo: 0, hi: 10, expected: 0},
		{name: "above", value: 20, lo: 0, hi: 10, expected: 10},
		{name: "swapped", value: 20, lo: 10, hi: 0, expected: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.value, tt.lo, tt.hi)
			if got != tt.expected {
				t.Fatalf("Clamp() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSaturate(t *testing.T) {
	tests := []struct {
		in   int64
		want int32
	}{
		{0, 0},
		{12345, 12345},
		{math.MaxInt32, math.MaxInt32},
		{math.MaxInt32 + 1, math.MaxInt32},
		{math.MinInt32, math.MinInt32},
		{math.MinInt32 - 1, math.MinInt32},
		{math.MaxInt64, math.MaxInt32},
		{math.MinInt64, math.MinInt32},
	}

	for _, tt := range tests {
		if got := Saturate(tt.in); got != tt.want {
			t.Fatalf("Saturate(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestMulTruncatesTowardNegativeInfinity(t *testing.T) {
	half := One / 2

	if got := Mul(half, 3); got != 1 {
		t.Fatalf("Mul(0.5, 3) = %d, want 1", got)
	}

	if got := Mul(half, -3); got != -2 {
		t.Fatalf("Mul(0.5, -3) = %d, want -2", got)
	}

	if got := Mul(One, math.MaxInt32); got != math.MaxInt32 {
		t.Fatalf("Mul(1.0, MaxInt32) = %d, want MaxInt32", got)
	}
}

func TestMulWideProduct(t *testing.T) {
	// 4.0 * MaxInt32 overflows int32 but must survive in the wide result.
	got := Mul(4*One, math.MaxInt32)

	want := int64(math.MaxInt32) * 4
	if got != want {
		t.Fatalf("Mul(4.0, MaxInt32) = %d, want %d", got, want)
	}
}

func TestBlend(t *testing.T) {
	if got := Blend(One, 1000, -1000); got != 1000 {
		t.Fatalf("Blend(1, a, b) = %d, want a", got)
	}

	if got := Blend(0, 1000, -1000); got != -1000 {
		t.Fatalf("Blend(0, a, b) = %d, want b", got)
	}

	if got := Blend(One/2, math.MaxInt32, math.MaxInt32); got != math.MaxInt32 {
		t.Fatalf("Blend(0.5, max, max) = %d, want max", got)
	}

	if got := Blend(One/4, math.MinInt32, math.MinInt32); got != math.MinInt32 {
		t.Fatalf("Blend(0.25, min, min) = %d, want min", got)
	}
}

func TestFloatConversions(t *testing.T) {
	if got := FromFloat(1); got != One {
		t.Fatalf("FromFloat(1) = %d, want %d", got, One)
	}

	if got := FromFloat(6.283185307179586); got != 411774 {
		t.Fatalf("FromFloat(2pi) = %d, want 411774", got)
	}

	if got := ToFloat(One / 4); got != 0.25 {
		t.Fatalf("ToFloat(0.25) = %v, want 0.25", got)
	}
}
