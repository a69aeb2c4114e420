package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic int32 sine wave. amplitude is a
// fraction of full scale.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []int32 {
	out := make([]int32, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = int32(amplitude * math.MaxInt32 * math.Sin(step*float64(i)))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude int32, length int) []int32 {
	out := make([]int32, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = int32((rng.Float64()*2 - 1) * float64(amplitude))
	}
	return out
}

// Alternating generates +amplitude, -amplitude, +amplitude, ...
func Alternating(amplitude int32, length int) []int32 {
	out := make([]int32, length)
	for i := range out {
		if i%2 == 0 {
			out[i] = amplitude
		} else {
			out[i] = -amplitude
		}
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value int32, length int) []int32 {
	out := make([]int32, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Clone returns a copy of s.
func Clone(s []int32) []int32 {
	out := make([]int32, len(s))
	copy(out, s)
	return out
}
