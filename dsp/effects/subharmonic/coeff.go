package subharmonic

import "github.com/cwbudde/algo-subharmonic/dsp/fixed"

// twoPiQ16 is 2*pi in Q16, truncated.
const twoPiQ16 = 411774

// MaxCrossoverHz bounds the cutoff so that the shifted numerator fits in int64.
const MaxCrossoverHz = 1 << 20

// ComputeAlpha returns the Q16 one-pole low-pass coefficient
//
//	alpha = w / (w + fs),  w = 2*pi*fc
//
// evaluated in 64-bit fixed point. Negative cutoffs are treated as 0 and a
// non-positive sample rate yields 0. A non-positive denominator is replaced
// by 1.
func ComputeAlpha(cutoffHz, sampleRate int) int32 {
	// Checked before the den guard, which alone would give One for fc > 0.
	if sampleRate <= 0 {
		return 0
	}

	cutoffHz = fixed.Clamp(cutoffHz, 0, MaxCrossoverHz)

	w := int64(cutoffHz) * twoPiQ16

	den := w + int64(sampleRate)<<fixed.FracBits
	if den <= 0 {
		den = 1
	}

	return int32((w << fixed.FracBits) / den)
}

// LowPass runs one step of y = alpha*x + (1-alpha)*prev.
func LowPass(alpha, x, prev int32) int32 {
	return fixed.Blend(alpha, x, prev)
}
