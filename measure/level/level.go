package level

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const fullScale = 1.0 / (1 << 31)

// Stats holds level statistics relative to int32 full scale.
//
//nolint:revive
type Stats struct {
	Length  int
	DC      float64 // mean, full scale = 1
	RMS     float64
	RMS_dB  float64
	Peak    float64 // max(|max|, |min|)
	Peak_dB float64
	// Clipped counts samples equal to math.MaxInt32 or math.MinInt32.
	Clipped int
}

// Meter accumulates Stats over blocks. The zero value is ready to use.
type Meter struct {
	n       int
	sum     float64
	sumSq   float64
	peak    float64
	clipped int
	scratch []float64
}

// Update adds a block of samples.
func (m *Meter) Update(samples []int32) {
	if len(samples) == 0 {
		return
	}

	if cap(m.scratch) < len(samples) {
		m.scratch = make([]float64, len(samples))
	}

	x := m.scratch[:len(samples)]
	for i, v := range samples {
		x[i] = float64(v)
		if v == math.MaxInt32 || v == math.MinInt32 {
			m.clipped++
		}
	}
	floats.Scale(fullScale, x)

	m.n += len(x)
	m.sum += floats.Sum(x)
	m.sumSq += floats.Dot(x, x)
	m.peak = math.Max(m.peak, math.Max(floats.Max(x), -floats.Min(x)))
}

// Result returns the statistics accumulated so far.
func (m *Meter) Result() Stats {
	if m.n == 0 {
		return Stats{RMS_dB: math.Inf(-1), Peak_dB: math.Inf(-1)}
	}

	rms := math.Sqrt(m.sumSq / float64(m.n))

	return Stats{
		Length:  m.n,
		DC:      m.sum / float64(m.n),
		RMS:     rms,
		RMS_dB:  ampTodB(rms),
		Peak:    m.peak,
		Peak_dB: ampTodB(m.peak),
		Clipped: m.clipped,
	}
}

// Reset clears the accumulated data.
func (m *Meter) Reset() {
	*m = Meter{scratch: m.scratch}
}

// Measure is a one-shot Update plus Result.
func Measure(samples []int32) Stats {
	var m Meter
	m.Update(samples)
	return m.Result()
}

// ampTodB returns 20*log10(|v|), or -Inf for zero.
func ampTodB(v float64) float64 {
	a := math.Abs(v)
	if a == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(a)
}
