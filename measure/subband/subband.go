package subband

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-subharmonic/dsp/window"
)

const (
	defaultCaptureBins = 2
	defaultLowerHz     = 20.0

	// fullScale maps an int32 sample to [-1, 1).
	fullScale = 1.0 / (1 << 31)
)

var (
	// ErrEmptySignal is returned when there is nothing to analyze.
	ErrEmptySignal = errors.New("empty signal")
	// ErrInvalidSampleRate is returned for non-positive or non-finite rates.
	ErrInvalidSampleRate = errors.New("invalid sample rate")
)

// Config holds analysis parameters.
type Config struct {
	SampleRate float64
	// FFTSize is rounded up to a power of two. Zero selects the next power of
	// two at or above the signal length.
	FFTSize int
	// FundamentalHz pins the fundamental. Zero searches for the strongest bin
	// above 20 Hz.
	FundamentalHz float64
	// CaptureBins is the half-width of each summed band. Zero selects 2.
	CaptureBins int
}

// Result holds the measured band powers.
type Result struct {
	FundamentalHz    float64
	SubharmonicHz    float64
	FundamentalPower float64
	SubharmonicPower float64
	// RatioDB is 10*log10(SubharmonicPower/FundamentalPower).
	RatioDB float64
}

// Analyze computes fundamental and half-frequency band power of samples.
func Analyze(samples []int32, cfg Config) (Result, error) {
	if len(samples) == 0 {
		return Result{}, ErrEmptySignal
	}

	if cfg.SampleRate <= 0 || math.IsNaN(cfg.SampleRate) || math.IsInf(cfg.SampleRate, 0) {
		return Result{}, fmt.Errorf("%w: %f", ErrInvalidSampleRate, cfg.SampleRate)
	}

	cfg = normalizeConfig(cfg, len(samples))

	power, err := powerSpectrum(samples, cfg.FFTSize)
	if err != nil {
		return Result{}, err
	}

	maxBin := len(power) - 1
	binHz := cfg.SampleRate / float64(cfg.FFTSize)

	fundBin := fundamentalBin(power, cfg.FundamentalHz, binHz)
	fundHz := cfg.FundamentalHz
	if fundHz <= 0 {
		fundHz = float64(fundBin) * binHz
	}

	subBin := clampInt(int(math.Round(fundHz/2/binHz)), 0, maxBin)

	res := Result{
		FundamentalHz:    float64(fundBin) * binHz,
		SubharmonicHz:    float64(subBin) * binHz,
		FundamentalPower: bandPower(power, fundBin, cfg.CaptureBins),
		SubharmonicPower: bandPower(power, subBin, cfg.CaptureBins),
	}

	switch {
	case res.FundamentalPower > 0:
		res.RatioDB = 10 * math.Log10(res.SubharmonicPower/res.FundamentalPower)
	case res.SubharmonicPower > 0:
		res.RatioDB = math.Inf(1)
	default:
		res.RatioDB = math.Inf(-1)
	}

	return res, nil
}

// powerSpectrum returns |X[k]|^2 for k in [0, size/2].
func powerSpectrum(samples []int32, size int) ([]float64, error) {
	n := min(len(samples), size)

	raw := make([]float64, n)
	for i := range raw {
		raw[i] = float64(samples[i])
	}

	// The window carries the full-scale factor.
	win, err := window.Hann(n, window.WithPeriodic())
	if err != nil {
		return nil, fmt.Errorf("subband: %w", err)
	}
	floats.Scale(fullScale, win)

	windowed := make([]float64, n)
	vecmath.MulBlock(windowed, raw, win)

	in := make([]complex128, size)
	for i, v := range windowed {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("subband: fft plan of size %d: %w", size, err)
	}

	out := make([]complex128, size)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("subband: forward fft: %w", err)
	}

	bins := size/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)

	for i := range bins {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	power := make([]float64, bins)
	vecmath.Power(power, re, im)

	return power, nil
}

func fundamentalBin(power []float64, fundamentalHz, binHz float64) int {
	maxBin := len(power) - 1

	if fundamentalHz > 0 {
		return clampInt(int(math.Round(fundamentalHz/binHz)), 0, maxBin)
	}

	lower := clampInt(int(math.Ceil(defaultLowerHz/binHz)), 1, maxBin)

	return lower + floats.MaxIdx(power[lower:])
}

func bandPower(power []float64, center, halfWidth int) float64 {
	maxBin := len(power) - 1
	lo := clampInt(center-halfWidth, 0, maxBin)
	hi := clampInt(center+halfWidth, 0, maxBin)

	return floats.Sum(power[lo : hi+1])
}

func normalizeConfig(cfg Config, length int) Config {
	if cfg.FFTSize <= 0 {
		cfg.FFTSize = length
	}

	cfg.FFTSize = max(nextPowerOf2(cfg.FFTSize), 2)

	if cfg.CaptureBins <= 0 {
		cfg.CaptureBins = defaultCaptureBins
	}

	if cfg.FundamentalHz < 0 || math.IsNaN(cfg.FundamentalHz) {
		cfg.FundamentalHz = 0
	}

	return cfg
}

func clampInt(val, lo, hi int) int {
	if val < lo {
		return lo
	}

	if val > hi {
		return hi
	}

	return val
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
