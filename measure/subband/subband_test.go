package subband

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-subharmonic/dsp/buffer"
	"github.com/cwbudde/algo-subharmonic/dsp/effects/subharmonic"
	"github.com/cwbudde/algo-subharmonic/internal/testutil"
)

const (
	testRate = 48000.0
	testSize = 8192
	// Exact bins for testRate/testSize: 160 and 80.
	testFund = 937.5
	testSub  = 468.75
)

func twoTone(fundAmp, subAmp float64) []int32 {
	a := testutil.DeterministicSine(testFund, testRate, fundAmp, testSize)
	b := testutil.DeterministicSine(testSub, testRate, subAmp, testSize)

	out := make([]int32, testSize)
	for i := range out {
		out[i] = a[i] + b[i]
	}

	return out
}

func TestAnalyzeErrors(t *testing.T) {
	_, err := Analyze(nil, Config{SampleRate: testRate})
	if !errors.Is(err, ErrEmptySignal) {
		t.Fatalf("Analyze(nil) error = %v, want ErrEmptySignal", err)
	}

	for _, sr := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err = Analyze([]int32{1, 2, 3}, Config{SampleRate: sr})
		if !errors.Is(err, ErrInvalidSampleRate) {
			t.Fatalf("Analyze(sr=%v) error = %v, want ErrInvalidSampleRate", sr, err)
		}
	}
}

func TestAnalyzeDetectsFundamental(t *testing.T) {
	res, err := Analyze(twoTone(0.5, 0), Config{SampleRate: testRate})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if res.FundamentalHz != testFund {
		t.Fatalf("FundamentalHz = %v, want %v", res.FundamentalHz, testFund)
	}

	if res.SubharmonicHz != testSub {
		t.Fatalf("SubharmonicHz = %v, want %v", res.SubharmonicHz, testSub)
	}

	if res.RatioDB > -80 {
		t.Fatalf("RatioDB = %.2f for a pure tone, want < -80", res.RatioDB)
	}
}

func TestAnalyzeTwoToneRatio(t *testing.T) {
	res, err := Analyze(twoTone(0.5, 0.05), Config{SampleRate: testRate, FundamentalHz: testFund})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if math.Abs(res.RatioDB+20) > 0.1 {
		t.Fatalf("RatioDB = %.3f, want -20", res.RatioDB)
	}
}

func TestAnalyzeSilence(t *testing.T) {
	res, err := Analyze(make([]int32, 1024), Config{SampleRate: testRate, FundamentalHz: 1000})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if !math.IsInf(res.RatioDB, -1) {
		t.Fatalf("RatioDB = %v for silence, want -Inf", res.RatioDB)
	}
}

func TestAnalyzePadsToPowerOfTwo(t *testing.T) {
	in := testutil.DeterministicSine(1000, testRate, 0.5, 3000)

	res, err := Analyze(in, Config{SampleRate: testRate, FFTSize: 3000})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	binHz := testRate / 4096
	if math.Abs(res.FundamentalHz-1000) > binHz {
		t.Fatalf("FundamentalHz = %v, want ~1000", res.FundamentalHz)
	}
}

func TestSubharmonicEffectBoostsBassBand(t *testing.T) {
	const rate = 44100

	in := testutil.DeterministicSine(60, rate, 0.25, 16384)
	cfg := Config{SampleRate: rate, FundamentalHz: 60}

	before, err := Analyze(in, cfg)
	if err != nil {
		t.Fatalf("Analyze(before) error = %v", err)
	}

	fx := subharmonic.New(nil,
		subharmonic.WithSampleRate(rate),
		subharmonic.WithCrossover(150),
		subharmonic.WithLevel(6),
	)
	fx.SetEnabled(true)

	buf := buffer.FromChannels(testutil.Clone(in))
	fx.Process(buf)

	after, err := Analyze(buf.Channels[0], cfg)
	if err != nil {
		t.Fatalf("Analyze(after) error = %v", err)
	}

	if after.FundamentalPower < 2*before.FundamentalPower {
		t.Fatalf("bass power %.3g -> %.3g, want at least doubled",
			before.FundamentalPower, after.FundamentalPower)
	}
}
