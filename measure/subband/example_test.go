package subband_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-subharmonic/measure/subband"
)

func ExampleAnalyze() {
	const rate = 48000.0

	// 937.5 Hz and 468.75 Hz fall exactly on bins of a 8192-point FFT.
	samples := make([]int32, 8192)
	for i := range samples {
		x := 0.5*math.Sin(2*math.Pi*937.5*float64(i)/rate) +
			0.05*math.Sin(2*math.Pi*468.75*float64(i)/rate)
		samples[i] = int32(x * math.MaxInt32)
	}

	res, err := subband.Analyze(samples, subband.Config{SampleRate: rate})
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("fundamental %.2f Hz, subharmonic %.2f Hz, ratio %.0f dB\n",
		res.FundamentalHz, res.SubharmonicHz, res.RatioDB)
	// Output:
	// fundamental 937.50 Hz, subharmonic 468.75 Hz, ratio -20 dB
}
