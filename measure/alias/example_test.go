package alias_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-rackfx/dsp/window"
	"github.com/cwbudde/algo-rackfx/measure/alias"
)

func ExampleAnalyze() {
	const (
		sampleRate = 48000.0
		size       = 4096
		bin        = 293
	)

	// Hard clipping a coherent sine produces odd harmonics, several of
	// which fold back below Nyquist. bin does not divide size, so the folded
	// partials land between the harmonic bins.
	signal := make([]float64, size)
	for i := range signal {
		x := 3 * math.Sin(2*math.Pi*bin*float64(i)/size)
		signal[i] = math.Max(-1, math.Min(1, x))
	}

	res, err := alias.Analyze(signal, alias.Config{
		SampleRate:      sampleRate,
		FundamentalFreq: bin * sampleRate / size,
		WindowType:      window.TypeHann,
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(res.AliasPower > 0, res.AliasRatio < 1)
	// Output: true true
}
