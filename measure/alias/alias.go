package alias

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-rackfx/dsp/window"
	"github.com/cwbudde/algo-vecmath"
)

const (
	defaultMaxHarmonics = 32
	minFFTSize          = 16
)

// Config holds alias analysis parameters.
type Config struct {
	SampleRate      float64
	FundamentalFreq float64
	// MaxHarmonics bounds the harmonic index considered, fundamental
	// included. Zero selects 32.
	MaxHarmonics int
	// CaptureBins is the half width, in bins, summed around each partial.
	// Zero derives it from WindowType.
	CaptureBins int
	WindowType  window.Type
}

// Result holds alias analysis results. Powers are summed squared
// magnitudes of the windowed spectrum.
type Result struct {
	FundamentalFreq  float64
	FundamentalPower float64
	HarmonicPower    float64
	AliasPower       float64
	ResidualPower    float64
	// AliasRatio is AliasPower over fundamental plus in-band harmonic power.
	AliasRatio   float64
	AliasRatioDB float64
}

// Analyze windows signal, transforms it and splits its energy into the
// fundamental, in-band harmonics, folded harmonics and everything else.
// len(signal) must be a power of two of at least 16.
//
// In-band harmonics are claimed before folded ones, so a folded partial that
// lands on a harmonic bin is counted as harmonic power. When the fundamental
// divides the sample rate every folded partial does, and AliasPower is 0.
func Analyze(signal []float64, cfg Config) (Result, error) {
	if err := validate(signal, cfg); err != nil {
		return Result{}, err
	}

	if cfg.WindowType == window.TypeRectangular && cfg.CaptureBins == 0 {
		cfg.CaptureBins = 1
	}

	if cfg.CaptureBins <= 0 {
		cfg.CaptureBins = captureBinsByType(cfg.WindowType)
	}

	if cfg.MaxHarmonics <= 0 {
		cfg.MaxHarmonics = defaultMaxHarmonics
	}

	power, err := powerSpectrum(signal, cfg.WindowType)
	if err != nil {
		return Result{}, err
	}

	n := len(signal)
	binHz := cfg.SampleRate / float64(n)
	nyquist := cfg.SampleRate / 2
	used := make([]bool, len(power))

	// DC leakage is not a partial.
	for i := 0; i <= cfg.CaptureBins && i < len(used); i++ {
		used[i] = true
	}

	var res Result
	res.FundamentalFreq = cfg.FundamentalFreq
	res.FundamentalPower = collect(power, used, binOf(cfg.FundamentalFreq, binHz), cfg.CaptureBins)

	for k := 2; k <= cfg.MaxHarmonics; k++ {
		f := float64(k) * cfg.FundamentalFreq
		if f > nyquist {
			continue
		}

		res.HarmonicPower += collect(power, used, binOf(f, binHz), cfg.CaptureBins)
	}

	for k := 2; k <= cfg.MaxHarmonics; k++ {
		f := float64(k) * cfg.FundamentalFreq
		if f <= nyquist {
			continue
		}

		res.AliasPower += collect(power, used, binOf(fold(f, cfg.SampleRate), binHz), cfg.CaptureBins)
	}

	for i, p := range power {
		if !used[i] {
			res.ResidualPower += p
		}
	}

	if wanted := res.FundamentalPower + res.HarmonicPower; wanted > 0 {
		res.AliasRatio = res.AliasPower / wanted
	}

	res.AliasRatioDB = ratioToDB(res.AliasRatio)

	return res, nil
}

func validate(signal []float64, cfg Config) error {
	n := len(signal)
	if n < minFFTSize || n&(n-1) != 0 {
		return fmt.Errorf("alias: signal length must be a power of two >= %d: %d", minFFTSize, n)
	}

	if cfg.SampleRate <= 0 || math.IsNaN(cfg.SampleRate) || math.IsInf(cfg.SampleRate, 0) {
		return fmt.Errorf("alias: sample rate must be > 0 and finite: %v", cfg.SampleRate)
	}

	f0 := cfg.FundamentalFreq
	if !(f0 > 0) || f0 >= cfg.SampleRate/2 {
		return fmt.Errorf("alias: fundamental must be in (0, %g): %v", cfg.SampleRate/2, f0)
	}

	return nil
}

func powerSpectrum(signal []float64, winType window.Type) ([]float64, error) {
	n := len(signal)

	coeffs := window.Generate(winType, n, window.WithPeriodic())

	windowed, err := window.ApplyCoefficients(signal, coeffs)
	if err != nil {
		return nil, fmt.Errorf("alias: %w", err)
	}

	in := make([]complex128, n)
	for i, v := range windowed {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("alias: fft plan: %w", err)
	}

	out := make([]complex128, n)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("alias: fft: %w", err)
	}

	bins := n/2 + 1
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

// collect sums the unclaimed bins within width of center and claims them.
func collect(power []float64, used []bool, center, width int) float64 {
	lo := max(center-width, 0)
	hi := min(center+width, len(power)-1)

	sum := 0.0

	for i := lo; i <= hi; i++ {
		if used[i] {
			continue
		}

		sum += power[i]
		used[i] = true
	}

	return sum
}

// fold maps a frequency above Nyquist to where it lands after sampling.
func fold(freq, sampleRate float64) float64 {
	f := math.Mod(freq, sampleRate)
	if f > sampleRate/2 {
		f = sampleRate - f
	}

	return f
}

func binOf(freq, binHz float64) int {
	return int(math.Round(freq / binHz))
}

func captureBinsByType(t window.Type) int {
	switch t {
	case window.TypeRectangular:
		return 1
	case window.TypeHann, window.TypeHamming:
		return 2
	case window.TypeBlackman:
		return 3
	case window.TypeBlackmanHarris4Term:
		return 4
	default:
		return 2
	}
}

func ratioToDB(ratio float64) float64 {
	if ratio <= 0 {
		return math.Inf(-1)
	}

	return 10 * math.Log10(ratio)
}
