package warp

import (
	"math"

	"github.com/cwbudde/algo-rackfx/dsp/core"
)

const (
	// ParamDivide is the number of audio samples between two Cook calls in
	// the host module.
	ParamDivide = 16

	maxCutoffRatio = 0.45
	minDamping     = 0.1
	minKnee        = 0.25
	maxKnee        = 2.0
	maxHeatGain    = 5.0
)

// Coefficients is everything the per-sample loop needs, derived from Params
// and the loop's sample rate. It is a value: Cook builds a new one and the
// filter replaces its copy wholesale.
type Coefficients struct {
	// G is the prewarped integrator gain tan(pi*fc/fs).
	G float64
	// K is the SVF damping (2 = no resonance).
	K float64
	// A1, A2, A3 are the precomputed TPT SVF solve terms.
	A1, A2, A3 float64

	InputGain  float64
	OutputTrim float64
	Knee       float64
	HeatGain   float64
	Mode       Mode
}

// Cook derives coefficients for a filter loop running at sampleRate (the
// oversampled rate when oversampling is on). It is pure and allocation
// free: equal inputs give bit-identical outputs. Params are clamped first,
// so any value, stale or torn, yields a stable coefficient set. A
// non-positive or non-finite sampleRate yields silent coefficients.
func Cook(p Params, sampleRate float64) Coefficients {
	if !core.IsFinite(sampleRate) || sampleRate <= 0 {
		return silentCoefficients()
	}

	p = p.Clamped()

	fc := math.Min(p.CutoffHz, maxCutoffRatio*sampleRate)
	g := math.Tan(math.Pi * fc / sampleRate)
	k := 2 - (2-minDamping)*p.Heat

	a1 := 1 / (1 + g*(g+k))
	a2 := g * a1
	a3 := g * a2

	inGain := core.DBToLinear(p.DriveDB)

	return Coefficients{
		G:          g,
		K:          k,
		A1:         a1,
		A2:         a2,
		A3:         a3,
		InputGain:  inGain,
		OutputTrim: 1 / math.Sqrt(math.Max(1, inGain)),
		Knee:       minKnee + (maxKnee-minKnee)*p.Width,
		HeatGain:   1 + (maxHeatGain-1)*p.Heat,
		Mode:       p.ModeValue(),
	}
}

func silentCoefficients() Coefficients {
	return Coefficients{
		K:        2,
		A1:       1,
		Knee:     minKnee,
		HeatGain: 1,
	}
}
