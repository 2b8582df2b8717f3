package warp

import "math"

// Shape applies the transfer function of mode m. For every mode and every
// finite x the result lies in [-1, 1]; NaN maps to 0.
func Shape(m Mode, x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}

	switch m {
	case ModeSoftClip:
		return softClip(x)
	case ModeHardClip:
		return hardClip(x)
	case ModeFold:
		return fold(x)
	case ModeAsymmetric:
		return asymmetric(x)
	default:
		return math.Tanh(x)
	}
}

// softClip is the cubic x - x^3/6.75, flat beyond |x| = 1.5.
func softClip(x float64) float64 {
	if x >= 1.5 {
		return 1
	}

	if x <= -1.5 {
		return -1
	}

	return x - x*x*x/6.75
}

func hardClip(x float64) float64 {
	if x > 1 {
		return 1
	}

	if x < -1 {
		return -1
	}

	return x
}

// fold is a sine wavefolder with unit slope at the origin.
func fold(x float64) float64 {
	if math.IsInf(x, 0) {
		return 0
	}

	return math.Sin(x)
}

// asymmetric is a diode-like curve: the negative half saturates with half
// the slope of the positive half.
func asymmetric(x float64) float64 {
	if x >= 0 {
		return -math.Expm1(-x)
	}

	return math.Expm1(0.5 * x)
}
