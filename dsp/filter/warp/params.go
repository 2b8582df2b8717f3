package warp

import (
	"fmt"
	"math"
)

// Control ranges. Values outside are clamped by Cook.
const (
	MinCutoffHz = 20.0
	MaxCutoffHz = 20000.0
	MinHeat     = 0.0
	MaxHeat     = 1.0
	MinWidth    = 0.0
	MaxWidth    = 1.0
	MinDriveDB  = -12.0
	MaxDriveDB  = 24.0

	defaultCutoffHz = 1000.0
	defaultHeat     = 0.25
	defaultWidth    = 0.5
	defaultDriveDB  = 0.0
)

// Mode selects the saturating transfer function.
type Mode int

const (
	ModeTanh Mode = iota
	ModeSoftClip
	ModeHardClip
	ModeFold
	ModeAsymmetric

	// NumModes is the number of available modes.
	NumModes = int(ModeAsymmetric) + 1
)

func (m Mode) String() string {
	switch m {
	case ModeTanh:
		return "tanh"
	case ModeSoftClip:
		return "soft_clip"
	case ModeHardClip:
		return "hard_clip"
	case ModeFold:
		return "fold"
	case ModeAsymmetric:
		return "asymmetric"
	default:
		return "unknown"
	}
}

// Params is the set of slow-varying control values. Mode is continuous
// because hosts deliver it from a knob; Cook rounds it to a Mode.
type Params struct {
	CutoffHz float64
	Heat     float64
	Width    float64
	DriveDB  float64
	Mode     float64
}

// DefaultParams returns a neutral starting point.
func DefaultParams() Params {
	return Params{
		CutoffHz: defaultCutoffHz,
		Heat:     defaultHeat,
		Width:    defaultWidth,
		DriveDB:  defaultDriveDB,
		Mode:     float64(ModeTanh),
	}
}

// Clamped returns p limited to the control ranges. NaN fields fall back to
// their defaults.
func (p Params) Clamped() Params {
	return Params{
		CutoffHz: clampOr(p.CutoffHz, MinCutoffHz, MaxCutoffHz, defaultCutoffHz),
		Heat:     clampOr(p.Heat, MinHeat, MaxHeat, defaultHeat),
		Width:    clampOr(p.Width, MinWidth, MaxWidth, defaultWidth),
		DriveDB:  clampOr(p.DriveDB, MinDriveDB, MaxDriveDB, defaultDriveDB),
		Mode:     clampOr(p.Mode, 0, float64(NumModes-1), 0),
	}
}

// ModeValue returns the rounded, clamped Mode.
func (p Params) ModeValue() Mode {
	return Mode(math.Round(clampOr(p.Mode, 0, float64(NumModes-1), 0)))
}

func clampOr(v, lo, hi, fallback float64) float64 {
	if math.IsNaN(v) {
		return fallback
	}

	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}

// ParseMode returns the Mode whose String form is name.
func ParseMode(name string) (Mode, error) {
	for m := range NumModes {
		if Mode(m).String() == name {
			return Mode(m), nil
		}
	}

	return ModeTanh, fmt.Errorf("warp: unknown mode %q", name)
}
