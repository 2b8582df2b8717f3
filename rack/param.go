package rack

import (
	"fmt"
	"math"
	"sync/atomic"
)

// ParamConfig describes one host parameter. Values written through a Param
// are clamped into [Min, Max] before they become visible to the audio thread.
type ParamConfig struct {
	Name    string
	Unit    string
	Min     float64
	Max     float64
	Default float64
}

// Validate reports configuration errors.
func (c ParamConfig) Validate() error {
	if math.IsNaN(c.Min) || math.IsNaN(c.Max) || math.IsNaN(c.Default) {
		return fmt.Errorf("rack: param %q: range must not contain NaN", c.Name)
	}

	if c.Min > c.Max {
		return fmt.Errorf("rack: param %q: min %g > max %g", c.Name, c.Min, c.Max)
	}

	if c.Default < c.Min || c.Default > c.Max {
		return fmt.Errorf("rack: param %q: default %g outside [%g, %g]", c.Name, c.Default, c.Min, c.Max)
	}

	return nil
}

// Clamp limits v to the configured range. NaN maps to Default.
func (c ParamConfig) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return c.Default
	}

	if v < c.Min {
		return c.Min
	}

	if v > c.Max {
		return c.Max
	}

	return v
}

// Param is a lock-free control value shared between the UI thread and the
// audio thread.
type Param struct {
	cfg  ParamConfig
	bits atomic.Uint64
}

// NewParam creates a Param holding cfg.Default.
func NewParam(cfg ParamConfig) (*Param, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Param{cfg: cfg}
	p.bits.Store(math.Float64bits(cfg.Default))

	return p, nil
}

// Config returns the parameter metadata.
func (p *Param) Config() ParamConfig { return p.cfg }

// Value returns the current value. Safe on the audio thread.
func (p *Param) Value() float64 {
	return math.Float64frombits(p.bits.Load())
}

// SetValue clamps and stores v. Safe from any thread.
func (p *Param) SetValue(v float64) {
	p.bits.Store(math.Float64bits(p.cfg.Clamp(v)))
}

// SetNormalized stores a value given in [0, 1] across the configured range.
func (p *Param) SetNormalized(n float64) {
	p.SetValue(p.cfg.Min + n*(p.cfg.Max-p.cfg.Min))
}

// Normalized returns the current value mapped to [0, 1].
func (p *Param) Normalized() float64 {
	span := p.cfg.Max - p.cfg.Min
	if span <= 0 {
		return 0
	}

	return (p.Value() - p.cfg.Min) / span
}

// Reset restores the default value.
func (p *Param) Reset() {
	p.bits.Store(math.Float64bits(p.cfg.Default))
}
