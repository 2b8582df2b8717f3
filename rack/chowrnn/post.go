package chowrnn

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-rackfx/dsp/core"
	"github.com/cwbudde/algo-rackfx/dsp/filter/biquad"
	"github.com/cwbudde/algo-rackfx/dsp/filter/design"
)

const (
	// DCBlockerHz is the DC blocker cutoff.
	DCBlockerHz = 30.0

	// MaxMakeupGain is the makeup gain with one or no input patched.
	MaxMakeupGain = 4.0
)

// MakeupGain returns 4/max(1, connected).
func MakeupGain(connected int) float64 {
	return MaxMakeupGain / float64(max(1, connected))
}

// PostProcessor removes DC from the network output and applies makeup gain.
type PostProcessor struct {
	sampleRate float64
	dcBlocker  *biquad.Section
}

// NewPostProcessor returns a post processor for sampleRate.
func NewPostProcessor(sampleRate float64) (*PostProcessor, error) {
	p := &PostProcessor{dcBlocker: biquad.NewSection(biquad.Coefficients{})}
	if err := p.SetSampleRate(sampleRate); err != nil {
		return nil, err
	}

	return p, nil
}

// SampleRate returns the current sample rate in Hz.
func (p *PostProcessor) SampleRate() float64 { return p.sampleRate }

// SetSampleRate recomputes the DC blocker. Its state is kept.
func (p *PostProcessor) SetSampleRate(sampleRate float64) error {
	if !validSampleRate(sampleRate) {
		return fmt.Errorf("chowrnn: sample rate must be > %g and finite: %v", 2*DCBlockerHz, sampleRate)
	}

	p.sampleRate = sampleRate
	p.dcBlocker.Coefficients = design.Highpass(DCBlockerHz, design.DefaultQ, sampleRate)

	return nil
}

// Process filters y and scales it by MakeupGain(connected).
func (p *PostProcessor) Process(y float64, connected int) float64 {
	return p.dcBlocker.ProcessSample(y) * MakeupGain(connected)
}

// ProcessBlock filters buf in place and scales it by MakeupGain(connected).
// The result matches calling Process on every element.
func (p *PostProcessor) ProcessBlock(buf []float64, connected int) {
	p.dcBlocker.ProcessBlock(buf)
	vecmath.ScaleBlockInPlace(buf, MakeupGain(connected))
}

// Reset clears the DC blocker state.
func (p *PostProcessor) Reset() {
	p.dcBlocker.Reset()
}

func validSampleRate(sampleRate float64) bool {
	return core.IsFinite(sampleRate) && sampleRate > 2*DCBlockerHz
}
