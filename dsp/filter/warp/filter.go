package warp

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-rackfx/dsp/core"
	"github.com/cwbudde/algo-rackfx/dsp/filter/biquad"
	"github.com/cwbudde/algo-rackfx/dsp/filter/design"
)

const (
	defaultOversampling = 2

	// OutputLimit bounds every sample returned by ProcessSample.
	OutputLimit = 4.0

	stateLimit     = 32.0
	antiAliasRatio = 0.45
	antiAliasOrder = 4

	// blockChunk is the number of host samples ProcessInPlace oversamples
	// per pass through the anti-alias chains.
	blockChunk = 64
)

// Option mutates constructor configuration.
type Option func(*config) error

type config struct {
	sampleRate   float64
	overSampling int
	params       Params
}

func defaultConfig() config {
	return config{
		overSampling: defaultOversampling,
		params:       DefaultParams(),
	}
}

// WithSampleRate makes the filter Ready at construction.
func WithSampleRate(sampleRate float64) Option {
	return func(cfg *config) error {
		if err := validateSampleRate(sampleRate); err != nil {
			return err
		}

		cfg.sampleRate = sampleRate

		return nil
	}
}

// WithOversampling sets the nonlinear oversampling factor. Allowed values:
// 1, 2, 4, 8.
func WithOversampling(factor int) Option {
	return func(cfg *config) error {
		if !validOversampling(factor) {
			return fmt.Errorf("warp: oversampling factor must be one of {1,2,4,8}: %d", factor)
		}

		cfg.overSampling = factor

		return nil
	}
}

// WithParams sets the initial control values.
func WithParams(p Params) Option {
	return func(cfg *config) error {
		cfg.params = p
		return nil
	}
}

// State is the per-instance history of the filter loop.
type State struct {
	IC1       float64
	IC2       float64
	PrevInput float64
}

// Filter is the Warp nonlinear filter. A Filter without a sample rate is
// Idle and outputs silence; SetSampleRate moves it to Ready.
type Filter struct {
	sampleRate   float64
	overSampling int
	ready        bool

	params Params
	coeffs Coefficients
	state  State

	antiAliasUp   *biquad.Chain
	antiAliasDown *biquad.Chain

	// oversampled holds one chunk at CoreRate for ProcessInPlace.
	oversampled []float64
}

// New constructs a Warp filter.
func New(opts ...Option) (*Filter, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	f := &Filter{
		overSampling: cfg.overSampling,
		params:       cfg.params,
		coeffs:       silentCoefficients(),
	}

	if cfg.sampleRate > 0 {
		if err := f.SetSampleRate(cfg.sampleRate); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// SampleRate returns the host sample rate in Hz, or 0 while Idle.
func (f *Filter) SampleRate() float64 { return f.sampleRate }

// Oversampling returns the nonlinear oversampling factor.
func (f *Filter) Oversampling() int { return f.overSampling }

// CoreRate returns the rate the nonlinear loop runs at. Coefficients passed
// to SetCoefficients must be cooked for this rate.
func (f *Filter) CoreRate() float64 { return f.sampleRate * float64(f.overSampling) }

// Ready reports whether a sample rate has been set.
func (f *Filter) Ready() bool { return f.ready }

// Params returns the control values last passed to SetParams.
func (f *Filter) Params() Params { return f.params }

// Coefficients returns the coefficients currently in use.
func (f *Filter) Coefficients() Coefficients { return f.coeffs }

// SetSampleRate updates the host rate, rebuilds the anti-alias filters and
// re-cooks the current params. Filter state is kept.
func (f *Filter) SetSampleRate(sampleRate float64) error {
	if err := validateSampleRate(sampleRate); err != nil {
		return err
	}

	f.sampleRate = sampleRate
	f.ready = true
	f.rebuild()

	return nil
}

// SetOversampling changes the oversampling factor.
func (f *Filter) SetOversampling(factor int) error {
	if !validOversampling(factor) {
		return fmt.Errorf("warp: oversampling factor must be one of {1,2,4,8}: %d", factor)
	}

	f.overSampling = factor
	if f.ready {
		f.rebuild()
	}

	return nil
}

// SetParams stores p and, when Ready, installs Cook(p, CoreRate()).
func (f *Filter) SetParams(p Params) {
	f.params = p
	if f.ready {
		f.coeffs = Cook(p, f.CoreRate())
	}
}

// SetCoefficients installs a coefficient set cooked by the caller.
func (f *Filter) SetCoefficients(c Coefficients) {
	if c.Knee <= 0 || !core.IsFinite(c.Knee) {
		c = silentCoefficients()
	}

	f.coeffs = c
}

// Reset clears the filter history and anti-alias state.
func (f *Filter) Reset() {
	f.state = State{}

	if f.antiAliasUp != nil {
		f.antiAliasUp.Reset()
	}

	if f.antiAliasDown != nil {
		f.antiAliasDown.Reset()
	}
}

// State returns a copy of the current loop state.
func (f *Filter) State() State {
	return f.state
}

// SetState restores an externally saved loop state.
func (f *Filter) SetState(state State) error {
	if !core.IsFinite(state.IC1) || !core.IsFinite(state.IC2) || !core.IsFinite(state.PrevInput) {
		return fmt.Errorf("warp: state contains NaN or Inf")
	}

	f.state = state

	return nil
}

// ProcessSample processes one sample. It does not allocate.
func (f *Filter) ProcessSample(input float64) float64 {
	if !f.ready {
		return 0
	}

	if !core.IsFinite(input) {
		input = 0
	}

	if f.overSampling <= 1 {
		out := f.step(input)
		f.state.PrevInput = input
		return limitOutput(out)
	}

	prev := f.state.PrevInput
	delta := (input - prev) / float64(f.overSampling)

	var out float64
	for i := range f.overSampling {
		sub := f.antiAliasUp.ProcessSample(prev + delta*float64(i+1))
		out = f.antiAliasDown.ProcessSample(f.step(sub))
	}

	f.state.PrevInput = input

	return limitOutput(out)
}

// ProcessInPlace processes a mono buffer in place. The output matches
// calling ProcessSample on every element. It does not allocate.
func (f *Filter) ProcessInPlace(buf []float64) {
	if !f.ready || f.overSampling <= 1 {
		for i := range buf {
			buf[i] = f.ProcessSample(buf[i])
		}

		return
	}

	for len(buf) > 0 {
		n := min(len(buf), blockChunk)
		f.processChunk(buf[:n])
		buf = buf[n:]
	}
}

// processChunk interpolates buf to CoreRate and runs both anti-alias chains
// as block passes around the nonlinear loop.
func (f *Filter) processChunk(buf []float64) {
	factor := f.overSampling
	up := f.oversampled[:len(buf)*factor]
	prev := f.state.PrevInput

	for i, x := range buf {
		if !core.IsFinite(x) {
			x = 0
		}

		delta := (x - prev) / float64(factor)
		for j := range factor {
			up[i*factor+j] = prev + delta*float64(j+1)
		}

		prev = x
	}

	f.state.PrevInput = prev

	f.antiAliasUp.ProcessBlock(up)
	for i, v := range up {
		up[i] = f.step(v)
	}
	f.antiAliasDown.ProcessBlock(up)

	for i := range buf {
		buf[i] = limitOutput(up[(i+1)*factor-1])
	}
}

// step runs one iteration of the nonlinear TPT state-variable filter. The
// bandpass integrator is read through the mode shaper before the linear
// solve, so resonance saturates at the knee set by Width.
func (f *Filter) step(x float64) float64 {
	c := &f.coeffs
	s := &f.state

	v0 := x * c.InputGain
	s1 := c.Knee * Shape(c.Mode, s.IC1/c.Knee)
	s2 := s.IC2

	v3 := v0 - s2
	v1 := c.A1*s1 + c.A2*v3
	v2 := s2 + c.A2*s1 + c.A3*v3

	s.IC1 = clipState(core.FlushDenormals(2*v1 - s1))
	s.IC2 = clipState(core.FlushDenormals(2*v2 - s2))

	return c.OutputTrim * c.Knee * Shape(c.Mode, c.HeatGain*v2/c.Knee)
}

func (f *Filter) rebuild() {
	f.coeffs = Cook(f.params, f.CoreRate())

	if f.overSampling <= 1 {
		f.antiAliasUp = nil
		f.antiAliasDown = nil
		f.oversampled = nil
		return
	}

	if need := blockChunk * f.overSampling; len(f.oversampled) < need {
		f.oversampled = make([]float64, need)
	}

	sections := design.ButterworthLowpass(antiAliasRatio*f.sampleRate, antiAliasOrder, f.CoreRate())
	if f.antiAliasUp == nil {
		f.antiAliasUp = biquad.NewChain(sections...)
		f.antiAliasDown = biquad.NewChain(sections...)
		return
	}

	f.antiAliasUp.UpdateCoefficients(sections...)
	f.antiAliasDown.UpdateCoefficients(sections...)
}

func validateSampleRate(sampleRate float64) error {
	if !core.IsFinite(sampleRate) || sampleRate <= 0 {
		return fmt.Errorf("warp: sample rate must be > 0 and finite: %v", sampleRate)
	}

	return nil
}

func validOversampling(factor int) bool {
	return factor == 1 || factor == 2 || factor == 4 || factor == 8
}

func clipState(value float64) float64 {
	if value > stateLimit {
		return stateLimit
	}

	if value < -stateLimit {
		return -stateLimit
	}

	return value
}

func limitOutput(value float64) float64 {
	if math.IsNaN(value) {
		return 0
	}

	return core.Clamp(value, -OutputLimit, OutputLimit)
}
