package warp

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-rackfx/dsp/core"
	"github.com/cwbudde/algo-rackfx/dsp/filter/biquad"
	warpfilter "github.com/cwbudde/algo-rackfx/dsp/filter/warp"
	"github.com/cwbudde/algo-rackfx/rack"
)

// Param ids.
const (
	ParamCutoff = iota
	ParamHeat
	ParamWidth
	ParamDrive
	ParamMode
	NumParams
)

// VoltageScale maps rack audio voltages (+-5 V) to unit range.
const VoltageScale = 5.0

const inputScale = 1 / VoltageScale

// ParamConfigs returns the metadata of every param, indexed by id.
func ParamConfigs() [NumParams]rack.ParamConfig {
	def := warpfilter.DefaultParams()

	return [NumParams]rack.ParamConfig{
		ParamCutoff: {Name: "Cutoff", Unit: "Hz", Min: warpfilter.MinCutoffHz, Max: warpfilter.MaxCutoffHz, Default: def.CutoffHz},
		ParamHeat:   {Name: "Heat", Min: warpfilter.MinHeat, Max: warpfilter.MaxHeat, Default: def.Heat},
		ParamWidth:  {Name: "Width", Min: warpfilter.MinWidth, Max: warpfilter.MaxWidth, Default: def.Width},
		ParamDrive:  {Name: "Drive", Unit: "dB", Min: warpfilter.MinDriveDB, Max: warpfilter.MaxDriveDB, Default: def.DriveDB},
		ParamMode:   {Name: "Mode", Min: 0, Max: float64(warpfilter.NumModes - 1), Default: def.Mode},
	}
}

// Option mutates constructor configuration.
type Option func(*config) error

type config struct {
	proc         core.ProcessorConfig
	overSampling int
	logger       logrus.FieldLogger
}

// WithProcessor applies host processing settings (sample rate, param
// divide).
func WithProcessor(opts ...core.ProcessorOption) Option {
	return func(cfg *config) error {
		for _, opt := range opts {
			if opt != nil {
				opt(&cfg.proc)
			}
		}

		return nil
	}
}

// WithOversampling sets the filter oversampling factor (1, 2, 4 or 8).
func WithOversampling(factor int) Option {
	return func(cfg *config) error {
		cfg.overSampling = factor
		return nil
	}
}

// WithLogger sets the logger used on non-real-time paths.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(cfg *config) error {
		if logger == nil {
			return fmt.Errorf("warp: logger must not be nil")
		}

		cfg.logger = logger

		return nil
	}
}

// Module is one Warp instance.
type Module struct {
	Input  rack.Port
	Output rack.Port

	params  [NumParams]*rack.Param
	filter  *warpfilter.Filter
	divider rack.ClockDivider
	logger  logrus.FieldLogger
}

// New constructs a Ready module at the configured sample rate.
func New(opts ...Option) (*Module, error) {
	cfg := config{
		proc:         core.DefaultProcessorConfig(),
		overSampling: 2,
		logger:       rack.DiscardLogger(),
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	m := &Module{
		divider: rack.NewClockDivider(cfg.proc.ParamDivide),
		logger:  cfg.logger,
	}

	for id, pc := range ParamConfigs() {
		p, err := rack.NewParam(pc)
		if err != nil {
			return nil, fmt.Errorf("warp: %w", err)
		}

		m.params[id] = p
	}

	f, err := warpfilter.New(
		warpfilter.WithSampleRate(cfg.proc.SampleRate),
		warpfilter.WithOversampling(cfg.overSampling),
		warpfilter.WithParams(m.readParams()),
	)
	if err != nil {
		return nil, err
	}

	m.filter = f

	m.logger.WithFields(logrus.Fields{
		"sample_rate":  cfg.proc.SampleRate,
		"oversampling": cfg.overSampling,
		"param_divide": cfg.proc.ParamDivide,
		"aa_kernel":    biquad.Kernel(),
	}).Debug("warp module created")

	return m, nil
}

// Param returns the param with the given id, or nil for an unknown id.
func (m *Module) Param(id int) *rack.Param {
	if id < 0 || id >= NumParams {
		return nil
	}

	return m.params[id]
}

// Filter exposes the underlying filter for inspection.
func (m *Module) Filter() *warpfilter.Filter { return m.filter }

// OnSampleRateChange updates rate-dependent state. Filter history is kept.
func (m *Module) OnSampleRateChange(sampleRate float64) error {
	if err := m.filter.SetSampleRate(sampleRate); err != nil {
		m.logger.WithError(err).Warn("warp: sample rate rejected")
		return err
	}

	m.divider.Reset()
	m.logger.WithField("sample_rate", sampleRate).Debug("warp sample rate changed")

	return nil
}

// Reset clears the filter history.
func (m *Module) Reset() {
	m.filter.Reset()
	m.divider.Reset()
}

// Process runs one frame: Input.Voltage in, Output.Voltage out. It does not
// allocate, block or log.
func (m *Module) Process(_ rack.ProcessArgs) {
	m.Output.Voltage = m.processVoltage(m.Input.VoltageOr(0))
}

// ProcessInPlace treats buf as consecutive input voltages and replaces them
// with output voltages. The output matches calling Process once per element.
func (m *Module) ProcessInPlace(buf []float64) {
	for len(buf) > 0 {
		if m.divider.Process() {
			m.filter.SetParams(m.readParams())
		}

		// Params are cooked at the same samples as in Process, so each
		// segment runs on one coefficient set.
		n := min(len(buf), 1+m.divider.Pending())
		m.divider.Advance(n - 1)

		seg := buf[:n]
		vecmath.ScaleBlockInPlace(seg, inputScale)
		m.filter.ProcessInPlace(seg)
		vecmath.ScaleBlockInPlace(seg, VoltageScale)

		buf = buf[n:]
	}
}

// ProcessBlock processes src into dst, growing dst when needed, and returns
// it. dst and src may be the same slice.
func (m *Module) ProcessBlock(dst, src []float64) []float64 {
	dst = core.EnsureLen(dst, len(src))
	copy(dst, src)
	m.ProcessInPlace(dst)

	return dst
}

func (m *Module) processVoltage(v float64) float64 {
	if m.divider.Process() {
		m.filter.SetParams(m.readParams())
	}

	return m.filter.ProcessSample(v*inputScale) * VoltageScale
}

func (m *Module) readParams() warpfilter.Params {
	return warpfilter.Params{
		CutoffHz: m.params[ParamCutoff].Value(),
		Heat:     m.params[ParamHeat].Value(),
		Width:    m.params[ParamWidth].Value(),
		DriveDB:  m.params[ParamDrive].Value(),
		Mode:     m.params[ParamMode].Value(),
	}
}
