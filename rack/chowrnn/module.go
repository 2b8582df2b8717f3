package chowrnn

import (
	"fmt"
	"math/rand"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-rackfx/dsp/core"
	"github.com/cwbudde/algo-rackfx/dsp/rnn"
	"github.com/cwbudde/algo-rackfx/rack"
)

// NumInputs is the number of audio inputs, one per network input.
const NumInputs = rnn.Size

// RandomParamConfig describes the randomise button.
var RandomParamConfig = rack.ParamConfig{Name: "Randomise", Min: 0, Max: 1, Default: 0}

// Option mutates constructor configuration.
type Option func(*config) error

type config struct {
	proc       core.ProcessorConfig
	seed       int64
	randomiser rnn.Randomiser
	continuous bool
	logger     logrus.FieldLogger
}

// WithProcessor applies host processing settings.
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

// WithSeed seeds the weight random source.
func WithSeed(seed int64) Option {
	return func(cfg *config) error {
		cfg.seed = seed
		return nil
	}
}

// WithRandomiser replaces the weight distribution.
func WithRandomiser(r rnn.Randomiser) Option {
	return func(cfg *config) error {
		if !(r.WeightGain >= 0) || !(r.RecurrentGain >= 0) || !(r.BiasStdDev >= 0) {
			return fmt.Errorf("chowrnn: randomiser gains must be >= 0: %+v", r)
		}

		cfg.randomiser = r

		return nil
	}
}

// WithContinuousRandomise makes the module draw new weights on every frame
// while the randomise param is non-zero, instead of once per press.
func WithContinuousRandomise(enabled bool) Option {
	return func(cfg *config) error {
		cfg.continuous = enabled
		return nil
	}
}

// WithLogger sets the logger used on non-real-time paths.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(cfg *config) error {
		if logger == nil {
			return fmt.Errorf("chowrnn: logger must not be nil")
		}

		cfg.logger = logger

		return nil
	}
}

// Module is one ChowRNN instance. Inputs, Output and the Random param are
// the host-facing surface; everything else is owned by the audio thread.
type Module struct {
	Inputs [NumInputs]rack.Port
	Output rack.Port
	Random *rack.Param

	net        *rnn.Network
	post       *PostProcessor
	trigger    rack.Trigger
	rng        *rand.Rand
	randomiser rnn.Randomiser
	continuous bool
	logger     logrus.FieldLogger

	requested      atomic.Bool
	recoveries     atomic.Uint64
	randomisations atomic.Uint64
}

// New constructs a module with freshly randomised weights and a zero
// output bias.
func New(opts ...Option) (*Module, error) {
	cfg := config{
		proc:       core.DefaultProcessorConfig(),
		seed:       1,
		randomiser: rnn.DefaultRandomiser(),
		logger:     rack.DiscardLogger(),
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	random, err := rack.NewParam(RandomParamConfig)
	if err != nil {
		return nil, fmt.Errorf("chowrnn: %w", err)
	}

	post, err := NewPostProcessor(cfg.proc.SampleRate)
	if err != nil {
		return nil, err
	}

	m := &Module{
		Random:     random,
		net:        rnn.New(),
		post:       post,
		trigger:    rack.NewTrigger(),
		rng:        rand.New(rand.NewSource(cfg.seed)),
		randomiser: cfg.randomiser,
		continuous: cfg.continuous,
		logger:     cfg.logger,
	}

	m.randomise()

	m.logger.WithFields(logrus.Fields{
		"sample_rate": cfg.proc.SampleRate,
		"seed":        cfg.seed,
		"continuous":  cfg.continuous,
	}).Debug("chowrnn module created")

	return m, nil
}

// Network exposes the model. It must not be used concurrently with
// Process.
func (m *Module) Network() *rnn.Network { return m.net }

// PostProcessor exposes the output stage.
func (m *Module) PostProcessor() *PostProcessor { return m.post }

// Recoveries returns how many times a non-finite network output was
// replaced by silence.
func (m *Module) Recoveries() uint64 { return m.recoveries.Load() }

// Randomisations returns how many weight sets have been drawn, including
// the one drawn by New.
func (m *Module) Randomisations() uint64 { return m.randomisations.Load() }

// RequestRandomise asks the audio thread to draw new weights on its next
// frame. Safe from any thread.
func (m *Module) RequestRandomise() {
	m.requested.Store(true)
	m.logger.Debug("chowrnn randomise requested")
}

// Randomise draws new weights immediately. It must not be called
// concurrently with Process.
func (m *Module) Randomise() {
	m.randomise()
	m.logger.WithField("count", m.Randomisations()).Info("chowrnn weights randomised")
}

// OnSampleRateChange recomputes the DC blocker.
func (m *Module) OnSampleRateChange(sampleRate float64) error {
	if err := m.post.SetSampleRate(sampleRate); err != nil {
		m.logger.WithError(err).Warn("chowrnn: sample rate rejected")
		return err
	}

	m.logger.WithField("sample_rate", sampleRate).Debug("chowrnn sample rate changed")

	return nil
}

// Reset clears the recurrent state and the DC blocker. Weights are kept.
func (m *Module) Reset() {
	m.net.Reset()
	m.post.Reset()
}

// Process runs one frame. It does not allocate, block or log.
func (m *Module) Process(args rack.ProcessArgs) {
	m.followSampleRate(args.SampleRate)

	var in rnn.Vector
	for i := range m.Inputs {
		in[i] = m.Inputs[i].Voltage
	}

	m.Output.Voltage = m.post.Process(m.forward(in), rack.CountConnected(m.Inputs[:]))
}

// ProcessBlock renders len(out) frames. inputs[i] feeds input i; a nil slice
// leaves it unpatched, otherwise it must hold at least len(out) voltages.
// The Inputs ports are not read. The output matches calling Process once per
// frame with the same voltages. It does not allocate, block or log.
func (m *Module) ProcessBlock(out []float64, inputs [NumInputs][]float64, args rack.ProcessArgs) {
	m.followSampleRate(args.SampleRate)

	connected := 0
	for _, src := range inputs {
		if src != nil {
			connected++
		}
	}

	for n := range out {
		var in rnn.Vector
		for i, src := range inputs {
			if src != nil {
				in[i] = src[n]
			}
		}

		out[n] = m.forward(in)
	}

	m.post.ProcessBlock(out, connected)
}

// followSampleRate tracks the host rate. Invalid rates keep the previous DC
// blocker without reporting an error.
func (m *Module) followSampleRate(sampleRate float64) {
	if sampleRate == m.post.SampleRate() || !validSampleRate(sampleRate) {
		return
	}

	_ = m.post.SetSampleRate(sampleRate)
}

func (m *Module) forward(in rnn.Vector) float64 {
	if m.randomiseRequested() {
		m.randomise()
	}

	y, recovered := m.net.ForwardGuarded(in)
	if recovered {
		m.recoveries.Add(1)
	}

	return y
}

// MarshalJSON saves the network weights.
func (m *Module) MarshalJSON() ([]byte, error) {
	data, err := m.net.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("chowrnn: save: %w", err)
	}

	m.logger.WithField("bytes", len(data)).Debug("chowrnn weights saved")

	return data, nil
}

// UnmarshalJSON loads network weights. Members missing from data keep the
// current weights of their layer.
func (m *Module) UnmarshalJSON(data []byte) error {
	if err := m.net.UnmarshalJSON(data); err != nil {
		m.logger.WithError(err).Warn("chowrnn: load failed")
		return fmt.Errorf("chowrnn: load: %w", err)
	}

	m.logger.WithField("bytes", len(data)).Debug("chowrnn weights loaded")

	return nil
}

func (m *Module) randomiseRequested() bool {
	v := m.Random.Value()
	edge := m.trigger.Process(v)

	if m.continuous && v != 0 {
		edge = true
	}

	if m.requested.CompareAndSwap(true, false) {
		edge = true
	}

	return edge
}

func (m *Module) randomise() {
	m.randomiser.Randomise(m.net, m.rng)
	m.randomisations.Add(1)
}
