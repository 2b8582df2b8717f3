package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-rackfx/dsp/core"
	warpfilter "github.com/cwbudde/algo-rackfx/dsp/filter/warp"
	"github.com/cwbudde/algo-rackfx/measure/alias"
	"github.com/cwbudde/algo-rackfx/rack"
	"github.com/cwbudde/algo-rackfx/rack/chowrnn"
	"github.com/cwbudde/algo-rackfx/rack/warp"
)

const analysisSize = 8192

type renderStats struct {
	module    string
	frames    int
	peak      float64
	rms       float64
	alias     alias.Result
	recovered uint64
}

func runRender(args []string, stdout, stderr io.Writer, logger logrus.FieldLogger) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(stderr)

	module := fs.String("module", "warp", "module to render: warp or chowrnn")
	rate := fs.Float64("rate", 48000, "sample rate in Hz")
	seconds := fs.Float64("seconds", 1, "render length in seconds")
	freq := fs.Float64("freq", 0, "test tone frequency in Hz (0 = bin-centred near 1 kHz)")
	amp := fs.Float64("amp", 5, "test tone amplitude in volts")
	cutoff := fs.Float64("cutoff", 1000, "warp cutoff in Hz")
	heat := fs.Float64("heat", 0.25, "warp heat [0, 1]")
	width := fs.Float64("width", 0.5, "warp width [0, 1]")
	drive := fs.Float64("drive", 0, "warp drive in dB")
	mode := fs.String("mode", "tanh", "warp mode (see: rackfx modes)")
	overSampling := fs.Int("os", 2, "warp oversampling factor: 1, 2, 4 or 8")
	weights := fs.String("weights", "", "chowrnn weight file to load")
	seed := fs.Int64("seed", 1, "chowrnn weight seed when no file is given")
	patched := fs.Int("inputs", 4, "chowrnn inputs fed with the tone (0-4)")

	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	frames := int(math.Round(*rate * *seconds))
	if frames < analysisSize {
		frames = analysisSize
	}

	if *freq <= 0 {
		*freq = math.Round(1000*analysisSize / *rate) * *rate / analysisSize
	}

	in := make([]float64, frames)
	step := 2 * math.Pi * *freq / *rate

	for i := range in {
		in[i] = *amp * math.Sin(step*float64(i))
	}

	var (
		out   []float64
		stats = renderStats{module: *module, frames: frames}
		chow  *chowrnn.Module
	)

	switch *module {
	case "warp":
		m, err := newWarp(*rate, *overSampling, logger)
		if err != nil {
			return err
		}

		if err := configureWarp(m, *cutoff, *heat, *width, *drive, *mode); err != nil {
			return err
		}

		out = m.ProcessBlock(nil, in)
	case "chowrnn":
		m, err := newChow(*rate, *seed, *weights, logger)
		if err != nil {
			return err
		}

		var inputs [chowrnn.NumInputs][]float64
		for i := range min(max(*patched, 0), chowrnn.NumInputs) {
			inputs[i] = in
		}

		chow = m
		out = make([]float64, frames)
		m.ProcessBlock(out, inputs, rack.NewProcessArgs(*rate))
	default:
		return fmt.Errorf("unknown module %q", *module)
	}

	stats.peak = core.Peak(out)
	stats.rms = core.RMS(out)

	res, err := alias.Analyze(out[len(out)-analysisSize:], alias.Config{SampleRate: *rate, FundamentalFreq: *freq})
	if err != nil {
		logger.WithError(err).Warn("alias analysis skipped")
	}

	stats.alias = res

	if chow != nil {
		stats.recovered = chow.Recoveries()
	}

	printRender(stdout, stats)

	return nil
}

func newWarp(rate float64, overSampling int, logger logrus.FieldLogger) (*warp.Module, error) {
	return warp.New(
		warp.WithProcessor(core.WithSampleRate(rate)),
		warp.WithOversampling(overSampling),
		warp.WithLogger(logger),
	)
}

func configureWarp(m *warp.Module, cutoff, heat, width, drive float64, modeName string) error {
	mode, err := warpfilter.ParseMode(modeName)
	if err != nil {
		return err
	}

	m.Param(warp.ParamCutoff).SetValue(cutoff)
	m.Param(warp.ParamHeat).SetValue(heat)
	m.Param(warp.ParamWidth).SetValue(width)
	m.Param(warp.ParamDrive).SetValue(drive)
	m.Param(warp.ParamMode).SetValue(float64(mode))

	return nil
}

func newChow(rate float64, seed int64, weights string, logger logrus.FieldLogger) (*chowrnn.Module, error) {
	m, err := chowrnn.New(
		chowrnn.WithProcessor(core.WithSampleRate(rate)),
		chowrnn.WithSeed(seed),
		chowrnn.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	if weights == "" {
		return m, nil
	}

	data, err := os.ReadFile(weights)
	if err != nil {
		return nil, err
	}

	if err := m.UnmarshalJSON(data); err != nil {
		return nil, err
	}

	return m, nil
}

func printRender(w io.Writer, s renderStats) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "module\t%s\n", s.module)
	fmt.Fprintf(tw, "frames\t%d\n", s.frames)
	fmt.Fprintf(tw, "peak\t%.4f V\n", s.peak)
	fmt.Fprintf(tw, "rms\t%.4f V\n", s.rms)
	fmt.Fprintf(tw, "fundamental\t%.2f Hz\n", s.alias.FundamentalFreq)
	fmt.Fprintf(tw, "alias ratio\t%.2f dB\n", s.alias.AliasRatioDB)

	if s.module == "chowrnn" {
		fmt.Fprintf(tw, "recoveries\t%d\n", s.recovered)
	}

	tw.Flush()
}

func printModes(w io.Writer) {
	for m := range warpfilter.NumModes {
		fmt.Fprintf(w, "%d\t%s\n", m, warpfilter.Mode(m))
	}
}
