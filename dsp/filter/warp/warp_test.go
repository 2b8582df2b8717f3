package warp

import (
	"math"
	"math/rand"
	"testing"

	"github.com/cwbudde/algo-rackfx/internal/testutil"
	"github.com/cwbudde/algo-rackfx/measure/alias"
)

func newReady(t *testing.T, opts ...Option) *Filter {
	t.Helper()

	f, err := New(append([]Option{WithSampleRate(48000)}, opts...)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	return f
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{name: "zero rate", opt: WithSampleRate(0)},
		{name: "negative rate", opt: WithSampleRate(-44100)},
		{name: "nan rate", opt: WithSampleRate(math.NaN())},
		{name: "inf rate", opt: WithSampleRate(math.Inf(1))},
		{name: "oversampling 3", opt: WithOversampling(3)},
		{name: "oversampling 0", opt: WithOversampling(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.opt); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestIdleOutputsSilence(t *testing.T) {
	f, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if f.Ready() {
		t.Fatal("filter without sample rate reports Ready")
	}

	for i := range 64 {
		if y := f.ProcessSample(math.Sin(float64(i))); y != 0 {
			t.Fatalf("idle sample %d = %g, want 0", i, y)
		}
	}

	if err := f.SetSampleRate(44100); err != nil {
		t.Fatalf("SetSampleRate() error = %v", err)
	}

	if !f.Ready() {
		t.Fatal("filter not Ready after SetSampleRate")
	}
}

func TestCookIsPure(t *testing.T) {
	params := []Params{
		DefaultParams(),
		{CutoffHz: 20, Heat: 1, Width: 0, DriveDB: 24, Mode: 4},
		{CutoffHz: 20000, Heat: 0, Width: 1, DriveDB: -12, Mode: 2.4},
		{CutoffHz: math.NaN(), Heat: -3, Width: 7, DriveDB: 100, Mode: 99},
	}
	rates := []float64{44100, 48000, 96000, 384000}

	for _, p := range params {
		for _, fs := range rates {
			a := Cook(p, fs)
			b := Cook(p, fs)

			if a != b {
				t.Fatalf("Cook(%+v, %g) not deterministic: %+v != %+v", p, fs, a, b)
			}
		}
	}
}

func TestCookStaysStable(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for range 2000 {
		p := Params{
			CutoffHz: rng.Float64() * 40000,
			Heat:     rng.Float64()*3 - 1,
			Width:    rng.Float64()*3 - 1,
			DriveDB:  rng.Float64()*80 - 40,
			Mode:     rng.Float64()*8 - 2,
		}
		fs := 8000 + rng.Float64()*400000
		c := Cook(p, fs)

		if !(c.G > 0) || c.G > math.Tan(math.Pi*maxCutoffRatio)*(1+1e-12) {
			t.Fatalf("G out of range: %g for %+v at %g", c.G, p, fs)
		}

		if c.K < minDamping || c.K > 2 {
			t.Fatalf("K out of range: %g", c.K)
		}

		if c.Knee < minKnee || c.Knee > maxKnee {
			t.Fatalf("Knee out of range: %g", c.Knee)
		}

		if c.OutputTrim <= 0 || c.OutputTrim > 1 {
			t.Fatalf("OutputTrim out of range: %g", c.OutputTrim)
		}

		if int(c.Mode) < 0 || int(c.Mode) >= NumModes {
			t.Fatalf("Mode out of range: %d", c.Mode)
		}
	}
}

func TestCookInvalidRateIsSilent(t *testing.T) {
	for _, fs := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		c := Cook(DefaultParams(), fs)
		if c.InputGain != 0 {
			t.Fatalf("Cook at %g: InputGain = %g, want 0", fs, c.InputGain)
		}
	}
}

func TestOutputBoundedForEveryMode(t *testing.T) {
	cutoffs := []float64{MinCutoffHz, 1000, MaxCutoffHz}
	heats := []float64{MinHeat, MaxHeat}
	widths := []float64{MinWidth, MaxWidth}
	drives := []float64{MinDriveDB, MaxDriveDB}

	for m := range NumModes {
		mode := Mode(m)
		t.Run(mode.String(), func(t *testing.T) {
			rng := rand.New(rand.NewSource(int64(m) + 1))

			for _, fc := range cutoffs {
				for _, heat := range heats {
					for _, width := range widths {
						for _, drive := range drives {
							p := Params{CutoffHz: fc, Heat: heat, Width: width, DriveDB: drive, Mode: float64(mode)}
							f := newReady(t, WithParams(p))

							for i := range 10000 {
								x := (rng.Float64()*2 - 1) * 10
								y := f.ProcessSample(x)

								if math.IsNaN(y) || math.IsInf(y, 0) || math.Abs(y) > OutputLimit {
									t.Fatalf("%+v sample %d: y=%g", p, i, y)
								}
							}

							s := f.State()
							if math.Abs(s.IC1) > stateLimit || math.Abs(s.IC2) > stateLimit {
								t.Fatalf("%+v: state escaped limit: %+v", p, s)
							}
						}
					}
				}
			}
		})
	}
}

func TestShapeBounded(t *testing.T) {
	inputs := []float64{0, 0.3, -0.3, 1, -1, 1.5, -1.5, 7, -7, 1e9, -1e9, math.Inf(1), math.Inf(-1), math.NaN()}

	for m := range NumModes {
		for _, x := range inputs {
			y := Shape(Mode(m), x)
			if math.IsNaN(y) || y > 1 || y < -1 {
				t.Fatalf("Shape(%s, %g) = %g", Mode(m), x, y)
			}
		}

		if y := Shape(Mode(m), 0); y != 0 {
			t.Fatalf("Shape(%s, 0) = %g, want 0", Mode(m), y)
		}
	}
}

func TestNonFiniteInputIsSilenced(t *testing.T) {
	f := newReady(t)

	for _, x := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		y := f.ProcessSample(x)
		if math.IsNaN(y) || math.IsInf(y, 0) {
			t.Fatalf("ProcessSample(%g) = %g", x, y)
		}
	}

	s := f.State()
	if s.PrevInput != 0 {
		t.Fatalf("PrevInput = %g, want 0", s.PrevInput)
	}
}

func TestProcessInPlaceMatchesSample(t *testing.T) {
	p := Params{CutoffHz: 2400, Heat: 0.8, Width: 0.3, DriveDB: 12, Mode: float64(ModeFold)}

	for _, overSampling := range []int{1, 2, 4, 8} {
		f1 := newReady(t, WithParams(p), WithOversampling(overSampling))
		f2 := newReady(t, WithParams(p), WithOversampling(overSampling))

		// Not a multiple of the internal chunk, with a NaN inside.
		in := testutil.DeterministicNoise(3, 0.8, 517)
		in[200] = math.NaN()

		want := make([]float64, len(in))
		for i, x := range in {
			want[i] = f1.ProcessSample(x)
		}

		got := append([]float64(nil), in...)
		f2.ProcessInPlace(got)

		testutil.RequireSliceNearlyEqual(t, got, want, 0)

		if f1.State() != f2.State() {
			t.Fatalf("os=%d: state %+v, want %+v", overSampling, f2.State(), f1.State())
		}
	}
}

func TestProcessInPlaceDoesNotAllocate(t *testing.T) {
	f := newReady(t, WithOversampling(8))
	buf := testutil.DeterministicSine(440, 48000, 0.9, 300)

	allocs := testing.AllocsPerRun(100, func() {
		f.ProcessInPlace(buf)
	})

	if allocs != 0 {
		t.Fatalf("allocs per run = %g, want 0", allocs)
	}
}

func TestStateRoundTrip(t *testing.T) {
	f := newReady(t, WithOversampling(1))

	for i := range 96 {
		_ = f.ProcessSample(math.Sin(2 * math.Pi * float64(i) / 29))
	}

	saved := f.State()
	want := make([]float64, 32)

	for i := range want {
		want[i] = f.ProcessSample(0.3)
	}

	if err := f.SetState(saved); err != nil {
		t.Fatalf("SetState() error = %v", err)
	}

	for i := range want {
		if got := f.ProcessSample(0.3); got != want[i] {
			t.Fatalf("sample %d after restore: got=%g want=%g", i, got, want[i])
		}
	}

	if err := f.SetState(State{IC1: math.NaN()}); err == nil {
		t.Fatal("expected error for NaN state")
	}
}

func TestSampleRateChangeKeepsState(t *testing.T) {
	f := newReady(t)

	for i := range 200 {
		_ = f.ProcessSample(math.Sin(float64(i) / 5))
	}

	before := f.State()
	if before.IC1 == 0 && before.IC2 == 0 {
		t.Fatal("expected non-zero state after processing")
	}

	if err := f.SetSampleRate(96000); err != nil {
		t.Fatalf("SetSampleRate() error = %v", err)
	}

	if after := f.State(); after != before {
		t.Fatalf("state changed on rate change: %+v -> %+v", before, after)
	}

	if want := Cook(f.Params(), 96000*float64(f.Oversampling())); f.Coefficients() != want {
		t.Fatal("coefficients not re-cooked for the new rate")
	}

	if err := f.SetSampleRate(-1); err == nil {
		t.Fatal("expected error for negative sample rate")
	}
}

func TestResetClearsState(t *testing.T) {
	f := newReady(t)
	fresh := newReady(t)

	for i := range 300 {
		_ = f.ProcessSample(math.Sin(float64(i) / 3))
	}

	f.Reset()

	if s := f.State(); s != (State{}) {
		t.Fatalf("state after Reset = %+v", s)
	}

	for i := range 64 {
		x := math.Cos(float64(i) / 7)
		if got, want := f.ProcessSample(x), fresh.ProcessSample(x); got != want {
			t.Fatalf("sample %d after Reset: got=%g want=%g", i, got, want)
		}
	}
}

func TestSetCoefficientsRejectsDegenerateKnee(t *testing.T) {
	f := newReady(t)
	f.SetCoefficients(Coefficients{Knee: 0, InputGain: 1})

	if c := f.Coefficients(); c.Knee != minKnee || c.InputGain != 0 {
		t.Fatalf("degenerate coefficients installed: %+v", c)
	}
}

func TestOversamplingReducesAliasing(t *testing.T) {
	const (
		fs   = 48000.0
		size = 8192
		bin  = 1195
	)

	f0 := bin * fs / size
	p := Params{CutoffHz: MaxCutoffHz, Heat: 0, Width: 1, DriveDB: MaxDriveDB, Mode: float64(ModeTanh)}

	ratio := func(factor int) float64 {
		f := newReady(t, WithParams(p), WithOversampling(factor))
		in := testutil.DeterministicSine(f0, fs, 1, 2*size)

		f.ProcessInPlace(in)

		res, err := alias.Analyze(in[size:], alias.Config{SampleRate: fs, FundamentalFreq: f0})
		if err != nil {
			t.Fatalf("Analyze() error = %v", err)
		}

		return res.AliasRatio
	}

	plain := ratio(1)
	over := ratio(4)

	if plain <= 0 {
		t.Fatalf("expected measurable aliasing without oversampling, got %g", plain)
	}

	if over >= 0.5*plain {
		t.Fatalf("alias ratio with 4x oversampling = %g, without = %g", over, plain)
	}
}

func TestProcessSampleDoesNotAllocate(t *testing.T) {
	f := newReady(t, WithOversampling(8))
	x := 0.0

	allocs := testing.AllocsPerRun(1000, func() {
		x += 0.01
		_ = f.ProcessSample(math.Sin(x))
		f.SetParams(DefaultParams())
	})

	if allocs != 0 {
		t.Fatalf("allocs per run = %g, want 0", allocs)
	}
}

func TestParseMode(t *testing.T) {
	for m := range NumModes {
		got, err := ParseMode(Mode(m).String())
		if err != nil || got != Mode(m) {
			t.Fatalf("ParseMode(%q) = %v, %v", Mode(m).String(), got, err)
		}
	}

	if _, err := ParseMode("sine"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}
