package core

import (
	"math"
	"testing"
)

func TestEnsureLen(t *testing.T) {
	buf := make([]float64, 4, 8)

	out := EnsureLen(buf, 6)
	if len(out) != 6 || cap(out) != cap(buf) {
		t.Fatalf("EnsureLen reuse: len=%d cap=%d", len(out), cap(out))
	}

	grown := EnsureLen(buf, 16)
	if len(grown) != 16 {
		t.Fatalf("EnsureLen grow: len=%d, want 16", len(grown))
	}

	if got := EnsureLen(buf, -1); len(got) != 0 {
		t.Fatalf("EnsureLen(-1): len=%d, want 0", len(got))
	}
}

func TestPeakAndRMS(t *testing.T) {
	tests := []struct {
		name string
		buf  []float64
		peak float64
		rms  float64
	}{
		{name: "empty"},
		{name: "dc", buf: []float64{2, 2, 2, 2}, peak: 2, rms: 2},
		{name: "negative peak", buf: []float64{0.5, -3, 1}, peak: 3, rms: math.Sqrt((0.25 + 9 + 1) / 3)},
		{name: "square", buf: []float64{1, -1, 1, -1}, peak: 1, rms: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Peak(tt.buf); got != tt.peak {
				t.Fatalf("Peak() = %g, want %g", got, tt.peak)
			}

			if got := RMS(tt.buf); math.Abs(got-tt.rms) > 1e-12 {
				t.Fatalf("RMS() = %g, want %g", got, tt.rms)
			}
		})
	}
}
