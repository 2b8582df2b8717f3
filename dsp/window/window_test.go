package window

import (
	"math"
	"testing"
)

func TestGenerateHann(t *testing.T) {
	w := Generate(TypeHann, 5)
	want := []float64{0, 0.5, 1, 0.5, 0}
	for i := range want {
		if math.Abs(w[i]-want[i]) > 1e-12 {
			t.Fatalf("w[%d] = %v, want %v", i, w[i], want[i])
		}
	}

	p := Generate(TypeHann, 4, WithPeriodic())
	wantP := []float64{0, 0.5, 1, 0.5}
	for i := range wantP {
		if math.Abs(p[i]-wantP[i]) > 1e-12 {
			t.Fatalf("periodic w[%d] = %v, want %v", i, p[i], wantP[i])
		}
	}
}

func TestGenerateInvalid(t *testing.T) {
	if Generate(TypeHann, 0) != nil {
		t.Fatal("expected nil for zero length")
	}
	if Generate(Type(99), 8) != nil {
		t.Fatal("expected nil for unknown type")
	}
}

func TestCoherentGain(t *testing.T) {
	tests := []struct {
		typ  Type
		want float64
	}{
		{typ: TypeRectangular, want: 1},
		{typ: TypeHann, want: 0.5},
		{typ: TypeHamming, want: 0.54},
		{typ: TypeBlackman, want: 0.42},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			g, err := CoherentGain(Generate(tt.typ, 4096, WithPeriodic()))
			if err != nil {
				t.Fatalf("CoherentGain() error = %v", err)
			}
			if math.Abs(g-tt.want) > 1e-9 {
				t.Fatalf("coherent gain = %v, want %v", g, tt.want)
			}
		})
	}

	if _, err := CoherentGain(nil); err == nil {
		t.Fatal("expected error for empty window")
	}
}

func TestApplyCoefficients(t *testing.T) {
	samples := []float64{1, 2, 3, 4}
	coeffs := []float64{0.5, 0.5, 2, 0}

	out, err := ApplyCoefficients(samples, coeffs)
	if err != nil {
		t.Fatalf("ApplyCoefficients() error = %v", err)
	}
	want := []float64{0.5, 1, 6, 0}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}

	if err := ApplyCoefficientsInPlace(samples, coeffs); err != nil {
		t.Fatalf("ApplyCoefficientsInPlace() error = %v", err)
	}
	for i := range want {
		if samples[i] != want[i] {
			t.Fatalf("samples[%d] = %v, want %v", i, samples[i], want[i])
		}
	}

	if _, err := ApplyCoefficients([]float64{1}, coeffs); err == nil {
		t.Fatal("expected length mismatch error")
	}
}
