package biquad

import (
	"math"
	"testing"
)

func twoSectionCoeffs() []Coefficients {
	return []Coefficients{
		{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04},
		{B0: 0.1, B1: 0.2, B2: 0.1, A1: -0.5, A2: 0.1},
	}
}

func TestChain_ProcessSample_MatchesManualCascade(t *testing.T) {
	coeffs := twoSectionCoeffs()
	section1 := NewSection(coeffs[0])
	section2 := NewSection(coeffs[1])
	chain := NewChain(coeffs...)

	input := []float64{1, 0.5, -0.3, 0.7, 0, -1, 0.2, 0.8}
	for i, x := range input {
		ref := section2.ProcessSample(section1.ProcessSample(x))
		if got := chain.ProcessSample(x); !almostEqual(got, ref, eps) {
			t.Errorf("sample %d: chain=%.15f, ref=%.15f", i, got, ref)
		}
	}
}

func TestChain_ProcessBlock_MatchesSample(t *testing.T) {
	a := NewChain(twoSectionCoeffs()...)
	b := NewChain(twoSectionCoeffs()...)

	buf := make([]float64, 37)
	want := make([]float64, len(buf))
	for i := range buf {
		buf[i] = math.Cos(float64(i) * 0.3)
		want[i] = a.ProcessSample(buf[i])
	}

	b.ProcessBlock(buf)
	for i := range buf {
		if !almostEqual(buf[i], want[i], eps) {
			t.Fatalf("sample %d: got %v, want %v", i, buf[i], want[i])
		}
	}
}

func TestChain_UpdateCoefficientsKeepsState(t *testing.T) {
	c := NewChain(twoSectionCoeffs()...)
	ref := NewChain(twoSectionCoeffs()...)
	c.ProcessSample(1)
	ref.ProcessSample(1)

	c.UpdateCoefficients(twoSectionCoeffs()...)
	if got, want := c.ProcessSample(0), ref.ProcessSample(0); got != want {
		t.Fatalf("after same-size update: got %v, want %v", got, want)
	}

	c.UpdateCoefficients(Coefficients{B0: 1})
	if got := c.ProcessSample(0); got != 0 {
		t.Fatalf("after resize: got %v, want 0 from zero state", got)
	}
}

func TestChain_ResetAndStable(t *testing.T) {
	c := NewChain(twoSectionCoeffs()...)
	fresh := NewChain(twoSectionCoeffs()...)
	c.ProcessSample(1)
	c.Reset()

	for i := range 8 {
		if got, want := c.ProcessSample(0.5), fresh.ProcessSample(0.5); got != want {
			t.Fatalf("sample %d after Reset: got %v, want %v", i, got, want)
		}
	}
	if !c.Stable() {
		t.Fatal("expected stable chain")
	}
}

func TestChain_MagnitudeDB(t *testing.T) {
	coeffs := twoSectionCoeffs()
	c := NewChain(coeffs...)
	want := coeffs[0].MagnitudeDB(1000, 48000) + coeffs[1].MagnitudeDB(1000, 48000)
	if got := c.MagnitudeDB(1000, 48000); !almostEqual(got, want, 1e-9) {
		t.Fatalf("MagnitudeDB = %v, want %v", got, want)
	}
}
