// Package alias measures how much of a distorted tone's harmonic energy has
// folded back below Nyquist.
//
// A periodic tone at f0 pushed through a nonlinearity produces harmonics at
// k*f0. Harmonics above Nyquist reappear at |k*f0 - m*fs|; Analyze sums the
// in-band harmonics and the folded ones separately, so oversampling and
// anti-alias filtering can be compared numerically.
package alias
