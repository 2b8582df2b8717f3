// Package warp implements a nonlinear state-variable filter whose resonant
// path is bent by a selectable saturating transfer function.
//
// Five controls shape the sound:
//   - Cutoff: lowpass corner frequency in Hz.
//   - Heat: resonance and the gain driving the output shaper.
//   - Width: the knee where the bandpass integrator begins to saturate.
//   - Drive: input gain in dB, with automatic output trim.
//   - Mode: which transfer function is used (tanh, soft clip, hard clip,
//     sine fold, asymmetric).
//
// Control values are turned into [Coefficients] by [Cook], a pure function
// meant to run at control rate. [Filter] consumes those coefficients one
// audio sample at a time without allocating. Nonlinear processing runs
// oversampled (2x by default) between Butterworth anti-alias filters.
//
// The output is bounded for any input and any parameter set: integrator
// states are clipped, the shapers are bounded by 1 and the final sample is
// limited to [OutputLimit].
package warp
