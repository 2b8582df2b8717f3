// Package biquad provides second-order IIR runtime primitives.
//
// A [Section] implements Direct Form II Transposed processing for one
// second-order section defined by [Coefficients]. Sections can be cascaded
// via [Chain]. The Warp filter uses chains as oversampling anti-alias
// filters and the ChowRNN post-processor uses a single section as its DC
// blocker.
//
// Coefficient design lives in dsp/filter/design.
package biquad
