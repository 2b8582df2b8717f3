// Package design provides digital IIR filter coefficient designers.
//
// The functions in this package produce biquad coefficients consumable by
// dsp/filter/biquad: RBJ cookbook lowpass and highpass sections and a
// Butterworth lowpass cascade used for oversampling anti-alias filters.
package design
