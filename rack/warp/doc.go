// Package warp hosts the Warp nonlinear filter as a modular-synth module:
// five control params, one audio input and one audio output.
//
// The UI thread writes params through rack.Param at any time. The audio
// thread calls Process once per frame; every ParamDivide frames it reads
// all five params and re-cooks the filter coefficients. Audio voltages are
// scaled from the +-5 V rack range into the filter's unit range and back.
package warp
