package rnn

import "math"

// Network is Dense(4->4) -> Tanh -> GRU(4->4) -> Dense(4->1). The zero
// value has all weights zero and outputs 0.
type Network struct {
	Dense1   Dense
	Act      Tanh
	GRU      GRU
	DenseOut Output
}

// New returns a network with all weights zero.
func New() *Network {
	return &Network{}
}

// Forward runs one sample through the four layers in order. The GRU hidden
// state carries over to the next call.
func (n *Network) Forward(in Vector) float64 {
	x := n.Dense1.Forward(in)
	x = n.Act.Forward(x)
	x = n.GRU.Forward(x)

	return n.DenseOut.Forward(x)
}

// ForwardGuarded runs Forward and recovers from a non-finite result by
// returning 0 and resetting the recurrent state. recovered reports whether
// that happened.
func (n *Network) ForwardGuarded(in Vector) (y float64, recovered bool) {
	y = n.Forward(in)
	if math.IsNaN(y) || math.IsInf(y, 0) {
		n.Reset()
		return 0, true
	}

	return y, false
}

// Reset clears the recurrent state. Weights are untouched.
func (n *Network) Reset() {
	n.GRU.Reset()
}

// Hidden returns the GRU hidden state.
func (n *Network) Hidden() Vector { return n.GRU.Hidden() }

// SetHidden overwrites the GRU hidden state.
func (n *Network) SetHidden(h Vector) { n.GRU.SetHidden(h) }

// Randomise draws new weights from DefaultRandomiser.
func (n *Network) Randomise(rng Source) {
	DefaultRandomiser().Randomise(n, rng)
}
