//go:build !fastmath

package rnn

// activationTol bounds the gap between the layers and a float64 reference
// built on math.Exp and math.Tanh.
const activationTol = 1e-12
