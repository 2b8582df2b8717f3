//go:build fastmath

package rnn

import "github.com/meko-christian/algo-approx"

// sigmoid computes 1/(1+e^-x) using fast approximation.
func sigmoid(x float64) float64 {
	return 1 / (1 + approx.FastExp(-x))
}

// tanh computes tanh(x) = 2*sigmoid(2x) - 1 using fast approximation.
func tanh(x float64) float64 {
	return 2/(1+approx.FastExp(-2*x)) - 1
}
