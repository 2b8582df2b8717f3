package rnn

// Gate holds the input weights W, recurrent weights U and bias B of one GRU
// gate.
type Gate struct {
	W Matrix
	U Matrix
	B Vector
}

// preActivation stores W*x + U*h + B in dst.
func (g *Gate) preActivation(dst *Vector, x, h *Vector, tmp []float64) {
	*dst = g.B
	g.W.mulAdd(dst[:], x, tmp)
	g.U.mulAdd(dst[:], h, tmp)
}

// GRU is a gated recurrent unit with Size inputs and Size hidden units:
//
//	z  = sigmoid(Wz*x + Uz*h + bz)
//	r  = sigmoid(Wr*x + Ur*h + br)
//	c  = tanh(Wc*x + Uc*(r.h) + bc)
//	h' = z.h + (1-z).c
//
// The hidden state h is the layer output and persists across calls.
type GRU struct {
	Z Gate // update
	R Gate // reset
	C Gate // candidate

	h Vector

	x, z, r, c, rh, tmp Vector
}

// Forward advances the hidden state by one step and returns it.
func (g *GRU) Forward(x Vector) Vector {
	g.x = x
	g.Z.preActivation(&g.z, &g.x, &g.h, g.tmp[:])
	g.R.preActivation(&g.r, &g.x, &g.h, g.tmp[:])

	for i := range Size {
		g.z[i] = sigmoid(g.z[i])
		g.rh[i] = sigmoid(g.r[i]) * g.h[i]
	}

	g.C.preActivation(&g.c, &g.x, &g.rh, g.tmp[:])

	for i := range Size {
		g.h[i] = g.z[i]*g.h[i] + (1-g.z[i])*tanh(g.c[i])
	}

	return g.h
}

// Reset zeroes the hidden state. Weights are untouched.
func (g *GRU) Reset() { g.h = Vector{} }

// Hidden returns the hidden state.
func (g *GRU) Hidden() Vector { return g.h }

// SetHidden overwrites the hidden state.
func (g *GRU) SetHidden(h Vector) { g.h = h }

// gates returns the gates in z, r, c order.
func (g *GRU) gates() [3]*Gate { return [3]*Gate{&g.Z, &g.R, &g.C} }
