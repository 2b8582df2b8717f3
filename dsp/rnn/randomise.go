package rnn

import "math"

// Source is the random number source a Randomiser draws from.
// *math/rand.Rand satisfies it.
type Source interface {
	NormFloat64() float64
}

// Randomiser draws weights from zero-mean normal distributions. Weight
// standard deviations follow He initialisation, sqrt(2/fanIn), scaled by
// the gains. A Randomiser holds no state between calls; all randomness
// comes from the Source passed in.
type Randomiser struct {
	WeightGain    float64
	RecurrentGain float64
	BiasStdDev    float64
}

// DefaultRandomiser returns the policy used by Network.Randomise.
func DefaultRandomiser() Randomiser {
	return Randomiser{
		WeightGain:    1,
		RecurrentGain: 1,
		BiasStdDev:    0.1,
	}
}

// Randomise replaces the Dense1 weights and bias, every GRU weight and bias
// and the DenseOut weights. The DenseOut bias and the hidden state are
// kept; a new Network starts with a zero output bias.
func (r Randomiser) Randomise(n *Network, rng Source) {
	r.DenseWeights(&n.Dense1, rng)
	r.DenseBias(&n.Dense1, rng)
	r.GRU(&n.GRU, rng)
	r.OutputWeights(&n.DenseOut, rng)
}

// DenseWeights replaces the weights of d.
func (r Randomiser) DenseWeights(d *Dense, rng Source) {
	r.matrix(&d.W, r.WeightGain, rng)
}

// DenseBias replaces the bias of d.
func (r Randomiser) DenseBias(d *Dense, rng Source) {
	r.vector(&d.B, r.BiasStdDev, rng)
}

// OutputWeights replaces the weights of o, leaving its bias alone.
func (r Randomiser) OutputWeights(o *Output, rng Source) {
	r.vector(&o.W, r.WeightGain*heStdDev(), rng)
}

// GRU replaces the input weights, recurrent weights and biases of every
// gate of g.
func (r Randomiser) GRU(g *GRU, rng Source) {
	for _, gate := range g.gates() {
		r.matrix(&gate.W, r.WeightGain, rng)
		r.matrix(&gate.U, r.RecurrentGain, rng)
		r.vector(&gate.B, r.BiasStdDev, rng)
	}
}

func (r Randomiser) matrix(m *Matrix, gain float64, rng Source) {
	std := gain * heStdDev()
	for out := range Size {
		for in := range Size {
			m.Set(out, in, std*rng.NormFloat64())
		}
	}
}

func (r Randomiser) vector(v *Vector, std float64, rng Source) {
	for i := range v {
		v[i] = std * rng.NormFloat64()
	}
}

func heStdDev() float64 {
	return math.Sqrt(2.0 / Size)
}
