package rnn

import "github.com/cwbudde/algo-vecmath"

// Size is the width of every hidden vector in the network.
const Size = 4

// Vector is one activation vector.
type Vector = [Size]float64

// Matrix is a Size x Size weight matrix stored one column per input, so a
// matrix-vector product is a sum of scaled columns.
type Matrix struct {
	cols [Size]Vector
}

// At returns the weight from input in to output out.
func (m *Matrix) At(out, in int) float64 { return m.cols[in][out] }

// Set stores the weight from input in to output out.
func (m *Matrix) Set(out, in int, v float64) { m.cols[in][out] = v }

// mulAdd accumulates m*x into dst. tmp is caller-owned scratch of length
// Size; keeping it in the layer struct keeps the call allocation free.
func (m *Matrix) mulAdd(dst []float64, x *Vector, tmp []float64) {
	for in := range Size {
		vecmath.ScaleBlock(tmp, m.cols[in][:], x[in])
		vecmath.AddBlockInPlace(dst, tmp)
	}
}

// rows returns the matrix as [out][in] slices.
func (m *Matrix) rows() [][]float64 {
	out := make([][]float64, Size)
	for o := range out {
		out[o] = make([]float64, Size)
		for in := range Size {
			out[o][in] = m.cols[in][o]
		}
	}

	return out
}

// setRows loads an [out][in] matrix previously checked by checkMatrix.
func (m *Matrix) setRows(rows [][]float64) {
	for o := range Size {
		for in := range Size {
			m.cols[in][o] = rows[o][in]
		}
	}
}
