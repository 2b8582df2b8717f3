package rnn

// Dense is the fully connected Size->Size input layer.
type Dense struct {
	W Matrix
	B Vector

	in, acc, tmp Vector
}

// Forward returns W*x + B.
func (d *Dense) Forward(x Vector) Vector {
	d.in = x
	d.acc = d.B
	d.W.mulAdd(d.acc[:], &d.in, d.tmp[:])

	return d.acc
}

// Output is the fully connected Size->1 output layer.
type Output struct {
	W Vector
	B float64
}

// Forward returns W.x + B.
func (o *Output) Forward(x Vector) float64 {
	y := o.B
	for i, w := range o.W {
		y += w * x[i]
	}

	return y
}

// Tanh is the element-wise activation between Dense and GRU. It has no
// weights.
type Tanh struct{}

// Forward applies tanh to every element.
func (Tanh) Forward(x Vector) Vector {
	for i, v := range x {
		x[i] = tanh(v)
	}

	return x
}
