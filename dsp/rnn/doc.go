// Package rnn implements a small fixed-topology recurrent network for
// per-sample audio processing:
//
//	input[4] -> Dense(4->4) -> Tanh -> GRU(4->4) -> Dense(4->1) -> output
//
// Layers are concrete struct fields of Network, so the topology is known at
// compile time and no layer registry or type switch is involved. All
// per-sample operations work on fixed-size arrays and never allocate.
//
// Weights can be randomised from a Randomiser and persisted as a JSON
// Document with optional "dense1", "gru" and "denseOut" members. Applying a
// Document only touches the layers it names.
package rnn
