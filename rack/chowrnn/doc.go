// Package chowrnn hosts the recurrent-network effect as a modular-synth
// module: four audio inputs feed rnn.Network, whose output passes a
// stability guard, a 30 Hz DC blocker and a makeup gain that depends on how
// many inputs are patched.
//
// A randomise button (a param in [0, 1]) is read through a rising-edge
// trigger, so one press draws one new set of weights. Weights persist as the
// JSON document produced by rnn.Network.
package chowrnn
