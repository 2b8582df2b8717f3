package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-rackfx/dsp/rnn"
	"github.com/cwbudde/algo-rackfx/rack/chowrnn"
)

func runRandomise(args []string, stdout, stderr io.Writer, logger logrus.FieldLogger) error {
	fs := flag.NewFlagSet("randomise", flag.ContinueOnError)
	fs.SetOutput(stderr)

	seed := fs.Int64("seed", 1, "random seed")
	output := fs.String("o", "", "output file (default stdout)")

	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	m, err := chowrnn.New(chowrnn.WithSeed(*seed), chowrnn.WithLogger(logger))
	if err != nil {
		return err
	}

	w := stdout

	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			return err
		}
		defer f.Close()

		w = f
	}

	if err := m.Network().Encode(w); err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{"seed": *seed, "file": *output}).Info("weights written")

	return nil
}

func runInspect(args []string, stdout, stderr io.Writer, logger logrus.FieldLogger) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(stderr)

	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if fs.NArg() != 1 {
		fmt.Fprintf(stderr, "Usage: rackfx inspect <weights.json>\n")
		return errUsage
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer f.Close()

	net := rnn.New()
	if err := net.Decode(f); err != nil {
		return err
	}

	logger.WithField("file", fs.Arg(0)).Debug("weights decoded")

	doc := net.Document()

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "layer\tvalues\tmin\tmax\trms\n")
	printTensorStats(tw, "dense1", doc.Dense1.Weights, doc.Dense1.Bias)

	for _, g := range []struct {
		name string
		gate rnn.GateDocument
	}{
		{"gru.z", doc.GRU.Z},
		{"gru.r", doc.GRU.R},
		{"gru.c", doc.GRU.C},
	} {
		rows := make([][]float64, 0, 2*rnn.Size)
		rows = append(rows, g.gate.W...)
		rows = append(rows, g.gate.U...)
		printTensorStats(tw, g.name, rows, g.gate.B)
	}

	printTensorStats(tw, "denseOut", doc.DenseOut.Weights, doc.DenseOut.Bias)

	return tw.Flush()
}

func printTensorStats(w io.Writer, name string, rows [][]float64, extra []float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	sum := 0.0
	n := 0

	add := func(v float64) {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		sum += v * v
		n++
	}

	for _, row := range rows {
		for _, v := range row {
			add(v)
		}
	}

	for _, v := range extra {
		add(v)
	}

	if n == 0 {
		fmt.Fprintf(w, "%s\t0\t-\t-\t-\n", name)
		return
	}

	fmt.Fprintf(w, "%s\t%d\t%.4f\t%.4f\t%.4f\n", name, n, lo, hi, math.Sqrt(sum/float64(n)))
}
