package rnn

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
)

var (
	// ErrShape reports a tensor in a Document with the wrong dimensions.
	ErrShape = errors.New("rnn: tensor shape mismatch")
	// ErrNonFinite reports a NaN or Inf value in a Document.
	ErrNonFinite = errors.New("rnn: non-finite weight")
)

// Document is the persisted form of the network weights. Each member is
// optional; ApplyDocument leaves the layer of a nil member untouched. The
// Tanh layer has no weights and no member.
type Document struct {
	Dense1   *DenseDocument `json:"dense1,omitempty"`
	GRU      *GRUDocument   `json:"gru,omitempty"`
	DenseOut *DenseDocument `json:"denseOut,omitempty"`
}

// DenseDocument holds a dense layer. Weights are row-major [out][in].
type DenseDocument struct {
	Weights [][]float64 `json:"weights"`
	Bias    []float64   `json:"bias"`
}

// GRUDocument holds the three gates of a GRU layer.
type GRUDocument struct {
	Z GateDocument `json:"z"`
	R GateDocument `json:"r"`
	C GateDocument `json:"c"`
}

// GateDocument holds one GRU gate. W and U are row-major [out][in].
type GateDocument struct {
	W [][]float64 `json:"w"`
	U [][]float64 `json:"u"`
	B []float64   `json:"b"`
}

// Document captures the weights of Dense1, GRU and DenseOut.
func (n *Network) Document() Document {
	return Document{
		Dense1:   denseDocument(&n.Dense1),
		GRU:      gruDocument(&n.GRU),
		DenseOut: outputDocument(&n.DenseOut),
	}
}

// ApplyDocument restores every member present in doc. Members are checked
// independently: a malformed member is reported and leaves its layer
// untouched, while well-formed members are still applied. The recurrent
// state is not changed.
func (n *Network) ApplyDocument(doc Document) error {
	var errs []error

	if doc.Dense1 != nil {
		if err := applyDense(&n.Dense1, doc.Dense1); err != nil {
			errs = append(errs, fmt.Errorf("rnn: dense1: %w", err))
		}
	}

	if doc.GRU != nil {
		if err := applyGRU(&n.GRU, doc.GRU); err != nil {
			errs = append(errs, fmt.Errorf("rnn: gru: %w", err))
		}
	}

	if doc.DenseOut != nil {
		if err := applyOutput(&n.DenseOut, doc.DenseOut); err != nil {
			errs = append(errs, fmt.Errorf("rnn: denseOut: %w", err))
		}
	}

	return errors.Join(errs...)
}

// MarshalJSON encodes the network weights as a Document.
func (n *Network) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Document())
}

// UnmarshalJSON decodes a Document and applies it.
func (n *Network) UnmarshalJSON(data []byte) error {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("rnn: decode: %w", err)
	}

	return n.ApplyDocument(doc)
}

// Encode writes the network weights to w as indented JSON.
func (n *Network) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(n.Document()); err != nil {
		return fmt.Errorf("rnn: encode: %w", err)
	}

	return nil
}

// Decode reads a JSON Document from r and applies it.
func (n *Network) Decode(r io.Reader) error {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return fmt.Errorf("rnn: decode: %w", err)
	}

	return n.ApplyDocument(doc)
}

func denseDocument(d *Dense) *DenseDocument {
	return &DenseDocument{
		Weights: d.W.rows(),
		Bias:    append([]float64(nil), d.B[:]...),
	}
}

func outputDocument(o *Output) *DenseDocument {
	return &DenseDocument{
		Weights: [][]float64{append([]float64(nil), o.W[:]...)},
		Bias:    []float64{o.B},
	}
}

func gruDocument(g *GRU) *GRUDocument {
	gate := func(gt *Gate) GateDocument {
		return GateDocument{
			W: gt.W.rows(),
			U: gt.U.rows(),
			B: append([]float64(nil), gt.B[:]...),
		}
	}

	return &GRUDocument{Z: gate(&g.Z), R: gate(&g.R), C: gate(&g.C)}
}

func applyDense(d *Dense, doc *DenseDocument) error {
	if err := checkMatrix("weights", doc.Weights, Size, Size); err != nil {
		return err
	}

	if err := checkVector("bias", doc.Bias, Size); err != nil {
		return err
	}

	d.W.setRows(doc.Weights)
	copy(d.B[:], doc.Bias)

	return nil
}

func applyOutput(o *Output, doc *DenseDocument) error {
	if err := checkMatrix("weights", doc.Weights, 1, Size); err != nil {
		return err
	}

	if err := checkVector("bias", doc.Bias, 1); err != nil {
		return err
	}

	copy(o.W[:], doc.Weights[0])
	o.B = doc.Bias[0]

	return nil
}

func applyGRU(g *GRU, doc *GRUDocument) error {
	docs := [3]*GateDocument{&doc.Z, &doc.R, &doc.C}
	names := [3]string{"z", "r", "c"}

	// Check every gate before touching any, so a bad gate leaves the
	// whole layer as it was.
	for i, gd := range docs {
		if err := checkGate(gd); err != nil {
			return fmt.Errorf("%s: %w", names[i], err)
		}
	}

	for i, gate := range g.gates() {
		gate.W.setRows(docs[i].W)
		gate.U.setRows(docs[i].U)
		copy(gate.B[:], docs[i].B)
	}

	return nil
}

func checkGate(gd *GateDocument) error {
	if err := checkMatrix("w", gd.W, Size, Size); err != nil {
		return err
	}

	if err := checkMatrix("u", gd.U, Size, Size); err != nil {
		return err
	}

	return checkVector("b", gd.B, Size)
}

func checkMatrix(name string, m [][]float64, rows, cols int) error {
	if len(m) != rows {
		return fmt.Errorf("%s: %w: got %d rows, want %d", name, ErrShape, len(m), rows)
	}

	for i, row := range m {
		if err := checkVector(fmt.Sprintf("%s[%d]", name, i), row, cols); err != nil {
			return err
		}
	}

	return nil
}

func checkVector(name string, v []float64, n int) error {
	if len(v) != n {
		return fmt.Errorf("%s: %w: got %d values, want %d", name, ErrShape, len(v), n)
	}

	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("%s[%d]: %w: %v", name, i, ErrNonFinite, x)
		}
	}

	return nil
}
