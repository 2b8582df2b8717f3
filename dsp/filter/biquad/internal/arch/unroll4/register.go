//go:build amd64 && !purego

// Package unroll4 registers a 4x-unrolled scalar kernel for wide x86 cores.
package unroll4

import (
	"github.com/cwbudde/algo-rackfx/dsp/filter/biquad/internal/arch/registry"
	"github.com/cwbudde/algo-vecmath/cpu"
)

func init() {
	registry.Global.Register(registry.OpEntry{
		Name:         "unroll4",
		SIMDLevel:    cpu.SIMDAVX2,
		Priority:     20,
		ProcessBlock: processBlock,
	})
}

func processBlock(c registry.Coefficients, d0, d1 float64, buf []float64) (newD0, newD1 float64) {
	b0, b1, b2 := c.B0, c.B1, c.B2
	a1, a2 := c.A1, c.A2

	i := 0
	n := len(buf)
	for ; i+3 < n; i += 4 {
		x0 := buf[i]
		y0 := b0*x0 + d0
		e0 := b1*x0 - a1*y0 + d1
		e1 := b2*x0 - a2*y0

		x1 := buf[i+1]
		y1 := b0*x1 + e0
		f0 := b1*x1 - a1*y1 + e1
		f1 := b2*x1 - a2*y1

		x2 := buf[i+2]
		y2 := b0*x2 + f0
		g0 := b1*x2 - a1*y2 + f1
		g1 := b2*x2 - a2*y2

		x3 := buf[i+3]
		y3 := b0*x3 + g0
		d0 = b1*x3 - a1*y3 + g1
		d1 = b2*x3 - a2*y3

		buf[i], buf[i+1], buf[i+2], buf[i+3] = y0, y1, y2, y3
	}

	for ; i < n; i++ {
		x := buf[i]
		y := b0*x + d0
		d0 = b1*x - a1*y + d1
		d1 = b2*x - a2*y
		buf[i] = y
	}

	return d0, d1
}
