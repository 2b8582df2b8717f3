//go:build !amd64 || purego

package biquad

import (
	_ "github.com/cwbudde/algo-rackfx/dsp/filter/biquad/internal/arch/generic" // portable fallback
)
