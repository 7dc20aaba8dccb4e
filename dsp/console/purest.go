package console

import (
	"github.com/cwbudde/algo-channel/dsp/core"
)

// Purest is the most transparent console stage: a 9th-order polynomial
// sine approximation that adds only very low-level odd harmonics. It
// is the summing-amp counterpart to the voiced Console stage.
type Purest struct {
	seed uint32
	rng  *core.Xorshift32
}

// NewPurest creates a Purest console stage. A zero seed selects the
// default.
func NewPurest(seed uint32) *Purest {
	return &Purest{seed: seed, rng: core.NewXorshift32(seed)}
}

// ProcessSample shapes one sample.
func (p *Purest) ProcessSample(x float64) float64 {
	x = p.rng.DenormalGuard(x)

	x2 := x * x
	x3 := x2 * x
	x5 := x3 * x2
	x7 := x5 * x2
	x9 := x7 * x2

	x += (x5/128 + x9/262144) - (x3/8 + x7/4096)

	p.rng.Next()

	return x
}

// Reset reseeds the denormal noise generator.
func (p *Purest) Reset() {
	p.rng.Reseed(p.seed)
}
