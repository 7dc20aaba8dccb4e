package core

import "math"

// Xorshift32 is the 32-bit xorshift pseudo-random generator shared by the
// stateful processors in this module. Every processor instance embeds its
// own generator so that channel instances stay independent and runs are
// reproducible for a given seed.
//
// The zero value is not usable; construct with NewXorshift32.
type Xorshift32 struct {
	state uint32
}

// DefaultNoiseSeed is the seed used when a processor is built without an
// explicit one.
const DefaultNoiseSeed uint32 = 17

// NewXorshift32 returns a generator seeded with seed. A zero seed is
// replaced with DefaultNoiseSeed since xorshift has an absorbing zero state.
func NewXorshift32(seed uint32) *Xorshift32 {
	if seed == 0 {
		seed = DefaultNoiseSeed
	}

	return &Xorshift32{state: seed}
}

// Reseed resets the generator to seed (zero replaced with DefaultNoiseSeed).
func (x *Xorshift32) Reseed(seed uint32) {
	if seed == 0 {
		seed = DefaultNoiseSeed
	}

	x.state = seed
}

// Next advances the generator and returns the new 32-bit state word.
func (x *Xorshift32) Next() uint32 {
	x.state ^= x.state << 13
	x.state ^= x.state >> 17
	x.state ^= x.state << 5

	return x.state
}

// Uniform returns the next draw mapped to [0, 1].
func (x *Xorshift32) Uniform() float64 {
	return float64(x.Next()) / float64(math.MaxUint32)
}

// DenormalGuard returns sample unchanged unless its magnitude is below
// DenormalEpsilon, in which case a minuscule PRNG-derived value is
// substituted. Injecting noise instead of flushing to zero keeps envelope
// followers and one-pole filters out of the denormal range without any
// audible effect.
func (x *Xorshift32) DenormalGuard(sample float64) float64 {
	if math.Abs(sample) < DenormalEpsilon {
		return float64(x.state) * 1.18e-17
	}

	return sample
}

// TPDF adds triangular-PDF dither to sample, scaled to the sample's
// floating-point exponent so the noise sits just below the mantissa's
// resolution regardless of signal level.
func (x *Xorshift32) TPDF(sample float64) float64 {
	frac := math.Abs(sample)
	expon := 0

	if frac != 0 {
		_, expon = math.Frexp(frac)
	}

	x.Next()

	return sample + (float64(x.state)-float64(0x7fffffff))*5.5e-36*math.Pow(2, float64(expon+62))
}
