package strip

// bypassFadeSec is the crossfade length used by every section.
const bypassFadeSec = 0.01

// Bypass is the crossfade state machine shared by all sections. The
// mix runs from 0 (fully active) to 1 (fully bypassed) with a
// single-pole approach over 10 ms, snapping to the endpoints so no
// denormal residue lingers. The wet path keeps running while
// bypassed, so sections re-activate without a state transient; once
// the mix saturates at 1 the dry input passes through exactly.
type Bypass struct {
	target    bool
	mix       float64
	fadeCoeff float64
}

// NewBypass creates a bypass crossfade for the given sample rate,
// starting fully active.
func NewBypass(sampleRate float64) Bypass {
	return Bypass{fadeCoeff: 1 / (bypassFadeSec * sampleRate)}
}

// SetBypassed sets the target bypass state. The transition fades over
// 10 ms starting with the next processed sample.
func (b *Bypass) SetBypassed(bypassed bool) {
	b.target = bypassed
}

// Bypassed reports the target bypass state.
func (b *Bypass) Bypassed() bool {
	return b.target
}

// Settled reports whether the crossfade has reached its target
// endpoint.
func (b *Bypass) Settled() bool {
	if b.target {
		return b.mix == 1
	}
	return b.mix == 0
}

// Blend advances the crossfade by one sample and combines the wet and
// dry signals. The result is always a convex combination of the two.
func (b *Bypass) Blend(dry, wet float64) float64 {
	if b.target {
		if b.mix < 0.99 {
			b.mix += (1 - b.mix) * b.fadeCoeff
			if b.mix > 0.99 {
				b.mix = 1
			}
		} else {
			b.mix = 1
		}
	} else {
		if b.mix > 0.01 {
			b.mix += (0 - b.mix) * b.fadeCoeff
			if b.mix < 0.01 {
				b.mix = 0
			}
		} else {
			b.mix = 0
		}
	}

	switch b.mix {
	case 0:
		return wet
	case 1:
		return dry
	}
	return wet*(1-b.mix) + dry*b.mix
}
