package strip

import "github.com/cwbudde/algo-channel/dsp/core"

// VariationChannels is the number of modeled desk channels.
const VariationChannels = 48

// variationSeed fixes the preset table so recall is identical across
// builds and runs.
const variationSeed = 9458

// Variation holds one channel's worth of component-tolerance offsets.
// Every field is added to the user's base setting when variation is
// enabled; the ranges are small enough to stay inaudible in isolation
// while decorrelating channels from one another.
type Variation struct {
	EQTrebleGain float64 // +-0.3 dB
	EQTrebleFreq float64 // +-16 Hz
	EQBassGain   float64 // +-0.3 dB
	EQBassFreq   float64 // +-10 Hz

	EQBell1Freq float64 // +-10 Hz
	EQBell1Gain float64 // +-0.35 dB
	EQBell1Q    float64 // +-0.06
	EQBell2Freq float64 // +-10 Hz
	EQBell2Gain float64 // +-0.35 dB
	EQBell2Q    float64 // +-0.06

	LPFFreq float64 // +-100 Hz
	LPFQ    float64 // +-0.06
	HPFFreq float64 // +-8 Hz
	HPFQ    float64 // +-0.06

	ConsoleDrive float64 // +-0.25 dB
	OutputGain   float64 // +-0.09 dB
}

// variations is the fixed preset table, generated once at package
// init from the variation seed.
var variations = buildVariations()

func buildVariations() [VariationChannels]Variation {
	rng := core.NewXorshift32(variationSeed)
	spread := func(max float64) float64 {
		return (rng.Uniform()*2 - 1) * max
	}

	var table [VariationChannels]Variation
	for i := range table {
		table[i] = Variation{
			EQTrebleGain: spread(0.3),
			EQTrebleFreq: spread(16),
			EQBassGain:   spread(0.3),
			EQBassFreq:   spread(10),
			EQBell1Freq:  spread(10),
			EQBell1Gain:  spread(0.35),
			EQBell1Q:     spread(0.06),
			EQBell2Freq:  spread(10),
			EQBell2Gain:  spread(0.35),
			EQBell2Q:     spread(0.06),
			LPFFreq:      spread(100),
			LPFQ:         spread(0.06),
			HPFFreq:      spread(8),
			HPFQ:         spread(0.06),
			ConsoleDrive: spread(0.25),
			OutputGain:   spread(0.09),
		}
	}
	return table
}

// VariationFor returns the offsets of the given desk channel number,
// clamping the index to 0..47.
func VariationFor(channel int) Variation {
	return variations[core.ClampInt(channel, 0, VariationChannels-1)]
}
