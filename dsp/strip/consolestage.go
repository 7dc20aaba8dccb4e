package strip

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-channel/dsp/console"
	"github.com/cwbudde/algo-channel/dsp/core"
)

// ConsoleAlgorithm selects the console emulation model.
type ConsoleAlgorithm int

const (
	// ConsoleClean passes the signal through unchanged.
	ConsoleClean ConsoleAlgorithm = iota
	// ConsolePure is the odd-polynomial channel color.
	ConsolePure
	// ConsoleOxford is the tight, fast British desk voicing.
	ConsoleOxford
	// ConsoleEssex is the warm, rounded desk voicing.
	ConsoleEssex
	// ConsoleUSA is the punchy American desk voicing.
	ConsoleUSA
)

// ConsoleStage is the console emulation section. Drive raises the
// level into the console and is divided back out after, so more drive
// means more character at the same loudness.
type ConsoleStage struct {
	bypass Bypass

	pure   *console.Purest
	oxford *console.Console
	essex  *console.Console
	usa    *console.Console

	algorithm ConsoleAlgorithm
	driveDB   float64
	driveGain float64
}

// NewConsoleStage creates the console section in Clean mode. The seed
// keys the per-voicing dither generators.
func NewConsoleStage(sampleRate float64, seed uint32) (*ConsoleStage, error) {
	newVoiced := func(v console.Voicing) (*console.Console, error) {
		c, err := console.NewConsole(sampleRate, seed)
		if err != nil {
			return nil, err
		}
		if err := c.SetVoicing(v); err != nil {
			return nil, err
		}
		return c, nil
	}

	oxford, err := newVoiced(console.VoicingOxford)
	if err != nil {
		return nil, fmt.Errorf("console stage: %w", err)
	}
	essex, err := newVoiced(console.VoicingEssex)
	if err != nil {
		return nil, fmt.Errorf("console stage: %w", err)
	}
	usa, err := newVoiced(console.VoicingUSA)
	if err != nil {
		return nil, fmt.Errorf("console stage: %w", err)
	}

	return &ConsoleStage{
		bypass:    NewBypass(sampleRate),
		pure:      console.NewPurest(seed),
		oxford:    oxford,
		essex:     essex,
		usa:       usa,
		driveGain: 1,
	}, nil
}

// SetAlgorithm selects the console model.
func (s *ConsoleStage) SetAlgorithm(a ConsoleAlgorithm) {
	s.algorithm = a
}

// SetDrive sets the console drive in decibels, clamped to [-18, +18].
func (s *ConsoleStage) SetDrive(dB float64) {
	s.driveDB = core.Clamp(dB, -18, 18)
	s.driveGain = math.Pow(10, s.driveDB/20)
}

// SetBypassed sets the bypass target.
func (s *ConsoleStage) SetBypassed(bypassed bool) { s.bypass.SetBypassed(bypassed) }

// Bypassed reports the bypass target.
func (s *ConsoleStage) Bypassed() bool { return s.bypass.Bypassed() }

// Process runs one sample through the section.
func (s *ConsoleStage) Process(input float64) float64 {
	if s.algorithm == ConsoleClean {
		return s.bypass.Blend(input, input)
	}

	driven := input * s.driveGain

	var processed float64
	switch s.algorithm {
	case ConsolePure:
		processed = s.pure.ProcessSample(driven)
	case ConsoleOxford:
		processed = s.oxford.ProcessSample(driven)
	case ConsoleEssex:
		processed = s.essex.ProcessSample(driven)
	case ConsoleUSA:
		processed = s.usa.ProcessSample(driven)
	default:
		processed = driven
	}

	return s.bypass.Blend(input, processed/s.driveGain)
}

// Reset clears the console states.
func (s *ConsoleStage) Reset() {
	s.pure.Reset()
	s.oxford.Reset()
	s.essex.Reset()
	s.usa.Reset()
}
