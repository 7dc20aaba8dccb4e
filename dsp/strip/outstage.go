package strip

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-channel/dsp/clip"
	"github.com/cwbudde/algo-channel/dsp/core"
	"github.com/cwbudde/algo-channel/dsp/drive"
)

// OutStageAlgorithm selects the output saturation or clipping model.
type OutStageAlgorithm int

const (
	OutClean OutStageAlgorithm = iota
	OutPure
	OutTape
	OutTube
	OutHardClip
	OutSoftClip
)

// String returns the algorithm name.
func (a OutStageAlgorithm) String() string {
	switch a {
	case OutClean:
		return "clean"
	case OutPure:
		return "pure"
	case OutTape:
		return "tape"
	case OutTube:
		return "tube"
	case OutHardClip:
		return "hardclip"
	case OutSoftClip:
		return "softclip"
	}
	return "unknown"
}

// OutStage is the output saturation section. The saturators follow
// the shared drive contract; the clippers take drive as level into
// the ceiling, compensated afterwards.
type OutStage struct {
	bypass Bypass

	algorithm OutStageAlgorithm
	driveDB   float64
	driveGain float64

	pure *drive.Purest
	tape *drive.Tape
	tube *drive.Tube
	hard *clip.Hard
	soft *clip.Soft
}

// NewOutStage creates the output stage in Clean mode. The seed keys
// the tape flutter and soft clip dither generators.
func NewOutStage(sampleRate float64, seed uint32) (*OutStage, error) {
	tape, err := drive.NewTape(sampleRate, seed)
	if err != nil {
		return nil, fmt.Errorf("out stage: %w", err)
	}
	tube, err := drive.NewTube(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("out stage: %w", err)
	}
	hard, err := clip.NewHard(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("out stage: %w", err)
	}
	soft, err := clip.NewSoft(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("out stage: %w", err)
	}
	soft.Reseed(seed)

	return &OutStage{
		bypass:    NewBypass(sampleRate),
		driveGain: 1,
		pure:      drive.NewPurest(),
		tape:      tape,
		tube:      tube,
		hard:      hard,
		soft:      soft,
	}, nil
}

// SetAlgorithm selects the saturation or clipping model.
func (s *OutStage) SetAlgorithm(a OutStageAlgorithm) {
	s.algorithm = a
}

// SetDrive sets the drive in decibels, clamped to [-18, +18].
func (s *OutStage) SetDrive(dB float64) {
	dB = core.Clamp(dB, drive.MinDriveDB, drive.MaxDriveDB)
	s.driveDB = dB
	s.driveGain = math.Pow(10, dB/20)

	_ = s.pure.SetDrive(dB)
	_ = s.tape.SetDrive(dB)
	_ = s.tube.SetDrive(dB)
}

// SetBypassed sets the bypass target.
func (s *OutStage) SetBypassed(bypassed bool) { s.bypass.SetBypassed(bypassed) }

// Bypassed reports the bypass target.
func (s *OutStage) Bypassed() bool { return s.bypass.Bypassed() }

// Process runs one sample through the section.
func (s *OutStage) Process(input float64) float64 {
	var wet float64
	switch s.algorithm {
	case OutClean:
		wet = input * s.driveGain
	case OutPure:
		wet = s.pure.ProcessSample(input)
	case OutTape:
		wet = s.tape.ProcessSample(input)
	case OutTube:
		wet = s.tube.ProcessSample(input)
	case OutHardClip:
		wet = s.hard.ProcessSample(input*s.driveGain) / s.driveGain
	case OutSoftClip:
		wet = s.soft.ProcessSample(input*s.driveGain) / s.driveGain
	default:
		wet = input
	}
	return s.bypass.Blend(input, wet)
}

// Reset clears the saturator and clipper state.
func (s *OutStage) Reset() {
	s.pure.Reset()
	s.tape.Reset()
	s.tube.Reset()
	s.hard.Reset()
	s.soft.Reset()
}
