// Package core provides shared numeric helpers for the channel-strip DSP
// processors: range clamping, dB conversion, approximate comparison, and
// the per-instance xorshift noise source used for denormal avoidance and
// output dither.
package core
