// Package drive implements the saturation stages of the channel:
// Purest (transient-aware sine shaping), Tube (asymmetric valve
// saturation with hysteresis), and Tape (a full tape path with
// companding, flutter, bias and head bump).
//
// All three share one drive contract: negative drive values attenuate
// the input cleanly while the shaper stays at its neutral setting,
// and positive values push the shaper progressively harder over the
// 0 to +18 dB range.
package drive
