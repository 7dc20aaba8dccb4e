// Package design computes biquad coefficients for the filter shapes
// used across the channel: RBJ cookbook lowpass, highpass and peaking
// designs, a matched-Z highpass that avoids bilinear frequency
// cramping, and tan-prewarped forms for the tone and head-bump stages.
//
// Invalid parameters (non-positive or out-of-range frequency, bad Q,
// bad sample rate) yield zero coefficients rather than NaNs, except Q
// which falls back to Butterworth where a default is meaningful.
package design
