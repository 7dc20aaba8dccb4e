// Package biquad provides second-order IIR filter sections in Direct
// Form II Transposed, with frequency-response helpers and a dual-bank
// variant used by the analog-modeling stages.
package biquad
