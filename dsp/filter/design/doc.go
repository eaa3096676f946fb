// Package design provides the IIR coefficient designers used by the EQ.
//
// The functions in this package produce biquad coefficients consumable by
// dsp/filter/biquad: RBJ second-order lowpass, highpass and peaking
// sections, and Butterworth cascades built from them.
//
// Designers are pure functions of their arguments. Invalid input (a
// frequency at or above Nyquist, a non-positive sample rate) yields zero
// coefficients rather than an error, so callers on the audio path can
// validate once up front.
package design
