// Package biquad provides the second-order IIR runtime used by the EQ chain.
//
// A [Section] implements Direct Form II Transposed processing for a single
// section defined by [Coefficients]. A [Stage] wraps a Section with a bypass
// flag: a bypassed stage passes samples through untouched and keeps its
// delay line, so re-enabling it does not click more than the host would.
//
// Coefficient design (Butterworth, RBJ peaking, etc.) lives in
// dsp/filter/design.
package biquad
