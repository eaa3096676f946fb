package spectrum

import "github.com/cwbudde/algo-vecmath"

// Magnitude returns |X[k]| for each complex spectrum bin.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	re := make([]float64, len(in))
	im := make([]float64, len(in))
	SplitComplex(re, im, in)

	out := make([]float64, len(in))
	vecmath.Magnitude(out, re, im)
	return out
}

// MagnitudeFromParts computes |X[k]| = sqrt(re[k]^2 + im[k]^2) into dst.
//
// This is the zero-allocation path used by [Estimator]. All three slices
// must have the same length.
func MagnitudeFromParts(dst, re, im []float64) {
	vecmath.Magnitude(dst, re, im)
}

// PowerFromParts computes |X[k]|^2 = re[k]^2 + im[k]^2 into dst.
func PowerFromParts(dst, re, im []float64) {
	vecmath.Power(dst, re, im)
}

// SplitComplex copies the real and imaginary parts of in into re and im.
// It writes min(len(re), len(im), len(in)) values.
func SplitComplex(re, im []float64, in []complex128) {
	n := min(len(re), len(im), len(in))
	for i, c := range in[:n] {
		re[i] = real(c)
		im[i] = imag(c)
	}
}
