package design

import (
	"math"

	"github.com/cwbudde/algo-eq/dsp/filter/biquad"
)

// ButterworthLP designs a lowpass Butterworth cascade.
//
// Second-order sections come in order of increasing Q. For odd orders, the
// final section is first-order (B2=A2=0).
func ButterworthLP(freq float64, order int, sampleRate float64) []biquad.Coefficients {
	if order <= 0 {
		return nil
	}

	return AppendButterworthLP(make([]biquad.Coefficients, 0, (order+1)/2), freq, order, sampleRate)
}

// ButterworthHP designs a highpass Butterworth cascade.
//
// Section order matches [ButterworthLP].
func ButterworthHP(freq float64, order int, sampleRate float64) []biquad.Coefficients {
	if order <= 0 {
		return nil
	}

	return AppendButterworthHP(make([]biquad.Coefficients, 0, (order+1)/2), freq, order, sampleRate)
}

// AppendButterworthLP appends the sections of [ButterworthLP] to dst and
// returns the extended slice. It does not allocate when dst has room for
// (order+1)/2 more sections.
func AppendButterworthLP(dst []biquad.Coefficients, freq float64, order int, sampleRate float64) []biquad.Coefficients {
	if order <= 0 {
		return dst
	}

	for i := order/2 - 1; i >= 0; i-- {
		dst = append(dst, Lowpass(freq, butterworthQ(order, i), sampleRate))
	}

	if order%2 != 0 {
		dst = append(dst, butterworthFirstOrderLP(freq, sampleRate))
	}

	return dst
}

// AppendButterworthHP appends the sections of [ButterworthHP] to dst.
func AppendButterworthHP(dst []biquad.Coefficients, freq float64, order int, sampleRate float64) []biquad.Coefficients {
	if order <= 0 {
		return dst
	}

	for i := order/2 - 1; i >= 0; i-- {
		dst = append(dst, Highpass(freq, butterworthQ(order, i), sampleRate))
	}

	if order%2 != 0 {
		dst = append(dst, butterworthFirstOrderHP(freq, sampleRate))
	}

	return dst
}

// butterworthQ returns the quality factor of biquad section index of an
// order-N Butterworth filter: Q = 1 / (2 sin((2k+1)π / 2N)).
// index ranges from 0 to (order/2 - 1).
func butterworthQ(order, index int) float64 {
	theta := math.Pi * float64(2*index+1) / (2 * float64(order))

	s := math.Sin(theta)
	if s == 0 {
		return defaultQ
	}

	return 1 / (2 * s)
}

// bilinearK computes the bilinear transform frequency warping factor tan(π*freq/sampleRate).
func bilinearK(freq, sampleRate float64) (float64, bool) {
	if sampleRate <= 0 || freq <= 0 || freq >= sampleRate/2 {
		return 0, false
	}

	return math.Tan(math.Pi * freq / sampleRate), true
}

func butterworthFirstOrderLP(freq, sampleRate float64) biquad.Coefficients {
	k, ok := bilinearK(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	norm := 1 / (1 + k)

	return biquad.Coefficients{
		B0: k * norm,
		B1: k * norm,
		A1: (k - 1) * norm,
	}
}

func butterworthFirstOrderHP(freq, sampleRate float64) biquad.Coefficients {
	k, ok := bilinearK(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	norm := 1 / (1 + k)

	return biquad.Coefficients{
		B0: norm,
		B1: -norm,
		A1: (k - 1) * norm,
	}
}
