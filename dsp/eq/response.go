package eq

import (
	"math"

	"github.com/cwbudde/algo-eq/dsp/core"
)

// ResponseFloorDB is the lowest level reported by response curves.
const ResponseFloorDB = -200.0

// ResponseCurve evaluates the combined magnitude response of cc at every
// frequency in freqs and writes it in dB to dst, which is grown if needed.
// Bypassed stages and bands contribute unity. cc is not modified.
func ResponseCurve(cc *ChainCoefficients, freqs, dst []float64) []float64 {
	dst = core.EnsureLen(dst, len(freqs))

	sr := cc.SampleRate
	for i, f := range freqs {
		m := 1.0

		if !cc.LowCutBypassed {
			for k := 0; k < cc.LowCut.Stages && k < MaxCutStages; k++ {
				m *= cc.LowCut.Sections[k].MagnitudeSquared(f, sr)
			}
		}

		if !cc.PeakBypassed {
			m *= cc.Peak.MagnitudeSquared(f, sr)
		}

		if !cc.HighCutBypassed {
			for k := 0; k < cc.HighCut.Stages && k < MaxCutStages; k++ {
				m *= cc.HighCut.Sections[k].MagnitudeSquared(f, sr)
			}
		}

		dst[i] = core.GainToDB(math.Sqrt(m), ResponseFloorDB)
	}

	return dst
}

// LogFrequencies returns n frequencies spaced evenly on a log axis from lo
// to hi inclusive.
func LogFrequencies(n int, lo, hi float64) []float64 {
	return AppendLogFrequencies(nil, n, lo, hi)
}

// AppendLogFrequencies appends the frequencies of LogFrequencies to dst.
func AppendLogFrequencies(dst []float64, n int, lo, hi float64) []float64 {
	if n <= 0 || !(lo > 0) || !(hi > 0) {
		return dst
	}

	if n == 1 {
		return append(dst, lo)
	}

	ratio := math.Log(hi / lo)
	for i := 0; i < n; i++ {
		dst = append(dst, lo*math.Exp(ratio*float64(i)/float64(n-1)))
	}

	// Pin the end point against rounding.
	dst[len(dst)-1] = hi

	return dst
}

// ResponseEvaluator keeps the response curve of a Params store at a fixed
// width between MinFrequency and MaxFrequency. The curve is recomputed only
// when the settings version, the sample rate or the width changes.
//
// A ResponseEvaluator is not safe for concurrent use; it belongs to the
// analysis goroutine.
type ResponseEvaluator struct {
	params     *Params
	sampleRate float64

	freqs []float64
	curve []float64

	version uint64
	evalSR  float64
	valid   bool
}

// NewResponseEvaluator returns an evaluator reading params.
func NewResponseEvaluator(params *Params, sampleRate float64) *ResponseEvaluator {
	return &ResponseEvaluator{params: params, sampleRate: sampleRate}
}

// SetSampleRate changes the sample rate used for evaluation.
func (r *ResponseEvaluator) SetSampleRate(sampleRate float64) {
	r.sampleRate = sampleRate
}

// SampleRate returns the evaluation sample rate.
func (r *ResponseEvaluator) SampleRate() float64 {
	return r.sampleRate
}

// Frequencies returns the frequency of every point of the last curve.
func (r *ResponseEvaluator) Frequencies() []float64 {
	return r.freqs
}

// Curve returns the response in dB at width log-spaced frequencies and
// reports whether it was recomputed by this call. The returned slice is
// owned by the evaluator and valid until the next call. With no usable
// sample rate the previous curve is returned unchanged.
func (r *ResponseEvaluator) Curve(width int) ([]float64, bool) {
	if width <= 0 {
		return nil, false
	}

	version := r.params.Version()
	if r.valid && len(r.freqs) == width && version == r.version && r.sampleRate == r.evalSR {
		return r.curve, false
	}

	cc, ok := MakeChainCoefficients(r.params.Snapshot(), r.sampleRate)
	if !ok {
		return r.curve, false
	}

	if len(r.freqs) != width {
		r.freqs = AppendLogFrequencies(r.freqs[:0], width, MinFrequency, MaxFrequency)
	}

	r.curve = ResponseCurve(&cc, r.freqs, r.curve)
	r.version = version
	r.evalSR = r.sampleRate
	r.valid = true

	return r.curve, true
}
