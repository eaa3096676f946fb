package eq

import "github.com/cwbudde/algo-eq/dsp/filter/biquad"

// CutFilter is a bank of MaxCutStages biquad stages of which the first
// ActiveStages run and the rest pass the signal through untouched.
//
// The zero value passes everything through.
type CutFilter struct {
	stages   [MaxCutStages]biquad.Stage
	active   int
	bypassed bool
}

// Configure writes all four coefficient sets and enables exactly the first
// activeCount stages. activeCount is clamped to 1..MaxCutStages.
func (f *CutFilter) Configure(coeffs [MaxCutStages]biquad.Coefficients, activeCount int) {
	if activeCount < 1 {
		activeCount = 1
	}
	if activeCount > MaxCutStages {
		activeCount = MaxCutStages
	}

	for i := range f.stages {
		f.stages[i].SetCoefficients(coeffs[i])
		f.stages[i].SetBypassed(i >= activeCount)
	}

	f.active = activeCount
}

// SetBypassed bypasses the whole bank. Stage configuration is kept.
func (f *CutFilter) SetBypassed(bypassed bool) {
	f.bypassed = bypassed
}

// Bypassed reports whether the whole bank is bypassed.
func (f *CutFilter) Bypassed() bool {
	return f.bypassed
}

// ActiveStages returns the number of enabled stages, 0 before the first
// Configure.
func (f *CutFilter) ActiveStages() int {
	return f.active
}

// Stage returns slot i.
func (f *CutFilter) Stage(i int) *biquad.Stage {
	return &f.stages[i]
}

// Reset clears the delay lines of all stages.
func (f *CutFilter) Reset() {
	for i := range f.stages {
		f.stages[i].Reset()
	}
}

// ProcessSample filters one sample through the enabled stages.
func (f *CutFilter) ProcessSample(x float64) float64 {
	if f.bypassed {
		return x
	}

	for i := 0; i < f.active; i++ {
		x = f.stages[i].ProcessSample(x)
	}

	return x
}

// ProcessBlock filters buf in place through the enabled stages.
func (f *CutFilter) ProcessBlock(buf []float64) {
	if f.bypassed {
		return
	}

	for i := 0; i < f.active; i++ {
		f.stages[i].ProcessBlock(buf)
	}
}

// MagnitudeSquared returns |H(f)|^2 of the bank, 1 when bypassed.
func (f *CutFilter) MagnitudeSquared(freqHz, sampleRate float64) float64 {
	if f.bypassed {
		return 1
	}

	m := 1.0
	for i := 0; i < f.active; i++ {
		m *= f.stages[i].MagnitudeSquared(freqHz, sampleRate)
	}

	return m
}
