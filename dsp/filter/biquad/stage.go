package biquad

// Stage is a Section that can be bypassed. A bypassed stage returns its
// input unchanged, bit for bit, and does not advance its delay line.
//
// The zero value is a bypassed identity stage.
type Stage struct {
	section Section
	enabled bool
}

// NewStage returns an enabled stage with the given coefficients.
func NewStage(c Coefficients) *Stage {
	return &Stage{section: Section{Coefficients: c}, enabled: true}
}

// Coefficients returns the stage coefficients, regardless of bypass state.
func (s *Stage) Coefficients() Coefficients {
	return s.section.Coefficients
}

// SetCoefficients replaces the coefficients. The delay line is kept so a
// parameter sweep does not restart the filter from silence.
func (s *Stage) SetCoefficients(c Coefficients) {
	s.section.Coefficients = c
}

// Bypassed reports whether the stage is bypassed.
func (s *Stage) Bypassed() bool {
	return !s.enabled
}

// SetBypassed enables or bypasses the stage.
func (s *Stage) SetBypassed(bypassed bool) {
	s.enabled = !bypassed
}

// ProcessSample filters one sample, or returns x when bypassed.
func (s *Stage) ProcessSample(x float64) float64 {
	if !s.enabled {
		return x
	}

	return s.section.ProcessSample(x)
}

// ProcessBlock filters buf in place. A bypassed stage leaves buf untouched.
func (s *Stage) ProcessBlock(buf []float64) {
	if !s.enabled {
		return
	}

	s.section.ProcessBlock(buf)
}

// MagnitudeSquared returns |H(f)|^2 of the stage, 1 when bypassed.
func (s *Stage) MagnitudeSquared(freqHz, sampleRate float64) float64 {
	if !s.enabled {
		return 1
	}

	return s.section.MagnitudeSquared(freqHz, sampleRate)
}

// Reset clears the delay line.
func (s *Stage) Reset() {
	s.section.Reset()
}

// State returns the delay-line state.
func (s *Stage) State() [2]float64 {
	return s.section.State()
}
