package eq

import (
	"math"

	"github.com/cwbudde/algo-eq/dsp/filter/biquad"
	"github.com/cwbudde/algo-eq/dsp/filter/design"
)

// MaxCutStages is the number of second-order slots in a cut filter.
const MaxCutStages = NumSlopes

// Designed frequencies are kept below this fraction of the sample rate.
const nyquistLimit = 0.49

// CutCoefficients holds the sections of one cut filter. Slots at and above
// Stages are identity.
type CutCoefficients struct {
	Sections [MaxCutStages]biquad.Coefficients
	Stages   int
}

// ChainCoefficients is the full coefficient set of one MonoChain at one
// sample rate.
type ChainCoefficients struct {
	LowCut  CutCoefficients
	Peak    biquad.Coefficients
	HighCut CutCoefficients

	LowCutBypassed  bool
	PeakBypassed    bool
	HighCutBypassed bool

	SampleRate float64
}

// PeakCoefficients designs the peaking section of s.
func PeakCoefficients(s Settings, sampleRate float64) biquad.Coefficients {
	return design.Peak(limitFrequency(s.PeakFreq, sampleRate), s.PeakGainDB, s.PeakQ, sampleRate)
}

// LowCutCoefficients designs the low-cut bank of s: a Butterworth highpass
// of order 2 x stages split into second-order sections.
func LowCutCoefficients(s Settings, sampleRate float64) CutCoefficients {
	var cc CutCoefficients
	cc.Stages = s.LowCutSlope.Stages()
	fillIdentity(&cc)
	design.AppendButterworthHP(cc.Sections[:0], limitFrequency(s.LowCutFreq, sampleRate), s.LowCutSlope.Order(), sampleRate)

	return cc
}

// HighCutCoefficients designs the high-cut bank of s.
func HighCutCoefficients(s Settings, sampleRate float64) CutCoefficients {
	var cc CutCoefficients
	cc.Stages = s.HighCutSlope.Stages()
	fillIdentity(&cc)
	design.AppendButterworthLP(cc.Sections[:0], limitFrequency(s.HighCutFreq, sampleRate), s.HighCutSlope.Order(), sampleRate)

	return cc
}

// MakeChainCoefficients designs every band of s. It returns false when the
// sample rate is not usable; callers then keep their current coefficients.
func MakeChainCoefficients(s Settings, sampleRate float64) (ChainCoefficients, bool) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return ChainCoefficients{}, false
	}

	return ChainCoefficients{
		LowCut:          LowCutCoefficients(s, sampleRate),
		Peak:            PeakCoefficients(s, sampleRate),
		HighCut:         HighCutCoefficients(s, sampleRate),
		LowCutBypassed:  s.LowCutBypassed,
		PeakBypassed:    s.PeakBypassed,
		HighCutBypassed: s.HighCutBypassed,
		SampleRate:      sampleRate,
	}, true
}

func fillIdentity(cc *CutCoefficients) {
	for i := range cc.Sections {
		cc.Sections[i] = biquad.Identity()
	}
}

func limitFrequency(freq, sampleRate float64) float64 {
	return math.Min(freq, nyquistLimit*sampleRate)
}
