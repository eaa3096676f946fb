package eq

import (
	"math"

	"github.com/cwbudde/algo-eq/dsp/core"
	"github.com/cwbudde/algo-eq/dsp/filter/biquad"
)

// MonoChain is the per-channel filter path: low-cut bank, peak stage,
// high-cut bank. Each channel owns its chain; coefficients are copied in,
// never shared.
//
// The zero value passes everything through.
type MonoChain struct {
	LowCut  CutFilter
	Peak    biquad.Stage
	HighCut CutFilter
}

// Apply copies cc into the chain and sets every bypass flag. Filter state
// is kept.
func (c *MonoChain) Apply(cc *ChainCoefficients) {
	c.LowCut.Configure(cc.LowCut.Sections, cc.LowCut.Stages)
	c.LowCut.SetBypassed(cc.LowCutBypassed)

	c.Peak.SetCoefficients(cc.Peak)
	c.Peak.SetBypassed(cc.PeakBypassed)

	c.HighCut.Configure(cc.HighCut.Sections, cc.HighCut.Stages)
	c.HighCut.SetBypassed(cc.HighCutBypassed)
}

// ProcessSample filters one sample.
func (c *MonoChain) ProcessSample(x float64) float64 {
	x = c.LowCut.ProcessSample(x)
	x = c.Peak.ProcessSample(x)
	return c.HighCut.ProcessSample(x)
}

// ProcessBlock filters buf in place.
func (c *MonoChain) ProcessBlock(buf []float64) {
	c.LowCut.ProcessBlock(buf)
	c.Peak.ProcessBlock(buf)
	c.HighCut.ProcessBlock(buf)
}

// Reset clears all filter state.
func (c *MonoChain) Reset() {
	c.LowCut.Reset()
	c.Peak.Reset()
	c.HighCut.Reset()
}

// MagnitudeDB returns the response of the configured chain at freqHz.
func (c *MonoChain) MagnitudeDB(freqHz, sampleRate float64) float64 {
	m := c.LowCut.MagnitudeSquared(freqHz, sampleRate) *
		c.Peak.MagnitudeSquared(freqHz, sampleRate) *
		c.HighCut.MagnitudeSquared(freqHz, sampleRate)

	return core.GainToDB(math.Sqrt(m), ResponseFloorDB)
}
