package main

import (
	"fmt"

	"github.com/cwbudde/algo-eq/dsp/eq"
	"github.com/cwbudde/algo-eq/preset"
)

// SettingsFlags selects the equalizer settings: defaults, then the preset
// file, then individual flags.
type SettingsFlags struct {
	Preset string `type:"existingfile" help:"JSON preset file" group:"Equalizer"`

	LowCutFreq   *float64 `name:"low-cut-freq" help:"Low cut frequency in Hz (20-20000)" group:"Equalizer"`
	LowCutSlope  *string  `name:"low-cut-slope" help:"Low cut slope (12, 24, 36 or 48 dB/Oct)" group:"Equalizer"`
	HighCutFreq  *float64 `name:"high-cut-freq" help:"High cut frequency in Hz (20-20000)" group:"Equalizer"`
	HighCutSlope *string  `name:"high-cut-slope" help:"High cut slope (12, 24, 36 or 48 dB/Oct)" group:"Equalizer"`
	PeakFreq     *float64 `name:"peak-freq" help:"Peak frequency in Hz (20-20000)" group:"Equalizer"`
	PeakGain     *float64 `name:"peak-gain" help:"Peak gain in dB (-24 to 24)" group:"Equalizer"`
	PeakQ        *float64 `name:"peak-q" help:"Peak quality (0.1-10)" group:"Equalizer"`

	BypassLowCut  bool `help:"Bypass the low cut" group:"Equalizer"`
	BypassPeak    bool `help:"Bypass the peak band" group:"Equalizer"`
	BypassHighCut bool `help:"Bypass the high cut" group:"Equalizer"`
	NoAnalyzer    bool `help:"Disable spectrum capture" group:"Equalizer"`
}

// Settings resolves the flags into validated settings.
func (f *SettingsFlags) Settings() (eq.Settings, error) {
	s := eq.DefaultSettings()
	if f.Preset != "" {
		loaded, err := preset.LoadJSON(f.Preset)
		if err != nil {
			return s, err
		}
		s = loaded
	}

	overrides, err := f.file()
	if err != nil {
		return s, err
	}
	if err := preset.Apply(&s, overrides); err != nil {
		return s, err
	}
	return s, nil
}

func (f *SettingsFlags) file() (*preset.File, error) {
	out := &preset.File{
		LowCutFreq:  f.LowCutFreq,
		HighCutFreq: f.HighCutFreq,
		PeakFreq:    f.PeakFreq,
		PeakGainDB:  f.PeakGain,
		PeakQ:       f.PeakQ,
	}

	var err error
	if out.LowCutSlope, err = parseSlopeFlag("low-cut-slope", f.LowCutSlope); err != nil {
		return nil, err
	}
	if out.HighCutSlope, err = parseSlopeFlag("high-cut-slope", f.HighCutSlope); err != nil {
		return nil, err
	}

	on := true
	off := false
	if f.BypassLowCut {
		out.LowCutBypassed = &on
	}
	if f.BypassPeak {
		out.PeakBypassed = &on
	}
	if f.BypassHighCut {
		out.HighCutBypassed = &on
	}
	if f.NoAnalyzer {
		out.AnalyzerEnabled = &off
	}
	return out, nil
}

func parseSlopeFlag(name string, v *string) (*eq.Slope, error) {
	if v == nil {
		return nil, nil
	}
	s, err := eq.ParseSlope(*v)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return &s, nil
}
