// Package preset loads and saves equalizer settings as JSON files.
package preset

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/cwbudde/algo-eq/dsp/eq"
)

// File is the JSON schema for equalizer presets. Every field is optional;
// missing fields keep the value they are applied onto.
type File struct {
	LowCutFreq   *float64  `json:"low_cut_freq,omitempty"`
	HighCutFreq  *float64  `json:"high_cut_freq,omitempty"`
	PeakFreq     *float64  `json:"peak_freq,omitempty"`
	PeakGainDB   *float64  `json:"peak_gain_db,omitempty"`
	PeakQ        *float64  `json:"peak_q,omitempty"`
	LowCutSlope  *eq.Slope `json:"low_cut_slope,omitempty"`
	HighCutSlope *eq.Slope `json:"high_cut_slope,omitempty"`

	LowCutBypassed  *bool `json:"low_cut_bypassed,omitempty"`
	PeakBypassed    *bool `json:"peak_bypassed,omitempty"`
	HighCutBypassed *bool `json:"high_cut_bypassed,omitempty"`
	AnalyzerEnabled *bool `json:"analyzer_enabled,omitempty"`
}

// LoadJSON loads a preset JSON file and applies it on top of the default
// settings.
func LoadJSON(path string) (eq.Settings, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return eq.Settings{}, err
	}

	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return eq.Settings{}, fmt.Errorf("preset %s: %w", filepath.Base(path), err)
	}

	s := eq.DefaultSettings()
	if err := Apply(&s, &f); err != nil {
		return eq.Settings{}, fmt.Errorf("preset %s: %w", filepath.Base(path), err)
	}
	return s, nil
}

// SaveJSON writes s as a complete preset file.
func SaveJSON(path string, s eq.Settings) error {
	f := FromSettings(s)
	b, err := json.MarshalIndent(&f, "", "  ")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}

// FromSettings returns a File with every field set from s.
func FromSettings(s eq.Settings) File {
	return File{
		LowCutFreq:      ptr(s.LowCutFreq),
		HighCutFreq:     ptr(s.HighCutFreq),
		PeakFreq:        ptr(s.PeakFreq),
		PeakGainDB:      ptr(s.PeakGainDB),
		PeakQ:           ptr(s.PeakQ),
		LowCutSlope:     ptr(s.LowCutSlope),
		HighCutSlope:    ptr(s.HighCutSlope),
		LowCutBypassed:  ptr(s.LowCutBypassed),
		PeakBypassed:    ptr(s.PeakBypassed),
		HighCutBypassed: ptr(s.HighCutBypassed),
		AnalyzerEnabled: ptr(s.AnalyzerEnabled),
	}
}

// Apply applies a parsed preset file onto existing settings. Values outside
// the parameter ranges are rejected, not clamped.
func Apply(dst *eq.Settings, f *File) error {
	if dst == nil {
		return fmt.Errorf("nil destination settings")
	}
	if f == nil {
		return nil
	}

	floats := []struct {
		name string
		v    *float64
		min  float64
		max  float64
		dst  *float64
	}{
		{"low_cut_freq", f.LowCutFreq, eq.MinFrequency, eq.MaxFrequency, &dst.LowCutFreq},
		{"high_cut_freq", f.HighCutFreq, eq.MinFrequency, eq.MaxFrequency, &dst.HighCutFreq},
		{"peak_freq", f.PeakFreq, eq.MinFrequency, eq.MaxFrequency, &dst.PeakFreq},
		{"peak_gain_db", f.PeakGainDB, eq.MinGainDB, eq.MaxGainDB, &dst.PeakGainDB},
		{"peak_q", f.PeakQ, eq.MinQ, eq.MaxQ, &dst.PeakQ},
	}
	for _, fl := range floats {
		if fl.v == nil {
			continue
		}
		if math.IsNaN(*fl.v) || *fl.v < fl.min || *fl.v > fl.max {
			return fmt.Errorf("%s must be in [%g,%g]", fl.name, fl.min, fl.max)
		}
		*fl.dst = *fl.v
	}

	if f.LowCutSlope != nil {
		if !f.LowCutSlope.Valid() {
			return fmt.Errorf("low_cut_slope must be one of 12, 24, 36, 48 dB/Oct")
		}
		dst.LowCutSlope = *f.LowCutSlope
	}
	if f.HighCutSlope != nil {
		if !f.HighCutSlope.Valid() {
			return fmt.Errorf("high_cut_slope must be one of 12, 24, 36, 48 dB/Oct")
		}
		dst.HighCutSlope = *f.HighCutSlope
	}

	if f.LowCutBypassed != nil {
		dst.LowCutBypassed = *f.LowCutBypassed
	}
	if f.PeakBypassed != nil {
		dst.PeakBypassed = *f.PeakBypassed
	}
	if f.HighCutBypassed != nil {
		dst.HighCutBypassed = *f.HighCutBypassed
	}
	if f.AnalyzerEnabled != nil {
		dst.AnalyzerEnabled = *f.AnalyzerEnabled
	}
	return nil
}

func ptr[T any](v T) *T {
	return &v
}
