package preset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-eq/dsp/eq"
)

func writePreset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "preset.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write preset: %v", err)
	}
	return path
}

func TestLoadJSONAppliesFields(t *testing.T) {
	path := writePreset(t, `{
  "low_cut_freq": 80,
  "high_cut_freq": 12000,
  "peak_freq": 2500,
  "peak_gain_db": -4.5,
  "peak_q": 2,
  "low_cut_slope": "36 dB/Oct",
  "high_cut_slope": 1,
  "peak_bypassed": true,
  "analyzer_enabled": false
}`)

	s, err := LoadJSON(path)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}

	want := eq.Settings{
		LowCutFreq: 80, HighCutFreq: 12000,
		PeakFreq: 2500, PeakGainDB: -4.5, PeakQ: 2,
		LowCutSlope: eq.Slope36, HighCutSlope: eq.Slope24,
		PeakBypassed: true,
	}
	if s != want {
		t.Fatalf("settings = %+v, want %+v", s, want)
	}
}

func TestLoadJSONKeepsDefaultsForMissingFields(t *testing.T) {
	s, err := LoadJSON(writePreset(t, `{"peak_gain_db": 3}`))
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}

	want := eq.DefaultSettings()
	want.PeakGainDB = 3
	if s != want {
		t.Fatalf("settings = %+v, want %+v", s, want)
	}
}

func TestLoadJSONRejectsInvalidRanges(t *testing.T) {
	for _, content := range []string{
		`{"peak_freq": 10}`,
		`{"high_cut_freq": 25000}`,
		`{"peak_gain_db": 30}`,
		`{"peak_q": 0}`,
		`{"low_cut_slope": 9}`,
		`{"high_cut_slope": "18 dB/Oct"}`,
		`{"peak_q": "wide"}`,
	} {
		if _, err := LoadJSON(writePreset(t, content)); err == nil {
			t.Fatalf("expected error for %s", content)
		}
	}

	if _, err := LoadJSON(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSaveJSONRoundTrip(t *testing.T) {
	s := eq.Settings{
		LowCutFreq: 31.5, HighCutFreq: 15999,
		PeakFreq: 1234.5, PeakGainDB: 7.5, PeakQ: 0.35,
		LowCutSlope: eq.Slope48, HighCutSlope: eq.Slope12,
		HighCutBypassed: true, AnalyzerEnabled: true,
	}

	path := filepath.Join(t.TempDir(), "sub", "out.json")
	if err := SaveJSON(path, s); err != nil {
		t.Fatalf("SaveJSON: %v", err)
	}

	back, err := LoadJSON(path)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	if back != s {
		t.Fatalf("round trip = %+v, want %+v", back, s)
	}

	a, _ := eq.MakeChainCoefficients(s, 48000)
	b, _ := eq.MakeChainCoefficients(back, 48000)
	if a != b {
		t.Fatal("coefficients differ after round trip")
	}
}

func TestApplyNil(t *testing.T) {
	if err := Apply(nil, &File{}); err == nil {
		t.Fatal("expected error for nil destination")
	}

	s := eq.DefaultSettings()
	if err := Apply(&s, nil); err != nil {
		t.Fatalf("Apply(nil file): %v", err)
	}
	if s != eq.DefaultSettings() {
		t.Fatal("nil file changed settings")
	}
}
