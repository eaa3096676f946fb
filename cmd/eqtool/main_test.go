package main

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-eq/dsp/analyzer"
	"github.com/cwbudde/algo-eq/dsp/eq"
	"github.com/cwbudde/algo-eq/dsp/window"
	"github.com/cwbudde/algo-eq/internal/audiofile"
	"github.com/cwbudde/algo-eq/internal/testutil"
	"github.com/cwbudde/algo-eq/preset"
)

func ptr[T any](v T) *T { return &v }

func TestSettingsFlagsLayering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.json")
	base := eq.DefaultSettings()
	base.PeakFreq = 2000
	base.PeakGainDB = -3
	if err := preset.SaveJSON(path, base); err != nil {
		t.Fatal(err)
	}

	f := SettingsFlags{
		Preset:       path,
		PeakGain:     ptr(6.0),
		HighCutSlope: ptr("48 dB/Oct"),
		BypassLowCut: true,
		NoAnalyzer:   true,
	}
	s, err := f.Settings()
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	if s.PeakFreq != 2000 {
		t.Fatalf("peak freq = %v, want preset value 2000", s.PeakFreq)
	}
	if s.PeakGainDB != 6 {
		t.Fatalf("peak gain = %v, want flag value 6", s.PeakGainDB)
	}
	if s.HighCutSlope != eq.Slope48 || !s.LowCutBypassed || s.AnalyzerEnabled {
		t.Fatalf("settings = %+v", s)
	}
	if s.PeakBypassed || s.HighCutBypassed {
		t.Fatal("unset bypass flags changed the settings")
	}
}

func TestSettingsFlagsRejectInvalid(t *testing.T) {
	for name, f := range map[string]SettingsFlags{
		"slope": {LowCutSlope: ptr("13")},
		"gain":  {PeakGain: ptr(30.0)},
		"freq":  {LowCutFreq: ptr(5.0)},
	} {
		if _, err := f.Settings(); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestFileSource(t *testing.T) {
	a := &audiofile.Audio{SampleRate: 8, Channels: [][]float64{{1, 2, 3}, {-1, -2, -3}}}

	src := newFileSource(a, false)
	out := make([]float64, 4)
	if n := src.Read(out); n != 4 || out[0] != 1 || out[1] != -1 || out[2] != 2 || out[3] != -2 {
		t.Fatalf("first read n=%d out=%v", n, out)
	}
	if n := src.Read(out); n != 2 || out[0] != 3 || out[1] != -3 {
		t.Fatalf("second read n=%d out=%v", n, out)
	}
	if n := src.Read(out); n != 0 {
		t.Fatalf("read past end n=%d", n)
	}

	looped := newFileSource(a, true)
	out = make([]float64, 8)
	if n := looped.Read(out); n != 8 {
		t.Fatalf("looped n=%d", n)
	}
	want := []float64{1, -1, 2, -2, 3, -3, 1, -1}
	testutil.RequireBitIdentical(t, out, want)
}

func TestRenderAudioMatchesChain(t *testing.T) {
	const sr = 48000

	s := eq.DefaultSettings()
	s.PeakFreq = 1000
	s.PeakGainDB = 9
	s.LowCutFreq = 100
	s.LowCutSlope = eq.Slope36

	in := testutil.DeterministicNoise(7, 0.5, 6000)
	a := &audiofile.Audio{SampleRate: sr, Channels: [][]float64{append([]float64(nil), in...)}}

	res, err := renderAudio(a, eq.NewParams(s), 300, analyzer.WithWindowSize(1024))
	if err != nil {
		t.Fatalf("renderAudio: %v", err)
	}

	cc, ok := eq.MakeChainCoefficients(s, sr)
	if !ok {
		t.Fatal("coefficients deferred")
	}
	var chain eq.MonoChain
	chain.Apply(&cc)
	want := append([]float64(nil), in...)
	chain.ProcessBlock(want)

	testutil.RequireBitIdentical(t, a.Channels[0], want)

	if res.Windows != 5 {
		t.Fatalf("windows = %d, want 5", res.Windows)
	}
	if res.Dropped != 0 {
		t.Fatalf("dropped = %d", res.Dropped)
	}
	if len(res.Curves) != 1 || len(res.Curves[0]) == 0 {
		t.Fatalf("curves = %d", len(res.Curves))
	}
}

func TestWriteSpectrumCSV(t *testing.T) {
	a := &audiofile.Audio{
		SampleRate: 48000,
		Channels: [][]float64{
			testutil.DeterministicSine(1000, 48000, 0.5, 4096),
			testutil.DeterministicSine(3000, 48000, 0.5, 4096),
		},
	}
	res, err := renderAudio(a, eq.NewParams(eq.DefaultSettings()), 512, analyzer.WithWindowSize(2048))
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "out", "spectrum.csv")
	if err := writeSpectrumCSV(path, res.Curves); err != nil {
		t.Fatalf("writeSpectrumCSV: %v", err)
	}

	fh, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer fh.Close()
	records, err := csv.NewReader(fh).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if got := records[0]; len(got) != 3 || got[0] != "freq_hz" || got[2] != "ch1_db" {
		t.Fatalf("header = %v", got)
	}
	if len(records)-1 != len(res.Curves[0]) {
		t.Fatalf("rows = %d, want %d", len(records)-1, len(res.Curves[0]))
	}
}

func TestResponseTable(t *testing.T) {
	freqs, db, err := responseTable(eq.DefaultSettings(), 48000, 31, 20, 20000)
	if err != nil {
		t.Fatalf("responseTable: %v", err)
	}
	if len(freqs) != 31 || len(db) != 31 {
		t.Fatalf("lengths %d/%d", len(freqs), len(db))
	}
	if math.Abs(db[15]) > 0.5 {
		t.Fatalf("mid-band gain = %v dB", db[15])
	}

	if _, _, err := responseTable(eq.DefaultSettings(), 0, 31, 20, 20000); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
	if _, _, err := responseTable(eq.DefaultSettings(), 48000, 0, 20, 20000); err == nil {
		t.Fatal("expected error for zero points")
	}
}

func TestStageRows(t *testing.T) {
	s := eq.DefaultSettings()
	s.LowCutSlope = eq.Slope36
	s.HighCutSlope = eq.Slope12
	s.HighCutFreq = 20000
	cc, ok := eq.MakeChainCoefficients(s, 32000)
	if !ok {
		t.Fatal("MakeChainCoefficients failed")
	}

	rows := stageRows(&cc)
	if len(rows) != 5 {
		t.Fatalf("rows = %d, want 5", len(rows))
	}
	if rows[0].Name != "low cut 1" || rows[3].Name != "peak" || rows[4].Name != "high cut 1" {
		t.Fatalf("order = %v", rows)
	}
	for _, r := range rows {
		if !r.Stable || !(r.Radius < 1) {
			t.Fatalf("%s: radius %v stable %v", r.Name, r.Radius, r.Stable)
		}
	}

	cc.PeakBypassed = true
	cc.LowCutBypassed = true
	if rows := stageRows(&cc); len(rows) != 1 || rows[0].Name != "high cut 1" {
		t.Fatalf("bypassed rows = %v", rows)
	}
}

func TestWindowRows(t *testing.T) {
	types, err := resolveWindows([]string{"hann", "flat-top"})
	if err != nil {
		t.Fatal(err)
	}
	rows, err := windowRows(types, 4096, window.WithPeriodic())
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[0][0] != "Hann" || rows[0][2] != "0.500000" || rows[0][3] != "1.5000" {
		t.Fatalf("rows = %v", rows)
	}

	if _, err := resolveWindows([]string{"nope"}); err == nil {
		t.Fatal("expected error for unknown window")
	}
	all, _ := resolveWindows(nil)
	if len(all) != len(window.Types()) {
		t.Fatalf("default windows = %d", len(all))
	}
	if _, err := windowRows(all, 1); err == nil {
		t.Fatal("expected error for size 1")
	}
}

func TestFormatHz(t *testing.T) {
	if got := formatHz(750); got != "750.0 Hz" {
		t.Fatalf("formatHz(750) = %q", got)
	}
	if got := formatHz(12500); got != "12.50 kHz" {
		t.Fatalf("formatHz(12500) = %q", got)
	}
}

func TestRenderSourceGenerators(t *testing.T) {
	c := RenderCmd{Source: "impulse", SampleRate: 1000, Channels: 2, Duration: 0.01, Amplitude: 0.5}
	a, err := c.source()
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	if len(a.Channels) != 2 || a.Frames() != 10 || a.SampleRate != 1000 {
		t.Fatalf("layout = %d ch, %d frames, %d Hz", len(a.Channels), a.Frames(), a.SampleRate)
	}
	if a.Channels[1][0] != 0.5 || a.Channels[1][1] != 0 {
		t.Fatalf("impulse = %v", a.Channels[1])
	}

	a.Channels[0][0] = 9
	if a.Channels[1][0] != 0.5 {
		t.Fatal("channels share storage")
	}

	c = RenderCmd{Source: "sweep", SampleRate: 32000, Channels: 1, Duration: 0.1, Amplitude: 0.5}
	if _, err := c.source(); err != nil {
		t.Fatalf("sweep at 32 kHz: %v", err)
	}

	c = RenderCmd{Source: "wav"}
	if _, err := c.source(); err == nil {
		t.Fatal("expected error without an input file")
	}
	c = RenderCmd{Source: "noise", SampleRate: 48000, Channels: 0, Duration: 1}
	if _, err := c.source(); err == nil {
		t.Fatal("expected error for zero channels")
	}
}
