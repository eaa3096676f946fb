package eq

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-eq/dsp/core"
)

// Frequency range shared by all bands.
const (
	MinFrequency = 20.0
	MaxFrequency = 20000.0
)

// Peak gain and quality ranges.
const (
	MinGainDB = -24.0
	MaxGainDB = 24.0
	MinQ      = 0.1
	MaxQ      = 10.0
)

// Slope is the steepness of a cut filter. Each step adds one second-order
// section, i.e. 12 dB per octave.
type Slope int

const (
	Slope12 Slope = iota
	Slope24
	Slope36
	Slope48
)

// NumSlopes is the number of selectable slopes.
const NumSlopes = 4

// Stages returns the number of second-order sections for the slope.
func (s Slope) Stages() int {
	return int(s.clamp()) + 1
}

// Order returns the Butterworth order of the slope.
func (s Slope) Order() int {
	return 2 * s.Stages()
}

// DBPerOctave returns the asymptotic rolloff.
func (s Slope) DBPerOctave() int {
	return 12 * s.Stages()
}

// Valid reports whether s is one of the defined slopes.
func (s Slope) Valid() bool {
	return s >= Slope12 && s <= Slope48
}

func (s Slope) clamp() Slope {
	switch {
	case s < Slope12:
		return Slope12
	case s > Slope48:
		return Slope48
	default:
		return s
	}
}

func (s Slope) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Slope(%d)", int(s))
	}

	return fmt.Sprintf("%d dB/Oct", s.DBPerOctave())
}

// MarshalText encodes the slope by its label.
func (s Slope) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("eq: invalid slope %d", int(s))
	}

	return []byte(s.String()), nil
}

// UnmarshalText accepts anything ParseSlope does.
func (s *Slope) UnmarshalText(text []byte) error {
	v, err := ParseSlope(string(text))
	if err != nil {
		return err
	}

	*s = v
	return nil
}

// UnmarshalJSON accepts a label string or a bare number, read as by
// ParseSlope.
func (s *Slope) UnmarshalJSON(b []byte) error {
	return s.UnmarshalText([]byte(strings.Trim(string(b), `"`)))
}

// ParseSlope parses a choice index ("1"), a rolloff in dB per octave ("24")
// or a label ("24 dB/Oct", case-insensitive).
func ParseSlope(text string) (Slope, error) {
	t := strings.ToLower(strings.TrimSpace(text))
	t = strings.TrimSuffix(t, "db/oct")
	t = strings.TrimSpace(t)

	n, err := strconv.Atoi(t)
	if err != nil {
		return 0, fmt.Errorf("eq: invalid slope %q", text)
	}

	switch {
	case n >= 0 && n < NumSlopes:
		return Slope(n), nil
	case n > 0 && n%12 == 0 && n/12 <= NumSlopes:
		return Slope(n/12 - 1), nil
	default:
		return 0, fmt.Errorf("eq: invalid slope %q", text)
	}
}

// Settings is a complete snapshot of the equalizer parameters.
type Settings struct {
	PeakFreq   float64
	PeakGainDB float64
	PeakQ      float64

	LowCutFreq  float64
	HighCutFreq float64

	LowCutSlope  Slope
	HighCutSlope Slope

	LowCutBypassed  bool
	PeakBypassed    bool
	HighCutBypassed bool

	AnalyzerEnabled bool
}

// DefaultSettings returns a flat equalizer: cut filters at the range ends,
// a 0 dB peak at 750 Hz and the analyzer on.
func DefaultSettings() Settings {
	return Settings{
		PeakFreq:        750,
		PeakGainDB:      0,
		PeakQ:           1,
		LowCutFreq:      MinFrequency,
		HighCutFreq:     MaxFrequency,
		LowCutSlope:     Slope12,
		HighCutSlope:    Slope12,
		AnalyzerEnabled: true,
	}
}

// Clamp returns s with every field mapped into its legal range. NaN fields
// take their default value.
func (s Settings) Clamp() Settings {
	d := DefaultSettings()

	s.PeakFreq = clampField(s.PeakFreq, MinFrequency, MaxFrequency, d.PeakFreq)
	s.PeakGainDB = clampField(s.PeakGainDB, MinGainDB, MaxGainDB, d.PeakGainDB)
	s.PeakQ = clampField(s.PeakQ, MinQ, MaxQ, d.PeakQ)
	s.LowCutFreq = clampField(s.LowCutFreq, MinFrequency, MaxFrequency, d.LowCutFreq)
	s.HighCutFreq = clampField(s.HighCutFreq, MinFrequency, MaxFrequency, d.HighCutFreq)
	s.LowCutSlope = s.LowCutSlope.clamp()
	s.HighCutSlope = s.HighCutSlope.clamp()

	return s
}

// Validate reports the first field outside its legal range.
func (s Settings) Validate() error {
	check := func(name string, v, lo, hi float64) error {
		if math.IsNaN(v) || v < lo || v > hi {
			return fmt.Errorf("eq: %s %v out of range [%v, %v]", name, v, lo, hi)
		}
		return nil
	}

	for _, c := range []struct {
		name      string
		v, lo, hi float64
	}{
		{"peak frequency", s.PeakFreq, MinFrequency, MaxFrequency},
		{"peak gain", s.PeakGainDB, MinGainDB, MaxGainDB},
		{"peak quality", s.PeakQ, MinQ, MaxQ},
		{"low-cut frequency", s.LowCutFreq, MinFrequency, MaxFrequency},
		{"high-cut frequency", s.HighCutFreq, MinFrequency, MaxFrequency},
	} {
		if err := check(c.name, c.v, c.lo, c.hi); err != nil {
			return err
		}
	}

	if !s.LowCutSlope.Valid() {
		return fmt.Errorf("eq: invalid low-cut slope %d", int(s.LowCutSlope))
	}
	if !s.HighCutSlope.Valid() {
		return fmt.Errorf("eq: invalid high-cut slope %d", int(s.HighCutSlope))
	}

	return nil
}

func clampField(v, lo, hi, def float64) float64 {
	if math.IsNaN(v) {
		return def
	}

	return core.Clamp(v, lo, hi)
}
