package eq

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-eq/dsp/core"
)

// ParamID identifies one equalizer parameter.
type ParamID int

const (
	ParamLowCutFreq ParamID = iota
	ParamHighCutFreq
	ParamPeakFreq
	ParamPeakGain
	ParamPeakQuality
	ParamLowCutSlope
	ParamHighCutSlope
	ParamLowCutBypassed
	ParamPeakBypassed
	ParamHighCutBypassed
	ParamAnalyzerEnabled

	numParams
)

// NumParams is the number of parameters in the layout.
const NumParams = int(numParams)

// Kind tells a front end how a parameter is edited and displayed.
type Kind int

const (
	// KindContinuous is a float with a range and step.
	KindContinuous Kind = iota
	// KindChoice selects one of Choices by index.
	KindChoice
	// KindToggle is an on/off switch stored as 0 or 1.
	KindToggle
)

func (k Kind) String() string {
	switch k {
	case KindContinuous:
		return "continuous"
	case KindChoice:
		return "choice"
	case KindToggle:
		return "toggle"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// ParamInfo describes one parameter: its range, quantization and default.
// Skew shapes the normalized mapping; values below 1 give the low end of the
// range more travel, as log-frequency controls want.
type ParamInfo struct {
	ID      ParamID
	Name    string
	Slug    string
	Kind    Kind
	Unit    string
	Min     float64
	Max     float64
	Step    float64
	Skew    float64
	Default float64
	Choices []string
}

var slopeChoices = []string{"12 dB/Oct", "24 dB/Oct", "36 dB/Oct", "48 dB/Oct"}

var layout = [numParams]ParamInfo{
	ParamLowCutFreq: {
		Name: "LowCut Freq", Slug: "lowcut-freq", Kind: KindContinuous, Unit: "Hz",
		Min: MinFrequency, Max: MaxFrequency, Step: 1, Skew: 0.25, Default: MinFrequency,
	},
	ParamHighCutFreq: {
		Name: "HighCut Freq", Slug: "highcut-freq", Kind: KindContinuous, Unit: "Hz",
		Min: MinFrequency, Max: MaxFrequency, Step: 1, Skew: 0.25, Default: MaxFrequency,
	},
	ParamPeakFreq: {
		Name: "Peak Freq", Slug: "peak-freq", Kind: KindContinuous, Unit: "Hz",
		Min: MinFrequency, Max: MaxFrequency, Step: 1, Skew: 0.25, Default: 750,
	},
	ParamPeakGain: {
		Name: "Peak Gain", Slug: "peak-gain", Kind: KindContinuous, Unit: "dB",
		Min: MinGainDB, Max: MaxGainDB, Step: 0.5, Skew: 1, Default: 0,
	},
	ParamPeakQuality: {
		Name: "Peak Quality", Slug: "peak-quality", Kind: KindContinuous,
		Min: MinQ, Max: MaxQ, Step: 0.05, Skew: 1, Default: 1,
	},
	ParamLowCutSlope: {
		Name: "LowCut Slope", Slug: "lowcut-slope", Kind: KindChoice,
		Min: 0, Max: NumSlopes - 1, Step: 1, Skew: 1, Default: 0, Choices: slopeChoices,
	},
	ParamHighCutSlope: {
		Name: "HighCut Slope", Slug: "highcut-slope", Kind: KindChoice,
		Min: 0, Max: NumSlopes - 1, Step: 1, Skew: 1, Default: 0, Choices: slopeChoices,
	},
	ParamLowCutBypassed: {
		Name: "LowCut Bypassed", Slug: "lowcut-bypassed", Kind: KindToggle,
		Min: 0, Max: 1, Step: 1, Skew: 1,
	},
	ParamPeakBypassed: {
		Name: "Peak Bypassed", Slug: "peak-bypassed", Kind: KindToggle,
		Min: 0, Max: 1, Step: 1, Skew: 1,
	},
	ParamHighCutBypassed: {
		Name: "HighCut Bypassed", Slug: "highcut-bypassed", Kind: KindToggle,
		Min: 0, Max: 1, Step: 1, Skew: 1,
	},
	ParamAnalyzerEnabled: {
		Name: "Analyzer Enabled", Slug: "analyzer-enabled", Kind: KindToggle,
		Min: 0, Max: 1, Step: 1, Skew: 1, Default: 1,
	},
}

func init() {
	for i := range layout {
		layout[i].ID = ParamID(i)
	}
}

// Parameters returns the full parameter layout in ID order.
func Parameters() []ParamInfo {
	out := make([]ParamInfo, len(layout))
	copy(out, layout[:])
	return out
}

// Info returns the layout entry of id.
func (id ParamID) Info() (ParamInfo, bool) {
	if !id.Valid() {
		return ParamInfo{}, false
	}

	return layout[id], true
}

// Valid reports whether id names a parameter.
func (id ParamID) Valid() bool {
	return id >= 0 && id < numParams
}

func (id ParamID) String() string {
	if !id.Valid() {
		return "ParamID(" + strconv.Itoa(int(id)) + ")"
	}

	return layout[id].Name
}

// ParamByName resolves a parameter by display name or slug. Matching ignores
// case, spaces, dashes and underscores.
func ParamByName(name string) (ParamInfo, bool) {
	key := paramKey(name)
	for _, p := range layout {
		if paramKey(p.Name) == key || paramKey(p.Slug) == key {
			return p, true
		}
	}

	return ParamInfo{}, false
}

func paramKey(s string) string {
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(s)))
}

// Clamp maps v into the legal range. Choices round to the nearest index and
// toggles become 0 or 1. NaN maps to the default.
func (p ParamInfo) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return p.Default
	}

	switch p.Kind {
	case KindChoice:
		return core.Clamp(math.Round(v), p.Min, p.Max)
	case KindToggle:
		if v != 0 {
			return 1
		}
		return 0
	default:
		return core.Clamp(v, p.Min, p.Max)
	}
}

// Snap clamps v and rounds it to the parameter step.
func (p ParamInfo) Snap(v float64) float64 {
	v = p.Clamp(v)
	if p.Kind != KindContinuous || p.Step <= 0 {
		return v
	}

	snapped := p.Min + math.Round((v-p.Min)/p.Step)*p.Step
	return core.Clamp(snapped, p.Min, p.Max)
}

// Normalize maps v to [0, 1] applying the skew.
func (p ParamInfo) Normalize(v float64) float64 {
	if p.Max <= p.Min {
		return 0
	}

	proportion := (p.Clamp(v) - p.Min) / (p.Max - p.Min)
	if p.Skew > 0 && p.Skew != 1 && proportion > 0 {
		proportion = math.Pow(proportion, p.Skew)
	}

	return proportion
}

// Denormalize is the inverse of Normalize.
func (p ParamInfo) Denormalize(n float64) float64 {
	n = core.Clamp(n, 0, 1)
	if p.Skew > 0 && p.Skew != 1 && n > 0 {
		n = math.Exp(math.Log(n) / p.Skew)
	}

	return p.Clamp(p.Min + n*(p.Max-p.Min))
}

// Format renders v for display.
func (p ParamInfo) Format(v float64) string {
	v = p.Clamp(v)

	switch p.Kind {
	case KindChoice:
		return p.Choices[int(v)]
	case KindToggle:
		if v != 0 {
			return "ON"
		}
		return "OFF"
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if p.Unit != "" {
		s += " " + p.Unit
	}

	return s
}

// Parse reads a value written by Format, a bare number, a choice label or a
// toggle word (on/off, true/false, yes/no). The result is clamped.
func (p ParamInfo) Parse(text string) (float64, error) {
	t := strings.TrimSpace(text)

	switch p.Kind {
	case KindToggle:
		switch strings.ToLower(t) {
		case "on", "true", "yes", "1":
			return 1, nil
		case "off", "false", "no", "0":
			return 0, nil
		}
		return 0, fmt.Errorf("eq: %s: invalid toggle %q", p.Name, text)
	case KindChoice:
		for i, c := range p.Choices {
			if strings.EqualFold(c, t) {
				return float64(i), nil
			}
		}
		s, err := ParseSlope(t)
		if err != nil {
			return 0, fmt.Errorf("eq: %s: %w", p.Name, err)
		}
		return float64(s), nil
	}

	if p.Unit != "" && len(t) >= len(p.Unit) && strings.EqualFold(t[len(t)-len(p.Unit):], p.Unit) {
		t = strings.TrimSpace(t[:len(t)-len(p.Unit)])
	}

	v, err := strconv.ParseFloat(t, 64)
	if err != nil || math.IsNaN(v) {
		return 0, fmt.Errorf("eq: %s: invalid value %q", p.Name, text)
	}

	return p.Clamp(v), nil
}

// Value returns the field of s addressed by id as a float.
func (s Settings) Value(id ParamID) float64 {
	switch id {
	case ParamLowCutFreq:
		return s.LowCutFreq
	case ParamHighCutFreq:
		return s.HighCutFreq
	case ParamPeakFreq:
		return s.PeakFreq
	case ParamPeakGain:
		return s.PeakGainDB
	case ParamPeakQuality:
		return s.PeakQ
	case ParamLowCutSlope:
		return float64(s.LowCutSlope)
	case ParamHighCutSlope:
		return float64(s.HighCutSlope)
	case ParamLowCutBypassed:
		return boolValue(s.LowCutBypassed)
	case ParamPeakBypassed:
		return boolValue(s.PeakBypassed)
	case ParamHighCutBypassed:
		return boolValue(s.HighCutBypassed)
	case ParamAnalyzerEnabled:
		return boolValue(s.AnalyzerEnabled)
	default:
		return math.NaN()
	}
}

// SetValue clamps v and stores it in the field addressed by id. Unknown ids
// are ignored.
func (s *Settings) SetValue(id ParamID, v float64) {
	info, ok := id.Info()
	if !ok {
		return
	}

	v = info.Clamp(v)

	switch id {
	case ParamLowCutFreq:
		s.LowCutFreq = v
	case ParamHighCutFreq:
		s.HighCutFreq = v
	case ParamPeakFreq:
		s.PeakFreq = v
	case ParamPeakGain:
		s.PeakGainDB = v
	case ParamPeakQuality:
		s.PeakQ = v
	case ParamLowCutSlope:
		s.LowCutSlope = Slope(v)
	case ParamHighCutSlope:
		s.HighCutSlope = Slope(v)
	case ParamLowCutBypassed:
		s.LowCutBypassed = v != 0
	case ParamPeakBypassed:
		s.PeakBypassed = v != 0
	case ParamHighCutBypassed:
		s.HighCutBypassed = v != 0
	case ParamAnalyzerEnabled:
		s.AnalyzerEnabled = v != 0
	}
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
