package eq

import (
	"math"
	"sync/atomic"
)

// Params is the settings store of one processing session. Every field is
// an independent atomic scalar, so the audio thread can snapshot it while
// any other goroutine writes. A snapshot taken during a write may mix old
// and new fields; the next block picks up the rest.
//
// Every mutation increments Version.
type Params struct {
	values  [numParams]atomic.Uint64
	version atomic.Uint64
}

// NewParams returns a store initialized with s (clamped).
func NewParams(s Settings) *Params {
	p := &Params{}
	p.write(s.Clamp())
	return p
}

// Snapshot reads every field once and returns them as Settings.
func (p *Params) Snapshot() Settings {
	var s Settings
	for id := ParamID(0); id < numParams; id++ {
		s.SetValue(id, p.Get(id))
	}

	return s
}

// Store replaces all fields with s (clamped) and bumps the version once.
func (p *Params) Store(s Settings) {
	p.write(s.Clamp())
	p.version.Add(1)
}

// Set clamps v into the range of id and stores it. Unknown ids are ignored.
func (p *Params) Set(id ParamID, v float64) {
	info, ok := id.Info()
	if !ok {
		return
	}

	p.values[id].Store(math.Float64bits(info.Clamp(v)))
	p.version.Add(1)
}

// Get returns the current value of id, or NaN for unknown ids.
func (p *Params) Get(id ParamID) float64 {
	if !id.Valid() {
		return math.NaN()
	}

	return math.Float64frombits(p.values[id].Load())
}

// Version returns the mutation counter.
func (p *Params) Version() uint64 {
	return p.version.Load()
}

// AnalyzerEnabled reports the analyzer toggle.
func (p *Params) AnalyzerEnabled() bool {
	return p.Get(ParamAnalyzerEnabled) != 0
}

func (p *Params) write(s Settings) {
	for id := ParamID(0); id < numParams; id++ {
		p.values[id].Store(math.Float64bits(s.Value(id)))
	}
}
