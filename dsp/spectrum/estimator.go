package spectrum

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-eq/dsp/window"
	algofft "github.com/cwbudde/algo-fft"
)

const (
	// DefaultSize is the analysis window length in samples.
	DefaultSize = 2048
	// MinSize is the smallest accepted analysis window.
	MinSize = 64
	// DefaultFloorDB is the lowest level an estimate reports.
	DefaultFloorDB = -48.0
)

var (
	// ErrInvalidSize reports a window size that is not a power of two >= MinSize.
	ErrInvalidSize = errors.New("spectrum: size must be a power of two >= 64")
	// ErrInvalidSampleRate reports a non-positive or non-finite sample rate.
	ErrInvalidSampleRate = errors.New("spectrum: sample rate must be > 0")
	// ErrLengthMismatch reports an input block whose length differs from the
	// estimator size.
	ErrLengthMismatch = errors.New("spectrum: input length does not match estimator size")
)

// EstimatorOption configures an Estimator.
type EstimatorOption func(*estimatorConfig)

type estimatorConfig struct {
	window  window.Type
	floorDB float64
	lo, hi  float64
}

func defaultEstimatorConfig() estimatorConfig {
	return estimatorConfig{
		window:  window.TypeBlackmanHarris4Term,
		floorDB: DefaultFloorDB,
		lo:      MinFrequency,
		hi:      MaxFrequency,
	}
}

// WithWindow selects the analysis window. Default is 4-term Blackman-Harris.
func WithWindow(t window.Type) EstimatorOption {
	return func(c *estimatorConfig) {
		c.window = t
	}
}

// WithFloorDB sets the lowest reported level. Default is -48 dB.
func WithFloorDB(db float64) EstimatorOption {
	return func(c *estimatorConfig) {
		if !math.IsNaN(db) && !math.IsInf(db, 0) {
			c.floorDB = db
		}
	}
}

// WithFrequencyRange limits the bins mapped onto the curve. Default is
// 20 Hz to 20 kHz.
func WithFrequencyRange(lo, hi float64) EstimatorOption {
	return func(c *estimatorConfig) {
		if lo > hi {
			lo, hi = hi, lo
		}
		if lo > 0 && hi > 0 {
			c.lo, c.hi = lo, hi
		}
	}
}

// Estimator computes windowed FFT magnitude curves of a fixed size. All
// buffers are allocated up front; an Estimator is not safe for concurrent
// use.
type Estimator struct {
	size       int
	sampleRate float64
	cfg        estimatorConfig

	plan   *algofft.Plan[complex128]
	window []float64
	norm   float64

	windowed []float64
	in       []complex128
	out      []complex128
	re       []float64
	im       []float64
	mag      []float64

	firstBin  int
	positions []float64
}

// NewEstimator returns an estimator for windows of size samples at
// sampleRate.
func NewEstimator(size int, sampleRate float64, opts ...EstimatorOption) (*Estimator, error) {
	if size < MinSize || size&(size-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSampleRate, sampleRate)
	}

	cfg := defaultEstimatorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	win := window.Generate(cfg.window, size, window.WithPeriodic())
	cg, err := window.CoherentGain(win)
	if err != nil {
		return nil, fmt.Errorf("spectrum: %s window: %w", cfg.window, err)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("spectrum: init fft plan: %w", err)
	}

	half := size / 2
	binHz := sampleRate / float64(size)

	first := int(math.Ceil(cfg.lo / binHz))
	if first < 1 {
		first = 1
	}
	last := int(math.Floor(cfg.hi / binHz))
	if last > half {
		last = half
	}

	var positions []float64
	if last >= first {
		positions = make([]float64, last-first+1)
		for i := range positions {
			positions[i] = LogPosition(float64(first+i) * binHz)
		}
	}

	return &Estimator{
		size:       size,
		sampleRate: sampleRate,
		cfg:        cfg,
		plan:       plan,
		window:     win,
		norm:       2 / (float64(size) * cg),
		windowed:   make([]float64, size),
		in:         make([]complex128, size),
		out:        make([]complex128, size),
		re:         make([]float64, half+1),
		im:         make([]float64, half+1),
		mag:        make([]float64, half+1),
		firstBin:   first,
		positions:  positions,
	}, nil
}

// Size returns the analysis window length.
func (e *Estimator) Size() int { return e.size }

// SampleRate returns the sample rate the bin frequencies refer to.
func (e *Estimator) SampleRate() float64 { return e.sampleRate }

// Window returns the analysis window type.
func (e *Estimator) Window() window.Type { return e.cfg.window }

// FloorDB returns the lowest level an estimate reports.
func (e *Estimator) FloorDB() float64 { return e.cfg.floorDB }

// Points returns the number of points every estimate contains.
func (e *Estimator) Points() int { return len(e.positions) }

// BinFrequency returns the center frequency of FFT bin k in Hz.
func (e *Estimator) BinFrequency(k int) float64 {
	return float64(k) * e.sampleRate / float64(e.size)
}

// Estimate computes the magnitude curve of samples, which must hold exactly
// Size() values, oldest first. The result is written into dst (reusing its
// capacity) and returned. Estimate does not allocate when cap(dst) >=
// Points().
//
// A full-scale sine centered on a bin reads 0 dB.
func (e *Estimator) Estimate(samples []float64, dst Path) (Path, error) {
	if len(samples) != e.size {
		return dst[:0], fmt.Errorf("%w: got %d, want %d", ErrLengthMismatch, len(samples), e.size)
	}

	if err := window.ApplyCoefficients(e.windowed, samples, e.window); err != nil {
		return dst[:0], err
	}

	for i, x := range e.windowed {
		e.in[i] = complex(x, 0)
	}

	if err := e.plan.Forward(e.out, e.in); err != nil {
		return dst[:0], fmt.Errorf("spectrum: forward fft: %w", err)
	}

	SplitComplex(e.re, e.im, e.out)
	MagnitudeFromParts(e.mag, e.re, e.im)

	n := len(e.positions)
	if cap(dst) < n {
		dst = make(Path, 0, n)
	}
	dst = dst[:n]

	half := e.size / 2
	for i := range dst {
		k := e.firstBin + i
		scale := e.norm
		if k == half {
			// The Nyquist bin is not mirrored.
			scale /= 2
		}

		dst[i] = Point{
			X:  e.positions[i],
			DB: amplitudeDB(e.mag[k]*scale, e.cfg.floorDB),
		}
	}

	return dst, nil
}
