package analyzer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cwbudde/algo-eq/dsp/buffer"
	"github.com/cwbudde/algo-eq/dsp/spectrum"
)

const (
	// DefaultInterval is the tick period of Run, 60 Hz.
	DefaultInterval = time.Second / 60
	// DefaultResponseWidth is the number of points of the response curve in
	// a Frame.
	DefaultResponseWidth = 512
)

// ErrNoChannels reports an analyzer built without FIFOs.
var ErrNoChannels = errors.New("analyzer: at least one FIFO is required")

// ResponseSource yields the analytic response curve of the filter chain at
// width log-spaced points, and whether it changed since the previous call.
type ResponseSource interface {
	Curve(width int) ([]float64, bool)
}

// Option configures an Analyzer.
type Option func(*config)

type config struct {
	windowSize    int
	responseWidth int
	estimator     []spectrum.EstimatorOption
}

// WithWindowSize sets the analysis window length. It must be a power of two
// accepted by spectrum.NewEstimator.
func WithWindowSize(n int) Option {
	return func(cfg *config) {
		cfg.windowSize = n
	}
}

// WithResponseWidth sets the number of response points delivered to Run.
func WithResponseWidth(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.responseWidth = n
		}
	}
}

// WithEstimatorOptions forwards options to the spectrum estimator.
func WithEstimatorOptions(opts ...spectrum.EstimatorOption) Option {
	return func(cfg *config) {
		cfg.estimator = append(cfg.estimator, opts...)
	}
}

// Frame is what Run hands to its callback once per tick. Its slices are
// reused between ticks; copy what you keep.
type Frame struct {
	// Curves holds the latest spectrum of every channel, nil until the
	// first window of that channel completed.
	Curves []spectrum.Path
	// Updated marks the channels whose curve is new in this tick.
	Updated []bool
	// Response is the analytic response of the filter chain in dB, nil
	// without a response source.
	Response []float64
	// NewCurves is the number of curves estimated in this tick.
	NewCurves int
}

type channel struct {
	fifo  *buffer.BlockFifo
	acc   *Accumulator
	curve spectrum.Path
	have  bool
	fresh bool
}

// Analyzer turns the audio captured in per-channel FIFOs into spectrum
// curves. It is not safe for concurrent use.
type Analyzer struct {
	cfg       config
	channels  []channel
	estimator *spectrum.Estimator
	response  ResponseSource
	block     []float64
	frame     Frame
}

// New builds an analyzer draining fifos, one per channel. response may be
// nil.
func New(fifos []*buffer.BlockFifo, response ResponseSource, sampleRate float64, opts ...Option) (*Analyzer, error) {
	if len(fifos) == 0 {
		return nil, ErrNoChannels
	}

	cfg := config{
		windowSize:    spectrum.DefaultSize,
		responseWidth: DefaultResponseWidth,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	est, err := spectrum.NewEstimator(cfg.windowSize, sampleRate, cfg.estimator...)
	if err != nil {
		return nil, fmt.Errorf("analyzer: %w", err)
	}

	a := &Analyzer{
		cfg:       cfg,
		channels:  make([]channel, len(fifos)),
		estimator: est,
		response:  response,
	}

	blockSize := 0
	for i, f := range fifos {
		if f == nil {
			return nil, fmt.Errorf("analyzer: fifo %d is nil", i)
		}

		a.channels[i] = channel{
			fifo:  f,
			acc:   NewAccumulator(cfg.windowSize),
			curve: make(spectrum.Path, 0, est.Points()),
		}
		blockSize = max(blockSize, f.BlockSize())
	}

	a.block = make([]float64, blockSize)
	a.frame = Frame{
		Curves:  make([]spectrum.Path, len(fifos)),
		Updated: make([]bool, len(fifos)),
	}

	return a, nil
}

// Channels returns the number of analyzed channels.
func (a *Analyzer) Channels() int {
	return len(a.channels)
}

// Estimator returns the spectrum estimator.
func (a *Analyzer) Estimator() *spectrum.Estimator {
	return a.estimator
}

// Tick drains every FIFO, at most its capacity per call, and estimates a
// curve for each window that completed. It returns the number of new
// curves.
func (a *Analyzer) Tick() int {
	produced := 0

	for i := range a.channels {
		ch := &a.channels[i]

		for n := ch.fifo.Capacity(); n > 0; n-- {
			m, ok := ch.fifo.Pull(a.block)
			if !ok {
				break
			}

			if ch.acc.Write(a.block[:m]) == 0 {
				continue
			}

			curve, err := a.estimator.Estimate(ch.acc.Window(), ch.curve[:0])
			if err != nil {
				continue
			}

			ch.curve = curve
			ch.have = true
			ch.fresh = true
			produced++
		}
	}

	return produced
}

// NextCurve returns the newest curve of channel ch if it was not handed out
// before. Older curves that were never read are gone. The path is owned by
// the analyzer and valid until the next Tick.
func (a *Analyzer) NextCurve(ch int) (spectrum.Path, bool) {
	if ch < 0 || ch >= len(a.channels) {
		return nil, false
	}

	c := &a.channels[ch]
	if !c.fresh {
		return nil, false
	}

	c.fresh = false

	return c.curve, true
}

// Curve returns the latest curve of channel ch without consuming it, nil
// before the first completed window.
func (a *Analyzer) Curve(ch int) spectrum.Path {
	if ch < 0 || ch >= len(a.channels) || !a.channels[ch].have {
		return nil
	}

	return a.channels[ch].curve
}

// Response returns the response curve at width points and whether it
// changed since the previous call.
func (a *Analyzer) Response(width int) ([]float64, bool) {
	if a.response == nil {
		return nil, false
	}

	return a.response.Curve(width)
}

// Reset drops all buffered windows and curves. Pending FIFO blocks are
// kept.
func (a *Analyzer) Reset() {
	for i := range a.channels {
		ch := &a.channels[i]
		ch.acc.Reset()
		ch.curve = ch.curve[:0]
		ch.have = false
		ch.fresh = false
	}
}

// Run ticks every interval until ctx is done and passes each Frame to fn.
// A non-positive interval selects DefaultInterval.
func (a *Analyzer) Run(ctx context.Context, interval time.Duration, fn func(Frame)) {
	if interval <= 0 {
		interval = DefaultInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f := a.nextFrame()
			if fn != nil {
				fn(f)
			}
		}
	}
}

func (a *Analyzer) nextFrame() Frame {
	a.frame.NewCurves = a.Tick()

	for i := range a.channels {
		curve, fresh := a.NextCurve(i)
		a.frame.Updated[i] = fresh
		if !fresh {
			continue
		}

		a.frame.Curves[i] = append(a.frame.Curves[i][:0], curve...)
	}

	a.frame.Response = a.frame.Response[:0]
	if resp, _ := a.Response(a.cfg.responseWidth); resp != nil {
		a.frame.Response = append(a.frame.Response, resp...)
	}

	return a.frame
}
