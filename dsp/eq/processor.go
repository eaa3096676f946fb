package eq

import (
	"fmt"
	"sync/atomic"

	"github.com/cwbudde/algo-eq/dsp/analyzer"
	"github.com/cwbudde/algo-eq/dsp/buffer"
	"github.com/cwbudde/algo-eq/dsp/core"
)

// Prepare errors; they are the stream format errors of package core.
var (
	ErrInvalidSampleRate = core.ErrInvalidSampleRate
	ErrInvalidBlockSize  = core.ErrInvalidBlockSize
	ErrInvalidChannels   = core.ErrInvalidChannels
)

// Option configures a Processor.
type Option func(*processorConfig)

type processorConfig struct {
	core.ProcessorConfig

	fifoCapacity int
	analyzer     []analyzer.Option
}

// WithChannels sets the number of independently filtered channels.
func WithChannels(n int) Option {
	return func(cfg *processorConfig) {
		cfg.Channels = n
	}
}

// WithFifoCapacity sets the number of blocks each analysis FIFO holds.
func WithFifoCapacity(n int) Option {
	return func(cfg *processorConfig) {
		if n > 0 {
			cfg.fifoCapacity = n
		}
	}
}

// WithAnalyzer passes options to the analyzer built by Prepare.
func WithAnalyzer(opts ...analyzer.Option) Option {
	return func(cfg *processorConfig) {
		cfg.analyzer = append(cfg.analyzer, opts...)
	}
}

// Processor is one equalizer session: a MonoChain per channel, the updater
// that keeps them in sync with a Params store and the FIFOs that feed the
// analyzer.
//
// ProcessBlock and ProcessInterleaved run on the audio thread and never
// allocate, lock or block. Prepare and Release must not run concurrently
// with them. The Analyzer belongs to a single analysis goroutine.
type Processor struct {
	params *Params
	cfg    processorConfig

	updater  *ChainUpdater
	chains   []*MonoChain
	fifos    []*buffer.BlockFifo
	analyzer *analyzer.Analyzer
	response *ResponseEvaluator

	scratch [][]float64
	views   [][]float64

	prepared bool
	dropped  atomic.Uint64
}

// NewProcessor returns an unprepared processor reading params.
func NewProcessor(params *Params, opts ...Option) *Processor {
	cfg := processorConfig{
		ProcessorConfig: core.DefaultProcessorConfig(),
		fifoCapacity:    buffer.DefaultFifoCapacity,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if params == nil {
		params = NewParams(DefaultSettings())
	}

	return &Processor{
		params:  params,
		cfg:     cfg,
		updater: NewChainUpdater(params),
	}
}

// Prepare allocates everything the audio path needs for the given stream
// format. It may be called again to change the format; filter state is
// cleared.
func (p *Processor) Prepare(sampleRate float64, maxBlockSize int) error {
	format := p.cfg.ProcessorConfig
	format.SampleRate = sampleRate
	format.BlockSize = maxBlockSize
	if err := format.Validate(); err != nil {
		return fmt.Errorf("eq: prepare: %w", err)
	}
	channels := format.Channels

	chains := make([]*MonoChain, channels)
	fifos := make([]*buffer.BlockFifo, channels)
	scratch := make([][]float64, channels)
	for i := range chains {
		chains[i] = &MonoChain{}
		fifos[i] = buffer.NewBlockFifo(p.cfg.fifoCapacity, maxBlockSize)
		scratch[i] = make([]float64, maxBlockSize)
	}

	response := NewResponseEvaluator(p.params, sampleRate)

	an, err := analyzer.New(fifos, response, sampleRate, p.cfg.analyzer...)
	if err != nil {
		return fmt.Errorf("eq: prepare analyzer: %w", err)
	}

	p.cfg.ProcessorConfig = format
	p.chains = chains
	p.fifos = fifos
	p.scratch = scratch
	p.views = make([][]float64, channels)
	p.response = response
	p.analyzer = an
	p.dropped.Store(0)

	p.updater.SetSampleRate(sampleRate)
	p.updater.Update(p.chains...)
	p.prepared = true

	return nil
}

// ProcessBlock filters the planar channels in place and, when the analyzer
// is enabled, queues a copy of each channel for analysis. Channels past the
// configured count are cleared. Nothing happens before Prepare.
//
// Blocks must not be longer than the block size given to Prepare. Longer
// blocks are still filtered, but each one takes several analysis queue slots
// and can fill the queue, which shows up in DroppedBlocks.
func (p *Processor) ProcessBlock(channels [][]float64) {
	if !p.prepared {
		return
	}

	p.updater.Update(p.chains...)
	analyze := p.params.AnalyzerEnabled()

	for ch, buf := range channels {
		if ch >= len(p.chains) {
			core.Zero(buf)
			continue
		}

		p.chains[ch].ProcessBlock(buf)

		if analyze {
			p.capture(ch, buf)
		}
	}
}

// ProcessInterleaved filters interleaved frames in place. The channel count
// is the configured one; a trailing partial frame is left untouched.
func (p *Processor) ProcessInterleaved(buf []float64) {
	if !p.prepared {
		return
	}

	channels := len(p.chains)
	frames := len(buf) / channels
	block := p.cfg.BlockSize

	for off := 0; off < frames; off += block {
		n := min(block, frames-off)
		chunk := buf[off*channels : (off+n)*channels]

		for c := range p.views {
			p.views[c] = p.scratch[c][:n]
		}

		core.Deinterleave(p.views, chunk)
		p.ProcessBlock(p.views)
		core.Interleave(chunk, p.views)
	}
}

func (p *Processor) capture(ch int, buf []float64) {
	fifo := p.fifos[ch]
	block := fifo.BlockSize()

	for off := 0; off < len(buf); off += block {
		end := min(off+block, len(buf))
		if !fifo.Push(buf[off:end]) {
			p.dropped.Add(1)
		}
	}
}

// Reset clears the filter state of every chain.
func (p *Processor) Reset() {
	for _, c := range p.chains {
		c.Reset()
	}
}

// Release drops all buffers. The processor must be prepared again before
// use.
func (p *Processor) Release() {
	p.prepared = false
	p.chains = nil
	p.fifos = nil
	p.scratch = nil
	p.views = nil
	p.analyzer = nil
	p.response = nil
}

// Prepared reports whether Prepare succeeded and Release was not called.
func (p *Processor) Prepared() bool {
	return p.prepared
}

// Params returns the settings store.
func (p *Processor) Params() *Params {
	return p.params
}

// Analyzer returns the analyzer bound to the capture FIFOs, nil before
// Prepare.
func (p *Processor) Analyzer() *analyzer.Analyzer {
	return p.analyzer
}

// Response returns the response evaluator, nil before Prepare.
func (p *Processor) Response() *ResponseEvaluator {
	return p.response
}

// Coefficients returns the coefficients applied in the latest block.
func (p *Processor) Coefficients() (ChainCoefficients, bool) {
	return p.updater.Last()
}

// Chain returns the filter chain of channel ch.
func (p *Processor) Chain(ch int) *MonoChain {
	if ch < 0 || ch >= len(p.chains) {
		return nil
	}

	return p.chains[ch]
}

// Channels returns the configured channel count.
func (p *Processor) Channels() int {
	return p.cfg.Channels
}

// SampleRate returns the prepared sample rate, 48 kHz before Prepare.
func (p *Processor) SampleRate() float64 {
	return p.cfg.SampleRate
}

// MaxBlockSize returns the prepared maximum block size, 512 before Prepare.
func (p *Processor) MaxBlockSize() int {
	return p.cfg.BlockSize
}

// DroppedBlocks returns how many captured blocks did not fit into a FIFO.
func (p *Processor) DroppedBlocks() uint64 {
	return p.dropped.Load()
}

// Latency is always zero: every stage is a minimum-phase IIR section.
func (p *Processor) Latency() int {
	return 0
}

// TailSeconds is zero, the plugin reports no tail.
func (p *Processor) TailSeconds() float64 {
	return 0
}
