// Package playback streams processed audio to the default output device.
package playback

import (
	"errors"
	"io"
	"math"
	"sync"
	"time"

	oto "github.com/ebitengine/oto/v3"
)

// DeviceBuffer is the output latency requested from the device.
const DeviceBuffer = 100 * time.Millisecond

// RenderFunc fills out with interleaved samples and returns how many it
// wrote. Returning 0 ends the stream.
type RenderFunc func(out []float64) int

// Player owns the device context and at most one running stream.
type Player struct {
	context     *oto.Context
	player      *oto.Player
	reader      *renderReader
	sampleRate  int
	channels    int
	blockFrames int
}

// NewPlayer opens the default device. blockFrames is the number of frames
// requested from the RenderFunc per callback.
func NewPlayer(sampleRate, channels, blockFrames int) (*Player, error) {
	if sampleRate <= 0 || channels <= 0 || blockFrames <= 0 {
		return nil, errors.New("playback: invalid stream format")
	}

	otoContext, readyChan, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   DeviceBuffer,
	})
	if err != nil {
		return nil, err
	}

	<-readyChan

	return &Player{
		context:     otoContext,
		sampleRate:  sampleRate,
		channels:    channels,
		blockFrames: blockFrames,
	}, nil
}

// Start begins playback of fn. A previously started stream is stopped.
func (p *Player) Start(fn RenderFunc) {
	p.Stop()
	p.reader = newRenderReader(fn, p.blockFrames*p.channels)
	p.player = p.context.NewPlayer(p.reader)
	p.player.Play()
}

// Done is closed once the RenderFunc has ended the stream or Stop was
// called. It returns nil before Start.
func (p *Player) Done() <-chan struct{} {
	if p.reader == nil {
		return nil
	}
	return p.reader.done
}

// Playing reports whether the device is still consuming the stream.
func (p *Player) Playing() bool {
	return p.player != nil && p.player.IsPlaying()
}

func (p *Player) Stop() {
	if p.reader != nil {
		p.reader.stop()
	}
	if p.player != nil {
		p.player.Pause()
	}
}

func (p *Player) Close() error {
	p.Stop()
	if p.player == nil {
		return nil
	}
	err := p.player.Close()
	p.player = nil
	return err
}

type renderReader struct {
	fn      RenderFunc
	samples []float64
	buffer  []byte
	bufPos  int
	bufLen  int

	done     chan struct{}
	stopOnce sync.Once
}

func newRenderReader(fn RenderFunc, blockSamples int) *renderReader {
	return &renderReader{
		fn:      fn,
		samples: make([]float64, blockSamples),
		buffer:  make([]byte, blockSamples*4),
		done:    make(chan struct{}),
	}
}

func (r *renderReader) stop() {
	r.stopOnce.Do(func() { close(r.done) })
}

func (r *renderReader) stopped() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

func (r *renderReader) Read(buf []byte) (int, error) {
	totalRead := 0

	for totalRead < len(buf) {
		if r.bufPos >= r.bufLen {
			if r.stopped() {
				return totalRead, io.EOF
			}

			n := r.fn(r.samples)
			if n <= 0 {
				r.stop()
				return totalRead, io.EOF
			}
			if n > len(r.samples) {
				n = len(r.samples)
			}
			r.bufLen = encodeFloat32LE(r.buffer, r.samples[:n])
			r.bufPos = 0
		}

		n := copy(buf[totalRead:], r.buffer[r.bufPos:r.bufLen])
		r.bufPos += n
		totalRead += n
	}

	return totalRead, nil
}

// encodeFloat32LE writes samples clipped to [-1, 1] as little-endian
// float32 into dst and returns the number of bytes written.
func encodeFloat32LE(dst []byte, samples []float64) int {
	for i, sample := range samples {
		clamped := math.Max(-1, math.Min(1, sample))
		bits := math.Float32bits(float32(clamped))
		dst[i*4] = byte(bits)
		dst[i*4+1] = byte(bits >> 8)
		dst[i*4+2] = byte(bits >> 16)
		dst[i*4+3] = byte(bits >> 24)
	}
	return len(samples) * 4
}
