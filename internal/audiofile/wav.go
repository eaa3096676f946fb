// Package audiofile reads and writes planar float64 audio as WAV files.
package audiofile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cwbudde/wav"
	"github.com/go-audio/audio"
)

// DefaultBitDepth is used by WriteWAV when bitDepth is not 16, 24 or 32.
const DefaultBitDepth = 16

var (
	// ErrInvalidFile is returned when a file is not a readable WAV file.
	ErrInvalidFile = errors.New("audiofile: invalid wav file")
	// ErrEmptyAudio is returned when there is nothing to write.
	ErrEmptyAudio = errors.New("audiofile: no channels")
)

// Audio is a planar buffer with a sample rate. All channels have the same
// length.
type Audio struct {
	SampleRate int
	Channels   [][]float64
}

// New allocates silent audio with the given layout.
func New(sampleRate, channels, frames int) *Audio {
	a := &Audio{SampleRate: sampleRate, Channels: make([][]float64, channels)}
	for i := range a.Channels {
		a.Channels[i] = make([]float64, frames)
	}
	return a
}

// Frames returns the number of sample frames, limited by the shortest
// channel.
func (a *Audio) Frames() int {
	if a == nil || len(a.Channels) == 0 {
		return 0
	}
	n := len(a.Channels[0])
	for _, ch := range a.Channels[1:] {
		if len(ch) < n {
			n = len(ch)
		}
	}
	return n
}

// Duration returns the length in seconds.
func (a *Audio) Duration() float64 {
	if a == nil || a.SampleRate <= 0 {
		return 0
	}
	return float64(a.Frames()) / float64(a.SampleRate)
}

// Interleaved returns the samples as interleaved float32 frames.
func (a *Audio) Interleaved() []float32 {
	frames := a.Frames()
	ch := len(a.Channels)
	out := make([]float32, frames*ch)
	for i := 0; i < frames; i++ {
		base := i * ch
		for c := range a.Channels {
			out[base+c] = float32(a.Channels[c][i])
		}
	}
	return out
}

// ReadWAV decodes a WAV file into planar float64 channels normalized to
// [-1, 1].
func ReadWAV(path string) (*Audio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFile, path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("audiofile: decode %s: %w", path, err)
	}
	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFile, path)
	}

	ch := buf.Format.NumChannels
	a := New(buf.Format.SampleRate, ch, len(buf.Data)/ch)
	for i := range a.Channels[0] {
		base := i * ch
		for c := 0; c < ch; c++ {
			a.Channels[c][i] = float64(buf.Data[base+c])
		}
	}
	return a, nil
}

// WriteWAV encodes a as PCM with the given bit depth, creating parent
// directories as needed. Samples outside [-1, 1] are clipped by the encoder.
func WriteWAV(path string, a *Audio, bitDepth int) error {
	if a == nil || len(a.Channels) == 0 {
		return ErrEmptyAudio
	}
	if a.SampleRate <= 0 {
		return fmt.Errorf("audiofile: invalid sample rate %d", a.SampleRate)
	}
	switch bitDepth {
	case 16, 24, 32:
	default:
		bitDepth = DefaultBitDepth
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := wav.NewEncoder(f, a.SampleRate, bitDepth, len(a.Channels), 1)
	buf := &audio.Float32Buffer{
		Format: &audio.Format{
			SampleRate:  a.SampleRate,
			NumChannels: len(a.Channels),
		},
		Data:           a.Interleaved(),
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		enc.Close()
		return fmt.Errorf("audiofile: encode %s: %w", path, err)
	}
	return enc.Close()
}
