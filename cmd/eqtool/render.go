package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cwbudde/algo-eq/dsp/analyzer"
	"github.com/cwbudde/algo-eq/dsp/core"
	"github.com/cwbudde/algo-eq/dsp/eq"
	"github.com/cwbudde/algo-eq/dsp/signal"
	"github.com/cwbudde/algo-eq/dsp/spectrum"
	"github.com/cwbudde/algo-eq/dsp/window"
	"github.com/cwbudde/algo-eq/internal/audiofile"
	"github.com/cwbudde/algo-eq/internal/cli"
)

// RenderCmd filters a file or generated signal offline.
type RenderCmd struct {
	Input  string `arg:"" optional:"" type:"existingfile" help:"Input WAV file (omit with --source)"`
	Output string `short:"o" required:"" type:"path" help:"Output WAV file"`

	Source     string  `enum:"wav,sine,noise,sweep,impulse" default:"wav" help:"Signal source: wav, sine, noise, sweep or impulse"`
	Freq       float64 `default:"1000" help:"Sine frequency in Hz"`
	Amplitude  float64 `default:"0.5" help:"Generated signal peak amplitude"`
	Duration   float64 `default:"2" help:"Generated signal length in seconds"`
	SampleRate int     `default:"48000" help:"Generated signal sample rate"`
	Channels   int     `default:"2" help:"Generated signal channel count"`
	Seed       int64   `default:"1" help:"Noise seed"`
	Normalize  float64 `help:"Scale each input channel to this peak before filtering (0 keeps the level)"`

	Block    int    `default:"512" help:"Host block size in frames"`
	BitDepth int    `default:"16" help:"Output bit depth (16, 24 or 32)"`
	Spectrum string `type:"path" help:"Write the last analyzer curve per channel as CSV"`
	Window   string `default:"hann" help:"Analysis window type"`
	FFTSize  int    `name:"fft-size" default:"2048" help:"Analysis window length in samples"`

	EQ SettingsFlags `embed:""`
}

func (c *RenderCmd) Run() error {
	settings, err := c.EQ.Settings()
	if err != nil {
		return err
	}

	in, err := c.source()
	if err != nil {
		return err
	}
	if c.Normalize > 0 {
		for i, ch := range in.Channels {
			if in.Channels[i], err = signal.Normalize(ch, c.Normalize); err != nil {
				return err
			}
		}
	}

	wt, err := window.ParseType(c.Window)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := renderAudio(in, eq.NewParams(settings), c.Block,
		analyzer.WithWindowSize(c.FFTSize),
		analyzer.WithEstimatorOptions(spectrum.WithWindow(wt)),
	)
	if err != nil {
		return err
	}

	if err := audiofile.WriteWAV(c.Output, in, c.BitDepth); err != nil {
		return err
	}
	if c.Spectrum != "" {
		if err := writeSpectrumCSV(c.Spectrum, res.Curves); err != nil {
			return err
		}
	}

	fmt.Println(cli.TitleStyle.Render("Rendered"))
	cli.PrintKeyValue(os.Stdout, "Output", c.Output)
	cli.PrintKeyValue(os.Stdout, "Format", fmt.Sprintf("%d Hz, %d ch, %d bit", in.SampleRate, len(in.Channels), c.BitDepth))
	cli.PrintKeyValue(os.Stdout, "Length", fmt.Sprintf("%.2f s", in.Duration()))
	cli.PrintKeyValue(os.Stdout, "Curves", strconv.Itoa(res.Windows))
	if res.Dropped > 0 {
		cli.PrintKeyValue(os.Stdout, "Dropped", strconv.FormatUint(res.Dropped, 10))
	}
	cli.PrintKeyValue(os.Stdout, "Elapsed", time.Since(start).Round(time.Millisecond).String())
	if c.Spectrum != "" {
		cli.PrintKeyValue(os.Stdout, "Spectrum", c.Spectrum)
	}
	return nil
}

func (c *RenderCmd) source() (*audiofile.Audio, error) {
	if c.Source == "wav" {
		if c.Input == "" {
			return nil, errors.New("an input file is required unless --source selects a generator")
		}
		return audiofile.ReadWAV(c.Input)
	}

	if c.SampleRate <= 0 || c.Channels <= 0 || c.Duration <= 0 {
		return nil, errors.New("generated signals need a positive sample rate, channel count and duration")
	}

	frames := int(c.Duration * float64(c.SampleRate))
	gen := signal.NewGeneratorWithOptions(
		[]core.ProcessorOption{core.WithSampleRate(float64(c.SampleRate))},
		signal.WithSeed(c.Seed),
	)

	var mono []float64
	var err error
	switch c.Source {
	case "sine":
		mono, err = gen.Sine(c.Freq, c.Amplitude, frames)
	case "noise":
		mono, err = gen.WhiteNoise(c.Amplitude, frames)
	case "impulse":
		mono, err = gen.Impulse(c.Amplitude, frames, 0)
	case "sweep":
		mono, err = gen.LogSweep(eq.MinFrequency, min(eq.MaxFrequency, float64(c.SampleRate)/2), c.Amplitude, frames)
	default:
		err = fmt.Errorf("unknown source %q", c.Source)
	}
	if err != nil {
		return nil, err
	}

	a := &audiofile.Audio{SampleRate: c.SampleRate, Channels: make([][]float64, c.Channels)}
	for i := range a.Channels {
		a.Channels[i] = append([]float64(nil), mono...)
	}
	return a, nil
}

type renderResult struct {
	Curves  []spectrum.Path
	Windows int
	Dropped uint64
}

// renderAudio filters a in place in host-sized blocks. The analyzer is
// drained after every block so no capture is lost.
func renderAudio(a *audiofile.Audio, params *eq.Params, block int, opts ...analyzer.Option) (renderResult, error) {
	var res renderResult

	p := eq.NewProcessor(params,
		eq.WithChannels(len(a.Channels)),
		eq.WithAnalyzer(opts...),
	)
	if err := p.Prepare(float64(a.SampleRate), block); err != nil {
		return res, err
	}
	defer p.Release()

	an := p.Analyzer()
	frames := a.Frames()
	views := make([][]float64, len(a.Channels))
	for off := 0; off < frames; off += block {
		n := min(block, frames-off)
		for c := range views {
			views[c] = a.Channels[c][off : off+n]
		}
		p.ProcessBlock(views)
		res.Windows += an.Tick()
	}

	res.Curves = make([]spectrum.Path, an.Channels())
	for ch := range res.Curves {
		res.Curves[ch] = an.Curve(ch).Clone()
	}
	res.Dropped = p.DroppedBlocks()
	return res, nil
}

func writeSpectrumCSV(path string, curves []spectrum.Path) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"freq_hz"}
	points := 0
	for ch, c := range curves {
		header = append(header, fmt.Sprintf("ch%d_db", ch))
		points = max(points, len(c))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	row := make([]string, len(header))
	for i := 0; i < points; i++ {
		row[0] = ""
		for ch, c := range curves {
			if i >= len(c) {
				row[ch+1] = ""
				continue
			}
			if row[0] == "" {
				row[0] = strconv.FormatFloat(spectrum.FrequencyAt(c[i].X), 'f', 2, 64)
			}
			row[ch+1] = strconv.FormatFloat(c[i].DB, 'f', 2, 64)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
