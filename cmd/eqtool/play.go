package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/cwbudde/algo-eq/dsp/analyzer"
	"github.com/cwbudde/algo-eq/dsp/eq"
	"github.com/cwbudde/algo-eq/internal/audiofile"
	"github.com/cwbudde/algo-eq/internal/cli"
	"github.com/cwbudde/algo-eq/internal/playback"
	"github.com/cwbudde/algo-eq/internal/remote"
)

// PlayCmd plays a file through the equalizer in real time.
type PlayCmd struct {
	Input string `arg:"" type:"existingfile" help:"WAV file to play"`
	Loop  bool   `help:"Repeat the file until interrupted"`
	Block int    `default:"512" help:"Device callback size in frames"`
	Meter bool   `help:"Draw the live spectrum of the first channel"`

	MQTTBroker    string `name:"mqtt-broker" env:"MQTT_BROKER" help:"MQTT broker host; enables remote control" group:"Remote"`
	MQTTPort      int    `name:"mqtt-port" env:"MQTT_PORT" default:"1883" help:"MQTT broker port" group:"Remote"`
	MQTTUser      string `name:"mqtt-user" env:"MQTT_USER" help:"MQTT user name" group:"Remote"`
	MQTTPassword  string `name:"mqtt-password" env:"MQTT_PASSWORD" help:"MQTT password" group:"Remote"`
	MQTTTopic     string `name:"mqtt-topic" env:"MQTT_TOPIC" default:"algo-eq" help:"MQTT base topic" group:"Remote"`
	MQTTDiscovery bool   `name:"mqtt-discovery" help:"Publish Home Assistant discovery records" group:"Remote"`

	EQ SettingsFlags `embed:""`
}

func (c *PlayCmd) Run() error {
	settings, err := c.EQ.Settings()
	if err != nil {
		return err
	}

	in, err := audiofile.ReadWAV(c.Input)
	if err != nil {
		return err
	}
	if in.Frames() == 0 {
		return fmt.Errorf("%s has no audio", c.Input)
	}

	params := eq.NewParams(settings)
	proc := eq.NewProcessor(params, eq.WithChannels(len(in.Channels)))
	if err := proc.Prepare(float64(in.SampleRate), c.Block); err != nil {
		return err
	}
	defer proc.Release()

	if c.MQTTBroker != "" {
		client, err := remote.Dial(remote.Config{
			Broker:    c.MQTTBroker,
			Port:      c.MQTTPort,
			User:      c.MQTTUser,
			Password:  c.MQTTPassword,
			Topic:     c.MQTTTopic,
			Discovery: c.MQTTDiscovery,
		}, params, func(id eq.ParamID, v float64) {
			info, _ := id.Info()
			log.Printf("%s = %s", info.Name, info.Format(v))
		})
		if err != nil {
			return err
		}
		defer client.Close()
	}

	player, err := playback.NewPlayer(in.SampleRate, len(in.Channels), c.Block)
	if err != nil {
		return err
	}
	defer player.Close()

	src := newFileSource(in, c.Loop)
	player.Start(func(out []float64) int {
		n := src.Read(out)
		proc.ProcessInterleaved(out[:n])
		return n
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		select {
		case <-player.Done():
			stop()
		case <-ctx.Done():
		}
	}()

	fmt.Println(cli.TitleStyle.Render("Playing " + c.Input))
	cli.PrintKeyValue(os.Stdout, "Format", fmt.Sprintf("%d Hz, %d ch", in.SampleRate, len(in.Channels)))
	cli.PrintKeyValue(os.Stdout, "Length", fmt.Sprintf("%.2f s", in.Duration()))

	proc.Analyzer().Run(ctx, analyzer.DefaultInterval, func(f analyzer.Frame) {
		if !c.Meter || len(f.Curves) == 0 || f.Curves[0] == nil || !f.Updated[0] {
			return
		}
		bars := cli.Resample(f.Curves[0].Resample(nil, 256), 64)
		fmt.Print("\r" + cli.MeterStyle.Render(cli.Sparkline(bars, -90, 0)))
	})
	if c.Meter {
		fmt.Println()
	}

	if d := proc.DroppedBlocks(); d > 0 {
		cli.PrintKeyValue(os.Stdout, "Dropped", fmt.Sprint(d))
	}
	return nil
}

// fileSource hands out interleaved frames of a decoded file.
type fileSource struct {
	audio *audiofile.Audio
	loop  bool
	pos   atomic.Int64
}

func newFileSource(a *audiofile.Audio, loop bool) *fileSource {
	return &fileSource{audio: a, loop: loop}
}

// Read fills whole frames into out and returns the number of samples
// written. It returns 0 at the end of a non-looping file.
func (s *fileSource) Read(out []float64) int {
	channels := len(s.audio.Channels)
	frames := s.audio.Frames()
	want := len(out) / channels
	pos := int(s.pos.Load())

	n := 0
	for n < want {
		if pos >= frames {
			if !s.loop {
				break
			}
			pos = 0
		}
		base := n * channels
		for c, ch := range s.audio.Channels {
			out[base+c] = ch[pos]
		}
		pos++
		n++
	}

	s.pos.Store(int64(pos))
	return n * channels
}
