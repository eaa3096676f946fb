package main

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/cwbudde/algo-eq/dsp/window"
	"github.com/cwbudde/algo-eq/internal/cli"
)

// WindowsCmd prints spectral properties of the analysis windows.
type WindowsCmd struct {
	Names    []string `arg:"" optional:"" help:"Window names (default: all)"`
	Size     int      `default:"2048" help:"Window length in samples"`
	Alpha    float64  `default:"8.6" help:"Kaiser beta"`
	Periodic bool     `help:"Use the periodic (FFT) form instead of the symmetric one"`
}

func (c *WindowsCmd) Run() error {
	types, err := resolveWindows(c.Names)
	if err != nil {
		return err
	}

	opts := []window.Option{window.WithAlpha(c.Alpha)}
	if c.Periodic {
		opts = append(opts, window.WithPeriodic())
	}

	rows, err := windowRows(types, c.Size, opts...)
	if err != nil {
		return err
	}

	tbl := cli.NewTable("Window", "Size", "Coherent Gain", "ENBW [bins]", "Sidelobe [dB]")
	for _, r := range rows {
		tbl.Row(r...)
	}
	tbl.Fprint(os.Stdout)
	return nil
}

func resolveWindows(names []string) ([]window.Type, error) {
	if len(names) == 0 {
		return window.Types(), nil
	}

	types := make([]window.Type, 0, len(names))
	for _, name := range names {
		t, err := window.ParseType(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}

func windowRows(types []window.Type, size int, opts ...window.Option) ([][]string, error) {
	if size < 2 {
		return nil, fmt.Errorf("window size must be >= 2, got %d", size)
	}

	rows := make([][]string, 0, len(types))
	for _, t := range types {
		coeffs := window.Generate(t, size, opts...)
		cg, err := window.CoherentGain(coeffs)
		if err != nil {
			return nil, err
		}
		enbw, err := window.EquivalentNoiseBandwidth(coeffs)
		if err != nil {
			return nil, err
		}

		sidelobe := "-"
		if m := window.Info(t); m.HighestSidelobe != 0 && !math.IsNaN(m.HighestSidelobe) {
			sidelobe = fmt.Sprintf("%.2f", m.HighestSidelobe)
		}

		rows = append(rows, []string{
			t.String(),
			fmt.Sprint(size),
			fmt.Sprintf("%.6f", cg),
			fmt.Sprintf("%.4f", enbw),
			sidelobe,
		})
	}
	return rows, nil
}
