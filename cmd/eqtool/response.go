package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/cwbudde/algo-eq/dsp/eq"
	"github.com/cwbudde/algo-eq/dsp/filter/biquad"
	"github.com/cwbudde/algo-eq/internal/cli"
)

// ResponseCmd prints the analytic magnitude response.
type ResponseCmd struct {
	Points     int     `default:"31" help:"Number of log-spaced frequencies"`
	SampleRate float64 `default:"48000" help:"Sample rate in Hz"`
	Low        float64 `default:"20" help:"Lowest frequency in Hz"`
	High       float64 `default:"20000" help:"Highest frequency in Hz"`
	Plot       bool    `help:"Draw the curve as a sparkline"`
	Stages     bool    `help:"List the active sections with their pole radius"`

	EQ SettingsFlags `embed:""`
}

func (c *ResponseCmd) Run() error {
	settings, err := c.EQ.Settings()
	if err != nil {
		return err
	}

	freqs, db, err := responseTable(settings, c.SampleRate, c.Points, c.Low, c.High)
	if err != nil {
		return err
	}

	tbl := cli.NewTable("Frequency", "Gain")
	for i, f := range freqs {
		tbl.Row(formatHz(f), strconv.FormatFloat(db[i], 'f', 2, 64)+" dB")
	}
	tbl.Fprint(os.Stdout)

	if c.Plot {
		fine, fineDB, err := responseTable(settings, c.SampleRate, 96, c.Low, c.High)
		if err == nil && len(fine) > 0 {
			fmt.Println()
			fmt.Println(cli.MeterStyle.Render(cli.Sparkline(fineDB, -36, 24)))
			fmt.Printf("%-48s%48s\n", formatHz(fine[0]), formatHz(fine[len(fine)-1]))
		}
	}

	if c.Stages {
		cc, ok := eq.MakeChainCoefficients(settings, c.SampleRate)
		if !ok {
			return fmt.Errorf("%w: %v", eq.ErrInvalidSampleRate, c.SampleRate)
		}
		fmt.Println()
		st := cli.NewTable("Section", "Pole radius", "Stable")
		for _, r := range stageRows(&cc) {
			stable := "yes"
			if !r.Stable {
				stable = "NO"
			}
			st.Row(r.Name, strconv.FormatFloat(r.Radius, 'f', 6, 64), stable)
		}
		st.Fprint(os.Stdout)
	}
	return nil
}

type stageRow struct {
	Name   string
	Radius float64
	Stable bool
}

// stageRows lists the sections that are not bypassed, in processing order.
func stageRows(cc *eq.ChainCoefficients) []stageRow {
	var rows []stageRow
	add := func(name string, c biquad.Coefficients) {
		rows = append(rows, stageRow{Name: name, Radius: c.MaxPoleRadius(), Stable: c.IsStable(0)})
	}

	if !cc.LowCutBypassed {
		for i := range cc.LowCut.Stages {
			add("low cut "+strconv.Itoa(i+1), cc.LowCut.Sections[i])
		}
	}
	if !cc.PeakBypassed {
		add("peak", cc.Peak)
	}
	if !cc.HighCutBypassed {
		for i := range cc.HighCut.Stages {
			add("high cut "+strconv.Itoa(i+1), cc.HighCut.Sections[i])
		}
	}
	return rows
}

func responseTable(s eq.Settings, sampleRate float64, points int, lo, hi float64) ([]float64, []float64, error) {
	cc, ok := eq.MakeChainCoefficients(s, sampleRate)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %v", eq.ErrInvalidSampleRate, sampleRate)
	}
	freqs := eq.LogFrequencies(points, lo, hi)
	if len(freqs) == 0 {
		return nil, nil, fmt.Errorf("invalid frequency range %g..%g Hz with %d points", lo, hi, points)
	}
	return freqs, eq.ResponseCurve(&cc, freqs, nil), nil
}

func formatHz(f float64) string {
	if f >= 1000 {
		return strconv.FormatFloat(f/1000, 'f', 2, 64) + " kHz"
	}
	return strconv.FormatFloat(f, 'f', 1, 64) + " Hz"
}
