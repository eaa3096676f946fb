package cli

import (
	"math"
	"strings"
)

var levels = []rune(" ▁▂▃▄▅▆▇█")

// Sparkline draws values as one block character each, mapping lo to an
// empty cell and hi to a full one. Values outside the range are clipped.
func Sparkline(values []float64, lo, hi float64) string {
	if hi <= lo {
		return strings.Repeat(" ", len(values))
	}

	var sb strings.Builder
	sb.Grow(len(values) * 3)
	top := float64(len(levels) - 1)
	for _, v := range values {
		if math.IsNaN(v) {
			sb.WriteRune(levels[0])
			continue
		}
		x := (v - lo) / (hi - lo)
		x = math.Max(0, math.Min(1, x))
		sb.WriteRune(levels[int(math.Round(x*top))])
	}
	return sb.String()
}

// Resample reduces or stretches values to width points by taking the
// maximum of each bucket, so narrow peaks stay visible.
func Resample(values []float64, width int) []float64 {
	if width <= 0 || len(values) == 0 {
		return nil
	}
	out := make([]float64, width)
	n := len(values)
	for i := range out {
		start := i * n / width
		end := (i + 1) * n / width
		if end <= start {
			end = start + 1
		}
		m := math.Inf(-1)
		for _, v := range values[start:end] {
			if v > m {
				m = v
			}
		}
		out[i] = m
	}
	return out
}
