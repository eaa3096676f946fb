package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// Ramp returns 0, 1, 2, ... n-1. Handy for checking sample order.
func Ramp(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

// SplitBlocks cuts src into consecutive sub-slices whose lengths cycle
// through sizes, the way a host delivers blocks of varying length. The
// last block may be shorter. Non-positive sizes are skipped.
func SplitBlocks(src []float64, sizes ...int) [][]float64 {
	if len(sizes) == 0 {
		return [][]float64{src}
	}

	valid := make([]int, 0, len(sizes))
	for _, n := range sizes {
		if n > 0 {
			valid = append(valid, n)
		}
	}
	if len(valid) == 0 {
		return nil
	}

	var blocks [][]float64
	for off, i := 0, 0; off < len(src); i++ {
		end := min(off+valid[i%len(valid)], len(src))
		blocks = append(blocks, src[off:end])
		off = end
	}
	return blocks
}
