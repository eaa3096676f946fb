package spectrum

import "math"

const (
	// MinFrequency maps to X = 0.
	MinFrequency = 20.0
	// MaxFrequency maps to X = 1.
	MaxFrequency = 20000.0
)

var logSpan = math.Log10(MaxFrequency / MinFrequency)

// Point is one vertex of a spectrum curve.
type Point struct {
	// X is the normalized log-frequency position, see [LogPosition].
	X float64
	// DB is the magnitude in dB full scale.
	DB float64
}

// Path is a spectrum curve ordered by increasing X.
type Path []Point

// LogPosition maps freq onto the normalized display axis:
// log10(f/20) / log10(1000). Frequencies outside 20 Hz..20 kHz map outside
// [0, 1]; non-positive frequencies map to -Inf.
func LogPosition(freq float64) float64 {
	if freq <= 0 {
		return math.Inf(-1)
	}

	return math.Log10(freq/MinFrequency) / logSpan
}

// FrequencyAt is the inverse of [LogPosition].
func FrequencyAt(x float64) float64 {
	return MinFrequency * math.Pow(10, x*logSpan)
}

// At returns the dB value of the curve at position x by linear
// interpolation between the neighboring points. Positions before the first
// or after the last point return that point's value. An empty path returns
// -Inf.
func (p Path) At(x float64) float64 {
	if len(p) == 0 {
		return math.Inf(-1)
	}

	if x <= p[0].X {
		return p[0].DB
	}

	last := len(p) - 1
	if x >= p[last].X {
		return p[last].DB
	}

	lo, hi := 0, last
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if p[mid].X <= x {
			lo = mid
		} else {
			hi = mid
		}
	}

	a, b := p[lo], p[hi]
	if b.X == a.X {
		return a.DB
	}

	t := (x - a.X) / (b.X - a.X)
	return a.DB + t*(b.DB-a.DB)
}

// Resample evaluates the curve at n evenly spaced positions over [0, 1]
// and writes them into dst, which is grown if needed. It is the bridge from
// a bin-resolution curve to pixel columns.
func (p Path) Resample(dst []float64, n int) []float64 {
	if n <= 0 {
		return dst[:0]
	}

	if cap(dst) < n {
		dst = make([]float64, n)
	}
	dst = dst[:n]

	if n == 1 {
		dst[0] = p.At(0)
		return dst
	}

	step := 1 / float64(n-1)
	for i := range dst {
		dst[i] = p.At(float64(i) * step)
	}

	return dst
}

// Clone returns a copy of the path.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}

	return append(Path(nil), p...)
}
