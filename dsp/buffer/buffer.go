package buffer

// Buffer is a sample block with a fixed capacity and a variable length.
// DSP functions accept raw []float64; use Samples() to bridge.
type Buffer struct {
	samples []float64
}

// New returns a zero-filled Buffer with length and capacity n.
func New(n int) *Buffer {
	if n < 0 {
		n = 0
	}
	return &Buffer{samples: make([]float64, n)}
}

// Samples returns the valid samples.
func (b *Buffer) Samples() []float64 {
	return b.samples
}

// Len returns the current number of samples.
func (b *Buffer) Len() int {
	return len(b.samples)
}

// Cap returns the fixed capacity of the backing slice.
func (b *Buffer) Cap() int {
	return cap(b.samples)
}

// Resize sets the length to n within the existing capacity. n is clamped to
// [0, Cap()]. Elements beyond the previous length are zeroed.
func (b *Buffer) Resize(n int) {
	if n < 0 {
		n = 0
	}
	if n > cap(b.samples) {
		n = cap(b.samples)
	}

	oldLen := len(b.samples)
	b.samples = b.samples[:n]
	for i := oldLen; i < n; i++ {
		b.samples[i] = 0
	}
}

// Load copies src into the buffer and sets the length to the number of
// copied samples. Samples beyond Cap() are dropped.
func (b *Buffer) Load(src []float64) int {
	n := len(src)
	if n > cap(b.samples) {
		n = cap(b.samples)
	}

	b.samples = b.samples[:n]
	copy(b.samples, src[:n])

	return n
}

// CopyTo copies the valid samples into dst and returns the number copied.
func (b *Buffer) CopyTo(dst []float64) int {
	return copy(dst, b.samples)
}

// Zero sets all samples to 0.
func (b *Buffer) Zero() {
	for i := range b.samples {
		b.samples[i] = 0
	}
}

// Copy returns a deep copy of the buffer with the same capacity.
func (b *Buffer) Copy() *Buffer {
	s := make([]float64, len(b.samples), cap(b.samples))
	copy(s, b.samples)
	return &Buffer{samples: s}
}
