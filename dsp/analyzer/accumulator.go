package analyzer

// Accumulator rebuffers blocks of any size into a fixed-size sliding
// window. Every Write shifts the window left and appends the new samples,
// so the window always holds the newest Size samples, oldest first.
type Accumulator struct {
	window   []float64
	ingested int
	primed   bool
}

// NewAccumulator returns an accumulator with a window of size samples.
// Sizes below 1 are raised to 1.
func NewAccumulator(size int) *Accumulator {
	if size < 1 {
		size = 1
	}

	return &Accumulator{window: make([]float64, size)}
}

// Size returns the window length.
func (a *Accumulator) Size() int {
	return len(a.window)
}

// Write appends samples to the window. Blocks longer than the window keep
// only their newest Size samples. It returns 1 when at least one full window
// of samples has arrived since the previous emission, else 0.
func (a *Accumulator) Write(samples []float64) int {
	n := len(samples)
	if n == 0 {
		return 0
	}

	size := len(a.window)
	if n >= size {
		copy(a.window, samples[n-size:])
	} else {
		copy(a.window, a.window[n:])
		copy(a.window[size-n:], samples)
	}

	a.ingested += n
	if a.ingested < size {
		return 0
	}

	a.ingested %= size
	a.primed = true

	return 1
}

// Window returns the current window, oldest sample first. The slice is
// owned by the accumulator.
func (a *Accumulator) Window() []float64 {
	return a.window
}

// Primed reports whether a full window has been emitted since the last
// Reset.
func (a *Accumulator) Primed() bool {
	return a.primed
}

// Pending returns the number of samples ingested since the last emission.
func (a *Accumulator) Pending() int {
	return a.ingested
}

// Reset clears the window.
func (a *Accumulator) Reset() {
	for i := range a.window {
		a.window[i] = 0
	}

	a.ingested = 0
	a.primed = false
}
