package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// CopyInto copies src into dst and returns the number of copied elements.
func CopyInto(dst, src []float64) int {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	copy(dst[:n], src[:n])
	return n
}

// Deinterleave splits interleaved frames from src into the planar channel
// slices of dst and returns the number of frames written. The channel count
// is len(dst); frames are limited by the shortest destination channel.
func Deinterleave(dst [][]float64, src []float64) int {
	channels := len(dst)
	if channels == 0 {
		return 0
	}

	frames := len(src) / channels
	for _, ch := range dst {
		if len(ch) < frames {
			frames = len(ch)
		}
	}

	for i := 0; i < frames; i++ {
		base := i * channels
		for c := range dst {
			dst[c][i] = src[base+c]
		}
	}

	return frames
}

// Interleave writes frames from the planar channel slices of src into dst
// and returns the number of frames written.
func Interleave(dst []float64, src [][]float64) int {
	channels := len(src)
	if channels == 0 {
		return 0
	}

	frames := len(dst) / channels
	for _, ch := range src {
		if len(ch) < frames {
			frames = len(ch)
		}
	}

	for i := 0; i < frames; i++ {
		base := i * channels
		for c := range src {
			dst[base+c] = src[c][i]
		}
	}

	return frames
}
