//go:build !fastmath

package spectrum

import "github.com/cwbudde/algo-eq/dsp/core"

// amplitudeDB converts a normalized linear magnitude to dB, never below
// floorDB.
func amplitudeDB(mag, floorDB float64) float64 {
	return core.GainToDB(mag, floorDB)
}
