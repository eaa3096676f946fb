//go:build fastmath

package spectrum

import "github.com/meko-christian/algo-approx"

// ln10 is the natural logarithm of 10.
const ln10 = 2.30258509299404568401799145468

// amplitudeDB converts a normalized linear magnitude to dB using a fast
// logarithm approximation, never below floorDB.
func amplitudeDB(mag, floorDB float64) float64 {
	if !(mag > 0) {
		return floorDB
	}

	db := 20 / ln10 * approx.FastLog(mag)
	if db < floorDB {
		return floorDB
	}

	return db
}
