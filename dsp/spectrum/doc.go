// Package spectrum turns blocks of samples into log-frequency magnitude
// curves for display.
//
// An [Estimator] owns an FFT plan and all scratch memory for one window
// size. [Estimator.Estimate] windows the samples, runs a forward FFT,
// normalizes the magnitudes to dB full scale and maps every bin inside the
// audible range onto a [Path] whose X axis is log10(f/20)/log10(1000), so
// 20 Hz maps to 0 and 20 kHz to 1.
package spectrum
