// Package eq implements a three-band parametric equalizer: a Butterworth
// low-cut bank, one peaking section and a Butterworth high-cut bank, run as
// an independent [MonoChain] per channel.
//
// Settings live in a [Params] store that is safe to read from the audio
// thread and to write from anywhere. Once per block a [ChainUpdater] takes a
// snapshot, derives [ChainCoefficients] and copies them into every chain.
// [Processor] ties this together with the analysis FIFOs consumed by
// package analyzer.
package eq
