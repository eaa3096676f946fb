// Package analyzer is the analysis side of the equalizer. It drains the
// block FIFOs filled by the audio thread, rebuffers the blocks into fixed
// analysis windows and turns every completed window into a spectrum curve.
//
// An [Analyzer] belongs to one goroutine, typically a timer loop started
// with [Analyzer.Run]. It never blocks the audio thread: the FIFOs are the
// only shared state.
package analyzer
