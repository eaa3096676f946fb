// Package buffer provides fixed-capacity sample blocks and the
// single-producer/single-consumer block FIFO that carries copies of
// processed audio from the real-time thread to the analysis thread.
//
// Neither type allocates after construction.
package buffer
