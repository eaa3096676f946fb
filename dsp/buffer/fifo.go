package buffer

import "sync/atomic"

// DefaultFifoCapacity is the number of blocks a BlockFifo holds unless
// configured otherwise.
const DefaultFifoCapacity = 30

// BlockFifo is a bounded single-producer/single-consumer queue of sample
// blocks. Push and Pull never block and never allocate: a push into a full
// FIFO is dropped and reported, a pull from an empty one returns false.
//
// Exactly one goroutine may call Push and exactly one (possibly different)
// goroutine may call Pull. Reset is not safe for concurrent use.
type BlockFifo struct {
	slots     []Buffer
	blockSize int

	// write is advanced only by the producer, read only by the consumer.
	// Both grow monotonically; the slot index is the cursor mod capacity.
	write atomic.Uint64
	_     [56]byte
	read  atomic.Uint64
}

// NewBlockFifo returns a FIFO holding up to capacity blocks of at most
// blockSize samples each. Non-positive arguments fall back to
// DefaultFifoCapacity and 1 respectively.
func NewBlockFifo(capacity, blockSize int) *BlockFifo {
	if capacity <= 0 {
		capacity = DefaultFifoCapacity
	}
	if blockSize <= 0 {
		blockSize = 1
	}

	slots := make([]Buffer, capacity)
	for i := range slots {
		slots[i].samples = make([]float64, 0, blockSize)
	}

	return &BlockFifo{slots: slots, blockSize: blockSize}
}

// Capacity returns the maximum number of queued blocks.
func (f *BlockFifo) Capacity() int {
	return len(f.slots)
}

// BlockSize returns the maximum length of a queued block.
func (f *BlockFifo) BlockSize() int {
	return f.blockSize
}

// Push copies block into the next free slot. It returns false without
// touching the queue when the FIFO is full. Blocks longer than BlockSize
// are truncated.
func (f *BlockFifo) Push(block []float64) bool {
	w := f.write.Load()
	if w-f.read.Load() >= uint64(len(f.slots)) {
		return false
	}

	f.slots[w%uint64(len(f.slots))].Load(block)
	f.write.Store(w + 1)

	return true
}

// Pull copies the oldest block into dst and releases its slot. It returns
// the number of samples copied and false when the FIFO is empty. If dst is
// shorter than the block the remainder is discarded.
func (f *BlockFifo) Pull(dst []float64) (int, bool) {
	r := f.read.Load()
	if r == f.write.Load() {
		return 0, false
	}

	n := f.slots[r%uint64(len(f.slots))].CopyTo(dst)
	f.read.Store(r + 1)

	return n, true
}

// NumAvailable returns the number of queued blocks. The value is a snapshot
// and may be stale by the time the caller acts on it.
func (f *BlockFifo) NumAvailable() int {
	r := f.read.Load()
	w := f.write.Load()
	return int(w - r)
}

// Reset empties the FIFO.
func (f *BlockFifo) Reset() {
	f.write.Store(0)
	f.read.Store(0)
	for i := range f.slots {
		f.slots[i].samples = f.slots[i].samples[:0]
	}
}
