package analyzer

import (
	"testing"

	"github.com/cwbudde/algo-eq/internal/testutil"
)

func TestAccumulatorOneWindowFromVaryingBlocks(t *testing.T) {
	const size = 2048
	src := testutil.Ramp(size)

	a := NewAccumulator(size)
	completed := 0
	for _, block := range testutil.SplitBlocks(src, 300, 212, 500, 1036) {
		completed += a.Write(block)
	}

	if completed != 1 {
		t.Fatalf("completed windows = %d, want 1", completed)
	}
	testutil.RequireBitIdentical(t, a.Window(), src)
	if !a.Primed() {
		t.Fatal("Primed() = false after a full window")
	}
}

func TestAccumulatorPartialWindow(t *testing.T) {
	a := NewAccumulator(1024)
	completed := 0
	for _, block := range testutil.SplitBlocks(testutil.Ramp(1023), 100, 17) {
		completed += a.Write(block)
	}

	if completed != 0 {
		t.Fatalf("completed windows = %d, want 0", completed)
	}
	if a.Primed() {
		t.Fatal("Primed() before a full window")
	}
	if a.Pending() != 1023 {
		t.Fatalf("Pending() = %d, want 1023", a.Pending())
	}

	// The newest samples sit at the tail, oldest first.
	w := a.Window()
	if w[0] != 0 || w[1] != 0 || w[1023] != 1022 {
		t.Fatalf("window head/tail = %v %v ... %v", w[0], w[1], w[1023])
	}
}

func TestAccumulatorSlidesAndCarriesRemainder(t *testing.T) {
	a := NewAccumulator(8)
	src := testutil.Ramp(30)

	var emitted []int
	pos := 0
	for _, block := range testutil.SplitBlocks(src, 3) {
		pos += len(block)
		if a.Write(block) == 1 {
			emitted = append(emitted, pos)
		}
	}

	// The remainder carries over, so windows complete every 8 samples on
	// average.
	want := []int{9, 18, 24}
	if len(emitted) != len(want) {
		t.Fatalf("emitted at %v, want %v", emitted, want)
	}
	for i := range want {
		if emitted[i] != want[i] {
			t.Fatalf("emitted at %v, want %v", emitted, want)
		}
	}

	testutil.RequireBitIdentical(t, a.Window(), src[22:30])
}

func TestAccumulatorLongBlockKeepsNewest(t *testing.T) {
	a := NewAccumulator(16)
	src := testutil.Ramp(40)

	if got := a.Write(src); got != 1 {
		t.Fatalf("Write = %d, want 1", got)
	}
	testutil.RequireBitIdentical(t, a.Window(), src[24:])
}

func TestAccumulatorReset(t *testing.T) {
	a := NewAccumulator(4)
	a.Write([]float64{1, 2, 3, 4, 5})
	a.Reset()

	if a.Primed() || a.Pending() != 0 {
		t.Fatal("Reset kept progress")
	}
	testutil.RequireBitIdentical(t, a.Window(), make([]float64, 4))

	if a.Write(nil) != 0 {
		t.Fatal("empty write completed a window")
	}
	if NewAccumulator(0).Size() != 1 {
		t.Fatal("size 0 not raised to 1")
	}
}
