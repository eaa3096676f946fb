package eq

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-eq/dsp/analyzer"
	"github.com/cwbudde/algo-eq/dsp/spectrum"
	"github.com/cwbudde/algo-eq/internal/testutil"
)

func testSettings() Settings {
	return Settings{
		PeakFreq: 1500, PeakGainDB: 8, PeakQ: 1.2,
		LowCutFreq: 90, HighCutFreq: 9000,
		LowCutSlope: Slope24, HighCutSlope: Slope36,
		AnalyzerEnabled: true,
	}
}

func TestProcessorPrepareValidation(t *testing.T) {
	tests := []struct {
		name string
		sr   float64
		bs   int
		opts []Option
		want error
	}{
		{"zero rate", 0, 512, nil, ErrInvalidSampleRate},
		{"nan rate", math.NaN(), 512, nil, ErrInvalidSampleRate},
		{"inf rate", math.Inf(1), 512, nil, ErrInvalidSampleRate},
		{"zero block", 48000, 0, nil, ErrInvalidBlockSize},
		{"no channels", 48000, 512, []Option{WithChannels(0)}, ErrInvalidChannels},
		{"bad window", 48000, 512, []Option{WithAnalyzer(analyzer.WithWindowSize(1000))}, spectrum.ErrInvalidSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProcessor(NewParams(DefaultSettings()), tt.opts...)
			err := p.Prepare(tt.sr, tt.bs)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Prepare error = %v, want %v", err, tt.want)
			}
			if p.Prepared() {
				t.Fatal("Prepared() after failed Prepare")
			}
		})
	}
}

func TestProcessorUnpreparedIsNoop(t *testing.T) {
	p := NewProcessor(nil)
	in := testutil.DeterministicNoise(1, 1, 64)
	buf := append([]float64(nil), in...)

	p.ProcessBlock([][]float64{buf})
	p.ProcessInterleaved(buf)
	testutil.RequireBitIdentical(t, buf, in)

	if p.Analyzer() != nil || p.Response() != nil || p.Chain(0) != nil {
		t.Fatal("unprepared processor exposes analysis state")
	}
	if p.Params() == nil {
		t.Fatal("nil params not replaced by defaults")
	}
}

func TestProcessorMatchesStandaloneChain(t *testing.T) {
	const sr = 48000.0
	s := testSettings()

	p := NewProcessor(NewParams(s), WithChannels(2))
	if err := p.Prepare(sr, 256); err != nil {
		t.Fatal(err)
	}

	cc, _ := MakeChainCoefficients(s, sr)
	var ref MonoChain
	ref.Apply(&cc)

	left := testutil.DeterministicNoise(10, 0.7, 2000)
	right := testutil.DeterministicNoise(11, 0.7, 2000)
	want := append([]float64(nil), left...)
	ref.ProcessBlock(want)

	gotL := append([]float64(nil), left...)
	gotR := append([]float64(nil), right...)
	for off := 0; off < len(left); off += 200 {
		p.ProcessBlock([][]float64{gotL[off : off+200], gotR[off : off+200]})
	}

	testutil.RequireBitIdentical(t, gotL, want)

	ref.Reset()
	wantR := append([]float64(nil), right...)
	ref.ProcessBlock(wantR)
	testutil.RequireBitIdentical(t, gotR, wantR)
}

func TestProcessorStereoChannelsAreIndependentCopies(t *testing.T) {
	p := NewProcessor(NewParams(testSettings()))
	if err := p.Prepare(44100, 128); err != nil {
		t.Fatal(err)
	}

	in := testutil.DeterministicNoise(2, 1, 128)
	l := append([]float64(nil), in...)
	r := append([]float64(nil), in...)
	p.ProcessBlock([][]float64{l, r})
	testutil.RequireBitIdentical(t, l, r)

	if p.Chain(0) == p.Chain(1) {
		t.Fatal("channels share a chain")
	}
	if p.Chain(0).Peak.State() != p.Chain(1).Peak.State() {
		t.Fatal("identical input produced different state")
	}
}

func TestProcessorClearsExtraChannels(t *testing.T) {
	p := NewProcessor(NewParams(testSettings()), WithChannels(1))
	if err := p.Prepare(48000, 64); err != nil {
		t.Fatal(err)
	}

	main := testutil.DeterministicNoise(3, 1, 64)
	extra := testutil.DeterministicNoise(4, 1, 64)
	p.ProcessBlock([][]float64{main, extra})

	for i, v := range extra {
		if v != 0 {
			t.Fatalf("extra channel sample %d = %v, want 0", i, v)
		}
	}

	// Fewer channels than configured are fine.
	p2 := NewProcessor(NewParams(testSettings()), WithChannels(2))
	if err := p2.Prepare(48000, 64); err != nil {
		t.Fatal(err)
	}
	p2.ProcessBlock([][]float64{main})
	p2.ProcessBlock(nil)
}

func TestProcessorInterleavedMatchesPlanar(t *testing.T) {
	const frames = 1000
	s := testSettings()

	planar := NewProcessor(NewParams(s))
	inter := NewProcessor(NewParams(s))
	if err := planar.Prepare(48000, 96); err != nil {
		t.Fatal(err)
	}
	if err := inter.Prepare(48000, 96); err != nil {
		t.Fatal(err)
	}

	l := testutil.DeterministicNoise(5, 1, frames)
	r := testutil.DeterministicNoise(6, 1, frames)

	buf := make([]float64, 2*frames)
	for i := range l {
		buf[2*i] = l[i]
		buf[2*i+1] = r[i]
	}

	for _, block := range testutil.SplitBlocks(buf, 2*96, 2*37) {
		inter.ProcessInterleaved(block)
	}
	for off := 0; off < frames; off += 96 {
		end := min(off+96, frames)
		planar.ProcessBlock([][]float64{l[off:end], r[off:end]})
	}

	gotL := make([]float64, frames)
	gotR := make([]float64, frames)
	for i := range gotL {
		gotL[i] = buf[2*i]
		gotR[i] = buf[2*i+1]
	}

	testutil.RequireBitIdentical(t, gotL, l)
	testutil.RequireBitIdentical(t, gotR, r)
}

func TestProcessorInterleavedLargerThanBlock(t *testing.T) {
	s := testSettings()
	a := NewProcessor(NewParams(s), WithChannels(1))
	b := NewProcessor(NewParams(s), WithChannels(1))
	if err := a.Prepare(48000, 32); err != nil {
		t.Fatal(err)
	}
	if err := b.Prepare(48000, 32); err != nil {
		t.Fatal(err)
	}

	in := testutil.DeterministicNoise(12, 1, 1000)
	x := append([]float64(nil), in...)
	y := append([]float64(nil), in...)

	a.ProcessInterleaved(x)
	for _, block := range testutil.SplitBlocks(y, 32) {
		b.ProcessBlock([][]float64{block})
	}

	testutil.RequireBitIdentical(t, x, y)
}

func TestProcessorFeedsAnalyzer(t *testing.T) {
	const sr = 48000.0
	s := DefaultSettings()

	p := NewProcessor(NewParams(s), WithAnalyzer(analyzer.WithWindowSize(1024)))
	if err := p.Prepare(sr, 256); err != nil {
		t.Fatal(err)
	}

	an := p.Analyzer()
	if an == nil || an.Channels() != 2 {
		t.Fatal("analyzer not built for both channels")
	}

	// 4 blocks of 256 fill exactly one 1024 window per channel.
	sine := testutil.DeterministicSine(1500, sr, 1, 1024)
	for _, block := range testutil.SplitBlocks(sine, 256) {
		l := append([]float64(nil), block...)
		r := append([]float64(nil), block...)
		p.ProcessBlock([][]float64{l, r})
	}

	if got := an.Tick(); got != 2 {
		t.Fatalf("Tick() = %d curves, want 2", got)
	}

	curve, ok := an.NextCurve(0)
	if !ok || len(curve) == 0 {
		t.Fatal("no curve for channel 0")
	}
	if _, again := an.NextCurve(0); again {
		t.Fatal("curve handed out twice")
	}

	resp, changed := an.Response(64)
	if !changed || len(resp) != 64 {
		t.Fatalf("Response: len %d changed %v", len(resp), changed)
	}
	if p.DroppedBlocks() != 0 {
		t.Fatalf("DroppedBlocks() = %d", p.DroppedBlocks())
	}
}

func TestProcessorAnalyzerDisabledSkipsCapture(t *testing.T) {
	s := DefaultSettings()
	s.AnalyzerEnabled = false
	p := NewProcessor(NewParams(s), WithAnalyzer(analyzer.WithWindowSize(256)))
	if err := p.Prepare(48000, 256); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 8; i++ {
		p.ProcessBlock([][]float64{testutil.DeterministicNoise(int64(i), 1, 256), make([]float64, 256)})
	}

	if got := p.Analyzer().Tick(); got != 0 {
		t.Fatalf("Tick() = %d with the analyzer disabled", got)
	}
}

func TestProcessorCountsDroppedBlocks(t *testing.T) {
	p := NewProcessor(NewParams(DefaultSettings()), WithChannels(1), WithFifoCapacity(4))
	if err := p.Prepare(48000, 64); err != nil {
		t.Fatal(err)
	}

	// A 640-sample block is captured as 10 chunks; 6 do not fit.
	p.ProcessBlock([][]float64{make([]float64, 640)})

	if got := p.DroppedBlocks(); got != 6 {
		t.Fatalf("DroppedBlocks() = %d, want 6", got)
	}
}

func TestProcessorPreparedSizeTakesOneSlotPerBlock(t *testing.T) {
	p := NewProcessor(NewParams(DefaultSettings()), WithChannels(1), WithFifoCapacity(4))
	if err := p.Prepare(48000, 64); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 4; i++ {
		p.ProcessBlock([][]float64{make([]float64, 64)})
	}
	if got := p.DroppedBlocks(); got != 0 {
		t.Fatalf("DroppedBlocks() = %d after filling the queue exactly", got)
	}

	p.ProcessBlock([][]float64{make([]float64, 48)})
	if got := p.DroppedBlocks(); got != 1 {
		t.Fatalf("DroppedBlocks() = %d, want 1", got)
	}
}

func TestProcessorFollowsParameterChanges(t *testing.T) {
	params := NewParams(DefaultSettings())
	p := NewProcessor(params, WithChannels(1))
	if err := p.Prepare(48000, 128); err != nil {
		t.Fatal(err)
	}

	params.Set(ParamLowCutSlope, 3)
	params.Set(ParamPeakBypassed, 1)
	p.ProcessBlock([][]float64{make([]float64, 128)})

	cc, ok := p.Coefficients()
	if !ok || cc.LowCut.Stages != 4 || !cc.PeakBypassed {
		t.Fatalf("coefficients not refreshed: %+v", cc)
	}
	if p.Chain(0).LowCut.ActiveStages() != 4 || !p.Chain(0).Peak.Bypassed() {
		t.Fatal("chain not refreshed")
	}
}

func TestProcessorReleaseAndReport(t *testing.T) {
	p := NewProcessor(NewParams(DefaultSettings()))
	if err := p.Prepare(96000, 480); err != nil {
		t.Fatal(err)
	}
	if p.SampleRate() != 96000 || p.MaxBlockSize() != 480 || p.Channels() != 2 {
		t.Fatalf("format = %v/%d/%d", p.SampleRate(), p.MaxBlockSize(), p.Channels())
	}
	if p.Latency() != 0 || p.TailSeconds() != 0 {
		t.Fatal("non-zero latency or tail")
	}

	p.Release()
	if p.Prepared() || p.Analyzer() != nil {
		t.Fatal("Release kept resources")
	}

	buf := []float64{1, 2, 3}
	p.ProcessBlock([][]float64{buf})
	if buf[0] != 1 || buf[2] != 3 {
		t.Fatal("released processor filtered audio")
	}

	if err := p.Prepare(44100, 64); err != nil {
		t.Fatalf("re-Prepare: %v", err)
	}
}

func TestProcessorProcessBlockDoesNotAllocate(t *testing.T) {
	p := NewProcessor(NewParams(testSettings()))
	if err := p.Prepare(48000, 512); err != nil {
		t.Fatal(err)
	}

	l := testutil.DeterministicNoise(1, 0.5, 512)
	r := testutil.DeterministicNoise(2, 0.5, 512)
	channels := [][]float64{l, r}
	an := p.Analyzer()

	allocs := testing.AllocsPerRun(50, func() {
		p.ProcessBlock(channels)
		an.Tick()
	})
	if allocs != 0 {
		t.Fatalf("allocs = %v, want 0", allocs)
	}

	inter := make([]float64, 1024)
	allocs = testing.AllocsPerRun(50, func() {
		p.ProcessInterleaved(inter)
	})
	if allocs != 0 {
		t.Fatalf("interleaved allocs = %v, want 0", allocs)
	}
}

func BenchmarkProcessorStereo512(b *testing.B) {
	p := NewProcessor(NewParams(testSettings()))
	if err := p.Prepare(48000, 512); err != nil {
		b.Fatal(err)
	}

	channels := [][]float64{
		testutil.DeterministicNoise(1, 0.5, 512),
		testutil.DeterministicNoise(2, 0.5, 512),
	}

	b.ReportAllocs()
	b.SetBytes(2 * 512 * 8)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.ProcessBlock(channels)
	}
}
