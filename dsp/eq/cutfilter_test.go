package eq

import (
	"testing"

	"github.com/cwbudde/algo-eq/dsp/filter/biquad"
	"github.com/cwbudde/algo-eq/internal/testutil"
)

func TestCutFilterActiveStagesFollowSlope(t *testing.T) {
	const sr = 48000.0

	for slope := Slope12; slope <= Slope48; slope++ {
		t.Run(slope.String(), func(t *testing.T) {
			s := DefaultSettings()
			s.LowCutFreq = 300
			s.LowCutSlope = slope
			cc := LowCutCoefficients(s, sr)

			var f CutFilter
			f.Configure(cc.Sections, cc.Stages)

			want := int(slope) + 1
			if got := f.ActiveStages(); got != want {
				t.Fatalf("ActiveStages() = %d, want %d", got, want)
			}

			for i := 0; i < MaxCutStages; i++ {
				st := f.Stage(i)
				if st.Coefficients() != cc.Sections[i] {
					t.Fatalf("slot %d coefficients not written", i)
				}
				if st.Bypassed() != (i >= want) {
					t.Fatalf("slot %d bypassed = %v, want %v", i, st.Bypassed(), i >= want)
				}
			}
		})
	}
}

func TestCutFilterInactiveStagesAreBitExact(t *testing.T) {
	const sr = 48000.0
	in := testutil.DeterministicNoise(7, 0.8, 1024)

	for slope := Slope12; slope <= Slope48; slope++ {
		s := DefaultSettings()
		s.HighCutFreq = 3000
		s.HighCutSlope = Slope48
		full := HighCutCoefficients(s, sr)

		var f CutFilter
		// Real coefficients in every slot: inactive ones must still pass
		// the signal through untouched.
		f.Configure(full.Sections, slope.Stages())

		for i := slope.Stages(); i < MaxCutStages; i++ {
			buf := append([]float64(nil), in...)
			f.Stage(i).ProcessBlock(buf)
			testutil.RequireBitIdentical(t, buf, in)

			for k, x := range in {
				if y := f.Stage(i).ProcessSample(x); y != x {
					t.Fatalf("%v slot %d sample %d: %v != %v", slope, i, k, y, x)
				}
			}
		}
	}
}

func TestCutFilterMatchesExplicitCascade(t *testing.T) {
	const sr = 44100.0
	in := testutil.DeterministicNoise(3, 0.5, 777)

	for slope := Slope12; slope <= Slope48; slope++ {
		s := DefaultSettings()
		s.LowCutFreq = 150
		s.LowCutSlope = slope
		cc := LowCutCoefficients(s, sr)

		var f CutFilter
		f.Configure(cc.Sections, cc.Stages)

		got := append([]float64(nil), in...)
		f.ProcessBlock(got)

		want := append([]float64(nil), in...)
		for i := 0; i < slope.Stages(); i++ {
			biquad.NewSection(cc.Sections[i]).ProcessBlock(want)
		}

		testutil.RequireBitIdentical(t, got, want)
	}
}

func TestCutFilterShrinkingSlope(t *testing.T) {
	const sr = 48000.0
	s := DefaultSettings()
	s.LowCutFreq = 500
	s.LowCutSlope = Slope48

	var f CutFilter
	cc := LowCutCoefficients(s, sr)
	f.Configure(cc.Sections, cc.Stages)
	f.ProcessBlock(testutil.DeterministicNoise(1, 1, 256))

	s.LowCutSlope = Slope12
	cc = LowCutCoefficients(s, sr)
	f.Configure(cc.Sections, cc.Stages)

	if f.ActiveStages() != 1 {
		t.Fatalf("ActiveStages() = %d, want 1", f.ActiveStages())
	}
	for i := 1; i < MaxCutStages; i++ {
		if !f.Stage(i).Bypassed() {
			t.Fatalf("slot %d still enabled", i)
		}
		if !f.Stage(i).Coefficients().IsIdentity() {
			t.Fatalf("slot %d kept stale coefficients", i)
		}
	}
}

func TestCutFilterClampsActiveCount(t *testing.T) {
	var coeffs [MaxCutStages]biquad.Coefficients
	for i := range coeffs {
		coeffs[i] = biquad.Identity()
	}

	var f CutFilter
	f.Configure(coeffs, 0)
	if f.ActiveStages() != 1 {
		t.Fatalf("ActiveStages() = %d, want 1", f.ActiveStages())
	}
	f.Configure(coeffs, 9)
	if f.ActiveStages() != MaxCutStages {
		t.Fatalf("ActiveStages() = %d, want %d", f.ActiveStages(), MaxCutStages)
	}
}

func TestCutFilterBypassAndZeroValue(t *testing.T) {
	in := testutil.DeterministicNoise(11, 1, 300)

	var zero CutFilter
	buf := append([]float64(nil), in...)
	zero.ProcessBlock(buf)
	testutil.RequireBitIdentical(t, buf, in)
	if zero.MagnitudeSquared(1000, 48000) != 1 {
		t.Fatal("zero value is not unity")
	}

	s := DefaultSettings()
	s.LowCutFreq = 2000
	s.LowCutSlope = Slope36
	cc := LowCutCoefficients(s, 48000)

	var f CutFilter
	f.Configure(cc.Sections, cc.Stages)
	f.SetBypassed(true)
	if !f.Bypassed() {
		t.Fatal("Bypassed() = false")
	}

	buf = append(buf[:0], in...)
	f.ProcessBlock(buf)
	testutil.RequireBitIdentical(t, buf, in)
	for _, x := range in[:16] {
		if y := f.ProcessSample(x); y != x {
			t.Fatalf("bypassed ProcessSample(%v) = %v", x, y)
		}
	}
	if f.MagnitudeSquared(100, 48000) != 1 {
		t.Fatal("bypassed bank is not unity")
	}
	if f.ActiveStages() != 3 {
		t.Fatal("bypass dropped the stage configuration")
	}
}

func TestCutFilterProcessSampleMatchesBlock(t *testing.T) {
	s := DefaultSettings()
	s.HighCutFreq = 900
	s.HighCutSlope = Slope24
	cc := HighCutCoefficients(s, 48000)

	var a, b CutFilter
	a.Configure(cc.Sections, cc.Stages)
	b.Configure(cc.Sections, cc.Stages)

	in := testutil.DeterministicNoise(5, 1, 128)
	block := append([]float64(nil), in...)
	a.ProcessBlock(block)

	for i, x := range in {
		block[i] -= b.ProcessSample(x)
	}
	testutil.RequireSliceNearlyEqual(t, block, make([]float64, len(in)), 1e-12)

	a.Reset()
	for i := 0; i < MaxCutStages; i++ {
		if a.Stage(i).State() != [2]float64{} {
			t.Fatalf("slot %d state not cleared", i)
		}
	}
}
