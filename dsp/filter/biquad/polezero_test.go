package biquad

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestCoefficientsPoleZeroPair_SecondOrder(t *testing.T) {
	p1 := complex(0.72, 0.19)
	p2 := cmplx.Conj(p1)
	z1 := complex(0.31, 0.44)
	z2 := cmplx.Conj(z1)

	b0 := 2.3
	c := Coefficients{
		B0: b0,
		B1: -b0 * real(z1+z2),
		B2: b0 * real(z1*z2),
		A1: -real(p1 + p2),
		A2: real(p1 * p2),
	}

	pair := c.PoleZeroPair()
	if !unorderedRootsClose(pair.Poles, p1, p2, 1e-12) {
		t.Fatalf("unexpected poles: got=%v want={%v,%v}", pair.Poles, p1, p2)
	}
	if !unorderedRootsClose(pair.Zeros, z1, z2, 1e-12) {
		t.Fatalf("unexpected zeros: got=%v want={%v,%v}", pair.Zeros, z1, z2)
	}
}

func TestCoefficientsPoleZeroPair_FirstOrder(t *testing.T) {
	c := Coefficients{
		B0: 1.0,
		B1: -0.3,
		B2: 0.0,
		A1: -0.8,
		A2: 0.0,
	}

	pair := c.PoleZeroPair()
	if !unorderedRootsClose(pair.Poles, complex(0.8, 0), complex(0, 0), 1e-12) {
		t.Fatalf("unexpected first-order poles: %v", pair.Poles)
	}
	if !unorderedRootsClose(pair.Zeros, complex(0.3, 0), complex(0, 0), 1e-12) {
		t.Fatalf("unexpected first-order zeros: %v", pair.Zeros)
	}
}

func TestPoleZeroPairs_MatchPerSection(t *testing.T) {
	coeffs := []Coefficients{
		{B0: 1, B1: -0.4, B2: 0.1, A1: -1.2, A2: 0.45},
		{B0: 0.9, B1: 0.2, B2: 0.05, A1: -0.3, A2: 0.08},
	}

	pairs := PoleZeroPairs(coeffs)
	if len(pairs) != len(coeffs) {
		t.Fatalf("pair count=%d, want=%d", len(pairs), len(coeffs))
	}

	for i := range coeffs {
		single := coeffs[i].PoleZeroPair()
		if !sameRootSet(pairs[i].Poles, single.Poles, 1e-12) {
			t.Fatalf("section %d poles differ: %v vs %v", i, pairs[i].Poles, single.Poles)
		}
		if !sameRootSet(pairs[i].Zeros, single.Zeros, 1e-12) {
			t.Fatalf("section %d zeros differ: %v vs %v", i, pairs[i].Zeros, single.Zeros)
		}
	}
}

func TestIsStable(t *testing.T) {
	tests := []struct {
		name string
		c    Coefficients
		want bool
	}{
		{"identity", Identity(), true},
		{"complex poles inside", Coefficients{B0: 1, A1: -1.4, A2: 0.53}, true},
		{"pole on circle", Coefficients{B0: 1, A1: -1}, false},
		{"pole outside", Coefficients{B0: 1, A1: -2.5, A2: 1.2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.IsStable(0); got != tt.want {
				t.Fatalf("IsStable() = %v, want %v (poles %v)", got, tt.want, tt.c.Poles())
			}
		})
	}
}

func TestMaxPoleRadius(t *testing.T) {
	c := Coefficients{B0: 1, A1: -1.4, A2: 0.53}
	if got, want := c.MaxPoleRadius(), math.Sqrt(0.53); math.Abs(got-want) > 1e-12 {
		t.Fatalf("MaxPoleRadius = %v, want %v", got, want)
	}

	id := Identity()
	if got := id.MaxPoleRadius(); got != 0 {
		t.Fatalf("identity radius = %v, want 0", got)
	}
}

func TestPolesKeepSmallRootPrecision(t *testing.T) {
	const big, small = 0.999, 1e-9
	c := Coefficients{B0: 1, A1: -(big + small), A2: big * small}

	p := c.Poles()
	lo := math.Min(real(p[0]), real(p[1]))
	hi := math.Max(real(p[0]), real(p[1]))
	if math.Abs(lo-small)/small > 1e-9 {
		t.Fatalf("small pole = %.17g, want %.17g", lo, small)
	}
	if math.Abs(hi-big) > 1e-15 {
		t.Fatalf("large pole = %.17g, want %.17g", hi, big)
	}
}

func unorderedRootsClose(got [2]complex128, want1, want2 complex128, tol float64) bool {
	return (rootsClose(got[0], want1, tol) && rootsClose(got[1], want2, tol)) ||
		(rootsClose(got[0], want2, tol) && rootsClose(got[1], want1, tol))
}

func sameRootSet(a, b [2]complex128, tol float64) bool {
	return unorderedRootsClose(a, b[0], b[1], tol)
}

func rootsClose(a, b complex128, tol float64) bool {
	return cmplx.Abs(a-b) <= tol
}
