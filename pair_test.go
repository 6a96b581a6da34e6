package mandel

import (
	"math"
	"math/big"
	"testing"
)

func bigOf(p Pair) *big.Float {
	f := new(big.Float).SetPrec(256).SetFloat64(p.Hi)
	return f.Add(f, new(big.Float).SetPrec(256).SetFloat64(p.Lo))
}

func relErr(got Pair, want *big.Float) float64 {
	diff := new(big.Float).SetPrec(256).Sub(bigOf(got), want)
	if want.Sign() == 0 {
		d, _ := diff.Float64()
		return math.Abs(d)
	}
	r, _ := diff.Quo(diff, want).Float64()
	return math.Abs(r)
}

func TestTwoSumExact(t *testing.T) {
	tests := []struct{ a, b float64 }{
		{1, 1e-20},
		{1e16, 1},
		{0.1, 0.2},
		{-3, 3},
		{0x1p52, -0x1p-52},
	}
	for _, tt := range tests {
		got := TwoSum(tt.a, tt.b)
		want := new(big.Float).SetPrec(256).SetFloat64(tt.a)
		want.Add(want, new(big.Float).SetPrec(256).SetFloat64(tt.b))
		if bigOf(got).Cmp(want) != 0 {
			t.Errorf("TwoSum(%g, %g) = %+v, not exact", tt.a, tt.b, got)
		}
		if got.Hi != tt.a+tt.b {
			t.Errorf("TwoSum(%g, %g).Hi = %g, want the rounded sum", tt.a, tt.b, got.Hi)
		}
	}
}

func TestTwoProdExact(t *testing.T) {
	tests := []struct{ a, b float64 }{
		{1 + 0x1p-30, 1 + 0x1p-30},
		{0.1, 0.3},
		{math.Pi, math.E},
		{-1e10, 3e-7},
	}
	for _, tt := range tests {
		got := TwoProd(tt.a, tt.b)
		want := new(big.Float).SetPrec(256).SetFloat64(tt.a)
		want.Mul(want, new(big.Float).SetPrec(256).SetFloat64(tt.b))
		if bigOf(got).Cmp(want) != 0 {
			t.Errorf("TwoProd(%g, %g) = %+v, not exact", tt.a, tt.b, got)
		}
	}
}

func TestSqrSmallTerm(t *testing.T) {
	got := PairOf(1 + 0x1p-30).Sqr()
	if got.Hi != 1+0x1p-29 || got.Lo != 0x1p-60 {
		t.Errorf("(1+2^-30)^2 = %+v, want {1+2^-29, 2^-60}", got)
	}
}

func TestPairArithmetic(t *testing.T) {
	a := TwoSum(1, 0x1p-60)
	b := TwoSum(3, -0x1p-70)
	c := TwoSum(-0.7, 1e-25)

	ba, bb, bc := bigOf(a), bigOf(b), bigOf(c)
	prec := func() *big.Float { return new(big.Float).SetPrec(256) }

	tests := []struct {
		name string
		got  Pair
		want *big.Float
	}{
		{"add", a.Add(b), prec().Add(ba, bb)},
		{"sub", a.Sub(c), prec().Sub(ba, bc)},
		{"mul", a.Mul(b), prec().Mul(ba, bb)},
		{"mul neg", b.Mul(c), prec().Mul(bb, bc)},
		{"sqr", c.Sqr(), prec().Mul(bc, bc)},
		{"double", c.Double(), prec().Add(bc, bc)},
	}
	for _, tt := range tests {
		if e := relErr(tt.got, tt.want); e > 1e-30 {
			t.Errorf("%s: relative error %g", tt.name, e)
		}
	}
}

func TestPairNormalised(t *testing.T) {
	p := TwoSum(1, 0x1p-60).Mul(TwoSum(3, 0x1p-58))
	if p.Hi+p.Lo != p.Hi {
		t.Errorf("%+v: Lo is not below half an ulp of Hi", p)
	}
}
