package mandel

// Pair is a double-float: the unevaluated sum Hi + Lo with |Lo| <= ulp(Hi)/2.
// It carries roughly twice the mantissa of a float64.
//
// The explicit float64 conversions below stop the compiler from fusing a
// multiply and an add into one FMA, which would break the error terms.
type Pair struct {
	Hi, Lo float64
}

// PairPoint is a plane coordinate in the ExtendedPair regime.
type PairPoint struct {
	X, Y Pair
}

// PairOf widens v.
func PairOf(v float64) Pair {
	return Pair{Hi: v}
}

// PairPointOf widens p.
func PairPointOf(p Point) PairPoint {
	return PairPoint{X: PairOf(p.X), Y: PairOf(p.Y)}
}

// Float rounds p to the nearest float64.
func (p Pair) Float() float64 {
	return p.Hi + p.Lo
}

// Point rounds pp to float64 coordinates.
func (pp PairPoint) Point() Point {
	return Point{X: pp.X.Float(), Y: pp.Y.Float()}
}

// TwoSum returns a+b exactly as a Pair.
func TwoSum(a, b float64) Pair {
	s := a + b
	bb := s - a
	err := (a - (s - bb)) + (b - bb)
	return Pair{Hi: s, Lo: err}
}

// quickTwoSum requires |a| >= |b|.
func quickTwoSum(a, b float64) Pair {
	s := a + b
	return Pair{Hi: s, Lo: b - (s - a)}
}

// 2^27 + 1
const splitter = 134217729.0

// split divides a into two non-overlapping 26-bit halves.
func split(a float64) (hi, lo float64) {
	t := float64(splitter * a)
	hi = t - (t - a)
	lo = a - hi
	return hi, lo
}

// TwoProd returns a*b exactly as a Pair using Dekker's splitting.
func TwoProd(a, b float64) Pair {
	p := float64(a * b)
	ah, al := split(a)
	bh, bl := split(b)
	err := ((float64(ah*bh) - p) + float64(ah*bl) + float64(al*bh)) + float64(al*bl)
	return Pair{Hi: p, Lo: err}
}

func (p Pair) Neg() Pair {
	return Pair{Hi: -p.Hi, Lo: -p.Lo}
}

func (p Pair) Add(q Pair) Pair {
	s := TwoSum(p.Hi, q.Hi)
	t := TwoSum(p.Lo, q.Lo)
	s.Lo += t.Hi
	s = quickTwoSum(s.Hi, s.Lo)
	s.Lo += t.Lo
	return quickTwoSum(s.Hi, s.Lo)
}

func (p Pair) Sub(q Pair) Pair {
	return p.Add(q.Neg())
}

func (p Pair) Mul(q Pair) Pair {
	r := TwoProd(p.Hi, q.Hi)
	r.Lo += float64(p.Hi*q.Lo) + float64(p.Lo*q.Hi)
	return quickTwoSum(r.Hi, r.Lo)
}

// Sqr is p*p.
func (p Pair) Sqr() Pair {
	r := TwoProd(p.Hi, p.Hi)
	r.Lo += 2 * float64(p.Hi*p.Lo)
	return quickTwoSum(r.Hi, r.Lo)
}

// Double is 2*p, which is exact.
func (p Pair) Double() Pair {
	return Pair{Hi: 2 * p.Hi, Lo: 2 * p.Lo}
}
