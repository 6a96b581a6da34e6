package mandel

// EscapeRecord is the outcome of iterating one point.
type EscapeRecord struct {
	// Iterations is the number of z = z² + c steps taken, 0..maxIterations.
	Iterations int
	// ModulusSq is |z|² after the last step.
	ModulusSq float64
	// Escaped is true iff the orbit left the radius-2 disc before the cap.
	Escaped bool
}

// Evaluate runs the escape-time iteration for c in native float64.
// A non-positive cap returns a zero record that has not escaped.
func Evaluate(c Point, maxIterations int) EscapeRecord {
	x, y := 0.0, 0.0
	i := 0
	for i < maxIterations {
		if x*x+y*y > 4.0 {
			break
		}
		xn := x*x - y*y + c.X
		y = 2*x*y + c.Y
		x = xn
		i++
	}
	return EscapeRecord{
		Iterations: i,
		ModulusSq:  x*x + y*y,
		Escaped:    i < maxIterations,
	}
}

// EvaluatePair is Evaluate with every add and multiply done in double-float
// arithmetic.
func EvaluatePair(c PairPoint, maxIterations int) EscapeRecord {
	var x, y Pair
	i := 0
	for i < maxIterations {
		xx, yy := x.Sqr(), y.Sqr()
		if xx.Add(yy).Float() > 4.0 {
			break
		}
		xy := x.Mul(y)
		x = xx.Sub(yy).Add(c.X)
		y = xy.Double().Add(c.Y)
		i++
	}
	return EscapeRecord{
		Iterations: i,
		ModulusSq:  x.Sqr().Add(y.Sqr()).Float(),
		Escaped:    i < maxIterations,
	}
}

// EvaluateMode dispatches on the precision mode. Single mode rounds c to
// float64 first.
func EvaluateMode(c PairPoint, maxIterations int, mode PrecisionMode) EscapeRecord {
	if mode == ExtendedPair {
		return EvaluatePair(c, maxIterations)
	}
	return Evaluate(c.Point(), maxIterations)
}
