package value

import "math"

// isIntPair reports whether both operands are plain integers, in which
// case arithmetic stays in the integer domain (matching the reference's
// std::get_if<long> fast path).
func isIntPair(a, b Value) bool {
	return a.kind == KindInteger && b.kind == KindInteger
}

// Add returns a+b, closed over the three non-finite variants per §3:
// Infinity - Infinity (mixed signs) = NaN, otherwise the sign of whichever
// infinity is present dominates.
func Add(a, b Value) Value {
	if a.isSpecial() || b.isSpecial() {
		if r, ok := specialAdd(a, b); ok {
			return r
		}
	}
	if isIntPair(a, b) {
		return Int(a.i + b.i)
	}
	return Double(a.ToDouble() + b.ToDouble())
}

func specialAdd(a, b Value) (Value, bool) {
	switch {
	case (a.kind == KindInfinity && b.kind == KindNegInfinity) || (a.kind == KindNegInfinity && b.kind == KindInfinity):
		return NaN, true
	case a.kind == KindInfinity || b.kind == KindInfinity:
		return Infinity, true
	case a.kind == KindNegInfinity || b.kind == KindNegInfinity:
		return NegInfinity, true
	case a.kind == KindNaN || b.kind == KindNaN:
		return NaN, true
	}
	return Value{}, false
}

// Sub returns a-b.
func Sub(a, b Value) Value {
	if a.isSpecial() || b.isSpecial() {
		switch {
		case (a.kind == KindInfinity && b.kind == KindInfinity) || (a.kind == KindNegInfinity && b.kind == KindNegInfinity):
			return NaN
		case a.kind == KindInfinity || b.kind == KindNegInfinity:
			return Infinity
		case a.kind == KindNegInfinity || b.kind == KindInfinity:
			return NegInfinity
		case a.kind == KindNaN || b.kind == KindNaN:
			return NaN
		}
	}
	if isIntPair(a, b) {
		return Int(a.i - b.i)
	}
	return Double(a.ToDouble() - b.ToDouble())
}

// Mul returns a*b.
func Mul(a, b Value) Value {
	if a.isSpecial() || b.isSpecial() {
		if a.kind == KindNaN || b.kind == KindNaN {
			return NaN
		}
		if a.kind == KindInfinity || a.kind == KindNegInfinity || b.kind == KindInfinity || b.kind == KindNegInfinity {
			positiveMode := a.kind == KindInfinity || b.kind == KindInfinity
			var finite Value
			if a.kind == KindInfinity || a.kind == KindNegInfinity {
				finite = b
			} else {
				finite = a
			}
			d := finite.ToDouble()
			switch {
			case d > 0:
				if positiveMode {
					return Infinity
				}
				return NegInfinity
			case d < 0:
				if positiveMode {
					return NegInfinity
				}
				return Infinity
			default:
				return NaN
			}
		}
	}
	if isIntPair(a, b) {
		return Int(a.i * b.i)
	}
	return Double(a.ToDouble() * b.ToDouble())
}

// Div returns a/b, closed over division by zero and by the infinities.
func Div(a, b Value) Value {
	if isZero(a) && isZero(b) {
		return NaN
	}
	if isZero(b) {
		if b.kind == KindInfinity || b.kind == KindNegInfinity {
			if a.kind == KindInfinity || a.kind == KindNegInfinity {
				return NaN
			}
			return Int(0)
		}
		if a.ToDouble() > 0 {
			return Infinity
		}
		return NegInfinity
	}
	if a.kind == KindNaN || b.kind == KindNaN {
		return NaN
	}
	return Double(a.ToDouble() / b.ToDouble())
}

// Mod returns a%b following floating-point remainder semantics.
func Mod(a, b Value) Value {
	if isZero(b) || a.kind == KindInfinity || a.kind == KindNegInfinity {
		return NaN
	}
	if b.kind == KindInfinity || b.kind == KindNegInfinity {
		return Double(a.ToDouble())
	}
	if a.kind == KindNaN || b.kind == KindNaN {
		return NaN
	}
	return Double(math.Mod(a.ToDouble(), b.ToDouble()))
}

// Neg returns -v.
func Neg(v Value) Value {
	switch v.kind {
	case KindInfinity:
		return NegInfinity
	case KindNegInfinity:
		return Infinity
	case KindNaN:
		return NaN
	case KindInteger:
		return Int(-v.i)
	default:
		return Double(-v.ToDouble())
	}
}

func isZero(v Value) bool {
	return Equal(v, Int(0))
}
