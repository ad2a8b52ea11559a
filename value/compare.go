package value

// Equal implements Scratch value equality (§3, §9): numeric-vs-string
// comparisons coerce to double, string comparison is Unicode
// case-insensitive, and — diverging from IEEE — two NaN-typed values
// compare equal to each other (but to nothing else).
func Equal(a, b Value) bool {
	if a.kind == b.kind {
		switch a.kind {
		case KindInteger:
			return a.i == b.i
		case KindDouble:
			return a.d == b.d
		case KindBool:
			return a.b == b.b
		case KindString:
			return stringsEqualFold(a.s, b.s)
		case KindInfinity:
			return true
		case KindNegInfinity:
			return true
		case KindNaN:
			return true
		}
		return false
	}

	if a.kind == KindNaN || b.kind == KindNaN {
		return false
	}

	switch {
	case a.IsNumber() || b.IsNumber():
		return a.ToDouble() == b.ToDouble()
	case a.IsBool() || b.IsBool():
		return a.ToBool() == b.ToBool()
	case a.IsString() || b.IsString():
		return stringsEqualFold(a.ToString(), b.ToString())
	default:
		return false
	}
}

// Less reports whether a < b.
func Less(a, b Value) bool {
	if a.isSpecial() || b.isSpecial() {
		switch {
		case a.kind == KindInfinity:
			return false
		case a.kind == KindNegInfinity:
			return b.kind != KindNegInfinity
		case b.kind == KindInfinity:
			return a.kind != KindInfinity
		case b.kind == KindNegInfinity:
			return false
		case a.kind == KindNaN || b.kind == KindNaN:
			return false
		}
	}
	if isIntPair(a, b) {
		return a.i < b.i
	}
	return a.ToDouble() < b.ToDouble()
}

// Greater reports whether a > b.
func Greater(a, b Value) bool {
	if a.isSpecial() || b.isSpecial() {
		switch {
		case a.kind == KindInfinity:
			return b.kind != KindInfinity
		case a.kind == KindNegInfinity:
			return false
		case b.kind == KindInfinity:
			return false
		case b.kind == KindNegInfinity:
			return a.kind != KindNegInfinity
		case a.kind == KindNaN || b.kind == KindNaN:
			return false
		}
	}
	if isIntPair(a, b) {
		return a.i > b.i
	}
	return a.ToDouble() > b.ToDouble()
}

// LessOrEqual reports whether a <= b.
func LessOrEqual(a, b Value) bool { return Less(a, b) || Equal(a, b) }

// GreaterOrEqual reports whether a >= b.
func GreaterOrEqual(a, b Value) bool { return Greater(a, b) || Equal(a, b) }
