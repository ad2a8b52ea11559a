package value

import (
	"math"
	"testing"
)

func TestToDoubleCoercion(t *testing.T) {
	cases := []struct {
		v    Value
		want float64
	}{
		{Int(5), 5},
		{Double(2.5), 2.5},
		{Bool(true), 1},
		{Bool(false), 0},
		{String("3.5"), 3.5},
		{String("  10  "), 10},
		{String("nope"), 0},
		{Infinity, math.Inf(1)},
		{NegInfinity, math.Inf(-1)},
	}
	for _, c := range cases {
		if got := c.v.ToDouble(); got != c.want && !(math.IsInf(got, 0) && got == c.want) {
			t.Errorf("%+v.ToDouble() = %v, want %v", c.v, got, c.want)
		}
	}
	if !math.IsNaN(NaN.ToDouble()) {
		t.Errorf("NaN.ToDouble() should be NaN")
	}
}

func TestStringEqualityIsCaseInsensitive(t *testing.T) {
	if !Equal(String("Hello"), String("hELLo")) {
		t.Errorf("expected case-insensitive string equality")
	}
}

func TestNumericStringEquality(t *testing.T) {
	if !Equal(String("5"), Int(5)) {
		t.Errorf("expected \"5\" == 5")
	}
	if !Equal(Int(5), String(" 5 ")) {
		t.Errorf("expected 5 == \" 5 \"")
	}
}

func TestNaNEqualityDivergesFromIEEE(t *testing.T) {
	if !Equal(NaN, NaN) {
		t.Errorf("two NaN-typed values must compare equal to each other")
	}
	if Equal(NaN, Int(0)) {
		t.Errorf("NaN must not equal a number")
	}
}

func TestInfinityArithmeticClosure(t *testing.T) {
	if got := Add(Infinity, NegInfinity); !got.IsNaN() {
		t.Errorf("Infinity + -Infinity = NaN, got %v", got)
	}
	if got := Mul(Infinity, Int(0)); !got.IsNaN() {
		t.Errorf("Infinity * 0 = NaN, got %v", got)
	}
	if got := Div(Int(5), Int(0)); !got.IsInfinity() {
		t.Errorf("5/0 = Infinity, got %v", got)
	}
	if got := Div(Int(-5), Int(0)); !got.IsNegInfinity() {
		t.Errorf("-5/0 = -Infinity, got %v", got)
	}
	if got := Div(Int(0), Int(0)); !got.IsNaN() {
		t.Errorf("0/0 = NaN, got %v", got)
	}
	if got := Mod(Int(5), Int(0)); !got.IsNaN() {
		t.Errorf("5%%0 = NaN, got %v", got)
	}
	if got := Mod(Int(5), Infinity); got.ToDouble() != 5 {
		t.Errorf("5%%Infinity = 5, got %v", got)
	}
}

func TestOrderingTotalAgainstInfinities(t *testing.T) {
	if !Less(NegInfinity, Int(0)) {
		t.Errorf("-Infinity < 0")
	}
	if !Greater(Infinity, Int(0)) {
		t.Errorf("Infinity > 0")
	}
	if Less(Infinity, Infinity) || Greater(Infinity, Infinity) {
		t.Errorf("Infinity is neither < nor > itself")
	}
}

func TestDoubleToStringRoundTrip(t *testing.T) {
	cases := []float64{1, 1.5, 10.05, 0.1, 100}
	for _, f := range cases {
		s := doubleToString(f)
		got := stringToDouble(s)
		if got != f {
			t.Errorf("doubleToString(%v) = %q, stringToDouble back = %v", f, s, got)
		}
	}
}

func TestChangeSizeByArithmeticExample(t *testing.T) {
	// End-to-end scenario 2 from the specification.
	size := Double(1.308)
	delta := Double(10.05)
	got := Add(size, delta)
	if math.Abs(got.ToDouble()-11.358) > 1e-9 {
		t.Errorf("1.308 + 10.05 = %v, want 11.358", got.ToDouble())
	}
}
