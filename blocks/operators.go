package blocks

import (
	"math"
	"strings"

	"github.com/chazu/maggie/bytecode"
	"github.com/chazu/maggie/compiler"
	"github.com/chazu/maggie/scratch"
	"github.com/chazu/maggie/value"
)

// registerOperators wires the arithmetic/comparison/string/logic reporters.
// None of these need a dedicated opcode (§4.2's note that "arithmetic,
// comparison, and every domain-specific operation are performed through
// EXEC"); each compiles its operand inputs and a single block function.
func registerOperators(r *compiler.Registry) {
	r.RegisterCompile("operator_add", binaryOp(value.Add))
	r.RegisterCompile("operator_subtract", binaryOp(value.Sub))
	r.RegisterCompile("operator_multiply", binaryOp(value.Mul))
	r.RegisterCompile("operator_divide", binaryOp(value.Div))
	r.RegisterCompile("operator_mod", binaryOp(value.Mod))

	r.RegisterCompile("operator_random", compileRandom)
	r.RegisterCompile("operator_round", compileRound)
	r.RegisterCompile("operator_mathop", compileMathop)

	r.RegisterCompile("operator_gt", compareOp(value.Greater))
	r.RegisterCompile("operator_lt", compareOp(value.Less))
	r.RegisterCompile("operator_equals", compareOp(value.Equal))

	r.RegisterCompile("operator_and", boolOp(func(a, b bool) bool { return a && b }))
	r.RegisterCompile("operator_or", boolOp(func(a, b bool) bool { return a || b }))
	r.RegisterCompile("operator_not", compileNot)

	r.RegisterCompile("operator_join", compileJoin)
	r.RegisterCompile("operator_letter_of", compileLetterOf)
	r.RegisterCompile("operator_length", compileLength)
	r.RegisterCompile("operator_contains", compileContains)
}

// binaryOp compiles NUM1, NUM2 in that order and calls fn against the two
// popped operands (NUM2 is on top of the stack, so it is popped first).
func binaryOp(fn func(a, b value.Value) value.Value) scratch.BlockComp {
	return func(c scratch.Compiler, b *scratch.Block) {
		compileInput(c, "NUM1")
		compileInput(c, "NUM2")
		c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
			rhs := vm.Pop()
			lhs := vm.Pop()
			vm.Push(fn(lhs, rhs))
			return 1
		})
	}
}

func compareOp(fn func(a, b value.Value) bool) scratch.BlockComp {
	return func(c scratch.Compiler, b *scratch.Block) {
		compileInput(c, "OPERAND1")
		compileInput(c, "OPERAND2")
		c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
			rhs := vm.Pop()
			lhs := vm.Pop()
			vm.Push(value.Bool(fn(lhs, rhs)))
			return 1
		})
	}
}

func boolOp(fn func(a, b bool) bool) scratch.BlockComp {
	return func(c scratch.Compiler, b *scratch.Block) {
		compileInput(c, "OPERAND1")
		compileInput(c, "OPERAND2")
		c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
			rhs := vm.Pop().ToBool()
			lhs := vm.Pop().ToBool()
			vm.Push(value.Bool(fn(lhs, rhs)))
			return 1
		})
	}
}

func compileNot(c scratch.Compiler, b *scratch.Block) {
	compileInput(c, "OPERAND")
	c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
		vm.Push(value.Bool(!vm.Pop().ToBool()))
		return 1
	})
}

func compileRandom(c scratch.Compiler, b *scratch.Block) {
	compileInput(c, "FROM")
	compileInput(c, "TO")
	c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
		to := vm.Pop()
		from := vm.Pop()
		lo, hi := from.ToDouble(), to.ToDouble()
		if lo > hi {
			lo, hi = hi, lo
		}
		target := vm.Target.(scratch.ITarget)
		n := target.Engine().Random(lo, hi)
		if isIntegerLiteral(from) && isIntegerLiteral(to) {
			vm.Push(value.Int(int64(math.Round(n))))
		} else {
			vm.Push(value.Double(n))
		}
		return 1
	})
}

// isIntegerLiteral reports whether v's own representation carries no
// fractional part, mirroring pick-random's "both bounds whole numbers ->
// integer result" rule.
func isIntegerLiteral(v value.Value) bool {
	if v.Kind() == value.KindInteger {
		return true
	}
	d := v.ToDouble()
	return d == math.Trunc(d)
}

func compileRound(c scratch.Compiler, b *scratch.Block) {
	compileInput(c, "NUM")
	c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
		vm.Push(value.Int(int64(math.Round(vm.Pop().ToDouble()))))
		return 1
	})
}

// mathopFuncs implements the OPERATOR dropdown of operator_mathop, resolved
// at compile time since the dropdown never changes at runtime.
var mathopFuncs = map[string]func(float64) float64{
	"abs":     math.Abs,
	"floor":   math.Floor,
	"ceiling": math.Ceil,
	"sqrt":    math.Sqrt,
	"sin":     func(x float64) float64 { return math.Sin(x * math.Pi / 180) },
	"cos":     func(x float64) float64 { return math.Cos(x * math.Pi / 180) },
	"tan":     func(x float64) float64 { return math.Tan(x * math.Pi / 180) },
	"asin":    func(x float64) float64 { return math.Asin(x) * 180 / math.Pi },
	"acos":    func(x float64) float64 { return math.Acos(x) * 180 / math.Pi },
	"atan":    func(x float64) float64 { return math.Atan(x) * 180 / math.Pi },
	"ln":      math.Log,
	"log":     math.Log10,
	"e ^":     math.Exp,
	"10 ^":    func(x float64) float64 { return math.Pow(10, x) },
}

func compileMathop(c scratch.Compiler, b *scratch.Block) {
	fn, ok := mathopFuncs[fieldValue(c, "OPERATOR")]
	if !ok {
		c.Warnf("operator_mathop: unknown OPERATOR %q", fieldValue(c, "OPERATOR"))
		fn = func(x float64) float64 { return x }
	}
	compileInput(c, "NUM")
	c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
		vm.Push(value.Double(fn(vm.Pop().ToDouble())))
		return 1
	})
}

func compileJoin(c scratch.Compiler, b *scratch.Block) {
	compileInput(c, "STRING1")
	compileInput(c, "STRING2")
	c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
		rhs := vm.Pop().ToString()
		lhs := vm.Pop().ToString()
		vm.Push(value.String(lhs + rhs))
		return 1
	})
}

func compileLetterOf(c scratch.Compiler, b *scratch.Block) {
	compileInput(c, "LETTER")
	compileInput(c, "STRING")
	c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
		s := []rune(vm.Pop().ToString())
		idx := int(vm.Pop().ToInt())
		if idx < 1 || idx > len(s) {
			vm.Push(value.Empty())
			return 1
		}
		vm.Push(value.String(string(s[idx-1])))
		return 1
	})
}

func compileLength(c scratch.Compiler, b *scratch.Block) {
	compileInput(c, "STRING")
	c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
		vm.Push(value.Int(int64(len([]rune(vm.Pop().ToString())))))
		return 1
	})
}

func compileContains(c scratch.Compiler, b *scratch.Block) {
	compileInput(c, "STRING1")
	compileInput(c, "STRING2")
	c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
		needle := vm.Pop().ToString()
		haystack := vm.Pop().ToString()
		vm.Push(value.Bool(strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))))
		return 1
	})
}
