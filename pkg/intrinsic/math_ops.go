package intrinsic

import (
	"math"

	"github.com/thomasrohde/fp/pkg/diagnostics"
	"github.com/thomasrohde/fp/pkg/primitive"
	"github.com/thomasrohde/fp/pkg/value"
)

var mathFuncs = map[Token]struct {
	name string
	fn   func(float64) float64
}{
	Sin:  {"sin", math.Sin},
	Cos:  {"cos", math.Cos},
	Tan:  {"tan", math.Tan},
	Asin: {"asin", math.Asin},
	Acos: {"acos", math.Acos},
	Atan: {"atan", math.Atan},
	Exp:  {"exp", math.Exp},
	Log:  {"log", math.Log},
}

// mathFn returns the intrinsic applying the float function tok to a number.
// Results outside the reals (NaN, ±Inf) are a domain error.
func mathFn(tok Token) func(*Lib, *value.Object) *value.Object {
	m, ok := mathFuncs[tok]
	if !ok {
		diagnostics.Fatalf("unreachable math token %d", int(tok))
	}
	return func(l *Lib, v *value.Object) *value.Object {
		if !v.IsNum() {
			return l.fail(v, diagnostics.EType, "%s: argument must be a number", m.name)
		}
		f := m.fn(v.Num())
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return l.fail(v, diagnostics.EDomain, "%s: result out of domain", m.name)
		}
		l.Heap.Release(v)
		return l.Heap.Float(f)
	}
}

// intPair truncates a numeric pair to integers. Int operands are taken
// as is; Float operands outside the int64 range fail with E_DOMAIN.
func intPair(v *value.Object) (int64, int64, string) {
	x, y, _, ok := primitive.NumPair(v)
	if !ok {
		return 0, 0, diagnostics.EType
	}
	a, aok := truncInt(x)
	b, bok := truncInt(y)
	if !aok || !bok {
		return 0, 0, diagnostics.EDomain
	}
	return a, b, ""
}

func truncInt(o *value.Object) (int64, bool) {
	if o.IsInt() {
		return o.Int(), true
	}
	f := math.Trunc(o.Float())
	if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// mod <x y> → x mod y, truncated toward zero
func modFn(l *Lib, v *value.Object) *value.Object {
	x, y, code := intPair(v)
	if code != "" {
		return l.fail(v, code, "mod: argument must be a pair of numbers in integer range")
	}
	if y == 0 {
		return l.fail(v, diagnostics.EDomain, "mod: division by zero")
	}
	l.Heap.Release(v)
	return l.Heap.Int(x % y)
}

// div <x y> → x / y as an integer, truncated toward zero
func divFn(l *Lib, v *value.Object) *value.Object {
	x, y, code := intPair(v)
	if code != "" {
		return l.fail(v, code, "div: argument must be a pair of numbers in integer range")
	}
	if y == 0 {
		return l.fail(v, diagnostics.EDomain, "div: division by zero")
	}
	l.Heap.Release(v)
	return l.Heap.Int(x / y)
}
