// Package primitive implements FP's binary operators: arithmetic,
// relational comparison and structural equality over a pair of values.
package primitive

import (
	"fmt"

	"github.com/thomasrohde/fp/pkg/diagnostics"
	"github.com/thomasrohde/fp/pkg/value"
)

// Op is a primitive operator code.
type Op string

const (
	OpAdd Op = "+"
	OpSub Op = "-"
	OpMul Op = "*"
	OpDiv Op = "/"
	OpLt  Op = "<"
	OpGt  Op = ">"
	OpLe  Op = "<="
	OpGe  Op = ">="
	OpEq  Op = "="
	OpNe  Op = "!="
)

var ops = map[Op]bool{
	OpAdd: true, OpSub: true, OpMul: true, OpDiv: true,
	OpLt: true, OpGt: true, OpLe: true, OpGe: true,
	OpEq: true, OpNe: true,
}

// LookupOp returns the operator spelled s.
func LookupOp(s string) (Op, bool) {
	op := Op(s)
	return op, ops[op]
}

// Valid reports whether op is a known operator.
func (op Op) Valid() bool {
	return ops[op]
}

// Lib applies primitive operators to values allocated from Heap.
type Lib struct {
	Heap *value.Heap

	// OnUndefined, when set, receives the reason every time an operator
	// yields the undefined value.
	OnUndefined diagnostics.Sink
}

// New returns a Lib over h.
func New(h *value.Heap) *Lib {
	return &Lib{Heap: h}
}

// NumPair checks that v is a pair of numbers. It returns the two operands
// (borrowed) and whether the result of arithmetic on them is a Float.
func NumPair(v *value.Object) (x, y *value.Object, isFloat bool, ok bool) {
	if !v.IsPair() {
		return nil, nil, false, false
	}
	x, y = v.Car(), v.Second()
	if !x.IsNum() || !y.IsNum() {
		return nil, nil, false, false
	}
	return x, y, x.IsFloat() || y.IsFloat(), true
}

// Apply applies op to the pair v, consuming v. Operand errors yield the
// undefined value. An unknown op is fatal.
func (l *Lib) Apply(op Op, v *value.Object) *value.Object {
	h := l.Heap
	switch op {
	case OpEq:
		return l.Equal(v, false)
	case OpNe:
		return l.Equal(v, true)
	}
	if !ops[op] {
		diagnostics.Fatalf("unknown primitive operator %q", string(op))
	}

	x, y, isFloat, ok := NumPair(v)
	if !ok {
		return l.operandError(op, v)
	}

	var r *value.Object
	switch op {
	case OpAdd:
		if isFloat {
			r = h.Float(x.Num() + y.Num())
		} else {
			r = h.Int(x.Int() + y.Int())
		}
	case OpSub:
		if isFloat {
			r = h.Float(x.Num() - y.Num())
		} else {
			r = h.Int(x.Int() - y.Int())
		}
	case OpMul:
		if isFloat {
			r = h.Float(x.Num() * y.Num())
		} else {
			r = h.Int(x.Int() * y.Int())
		}
	case OpDiv:
		d := y.Num()
		if d == 0 {
			return l.Fail(v, diagnostics.EDomain, "/: division by zero")
		}
		r = h.Float(x.Num() / d)
	case OpLt:
		r = h.Bool(x.Num() < y.Num())
	case OpGt:
		r = h.Bool(x.Num() > y.Num())
	case OpLe:
		r = h.Bool(x.Num() <= y.Num())
	case OpGe:
		r = h.Bool(x.Num() >= y.Num())
	}
	h.Release(v)
	return r
}

// Equal compares the two elements of the pair v structurally, consuming v.
// With negate set it answers inequality instead.
func (l *Lib) Equal(v *value.Object, negate bool) *value.Object {
	if !v.IsPair() {
		name := "="
		if negate {
			name = "!="
		}
		return l.Fail(v, diagnostics.EMalformed, "%s: argument must be a pair", name)
	}
	same := value.Same(v.Car(), v.Second())
	l.Heap.Release(v)
	return l.Heap.Bool(same != negate)
}

func (l *Lib) operandError(op Op, v *value.Object) *value.Object {
	if !v.IsPair() {
		return l.Fail(v, diagnostics.EMalformed, "%s: argument must be a pair", op)
	}
	return l.Fail(v, diagnostics.EType, "%s: operands must be numbers", op)
}

// Fail releases v, reports the reason and returns a new undefined value.
func (l *Lib) Fail(v *value.Object, code, format string, args ...any) *value.Object {
	l.Heap.Release(v)
	if l.OnUndefined != nil {
		l.OnUndefined(diagnostics.MakeDiag(code, fmt.Sprintf(format, args...), nil, ""))
	}
	return l.Heap.Undefined()
}

// Identity returns the identity element of op for reductions over the
// empty list: 0 for + and -, 1 for * and /.
func Identity(h *value.Heap, op Op) (*value.Object, bool) {
	switch op {
	case OpAdd, OpSub:
		return h.Int(0), true
	case OpMul, OpDiv:
		return h.Int(1), true
	}
	return nil, false
}
