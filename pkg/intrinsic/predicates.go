package intrinsic

import (
	"github.com/thomasrohde/fp/pkg/diagnostics"
	"github.com/thomasrohde/fp/pkg/value"
)

// atom x → T for scalars, F for lists; ? stays ?
func atomFn(l *Lib, v *value.Object) *value.Object {
	if v.IsUndefined() {
		return v
	}
	atom := v.IsAtom()
	l.Heap.Release(v)
	return l.Heap.Bool(atom)
}

// null x → T when x is <>
func nullFn(l *Lib, v *value.Object) *value.Object {
	if !v.IsList() {
		return l.fail(v, diagnostics.EType, "null: argument must be a list")
	}
	empty := v.IsEmpty()
	l.Heap.Release(v)
	return l.Heap.Bool(empty)
}

// eq <x y> → T when x and y are structurally equal
func eqFn(l *Lib, v *value.Object) *value.Object {
	return l.primitive().Equal(v, false)
}

var boolNames = map[Token]string{And: "and", Or: "or", Xor: "xor"}

// boolFn returns the binary logical intrinsic for tok.
func boolFn(tok Token) func(*Lib, *value.Object) *value.Object {
	name := boolNames[tok]
	return func(l *Lib, v *value.Object) *value.Object {
		if !v.IsPair() {
			return l.fail(v, diagnostics.EMalformed, "%s: argument must be a pair", name)
		}
		p, q := v.Car(), v.Second()
		if !p.IsBool() || !q.IsBool() {
			return l.fail(v, diagnostics.EType, "%s: operands must be booleans", name)
		}
		var r bool
		switch tok {
		case And:
			r = p.Bool() && q.Bool()
		case Or:
			r = p.Bool() || q.Bool()
		case Xor:
			r = p.Bool() != q.Bool()
		default:
			diagnostics.Fatalf("illegal logical operator token %d", int(tok))
		}
		l.Heap.Release(v)
		return l.Heap.Bool(r)
	}
}

// not b → the negation of a boolean
func notFn(l *Lib, v *value.Object) *value.Object {
	if !v.IsBool() {
		return l.fail(v, diagnostics.EType, "not: argument must be a boolean")
	}
	r := !v.Bool()
	l.Heap.Release(v)
	return l.Heap.Bool(r)
}

// Identity returns the identity element of the binary intrinsic tok for
// reductions over the empty list.
func Identity(h *value.Heap, tok Token) (*value.Object, bool) {
	switch tok {
	case And:
		return h.Bool(true), true
	case Or, Xor:
		return h.Bool(false), true
	}
	return nil, false
}
