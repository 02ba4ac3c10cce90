package intrinsic

import (
	"fmt"
	"io"

	"github.com/thomasrohde/fp/pkg/diagnostics"
	"github.com/thomasrohde/fp/pkg/primitive"
	"github.com/thomasrohde/fp/pkg/value"
)

// Intrinsic tokens.
const (
	Length Token = iota + 1
	ID
	Out
	Hd
	Tl
	Iota
	Pick
	Last
	Front
	Distl
	Distr
	Apndl
	Apndr
	Trans
	Reverse
	Rotl
	Rotr
	Concat
	Sin
	Cos
	Tan
	Asin
	Acos
	Atan
	Exp
	Log
	Mod
	Div
	Pair
	Split
	Atom
	Null
	Eq
	And
	Or
	Xor
	Not
)

// RegisterDefaults adds all standard intrinsics.
func RegisterDefaults(r *Registry) {
	// Structural
	r.Register(Fn{Name: "id", Token: ID, Execute: idFn})
	r.Register(Fn{Name: "out", Token: Out, Execute: outFn})

	// List ops
	r.Register(Fn{Name: "length", Token: Length, Execute: lengthFn})
	r.Register(Fn{Name: "hd", Token: Hd, Execute: hdFn})
	r.Register(Fn{Name: "first", Token: Hd, Execute: hdFn})
	r.Register(Fn{Name: "tl", Token: Tl, Execute: tlFn})
	r.Register(Fn{Name: "iota", Token: Iota, Execute: iotaFn})
	r.Register(Fn{Name: "pick", Token: Pick, Execute: pickFn})
	r.Register(Fn{Name: "last", Token: Last, Execute: lastFn})
	r.Register(Fn{Name: "front", Token: Front, Execute: frontFn})
	r.Register(Fn{Name: "tlr", Token: Front, Execute: frontFn})
	r.Register(Fn{Name: "distl", Token: Distl, Execute: distlFn})
	r.Register(Fn{Name: "distr", Token: Distr, Execute: distrFn})
	r.Register(Fn{Name: "apndl", Token: Apndl, Execute: apndlFn})
	r.Register(Fn{Name: "apndr", Token: Apndr, Execute: apndrFn})
	r.Register(Fn{Name: "trans", Token: Trans, Execute: transFn})
	r.Register(Fn{Name: "reverse", Token: Reverse, Execute: reverseFn})
	r.Register(Fn{Name: "rotl", Token: Rotl, Execute: rotlFn})
	r.Register(Fn{Name: "rotr", Token: Rotr, Execute: rotrFn})
	r.Register(Fn{Name: "concat", Token: Concat, Execute: concatFn})
	r.Register(Fn{Name: "pair", Token: Pair, Execute: pairFn})
	r.Register(Fn{Name: "split", Token: Split, Execute: splitFn})

	// Math
	r.Register(Fn{Name: "sin", Token: Sin, Execute: mathFn(Sin)})
	r.Register(Fn{Name: "cos", Token: Cos, Execute: mathFn(Cos)})
	r.Register(Fn{Name: "tan", Token: Tan, Execute: mathFn(Tan)})
	r.Register(Fn{Name: "asin", Token: Asin, Execute: mathFn(Asin)})
	r.Register(Fn{Name: "acos", Token: Acos, Execute: mathFn(Acos)})
	r.Register(Fn{Name: "atan", Token: Atan, Execute: mathFn(Atan)})
	r.Register(Fn{Name: "exp", Token: Exp, Execute: mathFn(Exp)})
	r.Register(Fn{Name: "log", Token: Log, Execute: mathFn(Log)})
	r.Register(Fn{Name: "mod", Token: Mod, Execute: modFn})
	r.Register(Fn{Name: "div", Token: Div, Execute: divFn})

	// Predicates and logic
	r.Register(Fn{Name: "atom", Token: Atom, Execute: atomFn})
	r.Register(Fn{Name: "null", Token: Null, Execute: nullFn})
	r.Register(Fn{Name: "eq", Token: Eq, Execute: eqFn})
	r.Register(Fn{Name: "and", Token: And, Execute: boolFn(And)})
	r.Register(Fn{Name: "or", Token: Or, Execute: boolFn(Or)})
	r.Register(Fn{Name: "xor", Token: Xor, Execute: boolFn(Xor)})
	r.Register(Fn{Name: "not", Token: Not, Execute: notFn})
}

// Lib evaluates intrinsics against values allocated from Heap.
type Lib struct {
	Heap *value.Heap

	// Out receives the debug lines written by out. Nil discards them.
	Out io.Writer

	// OnUndefined, when set, receives the reason every time an intrinsic
	// yields the undefined value.
	OnUndefined diagnostics.Sink

	reg *Registry
}

// New returns a Lib over h using the default registry.
func New(h *value.Heap, out io.Writer) *Lib {
	return &Lib{Heap: h, Out: out, reg: Default()}
}

// Registry returns the registry the Lib dispatches through.
func (l *Lib) Registry() *Registry {
	return l.reg
}

// Call runs the intrinsic identified by tok on v, consuming v. An unknown
// token means the symbol table is corrupt and is fatal.
func (l *Lib) Call(tok Token, v *value.Object) *value.Object {
	fn := l.reg.ByToken(tok)
	if fn == nil {
		diagnostics.Fatalf("unrecognized intrinsic token %d", int(tok))
	}
	return fn.Execute(l, v)
}

func (l *Lib) primitive() *primitive.Lib {
	return &primitive.Lib{Heap: l.Heap, OnUndefined: l.OnUndefined}
}

// fail releases v, reports why and returns a new undefined value.
func (l *Lib) fail(v *value.Object, code, format string, args ...any) *value.Object {
	l.Heap.Release(v)
	if l.OnUndefined != nil {
		l.OnUndefined(diagnostics.MakeDiag(code, fmt.Sprintf(format, args...), nil, ""))
	}
	return l.Heap.Undefined()
}

// collect retains each borrowed element and builds a new list of them.
func (l *Lib) collect(elems []*value.Object) *value.Object {
	owned := make([]*value.Object, len(elems))
	for i, e := range elems {
		owned[i] = l.Heap.Retain(e)
	}
	return l.Heap.List(owned...)
}

func idFn(_ *Lib, v *value.Object) *value.Object {
	return v
}

func outFn(l *Lib, v *value.Object) *value.Object {
	if l.Out != nil {
		fmt.Fprintf(l.Out, "out: %s\n", v)
	}
	return v
}
