// Package evaluator applies FP combinator trees to values.
//
// Execute consumes the reference to its argument and returns a value the
// caller owns. Callers that need to keep the argument must Retain it first.
package evaluator

import (
	"context"
	"fmt"
	"io"

	"fortio.org/log"

	"github.com/thomasrohde/fp/pkg/ast"
	"github.com/thomasrohde/fp/pkg/diagnostics"
	"github.com/thomasrohde/fp/pkg/intrinsic"
	"github.com/thomasrohde/fp/pkg/primitive"
	"github.com/thomasrohde/fp/pkg/value"
)

// Options configures an Evaluator.
type Options struct {
	// Trace receives invoke, intrinsic and undefined events.
	Trace func(event TraceEvent)
	// OnUndefined receives the reason each time evaluation produces the
	// undefined value from a defined input.
	OnUndefined diagnostics.Sink
	// Diag receives the "name: undefined" line for unbound calls.
	Diag   io.Writer
	Budget Budget
}

// RuntimeError is returned by Apply when evaluation cannot complete.
type RuntimeError struct {
	Code    string
	Message string
}

func (e *RuntimeError) Error() string {
	return e.Message
}

// Evaluator executes trees against a single Heap. It is not safe for
// concurrent use.
type Evaluator struct {
	heap    *value.Heap
	lib     *intrinsic.Lib
	prim    *primitive.Lib
	opts    Options
	depth   int
	tracker BudgetTracker
}

// New creates an evaluator over the heap of lib. The evaluator installs
// itself as lib's undefined-reason sink.
func New(lib *intrinsic.Lib, opts Options) *Evaluator {
	ev := &Evaluator{
		heap: lib.Heap,
		lib:  lib,
		opts: opts,
	}
	ev.prim = &primitive.Lib{Heap: lib.Heap, OnUndefined: ev.report}
	lib.OnUndefined = ev.report
	return ev
}

// Heap returns the heap values are allocated from.
func (ev *Evaluator) Heap() *value.Heap { return ev.heap }

// Tracker returns the resource consumption of the last application.
func (ev *Evaluator) Tracker() BudgetTracker { return ev.tracker }

// Apply is the top-level entry point. It checks ctx before starting, then
// executes n on v. A corrupt tree or an exhausted budget is returned as a
// *RuntimeError; values still owned by the aborted evaluation are leaked
// to the garbage collector and remain counted by Heap.Live.
func (ev *Evaluator) Apply(ctx context.Context, n *ast.Node, v *value.Object) (r *value.Object, err error) {
	if cerr := ctx.Err(); cerr != nil {
		ev.heap.Release(v)
		return nil, &RuntimeError{
			Code:    diagnostics.EInterrupted,
			Message: fmt.Sprintf("interrupted: %v", cerr),
		}
	}
	ev.depth = 0
	ev.tracker = BudgetTracker{}
	defer func() {
		if p := recover(); p != nil {
			fe, ok := p.(*diagnostics.FatalError)
			if !ok {
				panic(p)
			}
			r = nil
			err = &RuntimeError{Code: fe.Code, Message: fe.Error()}
		}
	}()
	return ev.Execute(n, v), nil
}

// Execute applies the function n to v.
func (ev *Evaluator) Execute(n *ast.Node, v *value.Object) *value.Object {
	if n == nil {
		diagnostics.Fatalf("missing function node")
	}
	ev.step()
	h := ev.heap

	switch n.Tag {
	case ast.TagUserCall:
		if n.Sym == nil {
			diagnostics.Fatalf("user call without a symbol")
		}
		return ev.Invoke(n.Sym, v)

	case ast.TagIntrinsic:
		if n.Sym == nil || !n.Sym.IsBuiltin() {
			diagnostics.Fatalf("intrinsic call without a builtin symbol")
		}
		ev.emit(TraceIntrinsic, n.Sym.Name, "")
		return ev.lib.Call(n.Sym.Token, v)

	case ast.TagPrim:
		return ev.prim.Apply(n.Op, v)

	case ast.TagSelect:
		return ev.selectElem(n.Index, v)

	case ast.TagCompose:
		return ev.Execute(n.Left, ev.Execute(n.Right, v))

	case ast.TagConstruct:
		if len(n.Elems) == 0 {
			h.Release(v)
			return h.EmptyList()
		}
		results := make([]*value.Object, 0, len(n.Elems))
		for _, f := range n.Elems {
			r := ev.Execute(f, h.Retain(v))
			if r.IsUndefined() {
				ev.releaseAll(results)
				h.Release(v)
				return r
			}
			results = append(results, r)
		}
		h.Release(v)
		return h.List(results...)

	case ast.TagCond:
		ok, b, undef := ev.test(n.Left, v)
		if !ok {
			h.Release(v)
			return undef
		}
		if b {
			return ev.Execute(n.Middle, v)
		}
		return ev.Execute(n.Right, v)

	case ast.TagApplyToAll:
		if !v.IsList() {
			return ev.fail(v, diagnostics.EType, "&: argument must be a list")
		}
		if v.IsEmpty() {
			return v
		}
		elems := v.Elements()
		results := make([]*value.Object, 0, len(elems))
		for _, e := range elems {
			r := ev.Execute(n.Left, h.Retain(e))
			if r.IsUndefined() {
				ev.releaseAll(results)
				h.Release(v)
				return r
			}
			results = append(results, r)
		}
		h.Release(v)
		return h.List(results...)

	case ast.TagConst:
		if n.Value == nil {
			diagnostics.Fatalf("constant node without a value")
		}
		if v.IsUndefined() {
			return v
		}
		h.Release(v)
		return h.Retain(n.Value)

	case ast.TagWhile:
		for {
			if v.IsUndefined() {
				return v
			}
			ok, b, undef := ev.test(n.Left, v)
			if !ok {
				h.Release(v)
				return undef
			}
			if !b {
				return v
			}
			v = ev.Execute(n.Right, v)
		}

	case ast.TagRInsert:
		return ev.rinsert(n.Left, v)

	case ast.TagBInsert:
		return ev.binsert(n.Left, v)
	}

	diagnostics.Fatalf("unknown node tag %v", n.Tag)
	return nil
}

// Invoke applies the function bound to sym. An unbound symbol yields the
// undefined value after printing "name: undefined".
func (ev *Evaluator) Invoke(sym *ast.Symbol, v *value.Object) *value.Object {
	switch {
	case sym.IsUserDefined():
		ev.emit(TraceInvoke, sym.Name, "")
		ev.enter()
		r := ev.Execute(sym.Def, v)
		ev.depth--
		return r
	case sym.IsBuiltin():
		ev.emit(TraceIntrinsic, sym.Name, "")
		return ev.lib.Call(sym.Token, v)
	}
	if ev.opts.Diag != nil {
		fmt.Fprintf(ev.opts.Diag, "%s: undefined\n", sym.Name)
	}
	return ev.fail(v, diagnostics.EUnbound, "%s: undefined", sym.Name)
}

// test runs the predicate p on a second reference to v. When p yields a
// boolean, ok is set and b holds it; otherwise undef is the value to
// return in place of the combinator's result.
func (ev *Evaluator) test(p *ast.Node, v *value.Object) (ok, b bool, undef *value.Object) {
	r := ev.Execute(p, ev.heap.Retain(v))
	if r.IsBool() {
		b = r.Bool()
		ev.heap.Release(r)
		return true, b, nil
	}
	if r.IsUndefined() {
		return false, false, r
	}
	return false, false, ev.fail(r, diagnostics.EType, "predicate yielded %s, not a boolean", r.Kind())
}

func (ev *Evaluator) selectElem(n int64, v *value.Object) *value.Object {
	if !v.IsList() || v.IsEmpty() {
		return ev.fail(v, diagnostics.EMalformed, "%d: argument must be a non-empty list", n)
	}
	if n == 0 {
		return ev.fail(v, diagnostics.EIndex, "selector 0")
	}
	x := n
	if x < 0 {
		x += int64(v.Len()) + 1
		if x < 1 {
			return ev.fail(v, diagnostics.EIndex, "%d: index out of range", n)
		}
	}
	q := v
	for ; x > 1 && q != nil; x-- {
		q = q.Cdr()
	}
	if q == nil || q.Car() == nil {
		return ev.fail(v, diagnostics.EIndex, "%d: index out of range", n)
	}
	r := ev.heap.Retain(q.Car())
	ev.heap.Release(v)
	return r
}

// identity returns the value an insert over <> yields for op.
func (ev *Evaluator) identity(op *ast.Node) *value.Object {
	if op == nil {
		diagnostics.Fatalf("insert without an operator")
	}
	switch op.Tag {
	case ast.TagPrim:
		if r, ok := primitive.Identity(ev.heap, op.Op); ok {
			return r
		}
	case ast.TagIntrinsic:
		if op.Sym == nil {
			diagnostics.Fatalf("intrinsic call without a builtin symbol")
		}
		if r, ok := intrinsic.Identity(ev.heap, op.Sym.Token); ok {
			return r
		}
	}
	return ev.fail(nil, diagnostics.EDomain, "insert over <> with an operator that has no identity")
}

// rinsert reduces right to left: !f:<x1 ... xn> = f:<x1, !f:<x2 ... xn>>.
// It walks the elements from the end, applying f in the same order as the
// recursive definition.
func (ev *Evaluator) rinsert(op *ast.Node, v *value.Object) *value.Object {
	h := ev.heap
	if !v.IsList() {
		return ev.fail(v, diagnostics.EType, "!: argument must be a list")
	}
	if v.IsEmpty() {
		h.Release(v)
		return ev.identity(op)
	}
	elems := v.Elements()
	n := len(elems)
	if n == 1 {
		r := h.Retain(elems[0])
		h.Release(v)
		return r
	}
	acc := ev.Execute(op, h.List(h.Retain(elems[n-2]), h.Retain(elems[n-1])))
	for i := n - 3; i >= 0 && !acc.IsUndefined(); i-- {
		acc = ev.Execute(op, h.List(h.Retain(elems[i]), acc))
	}
	h.Release(v)
	return acc
}

// binsert reduces by balanced halving: the first half takes n/2 elements,
// the second half the rest.
func (ev *Evaluator) binsert(op *ast.Node, v *value.Object) *value.Object {
	if !v.IsList() {
		return ev.fail(v, diagnostics.EType, "|: argument must be a list")
	}
	if v.IsEmpty() {
		ev.heap.Release(v)
		return ev.identity(op)
	}
	r := ev.reduceHalves(op, v.Elements())
	ev.heap.Release(v)
	return r
}

func (ev *Evaluator) reduceHalves(op *ast.Node, elems []*value.Object) *value.Object {
	h := ev.heap
	switch len(elems) {
	case 1:
		return h.Retain(elems[0])
	case 2:
		return ev.Execute(op, h.List(h.Retain(elems[0]), h.Retain(elems[1])))
	}
	mid := len(elems) / 2
	left := ev.reduceHalves(op, elems[:mid])
	if left.IsUndefined() {
		return left
	}
	right := ev.reduceHalves(op, elems[mid:])
	if right.IsUndefined() {
		h.Release(left)
		return right
	}
	return ev.Execute(op, h.List(left, right))
}

func (ev *Evaluator) releaseAll(objs []*value.Object) {
	for _, o := range objs {
		ev.heap.Release(o)
	}
}

// fail releases v, reports why and returns a fresh undefined value.
func (ev *Evaluator) fail(v *value.Object, code, format string, args ...any) *value.Object {
	ev.heap.Release(v)
	ev.report(diagnostics.MakeDiag(code, fmt.Sprintf(format, args...), nil, ""))
	return ev.heap.Undefined()
}

func (ev *Evaluator) report(d diagnostics.Diagnostic) {
	log.LogVf("undefined: %s: %s", d.Code, d.Message)
	ev.emit(TraceUndefined, d.Message, d.Code)
	if ev.opts.OnUndefined != nil {
		ev.opts.OnUndefined(d)
	}
}
