// Package runtime provides the top-level FP runtime orchestrator.
package runtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"fortio.org/log"

	"github.com/thomasrohde/fp/pkg/ast"
	"github.com/thomasrohde/fp/pkg/diagnostics"
	"github.com/thomasrohde/fp/pkg/evaluator"
	"github.com/thomasrohde/fp/pkg/formatter"
	"github.com/thomasrohde/fp/pkg/intrinsic"
	"github.com/thomasrohde/fp/pkg/program"
	"github.com/thomasrohde/fp/pkg/symtab"
	"github.com/thomasrohde/fp/pkg/validator"
	"github.com/thomasrohde/fp/pkg/value"
)

// Output is the outcome of one application.
type Output struct {
	Expr  string          `json:"expr"`
	Value string          `json:"value"`
	JSON  json.RawMessage `json:"json,omitempty"`
}

// Result holds the outcome of running a program.
type Result struct {
	Outputs []Output
}

// Runtime owns a heap, a symbol table and an evaluator. Definitions made
// by one Run stay visible to later runs. A Runtime is not safe for
// concurrent use.
type Runtime struct {
	heap *value.Heap
	lib  *intrinsic.Lib
	tab  *symtab.Table
	ev   *evaluator.Evaluator

	out          io.Writer
	diagOut      io.Writer
	trace        func(event evaluator.TraceEvent)
	logUndefined bool
	maxSteps     *int64
}

// Option is a functional option for configuring the Runtime.
type Option func(*Runtime)

// WithOutput sets where application results are printed.
func WithOutput(w io.Writer) Option {
	return func(rt *Runtime) {
		rt.out = w
	}
}

// WithDiagOutput sets where definition notices, unbound-name lines and
// out debug lines are written.
func WithDiagOutput(w io.Writer) Option {
	return func(rt *Runtime) {
		rt.diagOut = w
	}
}

// WithTrace sets the trace callback.
func WithTrace(fn func(event evaluator.TraceEvent)) Option {
	return func(rt *Runtime) {
		rt.trace = fn
	}
}

// WithLogUndefined logs the reason for every undefined result at info
// level instead of verbose.
func WithLogUndefined() Option {
	return func(rt *Runtime) {
		rt.logUndefined = true
	}
}

// WithMaxSteps bounds the nodes executed by each application.
func WithMaxSteps(n int64) Option {
	return func(rt *Runtime) {
		rt.maxSteps = &n
	}
}

// New creates a Runtime with the given options. By default results and
// diagnostics are discarded.
func New(opts ...Option) *Runtime {
	rt := &Runtime{
		heap:    value.NewHeap(),
		out:     io.Discard,
		diagOut: io.Discard,
	}
	for _, opt := range opts {
		opt(rt)
	}
	rt.lib = intrinsic.New(rt.heap, rt.diagOut)
	rt.tab = symtab.New(rt.heap, rt.lib.Registry(), rt.diagOut)

	evOpts := evaluator.Options{
		Trace: rt.trace,
		Diag:  rt.diagOut,
	}
	if rt.logUndefined {
		evOpts.OnUndefined = func(d diagnostics.Diagnostic) {
			log.Infof("undefined: %s: %s", d.Code, d.Message)
		}
	}
	if rt.maxSteps != nil {
		evOpts.Budget.MaxSteps = rt.maxSteps
	}
	rt.ev = evaluator.New(rt.lib, evOpts)
	return rt
}

// Heap returns the runtime's heap.
func (rt *Runtime) Heap() *value.Heap { return rt.heap }

// Symbols returns the runtime's symbol table.
func (rt *Runtime) Symbols() *symtab.Table { return rt.tab }

// Run decodes, validates, defines and applies an FP program. The context
// is checked between applications; an interrupted run returns the outputs
// produced so far along with the error.
func (rt *Runtime) Run(ctx context.Context, source, filename string) (*Result, error) {
	prog, diags := program.Decode([]byte(source), filename, rt.tab, rt.heap)
	if len(diags) > 0 {
		return nil, &DiagnosticError{Diagnostics: diags}
	}
	defer prog.Free(rt.heap)

	vDiags := validator.Validate(prog, rt.lib.Registry())
	if validator.HasErrors(vDiags) {
		return nil, &DiagnosticError{Diagnostics: vDiags}
	}
	for _, d := range vDiags {
		log.Warnf("%s", diagnostics.FormatDiagnostic(d, true))
	}

	for i := range prog.Definitions {
		d := &prog.Definitions[i]
		if err := rt.tab.Define(d.Sym, d.Node); err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		d.Node = nil
	}

	res := &Result{}
	for i := range prog.Applications {
		a := &prog.Applications[i]
		arg := a.Arg
		a.Arg = nil
		out, err := rt.apply(ctx, a.Fn, arg)
		if err != nil {
			return res, err
		}
		res.Outputs = append(res.Outputs, out)
	}
	return res, nil
}

// Apply decodes a single function and value and applies one to the other.
func (rt *Runtime) Apply(ctx context.Context, fnSource, argSource string) (*Output, error) {
	fn, diags := program.DecodeFunction([]byte(fnSource), rt.tab, rt.heap)
	if len(diags) > 0 {
		return nil, &DiagnosticError{Diagnostics: diags}
	}
	defer ast.Free(rt.heap, fn)
	if vDiags := validator.ValidateNode(fn, rt.lib.Registry()); validator.HasErrors(vDiags) {
		return nil, &DiagnosticError{Diagnostics: vDiags}
	}
	arg, diags := program.DecodeValue([]byte(argSource), rt.heap)
	if len(diags) > 0 {
		return nil, &DiagnosticError{Diagnostics: diags}
	}
	out, err := rt.apply(ctx, fn, arg)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (rt *Runtime) apply(ctx context.Context, fn *ast.Node, arg *value.Object) (Output, error) {
	expr := formatter.Node(fn)
	log.LogVf("apply %s : %s", expr, arg)
	r, err := rt.ev.Apply(ctx, fn, arg)
	if err != nil {
		return Output{}, err
	}
	defer rt.heap.Release(r)

	out := Output{Expr: expr, Value: r.String()}
	if b, jerr := value.ToJSON(r); jerr == nil {
		out.JSON = b
	} else {
		log.Warnf("%s: %v", expr, jerr)
	}
	fmt.Fprintln(rt.out, out.Value)
	return out, nil
}

// Check decodes and validates an FP program without running it. Warnings
// are included.
func (rt *Runtime) Check(source, filename string) []diagnostics.Diagnostic {
	prog, diags := program.Decode([]byte(source), filename, rt.tab, rt.heap)
	if len(diags) > 0 {
		return diags
	}
	defer prog.Free(rt.heap)
	return validator.Validate(prog, rt.lib.Registry())
}

// Format decodes an FP program and renders it in FP notation.
func (rt *Runtime) Format(source, filename string) (string, error) {
	prog, diags := program.Decode([]byte(source), filename, rt.tab, rt.heap)
	if len(diags) > 0 {
		return "", &DiagnosticError{Diagnostics: diags}
	}
	defer prog.Free(rt.heap)
	return formatter.Format(prog), nil
}

// Close frees every definition held by the runtime.
func (rt *Runtime) Close() {
	rt.tab.Close()
}

// DiagnosticError wraps diagnostics as an error.
type DiagnosticError struct {
	Diagnostics []diagnostics.Diagnostic
}

func (e *DiagnosticError) Error() string {
	msgs := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		msgs[i] = fmt.Sprintf("%s: %s", d.Code, d.Message)
	}
	return strings.Join(msgs, "; ")
}

// Exit codes used by the fp command.
const (
	ExitOK          = 0
	ExitUsage       = 1
	ExitDiagnostics = 2
	ExitIO          = 3
	ExitRuntime     = 4
	ExitInterrupted = 130
)

// ExitCode maps an error returned by Run, Apply, Check or Format to the
// process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var de *DiagnosticError
	if errors.As(err, &de) {
		return ExitDiagnostics
	}
	var re *evaluator.RuntimeError
	if errors.As(err, &re) {
		if re.Code == diagnostics.EInterrupted {
			return ExitInterrupted
		}
		return ExitRuntime
	}
	var se *symtab.DefineError
	if errors.As(err, &se) {
		return ExitDiagnostics
	}
	return ExitRuntime
}

// Diagnostics converts err to diagnostics for display.
func Diagnostics(err error) []diagnostics.Diagnostic {
	var de *DiagnosticError
	if errors.As(err, &de) {
		return de.Diagnostics
	}
	var re *evaluator.RuntimeError
	if errors.As(err, &re) {
		return []diagnostics.Diagnostic{diagnostics.MakeDiag(re.Code, re.Message, nil, "")}
	}
	var se *symtab.DefineError
	if errors.As(err, &se) {
		return []diagnostics.Diagnostic{diagnostics.MakeDiag(diagnostics.EDefine, se.Error(), nil, "")}
	}
	return []diagnostics.Diagnostic{diagnostics.MakeDiag(diagnostics.EIO, err.Error(), nil, "")}
}
