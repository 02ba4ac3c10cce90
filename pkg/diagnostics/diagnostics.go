// Package diagnostics defines FP diagnostic codes and types for evaluation,
// program decoding and validation errors.
package diagnostics

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Diagnostic code constants.
//
// The first five name the reasons an evaluation yields the undefined value;
// they never abort evaluation.
const (
	EType      = "E_TYPE"
	EMalformed = "E_MALFORMED"
	EDomain    = "E_DOMAIN"
	EIndex     = "E_INDEX"
	EUnbound   = "E_UNBOUND"

	EAst         = "E_AST"
	EDecode      = "E_DECODE"
	EDefine      = "E_DEFINE"
	EInterrupted = "E_INTERRUPTED"
	EIO          = "E_IO"
	EBudget      = "E_BUDGET"
)

// Span represents a location in a program file.
type Span struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Col  int    `json:"col"`
}

// Diagnostic represents a decoding, validation, or runtime diagnostic.
type Diagnostic struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Span    *Span  `json:"span,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

// Sink receives diagnostics as they are produced.
type Sink func(d Diagnostic)

// MakeDiag creates a new Diagnostic.
func MakeDiag(code, message string, span *Span, hint string) Diagnostic {
	return Diagnostic{
		Code:    code,
		Message: message,
		Span:    span,
		Hint:    hint,
	}
}

// FatalError reports a corrupt AST or symbol table. It is raised as a panic
// from deep inside evaluation and recovered at the evaluator's entry point.
type FatalError struct {
	Code    string
	Message string
}

func (e *FatalError) Error() string {
	return "fatal: " + e.Message
}

// Fatalf panics with a *FatalError carrying EAst.
func Fatalf(format string, args ...any) {
	panic(&FatalError{Code: EAst, Message: fmt.Sprintf(format, args...)})
}

// FormatDiagnostic formats a single diagnostic for display.
func FormatDiagnostic(d Diagnostic, pretty bool) string {
	if !pretty {
		b, _ := json.Marshal(d)
		return string(b)
	}
	out := fmt.Sprintf("error[%s]: %s", d.Code, d.Message)
	if d.Span != nil {
		out += fmt.Sprintf("\n  --> %s:%d:%d", d.Span.File, d.Span.Line, d.Span.Col)
	}
	if d.Hint != "" {
		out += fmt.Sprintf("\n  hint: %s", d.Hint)
	}
	return out
}

// FormatDiagnostics formats a slice of diagnostics for display.
func FormatDiagnostics(diags []Diagnostic, pretty bool) string {
	if !pretty {
		b, _ := json.Marshal(diags)
		return string(b)
	}
	parts := make([]string, len(diags))
	for i, d := range diags {
		parts[i] = FormatDiagnostic(d, true)
	}
	return strings.Join(parts, "\n\n")
}
