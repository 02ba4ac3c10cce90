package diagnostics_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/thomasrohde/fp/pkg/diagnostics"
)

func TestMakeDiag(t *testing.T) {
	span := &diagnostics.Span{File: "test.yaml", Line: 1, Col: 1}
	d := diagnostics.MakeDiag(diagnostics.EDecode, "unexpected node", span, "check syntax")

	if d.Code != diagnostics.EDecode {
		t.Errorf("got Code = %q, want %q", d.Code, diagnostics.EDecode)
	}
	if d.Message != "unexpected node" {
		t.Errorf("got Message = %q, want %q", d.Message, "unexpected node")
	}
}

func TestFormatDiagnosticPretty(t *testing.T) {
	span := &diagnostics.Span{File: "test.yaml", Line: 3, Col: 5}
	d := diagnostics.MakeDiag(diagnostics.EUnbound, "fact: undefined", span, "define it first")

	out := diagnostics.FormatDiagnostic(d, true)
	if !strings.Contains(out, "error[E_UNBOUND]") {
		t.Errorf("expected error code in output, got: %s", out)
	}
	if !strings.Contains(out, "test.yaml:3:5") {
		t.Errorf("expected location in output, got: %s", out)
	}
	if !strings.Contains(out, "hint:") {
		t.Errorf("expected hint in output, got: %s", out)
	}
}

func TestFormatDiagnosticJSON(t *testing.T) {
	d := diagnostics.MakeDiag(diagnostics.EDomain, "division by zero", nil, "")
	out := diagnostics.FormatDiagnostic(d, false)
	if !strings.Contains(out, `"code":"E_DOMAIN"`) {
		t.Errorf("expected JSON code in output, got: %s", out)
	}
	if strings.Contains(out, "span") {
		t.Errorf("nil span should be omitted, got: %s", out)
	}
}

func TestFatalf(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok {
			t.Fatalf("expected error panic, got %v", r)
		}
		var fatal *diagnostics.FatalError
		if !errors.As(err, &fatal) {
			t.Fatalf("expected *FatalError, got %T", err)
		}
		if fatal.Code != diagnostics.EAst {
			t.Errorf("got Code = %q, want %q", fatal.Code, diagnostics.EAst)
		}
		if !strings.Contains(fatal.Error(), "tag 'Q'") {
			t.Errorf("unexpected message: %s", fatal.Error())
		}
	}()
	diagnostics.Fatalf("unknown tag '%c'", 'Q')
}
