package validator_test

import (
	"strings"
	"testing"

	"github.com/thomasrohde/fp/pkg/ast"
	"github.com/thomasrohde/fp/pkg/diagnostics"
	"github.com/thomasrohde/fp/pkg/intrinsic"
	"github.com/thomasrohde/fp/pkg/primitive"
	"github.com/thomasrohde/fp/pkg/program"
	"github.com/thomasrohde/fp/pkg/symtab"
	"github.com/thomasrohde/fp/pkg/validator"
	"github.com/thomasrohde/fp/pkg/value"
)

// mustDecodeAndValidate decodes source and validates it, returning
// diagnostics from validation only.
func mustDecodeAndValidate(t *testing.T, source string) []diagnostics.Diagnostic {
	t.Helper()
	h := value.NewHeap()
	tab := symtab.New(h, intrinsic.Default(), nil)
	prog, decodeErrs := program.Decode([]byte(source), "test.yaml", tab, h)
	if len(decodeErrs) > 0 {
		t.Fatalf("unexpected decode error: %s", decodeErrs[0].Message)
	}
	return validator.Validate(prog, intrinsic.Default())
}

func assertNoDiags(t *testing.T, diags []diagnostics.Diagnostic) {
	t.Helper()
	if len(diags) != 0 {
		var msgs []string
		for _, d := range diags {
			msgs = append(msgs, d.Code+": "+d.Message)
		}
		t.Errorf("expected no diagnostics, got %d:\n  %s", len(diags), strings.Join(msgs, "\n  "))
	}
}

func assertHasCode(t *testing.T, diags []diagnostics.Diagnostic, code string) {
	t.Helper()
	for _, d := range diags {
		if d.Code == code {
			return
		}
	}
	var codes []string
	for _, d := range diags {
		codes = append(codes, d.Code)
	}
	t.Errorf("expected diagnostic code %s, got codes: %v", code, codes)
}

// ===== Valid programs =====

func TestValid_Definitions(t *testing.T) {
	diags := mustDecodeAndValidate(t, `
define:
  sum: {rinsert: "+"}
  avg: {compose: ["/", {construct: [sum, length]}]}
apply:
  - {fn: avg, to: [1, 2, 3]}
`)
	assertNoDiags(t, diags)
}

func TestValid_ForwardReference(t *testing.T) {
	diags := mustDecodeAndValidate(t, `
define:
  f: {compose: [g, tl]}
  g: hd
`)
	assertNoDiags(t, diags)
}

func TestValid_Recursion(t *testing.T) {
	diags := mustDecodeAndValidate(t, `
define:
  len: {cond: ["null", {const: 0}, {compose: ["+", {construct: [{const: 1}, {compose: [len, tl]}]}]}]}
`)
	assertNoDiags(t, diags)
}

// ===== Warnings =====

func TestWarn_Unbound(t *testing.T) {
	diags := mustDecodeAndValidate(t, `
apply:
  - {fn: nosuch, to: 1}
`)
	assertHasCode(t, diags, diagnostics.EUnbound)
	if validator.HasErrors(diags) {
		t.Error("unbound names must not stop evaluation")
	}
	if diags[0].Span == nil || diags[0].Span.Line != 3 {
		t.Errorf("span = %+v, want line 3", diags[0].Span)
	}
}

func TestWarn_SelectorZero(t *testing.T) {
	diags := mustDecodeAndValidate(t, `
define:
  f: {compose: [0, tl]}
`)
	assertHasCode(t, diags, diagnostics.EIndex)
	if validator.HasErrors(diags) {
		t.Error("selector 0 must not stop evaluation")
	}
}

// ===== Errors =====

func TestErr_RedefineBuiltin(t *testing.T) {
	diags := mustDecodeAndValidate(t, `
define:
  hd: tl
`)
	assertHasCode(t, diags, diagnostics.EDefine)
	if !validator.HasErrors(diags) {
		t.Error("redefining a builtin is an error")
	}
}

func TestErr_CorruptTrees(t *testing.T) {
	reg := intrinsic.Default()
	tests := []struct {
		name string
		node *ast.Node
	}{
		{"nil", nil},
		{"unknown tag", &ast.Node{Tag: ast.Tag(99)}},
		{"missing compose child", ast.Compose(ast.Select(1), nil)},
		{"missing cond branch", ast.Cond(ast.Select(1), ast.Select(2), nil)},
		{"missing insert operator", ast.RInsert(nil)},
		{"bad operator", ast.Prim(primitive.Op("%"))},
		{"const without value", &ast.Node{Tag: ast.TagConst}},
		{"intrinsic without symbol", &ast.Node{Tag: ast.TagIntrinsic}},
		{"bad token", ast.Call(&ast.Symbol{Name: "zz", State: ast.Builtin, Token: intrinsic.Token(900)})},
		{"nested", ast.Construct(ast.Select(1), ast.ApplyToAll(&ast.Node{Tag: ast.TagInvalid}))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := validator.ValidateNode(tt.node, reg)
			assertHasCode(t, diags, diagnostics.EAst)
			if !validator.HasErrors(diags) {
				t.Error("corrupt tree must be an error")
			}
		})
	}
}

func TestValidateNodeIgnoresUnbound(t *testing.T) {
	diags := validator.ValidateNode(ast.Call(&ast.Symbol{Name: "later"}), intrinsic.Default())
	assertNoDiags(t, diags)
}
