// Package validator checks decoded FP trees for structural corruption and
// for references that cannot resolve.
package validator

import (
	"fmt"

	"github.com/thomasrohde/fp/pkg/ast"
	"github.com/thomasrohde/fp/pkg/diagnostics"
	"github.com/thomasrohde/fp/pkg/intrinsic"
	"github.com/thomasrohde/fp/pkg/program"
)

type validator struct {
	reg     *intrinsic.Registry
	defined map[string]bool
	diags   []diagnostics.Diagnostic
}

// Validate checks every definition and application of p. Calls to names
// with no definition in p or the symbol table are reported as E_UNBOUND;
// evaluation tolerates them.
func Validate(p *program.Program, reg *intrinsic.Registry) []diagnostics.Diagnostic {
	v := &validator{reg: reg, defined: make(map[string]bool)}
	for _, d := range p.Definitions {
		v.defined[d.Sym.Name] = true
	}
	seen := make(map[string]bool)
	for _, d := range p.Definitions {
		span := d.Span
		if d.Sym.IsBuiltin() {
			v.add(diagnostics.EDefine, &span, "cannot redefine builtin %s", d.Sym.Name)
		}
		if seen[d.Sym.Name] {
			v.add(diagnostics.EDefine, &span, "%s defined more than once", d.Sym.Name)
		}
		seen[d.Sym.Name] = true
		v.node(d.Node, &span)
	}
	for _, a := range p.Applications {
		span := a.Span
		v.node(a.Fn, &span)
		if a.Arg == nil {
			v.add(diagnostics.EAst, &span, "application without an argument")
		}
	}
	return v.diags
}

// ValidateNode checks a single tree. Unbound names are not reported.
func ValidateNode(n *ast.Node, reg *intrinsic.Registry) []diagnostics.Diagnostic {
	v := &validator{reg: reg}
	v.node(n, nil)
	return v.diags
}

// HasErrors reports whether diags contain anything that must stop
// evaluation. Unbound references and selectors that always yield ? are
// warnings only.
func HasErrors(diags []diagnostics.Diagnostic) bool {
	for _, d := range diags {
		switch d.Code {
		case diagnostics.EUnbound, diagnostics.EIndex:
		default:
			return true
		}
	}
	return false
}

func (v *validator) add(code string, span *diagnostics.Span, format string, args ...any) {
	v.diags = append(v.diags, diagnostics.MakeDiag(code, fmt.Sprintf(format, args...), span, ""))
}

func (v *validator) node(n *ast.Node, parent *diagnostics.Span) {
	if n == nil {
		v.add(diagnostics.EAst, parent, "missing function")
		return
	}
	span := n.Span
	if span == nil {
		span = parent
	}
	need := func(children ...*ast.Node) {
		for _, c := range children {
			v.node(c, span)
		}
	}

	switch n.Tag {
	case ast.TagUserCall:
		if n.Sym == nil {
			v.add(diagnostics.EAst, span, "call without a symbol")
			return
		}
		if v.defined != nil && !n.Sym.IsUserDefined() && !v.defined[n.Sym.Name] {
			v.add(diagnostics.EUnbound, span, "%s is not defined", n.Sym.Name)
		}
	case ast.TagIntrinsic:
		if n.Sym == nil || !n.Sym.IsBuiltin() {
			v.add(diagnostics.EAst, span, "intrinsic call without a builtin symbol")
			return
		}
		if v.reg.ByToken(n.Sym.Token) == nil {
			v.add(diagnostics.EAst, span, "%s has unknown intrinsic token %d", n.Sym.Name, int(n.Sym.Token))
		}
	case ast.TagPrim:
		if !n.Op.Valid() {
			v.add(diagnostics.EAst, span, "unknown operator %q", string(n.Op))
		}
	case ast.TagSelect:
		if n.Index == 0 {
			v.add(diagnostics.EIndex, span, "selector 0 always yields ?")
		}
	case ast.TagCompose, ast.TagWhile:
		need(n.Left, n.Right)
	case ast.TagConstruct:
		need(n.Elems...)
	case ast.TagCond:
		need(n.Left, n.Middle, n.Right)
	case ast.TagApplyToAll, ast.TagRInsert, ast.TagBInsert:
		need(n.Left)
	case ast.TagConst:
		if n.Value == nil {
			v.add(diagnostics.EAst, span, "constant without a value")
		}
	default:
		v.add(diagnostics.EAst, span, "unknown node tag %v", n.Tag)
	}
}
