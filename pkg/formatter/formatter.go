// Package formatter renders FP trees in the language's surface notation.
package formatter

import (
	"strconv"
	"strings"

	"github.com/thomasrohde/fp/pkg/ast"
	"github.com/thomasrohde/fp/pkg/program"
)

// Binding strength of each form; a child binding looser than its context
// is parenthesized.
const (
	precCond = iota + 1
	precCompose
	precPrefix
	precAtom
)

func precedence(n *ast.Node) int {
	switch n.Tag {
	case ast.TagCond:
		return precCond
	case ast.TagCompose:
		return precCompose
	case ast.TagApplyToAll, ast.TagRInsert, ast.TagBInsert, ast.TagConst:
		return precPrefix
	}
	return precAtom
}

// Format renders a whole program: one {name body} line per definition,
// then one f : x line per application.
func Format(p *program.Program) string {
	var lines []string
	for _, d := range p.Definitions {
		lines = append(lines, "{"+d.Sym.Name+" "+Node(d.Node)+"}")
	}
	if len(p.Definitions) > 0 && len(p.Applications) > 0 {
		lines = append(lines, "")
	}
	for _, a := range p.Applications {
		lines = append(lines, Node(a.Fn)+" : "+a.Arg.String())
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// Node renders a single function.
func Node(n *ast.Node) string {
	var b strings.Builder
	write(&b, n, 0)
	return b.String()
}

func write(b *strings.Builder, n *ast.Node, ctx int) {
	if n == nil {
		b.WriteString("<nil>")
		return
	}
	if precedence(n) < ctx {
		b.WriteByte('(')
		writeBare(b, n)
		b.WriteByte(')')
		return
	}
	writeBare(b, n)
}

func writeBare(b *strings.Builder, n *ast.Node) {
	switch n.Tag {
	case ast.TagUserCall, ast.TagIntrinsic:
		if n.Sym != nil {
			b.WriteString(n.Sym.Name)
		} else {
			b.WriteString("<nil>")
		}
	case ast.TagPrim:
		b.WriteString(string(n.Op))
	case ast.TagSelect:
		b.WriteString(strconv.FormatInt(n.Index, 10))
	case ast.TagCompose:
		// right nested: f @ g @ h
		write(b, n.Left, precCompose+1)
		b.WriteString(" @ ")
		write(b, n.Right, precCompose)
	case ast.TagConstruct:
		b.WriteByte('[')
		for i, e := range n.Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			write(b, e, 0)
		}
		b.WriteByte(']')
	case ast.TagCond:
		write(b, n.Left, precCompose)
		b.WriteString(" -> ")
		write(b, n.Middle, precCompose)
		b.WriteString("; ")
		write(b, n.Right, precCond)
	case ast.TagApplyToAll:
		b.WriteByte('&')
		write(b, n.Left, precPrefix)
	case ast.TagRInsert:
		b.WriteByte('!')
		write(b, n.Left, precPrefix)
	case ast.TagBInsert:
		b.WriteByte('|')
		write(b, n.Left, precPrefix)
	case ast.TagConst:
		b.WriteByte('%')
		if n.Value != nil {
			b.WriteString(n.Value.String())
		}
	case ast.TagWhile:
		b.WriteString("(while ")
		write(b, n.Left, precPrefix)
		b.WriteByte(' ')
		write(b, n.Right, precPrefix)
		b.WriteByte(')')
	default:
		b.WriteString("<" + n.Tag.String() + ">")
	}
}
