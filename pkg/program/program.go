// Package program decodes FP programs written as YAML documents.
//
// A program has two optional sections:
//
//	define:
//	  sum: {rinsert: "+"}
//	apply:
//	  - {fn: sum, to: [1, 2, 3]}
//
// Function nodes are a bare name or operator, a bare integer selector, or a
// single-key mapping naming a combinator. Values are YAML scalars, sequences
// for lists and "?" for the undefined value.
package program

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/thomasrohde/fp/pkg/ast"
	"github.com/thomasrohde/fp/pkg/diagnostics"
	"github.com/thomasrohde/fp/pkg/primitive"
	"github.com/thomasrohde/fp/pkg/value"
)

// Resolver maps names to symbols, creating unbound ones as needed.
type Resolver interface {
	Lookup(name string) *ast.Symbol
}

// Definition binds Sym to Node.
type Definition struct {
	Sym  *ast.Symbol
	Node *ast.Node
	Span diagnostics.Span
}

// Application applies Fn to Arg.
type Application struct {
	Fn   *ast.Node
	Arg  *value.Object
	Span diagnostics.Span
}

// Program is a decoded program file. Definitions keep file order.
type Program struct {
	File         string
	Definitions  []Definition
	Applications []Application
}

// Free releases every constant held by p that has not been handed off.
// Definitions passed to a symbol table and arguments passed to the
// evaluator must be cleared from p first.
func (p *Program) Free(h *value.Heap) {
	for i := range p.Definitions {
		ast.Free(h, p.Definitions[i].Node)
		p.Definitions[i].Node = nil
	}
	for i := range p.Applications {
		ast.Free(h, p.Applications[i].Fn)
		h.Release(p.Applications[i].Arg)
		p.Applications[i].Fn = nil
		p.Applications[i].Arg = nil
	}
}

// Decode parses src. Any diagnostic means no program is returned and
// nothing stays allocated on h.
func Decode(src []byte, file string, res Resolver, h *value.Heap) (*Program, []diagnostics.Diagnostic) {
	var doc yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(src))
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &Program{File: file}, nil
		}
		return nil, []diagnostics.Diagnostic{
			diagnostics.MakeDiag(diagnostics.EDecode, fmt.Sprintf("parse %s: %v", file, err), &diagnostics.Span{File: file}, ""),
		}
	}

	d := &decoder{file: file, res: res, heap: h}
	prog := &Program{File: file}
	d.program(&doc, prog)
	if len(d.diags) > 0 {
		prog.Free(h)
		return nil, d.diags
	}
	return prog, nil
}

// DecodeFunction parses a single function node, as given to fp run -e.
func DecodeFunction(src []byte, res Resolver, h *value.Heap) (*ast.Node, []diagnostics.Diagnostic) {
	var doc yaml.Node
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, []diagnostics.Diagnostic{diagnostics.MakeDiag(diagnostics.EDecode, err.Error(), nil, "")}
	}
	d := &decoder{res: res, heap: h}
	if len(doc.Content) != 1 {
		return nil, []diagnostics.Diagnostic{diagnostics.MakeDiag(diagnostics.EDecode, "empty function", nil, "")}
	}
	n := d.fn(doc.Content[0])
	if len(d.diags) > 0 {
		ast.Free(h, n)
		return nil, d.diags
	}
	return n, nil
}

// DecodeValue parses a single value.
func DecodeValue(src []byte, h *value.Heap) (*value.Object, []diagnostics.Diagnostic) {
	var doc yaml.Node
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, []diagnostics.Diagnostic{diagnostics.MakeDiag(diagnostics.EDecode, err.Error(), nil, "")}
	}
	d := &decoder{heap: h}
	if len(doc.Content) != 1 {
		return nil, []diagnostics.Diagnostic{diagnostics.MakeDiag(diagnostics.EDecode, "empty value", nil, "")}
	}
	v := d.value(doc.Content[0])
	if len(d.diags) > 0 {
		h.Release(v)
		return nil, d.diags
	}
	return v, nil
}

type decoder struct {
	file  string
	res   Resolver
	heap  *value.Heap
	diags []diagnostics.Diagnostic
}

func (d *decoder) span(n *yaml.Node) diagnostics.Span {
	return diagnostics.Span{File: d.file, Line: n.Line, Col: n.Column}
}

func (d *decoder) errorf(n *yaml.Node, format string, args ...any) {
	span := d.span(n)
	d.diags = append(d.diags, diagnostics.MakeDiag(diagnostics.EDecode, fmt.Sprintf(format, args...), &span, ""))
}

func (d *decoder) program(doc *yaml.Node, prog *Program) {
	if len(doc.Content) == 0 {
		return
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		d.errorf(root, "program must be a mapping with define and apply sections")
		return
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		switch key.Value {
		case "define":
			d.definitions(val, prog)
		case "apply":
			d.applications(val, prog)
		default:
			d.errorf(key, "unknown section %q", key.Value)
		}
	}
}

func (d *decoder) definitions(n *yaml.Node, prog *Program) {
	if n.Kind != yaml.MappingNode {
		d.errorf(n, "define must map names to functions")
		return
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		if key.Kind != yaml.ScalarNode || key.Value == "" {
			d.errorf(key, "definition name must be a string")
			continue
		}
		if _, isOp := primitive.LookupOp(key.Value); isOp {
			d.errorf(key, "cannot define operator %q", key.Value)
			continue
		}
		fn := d.fn(val)
		if fn == nil {
			continue
		}
		prog.Definitions = append(prog.Definitions, Definition{
			Sym:  d.res.Lookup(key.Value),
			Node: fn,
			Span: d.span(key),
		})
	}
}

func (d *decoder) applications(n *yaml.Node, prog *Program) {
	if n.Kind != yaml.SequenceNode {
		d.errorf(n, "apply must be a list of {fn, to} entries")
		return
	}
	for _, entry := range n.Content {
		if entry.Kind != yaml.MappingNode {
			d.errorf(entry, "application must be a mapping with fn and to")
			continue
		}
		var fnNode, toNode *yaml.Node
		for i := 0; i+1 < len(entry.Content); i += 2 {
			key, val := entry.Content[i], entry.Content[i+1]
			switch key.Value {
			case "fn":
				fnNode = val
			case "to":
				toNode = val
			default:
				d.errorf(key, "unknown application field %q", key.Value)
			}
		}
		if fnNode == nil || toNode == nil {
			d.errorf(entry, "application needs both fn and to")
			continue
		}
		fn := d.fn(fnNode)
		arg := d.value(toNode)
		if fn == nil || arg == nil {
			ast.Free(d.heap, fn)
			d.heap.Release(arg)
			continue
		}
		prog.Applications = append(prog.Applications, Application{Fn: fn, Arg: arg, Span: d.span(entry)})
	}
}

// fn decodes a function node. It returns nil after recording a diagnostic.
func (d *decoder) fn(n *yaml.Node) *ast.Node {
	node := d.fnNode(n)
	if node != nil {
		span := d.span(n)
		node.Span = &span
	}
	return node
}

func (d *decoder) fnNode(n *yaml.Node) *ast.Node {
	switch n.Kind {
	case yaml.ScalarNode:
		return d.scalarFn(n)
	case yaml.MappingNode:
		if len(n.Content) != 2 {
			d.errorf(n, "combinator mapping must have exactly one key")
			return nil
		}
		return d.combinator(n.Content[0], n.Content[1])
	case yaml.AliasNode:
		d.errorf(n, "aliases are not supported")
		return nil
	}
	d.errorf(n, "expected a function, got a sequence")
	return nil
}

func (d *decoder) scalarFn(n *yaml.Node) *ast.Node {
	switch n.Tag {
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			d.errorf(n, "bad selector %q: %v", n.Value, err)
			return nil
		}
		return ast.Select(i)
	case "!!null":
		// YAML resolves a plain null to the null tag; here it names the
		// intrinsic.
		if n.Value == "null" {
			return ast.Call(d.res.Lookup("null"))
		}
	case "!!str":
		if op, ok := primitive.LookupOp(n.Value); ok {
			return ast.Prim(op)
		}
		if n.Value == "" {
			d.errorf(n, "empty function name")
			return nil
		}
		return ast.Call(d.res.Lookup(n.Value))
	}
	d.errorf(n, "expected a function name, operator or selector, got %s", n.Value)
	return nil
}

func (d *decoder) combinator(key, arg *yaml.Node) *ast.Node {
	switch key.Value {
	case "compose":
		fs := d.fnList(arg, 2, -1)
		if fs == nil {
			return nil
		}
		out := fs[len(fs)-1]
		for i := len(fs) - 2; i >= 0; i-- {
			out = ast.Compose(fs[i], out)
		}
		return out
	case "construct":
		fs := d.fnList(arg, 0, -1)
		if fs == nil {
			return nil
		}
		return ast.Construct(fs...)
	case "cond":
		fs := d.fnList(arg, 3, 3)
		if fs == nil {
			return nil
		}
		return ast.Cond(fs[0], fs[1], fs[2])
	case "while":
		fs := d.fnList(arg, 2, 2)
		if fs == nil {
			return nil
		}
		return ast.While(fs[0], fs[1])
	case "all", "rinsert", "binsert":
		f := d.fn(arg)
		if f == nil {
			return nil
		}
		switch key.Value {
		case "all":
			return ast.ApplyToAll(f)
		case "rinsert":
			return ast.RInsert(f)
		}
		return ast.BInsert(f)
	case "const":
		v := d.value(arg)
		if v == nil {
			return nil
		}
		return ast.Const(v)
	case "select":
		if arg.Kind != yaml.ScalarNode || arg.Tag != "!!int" {
			d.errorf(arg, "select needs an integer")
			return nil
		}
		return d.scalarFn(arg)
	case "call":
		if arg.Kind != yaml.ScalarNode || arg.Value == "" {
			d.errorf(arg, "call needs a name")
			return nil
		}
		return ast.Call(d.res.Lookup(arg.Value))
	case "op":
		op, ok := primitive.LookupOp(arg.Value)
		if arg.Kind != yaml.ScalarNode || !ok {
			d.errorf(arg, "unknown operator %q", arg.Value)
			return nil
		}
		return ast.Prim(op)
	}
	d.errorf(key, "unknown combinator %q", key.Value)
	return nil
}

// fnList decodes a sequence of at least lo and at most hi functions
// (hi < 0 means unbounded). It returns nil after recording a diagnostic.
func (d *decoder) fnList(n *yaml.Node, lo, hi int) []*ast.Node {
	if n.Kind != yaml.SequenceNode {
		d.errorf(n, "expected a list of functions")
		return nil
	}
	if len(n.Content) < lo || (hi >= 0 && len(n.Content) > hi) {
		if lo == hi {
			d.errorf(n, "expected %d functions, got %d", lo, len(n.Content))
		} else {
			d.errorf(n, "expected at least %d functions, got %d", lo, len(n.Content))
		}
		return nil
	}
	fs := make([]*ast.Node, 0, len(n.Content))
	failed := false
	for _, c := range n.Content {
		f := d.fn(c)
		if f == nil {
			failed = true
			continue
		}
		fs = append(fs, f)
	}
	if failed {
		for _, f := range fs {
			ast.Free(d.heap, f)
		}
		return nil
	}
	return fs
}

// value decodes a value. It returns nil after recording a diagnostic.
func (d *decoder) value(n *yaml.Node) *value.Object {
	h := d.heap
	switch n.Kind {
	case yaml.SequenceNode:
		elems := make([]*value.Object, 0, len(n.Content))
		for _, c := range n.Content {
			e := d.value(c)
			if e == nil {
				for _, done := range elems {
					h.Release(done)
				}
				return nil
			}
			elems = append(elems, e)
		}
		return h.List(elems...)
	case yaml.ScalarNode:
		return d.scalarValue(n)
	case yaml.AliasNode:
		d.errorf(n, "aliases are not supported")
		return nil
	}
	d.errorf(n, "expected a value, got a mapping")
	return nil
}

func (d *decoder) scalarValue(n *yaml.Node) *value.Object {
	h := d.heap
	switch n.Tag {
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			d.errorf(n, "bad integer %q: %v", n.Value, err)
			return nil
		}
		return h.Int(i)
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			d.errorf(n, "bad float %q", n.Value)
			return nil
		}
		return h.Float(f)
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			d.errorf(n, "bad boolean %q", n.Value)
			return nil
		}
		return h.Bool(b)
	case "!!str":
		switch n.Value {
		case "?":
			return h.Undefined()
		case "T":
			return h.Bool(true)
		case "F":
			return h.Bool(false)
		case "<>":
			return h.EmptyList()
		}
	}
	d.errorf(n, "unsupported value %q", n.Value)
	return nil
}
