// Package ast defines the FP combinator tree evaluated by the evaluator.
package ast

import (
	"fmt"

	"github.com/thomasrohde/fp/pkg/diagnostics"
	"github.com/thomasrohde/fp/pkg/intrinsic"
	"github.com/thomasrohde/fp/pkg/primitive"
	"github.com/thomasrohde/fp/pkg/value"
)

// Tag identifies the combinator a Node represents.
type Tag int

const (
	TagInvalid    Tag = iota
	TagUserCall       // Sym, resolved at evaluation time
	TagIntrinsic      // Sym.Token
	TagPrim           // Op
	TagSelect         // Index
	TagCompose        // Left @ Right
	TagConstruct      // [Elems...]
	TagCond           // Left -> Middle; Right
	TagApplyToAll     // &Left
	TagConst          // %Value
	TagWhile          // while Left Right
	TagRInsert        // !Left
	TagBInsert        // |Left
)

var tagNames = [...]string{
	TagInvalid:    "Invalid",
	TagUserCall:   "UserCall",
	TagIntrinsic:  "Intrinsic",
	TagPrim:       "Prim",
	TagSelect:     "Select",
	TagCompose:    "Compose",
	TagConstruct:  "Construct",
	TagCond:       "Cond",
	TagApplyToAll: "ApplyToAll",
	TagConst:      "Const",
	TagWhile:      "While",
	TagRInsert:    "RInsert",
	TagBInsert:    "BInsert",
}

func (t Tag) String() string {
	if t >= 0 && int(t) < len(tagNames) {
		return tagNames[t]
	}
	return fmt.Sprintf("Tag(%d)", int(t))
}

// Valid reports whether t is a known tag.
func (t Tag) Valid() bool {
	return t > TagInvalid && t <= TagBInsert
}

// Node is one combinator or invocation. Which fields are meaningful depends
// on Tag; the comments on the Tag constants name them. Nodes are not
// modified once built.
type Node struct {
	Tag    Tag
	Left   *Node
	Middle *Node
	Right  *Node

	// Elems holds the element functions of a construction, in order.
	Elems []*Node

	Index int64
	Op    primitive.Op
	Value *value.Object
	Sym   *Symbol

	Span *diagnostics.Span
}

// Kind returns the tag name.
func (n *Node) Kind() string { return n.Tag.String() }

// New allocates a node with up to three children.
func New(tag Tag, left, middle, right *Node) *Node {
	return &Node{Tag: tag, Left: left, Middle: middle, Right: right}
}

// Compose builds f @ g: g is applied first.
func Compose(f, g *Node) *Node { return New(TagCompose, f, nil, g) }

// Construct builds [f1, ..., fk].
func Construct(fs ...*Node) *Node {
	return &Node{Tag: TagConstruct, Elems: fs}
}

// Cond builds p -> t; e.
func Cond(p, t, e *Node) *Node { return New(TagCond, p, t, e) }

// ApplyToAll builds &f.
func ApplyToAll(f *Node) *Node { return New(TagApplyToAll, f, nil, nil) }

// Const builds %v. The node takes ownership of v.
func Const(v *value.Object) *Node {
	return &Node{Tag: TagConst, Value: v}
}

// While builds (while p f).
func While(p, f *Node) *Node { return New(TagWhile, p, nil, f) }

// RInsert builds !op.
func RInsert(op *Node) *Node { return New(TagRInsert, op, nil, nil) }

// BInsert builds |op.
func BInsert(op *Node) *Node { return New(TagBInsert, op, nil, nil) }

// Select builds the selector n.
func Select(n int64) *Node {
	return &Node{Tag: TagSelect, Index: n}
}

// Prim builds a primitive operator node.
func Prim(op primitive.Op) *Node {
	return &Node{Tag: TagPrim, Op: op}
}

// Call builds an invocation of sym: an intrinsic call when sym is a
// builtin, otherwise a user call resolved when evaluated.
func Call(sym *Symbol) *Node {
	if sym.IsBuiltin() {
		return &Node{Tag: TagIntrinsic, Sym: sym}
	}
	return &Node{Tag: TagUserCall, Sym: sym}
}

// Free releases the subtree rooted at n, dropping the reference held by
// every constant node. Symbols and their definitions are not touched.
func Free(h *value.Heap, n *Node) {
	if n == nil {
		return
	}
	Free(h, n.Left)
	Free(h, n.Middle)
	Free(h, n.Right)
	for _, e := range n.Elems {
		Free(h, e)
	}
	if n.Tag == TagConst && n.Value != nil {
		h.Release(n.Value)
		n.Value = nil
	}
}

// Walk calls fn for n and every node below it, depth first, stopping
// early when fn returns false.
func Walk(n *Node, fn func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, c := range []*Node{n.Left, n.Middle, n.Right} {
		if !Walk(c, fn) {
			return false
		}
	}
	for _, e := range n.Elems {
		if !Walk(e, fn) {
			return false
		}
	}
	return true
}

// SymState is the binding state of a Symbol.
type SymState int

const (
	Unbound SymState = iota
	Builtin
	UserDefined
)

func (s SymState) String() string {
	switch s {
	case Builtin:
		return "builtin"
	case UserDefined:
		return "defined"
	}
	return "unbound"
}

// Symbol is a named entry of the symbol table.
type Symbol struct {
	Name  string
	State SymState
	Token intrinsic.Token
	Def   *Node
}

func (s *Symbol) IsBuiltin() bool     { return s.State == Builtin }
func (s *Symbol) IsUserDefined() bool { return s.State == UserDefined }
