package ast_test

import (
	"testing"

	"github.com/thomasrohde/fp/pkg/ast"
	"github.com/thomasrohde/fp/pkg/intrinsic"
	"github.com/thomasrohde/fp/pkg/primitive"
	"github.com/thomasrohde/fp/pkg/value"
)

func TestNodeKinds(t *testing.T) {
	h := value.NewHeap()
	sym := &ast.Symbol{Name: "f"}
	builtin := &ast.Symbol{Name: "hd", State: ast.Builtin, Token: intrinsic.Hd}

	nodes := []*ast.Node{
		ast.Call(sym),
		ast.Call(builtin),
		ast.Prim(primitive.OpAdd),
		ast.Select(2),
		ast.Compose(ast.Select(1), ast.Select(2)),
		ast.Construct(ast.Select(1)),
		ast.Cond(ast.Select(1), ast.Select(2), ast.Select(3)),
		ast.ApplyToAll(ast.Select(1)),
		ast.Const(h.Int(1)),
		ast.While(ast.Select(1), ast.Select(2)),
		ast.RInsert(ast.Prim(primitive.OpAdd)),
		ast.BInsert(ast.Prim(primitive.OpMul)),
	}

	expected := []string{
		"UserCall", "Intrinsic", "Prim", "Select", "Compose", "Construct",
		"Cond", "ApplyToAll", "Const", "While", "RInsert", "BInsert",
	}

	for i, node := range nodes {
		if got := node.Kind(); got != expected[i] {
			t.Errorf("node %d: got Kind() = %q, want %q", i, got, expected[i])
		}
		if !node.Tag.Valid() {
			t.Errorf("node %d: tag %v not valid", i, node.Tag)
		}
	}
	if ast.Tag(99).Valid() || ast.TagInvalid.Valid() {
		t.Error("out-of-range tags must not be valid")
	}
	if got := ast.Tag(99).String(); got != "Tag(99)" {
		t.Errorf("Tag(99).String() = %q", got)
	}
}

func TestFreeReleasesConstants(t *testing.T) {
	h := value.NewHeap()
	tree := ast.Construct(
		ast.Const(h.List(h.Int(1), h.Int(2))),
		ast.Compose(ast.Const(h.Float(2.5)), ast.Select(1)),
		ast.Cond(ast.Select(1), ast.Const(h.Bool(true)), ast.Const(h.Undefined())),
	)
	if h.Live() == 0 {
		t.Fatal("constants not allocated")
	}
	ast.Free(h, tree)
	if h.Live() != 0 {
		t.Errorf("Free left %d live objects", h.Live())
	}
}

func TestFreeSkipsSymbolDefinitions(t *testing.T) {
	h := value.NewHeap()
	def := ast.Const(h.Int(7))
	sym := &ast.Symbol{Name: "seven", State: ast.UserDefined, Def: def}

	ast.Free(h, ast.Compose(ast.Call(sym), ast.Select(1)))
	if h.Live() != 1 {
		t.Errorf("definition constant was released through a call node")
	}
	ast.Free(h, def)
}

func TestWalk(t *testing.T) {
	tree := ast.Compose(ast.Construct(ast.Select(1), ast.Select(2)), ast.ApplyToAll(ast.Select(3)))
	var tags []ast.Tag
	ast.Walk(tree, func(n *ast.Node) bool {
		tags = append(tags, n.Tag)
		return true
	})
	want := []ast.Tag{ast.TagCompose, ast.TagConstruct, ast.TagSelect, ast.TagSelect, ast.TagApplyToAll, ast.TagSelect}
	if len(tags) != len(want) {
		t.Fatalf("visited %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("visit %d = %v, want %v", i, tags[i], want[i])
		}
	}

	count := 0
	ast.Walk(tree, func(n *ast.Node) bool {
		count++
		return n.Tag != ast.TagConstruct
	})
	if count != 2 {
		t.Errorf("early stop visited %d nodes, want 2", count)
	}
}

func TestSymbolState(t *testing.T) {
	s := &ast.Symbol{Name: "x"}
	if s.IsBuiltin() || s.IsUserDefined() || s.State.String() != "unbound" {
		t.Errorf("zero symbol must be unbound, got %v", s.State)
	}
	s.State = ast.UserDefined
	if !s.IsUserDefined() {
		t.Error("IsUserDefined")
	}
}
