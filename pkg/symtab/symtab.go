// Package symtab holds the interpreter's named functions: the builtin
// intrinsics and user definitions.
package symtab

import (
	"fmt"
	"io"
	"sort"

	"fortio.org/log"

	"github.com/thomasrohde/fp/pkg/ast"
	"github.com/thomasrohde/fp/pkg/diagnostics"
	"github.com/thomasrohde/fp/pkg/intrinsic"
	"github.com/thomasrohde/fp/pkg/value"
)

// Table maps names to symbols. It is owned by one interpreter and is not
// safe for concurrent use.
type Table struct {
	heap    *value.Heap
	symbols map[string]*ast.Symbol
	notices io.Writer
}

// New creates a table seeded with every intrinsic in reg. Definition
// notices go to notices when it is non-nil.
func New(h *value.Heap, reg *intrinsic.Registry, notices io.Writer) *Table {
	t := &Table{
		heap:    h,
		symbols: make(map[string]*ast.Symbol),
		notices: notices,
	}
	for _, name := range reg.Names() {
		fn := reg.Get(name)
		t.symbols[name] = &ast.Symbol{Name: name, State: ast.Builtin, Token: fn.Token}
	}
	return t
}

// Lookup returns the symbol for name, creating an unbound one on first use.
func (t *Table) Lookup(name string) *ast.Symbol {
	if s, ok := t.symbols[name]; ok {
		return s
	}
	s := &ast.Symbol{Name: name}
	t.symbols[name] = s
	return s
}

// Get returns the symbol for name without creating it.
func (t *Table) Get(name string) (*ast.Symbol, bool) {
	s, ok := t.symbols[name]
	return s, ok
}

// Define binds sym to def. A redefinition frees the previous tree.
// Builtins cannot be redefined.
func (t *Table) Define(sym *ast.Symbol, def *ast.Node) error {
	if sym.IsBuiltin() {
		return &DefineError{Name: sym.Name}
	}
	if sym.IsUserDefined() {
		ast.Free(t.heap, sym.Def)
		t.notice("%s: redefined.\n", sym.Name)
		log.LogVf("symtab: redefined %s", sym.Name)
	} else {
		t.notice("{%s}\n", sym.Name)
		log.LogVf("symtab: defined %s", sym.Name)
	}
	sym.State = ast.UserDefined
	sym.Def = def
	return nil
}

// Defined returns the names of all user definitions, sorted.
func (t *Table) Defined() []string {
	var names []string
	for name, s := range t.symbols {
		if s.IsUserDefined() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Close frees every user definition.
func (t *Table) Close() {
	for _, s := range t.symbols {
		if s.IsUserDefined() {
			ast.Free(t.heap, s.Def)
			s.Def = nil
			s.State = ast.Unbound
		}
	}
}

func (t *Table) notice(format string, args ...any) {
	if t.notices != nil {
		fmt.Fprintf(t.notices, format, args...)
	}
}

// DefineError reports an attempt to redefine a builtin.
type DefineError struct {
	Name string
}

func (e *DefineError) Error() string {
	return fmt.Sprintf("%s: %s is a builtin and cannot be redefined", diagnostics.EDefine, e.Name)
}
