// Package intrinsic provides FP's named built-in functions and the registry
// that maps their names and tokens to implementations.
package intrinsic

import (
	"sort"

	"github.com/thomasrohde/fp/pkg/value"
)

// Token identifies an intrinsic. The symbol table stores the token of every
// builtin name and the evaluator dispatches on it.
type Token int

// Fn represents an intrinsic function. Execute consumes its argument and
// returns a newly owned value.
type Fn struct {
	Name    string
	Token   Token
	Execute func(l *Lib, v *value.Object) *value.Object
}

// Registry holds registered intrinsics, indexed by name and by token.
type Registry struct {
	byName  map[string]*Fn
	byToken map[Token]*Fn
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:  make(map[string]*Fn),
		byToken: make(map[Token]*Fn),
	}
}

// Register adds an intrinsic to the registry. Several names may share one
// token (hd and first, front and tlr).
func (r *Registry) Register(fn Fn) {
	r.byName[fn.Name] = &fn
	if _, ok := r.byToken[fn.Token]; !ok {
		r.byToken[fn.Token] = &fn
	}
}

// Get retrieves an intrinsic by name.
func (r *Registry) Get(name string) *Fn {
	return r.byName[name]
}

// ByToken retrieves an intrinsic by token.
func (r *Registry) ByToken(t Token) *Fn {
	return r.byToken[t]
}

// Names returns every registered name in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default returns a registry holding every standard intrinsic.
func Default() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}
