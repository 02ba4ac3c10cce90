package intrinsic_test

import (
	"bytes"
	"testing"

	"github.com/thomasrohde/fp/pkg/diagnostics"
	"github.com/thomasrohde/fp/pkg/intrinsic"
	"github.com/thomasrohde/fp/pkg/value"
)

// undef marks the undefined value in test literals.
type undef struct{}

// mk builds a value from a Go literal: int, float64, bool, undef or []any.
func mk(h *value.Heap, x any) *value.Object {
	switch v := x.(type) {
	case int:
		return h.Int(int64(v))
	case float64:
		return h.Float(v)
	case bool:
		return h.Bool(v)
	case undef:
		return h.Undefined()
	case []any:
		elems := make([]*value.Object, len(v))
		for i, e := range v {
			elems[i] = mk(h, e)
		}
		return h.List(elems...)
	}
	panic("mk: unsupported literal")
}

func l(xs ...any) []any { return xs }

func call(t *testing.T, lib *intrinsic.Lib, name string, in *value.Object) *value.Object {
	t.Helper()
	fn := lib.Registry().Get(name)
	if fn == nil {
		t.Fatalf("intrinsic %q not registered", name)
	}
	return lib.Call(fn.Token, in)
}

func TestIntrinsics(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"length", l(1, 2, 3), "3"},
		{"length", l(), "0"},
		{"length", 5, "?"},
		{"id", l(1, l(2)), "<1 <2>>"},
		{"hd", l(1, 2), "1"},
		{"first", l(l(1), 2), "<1>"},
		{"hd", l(), "<>"},
		{"hd", true, "?"},
		{"tl", l(1, 2, 3), "<2 3>"},
		{"tl", l(1), "<>"},
		{"tl", l(), "?"},
		{"iota", 0, "<>"},
		{"iota", 3, "<1 2 3>"},
		{"iota", 2.7, "<1 2>"},
		{"iota", -1, "?"},
		{"iota", 1 << 62, "?"},
		{"iota", 1e300, "?"},
		{"iota", l(), "?"},
		{"pick", l(2, l(10, 20, 30)), "20"},
		{"pick", l(-1, l(10, 20, 30)), "30"},
		{"pick", l(-3, l(10, 20, 30)), "10"},
		{"pick", l(-4, l(10, 20, 30)), "?"},
		{"pick", l(4, l(10, 20, 30)), "?"},
		{"pick", l(0, l(10, 20, 30)), "?"},
		{"pick", l(1, 5), "?"},
		{"pick", l(1.0, l(1)), "?"},
		{"last", l(1, 2, 3), "3"},
		{"last", l(), "<>"},
		{"front", l(1, 2, 3), "<1 2>"},
		{"tlr", l(1), "<>"},
		{"front", l(), "?"},
		{"distl", l(0, l(1, 2)), "<<0 1> <0 2>>"},
		{"distl", l(0, l()), "<>"},
		{"distl", l(0, 1), "?"},
		{"distr", l(l(1, 2), 0), "<<1 0> <2 0>>"},
		{"distr", l(1, 0), "?"},
		{"apndl", l(0, l(1, 2)), "<0 1 2>"},
		{"apndl", l(0, l()), "<0>"},
		{"apndl", l(0), "?"},
		{"apndr", l(l(1, 2), 3), "<1 2 3>"},
		{"apndr", l(l(), 3), "<3>"},
		{"apndr", l(1, 3), "?"},
		{"trans", l(l(1, 2), l(3, 4), l(5, 6)), "<<1 3 5> <2 4 6>>"},
		{"trans", l(l(1, 2), l(3)), "?"},
		{"trans", l(l(), l()), "<>"},
		{"trans", l(1, 2), "?"},
		{"reverse", l(1, 2, 3), "<3 2 1>"},
		{"reverse", l(), "<>"},
		{"rotl", l(1, 2, 3), "<2 3 1>"},
		{"rotl", l(1), "<1>"},
		{"rotr", l(1, 2, 3), "<3 1 2>"},
		{"rotr", l(), "<>"},
		{"concat", l(l(1, 2), l(), l(3)), "<1 2 3>"},
		{"concat", l(l(), l()), "<>"},
		{"concat", l(), "<>"},
		{"concat", l(l(1), 2), "?"},
		{"pair", l(1, 2, 3, 4), "<<1 2> <3 4>>"},
		{"pair", l(1, 2, 3), "<<1 2> <3>>"},
		{"pair", l(), "?"},
		{"split", l(1, 2, 3, 4, 5), "<<1 2 3> <4 5>>"},
		{"split", l(1, 2), "<<1> <2>>"},
		{"split", l(1), "<<1> <>>"},
		{"split", l(), "?"},
		{"sin", 0, "0"},
		{"cos", 0.0, "1"},
		{"exp", 0, "1"},
		{"log", 1, "0"},
		{"log", 0, "?"},
		{"asin", 2, "?"},
		{"atan", true, "?"},
		{"mod", l(7, 3), "1"},
		{"mod", l(-7, 3), "-1"},
		{"mod", l(7.9, 3), "1"},
		{"mod", l(3, 0), "?"},
		{"div", l(7, 2), "3"},
		{"div", l(-7, 2), "-3"},
		{"div", l(3, 0), "?"},
		{"div", l(3, 0.5), "?"},
		{"mod", l(9007199254740993, 10), "3"},
		{"div", l(9007199254740993, 1), "9007199254740993"},
		{"div", l(-9007199254740993, 2), "-4503599627370496"},
		{"div", l(1e300, 1), "?"},
		{"atom", 1, "T"},
		{"atom", false, "T"},
		{"atom", l(), "F"},
		{"atom", undef{}, "?"},
		{"null", l(), "T"},
		{"null", l(1), "F"},
		{"null", 1, "?"},
		{"eq", l(l(1, 2), l(1.0, 2)), "T"},
		{"eq", l(1, 2), "F"},
		{"eq", l(1), "?"},
		{"and", l(true, true), "T"},
		{"and", l(true, false), "F"},
		{"or", l(false, true), "T"},
		{"xor", l(true, true), "F"},
		{"xor", l(true, false), "T"},
		{"and", l(1, true), "?"},
		{"or", l(true), "?"},
		{"not", true, "F"},
		{"not", 0, "?"},
	}

	h := value.NewHeap()
	lib := intrinsic.New(h, nil)
	for _, tt := range tests {
		got := call(t, lib, tt.name, mk(h, tt.in))
		if got.String() != tt.want {
			t.Errorf("%s %v: got %s, want %s", tt.name, tt.in, got, tt.want)
		}
		h.Release(got)
		if h.Live() != 0 {
			t.Fatalf("%s %v: leaked %d objects", tt.name, tt.in, h.Live())
		}
	}
}

func TestOutWritesDebugLine(t *testing.T) {
	h := value.NewHeap()
	var buf bytes.Buffer
	lib := intrinsic.New(h, &buf)

	got := call(t, lib, "out", mk(h, l(1, l(2.5, true))))
	if got.String() != "<1 <2.5 T>>" {
		t.Errorf("out must be the identity, got %s", got)
	}
	if buf.String() != "out: <1 <2.5 T>>\n" {
		t.Errorf("debug line = %q", buf.String())
	}
	h.Release(got)
}

func TestSharedStructureSurvivesRelease(t *testing.T) {
	h := value.NewHeap()
	lib := intrinsic.New(h, nil)

	src := mk(h, l(l(1, 2), l(3, 4)))
	h.Retain(src)
	got := call(t, lib, "trans", src)
	h.Release(src)

	if got.String() != "<<1 3> <2 4>>" {
		t.Errorf("got %s", got)
	}
	h.Release(got)
	if h.Live() != 0 {
		t.Errorf("leaked %d objects", h.Live())
	}
}

func TestUndefinedReasons(t *testing.T) {
	h := value.NewHeap()
	lib := intrinsic.New(h, nil)
	var codes []string
	lib.OnUndefined = func(d diagnostics.Diagnostic) { codes = append(codes, d.Code) }

	h.Release(call(t, lib, "mod", mk(h, l(1, 0))))
	h.Release(call(t, lib, "pick", mk(h, l(9, l(1)))))
	h.Release(call(t, lib, "not", mk(h, 1)))
	h.Release(call(t, lib, "tl", mk(h, l())))
	h.Release(call(t, lib, "eq", mk(h, 1)))
	h.Release(call(t, lib, "iota", mk(h, intrinsic.MaxIota+1)))
	h.Release(call(t, lib, "mod", mk(h, l(1e19, 3))))

	want := []string{diagnostics.EDomain, diagnostics.EIndex, diagnostics.EType, diagnostics.EMalformed, diagnostics.EMalformed, diagnostics.EDomain, diagnostics.EDomain}
	if len(codes) != len(want) {
		t.Fatalf("got codes %v, want %v", codes, want)
	}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("code %d = %s, want %s", i, codes[i], want[i])
		}
	}
}

func TestUnknownTokenIsFatal(t *testing.T) {
	h := value.NewHeap()
	lib := intrinsic.New(h, nil)
	defer func() {
		if _, ok := recover().(*diagnostics.FatalError); !ok {
			t.Error("expected *diagnostics.FatalError panic")
		}
	}()
	lib.Call(intrinsic.Token(999), h.Int(1))
}

func TestRegistryNames(t *testing.T) {
	r := intrinsic.Default()
	names := r.Names()
	if len(names) != 39 {
		t.Errorf("got %d names, want 39: %v", len(names), names)
	}
	if r.Get("hd").Token != r.Get("first").Token {
		t.Error("hd and first must share a token")
	}
	if r.Get("front").Token != r.Get("tlr").Token {
		t.Error("front and tlr must share a token")
	}
	if r.ByToken(intrinsic.Xor).Name != "xor" {
		t.Errorf("ByToken(Xor) = %q", r.ByToken(intrinsic.Xor).Name)
	}
}

func TestIdentity(t *testing.T) {
	h := value.NewHeap()
	for tok, want := range map[intrinsic.Token]string{intrinsic.And: "T", intrinsic.Or: "F", intrinsic.Xor: "F"} {
		v, ok := intrinsic.Identity(h, tok)
		if !ok || v.String() != want {
			t.Errorf("Identity(%d) = %v, %v; want %s", tok, v, ok, want)
		}
	}
	if _, ok := intrinsic.Identity(h, intrinsic.Not); ok {
		t.Error("not has no identity")
	}
}
