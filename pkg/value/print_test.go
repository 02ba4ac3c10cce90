package value_test

import (
	"bytes"
	"testing"

	"github.com/thomasrohde/fp/pkg/value"
)

func TestString(t *testing.T) {
	h := value.NewHeap()
	tests := []struct {
		v    *value.Object
		want string
	}{
		{h.Int(-12), "-12"},
		{h.Float(2), "2"},
		{h.Float(0.1), "0.1"},
		{h.Float(3.14159265358979), "3.14159265"},
		{h.Float(1e20), "1e+20"},
		{h.Bool(true), "T"},
		{h.Bool(false), "F"},
		{h.Undefined(), "?"},
		{h.EmptyList(), "<>"},
		{h.List(h.Int(1), h.Int(2), h.Int(3)), "<1 2 3>"},
		{h.List(h.List(h.Int(1), h.Int(2)), h.EmptyList(), h.Bool(true)), "<<1 2> <> T>"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestFprint(t *testing.T) {
	h := value.NewHeap()
	var buf bytes.Buffer
	if err := value.Fprint(&buf, h.List(h.Undefined(), h.Float(1.5))); err != nil {
		t.Fatalf("Fprint: %v", err)
	}
	if got := buf.String(); got != "<? 1.5>" {
		t.Errorf("got %q, want %q", got, "<? 1.5>")
	}
}

func TestToJSON(t *testing.T) {
	h := value.NewHeap()
	tests := []struct {
		v    *value.Object
		want string
	}{
		{h.Int(4), "4"},
		{h.Float(0.5), "0.5"},
		{h.Bool(false), "false"},
		{h.Undefined(), "null"},
		{h.EmptyList(), "[]"},
		{h.List(h.Int(1), h.List(h.Bool(true), h.Undefined())), "[1,[true,null]]"},
	}
	for _, tt := range tests {
		got, err := value.ToJSON(tt.v)
		if err != nil {
			t.Fatalf("ToJSON(%s): %v", tt.v, err)
		}
		if string(got) != tt.want {
			t.Errorf("ToJSON(%s) = %s, want %s", tt.v, got, tt.want)
		}
	}
}
