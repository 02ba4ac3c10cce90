// Package value implements the FP runtime value model: a tagged, explicitly
// reference-counted datum allocated from a Heap.
package value

import "fmt"

// Kind identifies the variant held by an Object.
type Kind uint8

const (
	kindFree Kind = iota // cell sits on the heap's free list
	KindInt
	KindFloat
	KindList
	KindUndefined
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindList:
		return "list"
	case KindUndefined:
		return "undefined"
	case KindBool:
		return "bool"
	case kindFree:
		return "free"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Object is a single runtime value. Objects are created by a Heap and are
// owned through explicit references: every holder of a pointer owns one
// count and must hand it back with Heap.Release.
//
// A List object is a cons cell. The canonical empty list has a nil car and a
// nil cdr; a well-formed list is a nil-terminated chain of cells.
type Object struct {
	kind Kind
	refs uint32

	i int64
	f float64
	b bool

	car *Object
	cdr *Object
}

// Kind returns the variant of o.
func (o *Object) Kind() Kind {
	o.mustLive()
	return o.kind
}

// Refs returns the current reference count.
func (o *Object) Refs() int {
	return int(o.refs)
}

func (o *Object) IsInt() bool       { return o.Kind() == KindInt }
func (o *Object) IsFloat() bool     { return o.Kind() == KindFloat }
func (o *Object) IsBool() bool      { return o.Kind() == KindBool }
func (o *Object) IsList() bool      { return o.Kind() == KindList }
func (o *Object) IsUndefined() bool { return o.Kind() == KindUndefined }

// IsNum reports whether o is an Int or a Float.
func (o *Object) IsNum() bool {
	k := o.Kind()
	return k == KindInt || k == KindFloat
}

// IsAtom reports whether o is a scalar (Int, Float or Bool).
func (o *Object) IsAtom() bool {
	k := o.Kind()
	return k == KindInt || k == KindFloat || k == KindBool
}

// IsEmpty reports whether o is the empty list.
func (o *Object) IsEmpty() bool {
	return o.IsList() && o.car == nil
}

// Car returns the head of a list cell (nil for the empty list).
func (o *Object) Car() *Object {
	o.guard(KindList, "Car")
	return o.car
}

// Cdr returns the tail of a list cell (nil at the end of a list).
func (o *Object) Cdr() *Object {
	o.guard(KindList, "Cdr")
	return o.cdr
}

// Second returns the car of the cdr, or nil when the list is shorter.
func (o *Object) Second() *Object {
	o.guard(KindList, "Second")
	if o.cdr == nil {
		return nil
	}
	return o.cdr.car
}

// Int returns the payload of an Int.
func (o *Object) Int() int64 {
	o.guard(KindInt, "Int")
	return o.i
}

// Float returns the payload of a Float.
func (o *Object) Float() float64 {
	o.guard(KindFloat, "Float")
	return o.f
}

// Bool returns the payload of a Bool.
func (o *Object) Bool() bool {
	o.guard(KindBool, "Bool")
	return o.b
}

// Num returns the numeric payload of an Int or Float, widening Int.
func (o *Object) Num() float64 {
	switch o.Kind() {
	case KindInt:
		return float64(o.i)
	case KindFloat:
		return o.f
	}
	panic(fmt.Sprintf("value: Num on %s", o.kind))
}

// Len returns the number of elements of a list, stopping at the first cell
// with an empty car. Non-lists have length zero.
func (o *Object) Len() int {
	if o == nil || !o.IsList() {
		return 0
	}
	n := 0
	for p := o; p != nil && p.car != nil; p = p.cdr {
		n++
	}
	return n
}

// IsPair reports whether o is a list of exactly two elements.
func (o *Object) IsPair() bool {
	return o.IsList() && o.car != nil && o.cdr != nil && o.cdr.car != nil && o.cdr.cdr == nil
}

// Elements returns the elements of a list as borrowed pointers: the caller
// does not own them and must Retain any it keeps beyond o's lifetime.
func (o *Object) Elements() []*Object {
	o.guard(KindList, "Elements")
	if o.car == nil {
		return nil
	}
	elems := make([]*Object, 0, 4)
	for p := o; p != nil && p.car != nil; p = p.cdr {
		elems = append(elems, p.car)
	}
	return elems
}

func (o *Object) guard(want Kind, op string) {
	if o.Kind() != want {
		panic(fmt.Sprintf("value: %s on %s", op, o.kind))
	}
}

func (o *Object) mustLive() {
	if o.kind == kindFree || o.refs == 0 {
		panic("value: use of released object")
	}
}
