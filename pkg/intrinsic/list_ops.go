package intrinsic

import (
	"math"

	"github.com/thomasrohde/fp/pkg/diagnostics"
	"github.com/thomasrohde/fp/pkg/value"
)

// length <x1 ... xn> → n
func lengthFn(l *Lib, v *value.Object) *value.Object {
	if !v.IsList() {
		return l.fail(v, diagnostics.EType, "length: argument must be a list")
	}
	n := v.Len()
	l.Heap.Release(v)
	return l.Heap.Int(int64(n))
}

// hd <x1 ...> → x1; hd <> → <>
func hdFn(l *Lib, v *value.Object) *value.Object {
	if !v.IsList() {
		return l.fail(v, diagnostics.EType, "hd: argument must be a list")
	}
	if v.IsEmpty() {
		return v
	}
	r := l.Heap.Retain(v.Car())
	l.Heap.Release(v)
	return r
}

// tl <x1 x2 ...> → <x2 ...>
func tlFn(l *Lib, v *value.Object) *value.Object {
	if !v.IsList() || v.IsEmpty() {
		return l.fail(v, diagnostics.EMalformed, "tl: argument must be a non-empty list")
	}
	var r *value.Object
	if rest := v.Cdr(); rest == nil {
		r = l.Heap.EmptyList()
	} else {
		r = l.Heap.Retain(rest)
	}
	l.Heap.Release(v)
	return r
}

// MaxIota is the largest count iota accepts.
const MaxIota = math.MaxInt32

// iota n → <1 2 ... n>
func iotaFn(l *Lib, v *value.Object) *value.Object {
	if !v.IsNum() {
		return l.fail(v, diagnostics.EType, "iota: argument must be a number")
	}
	f := v.Num()
	if !(f >= 0 && f <= MaxIota) {
		return l.fail(v, diagnostics.EDomain, "iota: count %g out of range", f)
	}
	n := int64(f)
	l.Heap.Release(v)
	elems := make([]*value.Object, n)
	for i := range elems {
		elems[i] = l.Heap.Int(int64(i + 1))
	}
	return l.Heap.List(elems...)
}

// pick <n <x1 ... xm>> → xn, counting from the end when n is negative
func pickFn(l *Lib, v *value.Object) *value.Object {
	if !v.IsList() || v.IsEmpty() || !v.Car().IsInt() || v.Second() == nil {
		return l.fail(v, diagnostics.EMalformed, "pick: argument must be <index list>")
	}
	list := v.Second()
	if !list.IsList() {
		return l.fail(v, diagnostics.EType, "pick: second element must be a list")
	}
	x := v.Car().Int()
	if x == 0 {
		return l.fail(v, diagnostics.EIndex, "pick: index 0")
	}
	if x < 0 {
		x += int64(list.Len()) + 1
		if x < 1 {
			return l.fail(v, diagnostics.EIndex, "pick: index out of range")
		}
	}
	q := list
	for ; x > 1 && q != nil; x-- {
		q = q.Cdr()
	}
	if q == nil || q.Car() == nil {
		return l.fail(v, diagnostics.EIndex, "pick: index out of range")
	}
	r := l.Heap.Retain(q.Car())
	l.Heap.Release(v)
	return r
}

// last <x1 ... xn> → xn; last <> → <>
func lastFn(l *Lib, v *value.Object) *value.Object {
	if !v.IsList() {
		return l.fail(v, diagnostics.EType, "last: argument must be a list")
	}
	if v.IsEmpty() {
		return v
	}
	q := v
	for q.Cdr() != nil {
		q = q.Cdr()
	}
	r := l.Heap.Retain(q.Car())
	l.Heap.Release(v)
	return r
}

// front <x1 ... xn> → <x1 ... xn-1>
func frontFn(l *Lib, v *value.Object) *value.Object {
	if !v.IsList() || v.IsEmpty() {
		return l.fail(v, diagnostics.EMalformed, "front: argument must be a non-empty list")
	}
	elems := v.Elements()
	r := l.collect(elems[:len(elems)-1])
	l.Heap.Release(v)
	return r
}

// distl <y <z1 ... zn>> → <<y z1> ... <y zn>>
func distlFn(l *Lib, v *value.Object) *value.Object {
	if !v.IsList() || v.IsEmpty() || v.Second() == nil || !v.Second().IsList() {
		return l.fail(v, diagnostics.EMalformed, "distl: argument must be <x list>")
	}
	return l.distribute(v.Car(), v.Second(), v, false)
}

// distr <<y1 ... yn> z> → <<y1 z> ... <yn z>>
func distrFn(l *Lib, v *value.Object) *value.Object {
	if !v.IsList() || v.IsEmpty() || v.Second() == nil || !v.Car().IsList() {
		return l.fail(v, diagnostics.EMalformed, "distr: argument must be <list x>")
	}
	return l.distribute(v.Second(), v.Car(), v, true)
}

// distribute pairs elem with every element of lst, on the left unless
// right is set. src owns both and is released.
func (l *Lib) distribute(elem, lst, src *value.Object, right bool) *value.Object {
	h := l.Heap
	if lst.IsEmpty() {
		r := h.Retain(lst)
		h.Release(src)
		return r
	}
	elems := lst.Elements()
	pairs := make([]*value.Object, len(elems))
	for i, e := range elems {
		if right {
			pairs[i] = h.List(h.Retain(e), h.Retain(elem))
		} else {
			pairs[i] = h.List(h.Retain(elem), h.Retain(e))
		}
	}
	h.Release(src)
	return h.List(pairs...)
}

// apndl <y <z1 ... zn>> → <y z1 ... zn>
func apndlFn(l *Lib, v *value.Object) *value.Object {
	if !v.IsList() || v.IsEmpty() || v.Second() == nil || !v.Second().IsList() {
		return l.fail(v, diagnostics.EMalformed, "apndl: argument must be <x list>")
	}
	h := l.Heap
	x, list := h.Retain(v.Car()), v.Second()
	var r *value.Object
	if list.IsEmpty() {
		r = h.List(x)
	} else {
		r = h.Cons(x, h.Retain(list))
	}
	h.Release(v)
	return r
}

// apndr <<y1 ... yn> z> → <y1 ... yn z>
func apndrFn(l *Lib, v *value.Object) *value.Object {
	if !v.IsList() || v.IsEmpty() || v.Second() == nil || !v.Car().IsList() {
		return l.fail(v, diagnostics.EMalformed, "apndr: argument must be <list x>")
	}
	h := l.Heap
	elems := v.Car().Elements()
	owned := make([]*value.Object, 0, len(elems)+1)
	for _, e := range elems {
		owned = append(owned, h.Retain(e))
	}
	owned = append(owned, h.Retain(v.Second()))
	h.Release(v)
	return h.List(owned...)
}

// trans <<x11 ... x1m> ... <xn1 ... xnm>> → <<x11 ... xn1> ... <x1m ... xnm>>
func transFn(l *Lib, v *value.Object) *value.Object {
	if !v.IsList() || v.IsEmpty() || !v.Car().IsList() {
		return l.fail(v, diagnostics.EMalformed, "trans: argument must be a list of lists")
	}
	width := v.Car().Len()
	rows := v.Elements()
	cells := make([][]*value.Object, len(rows))
	for i, row := range rows {
		if !row.IsList() || row.Len() != width {
			return l.fail(v, diagnostics.EMalformed, "trans: rows must be lists of equal length")
		}
		cells[i] = row.Elements()
	}
	h := l.Heap
	if width == 0 {
		h.Release(v)
		return h.EmptyList()
	}
	cols := make([]*value.Object, width)
	for x := range cols {
		col := make([]*value.Object, len(rows))
		for y := range rows {
			col[y] = h.Retain(cells[y][x])
		}
		cols[x] = h.List(col...)
	}
	h.Release(v)
	return h.List(cols...)
}

// reverse <x1 ... xn> → <xn ... x1>
func reverseFn(l *Lib, v *value.Object) *value.Object {
	if !v.IsList() {
		return l.fail(v, diagnostics.EType, "reverse: argument must be a list")
	}
	if v.IsEmpty() {
		return v
	}
	elems := v.Elements()
	rev := make([]*value.Object, len(elems))
	for i, e := range elems {
		rev[len(elems)-1-i] = e
	}
	r := l.collect(rev)
	l.Heap.Release(v)
	return r
}

// rotl <x1 x2 ... xn> → <x2 ... xn x1>
func rotlFn(l *Lib, v *value.Object) *value.Object {
	if !v.IsList() {
		return l.fail(v, diagnostics.EType, "rotl: argument must be a list")
	}
	if v.Len() < 2 {
		return v
	}
	elems := v.Elements()
	rot := append(append(make([]*value.Object, 0, len(elems)), elems[1:]...), elems[0])
	r := l.collect(rot)
	l.Heap.Release(v)
	return r
}

// rotr <x1 ... xn-1 xn> → <xn x1 ... xn-1>
func rotrFn(l *Lib, v *value.Object) *value.Object {
	if !v.IsList() {
		return l.fail(v, diagnostics.EType, "rotr: argument must be a list")
	}
	if v.Len() < 2 {
		return v
	}
	elems := v.Elements()
	n := len(elems)
	rot := append(append(make([]*value.Object, 0, n), elems[n-1]), elems[:n-1]...)
	r := l.collect(rot)
	l.Heap.Release(v)
	return r
}

// concat <<x1 ...> <y1 ...> ...> → <x1 ... y1 ...>
func concatFn(l *Lib, v *value.Object) *value.Object {
	if !v.IsList() {
		return l.fail(v, diagnostics.EType, "concat: argument must be a list")
	}
	if v.IsEmpty() {
		return v
	}
	var flat []*value.Object
	for _, sub := range v.Elements() {
		if !sub.IsList() {
			return l.fail(v, diagnostics.EType, "concat: elements must be lists")
		}
		if sub.IsEmpty() {
			continue
		}
		flat = append(flat, sub.Elements()...)
	}
	r := l.collect(flat)
	l.Heap.Release(v)
	return r
}

// pair <x1 x2 x3 x4 ...> → <<x1 x2> <x3 x4> ...>; an odd tail stays a singleton
func pairFn(l *Lib, v *value.Object) *value.Object {
	if !v.IsList() || v.IsEmpty() {
		return l.fail(v, diagnostics.EMalformed, "pair: argument must be a non-empty list")
	}
	elems := v.Elements()
	groups := make([]*value.Object, 0, (len(elems)+1)/2)
	for i := 0; i < len(elems); i += 2 {
		end := i + 2
		if end > len(elems) {
			end = len(elems)
		}
		groups = append(groups, l.collect(elems[i:end]))
	}
	l.Heap.Release(v)
	return l.Heap.List(groups...)
}

// split <x1 ... xn> → <<x1 ... xk> <xk+1 ... xn>> with k = ceil(n/2)
func splitFn(l *Lib, v *value.Object) *value.Object {
	if !v.IsList() || v.IsEmpty() {
		return l.fail(v, diagnostics.EMalformed, "split: argument must be a non-empty list")
	}
	elems := v.Elements()
	k := (len(elems)-1)/2 + 1
	r := l.Heap.List(l.collect(elems[:k]), l.collect(elems[k:]))
	l.Heap.Release(v)
	return r
}
