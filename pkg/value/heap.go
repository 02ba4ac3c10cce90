package value

// Heap allocates Objects and reclaims them when their reference count drops
// to zero. Reclaimed cells are kept on a free list held in a separate slice
// and reused by later allocations.
//
// A Heap is single-threaded: reference counts are plain integers and no
// method may be called concurrently.
type Heap struct {
	free   []*Object
	live   int
	allocs int
}

// NewHeap returns an empty heap.
func NewHeap() *Heap {
	return &Heap{}
}

// Live returns the number of objects currently allocated and not yet
// reclaimed.
func (h *Heap) Live() int {
	return h.live
}

// Stats returns the total number of allocations served and the number of
// cells currently waiting on the free list.
func (h *Heap) Stats() (allocs, free int) {
	return h.allocs, len(h.free)
}

func (h *Heap) alloc(k Kind) *Object {
	var o *Object
	if n := len(h.free); n > 0 {
		o = h.free[n-1]
		h.free[n-1] = nil
		h.free = h.free[:n-1]
	} else {
		o = new(Object)
	}
	o.kind = k
	o.refs = 1
	h.live++
	h.allocs++
	return o
}

// Int allocates an Int.
func (h *Heap) Int(v int64) *Object {
	o := h.alloc(KindInt)
	o.i = v
	return o
}

// Float allocates a Float.
func (h *Heap) Float(v float64) *Object {
	o := h.alloc(KindFloat)
	o.f = v
	return o
}

// Bool allocates a Bool.
func (h *Heap) Bool(v bool) *Object {
	o := h.alloc(KindBool)
	o.b = v
	return o
}

// Undefined allocates the undefined value.
func (h *Heap) Undefined() *Object {
	return h.alloc(KindUndefined)
}

// EmptyList allocates <>.
func (h *Heap) EmptyList() *Object {
	return h.alloc(KindList)
}

// Cons allocates a list cell. It takes ownership of both references; cdr may
// be nil to terminate the list.
func (h *Heap) Cons(car, cdr *Object) *Object {
	if car == nil && cdr != nil {
		panic("value: cons of empty car onto a tail")
	}
	o := h.alloc(KindList)
	o.car = car
	o.cdr = cdr
	return o
}

// List builds a well-formed list from elems, taking ownership of every
// element reference. No elements yields <>.
func (h *Heap) List(elems ...*Object) *Object {
	if len(elems) == 0 {
		return h.EmptyList()
	}
	var tail *Object
	for i := len(elems) - 1; i >= 0; i-- {
		tail = h.Cons(elems[i], tail)
	}
	return tail
}

// Retain adds a reference to o and returns it.
func (h *Heap) Retain(o *Object) *Object {
	o.mustLive()
	o.refs++
	return o
}

// Release drops one reference to o. When the count reaches zero the car is
// released, then the cdr, and the cell goes back on the free list. The cdr
// chain is walked iteratively so long lists do not grow the Go stack.
// Release of nil is a no-op.
func (h *Heap) Release(o *Object) {
	for o != nil {
		o.mustLive()
		o.refs--
		if o.refs > 0 {
			return
		}
		var next *Object
		if o.kind == KindList {
			h.Release(o.car)
			next = o.cdr
		}
		h.reclaim(o)
		o = next
	}
}

func (h *Heap) reclaim(o *Object) {
	*o = Object{}
	h.free = append(h.free, o)
	h.live--
}
