package value

// Same reports whether a and b are structurally equal. Lists are compared
// element by element, an Int equals a Float of the same numeric value, and
// Undefined is equal only to Undefined.
func Same(a, b *Object) bool {
	for {
		if a == b {
			return true
		}
		if a == nil || b == nil {
			return false
		}
		ka, kb := a.Kind(), b.Kind()
		if ka != kb {
			if a.IsNum() && b.IsNum() {
				return a.Num() == b.Num()
			}
			return false
		}
		switch ka {
		case KindInt:
			return a.i == b.i
		case KindFloat:
			return a.f == b.f
		case KindBool:
			return a.b == b.b
		case KindUndefined:
			return true
		case KindList:
			if !Same(a.car, b.car) {
				return false
			}
			a, b = a.cdr, b.cdr
		default:
			return false
		}
	}
}
