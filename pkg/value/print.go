package value

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// String renders o in FP notation: <e1 e2 ...> for lists, %d for Int,
// 9 significant digits for Float, T/F for Bool and ? for Undefined.
func (o *Object) String() string {
	var b strings.Builder
	writeTo(&b, o)
	return b.String()
}

// Fprint writes the textual form of o to w.
func Fprint(w io.Writer, o *Object) error {
	_, err := io.WriteString(w, o.String())
	return err
}

func writeTo(b *strings.Builder, o *Object) {
	if o == nil {
		return
	}
	switch o.Kind() {
	case KindInt:
		b.WriteString(strconv.FormatInt(o.i, 10))
	case KindFloat:
		b.WriteString(fmt.Sprintf("%.9g", o.f))
	case KindBool:
		if o.b {
			b.WriteByte('T')
		} else {
			b.WriteByte('F')
		}
	case KindUndefined:
		b.WriteByte('?')
	case KindList:
		b.WriteByte('<')
		for p, first := o, true; p != nil && p.car != nil; p, first = p.cdr, false {
			if !first {
				b.WriteByte(' ')
			}
			writeTo(b, p.car)
		}
		b.WriteByte('>')
	}
}
