package value

import (
	"encoding/json"
	"fmt"
	"math"
)

// ToJSON marshals o to JSON. Ints and Floats become numbers, Bools become
// booleans, lists become arrays and Undefined becomes null.
func ToJSON(o *Object) ([]byte, error) {
	raw, err := toRaw(o)
	if err != nil {
		return nil, err
	}
	return json.Marshal(raw)
}

func toRaw(o *Object) (any, error) {
	if o == nil {
		return nil, nil
	}

	switch o.Kind() {
	case KindUndefined:
		return nil, nil

	case KindBool:
		return o.b, nil

	case KindInt:
		return o.i, nil

	case KindFloat:
		if math.IsInf(o.f, 0) || math.IsNaN(o.f) {
			return nil, fmt.Errorf("value: %v has no JSON form", o.f)
		}
		return o.f, nil

	case KindList:
		items := make([]any, 0, o.Len())
		for _, e := range o.Elements() {
			raw, err := toRaw(e)
			if err != nil {
				return nil, err
			}
			items = append(items, raw)
		}
		return items, nil
	}

	return nil, fmt.Errorf("value: cannot encode %s", o.kind)
}
