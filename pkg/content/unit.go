package content

import "strconv"

// Unit is one addressable piece of a value during rendering.
// Index is the zero-based list position, or -1 outside a list.
// Key is the entry key inside a mapping.
type Unit struct {
	Index int
	Key   string
	Value Value
}

// Indexed reports whether the unit is a list element.
func (u Unit) Indexed() bool {
	return u.Index >= 0
}

// Keyed reports whether the unit is a mapping entry.
func (u Unit) Keyed() bool {
	return u.Index < 0 && u.Key != ""
}

// Address returns the bracket address of the unit below base:
// base for a scalar, base[0] for a list element and base[CA] for a mapping entry.
func (u Unit) Address(base string) string {
	switch {
	case u.Indexed():
		return base + "[" + strconv.Itoa(u.Index) + "]"
	case u.Keyed():
		return base + "[" + u.Key + "]"
	default:
		return base
	}
}

// Units decomposes v into its units in store order. A scalar yields a
// single unaddressed unit, lists and mappings yield one unit per item.
// Missing yields nothing.
func Units(v Value) []Unit {
	switch val := v.(type) {
	case Scalar:
		return []Unit{{Index: -1, Value: val}}
	case *List:
		units := make([]Unit, 0, val.Len())
		for i, item := range val.Items {
			units = append(units, Unit{Index: i, Value: item})
		}
		return units
	case *Mapping:
		units := make([]Unit, 0, val.Len())
		for _, e := range val.Entries {
			units = append(units, Unit{Index: -1, Key: e.Key, Value: e.Value})
		}
		return units
	case Missing:
		return nil
	default:
		return nil
	}
}
