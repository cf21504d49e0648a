package render

import (
	"strconv"
	"strings"

	"github.com/dmitrymomot/localizr/pkg/content"
	"github.com/dmitrymomot/localizr/pkg/tag"
)

const (
	idxToken = "$idx"
	keyToken = "$key"
)

// Render renders v under the attributes of d.
func Render(v content.Value, d tag.Descriptor) (string, error) {
	if v == nil {
		v = content.Missing{Key: d.Key}
	}

	switch d.Mode {
	case tag.ModeJSON:
		return renderJSON(v, false)
	case tag.ModePaired:
		// A lone scalar has no index or key to pair with.
		if s, ok := v.(content.Scalar); ok {
			return content.Unescape(s.Text), nil
		}
		return renderJSON(v, true)
	default:
		return renderPlain(v, d)
	}
}

// leaf is a scalar reached while flattening a value, with the unit that
// binds its $idx/$key placeholders.
type leaf struct {
	addr   string
	unit   content.Unit
	scalar content.Scalar
}

func renderPlain(v content.Value, d tag.Descriptor) (string, error) {
	if m, ok := v.(content.Missing); ok {
		key := m.Key
		if key == "" {
			key = d.Key
		}
		return content.Sentinel(key), nil
	}

	var leaves []leaf
	if err := collect(v, d.Key, content.Unit{Index: -1}, &leaves); err != nil {
		return "", err
	}

	var b strings.Builder
	for i, l := range leaves {
		if i > 0 {
			b.WriteString(d.Sep)
		}
		text := content.Unescape(substitute(l.scalar.Text, l.unit))
		if d.Editable && l.scalar.Decorated {
			text = annotate(l.addr, l.scalar.Original, text)
		}
		b.WriteString(substitute(d.Before, l.unit))
		b.WriteString(text)
		b.WriteString(substitute(d.After, l.unit))
	}
	return b.String(), nil
}

// collect flattens v into leaves in store order. Nested lists and mappings
// extend the address, so states[CA][name] identifies a leaf two levels down.
func collect(v content.Value, addr string, unit content.Unit, out *[]leaf) error {
	switch val := v.(type) {
	case content.Scalar:
		*out = append(*out, leaf{addr: addr, unit: unit, scalar: val})
		return nil
	case *content.List, *content.Mapping:
		for _, u := range content.Units(val) {
			if err := collect(u.Value, u.Address(addr), u, out); err != nil {
				return err
			}
		}
		return nil
	case content.Missing:
		return ErrUnsupportedShape
	default:
		return ErrUnsupportedShape
	}
}

func substitute(s string, u content.Unit) string {
	switch {
	case u.Indexed():
		return strings.ReplaceAll(s, idxToken, strconv.Itoa(u.Index))
	case u.Keyed():
		return strings.ReplaceAll(s, keyToken, u.Key)
	default:
		return s
	}
}
