package render

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/dmitrymomot/localizr/pkg/content"
)

// renderJSON encodes v as JSON, or as an $id/$elt pair array when paired is set.
// A missing value renders as nothing.
func renderJSON(v content.Value, paired bool) (string, error) {
	if _, ok := v.(content.Missing); ok {
		return "", nil
	}
	var b strings.Builder
	if err := writeJSON(&b, v, content.Unit{Index: -1}, paired); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeJSON(b *strings.Builder, v content.Value, unit content.Unit, paired bool) error {
	switch val := v.(type) {
	case content.Scalar:
		s, err := quote(content.Unescape(substitute(val.Text, unit)))
		if err != nil {
			return err
		}
		b.WriteString(s)
	case *content.List:
		if paired {
			return writePairs(b, content.Units(val))
		}
		b.WriteByte('[')
		for i, u := range content.Units(val) {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := writeJSON(b, u.Value, u, false); err != nil {
				return err
			}
		}
		b.WriteByte(']')
	case *content.Mapping:
		if paired {
			return writePairs(b, content.Units(val))
		}
		b.WriteByte('{')
		for i, u := range content.Units(val) {
			if i > 0 {
				b.WriteByte(',')
			}
			k, err := quote(u.Key)
			if err != nil {
				return err
			}
			b.WriteString(k)
			b.WriteByte(':')
			if err := writeJSON(b, u.Value, u, false); err != nil {
				return err
			}
		}
		b.WriteByte('}')
	case content.Missing:
		b.WriteString("null")
	default:
		b.WriteString("null")
	}
	return nil
}

// writePairs writes [{"$id":id,"$elt":value},...]. Nested lists and mappings
// become nested pair arrays.
func writePairs(b *strings.Builder, units []content.Unit) error {
	b.WriteByte('[')
	for i, u := range units {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(`{"$id":`)
		if u.Indexed() {
			b.WriteString(strconv.Itoa(u.Index))
		} else {
			k, err := quote(u.Key)
			if err != nil {
				return err
			}
			b.WriteString(k)
		}
		b.WriteString(`,"$elt":`)
		if err := writeJSON(b, u.Value, u, true); err != nil {
			return err
		}
		b.WriteByte('}')
	}
	b.WriteByte(']')
	return nil
}

// quote encodes s as a JSON string without HTML escaping.
func quote(s string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
