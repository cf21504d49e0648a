package tag

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode selects the output encoding of a tag.
type Mode string

const (
	ModePlain  Mode = "plain"
	ModeJSON   Mode = "json"
	ModePaired Mode = "paired"
)

// Attribute names understood by ParseDescriptor.
const (
	AttrType     = "type"
	AttrKey      = "key"
	AttrMode     = "mode"
	AttrSep      = "sep"
	AttrBefore   = "before"
	AttrAfter    = "after"
	AttrEditable = "editable"
)

// UndefinedKey stands in for a tag without key attribute.
const UndefinedKey = "undefined"

// Descriptor is the typed attribute set of one tag occurrence.
// Sep, Before and After only apply in ModePlain.
type Descriptor struct {
	Key      string
	Mode     Mode
	Sep      string
	Before   string
	After    string
	Editable bool
	// Resolvable is false when the key attribute was absent or not a string.
	// Such keys are never looked up and always render as missing.
	Resolvable bool
}

// ParseDescriptor builds a Descriptor from raw tag attributes.
func ParseDescriptor(attrs map[string]any) (Descriptor, []error) {
	d := Descriptor{
		Key:      UndefinedKey,
		Mode:     ModePlain,
		Editable: true,
	}
	var warnings []error

	switch k := attrs[AttrKey].(type) {
	case nil:
	case string:
		d.Key = k
		d.Resolvable = true
	default:
		d.Key = fmt.Sprint(k)
	}

	if raw, ok := attrs[AttrMode]; ok && raw != nil {
		mode, err := parseMode(raw)
		if err != nil {
			warnings = append(warnings, &Warning{Attr: AttrMode, Value: raw, Err: err})
		}
		d.Mode = mode
	}

	d.Sep = stringAttr(attrs, AttrSep)
	d.Before = stringAttr(attrs, AttrBefore)
	d.After = stringAttr(attrs, AttrAfter)

	if raw, ok := attrs[AttrEditable]; ok && raw != nil {
		editable, err := parseBool(raw)
		if err != nil {
			warnings = append(warnings, &Warning{Attr: AttrEditable, Value: raw, Err: err})
		} else {
			d.Editable = editable
		}
	}

	return d, warnings
}

// parseMode falls back to ModePlain for anything it does not recognise.
func parseMode(raw any) (Mode, error) {
	s, ok := raw.(string)
	if !ok {
		return ModePlain, ErrUnsupportedMode
	}
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeJSON:
		return ModeJSON, nil
	case ModePaired:
		return ModePaired, nil
	case ModePlain, "":
		return ModePlain, nil
	default:
		return ModePlain, ErrUnsupportedMode
	}
}

func parseBool(raw any) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return true, ErrInvalidAttribute
		}
		return b, nil
	default:
		return true, ErrInvalidAttribute
	}
}

func stringAttr(attrs map[string]any, name string) string {
	switch v := attrs[name].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
