package logger

import (
	"log/slog"
	"strconv"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Key records a content key under the key "content_key".
func Key(key string) slog.Attr {
	return slog.String("content_key", key)
}

// Locale records a locale identifier under the key "locale".
// If locale is empty, it returns an empty Attr.
func Locale(locale string) slog.Attr {
	if locale == "" {
		return slog.Attr{}
	}
	return slog.String("locale", locale)
}

// Root records a content root under the key "root".
func Root(root string) slog.Attr {
	return slog.String("root", root)
}

// TagIndex records the position of a tag in its document under "tag_index".
func TagIndex(i int) slog.Attr {
	return slog.Int("tag_index", i)
}

// Mode records a render mode under the key "mode".
func Mode(mode string) slog.Attr {
	return slog.String("mode", mode)
}

// State records a tag lifecycle state under the key "state".
func State(state string) slog.Attr {
	return slog.String("state", state)
}

// DocumentID records the document identifier under the key "document_id".
// If id is nil, it returns an empty Attr.
func DocumentID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("document_id", id)
}

// Count records a count under the given key.
func Count(key string, n int) slog.Attr {
	return slog.Int(key, n)
}

// Duration records a duration under the key "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
