package bundle

import (
	"context"
	"path"
	"strings"

	"github.com/dmitrymomot/localizr/pkg/content"
)

// Parser turns the raw bytes of one content file into a mapping.
type Parser interface {
	// Parse returns the file's keys in document order. Values are stored
	// in property escape form and decoded at render time. Formats whose
	// decoder already resolves escapes store content.Escape of the text.
	Parse(ctx context.Context, data []byte) (*content.Mapping, error)

	// SupportsFileExtension reports whether the parser handles ext. The
	// extension may or may not include a leading dot.
	SupportsFileExtension(ext string) bool
}

// DefaultParsers lists the parsers tried, in order, for a content file.
func DefaultParsers() []Parser {
	return []Parser{NewPropertiesParser(), NewJSONParser(), NewYAMLParser()}
}

// ParserForFile returns the first parser in parsers that supports the
// extension of name, or nil.
func ParserForFile(name string, parsers []Parser) Parser {
	ext := path.Ext(name)
	if ext == "" {
		return nil
	}
	for _, p := range parsers {
		if p.SupportsFileExtension(ext) {
			return p
		}
	}
	return nil
}

// namespace converts a slash-separated relative file path into a dotted key
// prefix: "handler/index.properties" becomes "handler.index".
func namespace(rel string) string {
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	return strings.ReplaceAll(strings.Trim(rel, "/"), "/", ".")
}

// nest places m under the dotted prefix ns inside a fresh root mapping.
func nest(ns string, m *content.Mapping) *content.Mapping {
	if ns == "" {
		return m
	}
	parts := strings.Split(ns, ".")
	root := content.NewMapping()
	cur := root
	for _, p := range parts[:len(parts)-1] {
		next := content.NewMapping()
		cur.Set(p, next)
		cur = next
	}
	cur.Set(parts[len(parts)-1], m)
	return root
}
