// Package content defines the shape of a resolved localization value.
//
// A Value is one of four variants: Scalar, *List, *Mapping or Missing. Lists and
// mappings keep the order of the underlying store and may nest arbitrarily. Every
// consumer is expected to switch over the variants exhaustively:
//
//	switch v := value.(type) {
//	case content.Scalar:
//	case *content.List:
//	case *content.Mapping:
//	case content.Missing:
//	}
//
// The package also owns the small pure helpers shared by the bundle and the
// renderer: Units decomposes a value into addressable pieces, Unescape decodes
// property-style escape sequences and Sentinel formats the placeholder emitted
// for keys that have no value.
package content
