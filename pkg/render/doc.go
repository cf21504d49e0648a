// Package render turns a resolved content value into text under the attributes
// of a localization tag.
//
// Render is pure: it performs no I/O and keeps no state. Three encodings exist.
//
//   - plain: every unit renders as before + text + after, units are joined by
//     sep. Property escapes in the stored text are decoded. Missing values
//     render as the ☃key☃ sentinel.
//   - json: the decoded text is re-encoded as JSON. Lists become arrays and
//     mappings become objects in store order.
//   - paired: like json, but every list item or mapping entry becomes
//     {"$id": index-or-key, "$elt": value}.
//
// Inside list items the token $idx is replaced by the zero-based position, inside
// mapping entries $key is replaced by the entry key. Substitution applies to the
// stored text and to before/after, never to sep.
//
// Scalars carrying metadata (see package metadata) are wrapped in an
// <edit data-key="..." data-original="..."> annotation in plain mode when the
// tag is editable.
package render
