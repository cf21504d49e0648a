// Package tag describes localization tags as they arrive from a document and
// turns their raw attributes into a typed Descriptor.
//
// A tag source delivers Segments: literal text spans and Tags, in document order.
// Scanner is a ready-made source for the `{@pre type="content" key="..." /}`
// notation; any other scanner can feed the engine by implementing Source.
//
// ParseDescriptor never fails. Attributes it cannot understand fall back to
// their defaults and are reported as *Warning values so callers may log them:
//
//	desc, warnings := tag.ParseDescriptor(t.Attrs)
//	for _, w := range warnings {
//		log.Warn("tag attribute ignored", logger.Error(w))
//	}
package tag
