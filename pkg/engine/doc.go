// Package engine resolves localization tags in a streamed document.
//
// An Engine reads segments from a tag.Source, starts a lookup for every
// content tag as soon as the tag is read, and writes the rendered results
// to an io.Writer strictly in document order. Lookups for several tags may
// be in flight at once (bounded by MaxInFlight); a tag that resolves early
// waits until every earlier segment has been written.
//
// Each content tag moves through Pending, Resolving and Rendering to
// Emitted, or ends in Failed. A failed tag writes nothing, is reported to
// the ErrorHandler as a *TagError and does not stop the document. Tags of
// any other type are written back verbatim, or dropped with
// WithUnknownTagPolicy(Drop).
//
// Cancelling the context, or a failed write, abandons every lookup that
// has not been emitted yet; no partial output is written for them.
//
//	eng := engine.New(metadata.Decorate(b),
//		engine.WithLogger(log),
//		engine.WithErrorHandler(func(err *engine.TagError) {
//			log.Warn("tag failed", logger.Error(err))
//		}),
//	)
//	stats, err := eng.Run(ctx, tag.NewScanner(r), w)
package engine
