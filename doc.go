// Package localizr renders templates whose `{@pre type="content" key="..." /}`
// tags are replaced by localized content from a bundle.
//
// Content lives in .properties, .json or .yaml files. A directory root is
// namespaced by file path, so greeting.name in handler/greeting.properties is
// reachable as handler.greeting.name.
//
// Basic usage:
//
//	stats, err := localizr.Render(ctx, localizr.Options{
//		Src:   "templates/index.html",
//		Props: "locales",
//		Locale: "en-US",
//	}, os.Stdout)
//
// Render is a thin composition of the lower-level packages:
//
//   - pkg/bundle loads content and resolves keys (files, fs.FS, S3, Redis)
//   - pkg/metadata decorates values for in-place editing annotations
//   - pkg/tag scans the template into text and tags
//   - pkg/render encodes a value in plain, json or paired mode
//   - pkg/engine resolves tags concurrently and writes them in document order
//
// Programs that render many documents should build a bundle.Store and an
// engine.Engine once and call Engine.Run per document.
package localizr
