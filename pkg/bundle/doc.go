// Package bundle loads localized content from a root and serves structured
// values by key.
//
// A root is either a single content file or a directory. Keys from a file
// root are un-namespaced. Keys from a directory root are prefixed with the
// file's path relative to the root, extension removed and separators
// replaced by dots, so "handler/index.properties" contributes keys under
// "handler.index".
//
// Supported formats are Java-style .properties (with dotted and bracketed
// keys), JSON and YAML. Object stores are supported through S3Source and
// RedisSource.
//
// Basic usage:
//
//	b := bundle.New("locales/en-US")
//	if err := b.Load(ctx); err != nil {
//		return err
//	}
//	v, err := b.Get(ctx, "index.greeting")
//
// Per-locale bundles with fallback along the locale's parent chain are
// served by Pool:
//
//	pool := bundle.NewPool("locales", bundle.WithDefaultLocale("en-US"))
//	b, err := pool.Bundle(ctx, "de-CH")
package bundle
