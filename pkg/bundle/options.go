package bundle

import "log/slog"

// Option configures a Bundle.
type Option func(*Bundle)

// WithSource replaces root detection with an explicit content source.
func WithSource(src Source) Option {
	return func(b *Bundle) {
		if src != nil {
			b.source = src
		}
	}
}

// WithParsers sets the parsers used for content files found under the root.
func WithParsers(parsers ...Parser) Option {
	return func(b *Bundle) {
		b.parsers = append(b.parsers, parsers...)
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bundle) {
		if l != nil {
			b.logger = l
		}
	}
}
