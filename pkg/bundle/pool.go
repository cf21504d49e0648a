package bundle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"golang.org/x/text/language"

	"github.com/dmitrymomot/localizr/pkg/logger"
)

// DefaultPoolCapacity is the number of locale bundles a Pool keeps loaded.
const DefaultPoolCapacity = 32

// Pool serves one Bundle per locale. A request for a locale with no
// content falls back along the locale's parent chain ("de-CH", then "de")
// and finally to the default locale.
//
// Pool is safe for concurrent use.
type Pool struct {
	root          string
	defaultLocale language.Tag
	capacity      int
	factory       func(locale string) *Bundle
	bundleOpts    []Option
	logger        *slog.Logger

	bundles *lruCache[string, *Bundle]
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithDefaultLocale sets the locale used when neither the requested locale
// nor any of its parents has content. Invalid locales are ignored.
func WithDefaultLocale(locale string) PoolOption {
	return func(p *Pool) {
		if t, err := language.Parse(locale); err == nil {
			p.defaultLocale = t
		}
	}
}

// WithCapacity sets how many bundles stay cached.
func WithCapacity(n int) PoolOption {
	return func(p *Pool) {
		if n > 0 {
			p.capacity = n
		}
	}
}

// WithBundleFactory replaces the default per-locale bundle constructor,
// which creates a bundle rooted at root/<locale>. Use it to serve locales
// from S3 or redis prefixes.
func WithBundleFactory(fn func(locale string) *Bundle) PoolOption {
	return func(p *Pool) {
		if fn != nil {
			p.factory = fn
		}
	}
}

// WithBundleOptions sets options passed to every bundle the default
// factory creates.
func WithBundleOptions(opts ...Option) PoolOption {
	return func(p *Pool) {
		p.bundleOpts = append(p.bundleOpts, opts...)
	}
}

// WithPoolLogger sets a custom logger.
func WithPoolLogger(l *slog.Logger) PoolOption {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPool creates a pool of locale bundles stored under root.
func NewPool(root string, opts ...PoolOption) *Pool {
	p := &Pool{
		root:          root,
		defaultLocale: language.Und,
		capacity:      DefaultPoolCapacity,
		logger:        logger.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.factory == nil {
		p.factory = func(locale string) *Bundle {
			return New(filepath.Join(p.root, locale), p.bundleOpts...)
		}
	}
	p.bundles = newLRUCache(p.capacity, func(locale string, _ *Bundle) {
		p.logger.Debug("locale bundle dropped", logger.Locale(locale))
	})
	return p
}

// Bundle returns the loaded bundle for locale or the nearest fallback.
func (p *Pool) Bundle(ctx context.Context, locale string) (*Bundle, error) {
	b, _, err := p.Resolve(ctx, locale)
	return b, err
}

// Resolve is like Bundle and also returns the locale that was served.
func (p *Pool) Resolve(ctx context.Context, locale string) (*Bundle, string, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, "", errors.Join(ErrInvalidLocale, err)
	}

	for _, candidate := range p.candidates(tag) {
		b, err := p.load(ctx, candidate)
		if err == nil {
			if candidate != tag.String() {
				p.logger.DebugContext(ctx, "locale fallback",
					logger.Locale(locale),
					slog.String("resolved", candidate),
				)
			}
			return b, candidate, nil
		}
		if errors.Is(err, ErrRootNotFound) || errors.Is(err, ErrNoContent) {
			continue
		}
		return nil, "", err
	}
	return nil, "", errors.Join(ErrLoad, fmt.Errorf("%w: no content for locale %q", ErrRootNotFound, locale))
}

// Len returns the number of cached bundles.
func (p *Pool) Len() int {
	return p.bundles.len()
}

func (p *Pool) load(ctx context.Context, locale string) (*Bundle, error) {
	b, _ := p.bundles.getOrAdd(locale, func() *Bundle { return p.factory(locale) })
	if err := b.Load(ctx); err != nil {
		// Failures stick to the bundle; drop it so a later request retries.
		p.bundles.removeIf(locale, func(cached *Bundle) bool { return cached == b })
		return nil, err
	}
	return b, nil
}

// candidates lists tag, its parents and then the default locale with its
// parents, without duplicates and without the root locale.
func (p *Pool) candidates(tag language.Tag) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(t language.Tag) {
		for ; t != language.Und; t = t.Parent() {
			s := t.String()
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	add(tag)
	add(p.defaultLocale)
	return out
}
