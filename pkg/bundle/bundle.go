package bundle

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/localizr/pkg/content"
	"github.com/dmitrymomot/localizr/pkg/logger"
)

// Getter resolves content keys to structured values.
type Getter interface {
	Get(ctx context.Context, key string) (content.Value, error)
}

// Store is a Getter that must be loaded before use.
type Store interface {
	Getter
	Load(ctx context.Context) error
}

// Bundle serves the content stored under one root.
//
// A Bundle does no I/O until Load. Load is idempotent: once it has
// succeeded, later calls return nil; once it has failed, later calls return
// the same error. A load interrupted by context cancellation is not
// remembered and may be retried.
//
// Bundle is safe for concurrent use.
type Bundle struct {
	root    string
	source  Source
	parsers []Parser
	logger  *slog.Logger

	mu     sync.RWMutex
	loaded bool
	err    error
	data   *content.Mapping
}

// New creates a bundle for root. Without WithSource the root is treated as
// a path on the local disk: a file or a directory.
func New(root string, opts ...Option) *Bundle {
	b := &Bundle{
		root:   root,
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if len(b.parsers) == 0 {
		b.parsers = DefaultParsers()
	}
	return b
}

// Root returns the root the bundle was created with.
func (b *Bundle) Root() string {
	return b.root
}

// Loaded reports whether Load has completed successfully.
func (b *Bundle) Loaded() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.loaded && b.err == nil
}

// Load reads the whole content root into memory.
func (b *Bundle) Load(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.loaded {
		return b.err
	}

	start := time.Now()
	data, err := b.load(ctx)
	if err != nil {
		err = errors.Join(ErrLoad, err)
		if ctx.Err() != nil || errors.Is(err, ErrLoadingCancelled) {
			b.logger.WarnContext(ctx, "content load cancelled", logger.Root(b.root), logger.Error(err))
			return err
		}
		b.loaded = true
		b.err = err
		b.logger.ErrorContext(ctx, "content load failed", logger.Root(b.root), logger.Error(err))
		return err
	}

	b.loaded = true
	b.data = data
	b.logger.DebugContext(ctx, "content loaded",
		logger.Root(b.root),
		logger.Count("keys", data.Len()),
		logger.Duration(time.Since(start)),
	)
	return nil
}

func (b *Bundle) load(ctx context.Context) (*content.Mapping, error) {
	src := b.source
	if src == nil {
		detected, err := detectSource(b.root, b.parsers)
		if err != nil {
			return nil, err
		}
		src = detected
	}
	data, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = content.NewMapping()
	}
	return data, nil
}

// Get returns the value stored under the dotted key. An absent key yields
// content.Missing rather than an error. The returned value is a copy; the
// caller may modify it freely.
func (b *Bundle) Get(ctx context.Context, key string) (content.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.loaded {
		return nil, ErrNotLoaded
	}
	if b.err != nil {
		return nil, errors.Join(ErrNotLoaded, b.err)
	}

	v, ok := b.data.Lookup(key)
	if !ok || v == nil {
		return content.Missing{Key: key}, nil
	}
	if m, isMissing := v.(content.Missing); isMissing {
		m.Key = key
		return m, nil
	}
	return content.Clone(v), nil
}

// Keys returns the dotted path of every scalar and list in document order.
func (b *Bundle) Keys() ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.loaded {
		return nil, ErrNotLoaded
	}
	if b.err != nil {
		return nil, errors.Join(ErrNotLoaded, b.err)
	}

	var keys []string
	collectKeys(b.data, "", &keys)
	return keys, nil
}

func collectKeys(m *content.Mapping, prefix string, keys *[]string) {
	for _, e := range m.Entries {
		path := e.Key
		if prefix != "" {
			path = prefix + "." + e.Key
		}
		if child, ok := e.Value.(*content.Mapping); ok {
			collectKeys(child, path, keys)
			continue
		}
		*keys = append(*keys, path)
	}
}
