// Package metadata wraps a content store so that every scalar it returns
// remembers its verbatim stored text. Renderers use that text for edit
// annotations.
package metadata

import (
	"context"

	"github.com/dmitrymomot/localizr/pkg/bundle"
	"github.com/dmitrymomot/localizr/pkg/content"
)

// Decorator delegates to an inner store and decorates the values it returns.
// It implements bundle.Store, so decorators compose.
type Decorator struct {
	inner bundle.Store
}

// Decorate wraps inner.
func Decorate(inner bundle.Store) *Decorator {
	return &Decorator{inner: inner}
}

// Load loads the inner store.
func (d *Decorator) Load(ctx context.Context) error {
	return d.inner.Load(ctx)
}

// Get returns the inner store's value with every scalar leaf carrying its
// original text. Shape and order are unchanged.
func (d *Decorator) Get(ctx context.Context, key string) (content.Value, error) {
	v, err := d.inner.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return decorate(v), nil
}

// Unwrap returns the wrapped store.
func (d *Decorator) Unwrap() bundle.Store {
	return d.inner
}

func decorate(v content.Value) content.Value {
	switch val := v.(type) {
	case content.Scalar:
		if !val.Decorated {
			val.Original = val.Text
			val.Decorated = true
		}
		return val
	case *content.List:
		out := &content.List{Items: make([]content.Value, len(val.Items))}
		for i, item := range val.Items {
			out.Items[i] = decorate(item)
		}
		return out
	case *content.Mapping:
		out := &content.Mapping{Entries: make([]content.Entry, len(val.Entries))}
		for i, e := range val.Entries {
			out.Entries[i] = content.Entry{Key: e.Key, Value: decorate(e.Value)}
		}
		return out
	default:
		return v
	}
}
