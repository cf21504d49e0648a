package bundle_test

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/localizr/pkg/bundle"
	"github.com/dmitrymomot/localizr/pkg/content"
)

func TestPool(t *testing.T) {
	t.Parallel()
	root := writeFiles(t, map[string]string{
		"en-US/index.properties": "greeting=Hello\n",
		"de/index.properties":    "greeting=Hallo\n",
	})

	t.Run("exact locale", func(t *testing.T) {
		t.Parallel()
		pool := bundle.NewPool(root)
		b, err := pool.Bundle(context.Background(), "en-US")
		require.NoError(t, err)
		v, err := b.Get(context.Background(), "index.greeting")
		require.NoError(t, err)
		assert.Equal(t, content.Scalar{Text: "Hello"}, v)
	})

	t.Run("falls back to parent locale", func(t *testing.T) {
		t.Parallel()
		pool := bundle.NewPool(root)
		b, err := pool.Bundle(context.Background(), "de-CH")
		require.NoError(t, err)
		v, err := b.Get(context.Background(), "index.greeting")
		require.NoError(t, err)
		assert.Equal(t, content.Scalar{Text: "Hallo"}, v)
	})

	t.Run("falls back to default locale", func(t *testing.T) {
		t.Parallel()
		pool := bundle.NewPool(root, bundle.WithDefaultLocale("en-US"))
		b, err := pool.Bundle(context.Background(), "fr-FR")
		require.NoError(t, err)
		v, err := b.Get(context.Background(), "index.greeting")
		require.NoError(t, err)
		assert.Equal(t, content.Scalar{Text: "Hello"}, v)
	})

	t.Run("resolve reports the served locale", func(t *testing.T) {
		t.Parallel()
		pool := bundle.NewPool(root, bundle.WithDefaultLocale("en-US"))
		tests := map[string]string{"en-US": "en-US", "de-CH": "de", "fr-FR": "en-US"}
		for requested, want := range tests {
			_, served, err := pool.Resolve(context.Background(), requested)
			require.NoError(t, err)
			assert.Equal(t, want, served, "requested %s", requested)
		}
	})

	t.Run("no content anywhere", func(t *testing.T) {
		t.Parallel()
		pool := bundle.NewPool(root)
		_, err := pool.Bundle(context.Background(), "fr-FR")
		assert.ErrorIs(t, err, bundle.ErrLoad)
		assert.ErrorIs(t, err, bundle.ErrRootNotFound)
	})

	t.Run("invalid locale", func(t *testing.T) {
		t.Parallel()
		pool := bundle.NewPool(root)
		_, err := pool.Bundle(context.Background(), "not a locale!")
		assert.ErrorIs(t, err, bundle.ErrInvalidLocale)
	})

	t.Run("bundles are cached", func(t *testing.T) {
		t.Parallel()
		pool := bundle.NewPool(root)
		first, err := pool.Bundle(context.Background(), "en-US")
		require.NoError(t, err)
		second, err := pool.Bundle(context.Background(), "en-US")
		require.NoError(t, err)
		assert.Same(t, first, second)
	})
}

func TestPoolCapacity(t *testing.T) {
	t.Parallel()
	var created atomic.Int32
	factory := func(locale string) *bundle.Bundle {
		created.Add(1)
		m := content.NewMapping()
		m.Set("locale", content.Scalar{Text: locale})
		return bundle.New(locale, bundle.WithSource(&bundle.MapSource{Data: m}))
	}
	pool := bundle.NewPool("", bundle.WithCapacity(2), bundle.WithBundleFactory(factory))

	for _, locale := range []string{"en", "de", "fr"} {
		b, err := pool.Bundle(context.Background(), locale)
		require.NoError(t, err)
		v, err := b.Get(context.Background(), "locale")
		require.NoError(t, err)
		assert.Equal(t, content.Scalar{Text: locale}, v)
	}
	assert.Equal(t, 2, pool.Len())
	assert.Equal(t, int32(3), created.Load())

	// "en" was evicted and is created again.
	_, err := pool.Bundle(context.Background(), "en")
	require.NoError(t, err)
	assert.Equal(t, int32(4), created.Load())

	// "fr" is still cached.
	_, err = pool.Bundle(context.Background(), "fr")
	require.NoError(t, err)
	assert.Equal(t, int32(4), created.Load())
}

func TestPoolRetriesFailedLocales(t *testing.T) {
	t.Parallel()
	root := writeFiles(t, map[string]string{
		"en/index.properties": "greeting=Hello\n",
	})
	pool := bundle.NewPool(root)

	_, err := pool.Bundle(context.Background(), "pt")
	require.ErrorIs(t, err, bundle.ErrRootNotFound)
	assert.Equal(t, 0, pool.Len())

	require.NoError(t, os.MkdirAll(filepath.Join(root, "pt"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "pt", "index.properties"), []byte("greeting=Olá\n"), 0o600))

	b, err := pool.Bundle(context.Background(), "pt")
	require.NoError(t, err)
	v, err := b.Get(context.Background(), "index.greeting")
	require.NoError(t, err)
	assert.Equal(t, content.Scalar{Text: "Olá"}, v)
	assert.Equal(t, 1, pool.Len())
}
