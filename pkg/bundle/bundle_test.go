package bundle_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/localizr/pkg/bundle"
	"github.com/dmitrymomot/localizr/pkg/content"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, data := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(data), 0o644))
	}
	return dir
}

func TestBundleFileRoot(t *testing.T) {
	t.Parallel()
	dir := writeFiles(t, map[string]string{
		"index.properties": "greeting=Hello\nstate[CA]=California\n",
	})

	b := bundle.New(filepath.Join(dir, "index.properties"))
	assert.Equal(t, filepath.Join(dir, "index.properties"), b.Root())
	require.NoError(t, b.Load(context.Background()))
	assert.True(t, b.Loaded())

	v, err := b.Get(context.Background(), "greeting")
	require.NoError(t, err)
	assert.Equal(t, content.Scalar{Text: "Hello"}, v)

	v, err = b.Get(context.Background(), "state.CA")
	require.NoError(t, err)
	assert.Equal(t, content.Scalar{Text: "California"}, v)
}

func TestBundleDirectoryRoot(t *testing.T) {
	t.Parallel()
	dir := writeFiles(t, map[string]string{
		"index.properties":           "greeting=Hello\n",
		"handler/index.properties":   "names[0]=Larry\nnames[1]=Moe\n",
		"handler/widgets/menu.json":  `{"title": "Menu"}`,
		"handler/widgets/footer.yml": "copyright: ACME\n",
		"README.md":                  "ignored",
	})

	b := bundle.New(dir)
	require.NoError(t, b.Load(context.Background()))

	tests := []struct {
		key  string
		want content.Value
	}{
		{"index.greeting", content.Scalar{Text: "Hello"}},
		{"handler.index.names", &content.List{Items: []content.Value{content.Scalar{Text: "Larry"}, content.Scalar{Text: "Moe"}}}},
		{"handler.widgets.menu.title", content.Scalar{Text: "Menu"}},
		{"handler.widgets.footer.copyright", content.Scalar{Text: "ACME"}},
		{"greeting", content.Missing{Key: "greeting"}},
	}
	for _, tt := range tests {
		v, err := b.Get(context.Background(), tt.key)
		require.NoError(t, err, tt.key)
		assert.Equal(t, tt.want, v, tt.key)
	}

	keys, err := b.Keys()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"index.greeting",
		"handler.index.names",
		"handler.widgets.menu.title",
		"handler.widgets.footer.copyright",
	}, keys)
}

func TestBundleMissingKey(t *testing.T) {
	t.Parallel()
	m := content.NewMapping()
	m.Set("a", content.Scalar{Text: "1"})
	b := bundle.New("memory", bundle.WithSource(&bundle.MapSource{Data: m}))
	require.NoError(t, b.Load(context.Background()))

	v, err := b.Get(context.Background(), "nope.deeper")
	require.NoError(t, err)
	assert.Equal(t, content.Missing{Key: "nope.deeper"}, v)
	assert.True(t, content.IsMissing(v))
}

func TestBundleGetBeforeLoad(t *testing.T) {
	t.Parallel()
	b := bundle.New("unused")

	_, err := b.Get(context.Background(), "a")
	assert.ErrorIs(t, err, bundle.ErrNotLoaded)

	_, err = b.Keys()
	assert.ErrorIs(t, err, bundle.ErrNotLoaded)
	assert.False(t, b.Loaded())
}

func TestBundleLoadErrors(t *testing.T) {
	t.Parallel()

	t.Run("empty root", func(t *testing.T) {
		t.Parallel()
		err := bundle.New("").Load(context.Background())
		assert.ErrorIs(t, err, bundle.ErrLoad)
		assert.ErrorIs(t, err, bundle.ErrEmptyRoot)
	})

	t.Run("nonexistent root", func(t *testing.T) {
		t.Parallel()
		err := bundle.New(filepath.Join(t.TempDir(), "nope")).Load(context.Background())
		assert.ErrorIs(t, err, bundle.ErrLoad)
		assert.ErrorIs(t, err, bundle.ErrRootNotFound)
	})

	t.Run("directory without content", func(t *testing.T) {
		t.Parallel()
		dir := writeFiles(t, map[string]string{"notes.txt": "x"})
		err := bundle.New(dir).Load(context.Background())
		assert.ErrorIs(t, err, bundle.ErrNoContent)
	})

	t.Run("unsupported file root", func(t *testing.T) {
		t.Parallel()
		dir := writeFiles(t, map[string]string{"notes.txt": "x"})
		err := bundle.New(filepath.Join(dir, "notes.txt")).Load(context.Background())
		assert.ErrorIs(t, err, bundle.ErrUnsupportedFormat)
	})

	t.Run("parse failure", func(t *testing.T) {
		t.Parallel()
		dir := writeFiles(t, map[string]string{"bad.json": "{"})
		err := bundle.New(dir).Load(context.Background())
		assert.ErrorIs(t, err, bundle.ErrFailedToParseFile)
		assert.ErrorIs(t, err, bundle.ErrFailedToParseJSON)
	})
}

func TestBundleLoadIsSticky(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{"a.properties": "k=v1\n"})
	b := bundle.New(dir)
	require.NoError(t, b.Load(context.Background()))

	// Content is read once; later changes on disk are not picked up.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.properties"), []byte("k=v2\n"), 0o644))
	require.NoError(t, b.Load(context.Background()))
	v, err := b.Get(context.Background(), "a.k")
	require.NoError(t, err)
	assert.Equal(t, content.Scalar{Text: "v1"}, v)

	missing := bundle.New(filepath.Join(t.TempDir(), "later"))
	first := missing.Load(context.Background())
	require.Error(t, first)
	require.NoError(t, os.MkdirAll(missing.Root(), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(missing.Root(), "a.properties"), []byte("k=v\n"), 0o644))
	assert.Equal(t, first, missing.Load(context.Background()))

	_, err = missing.Get(context.Background(), "a.k")
	assert.ErrorIs(t, err, bundle.ErrNotLoaded)
	assert.ErrorIs(t, err, bundle.ErrRootNotFound)
}

func TestBundleCancelledLoadIsRetried(t *testing.T) {
	t.Parallel()
	dir := writeFiles(t, map[string]string{"a.properties": "k=v\n"})
	b := bundle.New(dir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := b.Load(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, bundle.ErrLoad)
	assert.False(t, b.Loaded())

	require.NoError(t, b.Load(context.Background()))
	assert.True(t, b.Loaded())
}

func TestBundleGetReturnsCopies(t *testing.T) {
	t.Parallel()
	dir := writeFiles(t, map[string]string{"a.properties": "state[CA]=California\n"})
	b := bundle.New(dir)
	require.NoError(t, b.Load(context.Background()))

	v, err := b.Get(context.Background(), "a.state")
	require.NoError(t, err)
	v.(*content.Mapping).Set("CA", content.Scalar{Text: "changed"})

	again, err := b.Get(context.Background(), "a.state.CA")
	require.NoError(t, err)
	assert.Equal(t, content.Scalar{Text: "California"}, again)
}

func TestBundleConcurrentUse(t *testing.T) {
	t.Parallel()
	dir := writeFiles(t, map[string]string{"a.properties": "k=v\n"})
	b := bundle.New(dir)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, b.Load(context.Background()))
			v, err := b.Get(context.Background(), "a.k")
			assert.NoError(t, err)
			assert.Equal(t, content.Scalar{Text: "v"}, v)
		}()
	}
	wg.Wait()
}

func TestFSSource(t *testing.T) {
	t.Parallel()
	fsys := fstest.MapFS{
		"locales/en-US/index.properties":         {Data: []byte("greeting=Hello\n")},
		"locales/en-US/handler/page.properties": {Data: []byte("title=Page\n")},
		"locales/de-DE/index.properties":         {Data: []byte("greeting=Hallo\n")},
	}

	b := bundle.New("en-US", bundle.WithSource(bundle.NewFSSource(fsys, "locales/en-US")))
	require.NoError(t, b.Load(context.Background()))

	v, err := b.Get(context.Background(), "index.greeting")
	require.NoError(t, err)
	assert.Equal(t, content.Scalar{Text: "Hello"}, v)

	v, err = b.Get(context.Background(), "handler.page.title")
	require.NoError(t, err)
	assert.Equal(t, content.Scalar{Text: "Page"}, v)

	err = bundle.New("fr", bundle.WithSource(bundle.NewFSSource(fsys, "locales/fr"))).Load(context.Background())
	assert.ErrorIs(t, err, bundle.ErrRootNotFound)
}

func TestMapSource(t *testing.T) {
	t.Parallel()
	m, err := (&bundle.MapSource{}).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, m.Len())
}
