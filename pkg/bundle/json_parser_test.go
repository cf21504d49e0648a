package bundle_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/localizr/pkg/bundle"
	"github.com/dmitrymomot/localizr/pkg/content"
	"github.com/dmitrymomot/localizr/pkg/render"
	"github.com/dmitrymomot/localizr/pkg/tag"
)

func renderKey(t *testing.T, m *content.Mapping, key string, mode tag.Mode) string {
	t.Helper()
	out, err := render.Render(lookup(t, m, key), tag.Descriptor{Key: key, Mode: mode, Resolvable: true})
	require.NoError(t, err)
	return out
}

func TestJSONParser(t *testing.T) {
	t.Parallel()

	t.Run("preserves order and shapes", func(t *testing.T) {
		t.Parallel()
		src := `{
			"state": {"OR": "Oregon", "CA": "California"},
			"names": ["Larry", "Moe"],
			"count": 3,
			"enabled": true,
			"nothing": null
		}`
		m, err := bundle.NewJSONParser().Parse(context.Background(), []byte(src))
		require.NoError(t, err)

		assert.Equal(t, []string{"state", "names", "count", "enabled", "nothing"}, m.Keys())
		st := lookup(t, m, "state").(*content.Mapping)
		assert.Equal(t, []string{"OR", "CA"}, st.Keys())
		assert.Equal(t, &content.List{Items: []content.Value{
			content.Scalar{Text: "Larry"},
			content.Scalar{Text: "Moe"},
		}}, lookup(t, m, "names"))
		assert.Equal(t, content.Scalar{Text: "3"}, lookup(t, m, "count"))
		assert.Equal(t, content.Scalar{Text: "true"}, lookup(t, m, "enabled"))
		assert.Equal(t, content.Missing{}, lookup(t, m, "nothing"))
	})

	t.Run("decoded escapes render verbatim", func(t *testing.T) {
		t.Parallel()
		src := `{"path":"C:\\new\\table","quote":"say \"hi\"","line":"a\nb","uni":"caf\u00e9"}`
		m, err := bundle.NewJSONParser().Parse(context.Background(), []byte(src))
		require.NoError(t, err)

		assert.Equal(t, `C:\new\table`, renderKey(t, m, "path", tag.ModePlain))
		assert.Equal(t, `"C:\\new\\table"`, renderKey(t, m, "path", tag.ModeJSON))
		assert.Equal(t, `say "hi"`, renderKey(t, m, "quote", tag.ModePlain))
		assert.Equal(t, "a\nb", renderKey(t, m, "line", tag.ModePlain))
		assert.Equal(t, "café", renderKey(t, m, "uni", tag.ModePlain))
	})

	t.Run("rejects non-object root", func(t *testing.T) {
		t.Parallel()
		_, err := bundle.NewJSONParser().Parse(context.Background(), []byte(`["a"]`))
		assert.ErrorIs(t, err, bundle.ErrFailedToParseJSON)
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		t.Parallel()
		_, err := bundle.NewJSONParser().Parse(context.Background(), []byte(`{"a":`))
		assert.ErrorIs(t, err, bundle.ErrFailedToParseJSON)
	})

	t.Run("rejects trailing data", func(t *testing.T) {
		t.Parallel()
		_, err := bundle.NewJSONParser().Parse(context.Background(), []byte(`{"a":"b"} {}`))
		assert.ErrorIs(t, err, bundle.ErrFailedToParseJSON)
	})
}

func TestYAMLParser(t *testing.T) {
	t.Parallel()

	t.Run("preserves order and shapes", func(t *testing.T) {
		t.Parallel()
		src := "state:\n  OR: Oregon\n  CA: California\nnames:\n  - Larry\n  - Moe\nempty: ~\nbase: &b hello\ncopy: *b\n"
		m, err := bundle.NewYAMLParser().Parse(context.Background(), []byte(src))
		require.NoError(t, err)

		assert.Equal(t, []string{"state", "names", "empty", "base", "copy"}, m.Keys())
		st := lookup(t, m, "state").(*content.Mapping)
		assert.Equal(t, []string{"OR", "CA"}, st.Keys())
		assert.Equal(t, 2, lookup(t, m, "names").(*content.List).Len())
		assert.Equal(t, content.Missing{}, lookup(t, m, "empty"))
		assert.Equal(t, content.Scalar{Text: "hello"}, lookup(t, m, "copy"))
	})

	t.Run("decoded escapes render verbatim", func(t *testing.T) {
		t.Parallel()
		src := "single: 'C:\\new'\ndouble: \"tab\\there\"\nplain: a\\b\n"
		m, err := bundle.NewYAMLParser().Parse(context.Background(), []byte(src))
		require.NoError(t, err)

		assert.Equal(t, `C:\new`, renderKey(t, m, "single", tag.ModePlain))
		assert.Equal(t, "tab\there", renderKey(t, m, "double", tag.ModePlain))
		assert.Equal(t, `a\b`, renderKey(t, m, "plain", tag.ModePlain))
	})

	t.Run("empty document", func(t *testing.T) {
		t.Parallel()
		m, err := bundle.NewYAMLParser().Parse(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, 0, m.Len())
	})

	t.Run("rejects non-mapping root", func(t *testing.T) {
		t.Parallel()
		_, err := bundle.NewYAMLParser().Parse(context.Background(), []byte("- a\n- b\n"))
		assert.ErrorIs(t, err, bundle.ErrFailedToParseYAML)
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		t.Parallel()
		_, err := bundle.NewYAMLParser().Parse(context.Background(), []byte("a: [b\n"))
		assert.ErrorIs(t, err, bundle.ErrFailedToParseYAML)
	})
}
