package tag_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/localizr/pkg/tag"
)

type chunkedReader struct {
	data  string
	chunk int
	pos   int
}

func (c *chunkedReader) Read(p []byte) (int, error) {
	if c.pos >= len(c.data) {
		return 0, io.EOF
	}
	n := min(c.chunk, len(c.data)-c.pos, len(p))
	copy(p, c.data[c.pos:c.pos+n])
	c.pos += n
	return n, nil
}

func collect(t *testing.T, src tag.Source) []tag.Segment {
	t.Helper()
	var segs []tag.Segment
	for {
		seg, err := src.Next(context.Background())
		if errors.Is(err, io.EOF) {
			return segs
		}
		require.NoError(t, err)
		segs = append(segs, seg)
	}
}

// join rebuilds the document, replacing tags with their key.
func join(segs []tag.Segment) string {
	var b strings.Builder
	for _, s := range segs {
		if s.IsTag() {
			b.WriteString("<" + s.Tag.Attrs["key"].(string) + ">")
			continue
		}
		b.WriteString(s.Text)
	}
	return b.String()
}

func TestScanner(t *testing.T) {
	t.Parallel()

	t.Run("splits text and tags", func(t *testing.T) {
		t.Parallel()
		segs := collect(t, tag.NewScanner(strings.NewReader(`Hello, {@pre type="content" key="name" /}!`)))
		require.Len(t, segs, 3)
		assert.Equal(t, "Hello, ", segs[0].Text)
		require.True(t, segs[1].IsTag())
		assert.Equal(t, "pre", segs[1].Tag.Name)
		assert.Equal(t, "content", segs[1].Tag.Type())
		assert.True(t, segs[1].Tag.IsContent())
		assert.Equal(t, "name", segs[1].Tag.Attrs["key"])
		assert.Equal(t, `{@pre type="content" key="name" /}`, segs[1].Tag.Raw)
		assert.Equal(t, "!", segs[2].Text)
	})

	t.Run("bare and quoted attribute values", func(t *testing.T) {
		t.Parallel()
		segs := collect(t, tag.NewScanner(strings.NewReader(
			`<ul>{@pre type=content key=states before="<li>" after="</li>" sep="a}b" /}</ul>`)))
		require.Len(t, segs, 3)
		attrs := segs[1].Tag.Attrs
		assert.Equal(t, "content", attrs["type"])
		assert.Equal(t, "states", attrs["key"])
		assert.Equal(t, "<li>", attrs["before"])
		assert.Equal(t, "</li>", attrs["after"])
		assert.Equal(t, "a}b", attrs["sep"])
	})

	t.Run("tag without space before close", func(t *testing.T) {
		t.Parallel()
		segs := collect(t, tag.NewScanner(strings.NewReader(`{@pre type="content" key="name" mode="json"/}`)))
		require.Len(t, segs, 1)
		assert.Equal(t, "json", segs[0].Tag.Attrs["mode"])
	})

	t.Run("escaped quote inside value", func(t *testing.T) {
		t.Parallel()
		segs := collect(t, tag.NewScanner(strings.NewReader(`{@pre key="say \"hi\"" /}`)))
		require.Len(t, segs, 1)
		assert.Equal(t, `say "hi"`, segs[0].Tag.Attrs["key"])
	})

	t.Run("flag attribute", func(t *testing.T) {
		t.Parallel()
		segs := collect(t, tag.NewScanner(strings.NewReader(`{@pre key=a editable /}`)))
		require.Len(t, segs, 1)
		assert.Equal(t, "true", segs[0].Tag.Attrs["editable"])
	})

	t.Run("unknown helper is text", func(t *testing.T) {
		t.Parallel()
		segs := collect(t, tag.NewScanner(strings.NewReader(`a{@eq key=x /}b`)))
		require.Len(t, segs, 3)
		assert.False(t, segs[1].IsTag())
		assert.Equal(t, "{@eq key=x /}", segs[1].Text)
	})

	t.Run("custom tag names", func(t *testing.T) {
		t.Parallel()
		segs := collect(t, tag.NewScanner(strings.NewReader(`{@msg key=x /}`), tag.WithTagNames("msg")))
		require.Len(t, segs, 1)
		assert.True(t, segs[0].IsTag())
	})

	t.Run("unterminated tag at EOF is text", func(t *testing.T) {
		t.Parallel()
		segs := collect(t, tag.NewScanner(strings.NewReader(`x {@pre key="a`)))
		assert.Equal(t, `x {@pre key="a`, join(segs))
		for _, s := range segs {
			assert.False(t, s.IsTag())
		}
	})

	t.Run("chunked input", func(t *testing.T) {
		t.Parallel()
		doc := `Hello {@pre type="content" key="first" /} and {@pre type="content" key="second" sep=", " /}{`
		for _, size := range []int{1, 2, 3, 7, 64} {
			segs := collect(t, tag.NewScanner(&chunkedReader{data: doc, chunk: size}))
			assert.Equal(t, "Hello <first> and <second>{", join(segs), "chunk size %d", size)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := tag.NewScanner(strings.NewReader("x")).Next(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestSliceSource(t *testing.T) {
	t.Parallel()
	src := &tag.SliceSource{Segments: []tag.Segment{{Text: "a"}, {Text: "b"}}}
	segs := collect(t, src)
	assert.Len(t, segs, 2)
}
