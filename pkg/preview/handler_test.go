package preview_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/localizr/pkg/bundle"
	"github.com/dmitrymomot/localizr/pkg/content"
	"github.com/dmitrymomot/localizr/pkg/engine"
	"github.com/dmitrymomot/localizr/pkg/preview"
)

func localeBundle(title string) *bundle.Bundle {
	app := content.NewMapping()
	app.Set("title", content.Scalar{Text: title})
	root := content.NewMapping()
	root.Set("app", app)
	return bundle.New("memory", bundle.WithSource(&bundle.MapSource{Data: root}))
}

func newPool() *bundle.Pool {
	titles := map[string]string{"en": "Hello", "de": "Hallo"}
	return bundle.NewPool("memory",
		bundle.WithDefaultLocale("en"),
		bundle.WithBundleFactory(func(locale string) *bundle.Bundle {
			title, ok := titles[locale]
			if !ok {
				return bundle.New("memory/"+locale, bundle.WithSource(failingSource{err: bundle.ErrRootNotFound}))
			}
			return localeBundle(title)
		}),
	)
}

type failingSource struct {
	err error
}

func (s failingSource) Load(context.Context) (*content.Mapping, error) {
	return nil, s.err
}

var templates = fstest.MapFS{
	"index.html":    {Data: []byte(`<h1>{@pre type="content" key="app.title" /}</h1>`)},
	"mail/body.txt": {Data: []byte(`{@pre type=content key=app.title /}{@pre type=link /}`)},
}

func serve(t *testing.T, h http.Handler, target string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandlerRender(t *testing.T) {
	t.Parallel()
	h := preview.NewHandler(templates, newPool(),
		preview.WithEngineOptions(engine.WithUnknownTagPolicy(engine.Drop)),
	)

	tests := []struct {
		name        string
		target      string
		header      map[string]string
		body        string
		language    string
		contentType string
	}{
		{name: "index with default locale", target: "/", body: "<h1>Hello</h1>", language: "en", contentType: "text/html; charset=utf-8"},
		{name: "locale query", target: "/index.html?locale=de", body: "<h1>Hallo</h1>", language: "de"},
		{name: "accept language", target: "/index.html", header: map[string]string{"Accept-Language": "de-CH, en;q=0.5"}, body: "<h1>Hallo</h1>", language: "de"},
		{name: "fallback to default", target: "/index.html?locale=fr", body: "<h1>Hello</h1>", language: "en"},
		{name: "nested template", target: "/mail/body.txt", body: "Hello"},
		{
			name:   "editable",
			target: "/index.html?edit=true",
			body:   `<h1><edit data-key="app.title" data-original="Hello">Hello</edit></h1>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := serve(t, h, tt.target, tt.header)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.body, rec.Body.String())
			assert.NotEmpty(t, rec.Header().Get(preview.RequestIDHeader))
			if tt.language != "" {
				assert.Equal(t, tt.language, rec.Header().Get("Content-Language"))
			}
			if tt.contentType != "" {
				assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
			}
		})
	}
}

func TestHandlerErrors(t *testing.T) {
	t.Parallel()

	t.Run("unknown template", func(t *testing.T) {
		t.Parallel()
		h := preview.NewHandler(templates, newPool())
		assert.Equal(t, http.StatusNotFound, serve(t, h, "/nope.html", nil).Code)
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()
		h := preview.NewHandler(templates, newPool())
		assert.Equal(t, http.StatusNotFound, serve(t, h, "/mail", nil).Code)
	})

	t.Run("invalid locale", func(t *testing.T) {
		t.Parallel()
		h := preview.NewHandler(templates, newPool())
		assert.Equal(t, http.StatusBadRequest, serve(t, h, "/index.html?locale=not_a_locale!", nil).Code)
	})

	t.Run("no content for locale", func(t *testing.T) {
		t.Parallel()
		pool := bundle.NewPool("memory", bundle.WithBundleFactory(func(locale string) *bundle.Bundle {
			return bundle.New(locale, bundle.WithSource(failingSource{err: bundle.ErrRootNotFound}))
		}))
		h := preview.NewHandler(templates, pool)
		assert.Equal(t, http.StatusNotFound, serve(t, h, "/index.html?locale=ja", nil).Code)
	})

	t.Run("backend failure", func(t *testing.T) {
		t.Parallel()
		pool := bundle.NewPool("memory", bundle.WithBundleFactory(func(locale string) *bundle.Bundle {
			return bundle.New(locale, bundle.WithSource(failingSource{err: errors.New("connection refused")}))
		}))
		h := preview.NewHandler(templates, pool)
		assert.Equal(t, http.StatusServiceUnavailable, serve(t, h, "/index.html", nil).Code)
	})
}

func TestHandlerHealth(t *testing.T) {
	t.Parallel()

	t.Run("live", func(t *testing.T) {
		t.Parallel()
		h := preview.NewHandler(templates, newPool())
		rec := serve(t, h, "/health/live", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ALIVE", rec.Body.String())
	})

	t.Run("ready", func(t *testing.T) {
		t.Parallel()
		h := preview.NewHandler(templates, newPool(),
			preview.WithReadinessCheck("store", func(context.Context) error { return nil }),
		)
		rec := serve(t, h, "/health/ready", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "READY", rec.Body.String())
	})

	t.Run("not ready", func(t *testing.T) {
		t.Parallel()
		h := preview.NewHandler(templates, newPool(),
			preview.WithReadinessCheck("store", func(context.Context) error { return nil }),
			preview.WithReadinessCheck("redis", func(context.Context) error { return errors.New("down") }),
		)
		rec := serve(t, h, "/health/ready", nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "NOT_READY", rec.Body.String())
	})
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	var seen string
	h := preview.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = preview.RequestIDFromContext(r.Context())
	}))

	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{name: "generated", incoming: "", keep: false},
		{name: "kept", incoming: "req-123_abc", keep: true},
		{name: "invalid characters", incoming: "a b/c", keep: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, h, "/", map[string]string{preview.RequestIDHeader: tt.incoming})
			got := rec.Header().Get(preview.RequestIDHeader)
			assert.NotEmpty(t, got)
			assert.Equal(t, got, seen)
			if tt.keep {
				assert.Equal(t, tt.incoming, got)
			} else {
				assert.NotEqual(t, tt.incoming, got)
			}
		})
	}

	attr, ok := preview.RequestIDExtractor(preview.WithRequestID(context.Background(), "abc"))
	require.True(t, ok)
	assert.Equal(t, "request_id", attr.Key)
	assert.Equal(t, "abc", attr.Value.String())

	_, ok = preview.RequestIDExtractor(context.Background())
	assert.False(t, ok)
}
