package preview

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/localizr/pkg/bundle"
	"github.com/dmitrymomot/localizr/pkg/engine"
	"github.com/dmitrymomot/localizr/pkg/logger"
	"github.com/dmitrymomot/localizr/pkg/metadata"
	"github.com/dmitrymomot/localizr/pkg/tag"
)

// Bundles returns the loaded bundle for a locale together with the locale
// actually served. *bundle.Pool implements it.
type Bundles interface {
	Resolve(ctx context.Context, locale string) (*bundle.Bundle, string, error)
}

// Handler renders templates from an fs.FS.
type Handler struct {
	templates     fs.FS
	bundles       Bundles
	defaultLocale string
	index         string
	engineOpts    []engine.Option
	checks        []Check
	logger        *slog.Logger
	router        chi.Router
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithDefaultLocale sets the locale used when a request names none.
func WithDefaultLocale(locale string) HandlerOption {
	return func(h *Handler) {
		if locale != "" {
			h.defaultLocale = locale
		}
	}
}

// WithIndexTemplate sets the template served for "/".
func WithIndexTemplate(name string) HandlerOption {
	return func(h *Handler) {
		if name != "" {
			h.index = name
		}
	}
}

// WithEngineOptions sets options for the engine rendering each request.
func WithEngineOptions(opts ...engine.Option) HandlerOption {
	return func(h *Handler) {
		h.engineOpts = append(h.engineOpts, opts...)
	}
}

// WithReadinessCheck adds a dependency to /health/ready.
func WithReadinessCheck(name string, fn func(context.Context) error) HandlerOption {
	return func(h *Handler) {
		if fn != nil {
			h.checks = append(h.checks, Check{Name: name, Fn: fn})
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHandler creates a Handler serving templates with content from bundles.
func NewHandler(templates fs.FS, bundles Bundles, opts ...HandlerOption) *Handler {
	h := &Handler{
		templates:     templates,
		bundles:       bundles,
		defaultLocale: "en",
		index:         "index.html",
		logger:        logger.Discard(),
	}
	for _, opt := range opts {
		opt(h)
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", LivenessHandler())
		r.Get("/ready", ReadinessHandler(h.logger, h.checks...))
	})
	r.Get("/*", h.render)
	h.router = r
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	name := strings.TrimSuffix(chi.URLParam(r, "*"), "/")
	if name == "" {
		name = h.index
	}
	if !fs.ValidPath(name) {
		http.Error(w, "invalid template path", http.StatusBadRequest)
		return
	}

	f, err := h.templates.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		h.fail(w, r, http.StatusInternalServerError, "failed to open template", err)
		return
	}
	defer f.Close()
	if info, err := f.Stat(); err == nil && info.IsDir() {
		http.NotFound(w, r)
		return
	}

	locale := h.locale(r)
	b, served, err := h.bundles.Resolve(ctx, locale)
	switch {
	case errors.Is(err, bundle.ErrInvalidLocale):
		http.Error(w, "invalid locale", http.StatusBadRequest)
		return
	case errors.Is(err, bundle.ErrRootNotFound), errors.Is(err, bundle.ErrNoContent):
		h.fail(w, r, http.StatusNotFound, "no content for locale", err)
		return
	case err != nil:
		h.fail(w, r, http.StatusServiceUnavailable, "content unavailable", err)
		return
	}

	var store bundle.Getter = b
	if editable(r) {
		store = metadata.Decorate(b)
	}

	w.Header().Set("Content-Type", contentType(name))
	w.Header().Set("Content-Language", served)

	eng := engine.New(store, append([]engine.Option{engine.WithLogger(h.logger)}, h.engineOpts...)...)
	stats, err := eng.Run(ctx, tag.NewScanner(f), w)
	if err != nil {
		// Headers are already sent.
		h.logger.WarnContext(ctx, "render aborted",
			slog.String("template", name),
			logger.Locale(locale),
			logger.Error(err),
		)
		return
	}
	h.logger.InfoContext(ctx, "template served",
		slog.String("template", name),
		logger.Locale(served),
		logger.DocumentID(stats.DocumentID),
		logger.Count("failed", stats.Failed),
	)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, status int, msg string, err error) {
	h.logger.WarnContext(r.Context(), msg, slog.Int("status", status), logger.Error(err))
	http.Error(w, msg, status)
}

// locale picks the query parameter, then the preferred Accept-Language
// tag, then the default.
func (h *Handler) locale(r *http.Request) string {
	if l := r.URL.Query().Get("locale"); l != "" {
		return l
	}
	if tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language")); err == nil {
		for _, t := range tags {
			if t != language.Und {
				return t.String()
			}
		}
	}
	return h.defaultLocale
}

func editable(r *http.Request) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get("edit"))
	return err == nil && v
}

func contentType(name string) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return "text/html; charset=utf-8"
}
