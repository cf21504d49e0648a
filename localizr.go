package localizr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dmitrymomot/localizr/pkg/bundle"
	"github.com/dmitrymomot/localizr/pkg/engine"
	"github.com/dmitrymomot/localizr/pkg/logger"
	"github.com/dmitrymomot/localizr/pkg/metadata"
	"github.com/dmitrymomot/localizr/pkg/tag"
)

// Options describes one render.
type Options struct {
	// Src is the template path.
	Src string

	// Props is the content root: a file, or a directory of content files.
	// With Locale set it is the parent of one directory per locale.
	Props string

	// Store serves content in place of Props and must already be loaded.
	Store bundle.Store

	// Locale selects <Props>/<Locale>, falling back along its parents and
	// then to DefaultLocale.
	Locale        string
	DefaultLocale string

	// Editable wraps rendered content in <edit> annotations.
	Editable bool

	UnknownTags  engine.UnknownTagPolicy
	Engine       engine.Config
	ErrorHandler engine.ErrorHandler
	Logger       *slog.Logger
}

func (o Options) validate() error {
	switch {
	case o.Src == "":
		return fmt.Errorf("%w: template path is empty", ErrInvalidOptions)
	case o.Props == "" && o.Store == nil:
		return fmt.Errorf("%w: content root is empty", ErrInvalidOptions)
	}
	return nil
}

// Render loads the content in opts.Props and writes the template at
// opts.Src to w with every content tag resolved.
func Render(ctx context.Context, opts Options, w io.Writer) (engine.Stats, error) {
	if err := opts.validate(); err != nil {
		return engine.Stats{}, err
	}
	if w == nil {
		return engine.Stats{}, fmt.Errorf("%w: output writer is nil", ErrInvalidOptions)
	}

	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	store, err := loadStore(ctx, opts, log)
	if err != nil {
		return engine.Stats{}, err
	}
	if opts.Editable {
		store = metadata.Decorate(store)
	}

	f, err := os.Open(opts.Src)
	if err != nil {
		return engine.Stats{}, errors.Join(ErrFailedToOpenTemplate, err)
	}
	defer f.Close()

	engineOpts := []engine.Option{
		engine.WithConfig(opts.Engine),
		engine.WithLogger(log.With(logger.Component("engine"))),
		engine.WithErrorHandler(opts.ErrorHandler),
	}
	if opts.UnknownTags != "" {
		engineOpts = append(engineOpts, engine.WithUnknownTagPolicy(opts.UnknownTags))
	}

	return engine.New(store, engineOpts...).Run(ctx, tag.NewScanner(f), w)
}

func loadStore(ctx context.Context, opts Options, log *slog.Logger) (bundle.Store, error) {
	if opts.Store != nil {
		return opts.Store, nil
	}
	bundleLog := log.With(logger.Component("bundle"))

	if opts.Locale == "" {
		b := bundle.New(opts.Props, bundle.WithLogger(bundleLog))
		if err := b.Load(ctx); err != nil {
			return nil, err
		}
		return b, nil
	}

	pool := bundle.NewPool(opts.Props,
		bundle.WithDefaultLocale(opts.DefaultLocale),
		bundle.WithBundleOptions(bundle.WithLogger(bundleLog)),
		bundle.WithPoolLogger(bundleLog),
	)
	return pool.Bundle(ctx, opts.Locale)
}
