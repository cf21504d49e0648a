package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/dmitrymomot/localizr"
	"github.com/dmitrymomot/localizr/pkg/bundle"
	"github.com/dmitrymomot/localizr/pkg/config"
	"github.com/dmitrymomot/localizr/pkg/engine"
	"github.com/dmitrymomot/localizr/pkg/logger"
	"github.com/dmitrymomot/localizr/pkg/metadata"
	"github.com/dmitrymomot/localizr/pkg/render"
	"github.com/dmitrymomot/localizr/pkg/tag"
)

// RenderCmd renders a template.
type RenderCmd struct {
	Src         string       `arg:"" help:"Template to render" type:"existingfile"`
	Content     ContentFlags `embed:""`
	Out         string       `short:"o" help:"Output file (default: stdout)" type:"path"`
	Edit        bool         `help:"Wrap content in <edit> annotations"`
	DropUnknown bool         `help:"Drop tags that are not content tags instead of copying them"`
	Strict      bool         `help:"Exit with an error when any tag fails"`
}

func (c *RenderCmd) Run(ctx context.Context, log *slog.Logger, kctx *kong.Context) error {
	var cfg engine.Config
	if err := config.Load(&cfg); err != nil {
		return err
	}

	b, closeFn, err := openBundle(ctx, c.Content, log)
	if err != nil {
		return err
	}
	defer closeFn()

	var w io.Writer = kctx.Stdout
	if c.Out != "" {
		f, err := os.Create(c.Out)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	opts := localizr.Options{
		Src:      c.Src,
		Store:    b,
		Editable: c.Edit,
		Engine:   cfg,
		Logger:   log,
	}
	if c.DropUnknown {
		opts.UnknownTags = engine.Drop
	}
	var failed []error
	opts.ErrorHandler = func(err *engine.TagError) {
		if err.Failed() {
			failed = append(failed, err)
		}
	}

	stats, err := localizr.Render(ctx, opts, w)
	if err != nil {
		return err
	}
	log.Info("template rendered",
		logger.DocumentID(stats.DocumentID),
		logger.Count("tags", stats.Tags),
		logger.Count("failed", stats.Failed),
		logger.Count("warnings", stats.Warnings),
	)
	if c.Strict && len(failed) > 0 {
		return errors.Join(failed...)
	}
	return nil
}

// GetCmd prints one value.
type GetCmd struct {
	Key     string       `arg:"" help:"Dotted content key"`
	Content ContentFlags `embed:""`
	Mode    string       `short:"m" help:"Output mode" enum:"plain,json,paired" default:"plain"`
	Sep     string       `help:"Separator between list and mapping items in plain mode (default: newline)"`
	Edit    bool         `help:"Wrap content in <edit> annotations"`
}

func (c *GetCmd) Run(ctx context.Context, log *slog.Logger, kctx *kong.Context) error {
	b, closeFn, err := openBundle(ctx, c.Content, log)
	if err != nil {
		return err
	}
	defer closeFn()

	var store bundle.Getter = b
	if c.Edit {
		store = metadata.Decorate(b)
	}
	v, err := store.Get(ctx, c.Key)
	if err != nil {
		return err
	}

	sep := c.Sep
	if sep == "" {
		sep = "\n"
	}
	d, warnings := tag.ParseDescriptor(map[string]any{
		tag.AttrKey:      c.Key,
		tag.AttrMode:     c.Mode,
		tag.AttrSep:      sep,
		tag.AttrEditable: c.Edit,
	})
	for _, w := range warnings {
		log.Warn("attribute ignored", logger.Error(w))
	}

	text, err := render.Render(v, d)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(kctx.Stdout, text)
	return err
}

// KeysCmd lists bundle keys.
type KeysCmd struct {
	Content ContentFlags `embed:""`
}

func (c *KeysCmd) Run(ctx context.Context, log *slog.Logger, kctx *kong.Context) error {
	b, closeFn, err := openBundle(ctx, c.Content, log)
	if err != nil {
		return err
	}
	defer closeFn()

	keys, err := b.Keys()
	if err != nil {
		return err
	}
	for _, k := range keys {
		if _, err := fmt.Fprintln(kctx.Stdout, k); err != nil {
			return err
		}
	}
	return nil
}
