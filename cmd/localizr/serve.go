package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/dmitrymomot/localizr/pkg/config"
	"github.com/dmitrymomot/localizr/pkg/engine"
	"github.com/dmitrymomot/localizr/pkg/logger"
	"github.com/dmitrymomot/localizr/pkg/preview"
)

// ServeCmd runs the preview server.
type ServeCmd struct {
	Templates     string `arg:"" help:"Template directory" type:"existingdir"`
	Props         string `required:"" short:"p" help:"Content root with one entry per locale: a directory, s3://bucket/prefix or redis://host:port/db"`
	DefaultLocale string `help:"Locale used when a request names none or has no content (default: LOCALIZR_DEFAULT_LOCALE)"`
	Addr          string `help:"Listen address (default: LOCALIZR_HTTP_ADDR)"`
	DropUnknown   bool   `help:"Drop tags that are not content tags instead of copying them"`
}

func (c *ServeCmd) Run(ctx context.Context, log *slog.Logger) error {
	var srvCfg preview.Config
	if err := config.Load(&srvCfg); err != nil {
		return err
	}
	var engCfg engine.Config
	if err := config.Load(&engCfg); err != nil {
		return err
	}
	if c.DefaultLocale != "" {
		srvCfg.DefaultLocale = c.DefaultLocale
	}
	if c.Addr != "" {
		srvCfg.Addr = c.Addr
	}

	bundleLog := log.With(logger.Component("bundle"), logger.Root(c.Props))
	be, err := openBackend(ctx, c.Props, bundleLog)
	if err != nil {
		return err
	}
	defer be.close()
	pool := newPool(ContentFlags{Props: c.Props, DefaultLocale: srvCfg.DefaultLocale}, be, bundleLog)

	engineOpts := []engine.Option{engine.WithConfig(engCfg)}
	if c.DropUnknown {
		engineOpts = append(engineOpts, engine.WithUnknownTagPolicy(engine.Drop))
	}
	handlerOpts := append(srvCfg.HandlerOptions(),
		preview.WithEngineOptions(engineOpts...),
		preview.WithLogger(log.With(logger.Component("preview"))),
	)
	if be.ready != nil {
		handlerOpts = append(handlerOpts, preview.WithReadinessCheck("content", be.ready))
	}

	h := preview.NewHandler(os.DirFS(c.Templates), pool, handlerOpts...)
	srv := preview.NewServerFromConfig(srvCfg, preview.WithServerLogger(log))
	return srv.Run(ctx, h)
}
