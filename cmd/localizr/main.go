// Command localizr renders templates with localized content and inspects
// content bundles.
package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/dmitrymomot/localizr/pkg/config"
	"github.com/dmitrymomot/localizr/pkg/logger"
	"github.com/dmitrymomot/localizr/pkg/preview"
)

const version = "0.1.0"

// CLI defines the command-line interface for localizr.
var CLI struct {
	Env string `help:"Dotenv file loaded before reading configuration" default:".env" type:"path"`

	Render  RenderCmd  `cmd:"" help:"Render a template with localized content"`
	Get     GetCmd     `cmd:"" help:"Print the value stored under a key"`
	Keys    KeysCmd    `cmd:"" help:"List every key of a content bundle"`
	Serve   ServeCmd   `cmd:"" help:"Serve rendered templates over HTTP for previewing"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (c *VersionCmd) Run(kctx *kong.Context) error {
	_, err := kctx.Stdout.Write([]byte("localizr " + version + "\n"))
	return err
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("localizr"),
		kong.Description("Localized content rendering for {@pre} templates"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	if err := config.LoadEnv(CLI.Env); err != nil && !errors.Is(err, fs.ErrNotExist) {
		kctx.FatalIfErrorf(err)
	}

	var logCfg logger.Config
	kctx.FatalIfErrorf(config.Load(&logCfg))
	log := logger.New(append(logCfg.Options(),
		logger.WithAttr(logger.Component("cli")),
		logger.WithContextExtractors(preview.RequestIDExtractor),
	)...)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kctx.BindTo(ctx, (*context.Context)(nil))
	if err := kctx.Run(log, kctx); err != nil {
		log.Error("command failed", slog.String("command", kctx.Command()), logger.Error(err))
		stop()
		kctx.FatalIfErrorf(err)
	}
}
