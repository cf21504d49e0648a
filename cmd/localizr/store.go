package main

import (
	"context"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/dmitrymomot/localizr/pkg/bundle"
	"github.com/dmitrymomot/localizr/pkg/config"
	"github.com/dmitrymomot/localizr/pkg/logger"
)

// ContentFlags selects the content bundle a command reads.
type ContentFlags struct {
	Props         string `required:"" short:"p" help:"Content root: a file, a directory, s3://bucket/prefix or redis://host:port/db"`
	Locale        string `short:"l" help:"Locale below the content root, with fallback to its parents"`
	DefaultLocale string `help:"Locale used when the requested one has no content"`
}

// backend builds bundles below one content root.
type backend struct {
	// factory returns the bundle for a locale; the empty locale is the root itself.
	factory func(locale string) *bundle.Bundle
	// ready checks the backend connection, if there is one.
	ready func(context.Context) error
	close func()
}

// openBundle returns the loaded bundle described by f. The returned close
// function releases backend connections and is never nil.
func openBundle(ctx context.Context, f ContentFlags, log *slog.Logger) (*bundle.Bundle, func(), error) {
	log = log.With(logger.Component("bundle"), logger.Root(f.Props))
	noop := func() {}

	be, err := openBackend(ctx, f.Props, log)
	if err != nil {
		return nil, noop, err
	}

	if f.Locale == "" {
		b := be.factory("")
		if err := b.Load(ctx); err != nil {
			be.close()
			return nil, noop, err
		}
		return b, be.close, nil
	}

	b, err := newPool(f, be, log).Bundle(ctx, f.Locale)
	if err != nil {
		be.close()
		return nil, noop, err
	}
	return b, be.close, nil
}

func newPool(f ContentFlags, be *backend, log *slog.Logger) *bundle.Pool {
	return bundle.NewPool(f.Props,
		bundle.WithDefaultLocale(f.DefaultLocale),
		bundle.WithBundleFactory(be.factory),
		bundle.WithPoolLogger(log),
	)
}

func openBackend(ctx context.Context, props string, log *slog.Logger) (*backend, error) {
	switch {
	case strings.HasPrefix(props, "s3://"):
		var cfg bundle.S3Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		bucket, prefix, _ := strings.Cut(strings.TrimPrefix(props, "s3://"), "/")
		cfg.Bucket = bucket
		if prefix != "" {
			cfg.Prefix = prefix
		}
		client, err := bundle.NewS3Client(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &backend{
			factory: func(locale string) *bundle.Bundle {
				p := cfg.Prefix
				if locale != "" {
					p = path.Join(p, locale)
				}
				src := bundle.NewS3Source(client, cfg.Bucket, p)
				return bundle.New("s3://"+path.Join(cfg.Bucket, p), bundle.WithSource(src), bundle.WithLogger(log))
			},
			close: func() {},
		}, nil

	case strings.HasPrefix(props, "redis://"), strings.HasPrefix(props, "rediss://"):
		var cfg bundle.RedisConfig
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		cfg.URL = props
		client, err := bundle.ConnectRedis(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &backend{
			factory: func(locale string) *bundle.Bundle {
				p := cfg.Prefix
				if locale != "" {
					p += locale + ":"
				}
				return bundle.New(props+"#"+p, bundle.WithSource(bundle.NewRedisSource(client, p)), bundle.WithLogger(log))
			},
			ready: bundle.RedisHealthcheck(client),
			close: func() {
				if err := client.Close(); err != nil {
					log.Warn("failed to close redis client", logger.Error(err))
				}
			},
		}, nil

	default:
		return &backend{
			factory: func(locale string) *bundle.Bundle {
				root := props
				if locale != "" {
					root = filepath.Join(props, locale)
				}
				return bundle.New(root, bundle.WithLogger(log))
			},
			close: func() {},
		}, nil
	}
}
