package preview

import "time"

// Config is the environment-driven server configuration.
type Config struct {
	Addr            string        `env:"LOCALIZR_HTTP_ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"LOCALIZR_HTTP_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"LOCALIZR_HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout     time.Duration `env:"LOCALIZR_HTTP_IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"LOCALIZR_HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	DefaultLocale   string        `env:"LOCALIZR_DEFAULT_LOCALE" envDefault:"en"`
	IndexTemplate   string        `env:"LOCALIZR_INDEX_TEMPLATE" envDefault:"index.html"`
}

// NewServerFromConfig creates a Server from cfg. Zero values keep the
// defaults; opts are applied last.
func NewServerFromConfig(cfg Config, opts ...ServerOption) *Server {
	configOpts := make([]ServerOption, 0, 5+len(opts))

	if cfg.Addr != "" {
		configOpts = append(configOpts, WithAddr(cfg.Addr))
	}
	if cfg.ReadTimeout > 0 {
		configOpts = append(configOpts, WithReadTimeout(cfg.ReadTimeout))
	}
	if cfg.WriteTimeout > 0 {
		configOpts = append(configOpts, WithWriteTimeout(cfg.WriteTimeout))
	}
	if cfg.IdleTimeout > 0 {
		configOpts = append(configOpts, WithIdleTimeout(cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout > 0 {
		configOpts = append(configOpts, WithShutdownTimeout(cfg.ShutdownTimeout))
	}

	return NewServer(append(configOpts, opts...)...)
}

// HandlerOptions converts the handler-related fields of cfg into options.
func (cfg Config) HandlerOptions() []HandlerOption {
	var opts []HandlerOption
	if cfg.DefaultLocale != "" {
		opts = append(opts, WithDefaultLocale(cfg.DefaultLocale))
	}
	if cfg.IndexTemplate != "" {
		opts = append(opts, WithIndexTemplate(cfg.IndexTemplate))
	}
	return opts
}
