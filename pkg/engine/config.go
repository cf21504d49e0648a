package engine

import (
	"log/slog"
	"strings"
	"time"
)

// UnknownTagPolicy decides what happens to tags that are not content tags.
type UnknownTagPolicy string

const (
	// Passthrough writes the tag's raw text unchanged.
	Passthrough UnknownTagPolicy = "passthrough"
	// Drop writes nothing for the tag.
	Drop UnknownTagPolicy = "drop"
)

// ParseUnknownTagPolicy parses a policy name. Unknown names yield
// Passthrough and false.
func ParseUnknownTagPolicy(s string) (UnknownTagPolicy, bool) {
	switch UnknownTagPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case Passthrough:
		return Passthrough, true
	case Drop:
		return Drop, true
	default:
		return Passthrough, false
	}
}

// Config is the environment-driven engine configuration.
type Config struct {
	MaxInFlight   int           `env:"LOCALIZR_MAX_IN_FLIGHT" envDefault:"16"`
	LookupTimeout time.Duration `env:"LOCALIZR_LOOKUP_TIMEOUT" envDefault:"5s"`
	UnknownTags   string        `env:"LOCALIZR_UNKNOWN_TAGS" envDefault:"passthrough"`
}

const (
	DefaultMaxInFlight   = 16
	DefaultLookupTimeout = 5 * time.Second
)

// Option configures an Engine.
type Option func(*Engine)

// WithConfig applies every field of cfg. Zero and invalid values keep the
// defaults.
func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		WithMaxInFlight(cfg.MaxInFlight)(e)
		if cfg.LookupTimeout > 0 {
			e.lookupTimeout = cfg.LookupTimeout
		}
		if p, ok := ParseUnknownTagPolicy(cfg.UnknownTags); ok {
			e.unknownTags = p
		}
	}
}

// WithMaxInFlight bounds how many content tags may be resolving or waiting
// for their turn at once.
func WithMaxInFlight(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxInFlight = n
		}
	}
}

// WithLookupTimeout bounds each bundle lookup. Zero disables the bound.
func WithLookupTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d >= 0 {
			e.lookupTimeout = d
		}
	}
}

// WithUnknownTagPolicy sets the policy for non-content tags.
func WithUnknownTagPolicy(p UnknownTagPolicy) Option {
	return func(e *Engine) {
		if p == Passthrough || p == Drop {
			e.unknownTags = p
		}
	}
}

// WithErrorHandler sets the per-tag error callback.
func WithErrorHandler(h ErrorHandler) Option {
	return func(e *Engine) {
		if h != nil {
			e.onError = h
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}
