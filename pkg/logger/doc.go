// Package logger builds the structured loggers used across localizr.
//
// New returns a *slog.Logger configured by functional options: output
// format (text or json), minimum level, static attributes and
// ContextExtractor callbacks. Every logger built by New attaches the
// document identifier stored with WithDocumentID, so all records emitted
// while rendering one document can be correlated.
//
// Config reads LOG_FORMAT and LOG_LEVEL through the config package:
//
//	cfg, err := config.Load[logger.Config]()
//	if err != nil {
//		return err
//	}
//	log := logger.New(cfg.Options()...)
//
// Helpers in attr.go (Key, Locale, Root, TagIndex, Mode, State, Error, ...)
// keep attribute names consistent. Error and Errors return an empty
// attribute for nil errors, so they can be passed unconditionally.
package logger
