package bundle

import "errors"

var (
	// ErrLoad is returned by Load when the content root cannot be read.
	// Once returned, the same error is returned by every later Load call.
	ErrLoad      = errors.New("bundle: failed to load content")
	ErrNotLoaded = errors.New("bundle: get called before load")

	// Root resolution
	ErrEmptyRoot    = errors.New("bundle: empty content root")
	ErrRootNotFound = errors.New("bundle: content root not found")
	ErrNoContent    = errors.New("bundle: no content files found under root")

	// File operations
	ErrLoadingCancelled  = errors.New("bundle: loading cancelled")
	ErrFailedToReadFile  = errors.New("bundle: failed to read content file")
	ErrFailedToParseFile = errors.New("bundle: failed to parse content file")
	ErrUnsupportedFormat = errors.New("bundle: unsupported content format")

	// Parsers
	ErrFailedToParseProperties = errors.New("bundle: failed to parse properties content")
	ErrFailedToParseJSON       = errors.New("bundle: failed to parse JSON content")
	ErrFailedToParseYAML       = errors.New("bundle: failed to parse YAML content")
	ErrInvalidKey              = errors.New("bundle: invalid content key")

	// Pool
	ErrInvalidLocale = errors.New("bundle: invalid locale")

	// Redis
	ErrFailedToParseRedisConnString = errors.New("bundle: failed to parse redis connection string")
	ErrRedisNotReady                = errors.New("bundle: redis did not become ready within the given time period")
	ErrRedisHealthcheckFailed       = errors.New("bundle: redis healthcheck failed")

	// S3
	ErrInvalidS3Config       = errors.New("bundle: invalid s3 config")
	ErrFailedToLoadAWSConfig = errors.New("bundle: failed to load aws config")
)
