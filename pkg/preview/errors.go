package preview

import "errors"

var (
	ErrStart    = errors.New("preview: failed to start HTTP server")
	ErrShutdown = errors.New("preview: failed to shutdown HTTP server gracefully")
)
