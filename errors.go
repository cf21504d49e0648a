package localizr

import "errors"

var (
	ErrInvalidOptions       = errors.New("localizr: invalid options")
	ErrFailedToOpenTemplate = errors.New("localizr: failed to open template")
)
