package tag

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedMode  = errors.New("unsupported mode")
	ErrInvalidAttribute = errors.New("invalid attribute value")
)

// Warning reports an attribute that was ignored in favour of its default.
type Warning struct {
	Attr  string
	Value any
	Err   error
}

func (w *Warning) Error() string {
	return fmt.Sprintf("tag attribute %q=%v: %v", w.Attr, w.Value, w.Err)
}

func (w *Warning) Unwrap() error {
	return w.Err
}
