package render

import "errors"

// ErrUnsupportedShape is returned when a value cannot be rendered in plain
// mode, such as a list with holes. The rendered text is empty.
var ErrUnsupportedShape = errors.New("render: value shape is not supported in plain mode")
