package engine

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/localizr/pkg/tag"
)

var (
	ErrSourceFailed = errors.New("engine: failed to read document")
	ErrWriteFailed  = errors.New("engine: failed to write output")
	ErrLookupFailed = errors.New("engine: content lookup failed")
	ErrRenderFailed = errors.New("engine: render failed")
)

// TagError reports a problem with one tag occurrence. State is the stage
// that produced it: StateResolving or StateRendering for failures, after
// which nothing is written for the tag, and StateEmitted for non-fatal
// warnings on a tag that was still written.
type TagError struct {
	Index int
	Tag   tag.Tag
	Key   string
	State State
	Err   error
}

func (e *TagError) Error() string {
	return fmt.Sprintf("tag %d (key %q) %s: %v", e.Index, e.Key, e.State, e.Err)
}

func (e *TagError) Unwrap() error {
	return e.Err
}

// Failed reports whether the tag was dropped from the output.
func (e *TagError) Failed() bool {
	return e.State != StateEmitted
}

// ErrorHandler receives per-tag errors in document order.
type ErrorHandler func(err *TagError)
