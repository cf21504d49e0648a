package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/localizr/pkg/async"
	"github.com/dmitrymomot/localizr/pkg/bundle"
	"github.com/dmitrymomot/localizr/pkg/content"
	"github.com/dmitrymomot/localizr/pkg/logger"
	"github.com/dmitrymomot/localizr/pkg/render"
	"github.com/dmitrymomot/localizr/pkg/tag"
)

// Engine resolves content tags against a store. An Engine holds no
// per-document state; Run may be called concurrently.
type Engine struct {
	store         bundle.Getter
	maxInFlight   int
	lookupTimeout time.Duration
	unknownTags   UnknownTagPolicy
	onError       ErrorHandler
	logger        *slog.Logger
}

// New creates an engine reading content from store, which must already be
// loaded.
func New(store bundle.Getter, opts ...Option) *Engine {
	e := &Engine{
		store:         store,
		maxInFlight:   DefaultMaxInFlight,
		lookupTimeout: DefaultLookupTimeout,
		unknownTags:   Passthrough,
		onError:       func(*TagError) {},
		logger:        logger.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Stats summarises one Run.
type Stats struct {
	DocumentID string
	Tags       int
	Emitted    int
	Failed     int
	Warnings   int
	Unknown    int
}

// result is what a segment contributes to the output.
type result struct {
	text     string
	warnings []error
}

// item is one segment waiting for its turn to be written.
type item struct {
	index   int // content tag index; -1 for text and unknown tags
	tag     *tag.Tag
	key     string
	mode    tag.Mode
	started time.Time
	future  *async.Future[result]
}

// Run streams src to w, resolving every content tag. It returns when src
// is exhausted, when ctx ends or when a read or write fails. Per-tag
// failures are reported to the ErrorHandler and do not end the run.
func (e *Engine) Run(ctx context.Context, src tag.Source, w io.Writer) (Stats, error) {
	stats := Stats{DocumentID: uuid.NewString()}
	ctx = logger.WithDocumentID(ctx, stats.DocumentID)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	start := time.Now()
	slots := make(chan struct{}, e.maxInFlight)
	queue := make(chan *item, e.maxInFlight)
	readErr := make(chan error, 1)

	go func() {
		defer close(queue)
		readErr <- e.produce(ctx, src, queue, slots)
	}()

	var runErr error
	for it := range queue {
		if runErr == nil {
			runErr = e.emit(ctx, w, it, &stats)
			if runErr != nil {
				cancel()
			}
		}
		if it.index >= 0 {
			<-slots
		}
	}
	if runErr == nil {
		runErr = <-readErr
	}

	if runErr != nil {
		e.logger.WarnContext(ctx, "document aborted",
			logger.Count("tags", stats.Tags),
			logger.Count("emitted", stats.Emitted),
			logger.Error(runErr),
		)
		return stats, runErr
	}

	e.logger.DebugContext(ctx, "document rendered",
		logger.Count("tags", stats.Tags),
		logger.Count("failed", stats.Failed),
		logger.Count("warnings", stats.Warnings),
		logger.Duration(time.Since(start)),
	)
	return stats, nil
}

// produce reads segments and queues them in order, starting the lookup of
// each content tag before queueing it.
func (e *Engine) produce(ctx context.Context, src tag.Source, queue chan<- *item, slots chan struct{}) error {
	index := 0
	for {
		seg, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return errors.Join(ErrSourceFailed, err)
		}

		var it *item
		switch {
		case !seg.IsTag():
			it = &item{index: -1, future: async.Resolved(result{text: seg.Text}, nil)}
		case !seg.Tag.IsContent():
			it = e.unknown(seg.Tag)
		default:
			select {
			case slots <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}
			it = e.schedule(ctx, seg.Tag, index)
			index++
		}

		select {
		case queue <- it:
		case <-ctx.Done():
			if it.index >= 0 {
				<-slots
			}
			return ctx.Err()
		}
	}
}

func (e *Engine) unknown(t *tag.Tag) *item {
	text := ""
	if e.unknownTags == Passthrough {
		text = t.Raw
	}
	return &item{index: -1, tag: t, future: async.Resolved(result{text: text}, nil)}
}

// schedule starts resolving one content tag.
func (e *Engine) schedule(ctx context.Context, t *tag.Tag, index int) *item {
	d, warnings := tag.ParseDescriptor(t.Attrs)
	it := &item{index: index, tag: t, key: d.Key, mode: d.Mode, started: time.Now()}
	it.future = async.Async(ctx, d, func(ctx context.Context, d tag.Descriptor) (result, error) {
		return e.resolve(ctx, it, d, warnings)
	})
	return it
}

// resolve runs one tag through Resolving and Rendering.
func (e *Engine) resolve(ctx context.Context, it *item, d tag.Descriptor, warnings []error) (result, error) {
	state := StatePending
	advance := func(next State) {
		if state.CanTransition(next) {
			state = next
		}
	}

	advance(StateResolving)
	var v content.Value = content.Missing{Key: d.Key}
	if d.Resolvable {
		lookupCtx := ctx
		if e.lookupTimeout > 0 {
			var cancel context.CancelFunc
			lookupCtx, cancel = context.WithTimeout(ctx, e.lookupTimeout)
			defer cancel()
		}
		got, err := e.store.Get(lookupCtx, d.Key)
		if err != nil {
			return result{}, e.tagError(it, state, errors.Join(ErrLookupFailed, err))
		}
		v = got
	}

	advance(StateRendering)
	text, err := render.Render(v, d)
	switch {
	case errors.Is(err, render.ErrUnsupportedShape):
		warnings = append(warnings, err)
	case err != nil:
		return result{}, e.tagError(it, state, errors.Join(ErrRenderFailed, err))
	}
	return result{text: text, warnings: warnings}, nil
}

func (e *Engine) tagError(it *item, state State, err error) *TagError {
	return &TagError{Index: it.index, Tag: *it.tag, Key: it.key, State: state, Err: err}
}

// emit waits for it and writes its text. Only context and write errors are
// returned; tag failures are reported and skipped.
func (e *Engine) emit(ctx context.Context, w io.Writer, it *item, stats *Stats) error {
	res, err := it.future.AwaitContext(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		// Abandoned: nothing is written for a tag that has not been emitted.
		return ctxErr
	}

	if it.tag != nil && it.index < 0 {
		stats.Unknown++
		e.logger.DebugContext(ctx, "unknown tag",
			slog.String("tag_type", it.tag.Type()),
			slog.String("policy", string(e.unknownTags)),
		)
	}
	if it.index >= 0 {
		stats.Tags++
	}

	if err != nil {
		var tagErr *TagError
		if !errors.As(err, &tagErr) {
			tagErr = &TagError{Index: it.index, Tag: *it.tag, Key: it.key, State: StateResolving, Err: err}
		}
		stats.Failed++
		e.logger.WarnContext(ctx, "tag failed",
			logger.TagIndex(it.index),
			logger.Key(it.key),
			logger.State(tagErr.State.String()),
			logger.Error(tagErr.Err),
		)
		e.onError(tagErr)
		return nil
	}

	if res.text != "" {
		if _, err := io.WriteString(w, res.text); err != nil {
			return errors.Join(ErrWriteFailed, err)
		}
	}

	if it.index < 0 {
		return nil
	}
	stats.Emitted++
	for _, warn := range res.warnings {
		stats.Warnings++
		e.logger.WarnContext(ctx, "tag rendered with warning",
			logger.TagIndex(it.index),
			logger.Key(it.key),
			logger.Error(warn),
		)
		e.onError(&TagError{Index: it.index, Tag: *it.tag, Key: it.key, State: StateEmitted, Err: warn})
	}
	e.logger.DebugContext(ctx, "tag emitted",
		logger.TagIndex(it.index),
		logger.Key(it.key),
		logger.Mode(string(it.mode)),
		logger.Duration(time.Since(it.started)),
	)
	return nil
}
