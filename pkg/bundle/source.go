package bundle

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/dmitrymomot/localizr/pkg/content"
)

// Source reads the whole content of a root into one mapping.
type Source interface {
	Load(ctx context.Context) (*content.Mapping, error)
}

// MapSource serves an in-memory mapping.
type MapSource struct {
	Data *content.Mapping
}

// Load implements the Source interface
func (s *MapSource) Load(_ context.Context) (*content.Mapping, error) {
	if s.Data == nil {
		return content.NewMapping(), nil
	}
	return s.Data, nil
}

// FileSource reads a single content file. Its keys are not namespaced.
type FileSource struct {
	path    string
	parsers []Parser
}

// NewFileSource creates a source for the file at path. The parser is chosen
// by extension from parsers, or DefaultParsers when none are given.
func NewFileSource(path string, parsers ...Parser) *FileSource {
	if len(parsers) == 0 {
		parsers = DefaultParsers()
	}
	return &FileSource{path: path, parsers: parsers}
}

// Load implements the Source interface
func (s *FileSource) Load(ctx context.Context) (*content.Mapping, error) {
	parser := ParserForFile(s.path, s.parsers)
	if parser == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, s.path)
	}

	data, err := readFile(ctx, func() ([]byte, error) { return os.ReadFile(s.path) })
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Join(ErrRootNotFound, err)
		}
		return nil, err
	}

	m, err := parser.Parse(ctx, data)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseFile, fmt.Errorf("%s: %w", s.path, err))
	}
	return m, nil
}

// FSSource reads every supported file under dir in fsys, namespacing each
// file's keys by its path relative to dir.
type FSSource struct {
	fsys    fs.FS
	dir     string
	parsers []Parser
}

// NewFSSource creates a source over dir in fsys, which may be an embed.FS.
func NewFSSource(fsys fs.FS, dir string, parsers ...Parser) *FSSource {
	if len(parsers) == 0 {
		parsers = DefaultParsers()
	}
	if dir == "" {
		dir = "."
	}
	return &FSSource{fsys: fsys, dir: dir, parsers: parsers}
}

// NewDirectorySource creates a source over a directory on the local disk.
func NewDirectorySource(dir string, parsers ...Parser) *FSSource {
	return NewFSSource(os.DirFS(dir), ".", parsers...)
}

// Load implements the Source interface
func (s *FSSource) Load(ctx context.Context) (*content.Mapping, error) {
	var files []string
	err := fs.WalkDir(s.fsys, s.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return errors.Join(ErrLoadingCancelled, ctxErr)
		}
		if d.IsDir() || ParserForFile(d.Name(), s.parsers) == nil {
			return nil
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Join(ErrRootNotFound, err)
		}
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoContent, s.dir)
	}

	root := content.NewMapping()
	for _, p := range files {
		data, err := readFile(ctx, func() ([]byte, error) { return fs.ReadFile(s.fsys, p) })
		if err != nil {
			return nil, err
		}
		m, err := ParserForFile(p, s.parsers).Parse(ctx, data)
		if err != nil {
			return nil, errors.Join(ErrFailedToParseFile, fmt.Errorf("%s: %w", p, err))
		}
		rel := p
		if s.dir != "." {
			rel = strings.TrimPrefix(p, path.Clean(s.dir)+"/")
		}
		root.Merge(nest(namespace(rel), m))
	}
	return root, nil
}

// readFile runs read in a goroutine so that a cancelled context stops the
// wait even if the underlying read blocks.
func readFile(ctx context.Context, read func() ([]byte, error)) ([]byte, error) {
	done := make(chan struct{})
	var (
		data    []byte
		readErr error
	)
	go func() {
		data, readErr = read()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return nil, errors.Join(ErrLoadingCancelled, ctx.Err())
	case <-done:
	}

	if readErr != nil {
		if errors.Is(readErr, fs.ErrNotExist) {
			return nil, readErr
		}
		return nil, errors.Join(ErrFailedToReadFile, readErr)
	}
	return data, nil
}

// detectSource picks a FileSource or a directory source for root.
func detectSource(root string, parsers []Parser) (Source, error) {
	if root == "" {
		return nil, ErrEmptyRoot
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Join(ErrRootNotFound, err)
	}
	if info.IsDir() {
		return NewDirectorySource(root, parsers...), nil
	}
	return NewFileSource(root, parsers...), nil
}
