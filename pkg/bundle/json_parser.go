package bundle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrymomot/localizr/pkg/content"
)

// JSONParser implements the Parser interface for JSON files.
// The document root must be an object. Object key order is preserved.
type JSONParser struct{}

// NewJSONParser creates a new JSONParser instance
func NewJSONParser() *JSONParser {
	return &JSONParser{}
}

// Parse parses JSON content
func (p *JSONParser) Parse(ctx context.Context, data []byte) (*content.Mapping, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrLoadingCancelled, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeJSON(dec)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseJSON, err)
	}
	root, ok := v.(*content.Mapping)
	if !ok {
		return nil, errors.Join(ErrFailedToParseJSON, errors.New("document root is not an object"))
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.Join(ErrFailedToParseJSON, errors.New("trailing data after document"))
	}
	return root, nil
}

// SupportsFileExtension checks if the parser supports the given file extension
func (p *JSONParser) SupportsFileExtension(ext string) bool {
	return strings.EqualFold(strings.TrimPrefix(ext, "."), "json")
}

func decodeJSON(dec *json.Decoder) (content.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := content.NewMapping()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", keyTok)
				}
				v, err := decodeJSON(dec)
				if err != nil {
					return nil, err
				}
				m.Set(key, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return m, nil
		case '[':
			l := &content.List{}
			for dec.More() {
				v, err := decodeJSON(dec)
				if err != nil {
					return nil, err
				}
				l.Items = append(l.Items, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return l, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %v", t)
		}
	case string:
		return content.Scalar{Text: content.Escape(t)}, nil
	case json.Number:
		return content.Scalar{Text: t.String()}, nil
	case bool:
		if t {
			return content.Scalar{Text: "true"}, nil
		}
		return content.Scalar{Text: "false"}, nil
	case nil:
		return content.Missing{}, nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}
