package bundle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/localizr/pkg/content"
)

// YAMLParser implements the Parser interface for YAML files.
// The document root must be a mapping. Mapping key order is preserved.
type YAMLParser struct{}

// NewYAMLParser creates a new YAMLParser instance
func NewYAMLParser() *YAMLParser {
	return &YAMLParser{}
}

// Parse parses YAML content
func (p *YAMLParser) Parse(ctx context.Context, data []byte) (*content.Mapping, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrLoadingCancelled, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Join(ErrFailedToParseYAML, err)
	}
	if doc.Kind == 0 {
		// Empty document.
		return content.NewMapping(), nil
	}

	v, err := fromYAML(&doc)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseYAML, err)
	}
	root, ok := v.(*content.Mapping)
	if !ok {
		return nil, errors.Join(ErrFailedToParseYAML, errors.New("document root is not a mapping"))
	}
	return root, nil
}

// SupportsFileExtension checks if the parser supports the given file extension
func (p *YAMLParser) SupportsFileExtension(ext string) bool {
	ext = strings.TrimPrefix(ext, ".")
	return strings.EqualFold(ext, "yaml") || strings.EqualFold(ext, "yml")
}

func fromYAML(n *yaml.Node) (content.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return content.NewMapping(), nil
		}
		return fromYAML(n.Content[0])
	case yaml.MappingNode:
		m := content.NewMapping()
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := fromYAML(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m.Set(n.Content[i].Value, v)
		}
		return m, nil
	case yaml.SequenceNode:
		l := &content.List{Items: make([]content.Value, 0, len(n.Content))}
		for _, item := range n.Content {
			v, err := fromYAML(item)
			if err != nil {
				return nil, err
			}
			l.Items = append(l.Items, v)
		}
		return l, nil
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return content.Missing{}, nil
		}
		return content.Scalar{Text: content.Escape(n.Value)}, nil
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, fmt.Errorf("line %d: dangling alias", n.Line)
		}
		return fromYAML(n.Alias)
	default:
		return nil, fmt.Errorf("line %d: unsupported node kind %d", n.Line, n.Kind)
	}
}
