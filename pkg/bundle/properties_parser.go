package bundle

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrymomot/localizr/pkg/content"
)

// PropertiesParser implements Parser for Java-style .properties files.
//
// Keys may be dotted ("a.b.c"), bracketed ("states[0]", "bankRules[BOFA]")
// or both ("a[0].b"). A bracketed index of 0 starts a list; any other
// bracket starts a mapping. Values are stored raw.
type PropertiesParser struct{}

// NewPropertiesParser creates a new PropertiesParser instance.
func NewPropertiesParser() *PropertiesParser {
	return &PropertiesParser{}
}

// Parse parses properties content.
func (p *PropertiesParser) Parse(ctx context.Context, data []byte) (*content.Mapping, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrLoadingCancelled, err)
	}

	root := content.NewMapping()
	for _, ln := range logicalLines(string(data)) {
		key, value := splitKeyValue(ln.text)
		steps, err := parseKeyPath(content.Unescape(key))
		if err != nil {
			return nil, errors.Join(ErrFailedToParseProperties, fmt.Errorf("line %d: %w", ln.num, err))
		}
		if err := insert(root, steps, content.Scalar{Text: value}); err != nil {
			return nil, errors.Join(ErrFailedToParseProperties, fmt.Errorf("line %d: %w", ln.num, err))
		}
	}
	return root, nil
}

// SupportsFileExtension checks if the parser supports the given file extension
func (p *PropertiesParser) SupportsFileExtension(ext string) bool {
	return strings.EqualFold(strings.TrimPrefix(ext, "."), "properties")
}

type logicalLine struct {
	num  int
	text string
}

// logicalLines drops blank and comment lines and joins continuation lines.
func logicalLines(data string) []logicalLine {
	physical := strings.Split(data, "\n")
	var out []logicalLine
	for i := 0; i < len(physical); i++ {
		num := i + 1
		line := strings.TrimLeft(strings.TrimSuffix(physical[i], "\r"), " \t\f")
		if line == "" || line[0] == '#' || line[0] == '!' {
			continue
		}
		for continues(line) && i+1 < len(physical) {
			i++
			next := strings.TrimLeft(strings.TrimSuffix(physical[i], "\r"), " \t\f")
			line = line[:len(line)-1] + next
		}
		if continues(line) {
			line = line[:len(line)-1]
		}
		out = append(out, logicalLine{num: num, text: line})
	}
	return out
}

// continues reports whether line ends in an odd run of backslashes.
func continues(line string) bool {
	n := 0
	for i := len(line) - 1; i >= 0 && line[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

// splitKeyValue splits at the first unescaped '=', ':' or whitespace.
func splitKeyValue(line string) (string, string) {
	i := 0
	for i < len(line) {
		c := line[i]
		if c == '\\' {
			i += 2
			continue
		}
		if c == '=' || c == ':' || c == ' ' || c == '\t' || c == '\f' {
			break
		}
		i++
	}
	if i > len(line) {
		i = len(line)
	}
	key := line[:i]
	rest := strings.TrimLeft(line[i:], " \t\f")
	if rest != "" && (rest[0] == '=' || rest[0] == ':') {
		rest = strings.TrimLeft(rest[1:], " \t\f")
	}
	return key, rest
}

// step is one segment of a key path. index is the list position for
// numeric bracket segments and -1 otherwise.
type step struct {
	name  string
	index int
}

func parseKeyPath(key string) ([]step, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: empty key", ErrInvalidKey)
	}

	var (
		steps        []step
		name         strings.Builder
		afterBracket bool
	)
	for i := 0; i < len(key); i++ {
		switch c := key[i]; c {
		case '.':
			switch {
			case name.Len() > 0:
				steps = append(steps, step{name: name.String(), index: -1})
				name.Reset()
			case !afterBracket:
				return nil, fmt.Errorf("%w: empty segment in %q", ErrInvalidKey, key)
			}
			afterBracket = false
		case '[':
			if name.Len() > 0 {
				steps = append(steps, step{name: name.String(), index: -1})
				name.Reset()
			} else if len(steps) == 0 {
				return nil, fmt.Errorf("%w: %q starts with a bracket", ErrInvalidKey, key)
			}
			end := strings.IndexByte(key[i+1:], ']')
			if end <= 0 {
				return nil, fmt.Errorf("%w: malformed bracket in %q", ErrInvalidKey, key)
			}
			steps = append(steps, bracketStep(key[i+1:i+1+end]))
			i += end + 1
			afterBracket = true
		default:
			if afterBracket {
				return nil, fmt.Errorf("%w: unexpected %q after bracket in %q", ErrInvalidKey, c, key)
			}
			name.WriteByte(c)
		}
	}

	switch {
	case name.Len() > 0:
		steps = append(steps, step{name: name.String(), index: -1})
	case !afterBracket:
		return nil, fmt.Errorf("%w: trailing dot in %q", ErrInvalidKey, key)
	}
	return steps, nil
}

func bracketStep(inner string) step {
	for _, r := range inner {
		if r < '0' || r > '9' {
			return step{name: inner, index: -1}
		}
	}
	n, err := strconv.Atoi(inner)
	if err != nil {
		return step{name: inner, index: -1}
	}
	return step{name: inner, index: n}
}

// insert stores v at the path described by steps, creating intermediate
// containers as needed. A later scalar replaces an earlier container at the
// same path and vice versa.
func insert(root *content.Mapping, steps []step, v content.Value) error {
	var parent content.Value = root
	for i, s := range steps {
		last := i == len(steps)-1
		child := v
		if !last {
			child = containerFor(steps[i+1])
		}

		switch p := parent.(type) {
		case *content.Mapping:
			if !last {
				if existing, ok := p.Get(s.name); ok && isContainer(existing) {
					parent = existing
					continue
				}
			}
			p.Set(s.name, child)
		case *content.List:
			if s.index < 0 {
				return fmt.Errorf("%w: %q indexes a list with a non-numeric key", ErrInvalidKey, s.name)
			}
			if s.index > p.Len()+maxListGap {
				return fmt.Errorf("%w: index %d is more than %d past the end of the list", ErrInvalidKey, s.index, maxListGap)
			}
			if !last {
				if existing, ok := p.At(s.index); ok && isContainer(existing) {
					parent = existing
					continue
				}
			}
			p.SetAt(s.index, child)
		}
		parent = child
	}
	return nil
}

// maxListGap bounds how far past the end of a list an index may point.
const maxListGap = 1024

func containerFor(next step) content.Value {
	if next.index == 0 {
		return &content.List{}
	}
	return content.NewMapping()
}

func isContainer(v content.Value) bool {
	switch v.(type) {
	case *content.Mapping, *content.List:
		return true
	default:
		return false
	}
}
