package tag

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
)

const chunkSize = 4096

var (
	openMark = []byte("{@")
	// DefaultTagNames are the helper names the scanner recognises.
	DefaultTagNames = []string{"pre"}
)

// Scanner reads `{@name attr="value" /}` tags from a stream. Unknown helper
// names and anything that is not a complete tag are returned as text.
type Scanner struct {
	r     *bufio.Reader
	buf   []byte
	eof   bool
	names map[string]bool
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithTagNames replaces the recognised helper names.
func WithTagNames(names ...string) ScannerOption {
	return func(s *Scanner) {
		if len(names) == 0 {
			return
		}
		s.names = make(map[string]bool, len(names))
		for _, n := range names {
			s.names[n] = true
		}
	}
}

// NewScanner returns a Scanner reading from r.
func NewScanner(r io.Reader, opts ...ScannerOption) *Scanner {
	s := &Scanner{r: bufio.NewReader(r)}
	WithTagNames(DefaultTagNames...)(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Next implements Source.
func (s *Scanner) Next(ctx context.Context) (Segment, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Segment{}, err
		}
		if seg, ok := s.extract(); ok {
			return seg, nil
		}
		if s.eof {
			if len(s.buf) == 0 {
				return Segment{}, io.EOF
			}
			text := string(s.buf)
			s.buf = nil
			return Segment{Text: text}, nil
		}
		if err := s.fill(); err != nil {
			return Segment{}, err
		}
	}
}

func (s *Scanner) fill() error {
	chunk := make([]byte, chunkSize)
	n, err := s.r.Read(chunk)
	if n > 0 {
		s.buf = append(s.buf, chunk[:n]...)
	}
	if err == io.EOF {
		s.eof = true
		return nil
	}
	return err
}

func (s *Scanner) consume(n int) {
	s.buf = s.buf[n:]
	if len(s.buf) == 0 {
		s.buf = nil
	}
}

// extract returns the next complete segment held in the buffer.
func (s *Scanner) extract() (Segment, bool) {
	if len(s.buf) == 0 {
		return Segment{}, false
	}

	start := bytes.Index(s.buf, openMark)
	switch {
	case start > 0:
		text := string(s.buf[:start])
		s.consume(start)
		return Segment{Text: text}, true
	case start < 0:
		// A trailing '{' may be the first half of an opening mark.
		n := len(s.buf)
		if !s.eof && s.buf[n-1] == '{' {
			n--
		}
		if n == 0 {
			return Segment{}, false
		}
		text := string(s.buf[:n])
		s.consume(n)
		return Segment{Text: text}, true
	}

	end := tagEnd(s.buf)
	if end < 0 {
		if !s.eof {
			return Segment{}, false
		}
		text := string(s.buf)
		s.buf = nil
		return Segment{Text: text}, true
	}

	raw := string(s.buf[:end+1])
	s.consume(end + 1)
	t, ok := parseTag(raw)
	if !ok || !s.names[t.Name] {
		return Segment{Text: raw}, true
	}
	return Segment{Tag: &t}, true
}

// tagEnd returns the index of the '}' closing the tag at b[0], skipping
// quoted attribute values, or -1 when the tag is incomplete.
func tagEnd(b []byte) int {
	inQuote := false
	for i := len(openMark); i < len(b); i++ {
		switch b[i] {
		case '\\':
			if inQuote {
				i++
			}
		case '"':
			inQuote = !inQuote
		case '}':
			if !inQuote {
				return i
			}
		}
	}
	return -1
}

// parseTag parses `{@name a="b" c=d /}`. Attributes without value are flags set to "true".
func parseTag(raw string) (Tag, bool) {
	inner := strings.TrimSuffix(raw[len(openMark):], "}")
	inner = strings.TrimSpace(inner)
	inner = strings.TrimSpace(strings.TrimSuffix(inner, "/"))

	nameEnd := strings.IndexAny(inner, " \t\r\n")
	if nameEnd < 0 {
		nameEnd = len(inner)
	}
	name := inner[:nameEnd]
	if name == "" {
		return Tag{}, false
	}

	attrs := make(map[string]any)
	rest := inner[nameEnd:]
	for {
		rest = strings.TrimLeft(rest, " \t\r\n")
		if rest == "" {
			break
		}
		keyEnd := strings.IndexAny(rest, "= \t\r\n")
		if keyEnd < 0 {
			attrs[rest] = "true"
			break
		}
		key := rest[:keyEnd]
		rest = rest[keyEnd:]
		if rest[0] != '=' {
			attrs[key] = "true"
			continue
		}
		rest = rest[1:]

		var value string
		value, rest = readValue(rest)
		attrs[key] = value
	}

	return Tag{Name: name, Attrs: attrs, Raw: raw}, true
}

// readValue reads a quoted or bare attribute value and returns the remainder.
func readValue(s string) (string, string) {
	if !strings.HasPrefix(s, `"`) {
		end := strings.IndexAny(s, " \t\r\n")
		if end < 0 {
			return s, ""
		}
		return s[:end], s[end:]
	}

	var b strings.Builder
	for i := 1; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			if i+1 >= len(s) {
				b.WriteByte(c)
				continue
			}
			i++
			if s[i] != '"' {
				b.WriteByte(c)
			}
			b.WriteByte(s[i])
		case '"':
			return b.String(), s[i+1:]
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), ""
}
