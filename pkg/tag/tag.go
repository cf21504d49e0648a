package tag

import (
	"context"
	"io"
)

// ContentType is the tag type handled by the resolution engine.
const ContentType = "content"

// Tag is one tag occurrence. Raw holds the tag exactly as written.
type Tag struct {
	Name  string
	Attrs map[string]any
	Raw   string
}

// Type returns the tag's type discriminator.
func (t Tag) Type() string {
	s, _ := t.Attrs[AttrType].(string)
	return s
}

// IsContent reports whether the tag asks for localized content.
func (t Tag) IsContent() bool {
	return t.Type() == ContentType
}

// Segment is a piece of a document: literal text or a tag.
type Segment struct {
	Text string
	Tag  *Tag
}

// IsTag reports whether the segment carries a tag.
func (s Segment) IsTag() bool {
	return s.Tag != nil
}

// Source delivers document segments in order. Next returns io.EOF after the
// last segment.
type Source interface {
	Next(ctx context.Context) (Segment, error)
}

// SliceSource serves a fixed list of segments.
type SliceSource struct {
	Segments []Segment
	pos      int
}

// Next implements Source.
func (s *SliceSource) Next(ctx context.Context) (Segment, error) {
	if err := ctx.Err(); err != nil {
		return Segment{}, err
	}
	if s.pos >= len(s.Segments) {
		return Segment{}, io.EOF
	}
	seg := s.Segments[s.pos]
	s.pos++
	return seg, nil
}
