// Package loom turns a language model's streamed output into a structured,
// continuously-updated sequence of prose and code segments plus a dependency
// manifest, while the stream is still arriving.
package loom

import "strings"

// SegmentKind distinguishes prose from fenced code content.
type SegmentKind int

const (
	SegmentProse SegmentKind = iota
	SegmentCode
)

// String returns the persisted name of the kind.
func (k SegmentKind) String() string {
	switch k {
	case SegmentProse:
		return "prose"
	case SegmentCode:
		return "code"
	default:
		return "unknown"
	}
}

// Segment is a contiguous run of classified content of one kind. Ordering is
// significant: concatenating segment contents in order reconstructs the
// classified portion of the response text.
type Segment struct {
	Kind    SegmentKind
	Content string
}

// Segments is an ordered sequence of segments. Only the last segment is
// mutable (its content grows as deltas arrive); prior segments are immutable.
// No two adjacent segments share a kind: same-kind runs are always merged.
type Segments []Segment

// OpenOrExtend appends text to the last segment when it has the same kind,
// or opens a new segment otherwise. Opening a segment with empty text is a
// no-op, so the sequence never contains empty segments.
func (s *Segments) OpenOrExtend(kind SegmentKind, text string) {
	if n := len(*s); n > 0 && (*s)[n-1].Kind == kind {
		(*s)[n-1].Content += text
		return
	}
	if text == "" {
		return
	}
	*s = append(*s, Segment{Kind: kind, Content: text})
}

// PlainText returns the concatenation of all segment contents in order.
func (s Segments) PlainText() string {
	var b strings.Builder
	for _, seg := range s {
		b.WriteString(seg.Content)
	}
	return b.String()
}

// Clone returns a deep copy. Snapshots handed to consumers are clones so a
// later Write cannot mutate what a renderer already holds.
func (s Segments) Clone() Segments {
	if s == nil {
		return nil
	}
	out := make(Segments, len(s))
	copy(out, s)
	return out
}

// Manifest maps package names to version specifiers. It is resolved at most
// once per response, from an optional JSON object at the head of the stream.
type Manifest map[string]string

// Clone returns a copy of the manifest. A nil manifest clones to nil.
func (m Manifest) Clone() Manifest {
	if m == nil {
		return nil
	}
	out := make(Manifest, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
