package loom

import "strings"

// instruction is one classification decision handed to the segment model.
type instruction struct {
	kind SegmentKind
	text string
}

// fenceScanner classifies the unclassified tail of the accumulated buffer
// into prose and code spans, toggling on fence marker lines. It never
// assumes a marker arrives intact in one chunk: a trailing line that could
// still grow into a marker is held back until a newline disambiguates it or
// the stream ends.
type fenceScanner struct {
	inCode      bool
	atLineStart bool

	// langs records the language tag of each committed opening marker, in
	// order. Tags are structural metadata and never appear in segments.
	langs []string
}

func newFenceScanner() fenceScanner {
	return fenceScanner{atLineStart: true}
}

// toggle flips inCode on a committed marker line, recording the language
// tag when the marker opens a block.
func (f *fenceScanner) toggle(line string) {
	if !f.inCode {
		f.langs = append(f.langs, fenceLanguage(line))
	}
	f.inCode = !f.inCode
}

func (f *fenceScanner) kind() SegmentKind {
	if f.inCode {
		return SegmentCode
	}
	return SegmentProse
}

// scan walks tail line by line, producing classification instructions and
// the number of bytes consumed. Bytes past consumed are held back pending
// more input. Marker lines toggle inCode and are consumed without producing
// any instruction; they are structural delimiters, not data.
func (f *fenceScanner) scan(tail string) ([]instruction, int) {
	var ins []instruction
	pos := 0
	for pos < len(tail) {
		nl := strings.IndexByte(tail[pos:], '\n')
		if nl < 0 {
			rest := tail[pos:]
			if f.atLineStart && markerCandidate(rest, f.inCode) {
				return ins, pos
			}
			ins = appendInstruction(ins, f.kind(), rest)
			f.atLineStart = false
			return ins, len(tail)
		}
		line := tail[pos : pos+nl]
		if f.atLineStart && isFenceMarker(line, f.inCode) {
			f.toggle(line)
		} else {
			ins = appendInstruction(ins, f.kind(), tail[pos:pos+nl+1])
		}
		f.atLineStart = true
		pos += nl + 1
	}
	return ins, pos
}

// finish commits a held-back marker candidate at end of stream. A candidate
// that already forms a complete marker line toggles as if newline-terminated;
// anything shorter is committed as ordinary content of the current kind.
func (f *fenceScanner) finish(pending string) []instruction {
	if pending == "" {
		return nil
	}
	if f.atLineStart && isFenceMarker(pending, f.inCode) {
		f.toggle(pending)
		return nil
	}
	f.atLineStart = false
	return []instruction{{kind: f.kind(), text: pending}}
}

func (f *fenceScanner) reset() {
	f.inCode = false
	f.atLineStart = true
	f.langs = nil
}

// fenceLanguage extracts the language tag from an opening marker line.
func fenceLanguage(line string) string {
	line = strings.TrimSuffix(line, "\r")
	return strings.TrimSpace(strings.TrimPrefix(line, "```"))
}

// isFenceMarker reports whether line (without its terminating newline) is a
// fence marker. An opening marker is three backticks optionally followed by
// a language tag containing no backticks; a closing marker allows only
// trailing whitespace. A trailing carriage return is tolerated.
func isFenceMarker(line string, inCode bool) bool {
	line = strings.TrimSuffix(line, "\r")
	rest, ok := strings.CutPrefix(line, "```")
	if !ok {
		return false
	}
	if inCode {
		return strings.TrimSpace(rest) == ""
	}
	return !strings.Contains(rest, "`")
}

// markerCandidate reports whether rest, sitting unterminated at the end of
// the buffer, could still be extended into a fence marker by future input.
func markerCandidate(rest string, inCode bool) bool {
	if len(rest) < 3 {
		return strings.HasPrefix("```", rest)
	}
	return isFenceMarker(rest, inCode)
}

// appendInstruction merges consecutive same-kind instructions so the segment
// model receives at most one instruction per kind transition.
func appendInstruction(ins []instruction, kind SegmentKind, text string) []instruction {
	if text == "" {
		return ins
	}
	if n := len(ins); n > 0 && ins[n-1].kind == kind {
		ins[n-1].text += text
		return ins
	}
	return append(ins, instruction{kind: kind, text: text})
}
