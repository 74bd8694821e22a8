// Package markdown renders prose and code segments to ANSI-styled terminal
// output. It is a thin façade over the goldmark package: prose segments go
// through the markdown renderer, code segments are rendered verbatim behind
// a gutter.
package markdown

import (
	"strings"

	"github.com/jmalek/loom"
	"github.com/jmalek/loom/goldmark"
)

// Render parses markdown source and returns ANSI-styled terminal output
// word-wrapped to width.
func Render(source string, width int, theme loom.Theme) string {
	return goldmark.Render(source, width, theme)
}

// RenderSegments renders a parsed response for terminal display. Prose
// segments are rendered as markdown; code segments keep their content
// verbatim behind a gutter. langs supplies the language captions for code
// segments in fence-open order and may be shorter than the number of code
// segments, or nil.
func RenderSegments(segs loom.Segments, langs []string, width int, theme loom.Theme) string {
	var parts []string
	codeIdx := 0
	for _, seg := range segs {
		switch seg.Kind {
		case loom.SegmentCode:
			lang := ""
			if codeIdx < len(langs) {
				lang = langs[codeIdx]
			}
			codeIdx++
			if r := goldmark.RenderCode(seg.Content, lang, theme); r != "" {
				parts = append(parts, r)
			}
		default:
			if r := goldmark.Render(seg.Content, width, theme); r != "" {
				parts = append(parts, r)
			}
		}
	}
	return strings.Join(parts, "\n\n")
}
