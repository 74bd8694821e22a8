// Package goldmark renders markdown text to ANSI-styled terminal output
// using goldmark for parsing and lipgloss for styling.
package goldmark

import (
	"bytes"
	"strings"

	"github.com/jmalek/loom"
)

// Render parses markdown source and returns ANSI-styled terminal output.
// Paragraphs and list items are word-wrapped to width. Code blocks are
// rendered at full width without reflow.
func Render(source string, width int, theme loom.Theme) string {
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	r := newTermRenderer(theme)
	return r.renderDocument([]byte(source), width)
}

// RenderCode renders already-extracted code behind a muted gutter, preceded
// by a language caption when lang is non-empty. The content is not parsed
// as markdown and is never reflowed.
func RenderCode(content, lang string, theme loom.Theme) string {
	if content == "" && lang == "" {
		return ""
	}
	r := newTermRenderer(theme)
	var buf bytes.Buffer
	r.renderCodeLines(content, lang, &buf)
	return strings.TrimRight(buf.String(), "\n")
}
