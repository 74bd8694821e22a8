package preview

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Sanitize strips ANSI escape sequences and control characters from process
// output. Tabs and newlines survive; CRLF normalizes to LF; a lone CR is
// resolved the way a terminal would, with later text overwriting the line
// from column zero.
func Sanitize(s string) string {
	s = ansi.Strip(s)

	// Normalize CRLF before filtering so the \r in \r\n is not treated as
	// an overwrite.
	s = strings.ReplaceAll(s, "\r\n", "\n")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\t' || r == '\n' || r == '\r' || r > 0x1F {
			b.WriteRune(r)
		}
	}
	s = b.String()

	if !strings.ContainsRune(s, '\r') {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if strings.ContainsRune(line, '\r') {
			lines[i] = resolveOverwrites(line)
		}
	}
	return strings.Join(lines, "\n")
}

// resolveOverwrites simulates carriage returns within one line: each \r
// resets the write position to column zero and subsequent characters
// overwrite. Characters past the end of a shorter overwrite remain, as on a
// real terminal.
func resolveOverwrites(line string) string {
	parts := strings.Split(line, "\r")
	cells := []rune(parts[0])
	for _, part := range parts[1:] {
		for j, r := range []rune(part) {
			if j < len(cells) {
				cells[j] = r
			} else {
				cells = append(cells, r)
			}
		}
	}
	return string(cells)
}
