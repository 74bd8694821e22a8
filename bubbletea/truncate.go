package bubbletea

import "github.com/rivo/uniseg"

// truncateWidth shortens s to at most maxWidth terminal cells, cutting on
// grapheme cluster boundaries so combining marks and emoji are never torn
// apart. A truncated string ends with an ellipsis.
func truncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if uniseg.StringWidth(s) <= maxWidth {
		return s
	}

	budget := maxWidth - 1 // reserve one cell for the ellipsis
	width := 0
	out := make([]byte, 0, len(s))
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := g.Width()
		if width+w > budget {
			break
		}
		width += w
		out = append(out, g.Bytes()...)
	}
	return string(out) + "…"
}
