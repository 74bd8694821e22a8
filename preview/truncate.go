package preview

import "strings"

const (
	DefaultMaxLines = 2000
	DefaultMaxBytes = 50 * 1024
)

// TruncateResult describes the outcome of tail truncation.
type TruncateResult struct {
	Content         string
	Truncated       bool
	TruncatedBy     string // "lines" or "bytes"
	TotalLines      int
	TotalBytes      int
	OutputLines     int
	OutputBytes     int
	LastLinePartial bool
}

// TruncateTail keeps the last maxLines lines or maxBytes bytes of input,
// whichever limit is hit first, collecting complete lines backwards from the
// end. If even the final line exceeds maxBytes, its tail is kept and
// LastLinePartial is set.
func TruncateTail(s string, maxLines, maxBytes int) TruncateResult {
	if s == "" {
		return TruncateResult{}
	}

	hasTrailingNewline := strings.HasSuffix(s, "\n")
	lines := splitLines(s)
	totalLines := len(lines)
	totalBytes := len(s)

	if totalLines <= maxLines && totalBytes <= maxBytes {
		return TruncateResult{
			Content:     s,
			TotalLines:  totalLines,
			TotalBytes:  totalBytes,
			OutputLines: totalLines,
			OutputBytes: totalBytes,
		}
	}

	// The output is lines joined by \n with the original trailing newline
	// restored, so reserve a byte for it up front.
	byteBudget := maxBytes
	if hasTrailingNewline {
		byteBudget--
	}

	var kept []string
	keptBytes := 0
	cutBy := ""

	for i := len(lines) - 1; i >= 0 && len(kept) < maxLines; i-- {
		cost := len(lines[i])
		if len(kept) > 0 {
			cost++ // separator
		}
		if keptBytes+cost > byteBudget {
			cutBy = "bytes"
			if len(kept) == 0 {
				// A single oversized line: keep its tail. No trailing
				// newline is restored on this path, so the full maxBytes
				// budget applies.
				tail := lines[i]
				if len(tail) > maxBytes {
					tail = tail[len(tail)-maxBytes:]
				}
				return TruncateResult{
					Content:         tail,
					Truncated:       true,
					TruncatedBy:     "bytes",
					TotalLines:      totalLines,
					TotalBytes:      totalBytes,
					OutputLines:     1,
					OutputBytes:     len(tail),
					LastLinePartial: true,
				}
			}
			break
		}
		kept = append(kept, lines[i])
		keptBytes += cost
	}

	if cutBy == "" {
		cutBy = "lines"
	}

	// kept was collected back-to-front.
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}

	content := strings.Join(kept, "\n")
	if hasTrailingNewline {
		content += "\n"
	}

	return TruncateResult{
		Content:     content,
		Truncated:   true,
		TruncatedBy: cutBy,
		TotalLines:  totalLines,
		TotalBytes:  totalBytes,
		OutputLines: len(kept),
		OutputBytes: len(content),
	}
}

// splitLines treats the final unterminated line as a line; a trailing
// newline does not produce an empty final element.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
