package loom

import (
	"encoding/json"
	"strings"
)

// defaultManifestBudget bounds how much input the extractor will buffer
// while waiting for the manifest object to balance. Past this, extraction
// is abandoned and the text degrades to ordinary content.
const defaultManifestBudget = 4096

// manifestExtractor recognizes an optional dependency-manifest object at
// the very start of a response. It uses a balanced-brace scan rather than a
// full parser so it can distinguish "not yet complete" (keep waiting) from
// "complete but malformed" (abandon) while the stream is still arriving.
//
// The exact convention is configurable: seed supports the variant where the
// caller supplies a known-truncated opening fragment that the model's
// output continues.
type manifestExtractor struct {
	seed     string
	budget   int
	disabled bool
	resolved bool
}

func newManifestExtractor() manifestExtractor {
	return manifestExtractor{budget: defaultManifestBudget}
}

// extract attempts to resolve the manifest from buf, the full unclassified
// text from the head of the stream. It returns done=false while judgment is
// deferred (nothing may be classified yet). Once done, manifest holds the
// result (nil for absent or malformed) and consumed is the byte offset in
// buf where ordinary content classification resumes.
func (m *manifestExtractor) extract(buf string) (manifest Manifest, consumed int, done bool) {
	if m.resolved {
		return nil, 0, true
	}

	text := m.seed + buf
	// Leading whitespace before the object is tolerated and treated as part
	// of the manifest region.
	trimmed := strings.TrimLeft(text, " \t\r\n")
	if trimmed == "" {
		// Nothing but whitespace so far; an object may still follow.
		if len(text) > m.budget {
			m.resolved = true
			return nil, 0, true
		}
		return nil, 0, false
	}
	if trimmed[0] != '{' {
		m.resolved = true
		return nil, 0, true
	}

	start := len(text) - len(trimmed)
	end, balanced := scanBalanced(text[start:])
	if !balanced {
		if len(text) > m.budget {
			m.resolved = true
			return nil, 0, true
		}
		return nil, 0, false
	}
	if start+end > m.budget {
		// The bound applies to the balanced object too, so the outcome
		// does not depend on how the input was chunked.
		m.resolved = true
		return nil, 0, true
	}

	m.resolved = true
	var deps map[string]string
	if err := json.Unmarshal([]byte(text[start:start+end]), &deps); err != nil {
		// Balanced but malformed: degrade to empty manifest and let the
		// whole region be classified as ordinary content.
		return nil, 0, true
	}
	consumed = start + end - len(m.seed)
	if consumed < 0 {
		consumed = 0
	}
	return Manifest(deps), consumed, true
}

// abandon forces resolution with an empty manifest, used when the stream
// ends before the object balances.
func (m *manifestExtractor) abandon() {
	m.resolved = true
}

func (m *manifestExtractor) reset() {
	m.resolved = m.disabled
}

// scanBalanced scans s (which must start with '{') for the matching closing
// brace, respecting string literals and escape sequences. It returns the
// offset one past the closing brace and whether balance was reached.
func scanBalanced(s string) (int, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}
