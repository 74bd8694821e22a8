package loom

// IsFenceMarker exposes fence marker line detection for tests.
func IsFenceMarker(line string, inCode bool) bool {
	return isFenceMarker(line, inCode)
}

// MarkerCandidate exposes the hold-back predicate for tests.
func MarkerCandidate(rest string, inCode bool) bool {
	return markerCandidate(rest, inCode)
}

// ScanBalanced exposes the balanced-brace scan for tests.
func ScanBalanced(s string) (int, bool) {
	return scanBalanced(s)
}
