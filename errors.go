package loom

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrFinalized indicates Write was called after End.
	ErrFinalized = errors.New("parser finalized: call Reset before reuse")

	// ErrStreamNotReady indicates Message-style access before the first Next.
	ErrStreamNotReady = errors.New("stream not ready: call Next first")

	// ErrStreamClosed indicates an operation on a closed chunk stream.
	ErrStreamClosed = errors.New("stream closed")
)
