// Package mock provides test doubles for loom interfaces using function fields.
package mock

import (
	"io"

	"github.com/jmalek/loom"
)

// Interface compliance checks.
var (
	_ loom.ChunkStream = (*Stream)(nil)
	_ loom.ChunkStream = (*ScriptedStream)(nil)
)

// Stream is a test double for loom.ChunkStream.
// Set the function fields for the methods you need. NextFn panics when nil
// to catch missing setup. CloseFn and StateFn are nil-safe (no-op and zero
// value) because test code commonly calls defer stream.Close() and these
// methods rarely need custom behavior.
type Stream struct {
	NextFn  func() (string, error)
	StateFn func() loom.StreamState
	CloseFn func() error
}

// Next delegates to NextFn.
func (s *Stream) Next() (string, error) {
	return s.NextFn()
}

// State delegates to StateFn. Returns StreamStateNew when StateFn is nil.
func (s *Stream) State() loom.StreamState {
	if s.StateFn == nil {
		return loom.StreamStateNew
	}
	return s.StateFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *Stream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

// ScriptedStream replays a fixed sequence of chunks, then an optional
// terminal error (io.EOF when Err is nil). It tracks state transitions the
// way real providers do, so pump-loop tests can assert on them.
type ScriptedStream struct {
	Chunks []string
	Err    error // returned after chunks are exhausted; nil means io.EOF

	pos    int
	state  loom.StreamState
	closed bool
}

// Next returns the next scripted chunk.
func (s *ScriptedStream) Next() (string, error) {
	if s.closed {
		return "", loom.ErrStreamClosed
	}
	if s.pos < len(s.Chunks) {
		c := s.Chunks[s.pos]
		s.pos++
		s.state = loom.StreamStateStreaming
		return c, nil
	}
	if s.Err != nil {
		s.state = loom.StreamStateError
		return "", s.Err
	}
	s.state = loom.StreamStateComplete
	return "", io.EOF
}

// State returns the current stream state.
func (s *ScriptedStream) State() loom.StreamState {
	return s.state
}

// Close marks the stream closed.
func (s *ScriptedStream) Close() error {
	if s.state != loom.StreamStateComplete && s.state != loom.StreamStateError {
		s.state = loom.StreamStateClosed
	}
	s.closed = true
	return nil
}
