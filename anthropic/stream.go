package anthropic

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jmalek/loom"
)

// stream implements [loom.ChunkStream] by parsing SSE events from an HTTP
// response body and surfacing only text deltas.
type stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	ctx     context.Context
	state   loom.StreamState
	err     error // terminal error, if any
}

// Interface compliance check.
var _ loom.ChunkStream = (*stream)(nil)

func newStream(ctx context.Context, body io.ReadCloser) *stream {
	return &stream{
		body:    body,
		scanner: bufio.NewScanner(body),
		ctx:     ctx,
		state:   loom.StreamStateNew,
	}
}

// Next reads SSE events until the next text delta. Returns io.EOF when the
// stream completes normally.
func (s *stream) Next() (string, error) {
	switch s.state {
	case loom.StreamStateComplete:
		return "", io.EOF
	case loom.StreamStateError:
		return "", s.err
	case loom.StreamStateClosed:
		return "", fmt.Errorf("anthropic: %w", loom.ErrStreamClosed)
	}

	for {
		eventType, data, err := s.readSSEEvent()
		if err != nil {
			s.terminate(err)
			return "", s.err
		}

		s.state = loom.StreamStateStreaming

		chunk, err := s.processEvent(eventType, data)
		if err != nil {
			s.terminate(err)
			return "", s.err
		}

		// processEvent may set a terminal state (message_stop).
		if s.state == loom.StreamStateComplete {
			return "", io.EOF
		}

		if chunk != "" {
			return chunk, nil
		}
		// Non-text event (ping, message_start, etc.) - keep reading.
	}
}

// State returns the current stream state.
func (s *stream) State() loom.StreamState {
	return s.state
}

// Close closes the underlying HTTP response body.
func (s *stream) Close() error {
	if s.state != loom.StreamStateComplete && s.state != loom.StreamStateError {
		s.state = loom.StreamStateClosed
	}
	return s.body.Close()
}

// terminate records a terminal error and sets the appropriate state.
func (s *stream) terminate(err error) {
	if err == io.EOF {
		// Normal completion via message_stop sets StreamStateComplete
		// before we reach here. Raw EOF means the stream ended early.
		s.state = loom.StreamStateError
		s.err = fmt.Errorf("anthropic: unexpected end of stream")
		return
	}
	s.state = loom.StreamStateError
	if s.ctx.Err() != nil {
		s.err = s.ctx.Err()
		return
	}
	s.err = err
}

// readSSEEvent reads lines until a complete SSE event is assembled.
// Returns the event type and the data payload.
func (s *stream) readSSEEvent() (string, string, error) {
	var eventType string
	var dataBuf strings.Builder

	for s.scanner.Scan() {
		line := s.scanner.Text()

		if line == "" {
			// Empty line signals end of event.
			if dataBuf.Len() > 0 {
				return eventType, dataBuf.String(), nil
			}
			// Empty event, keep reading.
			continue
		}

		if strings.HasPrefix(line, "event: ") {
			eventType = strings.TrimPrefix(line, "event: ")
		} else if strings.HasPrefix(line, "data: ") {
			if dataBuf.Len() > 0 {
				dataBuf.WriteByte('\n')
			}
			dataBuf.WriteString(strings.TrimPrefix(line, "data: "))
		}
		// Ignore comments (lines starting with ':') and unknown fields.
	}

	if err := s.scanner.Err(); err != nil {
		return "", "", fmt.Errorf("anthropic: %w", err)
	}

	// Scanner exhausted without error = EOF.
	if dataBuf.Len() > 0 {
		return eventType, dataBuf.String(), nil
	}
	return "", "", io.EOF
}

// processEvent maps an SSE event to a text chunk. Returns an empty chunk
// for events that carry no text.
func (s *stream) processEvent(eventType, data string) (string, error) {
	switch eventType {
	case "content_block_delta":
		var evt sseContentBlockDelta
		if err := json.Unmarshal([]byte(data), &evt); err != nil {
			return "", fmt.Errorf("anthropic: failed to parse content_block_delta: %w", err)
		}
		if evt.Delta.Type != "text_delta" {
			return "", nil
		}
		return evt.Delta.Text, nil
	case "message_stop":
		s.state = loom.StreamStateComplete
		return "", nil
	case "error":
		var evt sseError
		if err := json.Unmarshal([]byte(data), &evt); err != nil {
			return "", fmt.Errorf("anthropic: failed to parse error event: %w", err)
		}
		return "", fmt.Errorf("anthropic: %s: %s", evt.Error.Type, evt.Error.Message)
	default:
		// message_start, content_block_start, content_block_stop,
		// message_delta, ping: nothing to surface.
		return "", nil
	}
}
