package anthropic_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jmalek/loom"
	"github.com/jmalek/loom/anthropic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sseStream returns a ChunkStream served from a canned SSE body.
func sseStream(t *testing.T, body string) loom.ChunkStream {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	client := anthropic.New("k", anthropic.WithBaseURL(srv.URL))
	s, err := client.Stream(context.Background(), loom.Request{Prompt: "hi"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStream_TextDeltas(t *testing.T) {
	t.Parallel()
	s := sseStream(t, "event: message_start\n"+
		"data: {\"type\":\"message_start\"}\n\n"+
		"event: content_block_start\n"+
		"data: {\"type\":\"content_block_start\",\"index\":0,\"content_block\":{\"type\":\"text\"}}\n\n"+
		"event: content_block_delta\n"+
		"data: {\"type\":\"content_block_delta\",\"index\":0,\"delta\":{\"type\":\"text_delta\",\"text\":\"Hello \"}}\n\n"+
		"event: ping\n"+
		"data: {\"type\":\"ping\"}\n\n"+
		"event: content_block_delta\n"+
		"data: {\"type\":\"content_block_delta\",\"index\":0,\"delta\":{\"type\":\"text_delta\",\"text\":\"```go\\n\"}}\n\n"+
		"event: content_block_stop\n"+
		"data: {\"type\":\"content_block_stop\",\"index\":0}\n\n"+
		"event: message_stop\n"+
		"data: {\"type\":\"message_stop\"}\n\n")

	assert.Equal(t, loom.StreamStateNew, s.State())

	chunk, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, "Hello ", chunk)
	assert.Equal(t, loom.StreamStateStreaming, s.State())

	chunk, err = s.Next()
	require.NoError(t, err)
	assert.Equal(t, "```go\n", chunk)

	_, err = s.Next()
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, loom.StreamStateComplete, s.State())

	// Terminal state is sticky.
	_, err = s.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestStream_ErrorEvent(t *testing.T) {
	t.Parallel()
	s := sseStream(t, "event: error\n"+
		"data: {\"type\":\"error\",\"error\":{\"type\":\"overloaded_error\",\"message\":\"try later\"}}\n\n")

	_, err := s.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overloaded_error")
	assert.Equal(t, loom.StreamStateError, s.State())
}

func TestStream_UnexpectedEOF(t *testing.T) {
	t.Parallel()
	// Body ends without a message_stop event.
	s := sseStream(t, "event: content_block_delta\n"+
		"data: {\"type\":\"content_block_delta\",\"index\":0,\"delta\":{\"type\":\"text_delta\",\"text\":\"partial\"}}\n\n")

	chunk, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, "partial", chunk)

	_, err = s.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected end of stream")
	assert.Equal(t, loom.StreamStateError, s.State())
}

func TestStream_CloseBeforeTerminal(t *testing.T) {
	t.Parallel()
	s := sseStream(t, "event: content_block_delta\n"+
		"data: {\"type\":\"content_block_delta\",\"index\":0,\"delta\":{\"type\":\"text_delta\",\"text\":\"x\"}}\n\n"+
		"event: message_stop\n"+
		"data: {\"type\":\"message_stop\"}\n\n")

	_, err := s.Next()
	require.NoError(t, err)

	require.NoError(t, s.Close())
	assert.Equal(t, loom.StreamStateClosed, s.State())

	_, err = s.Next()
	assert.ErrorIs(t, err, loom.ErrStreamClosed)
}

func TestStream_MalformedDelta(t *testing.T) {
	t.Parallel()
	s := sseStream(t, "event: content_block_delta\n"+
		"data: not json\n\n")

	_, err := s.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content_block_delta")
	assert.Equal(t, loom.StreamStateError, s.State())
}
