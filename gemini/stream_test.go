package gemini_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/jmalek/loom"
	"github.com/jmalek/loom/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// mockChunks returns a genai-style streaming iterator from pre-built chunks.
func mockChunks(chunks []*genai.GenerateContentResponse) func(func(*genai.GenerateContentResponse, error) bool) {
	return func(yield func(*genai.GenerateContentResponse, error) bool) {
		for _, c := range chunks {
			if !yield(c, nil) {
				return
			}
		}
	}
}

func textChunk(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: parts},
		}},
	}
}

func TestStream_TextChunks(t *testing.T) {
	t.Parallel()
	s := gemini.NewStreamFromIter(context.Background(), mockChunks([]*genai.GenerateContentResponse{
		textChunk(&genai.Part{Text: "Hello "}),
		textChunk(&genai.Part{Text: "```go\n"}, &genai.Part{Text: "fmt.Println(1)\n"}),
	}))
	defer s.Close()

	chunk, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, "Hello ", chunk)
	assert.Equal(t, loom.StreamStateStreaming, s.State())

	chunk, err = s.Next()
	require.NoError(t, err)
	assert.Equal(t, "```go\nfmt.Println(1)\n", chunk)

	_, err = s.Next()
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, loom.StreamStateComplete, s.State())
}

func TestStream_SkipsThoughtParts(t *testing.T) {
	t.Parallel()
	s := gemini.NewStreamFromIter(context.Background(), mockChunks([]*genai.GenerateContentResponse{
		textChunk(&genai.Part{Text: "planning...", Thought: true}),
		textChunk(&genai.Part{Text: "visible"}),
	}))
	defer s.Close()

	chunk, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, "visible", chunk)
}

func TestStream_IteratorError(t *testing.T) {
	t.Parallel()
	wantErr := errors.New("quota exceeded")
	iterFn := func(yield func(*genai.GenerateContentResponse, error) bool) {
		yield(nil, wantErr)
	}
	s := gemini.NewStreamFromIter(context.Background(), iterFn)
	defer s.Close()

	_, err := s.Next()
	require.Error(t, err)
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, loom.StreamStateError, s.State())

	// Terminal error is sticky.
	_, err2 := s.Next()
	assert.Equal(t, err, err2)
}

func TestStream_CloseBeforeTerminal(t *testing.T) {
	t.Parallel()
	s := gemini.NewStreamFromIter(context.Background(), mockChunks([]*genai.GenerateContentResponse{
		textChunk(&genai.Part{Text: "x"}),
	}))

	require.NoError(t, s.Close())
	assert.Equal(t, loom.StreamStateClosed, s.State())

	_, err := s.Next()
	assert.ErrorIs(t, err, loom.ErrStreamClosed)
}

func TestStream_EmptyIterator(t *testing.T) {
	t.Parallel()
	s := gemini.NewStreamFromIter(context.Background(), mockChunks(nil))
	defer s.Close()

	_, err := s.Next()
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, loom.StreamStateComplete, s.State())
}
