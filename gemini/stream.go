package gemini

import (
	"context"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/jmalek/loom"
	"google.golang.org/genai"
)

// stream implements [loom.ChunkStream] by wrapping the genai SDK's
// streaming iterator and concatenating the text parts of each response.
type stream struct {
	pull  func() (*genai.GenerateContentResponse, error, bool)
	stop  func()
	ctx   context.Context
	state loom.StreamState
	err   error
}

// Interface compliance check.
var _ loom.ChunkStream = (*stream)(nil)

// NewStreamFromIter wraps a genai streaming iterator in a ChunkStream.
// Exported for testing with hand-built iterators.
func NewStreamFromIter(ctx context.Context, iterFn iter.Seq2[*genai.GenerateContentResponse, error]) loom.ChunkStream {
	next, stop := iter.Pull2(iterFn)
	return &stream{
		pull:  next,
		stop:  stop,
		ctx:   ctx,
		state: loom.StreamStateNew,
	}
}

// Next pulls responses until one yields text. Returns io.EOF when the
// iterator is exhausted.
func (s *stream) Next() (string, error) {
	switch s.state {
	case loom.StreamStateComplete:
		return "", io.EOF
	case loom.StreamStateError:
		return "", s.err
	case loom.StreamStateClosed:
		return "", fmt.Errorf("gemini: %w", loom.ErrStreamClosed)
	}

	for {
		resp, err, ok := s.pull()
		if !ok {
			s.state = loom.StreamStateComplete
			return "", io.EOF
		}
		if err != nil {
			s.state = loom.StreamStateError
			if s.ctx.Err() != nil {
				s.err = s.ctx.Err()
			} else {
				s.err = fmt.Errorf("gemini: %w", err)
			}
			return "", s.err
		}

		s.state = loom.StreamStateStreaming
		if text := extractText(resp); text != "" {
			return text, nil
		}
		// Thought-only or empty response, keep pulling.
	}
}

// State returns the current stream state.
func (s *stream) State() loom.StreamState {
	return s.state
}

// Close releases the underlying iterator.
func (s *stream) Close() error {
	if s.state != loom.StreamStateComplete && s.state != loom.StreamStateError {
		s.state = loom.StreamStateClosed
	}
	s.stop()
	return nil
}

// extractText concatenates the non-thought text parts of a response chunk.
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String()
}
