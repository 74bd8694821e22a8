package loom

import "context"

// StreamState indicates the current state of a ChunkStream.
type StreamState int

const (
	StreamStateNew       StreamState = iota // Before Next() is ever called.
	StreamStateStreaming                    // Mid-stream, receiving chunks.
	StreamStateComplete                     // Next() returned io.EOF.
	StreamStateError                        // Next() returned non-EOF error.
	StreamStateClosed                       // Close() called before terminal state.
)

// ChunkStream delivers a model response as a sequence of UTF-8 text
// fragments, using a pull-based iterator pattern. Next returns io.EOF when
// the stream completes normally. Cancellation flows through the context
// passed to Provider.Stream().
//
// Chunks must be consumed in order by a single goroutine; the parser relies
// on in-order, non-overlapping delivery.
type ChunkStream interface {
	Next() (string, error)
	State() StreamState
	Close() error
}

// Provider is a strategy pattern interface for LLM backends.
type Provider interface {
	Stream(ctx context.Context, req Request) (ChunkStream, error)
}

// Request carries model selection and generation parameters.
// The provider uses its own defaults when fields are zero/nil.
type Request struct {
	Model        string // model ID, provider-specific; empty = provider default
	SystemPrompt string
	Prompt       string   // the user's message for this response
	MaxTokens    int      // 0 = provider default
	Temperature  *float64 // nil = provider default
}
