// Package gen drives one response generation: it pulls chunks from a
// provider's stream and feeds them to the parser in strict delivery order,
// finalizing the parser whatever way the stream ends.
package gen

import (
	"context"
	"io"

	"github.com/jmalek/loom"
)

// RunOption configures a single Run invocation.
type RunOption func(*runConfig)

type runConfig struct {
	model string
}

// WithModel sets the model ID for the provider request during this run.
// Empty string means the provider uses its default model.
func WithModel(model string) RunOption {
	return func(c *runConfig) {
		c.model = model
	}
}

// Run streams one response through the parser. The parser is always
// finalized before Run returns, so the returned Response is a usable
// snapshot even when err is non-nil (transport failure, cancellation): the
// user still sees whatever arrived before the stream died.
func Run(ctx context.Context, provider loom.Provider, p *loom.Parser, req loom.Request, opts ...RunOption) (loom.Response, error) {
	var cfg runConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.model != "" {
		req.Model = cfg.model
	}

	stream, err := provider.Stream(ctx, req)
	if err != nil {
		return loom.Response{}, err
	}
	defer stream.Close()

	var streamErr error
	for {
		chunk, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			streamErr = err
			break
		}
		if chunk == "" {
			continue
		}
		if err := p.Write(chunk); err != nil {
			streamErr = err
			break
		}
	}

	p.End()
	return p.Response(), streamErr
}
