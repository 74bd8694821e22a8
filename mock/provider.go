package mock

import (
	"context"

	"github.com/jmalek/loom"
)

// Interface compliance check.
var _ loom.Provider = (*Provider)(nil)

// Provider is a test double for loom.Provider.
// Set StreamFn before calling Stream.
type Provider struct {
	StreamFn func(ctx context.Context, req loom.Request) (loom.ChunkStream, error)
}

// Stream delegates to StreamFn.
func (p *Provider) Stream(ctx context.Context, req loom.Request) (loom.ChunkStream, error) {
	return p.StreamFn(ctx, req)
}
