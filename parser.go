package loom

import "strings"

// Parser is the incremental state machine that turns one in-flight model
// response into a Response while the stream is still arriving. Chunks are
// fed in delivery order via Write, followed by exactly one End. The
// instance is exclusively owned by its creator; it is not safe for
// concurrent use, and Reset (rather than a fresh allocation) readies it for
// the next response.
//
// Malformed input never fails a parse: a bad manifest or an unterminated
// fence degrades to plain content. The only error Write returns is
// ErrFinalized, a programming mistake rather than a data problem.
type Parser struct {
	raw       strings.Builder
	pending   string // unclassified tail of the buffer
	segments  Segments
	manifest  Manifest
	scanner   fenceScanner
	extractor manifestExtractor

	manifestResolved bool
	finalized        bool

	handlers []func(Event)
}

// Option configures a Parser at construction time. Options survive Reset.
type Option func(*Parser)

// WithEventHandler registers a callback invoked synchronously for each
// notification the parser raises. Handlers run in registration order.
func WithEventHandler(h func(Event)) Option {
	return func(p *Parser) {
		p.handlers = append(p.handlers, h)
	}
}

// WithManifestBudget sets the byte bound past which an unbalanced manifest
// object is abandoned. Values < 1 keep the default.
func WithManifestBudget(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.extractor.budget = n
		}
	}
}

// WithManifestSeed sets a known-truncated opening fragment that the
// response's manifest object continues. The seed itself is never part of
// any segment's content.
func WithManifestSeed(seed string) Option {
	return func(p *Parser) {
		p.extractor.seed = seed
	}
}

// WithoutManifest disables manifest extraction entirely; the whole stream
// is classified as ordinary content from the first byte.
func WithoutManifest() Option {
	return func(p *Parser) {
		p.extractor.disabled = true
		p.extractor.resolved = true
	}
}

// NewParser creates a Parser for a single in-flight response.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		scanner:   newFenceScanner(),
		extractor: newManifestExtractor(),
	}
	for _, o := range opts {
		o(p)
	}
	p.manifestResolved = p.extractor.resolved
	return p
}

// Write appends one streamed chunk and advances classification. It returns
// ErrFinalized after End; any other input, however malformed, is absorbed.
func (p *Parser) Write(chunk string) error {
	if p.finalized {
		return ErrFinalized
	}
	p.raw.WriteString(chunk)
	p.pending += chunk

	if !p.manifestResolved {
		manifest, consumed, done := p.extractor.extract(p.pending)
		if !done {
			// Judgment deferred: nothing is classified until the object
			// balances, fails, or the stream ends.
			return nil
		}
		p.resolveManifest(manifest)
		p.pending = p.pending[consumed:]
	}

	ins, consumed := p.scanner.scan(p.pending)
	p.pending = p.pending[consumed:]
	p.apply(ins)
	return nil
}

// End finalizes the response: the held-back marker candidate is committed
// best-effort, a still-pending manifest defaults to empty, and EventComplete
// is raised with the final snapshot. Calling End again is a no-op.
func (p *Parser) End() {
	if p.finalized {
		return
	}
	if !p.manifestResolved {
		p.extractor.abandon()
		p.resolveManifest(nil)
	}

	ins, consumed := p.scanner.scan(p.pending)
	p.apply(ins)
	p.apply(p.scanner.finish(p.pending[consumed:]))
	p.pending = ""

	p.finalized = true
	p.emit(EventComplete{Segments: p.segments.Clone(), Manifest: p.manifest.Clone()})
}

// Reset returns the parser to its initial state for reuse on the next
// response. Registered handlers and construction options are kept; no
// notifications are raised.
func (p *Parser) Reset() {
	p.raw.Reset()
	p.pending = ""
	p.segments = nil
	p.manifest = nil
	p.scanner.reset()
	p.extractor.reset()
	p.manifestResolved = p.extractor.resolved
	p.finalized = false
}

// Segments returns a snapshot copy of the segment sequence so far.
func (p *Parser) Segments() Segments {
	return p.segments.Clone()
}

// Manifest returns a copy of the resolved dependency manifest. It is nil
// until resolution and may be empty afterwards.
func (p *Parser) Manifest() Manifest {
	return p.manifest.Clone()
}

// Response returns a snapshot of the structured response so far.
func (p *Parser) Response() Response {
	return Response{Segments: p.segments.Clone(), Dependencies: p.manifest.Clone()}
}

// InCodeBlock reports whether the parser currently believes it is inside an
// open code fence.
func (p *Parser) InCodeBlock() bool {
	return p.scanner.inCode
}

// Languages returns the language tags of the code fences opened so far, in
// order. Untagged fences contribute an empty string.
func (p *Parser) Languages() []string {
	out := make([]string, len(p.scanner.langs))
	copy(out, p.scanner.langs)
	return out
}

// Finalized reports whether End has been called.
func (p *Parser) Finalized() bool {
	return p.finalized
}

// Raw returns the full text received so far, including manifest and fence
// marker bytes.
func (p *Parser) Raw() string {
	return p.raw.String()
}

func (p *Parser) resolveManifest(m Manifest) {
	p.manifest = m
	p.manifestResolved = true
	p.emit(EventManifestResolved{Manifest: m.Clone()})
}

func (p *Parser) apply(ins []instruction) {
	for _, in := range ins {
		p.segments.OpenOrExtend(in.kind, in.text)
		switch in.kind {
		case SegmentCode:
			p.emit(EventCodeDelta{Delta: in.text})
		default:
			p.emit(EventProseDelta{Delta: in.text})
		}
	}
}

func (p *Parser) emit(e Event) {
	for _, h := range p.handlers {
		h(e)
	}
}
