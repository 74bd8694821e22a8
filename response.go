package loom

import "time"

// Response is the structured form of one model response: the classified
// segment sequence plus the resolved dependency manifest. It is the only
// representation that crosses the core/storage boundary.
type Response struct {
	Segments     Segments
	Dependencies Manifest
}

// Clone returns a deep copy of the response.
func (r Response) Clone() Response {
	return Response{
		Segments:     r.Segments.Clone(),
		Dependencies: r.Dependencies.Clone(),
	}
}

// Document is the stored unit of work: one prompt/response exchange with
// identity and timestamps. Multi-message conversation management is out of
// scope; a document holds exactly one exchange.
type Document struct {
	ID        string
	Title     string
	Prompt    string
	CreatedAt time.Time
	UpdatedAt time.Time
	Response  Response
}
