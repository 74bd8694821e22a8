package loom

// Event is a sealed interface representing a parser notification.
// Events are purely semantic. Programmer-misuse errors come from
// Write's error return, not from events.
// The unexported marker method prevents external implementations.
type Event interface {
	event()
}

// EventProseDelta carries new prose text appended to the current (or a newly
// opened) prose segment.
type EventProseDelta struct {
	Delta string
}

func (EventProseDelta) event() {}

// EventCodeDelta carries new code text appended to the current (or a newly
// opened) code segment.
type EventCodeDelta struct {
	Delta string
}

func (EventCodeDelta) event() {}

// EventManifestResolved signals that manifest extraction has concluded,
// successfully or by abandonment. Raised exactly once per response. The
// manifest may be empty when the stream declared no dependencies or the
// declaration was malformed.
type EventManifestResolved struct {
	Manifest Manifest
}

func (EventManifestResolved) event() {}

// EventComplete is the terminal notification, raised once by End with the
// final snapshot of the response.
type EventComplete struct {
	Segments Segments
	Manifest Manifest
}

func (EventComplete) event() {}

// Interface compliance checks.
var (
	_ Event = EventProseDelta{}
	_ Event = EventCodeDelta{}
	_ Event = EventManifestResolved{}
	_ Event = EventComplete{}
)
