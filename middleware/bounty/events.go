package bounty

import (
	"sync"

	"bountyhub-backend/core/bounty"
)

var (
	eventSinksMu sync.Mutex
	eventSinks   []func(bounty.Event)
)

// RegisterEventSink adds a callback to receive bounty notifications. Sinks
// are invoked synchronously, once per successful mutating operation, after
// the state change.
func RegisterEventSink(sink func(bounty.Event)) {
	if sink == nil {
		return
	}
	eventSinksMu.Lock()
	eventSinks = append(eventSinks, sink)
	eventSinksMu.Unlock()
}

// PublishEvent forwards an event to registered sinks.
func PublishEvent(evt bounty.Event) {
	eventSinksMu.Lock()
	sinks := append([]func(bounty.Event){}, eventSinks...)
	eventSinksMu.Unlock()
	for _, sink := range sinks {
		sink(evt)
	}
}

// Recorder keeps a bounded in-memory tail of recent events for the
// activity feed endpoints.
type Recorder struct {
	mu     sync.Mutex
	events []bounty.Event
	limit  int
}

// NewRecorder returns a Recorder keeping at most limit events.
func NewRecorder(limit int) *Recorder {
	if limit <= 0 {
		limit = 256
	}
	return &Recorder{limit: limit}
}

// Record appends an event, dropping the oldest past the limit.
func (r *Recorder) Record(evt bounty.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	if len(r.events) > r.limit {
		r.events = r.events[len(r.events)-r.limit:]
	}
}

// Recent returns up to n most recent events, newest last.
func (r *Recorder) Recent(n int) []bounty.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n <= 0 || n > len(r.events) {
		n = len(r.events)
	}
	out := make([]bounty.Event, n)
	copy(out, r.events[len(r.events)-n:])
	return out
}
