package events

import "joltchain/core/types"

// Event represents a structured state change emitted during group
// evaluation.
type Event interface {
	EventType() string
	Event() *types.Event
}

// Emitter broadcasts events to downstream subscribers (inspection
// tooling, tests).
type Emitter interface {
	Emit(Event)
}

// NoopEmitter satisfies the Emitter interface while discarding all
// events.
type NoopEmitter struct{}

// Emit implements the Emitter interface.
func (NoopEmitter) Emit(Event) {}

// Recorder collects emitted events in order. Intended for tests and
// the operator console.
type Recorder struct {
	events []*types.Event
}

// Emit implements the Emitter interface.
func (r *Recorder) Emit(evt Event) {
	if evt == nil {
		return
	}
	r.events = append(r.events, evt.Event())
}

// Events returns the recorded events in emission order.
func (r *Recorder) Events() []*types.Event {
	return r.events
}

// Reset discards all recorded events.
func (r *Recorder) Reset() {
	r.events = nil
}
