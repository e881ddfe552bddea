package events

import (
	"encoding/json"
	"fmt"
)

// EventFactory returns a zero value of one concrete event type.
type EventFactory func() Event

// Registry turns persisted RawEvents back into concrete events.
type Registry struct {
	factories map[string]EventFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]EventFactory)}
}

// Register maps an event type to its factory.
func (r *Registry) Register(eventType string, factory EventFactory) {
	r.factories[eventType] = factory
}

// Unmarshal decodes a raw event's payload into its concrete type.
func (r *Registry) Unmarshal(raw RawEvent) (Event, error) {
	factory, ok := r.factories[raw.EventType]
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", raw.EventType)
	}
	e := factory()
	if err := json.Unmarshal([]byte(raw.Payload), e); err != nil {
		return nil, fmt.Errorf("unmarshal %s payload: %w", raw.EventType, err)
	}
	return e, nil
}

// DefaultRegistry knows every event type this module publishes.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for eventType, factory := range map[string]EventFactory{
		EventStageStarted:       func() Event { return &StageStarted{} },
		EventStageCompleted:     func() Event { return &StageCompleted{} },
		EventEpisodesDiscovered: func() Event { return &EpisodesDiscovered{} },
		EventJobStarted:         func() Event { return &JobStarted{} },
		EventJobCompleted:       func() Event { return &JobCompleted{} },
		EventJobFailed:          func() Event { return &JobFailed{} },
		EventWorkerStopped:      func() Event { return &WorkerStopped{} },
	} {
		r.Register(eventType, factory)
	}
	return r
}
