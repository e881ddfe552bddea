package events

import (
	"context"
	"log/slog"
	"sync"
)

// subscription is one consumer channel, optionally filtered to a single
// event type. An empty filter receives everything.
type subscription struct {
	filter string
	ch     chan Event
}

// Bus fans events out to subscribers. Delivery is non-blocking: a
// subscriber that cannot keep up loses events rather than stalling a
// pipeline worker. When an EventLog is attached, every published event
// is also persisted.
type Bus struct {
	mu     sync.RWMutex
	subs   []subscription
	log    *EventLog
	logger *slog.Logger
	closed bool
}

// NewBus creates a bus. Pass a nil EventLog to disable persistence.
func NewBus(log *EventLog, logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{log: log, logger: logger}
}

// Publish persists the event if a log is attached, then offers it to
// every matching subscriber without blocking.
func (b *Bus) Publish(ctx context.Context, e Event) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return nil
	}
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	if b.log != nil {
		if _, err := b.log.Append(e); err != nil {
			// Delivery matters more than persistence.
			b.logger.Error("failed to persist event", "type", e.EventType(), "error", err)
		}
	}

	for _, sub := range subs {
		if sub.filter != "" && sub.filter != e.EventType() {
			continue
		}
		select {
		case sub.ch <- e:
		default:
			b.logger.Warn("subscriber channel full, dropping event",
				"type", e.EventType(),
				"entity_type", e.EntityType(),
				"entity_id", e.EntityID())
		}
	}
	return nil
}

// Subscribe returns a channel receiving events of one type.
func (b *Bus) Subscribe(eventType string, bufferSize int) <-chan Event {
	return b.add(eventType, bufferSize)
}

// SubscribeAll returns a channel receiving every event.
func (b *Bus) SubscribeAll(bufferSize int) <-chan Event {
	return b.add("", bufferSize)
}

func (b *Bus) add(filter string, bufferSize int) <-chan Event {
	ch := make(chan Event, bufferSize)
	b.mu.Lock()
	b.subs = append(b.subs, subscription{filter: filter, ch: ch})
	b.mu.Unlock()
	return ch
}

// Close stops delivery and closes every subscriber channel. Publishing
// after Close is a silent no-op.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for _, sub := range b.subs {
		close(sub.ch)
	}
	b.subs = nil
	return nil
}
