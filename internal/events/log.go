package events

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	event_type TEXT NOT NULL,
	entity_type TEXT NOT NULL,
	entity_id TEXT NOT NULL,
	payload TEXT NOT NULL,
	occurred_at TIMESTAMP NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_events_type ON events(event_type);
CREATE INDEX IF NOT EXISTS idx_events_entity ON events(entity_type, entity_id);
CREATE INDEX IF NOT EXISTS idx_events_occurred ON events(occurred_at);
`

// EventLog persists the event stream to SQLite so a run's progress can
// be inspected after the fact. Persistence is best effort from the
// bus's point of view; the log itself reports its errors normally.
type EventLog struct {
	db *sql.DB
}

// NewEventLog creates a new event log over an open database, creating
// the schema if needed.
func NewEventLog(db *sql.DB) (*EventLog, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create events schema: %w", err)
	}
	return &EventLog{db: db}, nil
}

// Append persists an event and returns its row ID.
func (l *EventLog) Append(e Event) (int64, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return 0, fmt.Errorf("marshal %s event: %w", e.EventType(), err)
	}
	res, err := l.db.Exec(
		`INSERT INTO events (event_type, entity_type, entity_id, payload, occurred_at) VALUES (?, ?, ?, ?, ?)`,
		e.EventType(), e.EntityType(), e.EntityID(), string(payload), e.OccurredAt().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("append %s event: %w", e.EventType(), err)
	}
	return res.LastInsertId()
}

// RawEvent is a persisted event row. Payload holds the JSON encoding of
// the concrete event; Registry.Unmarshal turns it back into one.
type RawEvent struct {
	ID         int64
	EventType  string
	EntityType string
	EntityID   string
	Payload    string
	OccurredAt time.Time
	CreatedAt  time.Time
}

// Since returns every event that occurred at or after t, oldest first.
func (l *EventLog) Since(t time.Time) ([]RawEvent, error) {
	return l.selectEvents(`occurred_at >= ?`, t.UTC())
}

// ForEntity returns every event recorded against one entity, oldest
// first. Entity types are "stage", "series", "episode", and "worker".
func (l *EventLog) ForEntity(entityType, entityID string) ([]RawEvent, error) {
	return l.selectEvents(`entity_type = ? AND entity_id = ?`, entityType, entityID)
}

// Prune deletes events older than the given age and reports how many
// rows went away.
func (l *EventLog) Prune(olderThan time.Duration) (int64, error) {
	res, err := l.db.Exec(`DELETE FROM events WHERE occurred_at < ?`, time.Now().Add(-olderThan).UTC())
	if err != nil {
		return 0, fmt.Errorf("prune events: %w", err)
	}
	return res.RowsAffected()
}

func (l *EventLog) selectEvents(where string, args ...any) ([]RawEvent, error) {
	q := `SELECT id, event_type, entity_type, entity_id, payload, occurred_at, created_at
		FROM events WHERE ` + where + ` ORDER BY id ASC`
	rows, err := l.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []RawEvent
	for rows.Next() {
		var r RawEvent
		if err := rows.Scan(&r.ID, &r.EventType, &r.EntityType, &r.EntityID, &r.Payload, &r.OccurredAt, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
