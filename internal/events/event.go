// Package events carries the pipeline's progress event stream. Consuming
// it is never required for correctness; the stages publish and move on.
package events

import "time"

// Event is the base interface all events implement.
type Event interface {
	EventType() string
	EntityType() string // "stage", "series", "episode", "worker"
	EntityID() string
	OccurredAt() time.Time
}

// BaseEvent provides common fields for all events.
type BaseEvent struct {
	Type      string    `json:"type"`
	Entity    string    `json:"entity_type"`
	ID        string    `json:"entity_id"`
	Timestamp time.Time `json:"occurred_at"`
}

func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) EntityType() string    { return e.Entity }
func (e BaseEvent) EntityID() string      { return e.ID }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// NewBaseEvent creates a BaseEvent with the current timestamp.
func NewBaseEvent(eventType, entityType, entityID string) BaseEvent {
	return BaseEvent{
		Type:      eventType,
		Entity:    entityType,
		ID:        entityID,
		Timestamp: time.Now(),
	}
}

// Event type identifiers.
const (
	EventStageStarted       = "stage.started"
	EventStageCompleted     = "stage.completed"
	EventEpisodesDiscovered = "series.episodes_discovered"
	EventJobStarted         = "job.started"
	EventJobCompleted       = "job.completed"
	EventJobFailed          = "job.failed"
	EventWorkerStopped      = "worker.stopped"
)

// StageStarted marks the beginning of a pipeline stage.
type StageStarted struct {
	BaseEvent
	Stage string `json:"stage"`
	Jobs  int    `json:"jobs"`
}

// NewStageStarted creates a stage start event.
func NewStageStarted(stage string, jobs int) *StageStarted {
	return &StageStarted{
		BaseEvent: NewBaseEvent(EventStageStarted, "stage", stage),
		Stage:     stage,
		Jobs:      jobs,
	}
}

// StageCompleted marks the end of a pipeline stage, whether it drained
// its job list or stopped early on cancellation.
type StageCompleted struct {
	BaseEvent
	Stage     string `json:"stage"`
	Cancelled bool   `json:"cancelled"`
}

// NewStageCompleted creates a stage completion event.
func NewStageCompleted(stage string, cancelled bool) *StageCompleted {
	return &StageCompleted{
		BaseEvent: NewBaseEvent(EventStageCompleted, "stage", stage),
		Stage:     stage,
		Cancelled: cancelled,
	}
}

// EpisodesDiscovered reports how many previously unseen episodes a
// listing scrape added for a series.
type EpisodesDiscovered struct {
	BaseEvent
	Series string `json:"series"`
	Count  int    `json:"count"`
}

// NewEpisodesDiscovered creates a discovery event.
func NewEpisodesDiscovered(series string, count int) *EpisodesDiscovered {
	return &EpisodesDiscovered{
		BaseEvent: NewBaseEvent(EventEpisodesDiscovered, "series", series),
		Series:    series,
		Count:     count,
	}
}

// JobStarted marks one worker picking up one episode job.
type JobStarted struct {
	BaseEvent
	Stage  string `json:"stage"`
	Worker int    `json:"worker"`
	Series string `json:"series"`
	Label  string `json:"label"`
	Title  string `json:"title"`
}

// JobCompleted marks a job finishing successfully.
type JobCompleted struct {
	BaseEvent
	Stage  string `json:"stage"`
	Worker int    `json:"worker"`
	Series string `json:"series"`
	Label  string `json:"label"`
	Title  string `json:"title"`
}

// JobFailed marks a job failing; the worker moves on and the episode is
// reconsidered on the next run.
type JobFailed struct {
	BaseEvent
	Stage  string `json:"stage"`
	Worker int    `json:"worker"`
	Series string `json:"series"`
	Label  string `json:"label"`
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

// WorkerStopped marks one worker exiting its loop, either because the
// job list drained or because cancellation was observed.
type WorkerStopped struct {
	BaseEvent
	Stage  string `json:"stage"`
	Worker int    `json:"worker"`
}

// NewWorkerStopped creates a worker shutdown event.
func NewWorkerStopped(stage string, worker int) *WorkerStopped {
	return &WorkerStopped{
		BaseEvent: NewBaseEvent(EventWorkerStopped, "worker", stage),
		Stage:     stage,
		Worker:    worker,
	}
}
