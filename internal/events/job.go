package events

import "github.com/podarr/podarr/internal/library"

// NewJobStarted creates a job start event for an episode.
func NewJobStarted(stage string, worker int, e *library.Episode) *JobStarted {
	return &JobStarted{
		BaseEvent: NewBaseEvent(EventJobStarted, "episode", e.ID),
		Stage:     stage,
		Worker:    worker,
		Series:    e.Series.String(),
		Label:     e.SequenceLabel,
		Title:     e.Title,
	}
}

// NewJobCompleted creates a job success event for an episode.
func NewJobCompleted(stage string, worker int, e *library.Episode) *JobCompleted {
	return &JobCompleted{
		BaseEvent: NewBaseEvent(EventJobCompleted, "episode", e.ID),
		Stage:     stage,
		Worker:    worker,
		Series:    e.Series.String(),
		Label:     e.SequenceLabel,
		Title:     e.Title,
	}
}

// NewSeriesJobFailed creates a failure event for a series-level job,
// where no single episode is to blame (a listing scrape, for instance).
func NewSeriesJobFailed(stage string, worker int, series library.Series, err error) *JobFailed {
	return &JobFailed{
		BaseEvent: NewBaseEvent(EventJobFailed, "series", series.String()),
		Stage:     stage,
		Worker:    worker,
		Series:    series.String(),
		Reason:    err.Error(),
	}
}

// NewJobFailed creates a job failure event for an episode.
func NewJobFailed(stage string, worker int, e *library.Episode, err error) *JobFailed {
	return &JobFailed{
		BaseEvent: NewBaseEvent(EventJobFailed, "episode", e.ID),
		Stage:     stage,
		Worker:    worker,
		Series:    e.Series.String(),
		Label:     e.SequenceLabel,
		Title:     e.Title,
		Reason:    err.Error(),
	}
}
