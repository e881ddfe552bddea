package pipeline

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/podarr/podarr/internal/events"
	"github.com/podarr/podarr/internal/library"
)

// fatalError marks a failure the stage cannot continue past (storage
// read/write errors). Everything else is a per-job failure: reported on
// the bus, then skipped.
type fatalError struct {
	err error
}

// fatal wraps a storage error so the worker pool aborts the stage
// instead of skipping the job.
func fatal(err error) error {
	if err == nil {
		return nil
	}
	return fatalError{err: err}
}

func (f fatalError) Error() string { return f.err.Error() }
func (f fatalError) Unwrap() error { return f.err }

func isFatal(err error) bool {
	var f fatalError
	return errors.As(err, &f)
}

// runPool drains the job list with a fixed-size pool of workers. The
// pool is clamped to the job count so idle workers are never spawned.
// Each worker checks the canceller before popping a job; per-job errors
// never stop a sibling, fatal errors stop everyone.
func runPool[T any](
	ctx context.Context,
	stage string,
	workers int,
	canc *Canceller,
	bus *events.Bus,
	jobs []T,
	action func(ctx context.Context, worker int, job T) error,
) error {
	if len(jobs) == 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	q := newQueue(jobs)
	g, ctx := errgroup.WithContext(ctx)
	for idx := 0; idx < workers; idx++ {
		g.Go(func() error {
			defer func() { _ = bus.Publish(ctx, events.NewWorkerStopped(stage, idx)) }()
			for {
				if canc.Cancelled() {
					return nil
				}
				job, ok := q.pop()
				if !ok {
					return nil
				}
				if err := action(ctx, idx, job); err != nil {
					return err
				}
			}
		})
	}
	return g.Wait()
}

// episodeAction adapts a per-episode job function to the pool, adding
// the job start/success/failure events and the skip-on-failure policy.
func episodeAction(
	stage string,
	bus *events.Bus,
	fn func(ctx context.Context, e *library.Episode) error,
) func(ctx context.Context, worker int, e *library.Episode) error {
	return func(ctx context.Context, worker int, e *library.Episode) error {
		_ = bus.Publish(ctx, events.NewJobStarted(stage, worker, e))
		if err := fn(ctx, e); err != nil {
			if isFatal(err) {
				return err
			}
			_ = bus.Publish(ctx, events.NewJobFailed(stage, worker, e, err))
			return nil
		}
		_ = bus.Publish(ctx, events.NewJobCompleted(stage, worker, e))
		return nil
	}
}
