package pipeline

import (
	"context"

	"github.com/podarr/podarr/internal/events"
	"github.com/podarr/podarr/internal/library"
	"github.com/podarr/podarr/internal/scraper"
)

// StageResolution names the second pipeline stage.
const StageResolution = "resolution"

// Resolution fills in the download location for every episode that does
// not have one yet. Once set, a location is never rewritten within a
// run.
type Resolution struct {
	renderer scraper.Renderer
	store    *library.Store
	series   []library.Series
	workers  int
	bus      *events.Bus
}

// NewResolution creates the resolution stage with a worker-pool bound.
func NewResolution(renderer scraper.Renderer, store *library.Store, series []library.Series, workers int, bus *events.Bus) *Resolution {
	return &Resolution{renderer: renderer, store: store, series: series, workers: workers, bus: bus}
}

// Name returns the stage name.
func (r *Resolution) Name() string { return StageResolution }

// Run selects unresolved episodes across all series and resolves them
// concurrently.
func (r *Resolution) Run(ctx context.Context, canc *Canceller) error {
	jobs, err := scanSeries(ctx, r.series, func(_ context.Context, s library.Series) ([]*library.Episode, error) {
		all, err := r.store.ReadAll(s)
		if err != nil {
			return nil, err
		}
		var unresolved []*library.Episode
		for _, e := range all {
			if !e.Resolved() {
				unresolved = append(unresolved, e)
			}
		}
		return unresolved, nil
	})
	if err != nil {
		return err
	}

	_ = r.bus.Publish(ctx, events.NewStageStarted(StageResolution, len(jobs)))
	err = runPool(ctx, StageResolution, r.workers, canc, r.bus, jobs,
		episodeAction(StageResolution, r.bus, r.resolve))
	_ = r.bus.Publish(ctx, events.NewStageCompleted(StageResolution, canc.Cancelled()))
	return err
}

func (r *Resolution) resolve(ctx context.Context, e *library.Episode) error {
	url, err := scraper.ResolveDownloadURL(ctx, r.renderer, e)
	if err != nil {
		return err
	}
	e.DownloadLocation = url
	if err := r.store.EditByID(e); err != nil {
		return fatal(err)
	}
	return nil
}
