package pipeline

import (
	"context"

	"github.com/podarr/podarr/internal/download"
	"github.com/podarr/podarr/internal/events"
	"github.com/podarr/podarr/internal/library"
	"github.com/podarr/podarr/internal/media"
)

// StageRetrieval names the third pipeline stage.
const StageRetrieval = "retrieval"

// Retrieval downloads the payload for every resolved episode whose
// content is not already on disk. "Already on disk" is decided by the
// binary store's fingerprint scan, not by the metadata record, so files
// placed there out-of-band are honored.
type Retrieval struct {
	fetcher download.Fetcher
	store   *library.Store
	files   *media.Store
	series  []library.Series
	workers int
	bus     *events.Bus
}

// NewRetrieval creates the retrieval stage with a worker-pool bound.
func NewRetrieval(fetcher download.Fetcher, store *library.Store, files *media.Store, series []library.Series, workers int, bus *events.Bus) *Retrieval {
	return &Retrieval{fetcher: fetcher, store: store, files: files, series: series, workers: workers, bus: bus}
}

// Name returns the stage name.
func (r *Retrieval) Name() string { return StageRetrieval }

// Run selects the missing episodes across all series and downloads them
// concurrently. Episodes without a download location are never part of
// the job set.
func (r *Retrieval) Run(ctx context.Context, canc *Canceller) error {
	jobs, err := scanSeries(ctx, r.series, func(ctx context.Context, s library.Series) ([]*library.Episode, error) {
		all, err := r.store.ReadAll(s)
		if err != nil {
			return nil, err
		}
		onDisk, err := r.files.Fingerprints(ctx, s)
		if err != nil {
			return nil, err
		}
		var missing []*library.Episode
		for _, e := range all {
			if !e.Resolved() {
				continue
			}
			if e.Fingerprinted() {
				if _, ok := onDisk[e.ContentFingerprint]; ok {
					continue
				}
			}
			missing = append(missing, e)
		}
		return missing, nil
	})
	if err != nil {
		return err
	}

	_ = r.bus.Publish(ctx, events.NewStageStarted(StageRetrieval, len(jobs)))
	err = runPool(ctx, StageRetrieval, r.workers, canc, r.bus, jobs,
		episodeAction(StageRetrieval, r.bus, r.retrieve))
	_ = r.bus.Publish(ctx, events.NewStageCompleted(StageRetrieval, canc.Cancelled()))
	return err
}

func (r *Retrieval) retrieve(ctx context.Context, e *library.Episode) error {
	// A payload already sitting at the episode's destination (placed
	// out-of-band, or left by a run that died before the metadata
	// write) is adopted instead of fetched again. Only episodes with no
	// recorded fingerprint qualify: a fingerprinted episode reaches this
	// stage because its content went missing from disk, and a file at
	// its path that no longer matches must be re-downloaded, not
	// re-recorded.
	if !e.Fingerprinted() {
		if fp, ok, err := r.files.FingerprintExisting(e); err != nil {
			return fatal(err)
		} else if ok {
			e.ContentFingerprint = fp
			if err := r.store.EditByID(e); err != nil {
				return fatal(err)
			}
			return nil
		}
	}

	payload, err := r.fetcher.Fetch(ctx, e.DownloadLocation)
	if err != nil {
		return err
	}

	e.ContentFingerprint = media.Fingerprint(payload)

	// The payload must be durably on disk before the fingerprint is
	// recorded against the episode.
	if err := r.files.Write(e, payload); err != nil {
		return fatal(err)
	}
	if err := r.store.EditByID(e); err != nil {
		return fatal(err)
	}
	return nil
}
