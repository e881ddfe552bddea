package pipeline

import (
	"context"

	"github.com/podarr/podarr/internal/events"
	"github.com/podarr/podarr/internal/library"
	"github.com/podarr/podarr/internal/scraper"
)

// StageDiscovery names the first pipeline stage.
const StageDiscovery = "discovery"

// Discovery re-lists every series' archive and merges previously unseen
// episodes into the metadata store. It always re-lists; "nothing new" is
// detected by the id merge, not by skipping the scrape.
type Discovery struct {
	renderer scraper.Renderer
	store    *library.Store
	series   []library.Series
	bus      *events.Bus
}

// NewDiscovery creates the discovery stage.
func NewDiscovery(renderer scraper.Renderer, store *library.Store, series []library.Series, bus *events.Bus) *Discovery {
	return &Discovery{renderer: renderer, store: store, series: series, bus: bus}
}

// Name returns the stage name.
func (d *Discovery) Name() string { return StageDiscovery }

// Run lists all selected series, one job per series.
func (d *Discovery) Run(ctx context.Context, canc *Canceller) error {
	_ = d.bus.Publish(ctx, events.NewStageStarted(StageDiscovery, len(d.series)))
	err := runPool(ctx, StageDiscovery, len(d.series), canc, d.bus, d.series, d.discover)
	_ = d.bus.Publish(ctx, events.NewStageCompleted(StageDiscovery, canc.Cancelled()))
	return err
}

func (d *Discovery) discover(ctx context.Context, worker int, series library.Series) error {
	known, err := d.store.ReadAll(series)
	if err != nil {
		return fatal(err)
	}

	scraped, err := scraper.ListEpisodes(ctx, d.renderer, series)
	if err != nil {
		// A failed listing is a per-series job failure; the other
		// series keep going and this one is retried next run.
		_ = d.bus.Publish(ctx, events.NewSeriesJobFailed(StageDiscovery, worker, series, err))
		return nil
	}

	seen := make(map[string]struct{}, len(known))
	for _, e := range known {
		seen[e.ID] = struct{}{}
	}
	merged := known
	var added int
	for _, e := range scraped {
		if _, ok := seen[e.ID]; ok {
			continue
		}
		seen[e.ID] = struct{}{}
		merged = append(merged, e)
		added++
	}

	_ = d.bus.Publish(ctx, events.NewEpisodesDiscovered(series.String(), added))

	if err := d.store.OverwriteAll(series, merged); err != nil {
		return fatal(err)
	}
	return nil
}
