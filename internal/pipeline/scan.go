package pipeline

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/podarr/podarr/internal/library"
)

// scanSeries runs the per-series scan concurrently and merges the
// results into one flat job list. Scan failures are storage failures,
// so any error aborts the stage.
func scanSeries(
	ctx context.Context,
	series []library.Series,
	scan func(ctx context.Context, s library.Series) ([]*library.Episode, error),
) ([]*library.Episode, error) {
	var (
		mu  sync.Mutex
		out []*library.Episode
	)
	g, ctx := errgroup.WithContext(ctx)
	for _, s := range series {
		g.Go(func() error {
			found, err := scan(ctx, s)
			if err != nil {
				return err
			}
			mu.Lock()
			out = append(out, found...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
