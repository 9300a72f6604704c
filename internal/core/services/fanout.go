package services

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// mapConcurrent applies fn to every item with at most limit calls in flight
// and returns the results in input order. The first error cancels the
// context passed to the remaining calls and is returned. A limit of zero or
// less runs every item at once.
func mapConcurrent[T, R any](
	ctx context.Context, items []T, limit int, fn func(ctx context.Context, item T) (R, error),
) ([]R, error) {
	results := make([]R, len(items))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, item := range items {
		g.Go(func() error {
			r, err := fn(gctx, item)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
