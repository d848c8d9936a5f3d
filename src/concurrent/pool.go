package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ParallelMap applies fn to every item concurrently and returns the results in
// input order. It is all-or-nothing: the first error cancels the context handed
// to the remaining calls and is returned with no partial results.
// maxConcurrency <= 0 runs every item at once.
func ParallelMap[T, R any](ctx context.Context, items []T, fn func(context.Context, T) (R, error), maxConcurrency int) ([]R, error) {
	if len(items) == 0 {
		return []R{}, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	if maxConcurrency > 0 {
		g.SetLimit(maxConcurrency)
	}

	results := make([]R, len(items))
	for i, item := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := fn(gctx, item)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
