package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// BatchItem is one named request of a batch run.
type BatchItem struct {
	Name    string
	Request FilterRequest
}

// BatchResult is the outcome of one batch item.
type BatchResult struct {
	Name   string
	Result *FilterResult
	Err    error
}

// RunBatch filters every item with at most concurrency documents in flight.
// A failing item does not stop the others; results keep the order of items
// and the returned error joins every item error.
func RunBatch(ctx context.Context, items []BatchItem, concurrency int) ([]BatchResult, error) {
	results := make([]BatchResult, len(items))
	if concurrency < 1 {
		concurrency = 1
	}

	g := new(errgroup.Group)
	g.SetLimit(concurrency)

	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			results[i].Name = item.Name
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}

			slog.Debug("Processing batch target", "target", item.Name, "input", item.Request.Input)
			res, err := Filter(ctx, item.Request)
			results[i].Result = res
			results[i].Err = err
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Name, r.Err))
		}
	}
	return results, errors.Join(errs...)
}
