// Package parallel contains bounded concurrency helpers for evaluating and rendering many items.
package parallel

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ForEach executes a for loop with at most limit concurrent goroutines.
// Each goroutine processes one integer, from 0 to length.
func ForEach(length, limit int, body func(i int)) {
	var g errgroup.Group
	g.SetLimit(max(limit, 1))
	for i := range length {
		g.Go(func() error {
			body(i)
			return nil
		})
	}
	_ = g.Wait()
}

// ForEachErr is ForEach for bodies which can fail. The first error cancels
// the context passed to the remaining bodies and is returned.
func ForEachErr(ctx context.Context, length, limit int, body func(ctx context.Context, i int) error) error {
	parent := ctx
	g, ctx := errgroup.WithContext(parent)
	g.SetLimit(max(limit, 1))
	for i := range length {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return body(ctx, i)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return parent.Err()
}
