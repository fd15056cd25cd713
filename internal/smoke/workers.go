package smoke

import (
	"context"
	"errors"
	"sync"
)

// forEach runs fn over items with the given number of workers and joins every
// error. Items not yet dispatched are skipped once ctx is done.
func forEach[T any](ctx context.Context, workers int, items []T, fn func(context.Context, int, T) error) error {
	type job struct {
		idx  int
		item T
	}

	jobs := make(chan job, workers*2)
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if err := fn(ctx, j.idx, j.item); err != nil {
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, item := range items {
			select {
			case <-ctx.Done():
				return
			case jobs <- job{idx: i, item: item}:
			}
		}
	}()

	wg.Wait()
	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
