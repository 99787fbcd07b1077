// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"sync"

	goerrors "github.com/go-errors/errors"
	"github.com/pkg/errors"
)

// Config controls the worker pool.
type Config struct {
	Threads int // number of worker goroutines (>=1)
}

// ForEach calls fn for every job index in [0, n) on cfg.Threads goroutines and
// blocks until all of them have returned.
//
// If any job fails, the context handed to the other jobs is canceled, jobs not
// yet started are skipped and the error of the lowest failing index is
// returned. Cancellation errors seen by jobs still in flight never mask that
// failure. A panic inside fn is recovered and returned as a *goerrors.Error
// carrying the worker's stack. Cancellation of the caller's context is
// reported as its ctx.Err().
func ForEach(parent context.Context, cfg Config, n int, fn func(ctx context.Context, i int) error) error {
	if n <= 0 {
		return parent.Err()
	}
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	if cfg.Threads > n {
		cfg.Threads = n
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	jobs := make(chan int, cfg.Threads*2)
	errs := make([]error, n)

	// Workers
	var wg sync.WaitGroup
	wg.Add(cfg.Threads)
	for w := 0; w < cfg.Threads; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case i, ok := <-jobs:
					if !ok {
						return
					}
					if err := run(ctx, i, fn); err != nil {
						errs[i] = err
						cancel()
						return
					}
				}
			}
		}()
	}

	// Feed work
feed:
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil && !canceled(err) {
			return err
		}
	}
	if err := parent.Err(); err != nil {
		return err
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func canceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func run(ctx context.Context, i int, fn func(context.Context, int) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = goerrors.Wrap(r, 2)
		}
	}()
	return fn(ctx, i)
}
