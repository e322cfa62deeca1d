// Package asyncx holds the few concurrency helpers the services share:
// futures for independent reads, a bounded pool for outbound sends and a
// backoff retry for flaky upstream calls.
//
//	users := asyncx.Run(func() (int, error) { return repo.Count(ctx) })
//	camps := asyncx.Run(func() (int, error) { return camps.CountPublished(ctx) })
//	u, err := users.Await()
package asyncx

import (
	"context"
	"sync"
	"time"
)

// Future is a value computed in the background. Create one with Run.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Run starts fn in a goroutine immediately
func Run[T any](fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.value, f.err = fn()
	}()
	return f
}

// Await blocks until the result is ready. Safe to call more than once.
func (f *Future[T]) Await() (T, error) {
	<-f.done
	return f.value, f.err
}

// Result holds the outcome of one settled operation
type Result[T any] struct {
	Value T
	Err   error
}

func (r Result[T]) OK() bool { return r.Err == nil }

// AllSettled runs fns concurrently and returns one Result per fn, in order
func AllSettled[T any](ctx context.Context, fns ...func(context.Context) (T, error)) []Result[T] {
	results := make([]Result[T], len(fns))
	var wg sync.WaitGroup
	wg.Add(len(fns))

	for i, fn := range fns {
		go func() {
			defer wg.Done()
			v, err := fn(ctx)
			results[i] = Result[T]{Value: v, Err: err}
		}()
	}
	wg.Wait()
	return results
}

// Pool processes items with at most workers goroutines. It never stops early:
// every item gets a Result in input order. Items not started before ctx is
// cancelled carry ctx.Err().
func Pool[T any, R any](ctx context.Context, workers int, items []T, fn func(context.Context, T) (R, error)) []Result[R] {
	if workers <= 0 {
		workers = 1
	}
	workers = min(workers, max(len(items), 1))

	work := make(chan int, len(items))
	for i := range items {
		work <- i
	}
	close(work)

	results := make([]Result[R], len(items))
	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for i := range work {
				if err := ctx.Err(); err != nil {
					results[i] = Result[R]{Err: err}
					continue
				}
				v, err := fn(ctx, items[i])
				results[i] = Result[R]{Value: v, Err: err}
			}
		}()
	}
	wg.Wait()
	return results
}

// RetryWithBackoff calls fn up to attempts times, doubling the delay after each failure.
// retryable decides whether an error is worth another attempt; nil retries everything.
func RetryWithBackoff[T any](
	ctx context.Context,
	attempts int,
	initialDelay time.Duration,
	retryable func(error) bool,
	fn func(context.Context) (T, error),
) (T, error) {
	var (
		zero  T
		err   error
		delay = initialDelay
	)
	for i := range max(attempts, 1) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, ctxErr
		}

		var v T
		v, err = fn(ctx)
		if err == nil {
			return v, nil
		}
		if retryable != nil && !retryable(err) {
			return zero, err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return zero, err
}
