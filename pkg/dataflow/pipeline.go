// Package dataflow builds small channel pipelines: a source, transforming
// stages that may run several workers, and a blocking sink.
package dataflow

import (
	"context"
	"sync"
	"time"
)

// Stream is a read-only channel of messages.
type Stream[T any] <-chan T

// From creates a stream from a slice of data.
func From[T any](ctx context.Context, items ...T) Stream[T] {
	out := make(chan T, len(items))
	go func() {
		defer close(out)
		for _, item := range items {
			select {
			case <-ctx.Done():
				return
			case out <- item:
			}
		}
	}()
	return out
}

// New wraps an existing channel into a Stream.
func New[T any](c <-chan T) Stream[T] {
	return Stream[T](c)
}

// run calls fn once plus the configured retries. It gives up early when ctx
// is cancelled during a backoff.
func (c *config) run(ctx context.Context, fn func() error) error {
	err := fn()
	for i := 1; err != nil && i <= c.maxRetries; i++ {
		if c.backoff != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.backoff(i)):
			}
		}
		err = fn()
	}
	return err
}

// startWorkers runs worker cfg.workers times and calls done once all returned.
func (c *config) startWorkers(worker func(), done func()) {
	var wg sync.WaitGroup
	wg.Add(c.workers)
	for i := 0; i < c.workers; i++ {
		go func() {
			defer wg.Done()
			worker()
		}()
	}
	go func() {
		wg.Wait()
		done()
	}()
}

// Map transforms the stream using the provided function.
// Items whose function fails after retries are dropped; the error handler,
// if any, sees the error first. Output order is only kept with one worker.
func Map[In, Out any](ctx context.Context, input Stream[In], fn func(In) (Out, error), opts ...Option) Stream[Out] {
	cfg := defaultConfig(opts)
	out := make(chan Out, cfg.bufferSize)

	cfg.startWorkers(func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-input:
				if !ok {
					return
				}

				var res Out
				err := cfg.run(ctx, func() error {
					var err error
					res, err = fn(msg)
					return err
				})
				if err != nil {
					if cfg.errorHandler != nil {
						cfg.errorHandler(err)
					}
					continue
				}

				select {
				case <-ctx.Done():
					return
				case out <- res:
				}
			}
		}
	}, func() { close(out) })

	return out
}

// Filter keeps items where fn returns true.
func Filter[T any](ctx context.Context, input Stream[T], fn func(T) bool, opts ...Option) Stream[T] {
	cfg := defaultConfig(opts)
	out := make(chan T, cfg.bufferSize)

	cfg.startWorkers(func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-input:
				if !ok {
					return
				}
				if !fn(msg) {
					continue
				}
				select {
				case <-ctx.Done():
					return
				case out <- msg:
				}
			}
		}
	}, func() { close(out) })

	return out
}

// ForEach executes an action for every item in the stream.
// It blocks until the stream is exhausted or ctx is cancelled and returns
// the first error the error handler did not swallow.
func ForEach[T any](ctx context.Context, input Stream[T], fn func(T) error, opts ...Option) error {
	cfg := defaultConfig(opts)

	var (
		errOnce  sync.Once
		firstErr error
	)
	done := make(chan struct{})

	cfg.startWorkers(func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-input:
				if !ok {
					return
				}
				err := cfg.run(ctx, func() error { return fn(msg) })
				if err == nil {
					continue
				}
				if cfg.errorHandler != nil && cfg.errorHandler(err) {
					continue
				}
				errOnce.Do(func() { firstErr = err })
			}
		}
	}, func() { close(done) })

	<-done
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return firstErr
}

// Collect drains the stream into a slice.
func Collect[T any](ctx context.Context, input Stream[T]) ([]T, error) {
	var out []T
	var mu sync.Mutex
	err := ForEach(ctx, input, func(item T) error {
		mu.Lock()
		out = append(out, item)
		mu.Unlock()
		return nil
	})
	return out, err
}
