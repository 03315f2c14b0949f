package dataflow

import (
	"time"
)

// Option configures the behavior of pipeline stages.
type Option func(*config)

type config struct {
	workers    int
	maxRetries int
	backoff    func(int) time.Duration
	bufferSize int
	// errorHandler returns true when the error is handled and the item is skipped.
	errorHandler func(error) bool
}

func defaultConfig(opts []Option) *config {
	c := &config{workers: 1}
	for _, o := range opts {
		o(c)
	}
	return c
}

// WithWorkers sets the number of concurrent workers for a stage.
// Default is 1 (sequential).
func WithWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithBufferSize sets the buffer size for the output channel of a stage.
func WithBufferSize(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.bufferSize = n
		}
	}
}

// WithRetry re-runs a failing operation up to maxRetries more times, waiting
// backoff(attempt) before each retry when backoff is not nil.
func WithRetry(maxRetries int, backoff func(attempt int) time.Duration) Option {
	return func(c *config) {
		c.maxRetries = maxRetries
		c.backoff = backoff
	}
}

// ConstantBackoff waits d before every retry.
func ConstantBackoff(d time.Duration) func(int) time.Duration {
	return func(int) time.Duration { return d }
}

// WithErrorHandler sets a custom error handler. Returning true marks the
// error as handled: the item is skipped and the stage keeps going.
func WithErrorHandler(h func(error) bool) Option {
	return func(c *config) {
		c.errorHandler = h
	}
}
