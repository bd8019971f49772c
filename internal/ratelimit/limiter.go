// Package ratelimit provides the shared gate that bounds the aggregate
// request rate of the import run. All workers block on a single token
// bucket, so the ceiling is independent of how many workers are running.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter admits at most the configured number of operations per second
// across all callers combined. The bucket holds a single token, so admits
// are spaced evenly rather than released in bursts.
type Limiter struct {
	bucket *rate.Limiter
}

// New returns a Limiter admitting perSecond operations per second.
func New(perSecond int) *Limiter {
	return &Limiter{bucket: rate.NewLimiter(rate.Limit(perSecond), 1)}
}

// Acquire blocks until the caller may proceed, or until ctx is done. The
// only error it returns is the context's.
func (l *Limiter) Acquire(ctx context.Context) error {
	return l.bucket.Wait(ctx)
}
