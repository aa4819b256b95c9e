package oracle

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Limiter wraps an Oracle with a weighted semaphore capping the number of
// in-flight Generate calls. Use it when one provider client is shared
// across concurrently running pipelines and the backend enforces a
// concurrency quota.
type Limiter struct {
	inner Oracle
	sem   *semaphore.Weighted
}

// NewLimiter wraps inner allowing at most maxInFlight concurrent calls.
// maxInFlight < 1 is treated as 1.
func NewLimiter(inner Oracle, maxInFlight int64) *Limiter {
	if maxInFlight < 1 {
		maxInFlight = 1
	}
	return &Limiter{inner: inner, sem: semaphore.NewWeighted(maxInFlight)}
}

// Generate implements Oracle. It blocks until a slot is free or ctx is
// cancelled.
func (l *Limiter) Generate(ctx context.Context, prompt string) (string, error) {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer l.sem.Release(1)

	return l.inner.Generate(ctx, prompt)
}
