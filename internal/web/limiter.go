package web

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/semaphore"
)

// errBusy is returned when no conversion slot frees up within the wait time.
var errBusy = errors.New("too many concurrent conversions, please try again later")

// limiter bounds the number of conversions running at once. Workbooks are
// held in memory while they are split, so the bound caps peak memory too.
type limiter struct {
	sem     *semaphore.Weighted
	size    int64
	maxWait time.Duration
}

func newLimiter(maxConcurrent int, maxWait time.Duration) *limiter {
	return &limiter{
		sem:     semaphore.NewWeighted(int64(maxConcurrent)),
		size:    int64(maxConcurrent),
		maxWait: maxWait,
	}
}

// acquire waits up to maxWait for a slot. The caller must release on success.
func (l *limiter) acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	if err := l.sem.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errBusy
	}
	return nil
}

func (l *limiter) release() {
	l.sem.Release(1)
}

// drain blocks until every slot is free or ctx is done, then gives the
// slots back. Used on shutdown to let running conversions finish.
func (l *limiter) drain(ctx context.Context) error {
	if err := l.sem.Acquire(ctx, l.size); err != nil {
		return err
	}
	l.sem.Release(l.size)
	return nil
}
