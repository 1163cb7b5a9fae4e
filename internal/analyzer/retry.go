package analyzer

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy bounds how often and how long Analyze retries transient failures.
type RetryPolicy struct {
	MaxAttempts int
	MinDelay    time.Duration
	MaxDelay    time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 2,
		MinDelay:    1 * time.Second,
		MaxDelay:    30 * time.Second,
	}
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.MinDelay < 0 {
		p.MinDelay = 0
	}
	if p.MaxDelay < p.MinDelay {
		p.MaxDelay = p.MinDelay
	}
	return p
}

// newBackOff returns a fresh randomized exponential schedule clamped to
// [MinDelay, MaxDelay] that stops after MaxAttempts-1 waits.
func (p RetryPolicy) newBackOff(ctx context.Context) backoff.BackOff {
	p = p.normalized()

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.MinDelay
	exp.MaxInterval = p.MaxDelay
	exp.MaxElapsedTime = 0
	exp.Reset()

	var b backoff.BackOff = &boundedBackOff{BackOff: exp, min: p.MinDelay, max: p.MaxDelay}
	b = backoff.WithMaxRetries(b, uint64(p.MaxAttempts-1))
	return backoff.WithContext(b, ctx)
}

type boundedBackOff struct {
	backoff.BackOff
	min, max time.Duration
}

func (b *boundedBackOff) NextBackOff() time.Duration {
	d := b.BackOff.NextBackOff()
	switch {
	case d == backoff.Stop:
		return d
	case d < b.min:
		return b.min
	case d > b.max:
		return b.max
	}
	return d
}
