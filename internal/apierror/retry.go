package apierror

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Policy controls retry counts and exponential backoff for one error
// class. Delay for attempt n (0-based) is BaseDelay << n, capped at
// MaxDelay.
type Policy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// Delay computes the backoff before retry attempt n (0-based).
func (p Policy) Delay(attempt int) time.Duration {
	d := p.BaseDelay << uint(attempt)
	if d > p.MaxDelay || d <= 0 {
		d = p.MaxDelay
	}
	return d
}

// Retryer re-runs remote calls that failed with a transient class.
// Only network and rate-limit failures are retried here; every other
// class has a caller-side fallback (credential refresh, minimal
// payload, duplicate re-resolve) and is surfaced immediately.
type Retryer struct {
	Network     Policy
	RateLimited Policy

	// Sleep is overridable in tests; defaults to a context-aware wait.
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewRetryer returns the policy set for a provider. Hierarchical
// providers get a more patient rate-limit schedule than flat-namespace
// providers, whose per-call budgets recover faster.
func NewRetryer(hierarchical bool) *Retryer {
	r := &Retryer{
		Network: Policy{MaxRetries: 3, BaseDelay: time.Second, MaxDelay: 10 * time.Second},
	}
	if hierarchical {
		r.RateLimited = Policy{MaxRetries: 3, BaseDelay: 2 * time.Second, MaxDelay: 30 * time.Second}
	} else {
		r.RateLimited = Policy{MaxRetries: 1, BaseDelay: time.Second, MaxDelay: 10 * time.Second}
	}
	return r
}

// Do runs op, retrying per the class policies. The returned error is
// the last failure, classified and unmodified, after retries exhaust.
func (r *Retryer) Do(ctx context.Context, op func(ctx context.Context) error) error {
	networkAttempts := 0
	rateAttempts := 0

	for {
		err := op(ctx)
		if err == nil {
			return nil
		}

		var policy Policy
		var attempt *int
		switch Classify(err) {
		case ClassNetwork:
			policy, attempt = r.Network, &networkAttempts
		case ClassRateLimited:
			policy, attempt = r.RateLimited, &rateAttempts
		default:
			return err
		}

		if *attempt >= policy.MaxRetries {
			return fmt.Errorf("retries exhausted after %d attempts: %w", *attempt+1, err)
		}

		delay := policy.Delay(*attempt)
		if hint := retryAfterHint(err); hint > delay {
			delay = hint
		}
		*attempt++

		if err := r.sleep(ctx, delay); err != nil {
			return err
		}
	}
}

func (r *Retryer) sleep(ctx context.Context, d time.Duration) error {
	if r.Sleep != nil {
		return r.Sleep(ctx, d)
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// retryAfterHint extracts the provider's Retry-After hint, if any.
func retryAfterHint(err error) time.Duration {
	var remote *RemoteError
	if errors.As(err, &remote) {
		return remote.RetryAfter
	}
	return 0
}
