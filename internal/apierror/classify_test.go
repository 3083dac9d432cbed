package apierror

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestClassifyByStatus(t *testing.T) {
	cases := []struct {
		status int
		want   Class
	}{
		{401, ClassAuthExpired},
		{403, ClassForbidden},
		{409, ClassDuplicate},
		{429, ClassRateLimited},
		{400, ClassValidation},
		{422, ClassValidation},
		{500, ClassNetwork},
		{503, ClassNetwork},
		{418, ClassUnknown},
	}
	for _, tc := range cases {
		got := Classify(&RemoteError{Status: tc.status, Message: "x"})
		if got != tc.want {
			t.Fatalf("Classify(status=%d) = %s, want %s", tc.status, got, tc.want)
		}
	}
}

func TestClassifyByProviderCode(t *testing.T) {
	// The hierarchical provider reports duplicates with a 4xx status
	// and a code; the code must win over the status.
	err := &RemoteError{Status: 400, ProviderCode: "ErrorFolderExists", Message: "exists"}
	if got := Classify(err); got != ClassDuplicate {
		t.Fatalf("provider duplicate code classified as %s", got)
	}

	err = &RemoteError{Status: 400, ProviderCode: "ErrorAccessDenied", Message: "nope"}
	if got := Classify(err); got != ClassForbidden {
		t.Fatalf("provider forbidden code classified as %s", got)
	}
}

func TestClassifySubstringLastResort(t *testing.T) {
	err := &RemoteError{Status: 404, Message: "Label already exists"}
	if got := Classify(err); got != ClassDuplicate {
		t.Fatalf("substring duplicate fallback classified as %s", got)
	}
}

func TestClassifyWrappedError(t *testing.T) {
	inner := &RemoteError{Status: 401, Message: "token expired"}
	wrapped := fmt.Errorf("creating label: %w", inner)
	if got := Classify(wrapped); got != ClassAuthExpired {
		t.Fatalf("wrapped remote error classified as %s", got)
	}
	if !IsAuthExpired(wrapped) {
		t.Fatalf("IsAuthExpired should see through wrapping")
	}
}

func TestClassifyTimeout(t *testing.T) {
	err := fmt.Errorf("call: %w", context.DeadlineExceeded)
	if got := Classify(err); got != ClassNetwork {
		t.Fatalf("deadline exceeded classified as %s", got)
	}
}

func TestRetryerRetriesNetwork(t *testing.T) {
	r := NewRetryer(false)
	var slept []time.Duration
	r.Sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}

	calls := 0
	err := r.Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return &RemoteError{Status: 503, Message: "bad gateway"}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
	// Exponential: 1s then 2s.
	if len(slept) != 2 || slept[0] != time.Second || slept[1] != 2*time.Second {
		t.Fatalf("unexpected backoff schedule %v", slept)
	}
}

func TestRetryerExhaustsNetwork(t *testing.T) {
	r := NewRetryer(false)
	r.Sleep = func(context.Context, time.Duration) error { return nil }

	calls := 0
	err := r.Do(context.Background(), func(context.Context) error {
		calls++
		return &RemoteError{Status: 500, Message: "boom"}
	})
	if err == nil {
		t.Fatalf("expected exhaustion error")
	}
	// 1 initial + 3 retries.
	if calls != 4 {
		t.Fatalf("expected 4 calls, got %d", calls)
	}
	if Classify(err) != ClassNetwork {
		t.Fatalf("exhaustion error lost its class: %v", err)
	}
}

func TestRetryerRateLimitBudgetPerProvider(t *testing.T) {
	flat := NewRetryer(false)
	flat.Sleep = func(context.Context, time.Duration) error { return nil }
	calls := 0
	_ = flat.Do(context.Background(), func(context.Context) error {
		calls++
		return &RemoteError{Status: 429, Message: "slow down"}
	})
	if calls != 2 { // 1 initial + 1 retry for the flat provider
		t.Fatalf("flat provider made %d calls, want 2", calls)
	}

	hier := NewRetryer(true)
	hier.Sleep = func(context.Context, time.Duration) error { return nil }
	calls = 0
	_ = hier.Do(context.Background(), func(context.Context) error {
		calls++
		return &RemoteError{Status: 429, Message: "slow down"}
	})
	if calls != 4 { // 1 initial + 3 retries for the hierarchical provider
		t.Fatalf("hierarchical provider made %d calls, want 4", calls)
	}
}

func TestRetryerSurfacesNonRetryableImmediately(t *testing.T) {
	r := NewRetryer(true)
	r.Sleep = func(context.Context, time.Duration) error {
		t.Fatalf("should not sleep for a non-retryable class")
		return nil
	}

	calls := 0
	err := r.Do(context.Background(), func(context.Context) error {
		calls++
		return &RemoteError{Status: 403, Message: "denied"}
	})
	if calls != 1 {
		t.Fatalf("forbidden error retried %d times", calls-1)
	}
	if Classify(err) != ClassForbidden {
		t.Fatalf("unexpected class for %v", err)
	}
}

func TestRetryerHonorsRetryAfterHint(t *testing.T) {
	r := NewRetryer(true)
	var slept []time.Duration
	r.Sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}

	calls := 0
	_ = r.Do(context.Background(), func(context.Context) error {
		calls++
		if calls == 1 {
			return &RemoteError{Status: 429, Message: "wait", RetryAfter: 7 * time.Second}
		}
		return nil
	})
	if len(slept) != 1 || slept[0] != 7*time.Second {
		t.Fatalf("Retry-After hint ignored, slept %v", slept)
	}
}

func TestRetryerStopsOnContextCancel(t *testing.T) {
	r := NewRetryer(false)
	ctx, cancel := context.WithCancel(context.Background())
	r.Sleep = func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	}

	err := r.Do(ctx, func(context.Context) error {
		return &RemoteError{Status: 500, Message: "boom"}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
