package notify

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestRetryReturnsFirstSuccess(t *testing.T) {
	calls := 0
	policy := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond}
	out := policy.Do(context.Background(), nil, ChannelEmail, func(ctx context.Context) Outcome {
		calls++
		return OK("msg-1")
	})
	if !out.Success || out.MessageID != "msg-1" {
		t.Fatalf("expected success with msg-1, got %+v", out)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestRetryRecoversAfterFailures(t *testing.T) {
	calls := 0
	policy := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond}
	out := policy.Do(context.Background(), nil, ChannelSMS, func(ctx context.Context) Outcome {
		calls++
		if calls < 3 {
			return Errf("transient")
		}
		return OK("msg-3")
	})
	if !out.Success {
		t.Fatalf("expected eventual success, got %+v", out)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestRetryExhaustionReportsAttemptCount(t *testing.T) {
	calls := 0
	policy := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond}
	out := policy.Do(context.Background(), nil, ChannelEmail, func(ctx context.Context) Outcome {
		calls++
		return Errf("smtp unavailable")
	})
	if out.Success {
		t.Fatalf("expected failure, got %+v", out)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
	if out.Error != "Failed after 3 attempts: smtp unavailable" {
		t.Fatalf("unexpected error message: %q", out.Error)
	}
}

func TestRetryLinearBackoff(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, BaseDelay: 100 * time.Millisecond}
	start := time.Now()
	policy.Do(context.Background(), nil, ChannelEmail, func(ctx context.Context) Outcome {
		return Errf("down")
	})
	elapsed := time.Since(start)
	// Waits are 100ms then 200ms.
	if elapsed < 300*time.Millisecond {
		t.Fatalf("expected at least 300ms of backoff, got %v", elapsed)
	}
}

func TestRetryStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	policy := RetryPolicy{MaxAttempts: 5, BaseDelay: time.Second}
	calls := 0
	done := make(chan Outcome, 1)
	go func() {
		done <- policy.Do(ctx, nil, ChannelSMS, func(ctx context.Context) Outcome {
			calls++
			return Errf("down")
		})
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case out := <-done:
		if out.Success {
			t.Fatalf("expected failure, got %+v", out)
		}
		if !strings.Contains(out.Error, "canceled") {
			t.Fatalf("expected cancellation in error, got %q", out.Error)
		}
		if calls != 1 {
			t.Fatalf("expected 1 call before cancel, got %d", calls)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("retry did not stop after cancellation")
	}
}

func TestRetryZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	policy := RetryPolicy{}
	out := policy.Do(context.Background(), nil, ChannelEmail, func(ctx context.Context) Outcome {
		calls++
		return Errf("down")
	})
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
	if out.Error != "Failed after 1 attempts: down" {
		t.Fatalf("unexpected error message: %q", out.Error)
	}
}
