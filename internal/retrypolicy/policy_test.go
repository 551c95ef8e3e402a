package retrypolicy

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastPolicy(maxAttempts int) Policy {
	return Policy{MaxAttempts: maxAttempts, InitialInterval: time.Millisecond, Multiplier: 2}
}

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	p := fastPolicy(5)
	outcome, err := p.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if outcome != Succeeded || err != nil {
		t.Fatalf("expected success, got outcome=%v err=%v", outcome, err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	p := fastPolicy(4)
	outcome, err := p.Do(context.Background(), func() error {
		calls++
		return errors.New("always failing")
	})
	if outcome != Exhausted {
		t.Fatalf("expected Exhausted, got %v", outcome)
	}
	if err == nil {
		t.Fatal("expected error after exhaustion")
	}
	if calls != 4 {
		t.Fatalf("expected 4 attempts, got %d", calls)
	}
}

func TestDoStopsOnPermanentError(t *testing.T) {
	calls := 0
	sentinel := errors.New("bad request")
	p := fastPolicy(5)
	outcome, err := p.Do(context.Background(), func() error {
		calls++
		return Permanent(sentinel)
	})
	if outcome != NonRetryable {
		t.Fatalf("expected NonRetryable, got %v", outcome)
	}
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
}

func TestDoHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := Policy{MaxAttempts: 5, InitialInterval: time.Hour}
	calls := 0
	done := make(chan struct{})
	var outcome Outcome
	go func() {
		defer close(done)
		outcome, _ = p.Do(ctx, func() error {
			calls++
			return errors.New("transient")
		})
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Do did not return after cancellation")
	}
	if outcome != NonRetryable {
		t.Fatalf("expected NonRetryable after cancel, got %v", outcome)
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt before the long wait, got %d", calls)
	}
}

func TestOnRetryObservesWaits(t *testing.T) {
	var waits []time.Duration
	p := Policy{
		MaxAttempts:     3,
		InitialInterval: time.Millisecond,
		Multiplier:      2,
		OnRetry:         func(err error, wait time.Duration) { waits = append(waits, wait) },
	}
	outcome, _ := p.Do(context.Background(), func() error { return errors.New("transient") })
	if outcome != Exhausted {
		t.Fatalf("expected Exhausted, got %v", outcome)
	}
	if len(waits) != 2 {
		t.Fatalf("expected 2 retry notifications, got %d", len(waits))
	}
	if waits[1] != 2*waits[0] {
		t.Fatalf("expected doubling waits, got %v", waits)
	}
}

func TestZeroPolicyUsesDefaults(t *testing.T) {
	p := Policy{InitialInterval: time.Millisecond}
	calls := 0
	outcome, _ := p.Do(context.Background(), func() error {
		calls++
		return errors.New("transient")
	})
	if outcome != Exhausted {
		t.Fatalf("expected Exhausted, got %v", outcome)
	}
	if calls != DefaultMaxAttempts {
		t.Fatalf("expected %d attempts, got %d", DefaultMaxAttempts, calls)
	}
}
