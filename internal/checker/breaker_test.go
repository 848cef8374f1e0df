package checker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mikelcoira/vat-number-geo/internal/vat"
)

// scriptedChecker counts calls and fails on demand.
type scriptedChecker struct {
	calls   int
	fail    bool
	outcome Outcome
}

func (s *scriptedChecker) Check(ctx context.Context, id string, country vat.CountryCode) (Outcome, error) {
	s.calls++
	if s.fail {
		return Unavailable, errors.New("registry unreachable")
	}
	return s.outcome, nil
}

func newTestBreaker(inner Checker) (*Breaker, *time.Time) {
	b := NewBreaker(inner, 5, 10*time.Second)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }
	return b, &now
}

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	inner := &scriptedChecker{fail: true}
	b, _ := newTestBreaker(inner)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		outcome, err := b.Check(ctx, "ESB12345678", "ES")
		if outcome != Unavailable || err == nil {
			t.Fatalf("call %d: expected Unavailable with error, got %v, %v", i+1, outcome, err)
		}
	}
	if inner.calls != 5 {
		t.Fatalf("expected 5 passthrough calls, got %d", inner.calls)
	}

	// circuit is open: the next call must not reach the inner checker
	outcome, err := b.Check(ctx, "ESB12345678", "ES")
	if outcome != Unavailable {
		t.Errorf("expected Unavailable while open, got %v", outcome)
	}
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("expected ErrCircuitOpen, got %v", err)
	}
	if inner.calls != 5 {
		t.Errorf("expected no network call while open, inner saw %d calls", inner.calls)
	}
}

func TestBreaker_TrialSuccessCloses(t *testing.T) {
	inner := &scriptedChecker{fail: true}
	b, now := newTestBreaker(inner)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		b.Check(ctx, "ESB12345678", "ES")
	}

	*now = now.Add(10 * time.Second)
	inner.fail = false
	inner.outcome = Confirmed

	outcome, err := b.Check(ctx, "ESB12345678", "ES")
	if err != nil {
		t.Fatalf("unexpected error on trial call: %v", err)
	}
	if outcome != Confirmed {
		t.Errorf("expected Confirmed from trial call, got %v", outcome)
	}
	if inner.calls != 6 {
		t.Errorf("expected exactly one trial call, inner saw %d calls", inner.calls)
	}

	// closed again: calls keep passing through
	if _, err := b.Check(ctx, "ESB12345678", "ES"); err != nil {
		t.Errorf("unexpected error after close: %v", err)
	}
	if inner.calls != 7 {
		t.Errorf("expected passthrough after close, inner saw %d calls", inner.calls)
	}
}

func TestBreaker_TrialFailureReopensAndRestartsTimer(t *testing.T) {
	inner := &scriptedChecker{fail: true}
	b, now := newTestBreaker(inner)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		b.Check(ctx, "ESB12345678", "ES")
	}

	*now = now.Add(10 * time.Second)
	if _, err := b.Check(ctx, "ESB12345678", "ES"); err == nil {
		t.Fatal("expected trial call to fail")
	}
	if inner.calls != 6 {
		t.Fatalf("expected a single trial call, inner saw %d calls", inner.calls)
	}

	// reopened with a fresh timer: still short-circuiting 9s later
	*now = now.Add(9 * time.Second)
	_, err := b.Check(ctx, "ESB12345678", "ES")
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("expected ErrCircuitOpen within restarted window, got %v", err)
	}
	if inner.calls != 6 {
		t.Errorf("expected no call within restarted window, inner saw %d calls", inner.calls)
	}

	// one more second and a trial is allowed again
	*now = now.Add(time.Second)
	inner.fail = false
	inner.outcome = NotFound
	outcome, err := b.Check(ctx, "ESB12345678", "ES")
	if err != nil || outcome != NotFound {
		t.Errorf("expected NotFound from second trial, got %v, %v", outcome, err)
	}
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	inner := &scriptedChecker{fail: true}
	b, _ := newTestBreaker(inner)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		b.Check(ctx, "ESB12345678", "ES")
	}

	// a definitive answer resets the consecutive-failure counter, even when
	// that answer is "invalid"
	inner.fail = false
	inner.outcome = NotFound
	if _, err := b.Check(ctx, "ESB12345678", "ES"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	inner.fail = true
	for i := 0; i < 4; i++ {
		b.Check(ctx, "ESB12345678", "ES")
	}

	// only 4 consecutive failures since the reset: still closed
	if _, err := b.Check(ctx, "ESB12345678", "ES"); errors.Is(err, ErrCircuitOpen) {
		t.Error("circuit opened although the failure streak was interrupted")
	}
}
