package checker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mikelcoira/vat-number-geo/internal/vat"
)

// ErrCircuitOpen is returned while the circuit is open and lookups are
// short-circuited without touching the network.
var ErrCircuitOpen = errors.New("circuit open: registry lookups suspended")

type circuitState int

const (
	stateClosed circuitState = iota
	stateOpen
	stateHalfOpen
)

// Breaker wraps a Checker with a circuit breaker. Consecutive lookup failures
// open the circuit; while open, calls return Unavailable immediately. After
// the recovery timeout a single trial call is let through: success closes the
// circuit, failure reopens it and restarts the timer. Definitive
// valid/invalid answers never count as failures.
//
// State is shared across every identifier checked through the same instance.
// Breaker is not safe for concurrent use; the pipeline processes identifiers
// strictly sequentially.
type Breaker struct {
	inner            Checker
	failureThreshold int
	recoveryTimeout  time.Duration
	now              func() time.Time

	state    circuitState
	failures int
	openedAt time.Time
}

// NewBreaker wraps inner with a breaker that opens after threshold
// consecutive failures and allows a trial call after recovery has elapsed.
func NewBreaker(inner Checker, threshold int, recovery time.Duration) *Breaker {
	return &Breaker{
		inner:            inner,
		failureThreshold: threshold,
		recoveryTimeout:  recovery,
		now:              time.Now,
	}
}

func (b *Breaker) Check(ctx context.Context, id string, country vat.CountryCode) (Outcome, error) {
	if b.state == stateOpen {
		if b.now().Sub(b.openedAt) < b.recoveryTimeout {
			return Unavailable, ErrCircuitOpen
		}
		b.state = stateHalfOpen
		slog.InfoContext(ctx, "recovery timeout elapsed, allowing trial lookup")
	}

	outcome, err := b.inner.Check(ctx, id, country)
	if err != nil {
		b.recordFailure(ctx)
		return Unavailable, err
	}

	b.state = stateClosed
	b.failures = 0
	return outcome, nil
}

func (b *Breaker) recordFailure(ctx context.Context) {
	if b.state == stateHalfOpen {
		b.state = stateOpen
		b.openedAt = b.now()
		slog.WarnContext(ctx, "trial lookup failed, reopening circuit")
		return
	}

	b.failures++
	if b.failures >= b.failureThreshold {
		b.state = stateOpen
		b.openedAt = b.now()
		slog.WarnContext(ctx, "failure threshold reached, opening circuit",
			"failures", b.failures,
			"recovery_timeout", b.recoveryTimeout,
		)
	}
}
