// package checker performs remote existence lookups for VAT identifiers: the
// authoritative registry check, the circuit breaker guarding it, and the
// redirect-based fallback probe.
package checker

import (
	"context"

	"github.com/mikelcoira/vat-number-geo/internal/vat"
)

// Outcome is the tri-state result of a registry lookup. Unavailable is
// deliberately distinct from NotFound: a registry that cannot be reached says
// nothing about whether the identifier exists.
type Outcome int

const (
	// Confirmed means the registry reported the identifier as registered.
	Confirmed Outcome = iota
	// NotFound means the registry answered definitively that the identifier
	// is not registered.
	NotFound
	// Unavailable means no definitive answer was obtained: transport or
	// service failure, or the circuit is open.
	Unavailable
)

func (o Outcome) String() string {
	switch o {
	case Confirmed:
		return "confirmed"
	case NotFound:
		return "not-found"
	case Unavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Checker looks up whether an identifier exists in a country's registry.
// Implementations return a non-nil error only alongside Unavailable, to
// explain why no definitive answer was obtained.
type Checker interface {
	Check(ctx context.Context, id string, country vat.CountryCode) (Outcome, error)
}
