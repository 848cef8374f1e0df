// package resolver classifies normalized identifiers: for each candidate
// country, in a fixed order, it combines the structural format check, the
// registry lookup and (for fallback-eligible countries) the secondary probe
// into a single classification record.
package resolver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mikelcoira/vat-number-geo/internal/checker"
	"github.com/mikelcoira/vat-number-geo/internal/vat"
)

// notFoundMsg is the error annotation written for identifiers whose existence
// could not be confirmed anywhere.
const notFoundMsg = "Not Found"

// Record is the per-identifier classification: the normalized identifier, the
// resolved country (empty when no country matched) and an optional error
// annotation.
type Record struct {
	ID      string
	Country vat.CountryCode
	Err     string
}

// Candidate is one entry of the ordered country-matching table. Prefix is
// prepended to the identifier before validation, for jurisdictions whose
// numbers are collected without their country code. UseFallback marks the
// country whose registry has known coverage gaps and gets the secondary probe
// when the registry answer is inconclusive.
type Candidate struct {
	Country     vat.CountryCode
	Prefix      string
	UseFallback bool
}

// DefaultCandidates is the evaluation order: Spanish CIFs come in bare and are
// tried first; identifiers from other jurisdictions carry their own country
// prefix and must be confirmed by the registry. Order is the tie-break when an
// identifier could structurally match more than one pattern.
var DefaultCandidates = []Candidate{
	{Country: "ES", Prefix: "ES", UseFallback: true},
	{Country: "GB"},
	{Country: "DE"},
}

// FallbackChecker is the secondary existence probe for the fallback-eligible
// country.
type FallbackChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Resolver applies the candidate table to one identifier at a time. It holds
// no per-identifier state; the only state shared across identifiers is the
// circuit breaker inside the registry checker.
type Resolver struct {
	registry   checker.Checker
	fallback   FallbackChecker
	candidates []Candidate
}

// New validates the candidate table against the format registry up front, so
// an unsupported country surfaces at startup instead of mid-batch.
func New(registry checker.Checker, fallback FallbackChecker, candidates []Candidate) (*Resolver, error) {
	for _, c := range candidates {
		if !vat.Supported(c.Country) {
			return nil, fmt.Errorf("%w: candidate %q", vat.ErrUnsupportedCountry, c.Country)
		}
		if c.UseFallback && fallback == nil {
			return nil, fmt.Errorf("candidate %q requires a fallback checker", c.Country)
		}
	}
	return &Resolver{
		registry:   registry,
		fallback:   fallback,
		candidates: candidates,
	}, nil
}

// Resolve normalizes raw and evaluates the candidate countries in order. The
// first candidate to satisfy its conditions wins. Every call yields a record;
// inconclusive registry answers and fallback protocol anomalies are recorded
// on the row, never raised.
func (r *Resolver) Resolve(ctx context.Context, raw string) Record {
	id := vat.Normalize(raw)

	for _, c := range r.candidates {
		full := c.Prefix + id

		ok, err := vat.ValidFormat(full, c.Country)
		if err != nil {
			// unreachable with a table validated by New
			slog.ErrorContext(ctx, "candidate has no format rule", "country", c.Country, "error", err)
			continue
		}
		if !ok {
			continue
		}

		outcome, err := r.registry.Check(ctx, full, c.Country)
		if err != nil {
			slog.WarnContext(ctx, "registry lookup inconclusive",
				"id", id,
				"country", c.Country,
				"error", err,
			)
		}
		if outcome == checker.Confirmed {
			return Record{ID: id, Country: c.Country}
		}

		if !c.UseFallback {
			// registry confirmation is required for this country; try the
			// next candidate
			continue
		}

		// format already matched the fallback-eligible country, so the
		// country is settled; the probe only decides the error annotation
		found, err := r.fallback.Exists(ctx, id)
		if err != nil {
			slog.ErrorContext(ctx, "fallback lookup failed", "id", id, "error", err)
			return Record{ID: id, Country: c.Country, Err: err.Error()}
		}
		if found {
			return Record{ID: id, Country: c.Country}
		}
		return Record{ID: id, Country: c.Country, Err: notFoundMsg}
	}

	return Record{ID: id, Err: notFoundMsg}
}
