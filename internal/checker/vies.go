package checker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/mikelcoira/vat-number-geo/internal/vat"
)

// DefaultVIESBaseURL is the European Commission's VIES REST endpoint. VIES is
// a search engine (not a database): each lookup is forwarded to the national
// VAT registry, which answers valid or invalid.
const DefaultVIESBaseURL = "https://ec.europa.eu/taxation_customs/vies/rest-api"

type viesCheckResponse struct {
	IsValid bool `json:"isValid"`
}

// VIESChecker queries the VIES REST API for an identifier's registration
// status. The base URL is injectable for tests.
type VIESChecker struct {
	BaseURL string
	Client  *http.Client
	Limiter *rate.Limiter
}

// NewVIESChecker builds a checker with a bounded request timeout and an
// optional politeness limiter (limit requests per second, 0 disables).
func NewVIESChecker(baseURL string, timeout time.Duration, limit float64) *VIESChecker {
	c := &VIESChecker{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
	}
	if limit > 0 {
		c.Limiter = rate.NewLimiter(rate.Limit(limit), 1)
	}
	return c
}

// Check asks VIES whether id is registered in country's VAT registry. The id
// must carry the country prefix; VIES itself takes the bare number plus the
// country code. A definitive valid/invalid answer is never an error; anything
// else (non-200, unreachable, malformed body) is reported as Unavailable with
// the cause.
func (c *VIESChecker) Check(ctx context.Context, id string, country vat.CountryCode) (Outcome, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return Unavailable, fmt.Errorf("vies rate limiter: %w", err)
		}
	}

	number := strings.TrimPrefix(id, string(country))
	url := fmt.Sprintf("%s/ms/%s/vat/%s", c.BaseURL, country, number)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Unavailable, fmt.Errorf("vies request: %w", err)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return Unavailable, fmt.Errorf("vies request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Unavailable, fmt.Errorf("vies returned status %d", resp.StatusCode)
	}

	var payload viesCheckResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Unavailable, fmt.Errorf("vies response decode: %w", err)
	}

	if payload.IsValid {
		return Confirmed, nil
	}
	return NotFound, nil
}
