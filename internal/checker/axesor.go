package checker

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// DefaultAxesorBaseURL is the public Axesor company search. Spanish companies
// missing from VIES can still be located through it.
const DefaultAxesorBaseURL = "https://www.axesor.es"

// UnexpectedStatusError reports a fallback lookup response that is neither
// the "no results" page nor the detail-page redirect. Callers must not
// interpret it as an existence answer either way.
type UnexpectedStatusError struct {
	StatusCode int
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from company lookup", e.StatusCode)
}

// AxesorChecker probes the Axesor company search form with the identifier as
// a query parameter. The contract is carried entirely by the status code: the
// form answers 200 with its default "0 results" page when the company is
// unknown, and 302 to the company's detail page when it exists. The response
// body is never parsed, and redirects are never followed.
type AxesorChecker struct {
	BaseURL string
	Client  *http.Client
}

// NewAxesorChecker builds a checker with a bounded request timeout. The
// client is configured to surface the redirect response itself rather than
// follow it.
func NewAxesorChecker(baseURL string, timeout time.Duration) *AxesorChecker {
	return &AxesorChecker{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Exists reports whether id resolves to a known company. An unexpected status
// code yields an *UnexpectedStatusError.
func (c *AxesorChecker) Exists(ctx context.Context, id string) (bool, error) {
	lookupURL := fmt.Sprintf("%s/buscar/empresas?q=%s&tabActivo=empresas", c.BaseURL, url.QueryEscape(id))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return false, fmt.Errorf("company lookup request: %w", err)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return false, fmt.Errorf("company lookup failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return false, nil
	case http.StatusFound:
		// the Location header points at the company detail page; existence is
		// all this probe needs
		return true, nil
	default:
		return false, &UnexpectedStatusError{StatusCode: resp.StatusCode}
	}
}
