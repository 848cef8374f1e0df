// package vat holds the identifier model: normalization of raw input and the
// per-country structural format registry.
package vat

import "strings"

// CountryCode is a two-letter code from the closed set of supported VAT
// jurisdictions.
type CountryCode string

// Normalize canonicalizes a raw candidate into a comparable identifier:
// trailing line terminators stripped, spaces and masking '*' characters
// removed, letters upper-cased. It is total and idempotent; the result may
// still be structurally invalid as a VAT number.
func Normalize(raw string) string {
	s := strings.TrimRight(raw, "\r\n")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "*", "")
	return strings.ToUpper(s)
}
