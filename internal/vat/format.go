package vat

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrUnsupportedCountry is returned when a format check is requested for a
// country that has no rule in the registry. That is a configuration defect in
// the caller, not a property of the identifier.
var ErrUnsupportedCountry = errors.New("unsupported country code")

// formatRules is the structural pattern per jurisdiction, following the VAT
// identification number formats published by the European Commission
// (http://ec.europa.eu/taxation_customs/vies/faq.html#item_11). The table is
// a reference artifact: patterns are kept exactly as published, including the
// internal spaces some jurisdictions use.
var formatRules = map[CountryCode]*regexp.Regexp{
	"AT": regexp.MustCompile(`^ATU\d{8}$`),          // Austria
	"BE": regexp.MustCompile(`^BE0\d{9}$`),          // Belgium
	"BG": regexp.MustCompile(`^BG\d{9,10}$`),        // Bulgaria
	"CY": regexp.MustCompile(`^CY\d{8}\w$`),         // Cyprus
	"CZ": regexp.MustCompile(`^CZ\d{8,10}$`),        // Czech Republic
	"DE": regexp.MustCompile(`^DE\d{9}$`),           // Germany
	"DK": regexp.MustCompile(`^DK\d{2} \d{2} \d{2} \d{2}$`), // Denmark
	"EE": regexp.MustCompile(`^EE\d{9}$`),           // Estonia
	"EL": regexp.MustCompile(`^EL\d{9}$`),           // Greece
	"ES": regexp.MustCompile(`^ES[\w\d]\d{7}[\w\d]$`), // Spain
	"FI": regexp.MustCompile(`^FI\d{8}$`),           // Finland
	"FR": regexp.MustCompile(`^FR[\w\d]{2} \d{9}$`), // France
	"GB": regexp.MustCompile(`^GB((\d{3} \d{4} \d{2})|(\d{3} \d{4} \d{2} \d{3})|((GD|HA)\d{3}))$`), // United Kingdom
	"HR": regexp.MustCompile(`^HR\d{11}$`),          // Croatia
	"HU": regexp.MustCompile(`^HU\d{8}$`),           // Hungary
	"IE": regexp.MustCompile(`^IE((\d[\d\w\+\*]\d{5}\w)|(\d{7}WI))$`), // Ireland
	"IT": regexp.MustCompile(`^IT\d{11}$`),          // Italy
	"LT": regexp.MustCompile(`^LT\d{9,12}$`),        // Lithuania
	"LU": regexp.MustCompile(`^LU\d{8}$`),           // Luxembourg
	"LV": regexp.MustCompile(`^LV\d{11}$`),          // Latvia
	"MT": regexp.MustCompile(`^MT\d{8}$`),           // Malta
	"NL": regexp.MustCompile(`^NL\d{9}B\d{2}$`),     // The Netherlands
	"PL": regexp.MustCompile(`^PL\d{10}$`),          // Poland
	"PT": regexp.MustCompile(`^PT\d{9}$`),           // Portugal
	"RO": regexp.MustCompile(`^RO\d{2,10}$`),        // Romania
	"SE": regexp.MustCompile(`^SE\d{12}$`),          // Sweden
	"SI": regexp.MustCompile(`^SI\d{8}$`),           // Slovenia
	"SK": regexp.MustCompile(`^SK\d{10}$`),          // Slovakia
}

// ValidFormat reports whether id matches the structural pattern for country,
// anchored at both ends. The check is pure and side-effect free. A country
// without a registered rule yields ErrUnsupportedCountry.
func ValidFormat(id string, country CountryCode) (bool, error) {
	re, ok := formatRules[country]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnsupportedCountry, country)
	}
	return re.MatchString(id), nil
}

// Supported reports whether a format rule exists for country.
func Supported(country CountryCode) bool {
	_, ok := formatRules[country]
	return ok
}
