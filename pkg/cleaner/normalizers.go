// pkg/cleaner/normalizers.go
package cleaner

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// phoneCountryPrefix is prepended to every normalized phone number.
const phoneCountryPrefix = "+91-"

// phoneDigits is the number of trailing digits kept from the raw input.
const phoneDigits = 10

// dateFormats are attempted in order; the first successful parse wins.
// Order matters for ambiguous inputs: year-month-day is always tried
// before day-month-year.
var dateFormats = []string{
	"2006-01-02",
	"02-01-2006",
	"01/02/2006",
}

// NormalizePhone strips all non-digit characters and rebuilds the number
// as a fixed country prefix plus the trailing ten digits. Inputs with
// fewer than ten digits normalize to absent.
//
// Numbers carrying more than ten digits are truncated to the trailing
// ten, which discards any leading country code already present. The
// source system relies on this exact truncation.
func NormalizePhone(raw string) *string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	d := digits.String()
	if len(d) < phoneDigits {
		return nil
	}

	normalized := phoneCountryPrefix + d[len(d)-phoneDigits:]
	return &normalized
}

// NormalizeCategory trims whitespace and title-cases a category label.
// Empty or whitespace-only input normalizes to absent.
func NormalizeCategory(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	normalized := cases.Title(language.Und).String(strings.ToLower(trimmed))
	return &normalized
}

// ParseDate attempts each supported date format in order and returns
// the first successful parse. Absent input or input that matches no
// format parses to absent.
func ParseDate(raw string) *time.Time {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return &t
		}
	}

	return nil
}
