// Package core holds the domain types and the pure validators that turn
// free-form chat input into typed values.
package core

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Skip tokens accepted for optional fields.
var skipTokens = map[string]struct{}{
	"-": {}, "s/n": {}, "sin": {}, "skip": {},
}

// IsSkip reports whether the input explicitly skips an optional field.
func IsSkip(s string) bool {
	_, ok := skipTokens[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// ParseDate validates a user-supplied date. It accepts the shortcuts
// "hoy"/"today" (resolved against now) and explicit DD/MM/YYYY or D/M/YYYY.
// Dates more than graceDays past now are rejected with ErrFutureDate.
func ParseDate(s string, now time.Time, graceDays int) (Date, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return Date{}, ErrInvalidDate
	}
	if s == "hoy" || s == "today" {
		return DateOf(now), nil
	}
	var t time.Time
	var err error
	for _, layout := range []string{"02/01/2006", "2/1/2006"} {
		t, err = time.Parse(layout, s)
		if err == nil {
			break
		}
	}
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	d := DateOf(t)
	limit := DateOf(now.AddDate(0, 0, graceDays))
	if d.After(limit) {
		return Date{}, ErrFutureDate
	}
	return d, nil
}

// ParseAmount validates a monetary amount. Following the es_CO convention the
// dot and the comma are thousands separators, not decimal marks: "150.000",
// "150,000" and "150000" all mean one hundred fifty thousand whole units.
// Currency symbols and spaces are stripped. The result is cents.
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	var units int64
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return Money{}, ErrInvalidAmount
		}
		d := int64(r - '0')
		const maxSafe = (1<<63 - 1) / 10
		if units > maxSafe || units*10 > (1<<63-1)-d {
			return Money{}, ErrInvalidAmount
		}
		units = units*10 + d
	}
	if units <= 0 || units > (1<<63-1)/100 {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: units * 100}, nil
}

// NormalizeText trims a free-text field and caps its length. Skip tokens and
// empty input normalize to the empty string.
func NormalizeText(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	if s == "" || IsSkip(s) {
		return ""
	}
	if len(s) > maxLen {
		// Cut on a rune boundary so accented text stays valid UTF-8.
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	return s
}

// ValidateInvoice checks an invoice number: 1 to 20 characters.
func ValidateInvoice(s string) error {
	s = strings.TrimSpace(s)
	if len(s) < 1 || len(s) > 20 {
		return ErrInvalidInvoice
	}
	return nil
}
