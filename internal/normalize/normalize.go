// Package normalize converts raw statement text into canonical values.
// Statement exports are messy: amounts carry thousands separators, quotes
// and currency prefixes, dates arrive in whatever format the bank's export
// tool emits. Everything here is best-effort; malformed numerics coerce to
// zero and unparsable dates are reported to the caller, never raised.
package normalize

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CommonDateFormats is the ordered chain tried when no bank-specific format
// is known. Order matters: day-first formats dominate Indian exports.
var CommonDateFormats = []string{
	"2-Jan-06", // 05-Apr-22
	"2-1-2006", // 05-04-2022
	"2/1/2006", // 05/04/2022
	"2006-1-2", // 2022-04-05
	"2-1-06",   // 05-04-22
	"2/1/06",   // 05/04/22
}

// CanonicalDateFormat is the day-month-year form used at the output boundary.
const CanonicalDateFormat = "02-01-2006"

var (
	currencyPrefixes = []string{"₹", "Rs.", "Rs"}
	whitespaceRuns   = regexp.MustCompile(`\s+`)
	dashFiller       = regexp.MustCompile(`--+`)
	asteriskFiller   = regexp.MustCompile(`\*+`)
)

// ParseAmount converts a raw textual amount to a decimal. It strips
// thousands separators, quote characters and currency prefixes, and treats
// parenthesized values as negative. Blank or unparsable input yields zero;
// ingestion is best-effort and a bad numeric must never fail a file.
func ParseAmount(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero
	}

	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, `"`, "")
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + s[1:len(s)-1]
	}

	for _, prefix := range currencyPrefixes {
		s = strings.ReplaceAll(s, prefix, "")
	}
	s = strings.TrimSpace(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseDate parses a raw date string. When formats is non-empty it is tried
// first (a bank hint narrows the expected format); the common chain is the
// fallback. The returned time is the calendar day at midnight UTC. ok is
// false when nothing parses, in which case the caller drops the row.
func ParseDate(raw string, formats []string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	for _, chain := range [][]string{formats, CommonDateFormats} {
		for _, layout := range chain {
			if t, err := time.Parse(layout, s); err == nil {
				return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
			}
		}
	}

	return time.Time{}, false
}

// FormatDate renders a date in the canonical day-month-year form consumed
// by the display layer.
func FormatDate(t time.Time) string {
	return t.Format(CanonicalDateFormat)
}

// CleanDescription trims a narration, collapses internal whitespace runs
// and strips the dash/asterisk filler some exports use as visual padding.
func CleanDescription(raw string) string {
	s := strings.TrimSpace(raw)
	s = whitespaceRuns.ReplaceAllString(s, " ")
	s = dashFiller.ReplaceAllString(s, "")
	s = asteriskFiller.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
