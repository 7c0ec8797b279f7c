package extract

import (
	"regexp"
	"time"
)

// ISODate is the layout used for every extracted date
const ISODate = "2006-01-02"

type dateRule struct {
	pattern *regexp.Regexp
	layout  string
}

// dateRules are tried in order; the first one that yields a real date wins
var dateRules = []dateRule{
	{regexp.MustCompile(`\b\d{2}/\d{2}/\d{4}\b`), "01/02/2006"},
	{regexp.MustCompile(`\b\d{2}\.\d{2}\.\d{2}\b`), "02.01.06"},
	{regexp.MustCompile(`\b\d{2}\.\d{2}\.\d{4}\b`), "02.01.2006"},
}

// ExtractDate finds the transaction date in the full OCR text. Each rule
// only looks at its first match; an impossible date (month 13, Feb 30)
// falls through to the next rule.
func ExtractDate(text string) (time.Time, bool) {
	for _, rule := range dateRules {
		match := rule.pattern.FindString(text)
		if match == "" {
			continue
		}
		t, err := time.Parse(rule.layout, match)
		if err != nil {
			continue
		}
		return t, true
	}
	return time.Time{}, false
}
