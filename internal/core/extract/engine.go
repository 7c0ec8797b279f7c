// Package extract turns raw receipt OCR text into a merchant name, a total
// amount, a transaction date and a confidence score.
//
// The three extractors are independent of each other and share no mutable
// state, so one Engine can serve any number of concurrent requests.
package extract

import (
	"time"

	"github.com/shopspring/decimal"
)

// Result is the structured record extracted from one receipt
type Result struct {
	Merchant   *string
	Total      *decimal.Decimal
	Date       *time.Time
	Confidence float64
	RawText    string
}

// DateString returns the date as YYYY-MM-DD, or "" when absent
func (r Result) DateString() string {
	if r.Date == nil {
		return ""
	}
	return r.Date.Format(ISODate)
}

// Engine runs every extractor over a piece of OCR text
type Engine struct {
	keywords *KeywordSet
}

// NewEngine creates an engine bound to a keyword set. A nil set falls back
// to the built-in keywords.
func NewEngine(keywords *KeywordSet) *Engine {
	if keywords == nil {
		keywords = DefaultKeywordSet()
	}
	return &Engine{keywords: keywords}
}

// Keywords returns the merchant keyword set in use
func (e *Engine) Keywords() *KeywordSet {
	return e.keywords
}

// Extract parses text. Missing fields are not errors: they stay nil and
// lower the confidence.
func (e *Engine) Extract(text string) Result {
	lines := NewLines(text)
	result := Result{RawText: text}

	if merchant, ok := ExtractMerchant(lines, e.keywords); ok {
		result.Merchant = &merchant
	}
	if total, ok := ExtractTotal(lines); ok {
		result.Total = &total
	}
	if date, ok := ExtractDate(text); ok {
		result.Date = &date
	}

	result.Confidence = Confidence(result.Merchant != nil, result.Total != nil, result.Date != nil)
	return result
}
