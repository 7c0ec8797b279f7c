package extract

import "github.com/shopspring/decimal"

var (
	merchantWeight = decimal.RequireFromString("0.30")
	totalWeight    = decimal.RequireFromString("0.40")
	dateWeight     = decimal.RequireFromString("0.30")

	// MaxConfidence keeps every result below certainty
	MaxConfidence = decimal.RequireFromString("0.95")
)

// Confidence adds a fixed weight per field that was found, rounds to two
// places and caps at MaxConfidence.
func Confidence(hasMerchant, hasTotal, hasDate bool) float64 {
	score := decimal.Zero
	if hasMerchant {
		score = score.Add(merchantWeight)
	}
	if hasTotal {
		score = score.Add(totalWeight)
	}
	if hasDate {
		score = score.Add(dateWeight)
	}
	score = decimal.Min(score.Round(2), MaxConfidence)
	return score.InexactFloat64()
}
