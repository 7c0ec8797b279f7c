package extract

import (
	"strings"

	"github.com/shopspring/decimal"
)

const totalRadius = 4

// ExtractTotal returns the largest amount found near any line mentioning
// TOTAL. SUBTOTAL lines anchor too. Lines with a percent sign are tax rates
// and never contribute. Without an anchor there is no total.
func ExtractTotal(lines Lines) (decimal.Decimal, bool) {
	var (
		best  decimal.Decimal
		found bool
	)
	for i, line := range lines {
		if !strings.Contains(strings.ToUpper(line), "TOTAL") {
			continue
		}
		start, end := lines.window(i, totalRadius)
		for j := start; j <= end; j++ {
			if strings.Contains(lines[j], "%") {
				continue
			}
			for _, amount := range amounts(lines[j]) {
				if !found || amount.GreaterThan(best) {
					best, found = amount, true
				}
			}
		}
	}
	return best, found
}

// amounts parses every two-decimal figure in line, "," or "." separated
func amounts(line string) []decimal.Decimal {
	matches := moneyPattern.FindAllString(line, -1)
	out := make([]decimal.Decimal, 0, len(matches))
	for _, m := range matches {
		d, err := decimal.NewFromString(strings.Replace(m, ",", ".", 1))
		if err != nil {
			continue
		}
		out = append(out, d)
	}
	return out
}
