package extract

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	upperCaseBonus   = 2
	nameLengthBonus  = 1
	productPenalty   = -6
	densityPenalty   = -20
	densityRadius    = 4
	densityThreshold = 3
	minNameWords     = 2
	maxNameWords     = 5
)

var (
	moneyPattern    = regexp.MustCompile(`\d+[.,]\d{2}`)
	multiplyPattern = regexp.MustCompile(`(?i)(^|[\s\d])x([\s\d]|$)`)
	currencyPattern = regexp.MustCompile(`(?i)(^|[^a-z])(rm|rp|usd|eur|gbp|myr|sgd|idr)([^a-z]|$)|[$€£¥]`)
)

// ExtractMerchant picks the merchant line. A keyword hit wins outright;
// otherwise every line is scored and the earliest best-scoring line wins.
func ExtractMerchant(lines Lines, keywords *KeywordSet) (string, bool) {
	if len(lines) == 0 {
		return "", false
	}

	for _, line := range lines {
		if keywords.MatchLine(line) {
			return line, true
		}
	}

	product := make([]bool, len(lines))
	for i, line := range lines {
		product[i] = isProductLine(line)
	}

	best, bestScore := -1, 0
	for i, line := range lines {
		score := merchantScore(line, product[i])

		start, end := lines.window(i, densityRadius)
		dense := 0
		for j := start; j <= end; j++ {
			if product[j] {
				dense++
			}
		}
		if dense >= densityThreshold {
			score += densityPenalty
		}

		if best < 0 || score > bestScore {
			best, bestScore = i, score
		}
	}
	return lines[best], true
}

func merchantScore(line string, product bool) int {
	score := 0
	if isAllUpper(line) {
		score += upperCaseBonus
	}
	if words := len(strings.Fields(line)); words >= minNameWords && words <= maxNameWords {
		score += nameLengthBonus
	}
	if product {
		score += productPenalty
	}
	return score
}

// isProductLine flags item/price rows: weights, quantities, currency or money
func isProductLine(line string) bool {
	return strings.Contains(strings.ToLower(line), "kg") ||
		multiplyPattern.MatchString(line) ||
		currencyPattern.MatchString(line) ||
		moneyPattern.MatchString(line)
}

// isAllUpper needs at least one cased letter and no lower or title case ones
func isAllUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) || unicode.IsTitle(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}
