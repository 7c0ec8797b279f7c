package extract

import (
	"strings"

	"golang.org/x/text/cases"
)

// DefaultMerchantKeywords are brand and company-suffix tokens that
// identify the merchant line outright.
var DefaultMerchantKeywords = []string{
	// chains
	"WALMART", "TARGET", "COSTCO", "KROGER", "SAFEWAY", "WALGREENS", "CVS",
	"ALDI", "LIDL", "TESCO", "SAINSBURY", "WOOLWORTHS", "COLES", "IKEA",
	"7-ELEVEN", "STARBUCKS", "MCDONALD", "KFC", "SUBWAY",
	"AEON", "GIANT", "LOTUS", "MYDIN", "JAYA GROCER", "GUARDIAN", "WATSONS",
	"INDOMARET", "ALFAMART",
	// generic store and company suffixes
	"MART", "MARKET", "SUPERMARKET", "STORE", "SDN", "BHD",
}

// KeywordSet is an immutable, case-insensitive set of merchant keywords.
// It is built once at startup and shared by every request.
type KeywordSet struct {
	folded []string
}

// NewKeywordSet folds and de-duplicates keywords, skipping blanks
func NewKeywordSet(keywords ...string) *KeywordSet {
	seen := make(map[string]struct{}, len(keywords))
	set := &KeywordSet{folded: make([]string, 0, len(keywords))}
	for _, kw := range keywords {
		f := fold(strings.TrimSpace(kw))
		if f == "" {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		set.folded = append(set.folded, f)
	}
	return set
}

// DefaultKeywordSet returns the built-in keywords plus any extras
func DefaultKeywordSet(extra ...string) *KeywordSet {
	all := make([]string, 0, len(DefaultMerchantKeywords)+len(extra))
	all = append(all, DefaultMerchantKeywords...)
	all = append(all, extra...)
	return NewKeywordSet(all...)
}

// Len returns the number of distinct keywords
func (k *KeywordSet) Len() int {
	if k == nil {
		return 0
	}
	return len(k.folded)
}

// MatchLine reports whether any keyword occurs inside line
func (k *KeywordSet) MatchLine(line string) bool {
	if k == nil || len(k.folded) == 0 {
		return false
	}
	folded := fold(line)
	for _, kw := range k.folded {
		if strings.Contains(folded, kw) {
			return true
		}
	}
	return false
}

// fold applies Unicode case folding. Casers keep state, so one is made per call.
func fold(s string) string {
	return cases.Fold().String(s)
}
