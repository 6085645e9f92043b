package resolver

import (
	"regexp"
	"strings"
)

// majorExchanges is the allow-list for symbol search candidates.
// Matching is by substring so variants like "NASDAQ Global Select"
// still qualify.
var majorExchanges = []string{
	"NYSE", "NASDAQ", "LSE", "TSE", "HKEX", "SSE", "SZSE",
	"BSE", "NSE", "KRX", "TWSE", "ASX", "TSX", "XETRA",
	"EURONEXT", "SIX", "JSE", "SGX", "SET", "BM",
}

// businessSuffixes are stripped from both sides during name
// comparison: legal/structural words, not brand identity.
var businessSuffixes = map[string]bool{
	"inc": true, "corp": true, "corporation": true, "ltd": true, "limited": true,
	"co": true, "llc": true, "lp": true, "plc": true,
	"sa": true, "ag": true, "nv": true, "se": true, "ab": true,
	"gmbh": true, "bv": true, "sas": true, "spa": true, "oy": true,
	"holding": true, "holdings": true, "group": true, "international": true, "global": true,
	"etp": true, "etf": true, "token": true, "usd": true, "eur": true, "sek": true,
	"com": true, "the": true,
}

// allowedNameExtensions are extra words in the result name (beyond the
// query) that are still acceptable: they describe corporate structure
// or domain without identifying a different company.
var allowedNameExtensions = map[string]bool{
	"platforms": true, "technologies": true, "technology": true, "tech": true,
	"solutions": true, "services": true, "systems": true, "industries": true,
	"digital": true, "labs": true, "ventures": true, "capital": true, "financial": true,
	"bancorp": true, "bancshares": true, "semiconductor": true, "semiconductors": true,
}

var (
	dotComExpr      = regexp.MustCompile(`\.com\b`)
	punctuationExpr = regexp.MustCompile(`[^a-z0-9 ]`)
)

// IsNameSimilar reports whether a symbol-search instrument name is
// close enough to the queried company name.
//
// Both names are normalized (lowercased, punctuation removed, business
// suffixes stripped). The normalized result must start with the
// normalized query words verbatim, and any extra words in the result
// must be in the allowed generic extensions list.
//
//	"Apple"  vs "Apple Inc"          → "apple" == "apple"                     → true
//	"Meta"   vs "Meta Platforms Inc" → extra "platforms" is allowed           → true
//	"Render" vs "Render Cube S.A."   → extra "cube" not allowed               → false
//	"Render" vs "21Shares Render ETP"→ doesn't start with "render"            → false
func IsNameSimilar(query, resultName string) bool {
	normQuery := normalizeName(query)
	normResult := normalizeName(resultName)

	if normQuery == "" || normResult == "" {
		return false
	}
	if normResult == normQuery {
		return true
	}

	queryWords := strings.Fields(normQuery)
	resultWords := strings.Fields(normResult)

	if len(resultWords) < len(queryWords) {
		return false
	}

	for i, word := range queryWords {
		if resultWords[i] != word {
			return false
		}
	}

	for _, extra := range resultWords[len(queryWords):] {
		if !allowedNameExtensions[extra] {
			return false
		}
	}

	return true
}

// normalizeName lowercases, strips .com domains, removes punctuation,
// and drops business/legal suffix words.
func normalizeName(name string) string {
	lower := strings.ToLower(name)
	lower = dotComExpr.ReplaceAllString(lower, "")
	lower = punctuationExpr.ReplaceAllString(lower, " ")

	var kept []string
	for _, word := range strings.Fields(lower) {
		if !businessSuffixes[word] {
			kept = append(kept, word)
		}
	}
	return strings.Join(kept, " ")
}

// isMajorExchange checks exchange membership against the allow-list.
func isMajorExchange(exchange string) bool {
	if exchange == "" {
		return false
	}
	upper := strings.ToUpper(exchange)
	for _, major := range majorExchanges {
		if strings.Contains(upper, major) {
			return true
		}
	}
	return false
}
