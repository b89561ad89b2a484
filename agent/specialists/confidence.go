package specialists

import "strings"

const (
	confidenceBase    = 0.35
	confidencePerHit  = 0.15
	confidenceCeiling = 0.95
)

// keywordConfidence scores how squarely a query sits in a specialist's
// domain: a documented base plus a fixed step per matched keyword, capped
// below 1 so a keyword-stuffed query never claims certainty.
func keywordConfidence(text string, keywords []string) float64 {
	lower := strings.ToLower(text)
	matches := 0
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			matches++
		}
	}
	score := confidenceBase + confidencePerHit*float64(matches)
	if score > confidenceCeiling {
		return confidenceCeiling
	}
	return score
}
