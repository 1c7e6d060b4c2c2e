package filter

import "strings"

// Scoring caps for the canonical pre-filter score. Title keywords carry the
// most weight, then primary/secondary/skill mentions in the description.
const (
	titleCap     = 40.0
	primaryCap   = 30.0
	secondaryCap = 20.0
	skillsCap    = 10.0
	maxScore     = 100.0
)

// Scorer computes M&A relevance scores from injected keyword tables.
// Deterministic: same inputs always yield the same score.
type Scorer struct {
	keywords  KeywordSets
	companies *Classifier
}

func NewScorer(keywords KeywordSets, companies *Classifier) *Scorer {
	return &Scorer{
		keywords:  keywords,
		companies: companies,
	}
}

// Score is the canonical pre-filter relevance score in [0, 100]:
// +10 per distinct primary keyword in the title (cap 40), description
// contributions of +5 per primary (cap 30), +3 per secondary (cap 20) and
// +2 per skill keyword (cap 10).
func (s *Scorer) Score(title, description string) float64 {
	titleLower := normalizeText(title)
	descLower := normalizeText(description)

	titleScore := 0.0
	for _, kw := range s.keywords.Primary {
		if strings.Contains(titleLower, kw) {
			titleScore += 10
		}
	}
	titleScore = min(titleScore, titleCap)

	descScore := min(countMatches(descLower, s.keywords.Primary)*5, primaryCap)
	descScore += min(countMatches(descLower, s.keywords.Secondary)*3, secondaryCap)
	descScore += min(countMatches(descLower, s.keywords.Skills)*2, skillsCap)

	return min(titleScore+descScore, maxScore)
}

// ListingScore is the scrape-side acceptance score in [0, 100]. It weighs
// title 40 / description 40 / target company 20 and is intentionally a looser
// measure than Score: scraper sources use it with a lower threshold to decide
// whether a listing is worth keeping at all.
func (s *Scorer) ListingScore(title, description, company string) float64 {
	titleLower := normalizeText(title)
	descLower := normalizeText(description)

	score := min(countMatches(titleLower, s.keywords.Primary)*10, titleCap)
	score += min(countMatches(descLower, s.keywords.Primary)*4, 20)
	score += min(countMatches(descLower, s.keywords.Secondary)*4, 20)
	if s.companies != nil && s.companies.IsTargetCompany(company) {
		score += 20
	}
	return min(score, maxScore)
}

func countMatches(text string, keywords []string) float64 {
	matches := 0.0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			matches++
		}
	}
	return matches
}
