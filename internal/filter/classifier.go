package filter

import "strings"

// Classifier decides whether an employer belongs to the target-company
// taxonomy (bulge bracket, boutique, consulting, private equity).
type Classifier struct {
	companies map[string][]string
}

func NewClassifier(companies map[string][]string) *Classifier {
	return &Classifier{companies: companies}
}

// IsTargetCompany reports whether any configured company name appears as a
// substring of the (normalized) input. First match wins.
func (c *Classifier) IsTargetCompany(name string) bool {
	_, ok := c.MatchCategory(name)
	return ok
}

// MatchCategory additionally reports which category matched. Used for
// logging only; correctness depends only on the boolean.
func (c *Classifier) MatchCategory(name string) (string, bool) {
	nameLower := normalizeText(name)
	for category, companies := range c.companies {
		for _, target := range companies {
			if strings.Contains(nameLower, target) {
				return category, true
			}
		}
	}
	return "", false
}
