package filter

import (
	"regexp"
	"strconv"
	"strings"

	"go-ma-automation/internal/models"
)

// The three salary shapes that show up in posting descriptions:
// "$120,000 - $150,000", "120 - 150k", "$120k - $150k".
var salaryPatterns = []struct {
	re        *regexp.Regexp
	thousands bool
}{
	{regexp.MustCompile(`(?i)\$(\d{1,3}(?:,\d{3})*)\s*-\s*\$(\d{1,3}(?:,\d{3})*)`), false},
	{regexp.MustCompile(`(?i)(\d{1,3}(?:,\d{3})*)\s*-\s*(\d{1,3}(?:,\d{3})*)\s*k`), true},
	{regexp.MustCompile(`(?i)\$(\d{1,3})k\s*-\s*\$(\d{1,3})k`), true},
}

// ExtractSalaryRange pulls a (low, high) salary out of a description, or
// (0, 0) when none of the known patterns match.
func ExtractSalaryRange(description string) models.SalaryRange {
	for _, p := range salaryPatterns {
		match := p.re.FindStringSubmatch(description)
		if match == nil {
			continue
		}
		low, err := strconv.Atoi(strings.ReplaceAll(match[1], ",", ""))
		if err != nil {
			continue
		}
		high, err := strconv.Atoi(strings.ReplaceAll(match[2], ",", ""))
		if err != nil {
			continue
		}
		if p.thousands {
			low *= 1000
			high *= 1000
		}
		return models.SalaryRange{Low: low, High: high}
	}
	return models.SalaryRange{}
}
