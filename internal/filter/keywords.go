package filter

// KeywordSets holds the three tiers of M&A vocabulary a scorer matches
// against. Plain data injected at construction so tests can swap them out.
type KeywordSets struct {
	Primary   []string `yaml:"primary"`
	Secondary []string `yaml:"secondary"`
	Skills    []string `yaml:"skills"`
}

// Geography holds location substrings in priority tiers.
type Geography struct {
	Primary   []string `yaml:"primary"`
	Secondary []string `yaml:"secondary"`
}

func DefaultKeywords() KeywordSets {
	return KeywordSets{
		Primary: []string{
			"mergers", "acquisitions", "m&a", "merger", "acquisition",
			"investment banking", "corporate finance", "private equity",
			"deal", "transaction", "due diligence", "valuation",
		},
		Secondary: []string{
			"lbo", "leveraged buyout", "dcf", "financial modeling",
			"pitch book", "synergy", "integration", "divestiture",
			"restructuring", "capital markets", "equity research",
		},
		Skills: []string{
			"excel", "bloomberg", "powerpoint", "financial analysis",
			"modeling", "cfa", "mba", "accounting", "finance",
		},
	}
}

func DefaultTargetCompanies() map[string][]string {
	return map[string][]string{
		"bulge_bracket": {
			"goldman sachs", "jpmorgan", "morgan stanley", "bank of america",
			"citigroup", "barclays", "credit suisse", "deutsche bank",
		},
		"boutique": {
			"evercore", "moelis", "lazard", "centerview", "perella weinberg",
			"greenhill", "rothschild", "pjt partners", "guggenheim",
		},
		"consulting": {
			"mckinsey", "bain", "bcg", "deloitte", "pwc", "ey", "kpmg",
		},
		"private_equity": {
			"blackstone", "kkr", "carlyle", "apollo", "tpg", "warburg pincus",
		},
	}
}

func DefaultGeography() Geography {
	return Geography{
		Primary:   []string{"new york", "manhattan", "nyc", "rockville centre"},
		Secondary: []string{"long island", "brooklyn", "queens", "jersey city", "stamford"},
	}
}
