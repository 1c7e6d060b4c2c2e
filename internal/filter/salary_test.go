package filter

import (
	"testing"

	"go-ma-automation/internal/models"
)

func TestExtractSalaryRange(t *testing.T) {
	tests := []struct {
		name        string
		description string
		expected    models.SalaryRange
	}{
		{
			name:        "Dollar range with commas",
			description: "Compensation: $120,000 - $150,000 plus bonus",
			expected:    models.SalaryRange{Low: 120000, High: 150000},
		},
		{
			name:        "Shorthand k range",
			description: "Base salary 120 - 150k DOE",
			expected:    models.SalaryRange{Low: 120000, High: 150000},
		},
		{
			name:        "Dollar k range",
			description: "Pays $110k - $140k",
			expected:    models.SalaryRange{Low: 110000, High: 140000},
		},
		{
			name:        "No salary information",
			description: "Competitive compensation commensurate with experience",
			expected:    models.SalaryRange{},
		},
		{
			name:        "Empty description",
			description: "",
			expected:    models.SalaryRange{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractSalaryRange(tt.description)
			if got != tt.expected {
				t.Errorf("got %+v, want %+v", got, tt.expected)
			}
		})
	}
}
