package filter

import (
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"go-ma-automation/internal/models"
)

// Priority bonuses layered on top of the relevance score when ordering the
// submission queue.
const (
	targetCompanyBonus     = 20.0
	salaryBonus            = 15.0
	salaryFloor            = 120000
	primaryLocationBonus   = 10.0
	secondaryLocationBonus = 5.0
)

// JobFilter scores, filters and prioritizes raw postings for application.
type JobFilter struct {
	scorer     *Scorer
	classifier *Classifier
	geography  Geography
}

func NewJobFilter(keywords KeywordSets, companies map[string][]string, geo Geography) *JobFilter {
	classifier := NewClassifier(companies)
	return &JobFilter{
		scorer:     NewScorer(keywords, classifier),
		classifier: classifier,
		geography:  geo,
	}
}

func (f *JobFilter) Scorer() *Scorer { return f.scorer }

func (f *JobFilter) Classifier() *Classifier { return f.classifier }

// Filter scores every posting and keeps those at or above minScore, sorted by
// score descending. Ties keep their original relative order.
func (f *JobFilter) Filter(jobs []models.JobPosting, minScore float64) []models.ScoredJob {
	filtered := make([]models.ScoredJob, 0, len(jobs))

	for _, job := range jobs {
		score := f.scorer.Score(job.Title, job.Description)
		if score < minScore {
			continue
		}
		scored := models.ScoredJob{
			JobPosting:      job,
			MAScore:         score,
			IsTargetCompany: f.classifier.IsTargetCompany(job.Company),
			SalaryRange:     ExtractSalaryRange(job.Description),
		}
		if category, ok := f.classifier.MatchCategory(job.Company); ok {
			log.Debug().Str("company", job.Company).Str("category", category).Msg("Target company matched")
		}
		filtered = append(filtered, scored)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].MAScore > filtered[j].MAScore
	})

	log.Info().Int("kept", len(filtered)).Int("total", len(jobs)).Msg("Filtered M&A-relevant jobs")
	return filtered
}

// Prioritize orders scored jobs by composite priority descending and assigns
// 1-based ranks. The input slice is not modified.
func (f *JobFilter) Prioritize(jobs []models.ScoredJob) []models.ScoredJob {
	prioritized := make([]models.ScoredJob, len(jobs))
	copy(prioritized, jobs)

	for i := range prioritized {
		prioritized[i].PriorityScore = f.priorityScore(prioritized[i])
	}

	sort.SliceStable(prioritized, func(i, j int) bool {
		return prioritized[i].PriorityScore > prioritized[j].PriorityScore
	})

	for i := range prioritized {
		prioritized[i].PriorityRank = i + 1
	}

	log.Info().Int("count", len(prioritized)).Msg("Prioritized M&A jobs for application")
	return prioritized
}

func (f *JobFilter) priorityScore(job models.ScoredJob) float64 {
	score := job.MAScore
	if job.IsTargetCompany {
		score += targetCompanyBonus
	}
	if job.SalaryRange.Low >= salaryFloor {
		score += salaryBonus
	}
	score += f.locationBonus(job.Location)
	return score
}

func (f *JobFilter) locationBonus(location string) float64 {
	loc := normalizeText(location)
	for _, target := range f.geography.Primary {
		if strings.Contains(loc, target) {
			return primaryLocationBonus
		}
	}
	for _, target := range f.geography.Secondary {
		if strings.Contains(loc, target) {
			return secondaryLocationBonus
		}
	}
	return 0
}
