package scraper

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"go-ma-automation/internal/dedup"
	"go-ma-automation/internal/filter"
	"go-ma-automation/internal/models"
)

// Source is one job board adapter. Implementations fetch raw postings; all
// scoring and filtering happens downstream.
type Source interface {
	Fetch(ctx context.Context) ([]models.JobPosting, error)
	Name() string
}

// Multi aggregates postings from every configured source. Per-source
// failures are logged and skipped so one broken board never sinks a session.
type Multi struct {
	sources     []Source
	scorer      *filter.Scorer
	acceptScore float64
	cache       *dedup.SeenCache
}

func NewMulti(sources []Source, scorer *filter.Scorer, acceptScore float64, cache *dedup.SeenCache) *Multi {
	return &Multi{
		sources:     sources,
		scorer:      scorer,
		acceptScore: acceptScore,
		cache:       cache,
	}
}

// Fetch collects postings from all sources, keeps those whose listing score
// clears the acceptance threshold, drops duplicates within the run and
// listings already marked applied in earlier sessions, and returns the rest
// ordered by listing score descending. Fetching never marks anything as
// seen: a posting that surfaces but is not applied to must resurface in the
// next session, so only MarkApplied feeds the cache.
func (m *Multi) Fetch(ctx context.Context) ([]models.JobPosting, error) {
	type scored struct {
		job   models.JobPosting
		score float64
	}

	var accepted []scored
	seen := make(map[string]bool)

	for _, source := range m.sources {
		jobs, err := source.Fetch(ctx)
		if err != nil {
			log.Error().Err(err).Str("source", source.Name()).Msg("Source fetch failed")
			continue
		}
		log.Info().Str("source", source.Name()).Int("count", len(jobs)).Msg("Source finished")

		for _, job := range jobs {
			score := m.scorer.ListingScore(job.Title, job.Description, job.Company)
			if score < m.acceptScore {
				continue
			}

			key := strings.ToLower(job.Title) + "|" + strings.ToLower(job.Company)
			if seen[key] {
				continue
			}
			seen[key] = true

			if m.cache != nil && job.URL != "" && m.cache.IsSeen(job.URL) {
				continue
			}

			accepted = append(accepted, scored{job: job, score: score})
		}
	}

	sort.SliceStable(accepted, func(i, j int) bool {
		return accepted[i].score > accepted[j].score
	})

	jobs := make([]models.JobPosting, len(accepted))
	for i, s := range accepted {
		jobs[i] = s.job
	}

	log.Info().Int("unique", len(jobs)).Msg("Aggregated M&A job listings")
	return jobs, nil
}

// MarkApplied records listing URLs in the cross-session cache. Called after
// an application landed in the ledger so never-applied postings keep
// resurfacing until they are acted on.
func (m *Multi) MarkApplied(urls []string) {
	if m.cache == nil || len(urls) == 0 {
		return
	}
	m.cache.Add(urls)
}
