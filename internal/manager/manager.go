package manager

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"go-ma-automation/internal/config"
	"go-ma-automation/internal/filter"
	"go-ma-automation/internal/ledger"
	"go-ma-automation/internal/models"
	"go-ma-automation/internal/ratelimit"
)

// Scraper supplies raw postings for a session. MarkApplied feeds the
// cross-session seen-cache; only postings with a ledger row get marked, so
// listings that fall beyond the daily cap resurface next session.
type Scraper interface {
	Fetch(ctx context.Context) ([]models.JobPosting, error)
	MarkApplied(urls []string)
}

// DocumentGenerator renders the tailored resume and cover letter for one
// posting.
type DocumentGenerator interface {
	Render(job models.ScoredJob) (resumePath, coverPath string, err error)
}

// FollowUpSweeper sends delayed follow-ups for earlier applications.
type FollowUpSweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// Notifier receives the session summary. Best effort.
type Notifier interface {
	SendSession(result models.SessionResult) error
}

// Manager drives one full search-filter-apply-follow-up cycle.
type Manager struct {
	cfg       *config.Config
	ledger    *ledger.Ledger
	jobFilter *filter.JobFilter
	limiter   *ratelimit.Limiter
	scraper   Scraper
	docs      DocumentGenerator
	sweeper   FollowUpSweeper
	notifier  Notifier
	throttle  *rate.Limiter
	now       func() time.Time
}

func New(cfg *config.Config, l *ledger.Ledger, jf *filter.JobFilter, scraper Scraper, docs DocumentGenerator, sweeper FollowUpSweeper) *Manager {
	delay := time.Duration(cfg.SubmissionDelaySeconds) * time.Second
	var throttle *rate.Limiter
	if delay > 0 {
		throttle = rate.NewLimiter(rate.Every(delay), 1)
	}
	return &Manager{
		cfg:       cfg,
		ledger:    l,
		jobFilter: jf,
		limiter:   ratelimit.New(l),
		scraper:   scraper,
		docs:      docs,
		sweeper:   sweeper,
		throttle:  throttle,
		now:       time.Now,
	}
}

// WithNotifier attaches an optional session notifier.
func (m *Manager) WithNotifier(n Notifier) *Manager {
	m.notifier = n
	return m
}

// WithClock injects the clock for tests.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	m.limiter = ratelimit.NewWithClock(m.ledger, now)
	return m
}

// RunDailySession executes one session: gate on caps, acquire postings,
// filter and prioritize, submit up to the daily cap, sweep follow-ups, and
// log the session. The returned result is produced even when the run
// degrades; only ledger failures abort it.
func (m *Manager) RunDailySession(ctx context.Context) (models.SessionResult, error) {
	result := models.SessionResult{Date: m.now()}
	log.Info().Msg("Starting daily M&A job search and application process")

	// Stage 1: gate. Hitting a cap is a normal zero-result outcome.
	ok, err := m.limiter.CanSubmit(ctx, m.cfg.DailyApplicationLimit, m.cfg.WeeklyApplicationLimit)
	if err != nil {
		return result, err
	}
	if !ok {
		log.Warn().Msg("Daily/weekly application limits reached")
		return result, nil
	}

	// Stage 2: acquire. A scraping failure degrades the run, it does not
	// abort it.
	jobs, err := m.scraper.Fetch(ctx)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("scraping: %v", err))
		log.Error().Err(err).Msg("Scraping failed")
	}
	result.JobsFound = len(jobs)

	// Stage 3: filter and prioritize.
	filtered := m.jobFilter.Filter(jobs, m.cfg.MinMARelevanceScore)
	prioritized := m.jobFilter.Prioritize(filtered)
	result.HighPriorityJobs = len(prioritized)

	// Stage 4: submit loop. URLs are marked seen only once the application
	// has a ledger row; anything skipped by the cap or a failed document
	// render stays unmarked and comes back next session.
	var appliedURLs []string
	for _, job := range prioritized {
		if result.ApplicationsSubmitted >= m.cfg.DailyApplicationLimit {
			break
		}

		// The limiter never reserves a slot, so re-check before every
		// submission.
		ok, err := m.limiter.CanSubmit(ctx, m.cfg.DailyApplicationLimit, m.cfg.WeeklyApplicationLimit)
		if err != nil {
			return result, err
		}
		if !ok {
			break
		}

		applied, err := m.ledger.HasApplied(ctx, job.Title, job.Company)
		if err != nil {
			return result, err
		}
		if applied {
			if job.URL != "" {
				appliedURLs = append(appliedURLs, job.URL)
			}
			log.Info().Str("title", job.Title).Str("company", job.Company).Msg("Already applied, skipping")
			continue
		}

		if m.throttle != nil {
			if err := m.throttle.Wait(ctx); err != nil {
				return result, err
			}
		}

		resumePath, coverPath, err := m.docs.Render(job)
		if err != nil {
			msg := fmt.Sprintf("applying to %s at %s: %v", job.Title, job.Company, err)
			result.Errors = append(result.Errors, msg)
			log.Error().Err(err).Str("title", job.Title).Str("company", job.Company).Msg("Application failed")
			continue
		}

		if err := m.record(ctx, job, resumePath, coverPath); err != nil {
			return result, err
		}

		result.ApplicationsSubmitted++
		if job.URL != "" {
			appliedURLs = append(appliedURLs, job.URL)
		}
		log.Info().Str("title", job.Title).Str("company", job.Company).Msg("Application submitted")
	}
	m.scraper.MarkApplied(appliedURLs)

	// Stage 5: follow-up sweep, then the session log.
	if m.sweeper != nil {
		if _, err := m.sweeper.Sweep(ctx); err != nil {
			return result, err
		}
	}

	if err := m.appendSession(ctx, result); err != nil {
		return result, err
	}

	if m.notifier != nil {
		if err := m.notifier.SendSession(result); err != nil {
			log.Warn().Err(err).Msg("Failed to send session notification")
		}
	}

	log.Info().
		Int("jobs_found", result.JobsFound).
		Int("submitted", result.ApplicationsSubmitted).
		Int("errors", len(result.Errors)).
		Msg("Daily job search completed")
	return result, nil
}

func (m *Manager) record(ctx context.Context, job models.ScoredJob, resumePath, coverPath string) error {
	rec := &models.ApplicationRecord{
		JobID:            models.JobID(job.Company, job.Title),
		JobTitle:         job.Title,
		Company:          job.Company,
		JobURL:           job.URL,
		ApplicationDate:  m.now(),
		Status:           models.StatusSubmitted,
		MARelevanceScore: job.MAScore,
		ResumePath:       resumePath,
		CoverLetterPath:  coverPath,
	}
	return m.ledger.Upsert(ctx, rec)
}

func (m *Manager) appendSession(ctx context.Context, result models.SessionResult) error {
	stats, err := m.ledger.Statistics(ctx)
	if err != nil {
		return err
	}

	notes, err := json.Marshal(result)
	if err != nil {
		notes = []byte("{}")
	}

	return m.ledger.AppendSession(ctx, models.SessionStats{
		SessionDate:           result.Date,
		JobsFound:             result.JobsFound,
		ApplicationsSubmitted: result.ApplicationsSubmitted,
		ResponseRate:          stats.ResponseRate,
		Notes:                 string(notes),
	})
}
