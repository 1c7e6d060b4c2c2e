package manager

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-ma-automation/internal/config"
	"go-ma-automation/internal/filter"
	"go-ma-automation/internal/ledger"
	"go-ma-automation/internal/models"
)

const relevantDescription = "mergers acquisitions due diligence valuation deal transaction lbo dcf excel"

type stubScraper struct {
	jobs   []models.JobPosting
	err    error
	called bool
	marked []string
}

func (s *stubScraper) Fetch(ctx context.Context) ([]models.JobPosting, error) {
	s.called = true
	return s.jobs, s.err
}

func (s *stubScraper) MarkApplied(urls []string) {
	s.marked = append(s.marked, urls...)
}

type stubDocs struct {
	failFor string
	calls   int
}

func (d *stubDocs) Render(job models.ScoredJob) (string, string, error) {
	d.calls++
	if job.Company == d.failFor {
		return "", "", errors.New("template render failed")
	}
	return "resume.html", "cover.html", nil
}

type stubSweeper struct {
	called bool
	err    error
}

func (s *stubSweeper) Sweep(ctx context.Context) (int, error) {
	s.called = true
	return 0, s.err
}

func testConfig() *config.Config {
	return &config.Config{
		DailyApplicationLimit:  2,
		WeeklyApplicationLimit: 10,
		MinMARelevanceScore:    40,
		SubmissionDelaySeconds: 0,
	}
}

func openTestLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	l, err := ledger.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(l.Close)
	require.NoError(t, l.Migrate(context.Background()))
	return l
}

func newTestManager(l *ledger.Ledger, cfg *config.Config, scraper Scraper, docs DocumentGenerator, sweeper FollowUpSweeper) *Manager {
	jf := filter.NewJobFilter(filter.DefaultKeywords(), filter.DefaultTargetCompanies(), filter.DefaultGeography())
	return New(cfg, l, jf, scraper, docs, sweeper)
}

func posting(title, company string) models.JobPosting {
	return models.JobPosting{
		Title:       title,
		Company:     company,
		Location:    "New York, NY",
		Description: relevantDescription,
		URL:         "https://example.com/" + company,
	}
}

func TestRunDailySessionSubmitsUpToCap(t *testing.T) {
	l := openTestLedger(t)
	scraper := &stubScraper{jobs: []models.JobPosting{
		posting("M&A Associate", "Evercore"),
		posting("M&A Analyst", "Lazard"),
		posting("Transaction Advisory Associate", "Moelis"),
	}}
	docs := &stubDocs{}
	sweeper := &stubSweeper{}

	m := newTestManager(l, testConfig(), scraper, docs, sweeper)
	result, err := m.RunDailySession(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.JobsFound)
	assert.Equal(t, 3, result.HighPriorityJobs)
	assert.Equal(t, 2, result.ApplicationsSubmitted)
	assert.Empty(t, result.Errors)
	assert.True(t, sweeper.called)

	stats, err := l.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalApplications)

	sessions, err := l.Sessions(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, 3, sessions[0].JobsFound)
	assert.Equal(t, 2, sessions[0].ApplicationsSubmitted)
	assert.Contains(t, sessions[0].Notes, `"applications_submitted":2`)

	// The job beyond the cap is not marked seen, so it resurfaces next run.
	assert.Len(t, scraper.marked, 2)
	assert.NotContains(t, scraper.marked, "https://example.com/Moelis")
}

func TestRunDailySessionMarksOnlySubmittedSeen(t *testing.T) {
	l := openTestLedger(t)
	scraper := &stubScraper{jobs: []models.JobPosting{
		posting("M&A Associate", "Evercore"),
		posting("M&A Analyst", "Lazard"),
	}}

	cfg := testConfig()
	cfg.DailyApplicationLimit = 1

	m := newTestManager(l, cfg, scraper, &stubDocs{}, &stubSweeper{})
	result, err := m.RunDailySession(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.ApplicationsSubmitted)
	assert.Equal(t, []string{"https://example.com/Evercore"}, scraper.marked)
}

func TestRunDailySessionSkipsAlreadyApplied(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	require.NoError(t, l.Upsert(ctx, &models.ApplicationRecord{
		JobID:           models.JobID("Evercore", "M&A Associate"),
		JobTitle:        "M&A Associate",
		Company:         "Evercore",
		ApplicationDate: time.Now().UTC().Add(-30 * 24 * time.Hour),
		Status:          models.StatusSubmitted,
	}))

	scraper := &stubScraper{jobs: []models.JobPosting{posting("M&A Associate", "Evercore")}}
	docs := &stubDocs{}

	m := newTestManager(l, testConfig(), scraper, docs, &stubSweeper{})
	result, err := m.RunDailySession(ctx)
	require.NoError(t, err)

	assert.Equal(t, 0, result.ApplicationsSubmitted)
	assert.Equal(t, 0, docs.calls)
	assert.Empty(t, result.Errors)

	// The ledger already holds this posting, so it may stop resurfacing.
	assert.Equal(t, []string{"https://example.com/Evercore"}, scraper.marked)
}

func TestRunDailySessionAbortsWhenCapped(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()
	now := time.Now().UTC()

	cfg := testConfig()
	for i, company := range []string{"Centerview", "PJT Partners"} {
		require.NoError(t, l.Upsert(ctx, &models.ApplicationRecord{
			JobID:           models.JobID(company, "Analyst"),
			JobTitle:        "Analyst",
			Company:         company,
			ApplicationDate: now.Add(-time.Duration(i) * time.Minute),
			Status:          models.StatusSubmitted,
		}))
	}

	scraper := &stubScraper{jobs: []models.JobPosting{posting("M&A Associate", "Evercore")}}
	m := newTestManager(l, cfg, scraper, &stubDocs{}, &stubSweeper{})

	result, err := m.RunDailySession(ctx)
	require.NoError(t, err)

	assert.False(t, scraper.called)
	assert.Equal(t, 0, result.JobsFound)
	assert.Equal(t, 0, result.ApplicationsSubmitted)
}

func TestRunDailySessionAccumulatesPerJobErrors(t *testing.T) {
	l := openTestLedger(t)
	scraper := &stubScraper{jobs: []models.JobPosting{
		posting("M&A Associate", "Evercore"),
		posting("M&A Analyst", "Lazard"),
	}}
	docs := &stubDocs{failFor: "Evercore"}

	m := newTestManager(l, testConfig(), scraper, docs, &stubSweeper{})
	result, err := m.RunDailySession(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.ApplicationsSubmitted)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Evercore")
	assert.Contains(t, result.Errors[0], "template render failed")

	// The failed application is not marked seen and will be retried.
	assert.Equal(t, []string{"https://example.com/Lazard"}, scraper.marked)
}

func TestRunDailySessionSurvivesScraperFailure(t *testing.T) {
	l := openTestLedger(t)
	scraper := &stubScraper{err: errors.New("connection refused")}

	m := newTestManager(l, testConfig(), scraper, &stubDocs{}, &stubSweeper{})
	result, err := m.RunDailySession(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, result.JobsFound)
	assert.Equal(t, 0, result.ApplicationsSubmitted)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "scraping")

	sessions, err := l.Sessions(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}
