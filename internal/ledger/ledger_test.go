package ledger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-ma-automation/internal/models"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(l.Close)
	require.NoError(t, l.Migrate(context.Background()))
	return l
}

func record(title, company string, applied time.Time) *models.ApplicationRecord {
	return &models.ApplicationRecord{
		JobID:            models.JobID(company, title),
		JobTitle:         title,
		Company:          company,
		JobURL:           "https://example.com/job",
		ApplicationDate:  applied,
		Status:           models.StatusSubmitted,
		MARelevanceScore: 75,
	}
}

func TestUpsertIdempotent(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	rec := record("M&A Analyst", "Evercore", time.Now().UTC())
	require.NoError(t, l.Upsert(ctx, rec))
	require.NoError(t, l.Upsert(ctx, rec))

	stats, err := l.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalApplications)

	records, err := l.RecentApplications(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, rec.JobID, records[0].JobID)
	assert.Equal(t, models.StatusSubmitted, records[0].Status)
	assert.Equal(t, 75.0, records[0].MARelevanceScore)
}

func TestUpsertOverwritesNotDuplicates(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	rec := record("M&A Analyst", "Evercore", time.Now().UTC())
	require.NoError(t, l.Upsert(ctx, rec))

	rec.Status = models.StatusInterview
	rec.Notes = "first round scheduled"
	require.NoError(t, l.Upsert(ctx, rec))

	records, err := l.RecentApplications(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.StatusInterview, records[0].Status)
	assert.Equal(t, "first round scheduled", records[0].Notes)
}

func TestHasApplied(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	require.NoError(t, l.Upsert(ctx, record("M&A Analyst", "Evercore", time.Now().UTC())))

	applied, err := l.HasApplied(ctx, "M&A Analyst", "Evercore")
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = l.HasApplied(ctx, "M&A Analyst", "Lazard")
	require.NoError(t, err)
	assert.False(t, applied)

	applied, err = l.HasApplied(ctx, "M&A Associate", "Evercore")
	require.NoError(t, err)
	assert.False(t, applied)
}

func TestCounts(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, l.Upsert(ctx, record("Analyst A", "Evercore", now)))
	require.NoError(t, l.Upsert(ctx, record("Analyst B", "Lazard", now)))
	require.NoError(t, l.Upsert(ctx, record("Analyst C", "Moelis", now.AddDate(0, 0, -3))))
	require.NoError(t, l.Upsert(ctx, record("Analyst D", "KKR", now.AddDate(0, 0, -10))))

	today, err := l.CountOnDate(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 2, today)

	weekly, err := l.CountSince(ctx, now.AddDate(0, 0, -7))
	require.NoError(t, err)
	assert.Equal(t, 3, weekly)
}

func TestStatistics(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()
	now := time.Now().UTC()

	recs := []*models.ApplicationRecord{
		record("Analyst A", "Evercore", now),
		record("Analyst B", "Evercore", now),
		record("Analyst C", "Lazard", now),
		record("Analyst D", "KKR", now),
	}
	recs[1].Status = models.StatusResponded
	recs[2].Status = models.StatusInterview
	recs[3].Status = models.StatusRejected
	for _, rec := range recs {
		require.NoError(t, l.Upsert(ctx, rec))
	}

	stats, err := l.Statistics(ctx)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.TotalApplications)
	assert.Equal(t, 1, stats.StatusBreakdown[models.StatusSubmitted])
	assert.Equal(t, 1, stats.StatusBreakdown[models.StatusResponded])
	assert.Equal(t, 1, stats.StatusBreakdown[models.StatusInterview])
	assert.Equal(t, 1, stats.StatusBreakdown[models.StatusRejected])
	// (responded + interview) / total = 2/4
	assert.Equal(t, 50.0, stats.ResponseRate)
	assert.Equal(t, 4, stats.RecentApplications)

	require.NotEmpty(t, stats.TopCompanies)
	assert.Equal(t, "Evercore", stats.TopCompanies[0].Company)
	assert.Equal(t, 2, stats.TopCompanies[0].Count)
}

func TestStatisticsEmptyLedger(t *testing.T) {
	l := openTestLedger(t)

	stats, err := l.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalApplications)
	assert.Equal(t, 0.0, stats.ResponseRate)
	assert.Empty(t, stats.TopCompanies)
}

func TestFollowUpCandidates(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()
	now := time.Now().UTC()

	eligible := record("Analyst A", "Evercore", now.AddDate(0, 0, -6))
	tooRecent := record("Analyst B", "Lazard", now.AddDate(0, 0, -2))
	tooOld := record("Analyst C", "Moelis", now.AddDate(0, 0, -9))
	alreadySent := record("Analyst D", "KKR", now.AddDate(0, 0, -6))
	alreadySent.FollowUpSent = true
	notSubmitted := record("Analyst E", "Blackstone", now.AddDate(0, 0, -6))
	notSubmitted.Status = models.StatusResponded

	for _, rec := range []*models.ApplicationRecord{eligible, tooRecent, tooOld, alreadySent, notSubmitted} {
		require.NoError(t, l.Upsert(ctx, rec))
	}

	candidates, err := l.FollowUpCandidates(ctx, now.AddDate(0, 0, -7), now.AddDate(0, 0, -5))
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, eligible.JobID, candidates[0].JobID)
}

func TestMarkFollowUpSent(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()
	now := time.Now().UTC()

	rec := record("Analyst A", "Evercore", now.AddDate(0, 0, -6))
	require.NoError(t, l.Upsert(ctx, rec))
	require.NoError(t, l.MarkFollowUpSent(ctx, rec.JobID))

	candidates, err := l.FollowUpCandidates(ctx, now.AddDate(0, 0, -7), now.AddDate(0, 0, -5))
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestUpdateStatus(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	rec := record("Analyst A", "Evercore", time.Now().UTC())
	require.NoError(t, l.Upsert(ctx, rec))
	require.NoError(t, l.UpdateStatus(ctx, rec.JobID, models.StatusResponded, time.Now().UTC()))

	records, err := l.RecentApplications(ctx, 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.StatusResponded, records[0].Status)
}

func TestAppendSession(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, l.AppendSession(ctx, models.SessionStats{
			SessionDate:           time.Now().UTC(),
			JobsFound:             10 + i,
			ApplicationsSubmitted: i,
			Notes:                 "{}",
		}))
	}

	sessions, err := l.Sessions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	// Newest first.
	assert.Equal(t, 12, sessions[0].JobsFound)
}

func TestJobID(t *testing.T) {
	assert.Equal(t, "Goldman_Sachs_M&A_Analyst", models.JobID("Goldman Sachs", "M&A Analyst"))
	// Case preserved, whitespace collapsed.
	assert.Equal(t, "Acme_Corp_VP_Deals", models.JobID("Acme  Corp", "VP Deals"))
}
