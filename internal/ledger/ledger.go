package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"go-ma-automation/internal/models"
)

// Ledger is the durable application record store. One row per job applied
// to, keyed by the deterministic job_id, plus an append-only session log.
type Ledger struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path. WAL mode lets the
// dashboard server read while a session writes.
func Open(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening ledger database: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("configuring ledger database: %w", err)
		}
	}
	return &Ledger{db: db}, nil
}

func (l *Ledger) Close() { _ = l.db.Close() }

func (l *Ledger) DB() *sql.DB { return l.db }

func (l *Ledger) Migrate(ctx context.Context) error {
	_, err := l.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS applications (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	job_id TEXT UNIQUE,
	job_title TEXT,
	company TEXT,
	job_url TEXT,
	application_date TIMESTAMP,
	status TEXT,
	response_date TIMESTAMP,
	notes TEXT,
	follow_up_sent BOOLEAN DEFAULT FALSE,
	ma_relevance_score REAL,
	resume_path TEXT,
	cover_letter_path TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS job_search_sessions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_date DATE,
	jobs_found INTEGER,
	applications_submitted INTEGER,
	response_rate REAL,
	notes TEXT
);
`)
	if err != nil {
		return fmt.Errorf("migrating ledger schema: %w", err)
	}
	return nil
}

// Upsert inserts or replaces the record keyed by job_id. A resubmission
// overwrites the existing row, it never duplicates it.
func (l *Ledger) Upsert(ctx context.Context, rec *models.ApplicationRecord) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO applications
			(job_id, job_title, company, job_url, application_date, status,
			 response_date, notes, follow_up_sent, ma_relevance_score,
			 resume_path, cover_letter_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(job_id) DO UPDATE SET
			job_title=excluded.job_title,
			company=excluded.company,
			job_url=excluded.job_url,
			application_date=excluded.application_date,
			status=excluded.status,
			response_date=excluded.response_date,
			notes=excluded.notes,
			follow_up_sent=excluded.follow_up_sent,
			ma_relevance_score=excluded.ma_relevance_score,
			resume_path=excluded.resume_path,
			cover_letter_path=excluded.cover_letter_path
	`, rec.JobID, rec.JobTitle, rec.Company, rec.JobURL, rec.ApplicationDate,
		string(rec.Status), rec.ResponseDate, rec.Notes, rec.FollowUpSent,
		rec.MARelevanceScore, rec.ResumePath, rec.CoverLetterPath)
	if err != nil {
		return fmt.Errorf("upserting application %s: %w", rec.JobID, err)
	}
	return nil
}

// HasApplied reports whether a record exists with exactly this title and
// company. Lookup is on the pair, not on job_id.
func (l *Ledger) HasApplied(ctx context.Context, title, company string) (bool, error) {
	var count int
	err := l.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM applications WHERE job_title = ? AND company = ?`,
		title, company).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking prior application: %w", err)
	}
	return count > 0, nil
}

// CountOnDate counts applications whose application_date falls on the given
// calendar day.
func (l *Ledger) CountOnDate(ctx context.Context, day time.Time) (int, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var count int
	err := l.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM applications WHERE application_date >= ? AND application_date < ?`,
		start, end).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting applications on date: %w", err)
	}
	return count, nil
}

// CountSince counts applications submitted after the cutoff.
func (l *Ledger) CountSince(ctx context.Context, cutoff time.Time) (int, error) {
	var count int
	err := l.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM applications WHERE application_date > ?`, cutoff).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting applications since cutoff: %w", err)
	}
	return count, nil
}

// Statistics aggregates the ledger for reports and the dashboard.
func (l *Ledger) Statistics(ctx context.Context) (models.Statistics, error) {
	stats := models.Statistics{
		StatusBreakdown: make(map[models.ApplicationStatus]int),
	}

	if err := l.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM applications`).Scan(&stats.TotalApplications); err != nil {
		return stats, fmt.Errorf("counting applications: %w", err)
	}

	rows, err := l.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM applications GROUP BY status`)
	if err != nil {
		return stats, fmt.Errorf("reading status breakdown: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return stats, fmt.Errorf("scanning status breakdown: %w", err)
		}
		stats.StatusBreakdown[models.ApplicationStatus(status)] = count
	}
	if err := rows.Err(); err != nil {
		return stats, fmt.Errorf("reading status breakdown: %w", err)
	}

	responded := stats.StatusBreakdown[models.StatusResponded] +
		stats.StatusBreakdown[models.StatusInterview]
	if stats.TotalApplications > 0 {
		stats.ResponseRate = float64(responded) / float64(stats.TotalApplications) * 100
	}

	weekAgo := time.Now().AddDate(0, 0, -7)
	if recent, err := l.CountSince(ctx, weekAgo); err != nil {
		return stats, err
	} else {
		stats.RecentApplications = recent
	}

	companyRows, err := l.db.QueryContext(ctx, `
		SELECT company, COUNT(*) as count
		FROM applications
		GROUP BY company
		ORDER BY count DESC
		LIMIT 10`)
	if err != nil {
		return stats, fmt.Errorf("reading top companies: %w", err)
	}
	defer companyRows.Close()
	for companyRows.Next() {
		var cc models.CompanyCount
		if err := companyRows.Scan(&cc.Company, &cc.Count); err != nil {
			return stats, fmt.Errorf("scanning top companies: %w", err)
		}
		stats.TopCompanies = append(stats.TopCompanies, cc)
	}
	if err := companyRows.Err(); err != nil {
		return stats, fmt.Errorf("reading top companies: %w", err)
	}

	return stats, nil
}

// AppendSession writes one session summary row. Insert-only, never updated.
func (l *Ledger) AppendSession(ctx context.Context, stats models.SessionStats) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO job_search_sessions
			(session_date, jobs_found, applications_submitted, response_rate, notes)
		VALUES (?, ?, ?, ?, ?)`,
		stats.SessionDate, stats.JobsFound, stats.ApplicationsSubmitted,
		stats.ResponseRate, stats.Notes)
	if err != nil {
		return fmt.Errorf("appending session stats: %w", err)
	}
	return nil
}

// FollowUpCandidates returns submitted applications whose application_date
// falls in [from, to] and that have not yet been followed up.
func (l *Ledger) FollowUpCandidates(ctx context.Context, from, to time.Time) ([]models.ApplicationRecord, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT job_id, job_title, company, job_url, application_date, status,
		       notes, follow_up_sent, ma_relevance_score
		FROM applications
		WHERE application_date BETWEEN ? AND ?
		  AND follow_up_sent = FALSE
		  AND status = ?`,
		from, to, string(models.StatusSubmitted))
	if err != nil {
		return nil, fmt.Errorf("querying follow-up candidates: %w", err)
	}
	defer rows.Close()

	var records []models.ApplicationRecord
	for rows.Next() {
		var rec models.ApplicationRecord
		var status string
		if err := rows.Scan(&rec.JobID, &rec.JobTitle, &rec.Company, &rec.JobURL,
			&rec.ApplicationDate, &status, &rec.Notes, &rec.FollowUpSent,
			&rec.MARelevanceScore); err != nil {
			return nil, fmt.Errorf("scanning follow-up candidate: %w", err)
		}
		rec.Status = models.ApplicationStatus(status)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("querying follow-up candidates: %w", err)
	}
	return records, nil
}

// MarkFollowUpSent flips the follow_up_sent flag for one record.
func (l *Ledger) MarkFollowUpSent(ctx context.Context, jobID string) error {
	_, err := l.db.ExecContext(ctx,
		`UPDATE applications SET follow_up_sent = TRUE WHERE job_id = ?`, jobID)
	if err != nil {
		return fmt.Errorf("marking follow-up sent for %s: %w", jobID, err)
	}
	return nil
}

// UpdateStatus records an operator-driven status change (responded,
// rejected, interview) with the time the response landed.
func (l *Ledger) UpdateStatus(ctx context.Context, jobID string, status models.ApplicationStatus, responseDate time.Time) error {
	_, err := l.db.ExecContext(ctx,
		`UPDATE applications SET status = ?, response_date = ? WHERE job_id = ?`,
		string(status), responseDate, jobID)
	if err != nil {
		return fmt.Errorf("updating status for %s: %w", jobID, err)
	}
	return nil
}

// RecentApplications returns the newest applications for the dashboard.
func (l *Ledger) RecentApplications(ctx context.Context, limit int) ([]models.ApplicationRecord, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT job_id, job_title, company, job_url, application_date, status,
		       notes, follow_up_sent, ma_relevance_score
		FROM applications
		ORDER BY application_date DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent applications: %w", err)
	}
	defer rows.Close()

	var records []models.ApplicationRecord
	for rows.Next() {
		var rec models.ApplicationRecord
		var status string
		if err := rows.Scan(&rec.JobID, &rec.JobTitle, &rec.Company, &rec.JobURL,
			&rec.ApplicationDate, &status, &rec.Notes, &rec.FollowUpSent,
			&rec.MARelevanceScore); err != nil {
			return nil, fmt.Errorf("scanning application: %w", err)
		}
		rec.Status = models.ApplicationStatus(status)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("querying recent applications: %w", err)
	}
	return records, nil
}

// Sessions returns the most recent session summary rows.
func (l *Ledger) Sessions(ctx context.Context, limit int) ([]models.SessionStats, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT session_date, jobs_found, applications_submitted, response_rate, notes
		FROM job_search_sessions
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.SessionStats
	for rows.Next() {
		var s models.SessionStats
		if err := rows.Scan(&s.SessionDate, &s.JobsFound, &s.ApplicationsSubmitted,
			&s.ResponseRate, &s.Notes); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	return sessions, nil
}
