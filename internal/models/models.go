package models

import (
	"regexp"
	"time"
)

type ApplicationStatus string

const (
	StatusSubmitted ApplicationStatus = "submitted"
	StatusResponded ApplicationStatus = "responded"
	StatusRejected  ApplicationStatus = "rejected"
	StatusInterview ApplicationStatus = "interview"
)

// JobPosting is a raw listing as delivered by a scraper source.
type JobPosting struct {
	Title           string `json:"title"`
	Company         string `json:"company"`
	Location        string `json:"location"`
	Description     string `json:"description"`
	URL             string `json:"url"`
	Source          string `json:"source"`
	PostedDate      string `json:"posted_date,omitempty"`
	JobType         string `json:"job_type"`
	ExperienceLevel string `json:"experience_level"`
}

// ScoredJob is a posting annotated by the filter pipeline. Recomputed every
// session, never persisted.
type ScoredJob struct {
	JobPosting
	MAScore         float64     `json:"ma_score"`
	IsTargetCompany bool        `json:"is_target_company"`
	SalaryRange     SalaryRange `json:"salary_range"`
	PriorityScore   float64     `json:"priority_score"`
	PriorityRank    int         `json:"priority_rank"`
}

// SalaryRange is (0, 0) when no salary could be extracted.
type SalaryRange struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

// ApplicationRecord is one row in the applications ledger.
type ApplicationRecord struct {
	JobID            string            `json:"job_id"`
	JobTitle         string            `json:"job_title"`
	Company          string            `json:"company"`
	JobURL           string            `json:"job_url"`
	ApplicationDate  time.Time         `json:"application_date"`
	Status           ApplicationStatus `json:"status"`
	ResponseDate     *time.Time        `json:"response_date,omitempty"`
	Notes            string            `json:"notes"`
	FollowUpSent     bool              `json:"follow_up_sent"`
	MARelevanceScore float64           `json:"ma_relevance_score"`
	ResumePath       string            `json:"resume_path,omitempty"`
	CoverLetterPath  string            `json:"cover_letter_path,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
}

// SessionStats is the append-only per-run summary row.
type SessionStats struct {
	SessionDate           time.Time `json:"session_date"`
	JobsFound             int       `json:"jobs_found"`
	ApplicationsSubmitted int       `json:"applications_submitted"`
	ResponseRate          float64   `json:"response_rate"`
	Notes                 string    `json:"notes"`
}

// SessionResult is the sole externally observable outcome of one orchestrator
// run. It is produced even when the run degrades partway.
type SessionResult struct {
	Date                  time.Time `json:"date"`
	JobsFound             int       `json:"jobs_found"`
	ApplicationsSubmitted int       `json:"applications_submitted"`
	HighPriorityJobs      int       `json:"high_priority_jobs"`
	Errors                []string  `json:"errors"`
}

// Statistics aggregates the ledger for reports and the dashboard.
type Statistics struct {
	TotalApplications  int                       `json:"total_applications"`
	StatusBreakdown    map[ApplicationStatus]int `json:"status_breakdown"`
	ResponseRate       float64                   `json:"response_rate"`
	RecentApplications int                       `json:"recent_applications"`
	TopCompanies       []CompanyCount            `json:"top_companies"`
}

type CompanyCount struct {
	Company string `json:"company"`
	Count   int    `json:"count"`
}

var whitespaceRegex = regexp.MustCompile(`\s+`)

// JobID builds the deterministic ledger key for a company/title pair.
// Whitespace collapses to underscores, case is preserved.
func JobID(company, title string) string {
	c := whitespaceRegex.ReplaceAllString(company, "_")
	t := whitespaceRegex.ReplaceAllString(title, "_")
	return c + "_" + t
}
