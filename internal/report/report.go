package report

import (
	"fmt"
	"strings"
	"time"

	"go-ma-automation/internal/models"
)

// BuildDaily renders the text activity report shown after a session and
// pushed to Telegram when configured.
func BuildDaily(stats models.Statistics, result models.SessionResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "M&A Job Application Daily Report - %s\n\n", time.Now().Format("2006-01-02"))

	fmt.Fprintf(&b, "📊 Overall Statistics:\n")
	fmt.Fprintf(&b, "• Total Applications: %d\n", stats.TotalApplications)
	fmt.Fprintf(&b, "• Response Rate: %.2f%%\n", stats.ResponseRate)
	fmt.Fprintf(&b, "• Recent Activity (7 days): %d applications\n\n", stats.RecentApplications)

	fmt.Fprintf(&b, "📈 Session Results:\n")
	fmt.Fprintf(&b, "• Jobs Found: %d\n", result.JobsFound)
	fmt.Fprintf(&b, "• High Priority Jobs: %d\n", result.HighPriorityJobs)
	fmt.Fprintf(&b, "• Applications Submitted: %d\n\n", result.ApplicationsSubmitted)

	if len(stats.StatusBreakdown) > 0 {
		fmt.Fprintf(&b, "Status Breakdown:\n")
		for _, status := range []models.ApplicationStatus{
			models.StatusSubmitted, models.StatusResponded,
			models.StatusInterview, models.StatusRejected,
		} {
			if count, ok := stats.StatusBreakdown[status]; ok {
				fmt.Fprintf(&b, "• %s: %d\n", capitalize(string(status)), count)
			}
		}
		b.WriteString("\n")
	}

	if len(stats.TopCompanies) > 0 {
		fmt.Fprintf(&b, "🏢 Top Target Companies:\n")
		top := stats.TopCompanies
		if len(top) > 5 {
			top = top[:5]
		}
		for _, cc := range top {
			fmt.Fprintf(&b, "• %s: %d applications\n", cc.Company, cc.Count)
		}
	}

	if len(result.Errors) > 0 {
		fmt.Fprintf(&b, "\n⚠️ Errors Encountered: %d\n", len(result.Errors))
		shown := result.Errors
		if len(shown) > 3 {
			shown = shown[:3]
		}
		for _, e := range shown {
			fmt.Fprintf(&b, "• %s\n", e)
		}
	}

	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
