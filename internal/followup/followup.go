package followup

import (
	"bytes"
	"context"
	"fmt"
	"text/template"
	"time"

	"github.com/rs/zerolog/log"

	"go-ma-automation/internal/ledger"
)

// Applications between windowStart and windowEnd days old are due a
// follow-up. Past the window they are left alone for good.
const (
	windowStartDays = 5
	windowEndDays   = 7
)

// Sender delivers a rendered message. Failures surface as errors; the
// sweeper leaves the flag unset so the record is retried on the next sweep
// while still inside the window.
type Sender interface {
	Send(subject, body, recipient string) error
}

const followUpTemplate = `Dear Hiring Manager,

I hope this email finds you well. I wanted to follow up on my recent application for the {{.Title}} position at {{.Company}}.

I am very excited about the opportunity to contribute to your M&A team and would welcome the chance to discuss how my experience in financial modeling, due diligence, and deal execution can add value to your organization.

I would be happy to provide any additional information you might need or to schedule a conversation at your convenience.

Thank you for your time and consideration.

Best regards
`

// Sweeper sends delayed follow-up emails for submitted applications aged
// 5 to 7 days.
type Sweeper struct {
	ledger    *ledger.Ledger
	sender    Sender
	recipient string
	tmpl      *template.Template
	now       func() time.Time
}

func NewSweeper(l *ledger.Ledger, sender Sender, recipient string) *Sweeper {
	return &Sweeper{
		ledger:    l,
		sender:    sender,
		recipient: recipient,
		tmpl:      template.Must(template.New("followup").Parse(followUpTemplate)),
		now:       time.Now,
	}
}

// WithClock injects the clock for tests.
func (s *Sweeper) WithClock(now func() time.Time) *Sweeper {
	s.now = now
	return s
}

// Sweep finds eligible applications, sends each a follow-up, and flips the
// follow_up_sent flag only on successful delivery. Returns how many were
// sent. Send failures are logged and skipped; ledger failures abort.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	now := s.now()
	from := now.AddDate(0, 0, -windowEndDays)
	to := now.AddDate(0, 0, -windowStartDays)

	candidates, err := s.ledger.FollowUpCandidates(ctx, from, to)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, rec := range candidates {
		subject := fmt.Sprintf("Following up on %s application", rec.JobTitle)

		var body bytes.Buffer
		if err := s.tmpl.Execute(&body, struct{ Title, Company string }{rec.JobTitle, rec.Company}); err != nil {
			log.Error().Err(err).Str("job_id", rec.JobID).Msg("Failed to render follow-up email")
			continue
		}

		if err := s.sender.Send(subject, body.String(), s.recipient); err != nil {
			log.Error().Err(err).Str("job_id", rec.JobID).Msg("Failed to send follow-up email")
			continue
		}

		if err := s.ledger.MarkFollowUpSent(ctx, rec.JobID); err != nil {
			return sent, err
		}
		sent++
		log.Info().Str("title", rec.JobTitle).Str("company", rec.Company).Msg("Sent follow-up email")
	}
	return sent, nil
}
