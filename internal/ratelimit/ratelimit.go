package ratelimit

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"go-ma-automation/internal/ledger"
)

// Limiter gates application submissions on the ledger's daily and weekly
// counts. It only queries; it never reserves a slot, so callers submitting in
// a loop must re-check before every submission.
type Limiter struct {
	ledger *ledger.Ledger
	now    func() time.Time
}

func New(l *ledger.Ledger) *Limiter {
	return &Limiter{ledger: l, now: time.Now}
}

// NewWithClock injects the clock for tests.
func NewWithClock(l *ledger.Ledger, now func() time.Time) *Limiter {
	return &Limiter{ledger: l, now: now}
}

// CanSubmit reports whether both the daily and the weekly cap still have
// headroom.
func (r *Limiter) CanSubmit(ctx context.Context, dailyCap, weeklyCap int) (bool, error) {
	today := r.now()

	dailyCount, err := r.ledger.CountOnDate(ctx, today)
	if err != nil {
		return false, err
	}
	weeklyCount, err := r.ledger.CountSince(ctx, today.AddDate(0, 0, -7))
	if err != nil {
		return false, err
	}

	canSubmit := dailyCount < dailyCap && weeklyCount < weeklyCap
	if !canSubmit {
		log.Warn().
			Int("daily", dailyCount).Int("daily_cap", dailyCap).
			Int("weekly", weeklyCount).Int("weekly_cap", weeklyCap).
			Msg("Application limits reached")
	}
	return canSubmit, nil
}
