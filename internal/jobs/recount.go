// Package jobs runs background maintenance on a cron schedule.
//
// The recount job recomputes every participant's unread counter from messages
// and read receipts. A send whose counter update failed leaves the counter
// behind; the next run repairs it. The same run purges read notifications
// older than the retention period and expired idempotency records.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/adhocore/gronx"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/tbourn/go-social-backend/internal/observability"
	"github.com/tbourn/go-social-backend/internal/repo"
	"github.com/tbourn/go-social-backend/internal/services"
)

// DefaultCron runs the recount every fifteen minutes.
const DefaultCron = "*/15 * * * *"

// ErrInvalidCron is returned for a schedule gronx cannot parse.
var ErrInvalidCron = errors.New("invalid cron expression")

// Result summarizes one run.
type Result struct {
	Participants int64 // unread counters rewritten
	Purged       int64 // read notifications removed
	Expired      int64 // idempotency records past their replay window
}

// Recounter schedules and runs the recount job.
type Recounter struct {
	DB            *gorm.DB
	Notifications *services.NotificationService
	Cron          string

	// Retention is the age past which read notifications are purged; zero
	// disables the purge.
	Retention time.Duration

	// Now is the clock used for scheduling; nil means time.Now.
	Now func() time.Time

	mu      sync.Mutex
	running bool
}

// NewRecounter validates the schedule and returns a Recounter.
func NewRecounter(db *gorm.DB, notifs *services.NotificationService, cron string, retention time.Duration) (*Recounter, error) {
	if cron == "" {
		cron = DefaultCron
	}
	if !gronx.New().IsValid(cron) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCron, cron)
	}
	return &Recounter{DB: db, Notifications: notifs, Cron: cron, Retention: retention}, nil
}

func (r *Recounter) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Start launches the schedule loop and returns a function that stops it.
func (r *Recounter) Start(ctx context.Context) context.CancelFunc {
	ctx, cancel := context.WithCancel(ctx)
	zerolog.Ctx(ctx).Info().Str("cron", r.Cron).Msg("recount job scheduled")
	go r.scheduleLoop(ctx)
	return cancel
}

func (r *Recounter) scheduleLoop(ctx context.Context) {
	lg := zerolog.Ctx(ctx)
	for {
		next, err := gronx.NextTickAfter(r.Cron, r.now(), false)
		if err != nil {
			lg.Error().Err(err).Str("cron", r.Cron).Msg("recount next tick failed")
			select {
			case <-time.After(30 * time.Second):
			case <-ctx.Done():
				return
			}
			continue
		}

		wait := next.Sub(r.now())
		if wait < 0 {
			wait = 0
		}
		select {
		case <-time.After(wait):
			r.runJob(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// runJob executes one run unless another is still in progress.
func (r *Recounter) runJob(ctx context.Context) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		observability.JobRuns.WithLabelValues("recount", "skipped").Inc()
		return
	}
	r.running = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	if _, err := r.RunOnce(ctx); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("recount run failed")
	}
}

// RunOnce recounts unread counters, purges old read notifications and drops
// expired idempotency records.
func (r *Recounter) RunOnce(ctx context.Context) (Result, error) {
	lg := zerolog.Ctx(ctx)
	start := time.Now()
	var res Result

	n, err := repo.RecountUnread(ctx, r.DB)
	if err != nil {
		observability.JobRuns.WithLabelValues("recount", "error").Inc()
		return res, fmt.Errorf("recount unread: %w", err)
	}
	res.Participants = n
	observability.JobRuns.WithLabelValues("recount", "ok").Inc()

	if r.Retention > 0 && r.Notifications != nil {
		purged, err := r.Notifications.PurgeRead(ctx, r.Retention)
		if err != nil {
			observability.JobRuns.WithLabelValues("retention", "error").Inc()
			return res, fmt.Errorf("purge notifications: %w", err)
		}
		res.Purged = purged
		observability.JobRuns.WithLabelValues("retention", "ok").Inc()
	}

	expired, err := repo.PurgeExpiredIdempotency(ctx, r.DB, r.now().UTC())
	if err != nil {
		observability.JobRuns.WithLabelValues("idempotency", "error").Inc()
		return res, fmt.Errorf("purge idempotency: %w", err)
	}
	res.Expired = expired
	observability.JobRuns.WithLabelValues("idempotency", "ok").Inc()

	lg.Info().
		Int64("participants", res.Participants).
		Int64("purged", res.Purged).
		Int64("expired", res.Expired).
		Dur("took", time.Since(start)).
		Msg("recount run done")
	return res, nil
}
