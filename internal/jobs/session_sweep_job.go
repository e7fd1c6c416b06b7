package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultSessionIdleTTL is how long an untouched cashier session survives.
const DefaultSessionIdleTTL = 30 * time.Minute

// SessionSweeper drops sessions idle for longer than ttl.
type SessionSweeper interface {
	Sweep(ttl time.Duration) int
}

// SessionSweepJob expires idle cashier sessions once a minute.
type SessionSweepJob struct {
	sessions SessionSweeper
	ttl      time.Duration
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewSessionSweepJob(sessions SessionSweeper, ttl time.Duration, logger *slog.Logger) *SessionSweepJob {
	if ttl <= 0 {
		ttl = DefaultSessionIdleTTL
	}
	return &SessionSweepJob{
		sessions: sessions,
		ttl:      ttl,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "session_sweep_job"),
	}
}

// Start schedules the sweep at the top of every minute.
func (j *SessionSweepJob) Start() error {
	if _, err := j.cron.AddFunc("0 * * * * *", j.Run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Session sweep job started", "idle_ttl", j.ttl.String())
	return nil
}

// Run performs one sweep.
func (j *SessionSweepJob) Run() {
	if n := j.sessions.Sweep(j.ttl); n > 0 {
		j.logger.InfoContext(context.Background(), "Idle cashier sessions expired", "count", n)
	}
}

// Stop stops the job.
func (j *SessionSweepJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Session sweep job stopped")
}
