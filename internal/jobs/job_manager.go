package jobs

import (
	"fmt"
	"log/slog"
	"time"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	lowStockAlertJob *LowStockAlertJob
	sessionSweepJob  *SessionSweepJob
}

// NewJobManager creates a new job manager with all required jobs. A nil sessions
// leaves the sweep out, for servers without the cashier API.
func NewJobManager(
	lowStockHandler LowStockScanner,
	lowStockSchedule string,
	sessions SessionSweeper,
	sessionIdleTTL time.Duration,
	logger *slog.Logger,
) *JobManager {
	jm := &JobManager{
		lowStockAlertJob: NewLowStockAlertJob(lowStockHandler, lowStockSchedule, logger),
	}
	if sessions != nil {
		jm.sessionSweepJob = NewSessionSweepJob(sessions, sessionIdleTTL, logger)
	}
	return jm
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.lowStockAlertJob.Start(); err != nil {
		return fmt.Errorf("failed to start low stock alert job: %w", err)
	}

	if jm.sessionSweepJob != nil {
		if err := jm.sessionSweepJob.Start(); err != nil {
			// Stop already started jobs if this one fails
			jm.lowStockAlertJob.Stop()
			return fmt.Errorf("failed to start session sweep job: %w", err)
		}
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.lowStockAlertJob.Stop()
	if jm.sessionSweepJob != nil {
		jm.sessionSweepJob.Stop()
	}
}
