package jobs

import (
	"context"
	"log/slog"

	"pos/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultLowStockSchedule runs the scan every five minutes.
const DefaultLowStockSchedule = "0 */5 * * * *"

// LowStockScanner publishes the ingredients at or below their minimum stock.
type LowStockScanner interface {
	Handle(ctx context.Context, cmd commands.PublishLowStockCommand) ([]string, error)
}

// LowStockAlertJob periodically tells kitchen displays which ingredients run low.
type LowStockAlertJob struct {
	handler  LowStockScanner
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewLowStockAlertJob creates the job. schedule is a six-field cron expression
// (with seconds); empty means DefaultLowStockSchedule.
func NewLowStockAlertJob(handler LowStockScanner, schedule string, logger *slog.Logger) *LowStockAlertJob {
	if schedule == "" {
		schedule = DefaultLowStockSchedule
	}
	return &LowStockAlertJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "low_stock_alert_job"),
	}
}

// Start schedules the scan.
func (j *LowStockAlertJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Low stock alert job started", "schedule", j.schedule)
	return nil
}

// Run performs one scan.
func (j *LowStockAlertJob) Run(ctx context.Context) {
	items, err := j.handler.Handle(ctx, commands.NewPublishLowStockCommand())
	if err != nil {
		j.logger.ErrorContext(ctx, "Low stock alert job failed", "error", err)
		return
	}
	if len(items) > 0 {
		j.logger.InfoContext(ctx, "Low stock published", "items", items)
	}
}

// Stop stops the job.
func (j *LowStockAlertJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Low stock alert job stopped")
}
