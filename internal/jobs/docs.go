// Package jobs provides scheduled background tasks for the restaurant service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
// Schedules have six fields, seconds first.
//
// # Available Jobs
//
// 1. LowStockAlertJob - Scans inventory (every five minutes by default) and broadcasts the
// ingredients at or below their minimum stock to kitchen displays
// 2. SessionSweepJob - Runs every minute to expire cashier sessions idle for longer than the TTL
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(lowStockHandler, "0 */5 * * * *", sessionStore, 30*time.Minute, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - The low stock job logs failures and tries again on the next tick
// - Failed job starts will stop any already running jobs
package jobs
