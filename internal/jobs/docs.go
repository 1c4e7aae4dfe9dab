// Package jobs provides scheduled background tasks for the returns
// reconciliation engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required by the service.
//
// # Available Jobs
//
// 1. InspectionOverdueJob - Runs every minute to surface delivered returns
// whose seller inspection deadline has passed
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(overdueInspectionsHandler, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The sweep uses the cron expression "* * * * *", running once per minute.
// Breach detection is read-only, so a missed tick only delays the next alert.
//
// # Error Handling
//
// Sweep failures are logged and retried on the next tick; individual breaches
// are reported as WARN log lines and mirrored in the overdue gauge.
package jobs
