package jobs

import (
	"fmt"
	"log/slog"

	"returns/internal/core/application/usecases/queries"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	inspectionOverdueJob *InspectionOverdueJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	overdueInspectionsHandler queries.GetOverdueInspectionsQueryHandler,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		inspectionOverdueJob: NewInspectionOverdueJob(overdueInspectionsHandler, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.inspectionOverdueJob.Start(); err != nil {
		return fmt.Errorf("failed to start inspection overdue job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.inspectionOverdueJob.Stop()
}
