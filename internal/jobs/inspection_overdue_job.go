package jobs

import (
	"context"
	"log/slog"
	"time"

	"returns/internal/core/application/usecases/queries"
	"returns/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

// InspectionOverdueJob periodically sweeps delivered returns whose seller
// inspection deadline has passed. Each breach is surfaced as a WARN log line
// and the current breach count is exported as a gauge; the job never mutates
// state.
type InspectionOverdueJob struct {
	handler queries.GetOverdueInspectionsQueryHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewInspectionOverdueJob creates a job that sweeps for inspection-SLA
// breaches every minute.
func NewInspectionOverdueJob(
	handler queries.GetOverdueInspectionsQueryHandler,
	logger *slog.Logger,
) *InspectionOverdueJob {
	return &InspectionOverdueJob{
		handler: handler,
		cron:    cron.New(),
		logger:  logger.With("component", "inspection_overdue_job"),
	}
}

// Start begins the sweep on a one-minute schedule.
func (j *InspectionOverdueJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", j.sweep)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Inspection overdue job started (running every minute)")
	return nil
}

// Stop stops the sweep.
func (j *InspectionOverdueJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Inspection overdue job stopped")
}

func (j *InspectionOverdueJob) sweep() {
	ctx := context.Background()

	query, err := queries.NewGetOverdueInspectionsQuery(time.Now().UTC())
	if err != nil {
		j.logger.ErrorContext(ctx, "Inspection overdue sweep failed", "error", err)
		return
	}

	overdue, err := j.handler.Handle(ctx, query)
	if err != nil {
		j.logger.ErrorContext(ctx, "Inspection overdue sweep failed", "error", err)
		return
	}

	metrics.OverdueInspectionsGauge.Set(float64(len(overdue)))

	for _, breach := range overdue {
		j.logger.WarnContext(ctx, "Inspection deadline breached",
			"return_id", breach.ID.String(),
			"partner", breach.Partner,
			"inspect_due_at", breach.InspectDueAt,
		)
	}
}
