package queries

import (
	"context"

	"returns/internal/core/domain/model/kernel"
	"returns/internal/core/domain/model/retstatus"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOverdueInspectionsQueryHandler reads inspection-SLA breaches from the
// returns projection. A return is overdue when it is still in
// delivered_to_seller past its inspection deadline: the inspection flow sets
// a new status when it runs, so lingering in delivered means nobody inspected.
type GetOverdueInspectionsQueryHandler struct {
	db *gorm.DB
}

// NewGetOverdueInspectionsQueryHandler creates a handler for overdue-inspection queries.
func NewGetOverdueInspectionsQueryHandler(db *gorm.DB) GetOverdueInspectionsQueryHandler {
	return GetOverdueInspectionsQueryHandler{db: db}
}

// Handle executes the query. Results are ordered by deadline, most overdue first.
func (h GetOverdueInspectionsQueryHandler) Handle(
	ctx context.Context,
	query GetOverdueInspectionsQuery,
) ([]GetOverdueInspectionsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	overdue := make([]GetOverdueInspectionsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			pickup_partner,
			sla_inspect_due_at
		FROM returns
		WHERE status = ?
		  AND sla_inspect_due_at IS NOT NULL
		  AND sla_inspect_due_at < ?
		ORDER BY sla_inspect_due_at
	`, retstatus.DeliveredToSeller.String(), query.AsOf()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetOverdueInspectionsQueryResponse
		var id uuid.UUID

		err = rows.Scan(
			&id,
			&resp.Partner,
			&resp.InspectDueAt,
		)
		if err != nil {
			return nil, err
		}

		returnID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = returnID

		overdue = append(overdue, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return overdue, nil
}
