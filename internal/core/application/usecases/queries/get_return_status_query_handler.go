package queries

import (
	"context"

	"returns/internal/core/domain/model/kernel"
	"returns/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetReturnStatusQueryHandler reads one return's reconciled state straight
// from the returns projection.
type GetReturnStatusQueryHandler struct {
	db *gorm.DB
}

// NewGetReturnStatusQueryHandler creates a handler for return-status queries.
func NewGetReturnStatusQueryHandler(db *gorm.DB) GetReturnStatusQueryHandler {
	return GetReturnStatusQueryHandler{db: db}
}

// Handle executes the query. Returns errs.ObjectNotFoundError when the
// return does not exist.
func (h GetReturnStatusQueryHandler) Handle(
	ctx context.Context,
	query GetReturnStatusQuery,
) (GetReturnStatusQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetReturnStatusQueryResponse{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			status,
			status_updated_at,
			pickup_partner,
			pickup_partner_status,
			pickup_last_event_at,
			pickup_latest_tracking_number,
			pickup_latest_external_shipment_id,
			sla_inspect_due_at
		FROM returns
		WHERE id = ?
	`, query.ReturnID().Bytes()).Rows()
	if err != nil {
		return GetReturnStatusQueryResponse{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if rowsErr := rows.Err(); rowsErr != nil {
			return GetReturnStatusQueryResponse{}, rowsErr
		}
		return GetReturnStatusQueryResponse{}, errs.NewObjectNotFoundError("return", query.ReturnID().String())
	}

	var resp GetReturnStatusQueryResponse
	var id uuid.UUID

	err = rows.Scan(
		&id,
		&resp.Status,
		&resp.StatusUpdatedAt,
		&resp.PickupPartner,
		&resp.PickupPartnerStatus,
		&resp.PickupLastEventAt,
		&resp.TrackingNumber,
		&resp.ExternalShipmentID,
		&resp.InspectDueAt,
	)
	if err != nil {
		return GetReturnStatusQueryResponse{}, err
	}

	returnID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetReturnStatusQueryResponse{}, err
	}
	resp.ID = returnID

	return resp, rows.Err()
}
