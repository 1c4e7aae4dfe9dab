package ports

import (
	"context"

	"returns/internal/core/domain/model/shipment"
)

// ShipmentRepository defines the persistence contract for return-shipment
// bookings and their append-only webhook event logs.
type ShipmentRepository interface {
	// GetByPartnerKey resolves the booking a webhook event refers to.
	// The tracking number is tried first, then the external shipment id,
	// both scoped to the partner. Returns errs.ObjectNotFoundError when
	// neither key matches; callers treat that as a normal outcome.
	GetByPartnerKey(ctx context.Context, partner, trackingNumber, externalShipmentID string) (*shipment.ReturnShipment, error)

	// AppendEventIfAbsent persists the aggregate's pending event with a single
	// conditional insert keyed on (shipment id, event id). Returns false when
	// the event id is already present in the shipment's log — the insert and
	// the existence check are one atomic operation, so two concurrent
	// deliveries of the same event cannot both observe "absent".
	AppendEventIfAbsent(ctx context.Context, aggregate *shipment.ReturnShipment) (bool, error)

	// Update persists the booking's webhook bookkeeping fields
	// (status, lastWebhookAt, updatedAt). Never rewrites the event log.
	Update(ctx context.Context, aggregate *shipment.ReturnShipment) error
}
