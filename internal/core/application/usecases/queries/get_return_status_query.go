// Package queries contains read-only operations over the reconciliation
// engine's storage. Queries bypass the domain aggregates and read projections
// directly, following the CQRS separation used by the command side.
package queries

import (
	"errors"
	"time"

	"returns/internal/core/domain/model/kernel"
	"returns/internal/pkg/guard"
)

var ErrGetReturnStatusQueryIsNotConstructed = errors.New(
	"GetReturnStatusQuery must be created via NewGetReturnStatusQuery constructor",
)

// GetReturnStatusQuery retrieves the current reconciled state of one return:
// its status, the pickup bookkeeping mirror, and the inspection deadline.
// Used by ops tooling to answer "what does the engine believe about this
// return right now".
//
// Example:
//
//	query, err := NewGetReturnStatusQuery(returnID)
//	if err != nil {
//	    return err
//	}
//	status, err := handler.Handle(ctx, query)
type GetReturnStatusQuery struct {
	returnID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetReturnStatusQuery creates a query for one return's reconciled state.
func NewGetReturnStatusQuery(returnID kernel.UUID) (GetReturnStatusQuery, error) {
	if err := returnID.Validate(); err != nil {
		return GetReturnStatusQuery{}, err
	}

	return GetReturnStatusQuery{
		returnID: returnID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetReturnStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetReturnStatusQueryIsNotConstructed)
}

// ReturnID returns the identifier of the queried return.
func (q GetReturnStatusQuery) ReturnID() kernel.UUID {
	return q.returnID
}

// GetReturnStatusQueryResponse is the reconciled view of one return.
type GetReturnStatusQueryResponse struct {
	ID              kernel.UUID
	Status          string
	StatusUpdatedAt time.Time

	// Pickup bookkeeping mirrors the newest accepted partner event.
	PickupPartner       string
	PickupPartnerStatus string
	PickupLastEventAt   *time.Time
	TrackingNumber      string
	ExternalShipmentID  string

	// InspectDueAt is the seller's inspection deadline, set once when the
	// shipment reaches delivered_to_seller.
	InspectDueAt *time.Time
}
