package returncase

import (
	"errors"
	"fmt"
	"time"

	"returns/internal/core/domain/model/kernel"
	"returns/internal/core/domain/model/retstatus"
)

// WebhookActor is the synthetic actor recorded on audit entries written by
// the partner-webhook reconciliation engine.
const WebhookActor = "system/partner-webhook"

var (
	// ErrReturnIsNotConstructed is returned when a Return instance was not created
	// through NewReturn or RestoreReturn. This ensures all returns are properly validated.
	ErrReturnIsNotConstructed = errors.New("Return must be created via NewReturn or RestoreReturn")
)

// Pickup holds the reverse-logistics bookkeeping for the return's pickup leg.
// It mirrors the latest accepted partner event, independent of whether that
// event was allowed to move the return's status.
type Pickup struct {
	// LastEventAt is the partner-reported time of the newest accepted event.
	// It only ever advances; an older event never moves it backward.
	LastEventAt *time.Time

	// Partner is the reverse-logistics partner key, e.g. "everestx".
	Partner string

	// PartnerStatus is the raw partner status string of the newest accepted event.
	PartnerStatus string

	// ActiveBookingID references the shipment booking that produced the newest event.
	ActiveBookingID *kernel.UUID

	// LatestTrackingNumber and LatestExternalShipmentID identify the shipment
	// on the partner's side.
	LatestTrackingNumber     string
	LatestExternalShipmentID string
}

// Event is one append-only audit entry on the return.
type Event struct {
	At    time.Time
	Actor string
	Type  string
	Meta  string
}

// Snapshot captures the state a Return was loaded with. The repository's
// optimistic update is conditioned on the row still matching this snapshot,
// so two concurrent webhook deliveries cannot both pass the guards against
// a stale read.
type Snapshot struct {
	Status            retstatus.Status
	PickupLastEventAt *time.Time
}

// Return represents a customer return case. It is the aggregate root the
// reconciliation engine mutates: status, status timestamp, pickup bookkeeping,
// the inspection SLA deadline, and the append-only audit log.
//
// Return maintains these invariants:
//   - status is always a valid member of the internal vocabulary
//   - pickup.LastEventAt only advances forward in time
//   - the inspection deadline is set at most once per delivered transition
//   - audit entries are append-only
type Return struct {
	id              kernel.UUID
	status          retstatus.Status
	statusUpdatedAt time.Time
	pickup          Pickup
	inspectDueAt    *time.Time

	// pendingEvents are audit entries appended since load; the repository
	// persists them on update and never rewrites existing entries.
	pendingEvents []Event

	snapshot      Snapshot
	isConstructed bool
}

// NewReturn creates a Return in its initial state. In production the return
// is created by the (out-of-scope) return-request flow; this constructor
// exists for that flow's adapter and for tests.
func NewReturn(id kernel.UUID, status retstatus.Status, statusUpdatedAt time.Time) (*Return, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}

	ret := &Return{
		id:              id,
		status:          status,
		statusUpdatedAt: statusUpdatedAt,
		isConstructed:   true,
	}
	ret.snapshot = ret.currentSnapshot()
	return ret, nil
}

// RestoreReturn reconstructs a Return from persistence and captures the
// load-time snapshot used for the optimistic update.
func RestoreReturn(
	id kernel.UUID,
	status retstatus.Status,
	statusUpdatedAt time.Time,
	pickup Pickup,
	inspectDueAt *time.Time,
) (*Return, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}

	ret := &Return{
		id:              id,
		status:          status,
		statusUpdatedAt: statusUpdatedAt,
		pickup:          pickup,
		inspectDueAt:    inspectDueAt,
		isConstructed:   true,
	}
	ret.snapshot = ret.currentSnapshot()
	return ret, nil
}

// Validate ensures the Return instance was properly constructed.
func (r *Return) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrReturnIsNotConstructed
	}
	return nil
}

// IsEqual compares two returns by their unique identifiers.
func (r *Return) IsEqual(other *Return) bool {
	return other != nil && r.id.IsEqual(other.id)
}

// ID returns the return's unique identifier.
func (r *Return) ID() kernel.UUID {
	return r.id
}

// Status returns the current lifecycle status.
func (r *Return) Status() retstatus.Status {
	return r.status
}

// StatusUpdatedAt returns the event time of the last status change.
func (r *Return) StatusUpdatedAt() time.Time {
	return r.statusUpdatedAt
}

// Pickup returns the pickup-leg bookkeeping record.
func (r *Return) Pickup() Pickup {
	return r.pickup
}

// InspectDueAt returns the inspection SLA deadline, or nil while the
// shipment has not been delivered to the seller.
func (r *Return) InspectDueAt() *time.Time {
	return r.inspectDueAt
}

// PendingEvents returns audit entries appended since the aggregate was loaded.
func (r *Return) PendingEvents() []Event {
	return r.pendingEvents
}

// LoadSnapshot returns the state captured when the aggregate was constructed.
func (r *Return) LoadSnapshot() Snapshot {
	return r.snapshot
}

// IsStaleEvent reports whether an event with the given partner-reported time
// is older than the newest event already reconciled into this return.
func (r *Return) IsStaleEvent(at time.Time) bool {
	return r.pickup.LastEventAt != nil && at.Before(*r.pickup.LastEventAt)
}

// AdvancePickup updates the pickup bookkeeping from an accepted event.
// LastEventAt only moves forward; the remaining fields always reflect the
// newest accepted event so the audit trail shows receipt even when the
// status itself is not allowed to change.
func (r *Return) AdvancePickup(
	at time.Time,
	partner string,
	partnerStatus string,
	bookingID kernel.UUID,
	trackingNumber string,
	externalShipmentID string,
) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if err := bookingID.Validate(); err != nil {
		return err
	}

	if r.pickup.LastEventAt == nil || at.After(*r.pickup.LastEventAt) {
		eventAt := at
		r.pickup.LastEventAt = &eventAt
	}

	r.pickup.Partner = partner
	r.pickup.PartnerStatus = partnerStatus
	r.pickup.ActiveBookingID = &bookingID
	r.pickup.LatestTrackingNumber = trackingNumber
	r.pickup.LatestExternalShipmentID = externalShipmentID
	return nil
}

// Transition moves the return to newStatus as of the partner-reported event
// time and appends an audit entry attributed to the webhook actor.
//
// statusUpdatedAt is set to the event time, not the receipt time, so delayed
// webhook delivery does not distort the timeline. When the new status is
// DeliveredToSeller the inspection deadline is set to eventAt plus the
// configured window, but only if it is not already set: an idempotent replay
// of the delivered event must not reset the seller's inspection window.
//
// Transition does not check rank order or transition legality; those gates
// belong to the reconciliation engine, which consults the rank table and the
// transition-legality collaborator before committing.
func (r *Return) Transition(newStatus retstatus.Status, eventAt time.Time, inspectWindow time.Duration) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if err := newStatus.Validate(); err != nil {
		return err
	}

	previous := r.status
	r.status = newStatus
	r.statusUpdatedAt = eventAt

	if newStatus == retstatus.DeliveredToSeller && r.inspectDueAt == nil {
		dueAt := eventAt.Add(inspectWindow)
		r.inspectDueAt = &dueAt
	}

	r.pendingEvents = append(r.pendingEvents, Event{
		At:    eventAt,
		Actor: WebhookActor,
		Type:  "status_changed",
		Meta:  fmt.Sprintf("%s -> %s", previous, newStatus),
	})
	return nil
}

func (r *Return) currentSnapshot() Snapshot {
	snap := Snapshot{Status: r.status}
	if r.pickup.LastEventAt != nil {
		at := *r.pickup.LastEventAt
		snap.PickupLastEventAt = &at
	}
	return snap
}
