package shipment

import (
	"errors"
	"time"

	"returns/internal/core/domain/model/kernel"
	"returns/internal/pkg/errs"
)

var (
	// ErrShipmentIsNotConstructed is returned when a ReturnShipment instance was
	// not created through NewReturnShipment or RestoreReturnShipment.
	ErrShipmentIsNotConstructed = errors.New(
		"ReturnShipment must be created via NewReturnShipment or RestoreReturnShipment",
	)
)

// Event is one append-only entry in the shipment's webhook event log.
// EventID is unique per shipment; the uniqueness is what makes retried
// partner deliveries idempotent.
type Event struct {
	At            time.Time
	EventID       string
	PartnerStatus string
	MappedStatus  string
	Raw           string
}

// ReturnShipment represents one partner pickup booking. It is owned by the
// (out-of-scope) shipment-booking subsystem; the reconciliation engine only
// mutates its raw status, lastWebhookAt, updatedAt, and appends to the event
// log.
//
// ReturnShipment maintains these invariants:
//   - a booking either belongs to the return flow or is a forward delivery
//     that happens to share identifiers; only return-flow bookings may ever
//     drive a Return
//   - returnID is a weak reference to a Return, a lookup relation rather
//     than ownership, and may dangle
//   - the event log is append-only and holds each event id at most once
type ReturnShipment struct {
	id                 kernel.UUID
	partner            string
	trackingNumber     string
	externalShipmentID string
	returnFlow         bool
	isActive           bool
	returnID           *kernel.UUID
	status             string
	lastWebhookAt      *time.Time

	// pendingEvent is the event recorded since load, persisted by the
	// repository via a conditional insert.
	pendingEvent *Event

	isConstructed bool
}

// NewReturnShipment creates a shipment booking. In production bookings are
// created by the pickup-booking flow; the constructor exists for that flow's
// adapter and for tests.
func NewReturnShipment(
	id kernel.UUID,
	partner string,
	trackingNumber string,
	externalShipmentID string,
	returnFlow bool,
	returnID *kernel.UUID,
) (*ReturnShipment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if partner == "" {
		return nil, errs.NewValueIsRequiredError("partner")
	}
	if trackingNumber == "" && externalShipmentID == "" {
		return nil, errs.NewValueIsRequiredError("trackingNumber or externalShipmentID")
	}
	if returnID != nil {
		if err := returnID.Validate(); err != nil {
			return nil, err
		}
	}

	return &ReturnShipment{
		id:                 id,
		partner:            partner,
		trackingNumber:     trackingNumber,
		externalShipmentID: externalShipmentID,
		returnFlow:         returnFlow,
		isActive:           true,
		returnID:           returnID,
		isConstructed:      true,
	}, nil
}

// RestoreReturnShipment reconstructs a shipment booking from persistence.
func RestoreReturnShipment(
	id kernel.UUID,
	partner string,
	trackingNumber string,
	externalShipmentID string,
	returnFlow bool,
	isActive bool,
	returnID *kernel.UUID,
	status string,
	lastWebhookAt *time.Time,
) (*ReturnShipment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if partner == "" {
		return nil, errs.NewValueIsRequiredError("partner")
	}

	return &ReturnShipment{
		id:                 id,
		partner:            partner,
		trackingNumber:     trackingNumber,
		externalShipmentID: externalShipmentID,
		returnFlow:         returnFlow,
		isActive:           isActive,
		returnID:           returnID,
		status:             status,
		lastWebhookAt:      lastWebhookAt,
		isConstructed:      true,
	}, nil
}

// Validate ensures the shipment was properly constructed.
func (s *ReturnShipment) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrShipmentIsNotConstructed
	}
	return nil
}

// ID returns the booking's unique identifier.
func (s *ReturnShipment) ID() kernel.UUID {
	return s.id
}

// Partner returns the reverse-logistics partner key.
func (s *ReturnShipment) Partner() string {
	return s.partner
}

// TrackingNumber returns the partner tracking number, if known.
func (s *ReturnShipment) TrackingNumber() string {
	return s.trackingNumber
}

// ExternalShipmentID returns the partner's shipment identifier, if known.
func (s *ReturnShipment) ExternalShipmentID() string {
	return s.externalShipmentID
}

// IsReturnFlow reports whether this booking belongs to the return flow.
// Forward-delivery bookings sharing identifiers must be ignored entirely.
func (s *ReturnShipment) IsReturnFlow() bool {
	return s.returnFlow
}

// IsActive reports whether this booking currently governs its linked Return.
// A booking superseded by a rebooking stays in storage but stops driving status.
func (s *ReturnShipment) IsActive() bool {
	return s.isActive
}

// ReturnID returns the weak reference to the linked Return, or nil.
func (s *ReturnShipment) ReturnID() *kernel.UUID {
	return s.returnID
}

// Status returns the last raw partner status recorded on the booking.
func (s *ReturnShipment) Status() string {
	return s.status
}

// LastWebhookAt returns the receipt time of the last recorded webhook.
func (s *ReturnShipment) LastWebhookAt() *time.Time {
	return s.lastWebhookAt
}

// PendingEvent returns the event recorded since load, or nil.
func (s *ReturnShipment) PendingEvent() *Event {
	return s.pendingEvent
}

// RecordEvent stages a webhook event on the booking and advances the raw
// bookkeeping fields. The repository persists the staged event with a
// conditional insert so that a duplicate event id becomes a no-op.
func (s *ReturnShipment) RecordEvent(
	receivedAt time.Time,
	eventID string,
	partnerStatus string,
	mappedStatus string,
	raw string,
) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if eventID == "" {
		return errs.NewValueIsRequiredError("eventID")
	}

	s.pendingEvent = &Event{
		At:            receivedAt,
		EventID:       eventID,
		PartnerStatus: partnerStatus,
		MappedStatus:  mappedStatus,
		Raw:           raw,
	}
	s.status = partnerStatus
	at := receivedAt
	s.lastWebhookAt = &at
	return nil
}
