package commands

import (
	"errors"
	"time"

	"returns/internal/core/domain/services"
	"returns/internal/pkg/guard"
)

var (
	ErrProcessShipmentEventCommandIsNotConstructed = errors.New(
		"ProcessShipmentEventCommand must be created via NewProcessShipmentEventCommand constructor",
	)
	ErrPartnerIsRequired      = errors.New("partner is required")
	ErrShipmentKeyIsRequired  = errors.New("tracking number or external shipment id is required")
	ErrEventTimeIsRequired    = errors.New("event timestamp is required")
	ErrReceivedTimeIsRequired = errors.New("received timestamp is required")
)

// ProcessShipmentEventCommand carries one normalized partner webhook event.
// The event identity is resolved at construction: an explicit payload id wins,
// otherwise a content fingerprint over (identifying key, raw status, hour-
// coarsened timestamp) is derived so retried deliveries of the same logical
// event share an identity.
//
// Example:
//
//	cmd, err := NewProcessShipmentEventCommand(
//	    "everestx", "TRK-1", "EX-1", "PICKED_UP",
//	    eventAt, time.Now(), "", eventAt.UTC().Format(time.RFC3339)[:13], rawBody,
//	)
//	if err != nil {
//	    return fmt.Errorf("invalid webhook event: %w", err)
//	}
//	result, err := handler.Handle(ctx, cmd)
type ProcessShipmentEventCommand struct { //nolint:recvcheck //using for validation
	partner            string
	trackingNumber     string
	externalShipmentID string
	partnerStatus      string
	eventAt            time.Time
	receivedAt         time.Time
	eventID            string
	rawPayload         string

	guard guard.ConstructorGuard
}

// NewProcessShipmentEventCommand creates a command for one webhook delivery.
// Validates that the partner key, an identifying shipment key, and both
// timestamps are present; the raw partner status may be empty (it simply
// will not map). coarseTimestamp is the hour-truncated form of the event
// timestamp used for content-based identity.
func NewProcessShipmentEventCommand(
	partner string,
	trackingNumber string,
	externalShipmentID string,
	partnerStatus string,
	eventAt time.Time,
	receivedAt time.Time,
	explicitEventID string,
	coarseTimestamp string,
	rawPayload string,
) (ProcessShipmentEventCommand, error) {
	cmd := ProcessShipmentEventCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setPartner(partner),
		cmd.setShipmentKey(trackingNumber, externalShipmentID),
		cmd.setEventAt(eventAt),
		cmd.setReceivedAt(receivedAt),
	); err != nil {
		return ProcessShipmentEventCommand{}, err
	}

	cmd.partnerStatus = partnerStatus
	cmd.rawPayload = rawPayload
	cmd.eventID = services.DeriveEventID(explicitEventID, cmd.ShipmentKey(), partnerStatus, coarseTimestamp)
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ProcessShipmentEventCommand) Validate() error {
	return c.guard.Validate(ErrProcessShipmentEventCommandIsNotConstructed)
}

// Partner returns the reverse-logistics partner key.
func (c ProcessShipmentEventCommand) Partner() string {
	return c.partner
}

// TrackingNumber returns the partner tracking number, possibly empty.
func (c ProcessShipmentEventCommand) TrackingNumber() string {
	return c.trackingNumber
}

// ExternalShipmentID returns the partner shipment id, possibly empty.
func (c ProcessShipmentEventCommand) ExternalShipmentID() string {
	return c.externalShipmentID
}

// ShipmentKey returns the identifying key: tracking number when present,
// else the external shipment id.
func (c ProcessShipmentEventCommand) ShipmentKey() string {
	if c.trackingNumber != "" {
		return c.trackingNumber
	}
	return c.externalShipmentID
}

// PartnerStatus returns the raw partner status string.
func (c ProcessShipmentEventCommand) PartnerStatus() string {
	return c.partnerStatus
}

// EventAt returns the partner-reported event time.
func (c ProcessShipmentEventCommand) EventAt() time.Time {
	return c.eventAt
}

// ReceivedAt returns the webhook receipt time.
func (c ProcessShipmentEventCommand) ReceivedAt() time.Time {
	return c.receivedAt
}

// EventID returns the resolved event identity.
func (c ProcessShipmentEventCommand) EventID() string {
	return c.eventID
}

// RawPayload returns the original request body for the audit log.
func (c ProcessShipmentEventCommand) RawPayload() string {
	return c.rawPayload
}

func (c *ProcessShipmentEventCommand) setPartner(partner string) error {
	if partner == "" {
		return ErrPartnerIsRequired
	}
	c.partner = partner
	return nil
}

func (c *ProcessShipmentEventCommand) setShipmentKey(trackingNumber, externalShipmentID string) error {
	if trackingNumber == "" && externalShipmentID == "" {
		return ErrShipmentKeyIsRequired
	}
	c.trackingNumber = trackingNumber
	c.externalShipmentID = externalShipmentID
	return nil
}

func (c *ProcessShipmentEventCommand) setEventAt(eventAt time.Time) error {
	if eventAt.IsZero() {
		return ErrEventTimeIsRequired
	}
	c.eventAt = eventAt
	return nil
}

func (c *ProcessShipmentEventCommand) setReceivedAt(receivedAt time.Time) error {
	if receivedAt.IsZero() {
		return ErrReceivedTimeIsRequired
	}
	c.receivedAt = receivedAt
	return nil
}
