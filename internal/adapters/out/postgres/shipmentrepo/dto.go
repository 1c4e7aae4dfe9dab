// Package shipmentrepo provides data transfer objects and mapping functions for
// return-shipment persistence. It implements the repository pattern for the
// shipment booking aggregate and its append-only webhook event log, handling
// the conversion between domain entities and database representations.
package shipmentrepo

import (
	"time"

	"returns/internal/core/domain/model/kernel"
	"returns/internal/core/domain/model/shipment"

	"github.com/google/uuid"
)

// ShipmentDTO represents the database structure for persisting shipment
// bookings. Indexed on the (partner, tracking number) and
// (partner, external shipment id) pairs webhook events resolve by.
type ShipmentDTO struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Partner            string     `gorm:"type:varchar(64);index:idx_shipments_partner_tracking;index:idx_shipments_partner_external"`
	TrackingNumber     string     `gorm:"type:varchar(128);index:idx_shipments_partner_tracking"`
	ExternalShipmentID string     `gorm:"type:varchar(128);index:idx_shipments_partner_external"`
	ReturnFlow         bool       `gorm:"not null"`
	IsActive           bool       `gorm:"not null"`
	ReturnID           *uuid.UUID `gorm:"type:uuid;index"`
	Status             string     `gorm:"type:varchar(64)"`
	LastWebhookAt      *time.Time
}

// TableName specifies the database table name for shipment bookings.
func (ShipmentDTO) TableName() string {
	return "return_shipments"
}

// ShipmentEventDTO represents one row of the append-only webhook event log.
// The unique index over (shipment_id, event_id) is what makes the dedup
// insert atomic: a retried delivery conflicts instead of inserting twice.
type ShipmentEventDTO struct {
	ID            uint      `gorm:"primaryKey;autoIncrement"`
	ShipmentID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_shipment_events_dedup"`
	EventID       string    `gorm:"type:varchar(128);uniqueIndex:idx_shipment_events_dedup"`
	ReceivedAt    time.Time
	PartnerStatus string `gorm:"type:varchar(64)"`
	MappedStatus  string `gorm:"type:varchar(32)"`
	Raw           string `gorm:"type:text"`
}

// TableName specifies the database table name for the webhook event log.
func (ShipmentEventDTO) TableName() string {
	return "shipment_events"
}

// fromDomain converts a shipment booking aggregate to its database representation.
func fromDomain(aggregate *shipment.ReturnShipment) ShipmentDTO {
	var returnID *uuid.UUID
	if id := aggregate.ReturnID(); id != nil {
		raw := id.Bytes()
		returnID = &raw
	}

	return ShipmentDTO{
		ID:                 aggregate.ID().Bytes(),
		Partner:            aggregate.Partner(),
		TrackingNumber:     aggregate.TrackingNumber(),
		ExternalShipmentID: aggregate.ExternalShipmentID(),
		ReturnFlow:         aggregate.IsReturnFlow(),
		IsActive:           aggregate.IsActive(),
		ReturnID:           returnID,
		Status:             aggregate.Status(),
		LastWebhookAt:      aggregate.LastWebhookAt(),
	}
}

// eventFromDomain converts the aggregate's pending event to an event-log row.
func eventFromDomain(shipmentID uuid.UUID, event shipment.Event) ShipmentEventDTO {
	return ShipmentEventDTO{
		ShipmentID:    shipmentID,
		EventID:       event.EventID,
		ReceivedAt:    event.At,
		PartnerStatus: event.PartnerStatus,
		MappedStatus:  event.MappedStatus,
		Raw:           event.Raw,
	}
}

// toDomain converts a database DTO to a shipment booking aggregate.
func toDomain(dto ShipmentDTO) (*shipment.ReturnShipment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var returnID *kernel.UUID
	if dto.ReturnID != nil {
		rID, returnErr := kernel.UUIDFromBytes((*dto.ReturnID)[:])
		if returnErr != nil {
			return nil, returnErr
		}

		returnID = &rID
	}

	return shipment.RestoreReturnShipment(
		id,
		dto.Partner,
		dto.TrackingNumber,
		dto.ExternalShipmentID,
		dto.ReturnFlow,
		dto.IsActive,
		returnID,
		dto.Status,
		dto.LastWebhookAt,
	)
}
