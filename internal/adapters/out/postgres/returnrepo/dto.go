// Package returnrepo provides data transfer objects and mapping functions for
// return-case persistence. It implements the repository pattern for the
// Return aggregate, including the optimistic-concurrency update the webhook
// reconciliation engine relies on.
package returnrepo

import (
	"time"

	"returns/internal/core/domain/model/kernel"
	"returns/internal/core/domain/model/retstatus"
	"returns/internal/core/domain/model/returncase"

	"github.com/google/uuid"
)

// ReturnDTO represents the database structure for persisting return cases.
// The status column is indexed for the overdue-inspection read model.
type ReturnDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Status          string    `gorm:"type:varchar(32);index"`
	StatusUpdatedAt time.Time
	Pickup          PickupDTO  `gorm:"embedded;embeddedPrefix:pickup_"`
	SlaInspectDueAt *time.Time `gorm:"index"`
}

// TableName specifies the database table name for return cases.
func (ReturnDTO) TableName() string {
	return "returns"
}

// PickupDTO represents the embedded pickup bookkeeping within the returns table.
type PickupDTO struct {
	LastEventAt              *time.Time
	Partner                  string     `gorm:"type:varchar(64)"`
	PartnerStatus            string     `gorm:"type:varchar(64)"`
	ActiveBookingID          *uuid.UUID `gorm:"type:uuid"`
	LatestTrackingNumber     string     `gorm:"type:varchar(128)"`
	LatestExternalShipmentID string     `gorm:"type:varchar(128)"`
}

// ReturnEventDTO represents one row of the append-only return audit log.
type ReturnEventDTO struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	ReturnID   uuid.UUID `gorm:"type:uuid;index"`
	OccurredAt time.Time
	Actor      string `gorm:"type:varchar(64)"`
	EventType  string `gorm:"type:varchar(64)"`
	Meta       string `gorm:"type:text"`
}

// TableName specifies the database table name for the return audit log.
func (ReturnEventDTO) TableName() string {
	return "return_events"
}

// fromDomain converts a return aggregate to its database representation.
func fromDomain(aggregate *returncase.Return) ReturnDTO {
	pickup := aggregate.Pickup()

	var bookingID *uuid.UUID
	if id := pickup.ActiveBookingID; id != nil {
		raw := id.Bytes()
		bookingID = &raw
	}

	return ReturnDTO{
		ID:              aggregate.ID().Bytes(),
		Status:          aggregate.Status().String(),
		StatusUpdatedAt: aggregate.StatusUpdatedAt(),
		Pickup: PickupDTO{
			LastEventAt:              pickup.LastEventAt,
			Partner:                  pickup.Partner,
			PartnerStatus:            pickup.PartnerStatus,
			ActiveBookingID:          bookingID,
			LatestTrackingNumber:     pickup.LatestTrackingNumber,
			LatestExternalShipmentID: pickup.LatestExternalShipmentID,
		},
		SlaInspectDueAt: aggregate.InspectDueAt(),
	}
}

// eventFromDomain converts a pending audit event to an audit-log row.
func eventFromDomain(returnID uuid.UUID, event returncase.Event) ReturnEventDTO {
	return ReturnEventDTO{
		ReturnID:   returnID,
		OccurredAt: event.At,
		Actor:      event.Actor,
		EventType:  event.Type,
		Meta:       event.Meta,
	}
}

// toDomain converts a database DTO to a return aggregate. RestoreReturn
// captures the load-time snapshot the optimistic update is conditioned on.
func toDomain(dto ReturnDTO) (*returncase.Return, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	status, err := retstatus.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	var bookingID *kernel.UUID
	if dto.Pickup.ActiveBookingID != nil {
		bID, bookingErr := kernel.UUIDFromBytes((*dto.Pickup.ActiveBookingID)[:])
		if bookingErr != nil {
			return nil, bookingErr
		}

		bookingID = &bID
	}

	pickup := returncase.Pickup{
		LastEventAt:              dto.Pickup.LastEventAt,
		Partner:                  dto.Pickup.Partner,
		PartnerStatus:            dto.Pickup.PartnerStatus,
		ActiveBookingID:          bookingID,
		LatestTrackingNumber:     dto.Pickup.LatestTrackingNumber,
		LatestExternalShipmentID: dto.Pickup.LatestExternalShipmentID,
	}

	return returncase.RestoreReturn(id, status, dto.StatusUpdatedAt, pickup, dto.SlaInspectDueAt)
}
