package shipmentrepo

import (
	"context"
	"errors"

	"returns/internal/core/domain/model/kernel"
	"returns/internal/core/domain/model/shipment"
	"returns/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormShipmentRepository implements ShipmentRepository using GORM.
type GormShipmentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormShipmentRepository creates a new GORM shipment repository.
func NewGormShipmentRepository(db *gorm.DB, tracker aggregateTracker) *GormShipmentRepository {
	return &GormShipmentRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new shipment booking to the database.
func (r *GormShipmentRepository) Add(ctx context.Context, aggregate *shipment.ReturnShipment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// GetByPartnerKey resolves the booking a webhook event refers to. The
// tracking number is tried first, then the external shipment id, both scoped
// to the partner.
func (r *GormShipmentRepository) GetByPartnerKey(
	ctx context.Context,
	partner, trackingNumber, externalShipmentID string,
) (*shipment.ReturnShipment, error) {
	var dto ShipmentDTO

	if trackingNumber != "" {
		err := r.db.WithContext(ctx).
			First(&dto, "partner = ? AND tracking_number = ?", partner, trackingNumber).Error
		if err == nil {
			return toDomain(dto)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	if externalShipmentID != "" {
		err := r.db.WithContext(ctx).
			First(&dto, "partner = ? AND external_shipment_id = ?", partner, externalShipmentID).Error
		if err == nil {
			return toDomain(dto)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	key := trackingNumber
	if key == "" {
		key = externalShipmentID
	}
	return nil, errs.NewObjectNotFoundError("shipment", key)
}

// AppendEventIfAbsent persists the aggregate's pending event with a single
// conditional insert. The ON CONFLICT DO NOTHING clause rides the unique
// (shipment_id, event_id) index, so the existence check and the insert are
// one atomic statement; zero affected rows means a duplicate delivery.
func (r *GormShipmentRepository) AppendEventIfAbsent(
	ctx context.Context,
	aggregate *shipment.ReturnShipment,
) (bool, error) {
	if err := aggregate.Validate(); err != nil {
		return false, err
	}

	event := aggregate.PendingEvent()
	if event == nil {
		return false, errs.NewValueIsRequiredError("pending event")
	}

	dto := eventFromDomain(aggregate.ID().Bytes(), *event)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "shipment_id"}, {Name: "event_id"}},
			DoNothing: true,
		}).
		Create(&dto)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// Update persists the booking's webhook bookkeeping fields. The event log is
// append-only and never rewritten here.
func (r *GormShipmentRepository) Update(ctx context.Context, aggregate *shipment.ReturnShipment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&ShipmentDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"status":          dto.Status,
			"last_webhook_at": dto.LastWebhookAt,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}
