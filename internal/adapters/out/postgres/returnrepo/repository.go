package returnrepo

import (
	"context"
	"errors"

	"returns/internal/core/domain/model/kernel"
	"returns/internal/core/domain/model/returncase"
	"returns/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormReturnRepository implements ReturnRepository using GORM.
type GormReturnRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormReturnRepository creates a new GORM return repository.
func NewGormReturnRepository(db *gorm.DB, tracker aggregateTracker) *GormReturnRepository {
	return &GormReturnRepository{
		db:      db,
		tracker: tracker,
	}
}

// Get retrieves a return by ID.
func (r *GormReturnRepository) Get(ctx context.Context, id kernel.UUID) (*returncase.Return, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ReturnDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("return", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// Add saves a new return to the database.
func (r *GormReturnRepository) Add(ctx context.Context, aggregate *returncase.Return) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	if err := r.appendPendingEvents(ctx, aggregate); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update persists the aggregate's mutated fields and appends its pending
// audit events. The write is conditioned on the row still matching the
// load-time snapshot (status + pickup last-event time): when a concurrent
// writer got there first the update affects no rows and the caller receives
// errs.VersionConflictError, with nothing written.
func (r *GormReturnRepository) Update(ctx context.Context, aggregate *returncase.Return) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	snapshot := aggregate.LoadSnapshot()

	tx := r.db.WithContext(ctx).
		Model(&ReturnDTO{}).
		Where("id = ? AND status = ?", dto.ID, snapshot.Status.String())
	if snapshot.PickupLastEventAt == nil {
		tx = tx.Where("pickup_last_event_at IS NULL")
	} else {
		tx = tx.Where("pickup_last_event_at = ?", *snapshot.PickupLastEventAt)
	}

	result := tx.Updates(map[string]any{
		"status":                             dto.Status,
		"status_updated_at":                  dto.StatusUpdatedAt,
		"pickup_last_event_at":               dto.Pickup.LastEventAt,
		"pickup_partner":                     dto.Pickup.Partner,
		"pickup_partner_status":              dto.Pickup.PartnerStatus,
		"pickup_active_booking_id":           dto.Pickup.ActiveBookingID,
		"pickup_latest_tracking_number":      dto.Pickup.LatestTrackingNumber,
		"pickup_latest_external_shipment_id": dto.Pickup.LatestExternalShipmentID,
		"sla_inspect_due_at":                 dto.SlaInspectDueAt,
	})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewVersionConflictError("return", aggregate.ID().String())
	}

	if err := r.appendPendingEvents(ctx, aggregate); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormReturnRepository) appendPendingEvents(ctx context.Context, aggregate *returncase.Return) error {
	events := aggregate.PendingEvents()
	if len(events) == 0 {
		return nil
	}

	dtos := make([]ReturnEventDTO, 0, len(events))
	for _, event := range events {
		dtos = append(dtos, eventFromDomain(aggregate.ID().Bytes(), event))
	}

	return r.db.WithContext(ctx).Create(&dtos).Error
}
