package queries

import (
	"errors"
	"time"

	"returns/internal/core/domain/model/kernel"
	"returns/internal/pkg/guard"
)

var (
	ErrGetOverdueInspectionsQueryIsNotConstructed = errors.New(
		"GetOverdueInspectionsQuery must be created via NewGetOverdueInspectionsQuery constructor",
	)
	ErrAsOfTimeIsRequired = errors.New("asOf timestamp is required")
)

// GetOverdueInspectionsQuery retrieves returns that reached the seller and
// whose inspection deadline has passed without an inspection outcome.
// Consumed by the periodic sweep that surfaces SLA breaches.
type GetOverdueInspectionsQuery struct {
	asOf time.Time

	guard guard.ConstructorGuard
}

// NewGetOverdueInspectionsQuery creates a query for inspection-SLA breaches
// as of the given instant.
func NewGetOverdueInspectionsQuery(asOf time.Time) (GetOverdueInspectionsQuery, error) {
	if asOf.IsZero() {
		return GetOverdueInspectionsQuery{}, ErrAsOfTimeIsRequired
	}

	return GetOverdueInspectionsQuery{
		asOf:  asOf,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOverdueInspectionsQuery) Validate() error {
	return q.guard.Validate(ErrGetOverdueInspectionsQueryIsNotConstructed)
}

// AsOf returns the instant deadlines are compared against.
func (q GetOverdueInspectionsQuery) AsOf() time.Time {
	return q.asOf
}

// GetOverdueInspectionsQueryResponse is one overdue inspection case.
type GetOverdueInspectionsQueryResponse struct {
	ID           kernel.UUID
	Partner      string
	InspectDueAt time.Time
}
