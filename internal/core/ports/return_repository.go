package ports

import (
	"context"

	"returns/internal/core/domain/model/kernel"
	"returns/internal/core/domain/model/returncase"
)

// ReturnRepository defines the persistence contract for return cases.
type ReturnRepository interface {
	// Get retrieves a return by its identifier. Returns
	// errs.ObjectNotFoundError for a dangling reference; callers treat that
	// as a normal outcome, never a fault.
	Get(ctx context.Context, id kernel.UUID) (*returncase.Return, error)

	// Add persists a new return case.
	Add(ctx context.Context, aggregate *returncase.Return) error

	// Update persists the aggregate's mutated fields and appends its pending
	// audit events. The write is conditioned on the row still matching the
	// aggregate's load-time snapshot (status + pickup last-event time); when
	// a concurrent writer got there first the update affects no rows and
	// errs.VersionConflictError is returned.
	Update(ctx context.Context, aggregate *returncase.Return) error
}
