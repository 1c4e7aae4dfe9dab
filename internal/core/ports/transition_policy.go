package ports

import (
	"returns/internal/core/domain/model/retstatus"
)

// TransitionPolicy is the transition-legality oracle consumed by the
// reconciliation engine. The authoritative table is owned by the return-order
// subsystem; the engine only asks whether a proposed move is legal for a
// given actor role and never encodes the table itself.
type TransitionPolicy interface {
	IsTransitionLegal(current, proposed retstatus.Status, actor string) bool
}
