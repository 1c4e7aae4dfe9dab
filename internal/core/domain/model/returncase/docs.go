// Package returncase contains the Return aggregate: one customer return case
// with its lifecycle status, pickup-leg bookkeeping, inspection SLA deadline,
// and append-only audit log. The aggregate enforces the time-monotonicity and
// set-once-SLA invariants; ordering and legality of status moves are decided
// by the reconciliation engine before it calls Transition.
package returncase
