// Package retstatus defines the closed vocabulary of return lifecycle states
// and the partial order ("rank") over the subset reachable from partner
// webhooks. The rank table is the single source of truth for the
// rank-regression guard in the reconciliation engine.
package retstatus
