package commands

import (
	"context"
	"errors"
	"time"

	"returns/internal/core/domain/model/returncase"
	"returns/internal/core/domain/model/shipment"
	"returns/internal/core/domain/services"
	"returns/internal/core/ports"
	"returns/internal/pkg/errs"
)

// Outcome is the terminal disposition of one webhook delivery. Exactly one
// outcome applies per request, and every outcome past authentication and
// shape validation is a transport-level success: a partner's aberrant feed
// must never break the webhook channel.
type Outcome string

const (
	// OutcomeCommitted means all gates passed and the return's status moved.
	OutcomeCommitted Outcome = "committed"

	// OutcomeIgnored means the event was acknowledged but intentionally not
	// applied; the Reason field says which gate stopped it.
	OutcomeIgnored Outcome = "ignored"

	// OutcomeDeduped means this event id was already present in the
	// shipment's log; nothing was mutated.
	OutcomeDeduped Outcome = "deduped"

	// OutcomeIdempotent means the mapped status equals the current status;
	// only bookkeeping fields advanced.
	OutcomeIdempotent Outcome = "idempotent"

	// OutcomeRecordedInactive means the event was logged against a booking
	// that no longer governs its return; the return was left untouched.
	OutcomeRecordedInactive Outcome = "recordedInactive"

	// OutcomeUnmapped means the partner status has no internal mapping; the
	// raw event was recorded for audit only.
	OutcomeUnmapped Outcome = "unmapped"

	// OutcomeNoted means a data-consistency issue on our side (unknown
	// shipment, dangling return reference) was observed and noted; the
	// partner still gets a success response.
	OutcomeNoted Outcome = "note"
)

// Ignore reasons accompanying OutcomeIgnored.
const (
	ReasonNotReturnFlow     = "not_return_flow"
	ReasonNotAllowed        = "not_allowed"
	ReasonStaleTimestamp    = "stale_timestamp"
	ReasonRankRegression    = "rank_regression"
	ReasonIllegalTransition = "illegal_transition"
	ReasonConflict          = "conflict"
)

// Note reasons accompanying OutcomeNoted.
const (
	ReasonShipmentNotFound = "shipment_not_found"
	ReasonReturnNotLinked  = "return_not_linked"
	ReasonReturnNotFound   = "return_not_found"
)

// actorRole is the role the engine presents to the transition-legality oracle.
const actorRole = "system"

// ProcessShipmentEventResult reports how a webhook delivery was reconciled.
type ProcessShipmentEventResult struct {
	Outcome Outcome
	Reason  string
	EventID string

	// Mapped is the snake_case internal status the partner status translated
	// to, empty when no mapping exists.
	Mapped string
}

// ProcessShipmentEventHandler is the reconciliation engine. Given one
// normalized partner event it enforces, in order: the return-flow filter,
// event deduplication, the booking-activity filter, status mapping, the
// webhook allow-list, return resolution, the staleness-by-time guard, the
// staleness-by-rank guard, the idempotence shortcut, and transition
// legality — and only past all gates commits the new status to the return.
//
// All gates run inside a single unit of work so the dedup insert, the
// shipment bookkeeping, and the guarded return mutation land atomically.
type ProcessShipmentEventHandler struct {
	uowFactory    WebhookUoWFactory
	policy        ports.TransitionPolicy
	inspectWindow time.Duration
}

// NewProcessShipmentEventHandler creates the reconciliation engine.
// inspectWindow is the configured inspection SLA applied on delivered
// transitions, measured from the partner-reported event time.
func NewProcessShipmentEventHandler(
	uowFactory WebhookUoWFactory,
	policy ports.TransitionPolicy,
	inspectWindow time.Duration,
) ProcessShipmentEventHandler {
	return ProcessShipmentEventHandler{
		uowFactory:    uowFactory,
		policy:        policy,
		inspectWindow: inspectWindow,
	}
}

// Handle reconciles one webhook delivery. Soft domain conditions (duplicate,
// stale, regressive, unmapped, inactive, unresolvable) come back as results,
// never as errors; an error return means storage genuinely failed and the
// partner may retry.
func (h *ProcessShipmentEventHandler) Handle(
	ctx context.Context,
	cmd ProcessShipmentEventCommand,
) (ProcessShipmentEventResult, error) {
	if err := cmd.Validate(); err != nil {
		return ProcessShipmentEventResult{}, err
	}

	mapped, hasMapping := services.MapPartnerStatus(cmd.PartnerStatus())
	result := ProcessShipmentEventResult{EventID: cmd.EventID()}
	if hasMapping {
		result.Mapped = mapped.String()
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ProcessShipmentEventResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	shipmentRepo := uow.ShipmentRepository()
	sh, err := shipmentRepo.GetByPartnerKey(ctx, cmd.Partner(), cmd.TrackingNumber(), cmd.ExternalShipmentID())
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			result.Outcome = OutcomeNoted
			result.Reason = ReasonShipmentNotFound
			return result, nil
		}
		return ProcessShipmentEventResult{}, err
	}

	// A forward-delivery booking that shares identifiers with the return flow
	// is not ours: acknowledge and record nothing.
	if !sh.IsReturnFlow() {
		result.Outcome = OutcomeIgnored
		result.Reason = ReasonNotReturnFlow
		return result, nil
	}

	if err = sh.RecordEvent(cmd.ReceivedAt(), cmd.EventID(), cmd.PartnerStatus(), result.Mapped, cmd.RawPayload()); err != nil {
		return ProcessShipmentEventResult{}, err
	}

	inserted, err := shipmentRepo.AppendEventIfAbsent(ctx, sh)
	if err != nil {
		return ProcessShipmentEventResult{}, err
	}
	if !inserted {
		result.Outcome = OutcomeDeduped
		return result, nil
	}

	if err = shipmentRepo.Update(ctx, sh); err != nil {
		return ProcessShipmentEventResult{}, err
	}

	// A superseded booking keeps its audit trail but no longer drives status.
	if !sh.IsActive() {
		return h.commit(ctx, uow, result, OutcomeRecordedInactive, "")
	}

	if !hasMapping {
		return h.commit(ctx, uow, result, OutcomeUnmapped, "")
	}

	if !mapped.WebhookAllowed() {
		return h.commit(ctx, uow, result, OutcomeIgnored, ReasonNotAllowed)
	}

	if sh.ReturnID() == nil {
		return h.commit(ctx, uow, result, OutcomeNoted, ReasonReturnNotLinked)
	}

	ret, err := uow.ReturnRepository().Get(ctx, *sh.ReturnID())
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return h.commit(ctx, uow, result, OutcomeNoted, ReasonReturnNotFound)
		}
		return ProcessShipmentEventResult{}, err
	}

	if ret.IsStaleEvent(cmd.EventAt()) {
		return h.commit(ctx, uow, result, OutcomeIgnored, ReasonStaleTimestamp)
	}

	if ret.Status().IsRankRegression(mapped) {
		// Out-of-order delivery due to partner clock skew: the status stays,
		// but the bookkeeping advances so the audit trail shows receipt.
		if err = h.advancePickup(ret, sh, cmd); err != nil {
			return ProcessShipmentEventResult{}, err
		}
		return h.update(ctx, uow, ret, result, OutcomeIgnored, ReasonRankRegression)
	}

	if ret.Status() == mapped {
		if err = h.advancePickup(ret, sh, cmd); err != nil {
			return ProcessShipmentEventResult{}, err
		}
		return h.update(ctx, uow, ret, result, OutcomeIdempotent, "")
	}

	if !h.policy.IsTransitionLegal(ret.Status(), mapped, actorRole) {
		return h.commit(ctx, uow, result, OutcomeIgnored, ReasonIllegalTransition)
	}

	if err = h.advancePickup(ret, sh, cmd); err != nil {
		return ProcessShipmentEventResult{}, err
	}
	if err = ret.Transition(mapped, cmd.EventAt(), h.inspectWindow); err != nil {
		return ProcessShipmentEventResult{}, err
	}
	return h.update(ctx, uow, ret, result, OutcomeCommitted, "")
}

func (h *ProcessShipmentEventHandler) advancePickup(
	ret *returncase.Return,
	sh *shipment.ReturnShipment,
	cmd ProcessShipmentEventCommand,
) error {
	return ret.AdvancePickup(
		cmd.EventAt(),
		sh.Partner(),
		cmd.PartnerStatus(),
		sh.ID(),
		sh.TrackingNumber(),
		sh.ExternalShipmentID(),
	)
}

// update persists the mutated return and commits. A version conflict means a
// concurrent delivery won the race past the guards; the surviving writer
// already represents newer truth, so the loser reports a soft ignore.
func (h *ProcessShipmentEventHandler) update(
	ctx context.Context,
	uow WebhookUoW,
	ret *returncase.Return,
	result ProcessShipmentEventResult,
	outcome Outcome,
	reason string,
) (ProcessShipmentEventResult, error) {
	if err := uow.ReturnRepository().Update(ctx, ret); err != nil {
		if errors.Is(err, errs.ErrVersionConflict) {
			result.Outcome = OutcomeIgnored
			result.Reason = ReasonConflict
			return result, nil
		}
		return ProcessShipmentEventResult{}, err
	}
	return h.commit(ctx, uow, result, outcome, reason)
}

func (h *ProcessShipmentEventHandler) commit(
	ctx context.Context,
	uow WebhookUoW,
	result ProcessShipmentEventResult,
	outcome Outcome,
	reason string,
) (ProcessShipmentEventResult, error) {
	if err := uow.Commit(ctx); err != nil {
		return ProcessShipmentEventResult{}, err
	}
	result.Outcome = outcome
	result.Reason = reason
	return result, nil
}
