package retstatus

import (
	"fmt"

	"returns/internal/pkg/errs"
)

// Status represents the lifecycle state of a customer return.
// It is a value object over the closed internal vocabulary; persistence and
// partner-facing payloads use the snake_case string form.
//
// The webhook-reachable subset carries an integer rank that expresses expected
// chronological progress of the pickup leg:
//
//	pickup_scheduled(10) < pickup_failed(11) / pickup_cancelled(12)
//	  < picked_up(20) < in_transit(30) < out_for_delivery(40)
//	  < delivered_to_seller(50)
//
// Statuses outside that subset (the pre-webhook Requested state and the
// post-inspection states) have rank 0. Rank 0 means "unranked": an unranked
// status never blocks a transition on rank grounds, which keeps unknown or
// future statuses from freezing the state machine.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Requested is the pre-webhook state set by the return-request flow.
	Requested

	// PickupScheduled means the partner accepted the pickup booking.
	PickupScheduled

	// PickupFailed means the partner attempted the pickup and failed.
	PickupFailed

	// PickupCancelled means the pickup booking was cancelled partner-side.
	PickupCancelled

	// PickedUp means the partner collected the shipment from the customer.
	PickedUp

	// InTransit means the shipment is moving back toward the seller.
	InTransit

	// OutForDelivery means the shipment is on the last leg to the seller.
	OutForDelivery

	// DeliveredToSeller is the terminal state of the pickup leg. Reaching it
	// starts the seller's inspection window.
	DeliveredToSeller

	// InspectionPassed is set by the (out-of-scope) inspection flow.
	InspectionPassed

	// InspectionFailed is set by the (out-of-scope) inspection flow.
	InspectionFailed
)

// getStatusStrings returns a map of Status values to their string representations.
// All statuses are included for string conversion.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:           "unknown",
		Requested:         "requested",
		PickupScheduled:   "pickup_scheduled",
		PickupFailed:      "pickup_failed",
		PickupCancelled:   "pickup_cancelled",
		PickedUp:          "picked_up",
		InTransit:         "in_transit",
		OutForDelivery:    "out_for_delivery",
		DeliveredToSeller: "delivered_to_seller",
		InspectionPassed:  "inspection_passed",
		InspectionFailed:  "inspection_failed",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
// Only valid statuses are included to support validation.
func getValidStatusStrings() map[Status]string {
	strings := getStatusStrings()
	delete(strings, Unknown)
	return strings
}

// getStatusRanks returns the rank table for the webhook-reachable subset.
// PickupFailed and PickupCancelled are deliberately ranked as siblings of
// PickupScheduled: a failure or cancellation arriving after the shipment is
// already in transit is treated as regressive and ignored.
func getStatusRanks() map[Status]int {
	return map[Status]int{
		PickupScheduled:   10,
		PickupFailed:      11,
		PickupCancelled:   12,
		PickedUp:          20,
		InTransit:         30,
		OutForDelivery:    40,
		DeliveredToSeller: 50,
	}
}

// Validate checks if the Status value is a member of the internal vocabulary.
// Unknown (0) and any out-of-range values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the snake_case wire form of the status.
// Invalid values render as "unknown". Implements fmt.Stringer.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Rank returns the chronological-progress rank for the webhook-reachable
// subset, or 0 for every other status. Rank 0 never blocks a transition.
func (s Status) Rank() int {
	return getStatusRanks()[s]
}

// WebhookAllowed reports whether a partner webhook is permitted to originate
// a transition into this status. The allow-list is exactly the ranked subset.
func (s Status) WebhookAllowed() bool {
	return s.Rank() > 0
}

// IsRankRegression reports whether moving from s to proposed would be a step
// backward in chronological progress. Both ranks must be non-zero for the
// comparison to apply: an unranked side never makes a move regressive.
func (s Status) IsRankRegression(proposed Status) bool {
	currentRank := s.Rank()
	proposedRank := proposed.Rank()
	return currentRank > 0 && proposedRank > 0 && proposedRank < currentRank
}

// StatusFromString parses the snake_case wire form back into a Status.
// Returns an error for strings outside the vocabulary.
func StatusFromString(raw string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == raw {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", raw))
}
