package services

import (
	"returns/internal/core/domain/model/retstatus"
)

// SystemTransitionPolicy is the table-backed default implementation of the
// transition-legality oracle. The authoritative table is owned by the
// return-order subsystem; this default keeps the service runnable
// stand-alone and encodes the same rules for the pickup leg.
type SystemTransitionPolicy struct{}

// NewSystemTransitionPolicy creates the default transition policy.
func NewSystemTransitionPolicy() SystemTransitionPolicy {
	return SystemTransitionPolicy{}
}

// getLegalTransitions returns the allowed moves per current status. Partners
// routinely skip intermediate states (a shipment can go from scheduled
// straight to delivered when scans are missed), so every forward move within
// the ranked subset is legal.
func getLegalTransitions() map[retstatus.Status][]retstatus.Status {
	return map[retstatus.Status][]retstatus.Status{
		retstatus.Requested: {
			retstatus.PickupScheduled,
		},
		retstatus.PickupScheduled: {
			retstatus.PickupFailed,
			retstatus.PickupCancelled,
			retstatus.PickedUp,
			retstatus.InTransit,
			retstatus.OutForDelivery,
			retstatus.DeliveredToSeller,
		},
		retstatus.PickupFailed: {
			retstatus.PickupScheduled,
			retstatus.PickedUp,
		},
		retstatus.PickupCancelled: {
			retstatus.PickupScheduled,
		},
		retstatus.PickedUp: {
			retstatus.InTransit,
			retstatus.OutForDelivery,
			retstatus.DeliveredToSeller,
		},
		retstatus.InTransit: {
			retstatus.OutForDelivery,
			retstatus.DeliveredToSeller,
		},
		retstatus.OutForDelivery: {
			retstatus.DeliveredToSeller,
		},
		retstatus.DeliveredToSeller: {
			retstatus.InspectionPassed,
			retstatus.InspectionFailed,
		},
	}
}

// IsTransitionLegal reports whether current -> proposed is allowed for the
// given actor role. The "system" role (the webhook engine) may only perform
// pickup-leg moves; inspection outcomes belong to human actors in the
// inspection flow.
func (SystemTransitionPolicy) IsTransitionLegal(current, proposed retstatus.Status, actor string) bool {
	if actor == "system" && !proposed.WebhookAllowed() {
		return false
	}

	for _, allowed := range getLegalTransitions()[current] {
		if allowed == proposed {
			return true
		}
	}
	return false
}
