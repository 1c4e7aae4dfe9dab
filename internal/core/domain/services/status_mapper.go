package services

import (
	"strings"

	"returns/internal/core/domain/model/retstatus"
)

// getPartnerStatusSynonyms returns the fixed synonym groups that translate
// partner status strings into the internal vocabulary. Keys are the
// canonicalized (trimmed, uppercased) partner forms.
func getPartnerStatusSynonyms() map[string]retstatus.Status {
	return map[string]retstatus.Status{
		"BOOKED":              retstatus.PickupScheduled,
		"CREATED":             retstatus.PickupScheduled,
		"PICKUP_SCHEDULED":    retstatus.PickupScheduled,
		"SCHEDULED":           retstatus.PickupScheduled,
		"PICKUP_FAILED":       retstatus.PickupFailed,
		"FAILED":              retstatus.PickupFailed,
		"NOT_PICKED":          retstatus.PickupFailed,
		"PICKUP_CANCELLED":    retstatus.PickupCancelled,
		"CANCELLED":           retstatus.PickupCancelled,
		"CANCELED":            retstatus.PickupCancelled,
		"PICKED_UP":           retstatus.PickedUp,
		"PICKED":              retstatus.PickedUp,
		"PICKUP_DONE":         retstatus.PickedUp,
		"IN_TRANSIT":          retstatus.InTransit,
		"INTRANSIT":           retstatus.InTransit,
		"TRANSIT":             retstatus.InTransit,
		"OUT_FOR_DELIVERY":    retstatus.OutForDelivery,
		"OFD":                 retstatus.OutForDelivery,
		"DELIVERED":           retstatus.DeliveredToSeller,
		"DELIVERED_TO_SELLER": retstatus.DeliveredToSeller,
		"RTO_DELIVERED":       retstatus.DeliveredToSeller,
	}
}

// MapPartnerStatus translates a raw partner status string into the internal
// vocabulary. The raw value is trimmed and uppercased before matching.
//
// An unrecognized status maps to (Unknown, false) and is NOT an error: the
// caller still records the raw event for audit but performs no status
// mutation. This separation of recording from acting lets new partner
// statuses appear in the feed without silently corrupting return state.
func MapPartnerStatus(raw string) (retstatus.Status, bool) {
	canonical := strings.ToUpper(strings.TrimSpace(raw))
	status, ok := getPartnerStatusSynonyms()[canonical]
	if !ok {
		return retstatus.Unknown, false
	}
	return status, true
}
