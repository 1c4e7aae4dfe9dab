package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// fingerprintLength is the number of hex characters kept from the content
// hash. Short enough to index cheaply, long enough that genuinely distinct
// events do not collide in practice.
const fingerprintLength = 16

// DeriveEventID produces the stable identity of a webhook event.
//
// When the partner supplies an explicit event id it wins. Otherwise the id is
// a deterministic content fingerprint over the identifying key, the raw
// partner status, and the hour-coarsened timestamp: a retried delivery of the
// same logical event collides with the original, while a different status or
// a different coarsened hour yields a new identity. The "h:" prefix marks
// derived ids apart from partner-supplied ones in the event log.
func DeriveEventID(explicitID, trackingOrShipmentKey, partnerStatus, coarseTimestamp string) string {
	if id := strings.TrimSpace(explicitID); id != "" {
		return id
	}

	sum := sha256.Sum256(fmt.Appendf(nil, "%s|%s|%s", trackingOrShipmentKey, partnerStatus, coarseTimestamp))
	return "h:" + hex.EncodeToString(sum[:])[:fingerprintLength]
}
