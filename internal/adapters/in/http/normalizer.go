package http

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"returns/internal/pkg/errs"
)

// Partner payloads disagree on field naming, so each logical field is looked
// up under its known synonyms in priority order.
var (
	trackingNumberFields = []string{"tracking_number", "trackingNumber", "awb", "waybill"}
	externalIDFields     = []string{"shipment_id", "shipmentId", "order_id"}
	statusFields         = []string{"status", "current_status"}
	eventTimeFields      = []string{"event_time", "timestamp", "status_date", "updated_at"}
	eventIDFields        = []string{"event_id", "eventId"}
)

// timestampLayouts are tried in order against every timestamp candidate.
var timestampLayouts = []string{time.RFC3339, "2006-01-02 15:04:05"}

// NormalizedEvent is a partner webhook payload reduced to the canonical
// fields the processing command needs.
type NormalizedEvent struct {
	TrackingNumber     string
	ExternalShipmentID string
	PartnerStatus      string
	ExplicitEventID    string

	// EventAt is the partner-reported event time, falling back to the
	// receipt time when the payload carries no parseable timestamp.
	EventAt time.Time

	// CoarseTimestamp is EventAt truncated to the hour, used for
	// content-based event identity when the payload has no explicit id.
	CoarseTimestamp string
}

// NormalizeWebhookPayload extracts the canonical event fields from a raw
// partner payload. Fails when the body is not a JSON object or when neither
// a tracking number nor an external shipment id can be found, since such an
// event cannot be matched to any shipment.
func NormalizeWebhookPayload(body []byte, receivedAt time.Time) (NormalizedEvent, error) {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return NormalizedEvent{}, errs.NewValueIsRequiredError("json payload")
	}

	event := NormalizedEvent{
		TrackingNumber:     firstString(payload, trackingNumberFields),
		ExternalShipmentID: firstString(payload, externalIDFields),
		PartnerStatus:      firstString(payload, statusFields),
		ExplicitEventID:    firstString(payload, eventIDFields),
	}

	if event.TrackingNumber == "" && event.ExternalShipmentID == "" {
		return NormalizedEvent{}, errs.NewValueIsRequiredError("tracking number or shipment id")
	}

	event.EventAt = firstTimestamp(payload, receivedAt)
	event.CoarseTimestamp = event.EventAt.UTC().Format(time.RFC3339)[:13]

	return event, nil
}

// firstString returns the first non-empty string value found under the given
// keys. Numeric values are accepted too, since some partners send order ids
// as JSON numbers.
func firstString(payload map[string]any, keys []string) string {
	for _, key := range keys {
		switch value := payload[key].(type) {
		case string:
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		case float64:
			return strconv.FormatFloat(value, 'f', -1, 64)
		}
	}

	return ""
}

// firstTimestamp returns the first parseable timestamp found under the known
// keys, or fallback when every candidate is absent or unparseable.
func firstTimestamp(payload map[string]any, fallback time.Time) time.Time {
	for _, key := range eventTimeFields {
		raw, ok := payload[key].(string)
		if !ok {
			continue
		}

		for _, layout := range timestampLayouts {
			if parsed, err := time.Parse(layout, raw); err == nil {
				return parsed
			}
		}
	}

	return fallback
}
