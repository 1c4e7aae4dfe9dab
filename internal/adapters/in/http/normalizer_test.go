package http_test

import (
	"testing"
	"time"

	adapterhttp "returns/internal/adapters/in/http"
	"returns/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReceivedAt() time.Time {
	return time.Date(2026, 3, 14, 10, 42, 7, 0, time.UTC)
}

func TestNormalizeWebhookPayload_CanonicalFields(t *testing.T) {
	body := []byte(`{
		"tracking_number": "TRK-1",
		"shipment_id": "EX-1",
		"status": "PICKED_UP",
		"event_time": "2026-03-14T09:30:00Z",
		"event_id": "evt-42"
	}`)

	event, err := adapterhttp.NormalizeWebhookPayload(body, testReceivedAt())

	require.NoError(t, err)
	assert.Equal(t, "TRK-1", event.TrackingNumber)
	assert.Equal(t, "EX-1", event.ExternalShipmentID)
	assert.Equal(t, "PICKED_UP", event.PartnerStatus)
	assert.Equal(t, "evt-42", event.ExplicitEventID)
	assert.Equal(t, time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC), event.EventAt)
	assert.Equal(t, "2026-03-14T09", event.CoarseTimestamp)
}

func TestNormalizeWebhookPayload_FieldSynonyms(t *testing.T) {
	t.Run("awb and order_id variants", func(t *testing.T) {
		body := []byte(`{"awb": "TRK-2", "order_id": "EX-2", "current_status": "IN_TRANSIT"}`)

		event, err := adapterhttp.NormalizeWebhookPayload(body, testReceivedAt())

		require.NoError(t, err)
		assert.Equal(t, "TRK-2", event.TrackingNumber)
		assert.Equal(t, "EX-2", event.ExternalShipmentID)
		assert.Equal(t, "IN_TRANSIT", event.PartnerStatus)
	})

	t.Run("camelCase variants", func(t *testing.T) {
		body := []byte(`{"trackingNumber": "TRK-3", "shipmentId": "EX-3", "eventId": "evt-3"}`)

		event, err := adapterhttp.NormalizeWebhookPayload(body, testReceivedAt())

		require.NoError(t, err)
		assert.Equal(t, "TRK-3", event.TrackingNumber)
		assert.Equal(t, "EX-3", event.ExternalShipmentID)
		assert.Equal(t, "evt-3", event.ExplicitEventID)
	})

	t.Run("earlier synonym wins", func(t *testing.T) {
		body := []byte(`{"tracking_number": "TRK-A", "awb": "TRK-B"}`)

		event, err := adapterhttp.NormalizeWebhookPayload(body, testReceivedAt())

		require.NoError(t, err)
		assert.Equal(t, "TRK-A", event.TrackingNumber)
	})

	t.Run("numeric order id is stringified", func(t *testing.T) {
		body := []byte(`{"order_id": 987654}`)

		event, err := adapterhttp.NormalizeWebhookPayload(body, testReceivedAt())

		require.NoError(t, err)
		assert.Equal(t, "987654", event.ExternalShipmentID)
	})

	t.Run("whitespace-only value is skipped", func(t *testing.T) {
		body := []byte(`{"tracking_number": "  ", "awb": "TRK-REAL"}`)

		event, err := adapterhttp.NormalizeWebhookPayload(body, testReceivedAt())

		require.NoError(t, err)
		assert.Equal(t, "TRK-REAL", event.TrackingNumber)
	})
}

func TestNormalizeWebhookPayload_Timestamps(t *testing.T) {
	t.Run("plain datetime layout", func(t *testing.T) {
		body := []byte(`{"tracking_number": "TRK-1", "status_date": "2026-03-14 08:15:00"}`)

		event, err := adapterhttp.NormalizeWebhookPayload(body, testReceivedAt())

		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 3, 14, 8, 15, 0, 0, time.UTC), event.EventAt)
	})

	t.Run("unparseable timestamp falls back to receipt time", func(t *testing.T) {
		body := []byte(`{"tracking_number": "TRK-1", "timestamp": "last tuesday"}`)

		event, err := adapterhttp.NormalizeWebhookPayload(body, testReceivedAt())

		require.NoError(t, err)
		assert.Equal(t, testReceivedAt(), event.EventAt)
	})

	t.Run("missing timestamp falls back to receipt time", func(t *testing.T) {
		body := []byte(`{"tracking_number": "TRK-1"}`)

		event, err := adapterhttp.NormalizeWebhookPayload(body, testReceivedAt())

		require.NoError(t, err)
		assert.Equal(t, testReceivedAt(), event.EventAt)
		assert.Equal(t, "2026-03-14T10", event.CoarseTimestamp)
	})
}

func TestNormalizeWebhookPayload_Rejections(t *testing.T) {
	t.Run("malformed json", func(t *testing.T) {
		_, err := adapterhttp.NormalizeWebhookPayload([]byte(`{not json`), testReceivedAt())

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("no identifying key", func(t *testing.T) {
		_, err := adapterhttp.NormalizeWebhookPayload(
			[]byte(`{"status": "PICKED_UP", "event_time": "2026-03-14T09:30:00Z"}`),
			testReceivedAt(),
		)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}
