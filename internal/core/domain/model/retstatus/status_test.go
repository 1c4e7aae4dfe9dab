package retstatus_test

import (
	"fmt"
	"testing"

	"returns/internal/core/domain/model/retstatus"
	"returns/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Constants(t *testing.T) {
	t.Run("should have Unknown as zero value", func(t *testing.T) {
		assert.Equal(t, 0, int(retstatus.Unknown))
	})

	t.Run("should have distinct values", func(t *testing.T) {
		statuses := []retstatus.Status{
			retstatus.Unknown,
			retstatus.Requested,
			retstatus.PickupScheduled,
			retstatus.PickupFailed,
			retstatus.PickupCancelled,
			retstatus.PickedUp,
			retstatus.InTransit,
			retstatus.OutForDelivery,
			retstatus.DeliveredToSeller,
			retstatus.InspectionPassed,
			retstatus.InspectionFailed,
		}

		for i, status1 := range statuses {
			for j, status2 := range statuses {
				if i != j {
					assert.NotEqual(t, status1, status2,
						"statuses at indices %d and %d should be different", i, j)
				}
			}
		}
	})
}

func TestStatus_Validate(t *testing.T) {
	t.Run("should validate valid statuses", func(t *testing.T) {
		validStatuses := []retstatus.Status{
			retstatus.Requested,
			retstatus.PickupScheduled,
			retstatus.PickupFailed,
			retstatus.PickupCancelled,
			retstatus.PickedUp,
			retstatus.InTransit,
			retstatus.OutForDelivery,
			retstatus.DeliveredToSeller,
			retstatus.InspectionPassed,
			retstatus.InspectionFailed,
		}

		for _, status := range validStatuses {
			t.Run(fmt.Sprintf("should validate %s status", status.String()), func(t *testing.T) {
				require.NoError(t, status.Validate())
			})
		}
	})

	t.Run("should reject Unknown status", func(t *testing.T) {
		err := retstatus.Unknown.Validate()

		require.Error(t, err)
		assert.IsType(t, &errs.ValueIsInvalidError{}, err)
		assert.Contains(t, err.Error(), "status is invalid")
	})

	t.Run("should reject out-of-range status values", func(t *testing.T) {
		for _, status := range []retstatus.Status{retstatus.Status(-1), retstatus.Status(42), retstatus.Status(100)} {
			t.Run(fmt.Sprintf("should reject status value %d", int(status)), func(t *testing.T) {
				err := status.Validate()

				require.Error(t, err)
				assert.Contains(t, err.Error(), fmt.Sprintf("%d is not a valid status", int(status)))
			})
		}
	})
}

func TestStatus_String(t *testing.T) {
	t.Run("should return snake_case wire form", func(t *testing.T) {
		testCases := []struct {
			status   retstatus.Status
			expected string
		}{
			{retstatus.Requested, "requested"},
			{retstatus.PickupScheduled, "pickup_scheduled"},
			{retstatus.PickupFailed, "pickup_failed"},
			{retstatus.PickupCancelled, "pickup_cancelled"},
			{retstatus.PickedUp, "picked_up"},
			{retstatus.InTransit, "in_transit"},
			{retstatus.OutForDelivery, "out_for_delivery"},
			{retstatus.DeliveredToSeller, "delivered_to_seller"},
			{retstatus.InspectionPassed, "inspection_passed"},
			{retstatus.InspectionFailed, "inspection_failed"},
		}

		for _, tc := range testCases {
			assert.Equal(t, tc.expected, tc.status.String())
		}
	})

	t.Run("should return unknown for invalid statuses", func(t *testing.T) {
		assert.Equal(t, "unknown", retstatus.Unknown.String())
		assert.Equal(t, "unknown", retstatus.Status(99).String())
	})
}

func TestStatus_Rank(t *testing.T) {
	t.Run("should rank the webhook-reachable subset in chronological order", func(t *testing.T) {
		assert.Equal(t, 10, retstatus.PickupScheduled.Rank())
		assert.Equal(t, 11, retstatus.PickupFailed.Rank())
		assert.Equal(t, 12, retstatus.PickupCancelled.Rank())
		assert.Equal(t, 20, retstatus.PickedUp.Rank())
		assert.Equal(t, 30, retstatus.InTransit.Rank())
		assert.Equal(t, 40, retstatus.OutForDelivery.Rank())
		assert.Equal(t, 50, retstatus.DeliveredToSeller.Rank())
	})

	t.Run("should rank everything outside the subset as 0", func(t *testing.T) {
		assert.Equal(t, 0, retstatus.Unknown.Rank())
		assert.Equal(t, 0, retstatus.Requested.Rank())
		assert.Equal(t, 0, retstatus.InspectionPassed.Rank())
		assert.Equal(t, 0, retstatus.InspectionFailed.Rank())
	})
}

func TestStatus_WebhookAllowed(t *testing.T) {
	t.Run("should allow exactly the ranked subset", func(t *testing.T) {
		allowed := []retstatus.Status{
			retstatus.PickupScheduled,
			retstatus.PickupFailed,
			retstatus.PickupCancelled,
			retstatus.PickedUp,
			retstatus.InTransit,
			retstatus.OutForDelivery,
			retstatus.DeliveredToSeller,
		}
		for _, status := range allowed {
			assert.True(t, status.WebhookAllowed(), "%s should be webhook-allowed", status)
		}
	})

	t.Run("should refuse the unranked statuses", func(t *testing.T) {
		for _, status := range []retstatus.Status{
			retstatus.Unknown,
			retstatus.Requested,
			retstatus.InspectionPassed,
			retstatus.InspectionFailed,
		} {
			assert.False(t, status.WebhookAllowed(), "%s should not be webhook-allowed", status)
		}
	})
}

func TestStatus_IsRankRegression(t *testing.T) {
	t.Run("should flag a backward move between ranked statuses", func(t *testing.T) {
		assert.True(t, retstatus.DeliveredToSeller.IsRankRegression(retstatus.OutForDelivery))
		assert.True(t, retstatus.InTransit.IsRankRegression(retstatus.PickupScheduled))
	})

	t.Run("should flag a pickup failure arriving after transit", func(t *testing.T) {
		// Failure and cancellation rank just above pickup_scheduled, so a late
		// failure event after in_transit is regressive and must be ignored.
		assert.True(t, retstatus.InTransit.IsRankRegression(retstatus.PickupFailed))
		assert.True(t, retstatus.PickedUp.IsRankRegression(retstatus.PickupCancelled))
	})

	t.Run("should accept forward and equal-rank moves", func(t *testing.T) {
		assert.False(t, retstatus.PickupScheduled.IsRankRegression(retstatus.PickedUp))
		assert.False(t, retstatus.PickupScheduled.IsRankRegression(retstatus.PickupFailed))
		assert.False(t, retstatus.InTransit.IsRankRegression(retstatus.InTransit))
	})

	t.Run("should never block when either side is unranked", func(t *testing.T) {
		assert.False(t, retstatus.Requested.IsRankRegression(retstatus.PickupScheduled))
		assert.False(t, retstatus.DeliveredToSeller.IsRankRegression(retstatus.InspectionPassed))
		assert.False(t, retstatus.Unknown.IsRankRegression(retstatus.PickedUp))
	})
}

func TestStatusFromString(t *testing.T) {
	t.Run("should round-trip every valid status", func(t *testing.T) {
		for _, status := range []retstatus.Status{
			retstatus.Requested,
			retstatus.PickupScheduled,
			retstatus.DeliveredToSeller,
			retstatus.InspectionFailed,
		} {
			parsed, err := retstatus.StatusFromString(status.String())
			require.NoError(t, err)
			assert.Equal(t, status, parsed)
		}
	})

	t.Run("should reject strings outside the vocabulary", func(t *testing.T) {
		_, err := retstatus.StatusFromString("on_the_moon")
		require.Error(t, err)
		assert.IsType(t, &errs.ValueIsInvalidError{}, err)
	})

	t.Run("should reject the unknown wire form", func(t *testing.T) {
		_, err := retstatus.StatusFromString("unknown")
		require.Error(t, err)
	})
}
