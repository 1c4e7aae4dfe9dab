package services_test

import (
	"strings"
	"testing"

	"returns/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
)

func TestDeriveEventID(t *testing.T) {
	t.Run("should prefer the explicit payload id", func(t *testing.T) {
		id := services.DeriveEventID("evt-42", "TRK-1", "PICKED_UP", "2026-03-02T12")
		assert.Equal(t, "evt-42", id)
	})

	t.Run("should ignore whitespace-only explicit ids", func(t *testing.T) {
		id := services.DeriveEventID("   ", "TRK-1", "PICKED_UP", "2026-03-02T12")
		assert.True(t, strings.HasPrefix(id, "h:"))
	})

	t.Run("should derive a deterministic fingerprint", func(t *testing.T) {
		first := services.DeriveEventID("", "TRK-1", "PICKED_UP", "2026-03-02T12")
		second := services.DeriveEventID("", "TRK-1", "PICKED_UP", "2026-03-02T12")

		assert.Equal(t, first, second)
		assert.True(t, strings.HasPrefix(first, "h:"))
		assert.Len(t, first, len("h:")+16)
	})

	t.Run("should separate events by status", func(t *testing.T) {
		pickedUp := services.DeriveEventID("", "TRK-1", "PICKED_UP", "2026-03-02T12")
		inTransit := services.DeriveEventID("", "TRK-1", "IN_TRANSIT", "2026-03-02T12")
		assert.NotEqual(t, pickedUp, inTransit)
	})

	t.Run("should separate events by coarsened hour", func(t *testing.T) {
		noon := services.DeriveEventID("", "TRK-1", "PICKED_UP", "2026-03-02T12")
		onePM := services.DeriveEventID("", "TRK-1", "PICKED_UP", "2026-03-02T13")
		assert.NotEqual(t, noon, onePM)
	})

	t.Run("should separate events by shipment key", func(t *testing.T) {
		first := services.DeriveEventID("", "TRK-1", "PICKED_UP", "2026-03-02T12")
		second := services.DeriveEventID("", "TRK-2", "PICKED_UP", "2026-03-02T12")
		assert.NotEqual(t, first, second)
	})
}
