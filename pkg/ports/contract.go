package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/airdesk/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore implementation
// adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewState(sessionID)
		state.Stage = domain.StageConfirmingCity
		state.Pending.Origin = "Delhi"
		state.Pending.SuggestedCity = "Mumbai"
		state.Pending.SuggestionFor = domain.RoleTo
		state.Turns = 3

		err := store.Save(ctx, sessionID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, domain.StageConfirmingCity, loaded.Stage)
		assert.Equal(t, state.Pending, loaded.Pending)
		assert.Equal(t, 3, loaded.Turns)
	})

	t.Run("Load Returns Copy", func(t *testing.T) {
		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		loaded.Stage = domain.StageAwaitingDate

		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, domain.StageConfirmingCity, again.Stage, "mutating a loaded state must not leak into the store")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewState(sessionID))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewState(id1))
		_ = store.Save(ctx, id2, domain.NewState(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}

// RunLedgerContract verifies that a Ledger implementation adheres to the interface contract.
func RunLedgerContract(t *testing.T, ledger Ledger) {
	ctx := context.Background()
	booking := domain.Booking{
		ID:           "AB12CD",
		Origin:       "Delhi",
		Destination:  "Mumbai",
		FlightNumber: "AI101",
		Date:         "2025-03-01",
		Status:       domain.DefaultStatus,
		CreatedAt:    time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	t.Run("Put and Get", func(t *testing.T) {
		require.NoError(t, ledger.Put(ctx, booking))

		got, err := ledger.Get(ctx, booking.ID)
		require.NoError(t, err)
		assert.Equal(t, booking.ID, got.ID)
		assert.Equal(t, booking.Origin, got.Origin)
		assert.Equal(t, booking.Destination, got.Destination)
		assert.Equal(t, booking.FlightNumber, got.FlightNumber)
		assert.Equal(t, booking.Date, got.Date)
		assert.Equal(t, booking.Status, got.Status)
		assert.True(t, booking.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("Get Is Read-Only", func(t *testing.T) {
		first, err := ledger.Get(ctx, booking.ID)
		require.NoError(t, err)
		second, err := ledger.Get(ctx, booking.ID)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := ledger.Get(ctx, "ZZZZZZ")
		assert.ErrorIs(t, err, domain.ErrBookingNotFound)
	})

	t.Run("List", func(t *testing.T) {
		other := booking
		other.ID = "0A0A0A"
		require.NoError(t, ledger.Put(ctx, other))
		defer func() { _, _ = ledger.Remove(ctx, other.ID) }()

		all, err := ledger.List(ctx)
		require.NoError(t, err)
		ids := make([]string, 0, len(all))
		for _, b := range all {
			ids = append(ids, b.ID)
		}
		assert.Equal(t, []string{"0A0A0A", "AB12CD"}, ids)
	})

	t.Run("Remove", func(t *testing.T) {
		removed, err := ledger.Remove(ctx, booking.ID)
		require.NoError(t, err)
		assert.Equal(t, "AI101", removed.FlightNumber)

		_, err = ledger.Get(ctx, booking.ID)
		assert.ErrorIs(t, err, domain.ErrBookingNotFound)

		_, err = ledger.Remove(ctx, booking.ID)
		assert.ErrorIs(t, err, domain.ErrBookingNotFound)
	})
}
