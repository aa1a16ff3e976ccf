package services

import (
	"context"
	"sync"
	"testing"

	"boletera/src/models"
	"boletera/src/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReserveCategoryCapacity(t *testing.T) {
	gdb := newTestDB(t)
	organizer := seedUser(t, gdb, types.ROLE_ORGANIZER)
	event := seedEvent(t, gdb, organizer.ID, types.EVENT_ACTIVE, 100)
	category := seedCategory(t, gdb, event.ID, "250.00", 5)

	store := NewInventoryStore(gdb)
	ctx := context.Background()

	t.Run("increments quantity_sold up to the limit", func(t *testing.T) {
		updated, err := store.ReserveCategoryCapacity(ctx, category.ID, 3)
		require.NoError(t, err)
		assert.Equal(t, uint(3), updated.QuantitySold)

		updated, err = store.ReserveCategoryCapacity(ctx, category.ID, 2)
		require.NoError(t, err)
		assert.Equal(t, uint(5), updated.QuantitySold)
	})

	t.Run("rejects overshoot without partial increment", func(t *testing.T) {
		_, err := store.ReserveCategoryCapacity(ctx, category.ID, 1)
		assert.True(t, types.IsCode(err, types.CODE_SOLD_OUT))

		var current models.TicketCategory
		require.NoError(t, gdb.First(&current, category.ID).Error)
		assert.Equal(t, uint(5), current.QuantitySold)
	})

	t.Run("missing category reports not found, not sold out", func(t *testing.T) {
		_, err := store.ReserveCategoryCapacity(ctx, 9999, 1)
		assert.True(t, types.IsCode(err, types.CODE_NOT_FOUND))
	})
}

func TestReserveCategoryCapacityConcurrent(t *testing.T) {
	gdb := newTestDB(t)
	organizer := seedUser(t, gdb, types.ROLE_ORGANIZER)
	event := seedEvent(t, gdb, organizer.ID, types.EVENT_ACTIVE, 100)
	category := seedCategory(t, gdb, event.ID, "250.00", 1)

	store := NewInventoryStore(gdb)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = store.ReserveCategoryCapacity(context.Background(), category.ID, 1)
		}()
	}
	wg.Wait()

	winners, soldOut := 0, 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else if types.IsCode(err, types.CODE_SOLD_OUT) {
			soldOut++
		}
	}
	assert.Equal(t, 1, winners, "exactly one reservation must win")
	assert.Equal(t, 1, soldOut, "the loser must see agotadas")

	var current models.TicketCategory
	require.NoError(t, gdb.First(&current, category.ID).Error)
	assert.Equal(t, uint(1), current.QuantitySold)
}

func TestReserveEventCapacity(t *testing.T) {
	gdb := newTestDB(t)
	organizer := seedUser(t, gdb, types.ROLE_ORGANIZER)
	event := seedEvent(t, gdb, organizer.ID, types.EVENT_ACTIVE, 2)

	store := NewInventoryStore(gdb)
	ctx := context.Background()

	t.Run("admits up to capacity_max", func(t *testing.T) {
		updated, err := store.ReserveEventCapacity(ctx, event.ID, 2)
		require.NoError(t, err)
		assert.Equal(t, uint(2), updated.CapacityCurrent)
	})

	t.Run("rejects once full", func(t *testing.T) {
		_, err := store.ReserveEventCapacity(ctx, event.ID, 1)
		assert.True(t, types.IsCode(err, types.CODE_CAPACITY_FULL))
	})

	t.Run("release clamps at zero", func(t *testing.T) {
		updated, err := store.ReserveEventCapacity(ctx, event.ID, -1)
		require.NoError(t, err)
		assert.Equal(t, uint(1), updated.CapacityCurrent)

		updated, err = store.ReserveEventCapacity(ctx, event.ID, -5)
		require.NoError(t, err)
		assert.Equal(t, uint(0), updated.CapacityCurrent)
	})

	t.Run("missing event reports not found", func(t *testing.T) {
		_, err := store.ReserveEventCapacity(ctx, 9999, 1)
		assert.True(t, types.IsCode(err, types.CODE_NOT_FOUND))
	})
}
