package services

import (
	"context"
	"testing"

	"boletera/src/models"
	"boletera/src/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryCreate(t *testing.T) {
	gdb := newTestDB(t)
	organizer := seedUser(t, gdb, types.ROLE_ORGANIZER)
	other := seedUser(t, gdb, types.ROLE_ORGANIZER)
	event := seedEvent(t, gdb, organizer.ID, types.EVENT_DRAFT, 100)

	svc := NewCategoryService(gdb)
	ctx := context.Background()

	t.Run("creates with parsed price", func(t *testing.T) {
		category, err := svc.Create(ctx, organizer.ID, false, &types.CreateCategoryRequestBody{
			EventID:           event.ID,
			Name:              "VIP",
			Price:             "450.00",
			QuantityAvailable: 20,
		})
		require.NoError(t, err)
		assert.Equal(t, "450", category.Price.String())
		assert.Zero(t, category.QuantitySold)
	})

	t.Run("rejects malformed price", func(t *testing.T) {
		_, err := svc.Create(ctx, organizer.ID, false, &types.CreateCategoryRequestBody{
			EventID:           event.ID,
			Name:              "VIP",
			Price:             "precio",
			QuantityAvailable: 20,
		})
		assert.True(t, types.IsCode(err, types.CODE_VALIDATION_FAILED))
	})

	t.Run("only the owner or an admin may add categories", func(t *testing.T) {
		_, err := svc.Create(ctx, other.ID, false, &types.CreateCategoryRequestBody{
			EventID:           event.ID,
			Name:              "General",
			Price:             "100.00",
			QuantityAvailable: 10,
		})
		assert.True(t, types.IsCode(err, types.CODE_UNAUTHORIZED))

		_, err = svc.Create(ctx, other.ID, true, &types.CreateCategoryRequestBody{
			EventID:           event.ID,
			Name:              "General",
			Price:             "100.00",
			QuantityAvailable: 10,
		})
		assert.NoError(t, err)
	})

	t.Run("unknown event reports not found", func(t *testing.T) {
		_, err := svc.Create(ctx, organizer.ID, false, &types.CreateCategoryRequestBody{
			EventID:           9999,
			Name:              "General",
			Price:             "100.00",
			QuantityAvailable: 10,
		})
		assert.True(t, types.IsCode(err, types.CODE_NOT_FOUND))
	})
}

func TestCategoryUpdateLoweringGuard(t *testing.T) {
	gdb := newTestDB(t)
	organizer := seedUser(t, gdb, types.ROLE_ORGANIZER)
	event := seedEvent(t, gdb, organizer.ID, types.EVENT_ACTIVE, 100)
	category := seedCategory(t, gdb, event.ID, "100.00", 10)

	require.NoError(t, gdb.Model(&models.TicketCategory{}).
		Where("id = ?", category.ID).
		Update("quantity_sold", 6).Error)

	svc := NewCategoryService(gdb)
	ctx := context.Background()

	t.Run("lowering below quantity_sold is rejected without mutation", func(t *testing.T) {
		lower := uint(5)
		_, err := svc.Update(ctx, category.ID, organizer.ID, false, &types.UpdateCategoryRequestBody{
			QuantityAvailable: &lower,
		})
		assert.True(t, types.IsCode(err, types.CODE_VALIDATION_FAILED))

		var current models.TicketCategory
		require.NoError(t, gdb.First(&current, category.ID).Error)
		assert.Equal(t, uint(10), current.QuantityAvailable)
	})

	t.Run("lowering to exactly quantity_sold is allowed", func(t *testing.T) {
		exact := uint(6)
		updated, err := svc.Update(ctx, category.ID, organizer.ID, false, &types.UpdateCategoryRequestBody{
			QuantityAvailable: &exact,
		})
		require.NoError(t, err)
		assert.Equal(t, uint(6), updated.QuantityAvailable)
	})
}

func TestCategoryDelete(t *testing.T) {
	gdb := newTestDB(t)
	organizer := seedUser(t, gdb, types.ROLE_ORGANIZER)
	event := seedEvent(t, gdb, organizer.ID, types.EVENT_ACTIVE, 100)

	svc := NewCategoryService(gdb)
	ctx := context.Background()

	t.Run("deletable while nothing is sold", func(t *testing.T) {
		category := seedCategory(t, gdb, event.ID, "100.00", 10)
		require.NoError(t, svc.Delete(ctx, category.ID, organizer.ID, false))
	})

	t.Run("blocked once tickets exist", func(t *testing.T) {
		category := seedCategory(t, gdb, event.ID, "100.00", 10)
		require.NoError(t, gdb.Model(&models.TicketCategory{}).
			Where("id = ?", category.ID).
			Update("quantity_sold", 1).Error)
		err := svc.Delete(ctx, category.ID, organizer.ID, false)
		assert.True(t, types.IsCode(err, types.CODE_VALIDATION_FAILED))
	})
}

func TestCategoryListAvailable(t *testing.T) {
	gdb := newTestDB(t)
	organizer := seedUser(t, gdb, types.ROLE_ORGANIZER)
	event := seedEvent(t, gdb, organizer.ID, types.EVENT_ACTIVE, 100)
	open := seedCategory(t, gdb, event.ID, "100.00", 10)
	exhausted := seedCategory(t, gdb, event.ID, "50.00", 2)
	require.NoError(t, gdb.Model(&models.TicketCategory{}).
		Where("id = ?", exhausted.ID).
		Update("quantity_sold", 2).Error)

	svc := NewCategoryService(gdb)
	list, err := svc.ListAvailable(context.Background(), event.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, open.ID, list[0].ID)
}
