package services

import (
	"context"
	"testing"
	"time"

	"boletera/src/config"
	"boletera/src/models"
	"boletera/src/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newEventService(gdb *gorm.DB) *EventService {
	return NewEventService(gdb, NewAdmissionLog(gdb))
}

func TestEventCreate(t *testing.T) {
	gdb := newTestDB(t)
	organizer := seedUser(t, gdb, types.ROLE_ORGANIZER)
	svc := newEventService(gdb)
	ctx := context.Background()

	starts := time.Now().Add(72 * time.Hour).Format(config.TIME_PARSE_FORMAT)
	ends := time.Now().Add(76 * time.Hour).Format(config.TIME_PARSE_FORMAT)

	t.Run("new events start as borrador", func(t *testing.T) {
		event, err := svc.Create(ctx, organizer.ID, &types.CreateEventRequestBody{
			Name:        "Feria del Libro",
			Location:    "Centro de Convenciones",
			StartsAt:    starts,
			EndsAt:      &ends,
			CapacityMax: 500,
		})
		require.NoError(t, err)
		assert.Equal(t, types.EVENT_DRAFT, event.Status)
		assert.Equal(t, organizer.ID, event.OrganizerID)
		assert.Zero(t, event.CapacityCurrent)
	})

	t.Run("end before start is rejected", func(t *testing.T) {
		before := time.Now().Add(24 * time.Hour).Format(config.TIME_PARSE_FORMAT)
		_, err := svc.Create(ctx, organizer.ID, &types.CreateEventRequestBody{
			Name:        "Feria del Libro",
			Location:    "Centro de Convenciones",
			StartsAt:    starts,
			EndsAt:      &before,
			CapacityMax: 500,
		})
		assert.True(t, types.IsCode(err, types.CODE_VALIDATION_FAILED))
	})
}

func TestEventStatusTransitions(t *testing.T) {
	gdb := newTestDB(t)
	organizer := seedUser(t, gdb, types.ROLE_ORGANIZER)
	svc := newEventService(gdb)
	ctx := context.Background()

	t.Run("borrador to activo", func(t *testing.T) {
		event := seedEvent(t, gdb, organizer.ID, types.EVENT_DRAFT, 100)
		updated, err := svc.ChangeStatus(ctx, event.ID, organizer.ID, false, types.EVENT_ACTIVE)
		require.NoError(t, err)
		assert.Equal(t, types.EVENT_ACTIVE, updated.Status)
	})

	t.Run("borrador straight to finalizado is illegal", func(t *testing.T) {
		event := seedEvent(t, gdb, organizer.ID, types.EVENT_DRAFT, 100)
		_, err := svc.ChangeStatus(ctx, event.ID, organizer.ID, false, types.EVENT_FINISHED)
		assert.True(t, types.IsCode(err, types.CODE_VALIDATION_FAILED))
	})

	t.Run("terminal states cannot move", func(t *testing.T) {
		event := seedEvent(t, gdb, organizer.ID, types.EVENT_CANCELED, 100)
		_, err := svc.ChangeStatus(ctx, event.ID, organizer.ID, false, types.EVENT_ACTIVE)
		assert.True(t, types.IsCode(err, types.CODE_VALIDATION_FAILED))
	})

	t.Run("only owner or admin may transition", func(t *testing.T) {
		event := seedEvent(t, gdb, organizer.ID, types.EVENT_DRAFT, 100)
		stranger := seedUser(t, gdb, types.ROLE_ORGANIZER)
		_, err := svc.ChangeStatus(ctx, event.ID, stranger.ID, false, types.EVENT_ACTIVE)
		assert.True(t, types.IsCode(err, types.CODE_UNAUTHORIZED))

		_, err = svc.ChangeStatus(ctx, event.ID, stranger.ID, true, types.EVENT_ACTIVE)
		assert.NoError(t, err)
	})
}

func TestEventUpdateCapacityGuard(t *testing.T) {
	gdb := newTestDB(t)
	organizer := seedUser(t, gdb, types.ROLE_ORGANIZER)
	event := seedEvent(t, gdb, organizer.ID, types.EVENT_ACTIVE, 100)
	require.NoError(t, gdb.Model(&models.Event{}).
		Where("id = ?", event.ID).
		Update("capacity_current", 40).Error)

	svc := newEventService(gdb)
	ctx := context.Background()

	below := uint(30)
	_, err := svc.Update(ctx, event.ID, organizer.ID, false, &types.UpdateEventRequestBody{
		CapacityMax: &below,
	})
	assert.True(t, types.IsCode(err, types.CODE_VALIDATION_FAILED))

	above := uint(50)
	updated, err := svc.Update(ctx, event.ID, organizer.ID, false, &types.UpdateEventRequestBody{
		CapacityMax: &above,
	})
	require.NoError(t, err)
	assert.Equal(t, uint(50), updated.CapacityMax)
}

func TestSweepFinished(t *testing.T) {
	gdb := newTestDB(t)
	organizer := seedUser(t, gdb, types.ROLE_ORGANIZER)
	svc := newEventService(gdb)

	past := time.Now().Add(-2 * time.Hour)
	longPast := past.Add(-4 * time.Hour)

	ended := seedEvent(t, gdb, organizer.ID, types.EVENT_ACTIVE, 100)
	require.NoError(t, gdb.Model(&models.Event{}).Where("id = ?", ended.ID).
		Updates(map[string]any{"starts_at": longPast, "ends_at": past}).Error)

	openEnded := seedEvent(t, gdb, organizer.ID, types.EVENT_ACTIVE, 100)
	require.NoError(t, gdb.Model(&models.Event{}).Where("id = ?", openEnded.ID).
		Updates(map[string]any{"starts_at": past, "ends_at": nil}).Error)

	upcoming := seedEvent(t, gdb, organizer.ID, types.EVENT_ACTIVE, 100)
	draft := seedEvent(t, gdb, organizer.ID, types.EVENT_DRAFT, 100)
	require.NoError(t, gdb.Model(&models.Event{}).Where("id = ?", draft.ID).
		Updates(map[string]any{"starts_at": longPast, "ends_at": past}).Error)

	swept, err := svc.SweepFinished(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), swept)

	status := func(id uint) types.EventStatus {
		var ev models.Event
		require.NoError(t, gdb.First(&ev, id).Error)
		return ev.Status
	}
	assert.Equal(t, types.EVENT_FINISHED, status(ended.ID))
	assert.Equal(t, types.EVENT_FINISHED, status(openEnded.ID))
	assert.Equal(t, types.EVENT_ACTIVE, status(upcoming.ID))
	assert.Equal(t, types.EVENT_DRAFT, status(draft.ID), "drafts are never swept")
}

func TestOccupancy(t *testing.T) {
	gdb := newTestDB(t)
	organizer := seedUser(t, gdb, types.ROLE_ORGANIZER)
	event := seedEvent(t, gdb, organizer.ID, types.EVENT_ACTIVE, 10)
	require.NoError(t, gdb.Model(&models.Event{}).
		Where("id = ?", event.ID).
		Update("capacity_current", 4).Error)

	svc := newEventService(gdb)
	summary, err := svc.Occupancy(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(4), summary.Current)
	assert.Equal(t, uint(10), summary.Max)
	assert.Equal(t, uint(6), summary.Available)
	assert.InDelta(t, 40.0, summary.PercentageUse, 0.01)
}
