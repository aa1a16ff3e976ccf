package services

import (
	"context"
	"testing"

	"boletera/src/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmissionLog(t *testing.T) {
	f := newGateFixture(t, 100, 20)
	admissions := NewAdmissionLog(f.gdb)
	ctx := context.Background()

	first := f.buyTicket(t)
	second := f.buyTicket(t)

	t.Run("records carry the operator and location", func(t *testing.T) {
		location := "acceso sur"
		record, err := admissions.RecordAdmission(ctx, first.ID, f.event.ID, f.operator.ID, &location)
		require.NoError(t, err)
		assert.NotZero(t, record.ID)
		assert.False(t, record.AdmittedAt.IsZero())
	})

	t.Run("second row for the same ticket hits the unique index", func(t *testing.T) {
		_, err := admissions.RecordAdmission(ctx, first.ID, f.event.ID, f.operator.ID, nil)
		assert.True(t, types.IsCode(err, types.CODE_ALREADY_USED))
	})

	t.Run("has admission is display-only state", func(t *testing.T) {
		seen, err := admissions.HasAdmission(ctx, first.ID)
		require.NoError(t, err)
		assert.True(t, seen)

		seen, err = admissions.HasAdmission(ctx, second.ID)
		require.NoError(t, err)
		assert.False(t, seen)
	})

	t.Run("count and listing stay consistent", func(t *testing.T) {
		_, err := admissions.RecordAdmission(ctx, second.ID, f.event.ID, f.operator.ID, nil)
		require.NoError(t, err)

		count, err := admissions.CountByEvent(ctx, f.event.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		records, err := admissions.ListByEvent(ctx, f.event.ID)
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("recent listing clamps the limit", func(t *testing.T) {
		records, err := admissions.RecentByEvent(ctx, f.event.ID, 1)
		require.NoError(t, err)
		assert.Len(t, records, 1)

		records, err = admissions.RecentByEvent(ctx, f.event.ID, 0)
		require.NoError(t, err)
		assert.Len(t, records, 2, "zero falls back to the default limit")
	})

	t.Run("per-category breakdown", func(t *testing.T) {
		stats, err := admissions.StatsByCategory(ctx, f.event.ID)
		require.NoError(t, err)
		require.Len(t, stats, 1)
		assert.Equal(t, f.category.ID, stats[0].CategoryID)
		assert.Equal(t, "General", stats[0].CategoryName)
		assert.Equal(t, int64(2), stats[0].Total)
	})
}
