package services

import (
	"fmt"
	"testing"
	"time"

	"boletera/src/models"
	"boletera/src/types"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a throwaway in-memory database. A single connection
// keeps concurrent transactions serialized the way sqlite expects.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	inner, err := gdb.DB()
	require.NoError(t, err)
	inner.SetMaxOpenConns(1)
	require.NoError(t, gdb.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.TicketCategory{},
		&models.Ticket{},
		&models.AdmissionRecord{},
	))
	t.Cleanup(func() { inner.Close() })
	return gdb
}

func seedUser(t *testing.T, gdb *gorm.DB, role string) *models.User {
	t.Helper()
	user := models.User{
		UID:      fmt.Sprintf("uid-%s-%d", role, time.Now().UnixNano()),
		Email:    fmt.Sprintf("%s-%d@example.com", role, time.Now().UnixNano()),
		Name:     "Ana",
		LastName: "García",
		Role:     role,
		Active:   true,
	}
	require.NoError(t, gdb.Create(&user).Error)
	return &user
}

func seedEvent(t *testing.T, gdb *gorm.DB, organizerID uint, status types.EventStatus, capacityMax uint) *models.Event {
	t.Helper()
	starts := time.Now().Add(48 * time.Hour)
	ends := starts.Add(4 * time.Hour)
	event := models.Event{
		Name:        "Concierto de prueba",
		Location:    "Foro Central",
		StartsAt:    starts,
		EndsAt:      &ends,
		Status:      status,
		OrganizerID: organizerID,
		CapacityMax: capacityMax,
	}
	require.NoError(t, gdb.Create(&event).Error)
	return &event
}

func seedCategory(t *testing.T, gdb *gorm.DB, eventID uint, price string, available uint) *models.TicketCategory {
	t.Helper()
	p, err := decimal.NewFromString(price)
	require.NoError(t, err)
	category := models.TicketCategory{
		EventID:           eventID,
		Name:              "General",
		Price:             p,
		QuantityAvailable: available,
	}
	require.NoError(t, gdb.Create(&category).Error)
	return &category
}
