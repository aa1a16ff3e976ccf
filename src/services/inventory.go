package services

import (
	"context"
	"errors"
	"log"

	"boletera/src/models"
	"boletera/src/types"

	"gorm.io/gorm"
)

// InventoryStore owns the two shared capacity counters: an event's
// capacity_current and a category's quantity_sold. Every mutation goes
// through a single conditional UPDATE so concurrent callers can never
// oversell; there is no read-then-write window anywhere in this file.
type InventoryStore struct {
	db *gorm.DB
}

func NewInventoryStore(db *gorm.DB) *InventoryStore {
	return &InventoryStore{db: db}
}

// WithTx returns a store bound to an open transaction so the orchestrators
// can compose capacity adjustments with ledger writes atomically.
func (s *InventoryStore) WithTx(tx *gorm.DB) *InventoryStore {
	return &InventoryStore{db: tx}
}

// ReserveEventCapacity adjusts capacity_current by delta and returns the
// event's post-adjustment state. A positive delta fails with AFORO_COMPLETO
// instead of exceeding capacity_max; a negative delta clamps at zero.
func (s *InventoryStore) ReserveEventCapacity(ctx context.Context, eventID uint, delta int) (*models.Event, error) {
	tx := s.db.WithContext(ctx)

	if delta >= 0 {
		res := tx.
			Model(&models.Event{}).
			Where("id = ? AND capacity_current + ? <= capacity_max", eventID, delta).
			UpdateColumn("capacity_current", gorm.Expr("capacity_current + ?", delta))
		if res.Error != nil {
			log.Printf("[inventory] event capacity update failed: %s\n", res.Error.Error())
			return nil, types.StorageError(res.Error)
		}
		if res.RowsAffected == 0 {
			if _, err := s.eventExists(tx, eventID); err != nil {
				return nil, err
			}
			return nil, types.NewAppError(types.CODE_CAPACITY_FULL, "")
		}
	} else {
		res := tx.
			Model(&models.Event{}).
			Where("id = ?", eventID).
			UpdateColumn("capacity_current", gorm.Expr(
				"CASE WHEN capacity_current + ? < 0 THEN 0 ELSE capacity_current + ? END", delta, delta))
		if res.Error != nil {
			log.Printf("[inventory] event capacity release failed: %s\n", res.Error.Error())
			return nil, types.StorageError(res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, types.NewAppError(types.CODE_NOT_FOUND, "")
		}
	}

	var event models.Event
	if err := tx.Where(&models.Event{ID: eventID}).First(&event).Error; err != nil {
		return nil, types.StorageError(err)
	}
	return &event, nil
}

// ReserveCategoryCapacity increments quantity_sold by qty, all or nothing.
// Losing the race against a concurrent purchase surfaces as
// ENTRADAS_AGOTADAS with no mutation.
func (s *InventoryStore) ReserveCategoryCapacity(ctx context.Context, categoryID uint, qty uint) (*models.TicketCategory, error) {
	tx := s.db.WithContext(ctx)

	res := tx.
		Model(&models.TicketCategory{}).
		Where("id = ? AND quantity_sold + ? <= quantity_available", categoryID, qty).
		UpdateColumn("quantity_sold", gorm.Expr("quantity_sold + ?", qty))
	if res.Error != nil {
		log.Printf("[inventory] category reservation failed: %s\n", res.Error.Error())
		return nil, types.StorageError(res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.TicketCategory{}).Where("id = ?", categoryID).Count(&count).Error; err != nil {
			return nil, types.StorageError(err)
		}
		if count == 0 {
			return nil, types.NewAppError(types.CODE_NOT_FOUND, "")
		}
		return nil, types.NewAppError(types.CODE_SOLD_OUT, "")
	}

	var category models.TicketCategory
	if err := tx.Where(&models.TicketCategory{ID: categoryID}).First(&category).Error; err != nil {
		return nil, types.StorageError(err)
	}
	return &category, nil
}

func (s *InventoryStore) eventExists(tx *gorm.DB, eventID uint) (bool, error) {
	var event models.Event
	if err := tx.Select("id").Where(&models.Event{ID: eventID}).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, types.NewAppError(types.CODE_NOT_FOUND, "")
		}
		return false, types.StorageError(err)
	}
	return true, nil
}
