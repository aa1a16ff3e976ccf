package services

import (
	"context"
	"errors"
	"log"

	"boletera/src/config"
	"boletera/src/models"
	"boletera/src/types"

	"gorm.io/gorm"
)

// AdmissionLog is the append-only record of gate scans. Rows are created by
// the gate orchestrator exactly once per ticket and never touched again.
type AdmissionLog struct {
	db *gorm.DB
}

func NewAdmissionLog(db *gorm.DB) *AdmissionLog {
	return &AdmissionLog{db: db}
}

func (a *AdmissionLog) WithTx(tx *gorm.DB) *AdmissionLog {
	return &AdmissionLog{db: tx}
}

// RecordAdmission inserts the gate-scan row. The unique index on ticket_id
// turns a replayed scan into gorm.ErrDuplicatedKey, which is the
// authoritative BOLETO_YA_USADO signal; no existence check beforehand.
func (a *AdmissionLog) RecordAdmission(ctx context.Context, ticketID, eventID, operatorID uint, location *string) (*models.AdmissionRecord, error) {
	record := models.AdmissionRecord{
		TicketID:   ticketID,
		EventID:    eventID,
		OperatorID: operatorID,
		Location:   location,
	}
	if err := a.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, types.NewAppError(types.CODE_ALREADY_USED, "")
		}
		log.Printf("[admissions] insert for ticket %d failed: %s\n", ticketID, err.Error())
		return nil, types.StorageError(err)
	}
	return &record, nil
}

// HasAdmission reports whether a ticket already has a gate entry. Callers
// use it for display only; it is never the race guard.
func (a *AdmissionLog) HasAdmission(ctx context.Context, ticketID uint) (bool, error) {
	var count int64
	err := a.db.WithContext(ctx).
		Model(&models.AdmissionRecord{}).
		Where(&models.AdmissionRecord{TicketID: ticketID}).
		Count(&count).
		Error
	if err != nil {
		return false, types.StorageError(err)
	}
	return count > 0, nil
}

func (a *AdmissionLog) ListByEvent(ctx context.Context, eventID uint) ([]models.AdmissionRecord, error) {
	var records []models.AdmissionRecord
	err := a.db.WithContext(ctx).
		Where(&models.AdmissionRecord{EventID: eventID}).
		Preload("Ticket").
		Preload("Ticket.Category").
		Preload("Operator").
		Order("admitted_at desc").
		Find(&records).
		Error
	if err != nil {
		return nil, types.StorageError(err)
	}
	return records, nil
}

func (a *AdmissionLog) RecentByEvent(ctx context.Context, eventID uint, limit int) ([]models.AdmissionRecord, error) {
	if limit <= 0 {
		limit = config.DEFAULT_RECENT_ENTRIES
	}
	if limit > config.MAX_PAGE_LIMIT {
		limit = config.MAX_PAGE_LIMIT
	}
	var records []models.AdmissionRecord
	err := a.db.WithContext(ctx).
		Where(&models.AdmissionRecord{EventID: eventID}).
		Preload("Ticket").
		Order("admitted_at desc").
		Limit(limit).
		Find(&records).
		Error
	if err != nil {
		return nil, types.StorageError(err)
	}
	return records, nil
}

func (a *AdmissionLog) CountByEvent(ctx context.Context, eventID uint) (int64, error) {
	var count int64
	err := a.db.WithContext(ctx).
		Model(&models.AdmissionRecord{}).
		Where(&models.AdmissionRecord{EventID: eventID}).
		Count(&count).
		Error
	if err != nil {
		return 0, types.StorageError(err)
	}
	return count, nil
}

// CategoryAdmissionStats is one row of the per-category breakdown the
// taquilla dashboard shows.
type CategoryAdmissionStats struct {
	CategoryID   uint   `json:"categoria_id"`
	CategoryName string `json:"categoria_nombre"`
	Total        int64  `json:"cantidad"`
}

func (a *AdmissionLog) StatsByCategory(ctx context.Context, eventID uint) ([]CategoryAdmissionStats, error) {
	var stats []CategoryAdmissionStats
	err := a.db.WithContext(ctx).
		Table("admission_records").
		Select("ticket_categories.id AS category_id, ticket_categories.name AS category_name, COUNT(admission_records.id) AS total").
		Joins("JOIN tickets ON tickets.id = admission_records.ticket_id").
		Joins("JOIN ticket_categories ON ticket_categories.id = tickets.category_id").
		Where("admission_records.event_id = ?", eventID).
		Group("ticket_categories.id, ticket_categories.name").
		Scan(&stats).
		Error
	if err != nil {
		return nil, types.StorageError(err)
	}
	return stats, nil
}
