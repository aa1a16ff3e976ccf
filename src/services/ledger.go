package services

import (
	"context"
	"errors"
	"log"
	"time"

	"boletera/src/models"
	"boletera/src/types"
	"boletera/src/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TicketDraft is one sellable unit about to be materialized.
type TicketDraft struct {
	EventID    uint
	CategoryID uint
	BuyerID    uint
	PricePaid  decimal.Decimal
}

// TicketLedger persists ticket rows and drives their lifecycle. Transitions
// are monotonic: valido -> usado and valido -> cancelado are the only legal
// moves, both terminal.
type TicketLedger struct {
	db *gorm.DB
}

func NewTicketLedger(db *gorm.DB) *TicketLedger {
	return &TicketLedger{db: db}
}

func (l *TicketLedger) WithTx(tx *gorm.DB) *TicketLedger {
	return &TicketLedger{db: tx}
}

// CreateTickets assigns a fresh admission code to every draft and inserts
// the whole batch in one statement. Partial batches never happen: any
// failure rolls back the entire insert.
func (l *TicketLedger) CreateTickets(ctx context.Context, batch []TicketDraft) ([]models.Ticket, error) {
	if len(batch) == 0 {
		return nil, types.NewAppError(types.CODE_VALIDATION_FAILED, "no hay boletos para crear")
	}
	tickets := make([]models.Ticket, 0, len(batch))
	for _, draft := range batch {
		if draft.EventID == 0 || draft.CategoryID == 0 || draft.BuyerID == 0 {
			return nil, types.NewAppError(types.CODE_VALIDATION_FAILED, "el boleto no tiene todos los campos requeridos")
		}
		if draft.PricePaid.IsNegative() {
			return nil, types.NewAppError(types.CODE_VALIDATION_FAILED, "el precio pagado no puede ser negativo")
		}
		tickets = append(tickets, models.Ticket{
			EventID:    draft.EventID,
			CategoryID: draft.CategoryID,
			BuyerID:    draft.BuyerID,
			PricePaid:  draft.PricePaid,
			Code:       utils.GenerateAdmissionCode(),
			Status:     types.TICKET_VALID,
		})
	}
	if err := l.db.WithContext(ctx).Create(&tickets).Error; err != nil {
		log.Printf("[ledger] batch insert of %d tickets failed: %s\n", len(tickets), err.Error())
		return nil, types.StorageError(err)
	}
	return tickets, nil
}

func (l *TicketLedger) FindByCode(ctx context.Context, code string) (*models.Ticket, error) {
	var ticket models.Ticket
	err := l.db.WithContext(ctx).
		Where(&models.Ticket{Code: code}).
		Preload("Event").
		Preload("Category").
		Preload("Buyer").
		First(&ticket).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewAppError(types.CODE_TICKET_INVALID, "")
		}
		return nil, types.StorageError(err)
	}
	return &ticket, nil
}

func (l *TicketLedger) FindByID(ctx context.Context, id uint) (*models.Ticket, error) {
	var ticket models.Ticket
	err := l.db.WithContext(ctx).
		Where(&models.Ticket{ID: id}).
		Preload("Event").
		Preload("Category").
		Preload("Buyer").
		First(&ticket).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewAppError(types.CODE_NOT_FOUND, "")
		}
		return nil, types.StorageError(err)
	}
	return &ticket, nil
}

func (l *TicketLedger) FindByBuyer(ctx context.Context, buyerID uint) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := l.db.WithContext(ctx).
		Where(&models.Ticket{BuyerID: buyerID}).
		Preload("Event").
		Preload("Category").
		Order("purchased_at desc").
		Find(&tickets).
		Error
	if err != nil {
		return nil, types.StorageError(err)
	}
	return tickets, nil
}

func (l *TicketLedger) FindByEvent(ctx context.Context, eventID uint) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := l.db.WithContext(ctx).
		Where(&models.Ticket{EventID: eventID}).
		Preload("Category").
		Preload("Buyer").
		Order("purchased_at desc").
		Find(&tickets).
		Error
	if err != nil {
		return nil, types.StorageError(err)
	}
	return tickets, nil
}

// TransitionState flips a valid ticket to usado or cancelado. The state
// predicate lives in the WHERE clause, so a concurrent cancel-and-admit on
// the same ticket resolves to exactly one winner.
func (l *TicketLedger) TransitionState(ctx context.Context, ticketID uint, target types.TicketStatus) (*models.Ticket, error) {
	if target != types.TICKET_USED && target != types.TICKET_CANCELED {
		return nil, types.NewAppError(types.CODE_VALIDATION_FAILED, "estado de boleto no válido")
	}
	tx := l.db.WithContext(ctx)

	updates := map[string]any{"status": target}
	if target == types.TICKET_USED {
		now := time.Now()
		updates["used_at"] = &now
	}
	res := tx.
		Model(&models.Ticket{}).
		Where("id = ? AND status = ?", ticketID, types.TICKET_VALID).
		Updates(updates)
	if res.Error != nil {
		log.Printf("[ledger] transition of ticket %d to %s failed: %s\n", ticketID, target, res.Error.Error())
		return nil, types.StorageError(res.Error)
	}
	if res.RowsAffected == 0 {
		var ticket models.Ticket
		if err := tx.Where(&models.Ticket{ID: ticketID}).First(&ticket).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, types.NewAppError(types.CODE_NOT_FOUND, "")
			}
			return nil, types.StorageError(err)
		}
		// Row exists, so the ticket is already in a terminal state.
		return nil, types.NewAppError(types.CODE_VALIDATION_FAILED, "el boleto ya no admite cambios de estado")
	}

	var ticket models.Ticket
	if err := tx.Where(&models.Ticket{ID: ticketID}).First(&ticket).Error; err != nil {
		return nil, types.StorageError(err)
	}
	return &ticket, nil
}

// TicketStats aggregates a single event's ledger for reporting.
type TicketStats struct {
	Total        int             `json:"total"`
	Valid        int             `json:"validos"`
	Used         int             `json:"usados"`
	Canceled     int             `json:"cancelados"`
	TotalRevenue decimal.Decimal `json:"ingresos_totales"`
}

func (l *TicketLedger) StatsByEvent(ctx context.Context, eventID uint) (*TicketStats, error) {
	var rows []struct {
		Status    types.TicketStatus
		PricePaid decimal.Decimal
	}
	err := l.db.WithContext(ctx).
		Model(&models.Ticket{}).
		Select("status", "price_paid").
		Where(&models.Ticket{EventID: eventID}).
		Scan(&rows).
		Error
	if err != nil {
		return nil, types.StorageError(err)
	}
	stats := TicketStats{TotalRevenue: decimal.Zero}
	for _, row := range rows {
		stats.Total++
		switch row.Status {
		case types.TICKET_VALID:
			stats.Valid++
		case types.TICKET_USED:
			stats.Used++
		case types.TICKET_CANCELED:
			stats.Canceled++
		}
		stats.TotalRevenue = stats.TotalRevenue.Add(row.PricePaid)
	}
	return &stats, nil
}
