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

// PurchaseService turns a buy request into materialized tickets. Capacity
// is checked three ways in a fixed order (event active, category stock,
// event capacity) with fast failure, then reserved atomically together
// with the ticket batch inside one transaction.
type PurchaseService struct {
	db        *gorm.DB
	inventory *InventoryStore
	ledger    *TicketLedger
}

func NewPurchaseService(db *gorm.DB, inventory *InventoryStore, ledger *TicketLedger) *PurchaseService {
	return &PurchaseService{db: db, inventory: inventory, ledger: ledger}
}

func (s *PurchaseService) Purchase(ctx context.Context, buyerID uint, req *types.PurchaseTicketsRequestBody) ([]models.Ticket, error) {
	if req.Quantity < 1 || req.Quantity > config.MAX_TICKETS_PER_PURCHASE {
		return nil, types.NewAppError(types.CODE_VALIDATION_FAILED, "la cantidad debe estar entre 1 y 10")
	}

	var event models.Event
	if err := s.db.WithContext(ctx).Where(&models.Event{ID: req.EventID}).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewAppError(types.CODE_NOT_FOUND, "el evento no existe")
		}
		return nil, types.StorageError(err)
	}
	if event.Status != types.EVENT_ACTIVE {
		return nil, types.NewAppError(types.CODE_VALIDATION_FAILED, "el evento no está disponible para compra")
	}

	var category models.TicketCategory
	if err := s.db.WithContext(ctx).Where(&models.TicketCategory{ID: req.CategoryID}).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewAppError(types.CODE_NOT_FOUND, "la categoría no existe")
		}
		return nil, types.StorageError(err)
	}
	if category.EventID != event.ID {
		return nil, types.NewAppError(types.CODE_NOT_FOUND, "la categoría no pertenece al evento")
	}

	// Advisory availability checks. The authoritative ones are the
	// conditional updates inside the transaction below.
	if category.Remaining() < req.Quantity {
		return nil, types.NewAppError(types.CODE_SOLD_OUT, "")
	}
	if event.CapacityAvailable() < req.Quantity {
		return nil, types.NewAppError(types.CODE_CAPACITY_FULL, "")
	}

	var tickets []models.Ticket
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.inventory.WithTx(tx).ReserveCategoryCapacity(ctx, category.ID, req.Quantity); err != nil {
			return err
		}

		batch := make([]TicketDraft, 0, req.Quantity)
		for i := uint(0); i < req.Quantity; i++ {
			batch = append(batch, TicketDraft{
				EventID:    event.ID,
				CategoryID: category.ID,
				BuyerID:    buyerID,
				PricePaid:  category.Price,
			})
		}
		created, err := s.ledger.WithTx(tx).CreateTickets(ctx, batch)
		if err != nil {
			return err
		}

		if _, err := s.inventory.WithTx(tx).ReserveEventCapacity(ctx, event.ID, int(req.Quantity)); err != nil {
			return err
		}

		tickets = created
		return nil
	})
	if err != nil {
		var appErr *types.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		log.Printf("[purchase] transaction failed for buyer %d event %d: %s\n", buyerID, req.EventID, err.Error())
		return nil, types.StorageError(err)
	}

	for i := range tickets {
		tickets[i].Event = event
		tickets[i].Category = category
	}
	return tickets, nil
}

// Cancel flips a valid ticket to cancelado and releases the event seat.
// Category quantity_sold stays where it is: cancelled tickets do not return
// to sale.
func (s *PurchaseService) Cancel(ctx context.Context, ticketID, requesterID uint, requesterRole string) (*models.Ticket, error) {
	ticket, err := s.ledger.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.BuyerID != requesterID && requesterRole != types.ROLE_ADMIN {
		return nil, types.NewAppError(types.CODE_UNAUTHORIZED, "no tiene permisos para cancelar este boleto")
	}
	if ticket.Status == types.TICKET_USED {
		return nil, types.NewAppError(types.CODE_VALIDATION_FAILED, "no se puede cancelar un boleto ya utilizado")
	}

	var canceled *models.Ticket
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updated, err := s.ledger.WithTx(tx).TransitionState(ctx, ticket.ID, types.TICKET_CANCELED)
		if err != nil {
			return err
		}
		if _, err := s.inventory.WithTx(tx).ReserveEventCapacity(ctx, ticket.EventID, -1); err != nil {
			return err
		}
		canceled = updated
		return nil
	})
	if err != nil {
		var appErr *types.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, types.StorageError(err)
	}
	return canceled, nil
}
