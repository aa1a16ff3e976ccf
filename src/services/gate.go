package services

import (
	"context"
	"errors"
	"time"

	"boletera/src/models"
	"boletera/src/types"

	"gorm.io/gorm"
)

// GateService validates and records gate scans: exactly one admission per
// ticket, never past the event's capacity.
type GateService struct {
	db         *gorm.DB
	ledger     *TicketLedger
	admissions *AdmissionLog
}

func NewGateService(db *gorm.DB, ledger *TicketLedger, admissions *AdmissionLog) *GateService {
	return &GateService{db: db, ledger: ledger, admissions: admissions}
}

// ValidationSummary is the "check before scan" response shown to the
// taquilla operator.
type ValidationSummary struct {
	TicketID uint   `json:"boleto_id"`
	Code     string `json:"codigo"`
	Event    struct {
		Name     string    `json:"nombre"`
		StartsAt time.Time `json:"fecha_inicio"`
		Location string    `json:"ubicacion"`
	} `json:"evento"`
	Attendee struct {
		Name     string `json:"nombre"`
		LastName string `json:"apellido"`
		Email    string `json:"email"`
	} `json:"asistente"`
	Category  string `json:"categoria"`
	Occupancy struct {
		Current   uint `json:"actual"`
		Max       uint `json:"maximo"`
		Available uint `json:"disponible"`
	} `json:"aforo"`
}

// AdmissionConfirmation is returned once a scan has been committed.
type AdmissionConfirmation struct {
	AdmissionID uint      `json:"ingreso_id"`
	TicketID    uint      `json:"boleto_id"`
	EventID     uint      `json:"evento_id"`
	AdmittedAt  time.Time `json:"fecha_ingreso"`
	Attendee    string    `json:"asistente"`
	Category    string    `json:"categoria"`
}

// Validate is the read-only eligibility check. It mutates nothing, so its
// verdict can go stale; Admit re-checks everything under the transaction.
func (g *GateService) Validate(ctx context.Context, code string) (*ValidationSummary, error) {
	ticket, err := g.ledger.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	switch ticket.Status {
	case types.TICKET_CANCELED:
		return nil, types.NewAppError(types.CODE_TICKET_INVALID, "este boleto ha sido cancelado")
	case types.TICKET_USED:
		appErr := types.NewAppError(types.CODE_ALREADY_USED, "")
		if ticket.UsedAt != nil {
			appErr = appErr.WithDetails(map[string]any{"fecha_uso": ticket.UsedAt})
		}
		return nil, appErr
	}

	if ticket.Event.CapacityCurrent >= ticket.Event.CapacityMax {
		return nil, types.NewAppError(types.CODE_CAPACITY_FULL, "")
	}

	summary := &ValidationSummary{
		TicketID: ticket.ID,
		Code:     ticket.Code,
		Category: ticket.Category.Name,
	}
	summary.Event.Name = ticket.Event.Name
	summary.Event.StartsAt = ticket.Event.StartsAt
	summary.Event.Location = ticket.Event.Location
	summary.Attendee.Name = ticket.Buyer.Name
	summary.Attendee.LastName = ticket.Buyer.LastName
	summary.Attendee.Email = ticket.Buyer.Email
	summary.Occupancy.Current = ticket.Event.CapacityCurrent
	summary.Occupancy.Max = ticket.Event.CapacityMax
	summary.Occupancy.Available = ticket.Event.CapacityAvailable()
	return summary, nil
}

// Admit records a gate scan. The admission insert, the capacity re-check
// and the ticket flip commit or roll back as one unit; a replayed scan
// loses on the admission log's unique constraint, not on the state check.
func (g *GateService) Admit(ctx context.Context, code string, operatorID uint, location *string) (*AdmissionConfirmation, error) {
	ticket, err := g.ledger.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if ticket.Status != types.TICKET_VALID {
		if ticket.Status == types.TICKET_USED {
			return nil, types.NewAppError(types.CODE_ALREADY_USED, "")
		}
		return nil, types.NewAppError(types.CODE_VALIDATION_FAILED, "el boleto no está válido para ingreso")
	}

	var confirmation *AdmissionConfirmation
	err = g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := g.admissions.WithTx(tx).RecordAdmission(ctx, ticket.ID, ticket.EventID, operatorID, location)
		if err != nil {
			return err
		}

		// Time may have passed since Validate; the occupancy check has to
		// happen here, inside the transaction.
		var event models.Event
		if err := tx.Where(&models.Event{ID: ticket.EventID}).First(&event).Error; err != nil {
			return types.StorageError(err)
		}
		if event.CapacityCurrent >= event.CapacityMax {
			return types.NewAppError(types.CODE_CAPACITY_FULL, "")
		}

		if _, err := g.ledger.WithTx(tx).TransitionState(ctx, ticket.ID, types.TICKET_USED); err != nil {
			return err
		}

		confirmation = &AdmissionConfirmation{
			AdmissionID: record.ID,
			TicketID:    ticket.ID,
			EventID:     ticket.EventID,
			AdmittedAt:  record.AdmittedAt,
			Attendee:    ticket.Buyer.FullName(),
			Category:    ticket.Category.Name,
		}
		return nil
	})
	if err != nil {
		var appErr *types.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, types.StorageError(err)
	}
	return confirmation, nil
}
