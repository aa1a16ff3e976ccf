package models

import (
	"time"

	"boletera/src/types"
)

// AdmissionRecord is the append-only gate log. The unique index on
// ticket_id is the authoritative replay guard: the database rejects a
// second admission for the same ticket regardless of what the ticket row
// says. Records are never updated or deleted.
type AdmissionRecord struct {
	ID         uint    `gorm:"primarykey" json:"id"`
	TicketID   uint    `gorm:"uniqueIndex" json:"ticket_id"`
	EventID    uint    `gorm:"index" json:"event_id,omitempty"`
	OperatorID uint    `json:"operator_id,omitempty"`
	Location   *string `json:"location,omitempty"`

	AdmittedAt time.Time `gorm:"autoCreateTime" json:"admitted_at,omitempty"`

	Ticket   Ticket `gorm:"foreignKey:ticket_id" json:"ticket,omitempty"`
	Event    Event  `gorm:"foreignKey:event_id" json:"-"`
	Operator User   `gorm:"foreignKey:operator_id" json:"operator,omitempty"`

	types.Timestamps
}
