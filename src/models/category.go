package models

import (
	"boletera/src/types"

	"github.com/shopspring/decimal"
)

type TicketCategory struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	EventID     uint            `gorm:"index" json:"event_id,omitempty"`
	Name        string          `json:"name,omitempty"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2)" json:"price"`

	// QuantitySold never exceeds QuantityAvailable; the reservation path
	// enforces this with a conditional update, not a read-then-write.
	QuantityAvailable uint `json:"quantity_available"`
	QuantitySold      uint `json:"quantity_sold"`

	Event Event `gorm:"foreignKey:event_id" json:"-"`

	types.Timestamps
}

func (c *TicketCategory) Remaining() uint {
	if c.QuantitySold >= c.QuantityAvailable {
		return 0
	}
	return c.QuantityAvailable - c.QuantitySold
}
