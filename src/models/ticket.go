package models

import (
	"time"

	"boletera/src/types"

	"github.com/shopspring/decimal"
)

type Ticket struct {
	ID         uint `gorm:"primarykey" json:"id"`
	EventID    uint `gorm:"index" json:"event_id,omitempty"`
	CategoryID uint `gorm:"index" json:"category_id,omitempty"`
	BuyerID    uint `gorm:"index" json:"buyer_id,omitempty"`

	// Code is the admission code embedded in the QR payload. Assigned once
	// at creation, globally unique, never rotated.
	Code string `gorm:"uniqueIndex;size:64" json:"code,omitempty"`

	// PricePaid is captured at purchase time; later category price changes
	// do not touch it.
	PricePaid decimal.Decimal `gorm:"type:numeric(10,2)" json:"price_paid"`

	Status      types.TicketStatus `gorm:"default:'valido'" json:"status,omitempty"`
	UsedAt      *time.Time         `json:"used_at,omitempty"`
	PurchasedAt time.Time          `gorm:"autoCreateTime" json:"purchased_at,omitempty"`

	Event    Event          `gorm:"foreignKey:event_id" json:"event,omitempty"`
	Category TicketCategory `gorm:"foreignKey:category_id" json:"category,omitempty"`
	Buyer    User           `gorm:"foreignKey:buyer_id" json:"buyer,omitempty"`

	types.Timestamps
}
