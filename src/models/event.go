package models

import (
	"time"

	"boletera/src/types"
)

type Event struct {
	ID          uint              `gorm:"primarykey" json:"id"`
	Name        string            `json:"name,omitempty"`
	About       *string           `json:"about,omitempty"`
	Location    string            `json:"location,omitempty"`
	StartsAt    time.Time         `json:"starts_at,omitempty"`
	EndsAt      *time.Time        `json:"ends_at,omitempty"`
	Status      types.EventStatus `gorm:"default:'borrador'" json:"status,omitempty"`
	OrganizerID uint              `json:"organizer_id,omitempty"`

	// CapacityCurrent only moves through the inventory store's atomic
	// adjustments; 0 <= CapacityCurrent <= CapacityMax always holds.
	CapacityMax     uint `json:"capacity_max,omitempty"`
	CapacityCurrent uint `json:"capacity_current"`

	Organizer  User             `gorm:"foreignKey:organizer_id" json:"-"`
	Categories []TicketCategory `gorm:"foreignKey:event_id" json:"categories,omitempty"`

	types.Timestamps
}

func (e *Event) CapacityAvailable() uint {
	if e.CapacityCurrent >= e.CapacityMax {
		return 0
	}
	return e.CapacityMax - e.CapacityCurrent
}
