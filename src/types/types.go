package types

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	UID   string `json:"uid"`
	jwt.RegisteredClaims
}

// Roles as stored in the users table. The Spanish names are the platform's
// wire vocabulary, shared with the frontend and the reporting tools.
const (
	ROLE_ADMIN     = "administrador"
	ROLE_ORGANIZER = "organizador"
	ROLE_GATE      = "taquilla"
	ROLE_ATTENDEE  = "asistente"
)

type EventStatus string

const (
	EVENT_DRAFT    EventStatus = "borrador"
	EVENT_ACTIVE   EventStatus = "activo"
	EVENT_CANCELED EventStatus = "cancelado"
	EVENT_FINISHED EventStatus = "finalizado"
)

type TicketStatus string

const (
	TICKET_VALID    TicketStatus = "valido"
	TICKET_USED     TicketStatus = "usado"
	TICKET_CANCELED TicketStatus = "cancelado"
)

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type EventRequestParams struct {
	EventID uint `uri:"eventId" binding:"required"`
}

type CreateEventRequestBody struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description,omitempty"`
	Location    string  `json:"location" binding:"required"`
	StartsAt    string  `json:"starts_at" binding:"required,eventdate" time_format:"2006-01-02 15:04:05 -07:00"`
	EndsAt      *string `json:"ends_at,omitempty" binding:"omitempty,eventdate" time_format:"2006-01-02 15:04:05 -07:00"`
	CapacityMax uint    `json:"capacity_max" binding:"required,min=1"`
}

type UpdateEventRequestBody struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty"`
	StartsAt    *string `json:"starts_at,omitempty" binding:"omitempty,eventdate"`
	EndsAt      *string `json:"ends_at,omitempty" binding:"omitempty,eventdate"`
	CapacityMax *uint   `json:"capacity_max,omitempty" binding:"omitempty,min=1"`
}

type ChangeEventStatusRequestBody struct {
	NewStatus EventStatus `json:"new_status" binding:"required"`
}

type CreateCategoryRequestBody struct {
	EventID           uint   `json:"event_id" binding:"required"`
	Name              string `json:"name" binding:"required"`
	Description       string `json:"description,omitempty"`
	Price             string `json:"price" binding:"required"`
	QuantityAvailable uint   `json:"quantity_available" binding:"required,min=1"`
}

type UpdateCategoryRequestBody struct {
	Name              *string `json:"name,omitempty"`
	Description       *string `json:"description,omitempty"`
	Price             *string `json:"price,omitempty"`
	QuantityAvailable *uint   `json:"quantity_available,omitempty"`
}

type PurchaseTicketsRequestBody struct {
	EventID    uint `json:"event_id" binding:"required"`
	CategoryID uint `json:"category_id" binding:"required"`
	Quantity   uint `json:"quantity" binding:"required,min=1,max=10"`
}

type ValidateTicketRequestBody struct {
	Code string `json:"code" binding:"required"`
}

type AdmitTicketRequestBody struct {
	Code     string  `json:"code" binding:"required"`
	Location *string `json:"location,omitempty"`
}

type RecentEntriesQuery struct {
	Limit int `form:"limit,default=50" binding:"omitempty,min=1,max=100"`
}
