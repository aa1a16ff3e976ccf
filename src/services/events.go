package services

import (
	"context"
	"errors"
	"log"
	"time"

	"boletera/src/config"
	"boletera/src/models"
	"boletera/src/types"

	"gorm.io/gorm"
)

type EventService struct {
	db         *gorm.DB
	admissions *AdmissionLog
}

func NewEventService(db *gorm.DB, admissions *AdmissionLog) *EventService {
	return &EventService{db: db, admissions: admissions}
}

func (s *EventService) Create(ctx context.Context, organizerID uint, req *types.CreateEventRequestBody) (*models.Event, error) {
	startsAt, err := time.Parse(config.TIME_PARSE_FORMAT, req.StartsAt)
	if err != nil {
		return nil, types.NewAppError(types.CODE_VALIDATION_FAILED, "fecha de inicio no válida")
	}
	event := models.Event{
		Name:        req.Name,
		Location:    req.Location,
		StartsAt:    startsAt,
		Status:      types.EVENT_DRAFT,
		CapacityMax: req.CapacityMax,
		OrganizerID: organizerID,
	}
	if req.Description != "" {
		event.About = &req.Description
	}
	if req.EndsAt != nil {
		endsAt, err := time.Parse(config.TIME_PARSE_FORMAT, *req.EndsAt)
		if err != nil {
			return nil, types.NewAppError(types.CODE_VALIDATION_FAILED, "fecha de fin no válida")
		}
		if !endsAt.After(startsAt) {
			return nil, types.NewAppError(types.CODE_VALIDATION_FAILED, "la fecha de fin debe ser posterior al inicio")
		}
		event.EndsAt = &endsAt
	}
	if err := s.db.WithContext(ctx).Create(&event).Error; err != nil {
		log.Printf("[events] create failed: %s\n", err.Error())
		return nil, types.StorageError(err)
	}
	return &event, nil
}

func (s *EventService) Update(ctx context.Context, eventID, requesterID uint, isAdmin bool, req *types.UpdateEventRequestBody) (*models.Event, error) {
	event, err := s.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != requesterID && !isAdmin {
		return nil, types.NewAppError(types.CODE_UNAUTHORIZED, "")
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["about"] = *req.Description
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.StartsAt != nil {
		startsAt, err := time.Parse(config.TIME_PARSE_FORMAT, *req.StartsAt)
		if err != nil {
			return nil, types.NewAppError(types.CODE_VALIDATION_FAILED, "fecha de inicio no válida")
		}
		updates["starts_at"] = startsAt
	}
	if req.EndsAt != nil {
		endsAt, err := time.Parse(config.TIME_PARSE_FORMAT, *req.EndsAt)
		if err != nil {
			return nil, types.NewAppError(types.CODE_VALIDATION_FAILED, "fecha de fin no válida")
		}
		updates["ends_at"] = endsAt
	}
	if req.CapacityMax != nil {
		if *req.CapacityMax < event.CapacityCurrent {
			return nil, types.NewAppError(types.CODE_VALIDATION_FAILED, "el aforo máximo no puede ser menor al aforo actual")
		}
		updates["capacity_max"] = *req.CapacityMax
	}
	if len(updates) == 0 {
		return event, nil
	}
	if err := s.db.WithContext(ctx).Model(&models.Event{}).Where("id = ?", eventID).Updates(updates).Error; err != nil {
		return nil, types.StorageError(err)
	}
	return s.GetByID(ctx, eventID)
}

// legal lifecycle moves; everything else is rejected
var eventTransitions = map[types.EventStatus][]types.EventStatus{
	types.EVENT_DRAFT:  {types.EVENT_ACTIVE, types.EVENT_CANCELED},
	types.EVENT_ACTIVE: {types.EVENT_CANCELED, types.EVENT_FINISHED},
}

func (s *EventService) ChangeStatus(ctx context.Context, eventID, requesterID uint, isAdmin bool, newStatus types.EventStatus) (*models.Event, error) {
	event, err := s.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != requesterID && !isAdmin {
		return nil, types.NewAppError(types.CODE_UNAUTHORIZED, "")
	}
	allowed := false
	for _, target := range eventTransitions[event.Status] {
		if target == newStatus {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, types.NewAppError(types.CODE_VALIDATION_FAILED, "cambio de estado no permitido")
	}
	res := s.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("id = ? AND status = ?", eventID, event.Status).
		Update("status", newStatus)
	if res.Error != nil {
		return nil, types.StorageError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, types.NewAppError(types.CODE_VALIDATION_FAILED, "cambio de estado no permitido")
	}
	return s.GetByID(ctx, eventID)
}

func (s *EventService) GetByID(ctx context.Context, eventID uint) (*models.Event, error) {
	var event models.Event
	err := s.db.WithContext(ctx).
		Where(&models.Event{ID: eventID}).
		Preload("Categories").
		First(&event).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewAppError(types.CODE_NOT_FOUND, "el evento no existe")
		}
		return nil, types.StorageError(err)
	}
	return &event, nil
}

func (s *EventService) ListActive(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	err := s.db.WithContext(ctx).
		Where(&models.Event{Status: types.EVENT_ACTIVE}).
		Order("starts_at asc").
		Limit(config.MAX_PAGE_LIMIT).
		Find(&events).
		Error
	if err != nil {
		return nil, types.StorageError(err)
	}
	return events, nil
}

func (s *EventService) ListByOrganizer(ctx context.Context, organizerID uint) ([]models.Event, error) {
	var events []models.Event
	err := s.db.WithContext(ctx).
		Where(&models.Event{OrganizerID: organizerID}).
		Order("starts_at desc").
		Find(&events).
		Error
	if err != nil {
		return nil, types.StorageError(err)
	}
	return events, nil
}

// OccupancySummary mirrors the taquilla aforo endpoint of the platform.
type OccupancySummary struct {
	Current       uint    `json:"aforo_actual"`
	Max           uint    `json:"aforo_maximo"`
	AdmittedCount int64   `json:"ingresos_registrados"`
	Available     uint    `json:"disponible"`
	PercentageUse float64 `json:"porcentaje_ocupacion"`
}

func (s *EventService) Occupancy(ctx context.Context, eventID uint) (*OccupancySummary, error) {
	event, err := s.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	admitted, err := s.admissions.CountByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	summary := &OccupancySummary{
		Current:       event.CapacityCurrent,
		Max:           event.CapacityMax,
		AdmittedCount: admitted,
		Available:     event.CapacityAvailable(),
	}
	if event.CapacityMax > 0 {
		summary.PercentageUse = float64(event.CapacityCurrent) / float64(event.CapacityMax) * 100
	}
	return summary, nil
}

// SweepFinished closes events whose end time (or start time, when no end
// is set) has passed. It runs from the background scheduler only; read
// paths never trigger it.
func (s *EventService) SweepFinished(ctx context.Context) (int64, error) {
	now := time.Now()
	tx := s.db.WithContext(ctx)

	ended := tx.
		Model(&models.Event{}).
		Where("ends_at IS NOT NULL AND ends_at < ?", now).
		Where("status = ?", types.EVENT_ACTIVE).
		Update("status", types.EVENT_FINISHED)
	if ended.Error != nil {
		log.Printf("[events] sweep (ended) failed: %s\n", ended.Error.Error())
		return 0, types.StorageError(ended.Error)
	}
	noEnd := tx.
		Model(&models.Event{}).
		Where("ends_at IS NULL AND starts_at < ?", now).
		Where("status = ?", types.EVENT_ACTIVE).
		Update("status", types.EVENT_FINISHED)
	if noEnd.Error != nil {
		log.Printf("[events] sweep (no end date) failed: %s\n", noEnd.Error.Error())
		return ended.RowsAffected, types.StorageError(noEnd.Error)
	}
	return ended.RowsAffected + noEnd.RowsAffected, nil
}
