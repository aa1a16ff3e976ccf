package services

import (
	"context"
	"errors"

	"boletera/src/models"
	"boletera/src/types"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

func (s *CategoryService) Create(ctx context.Context, requesterID uint, isAdmin bool, req *types.CreateCategoryRequestBody) (*models.TicketCategory, error) {
	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		return nil, types.NewAppError(types.CODE_VALIDATION_FAILED, "el precio no es válido")
	}

	var event models.Event
	if err := s.db.WithContext(ctx).Where(&models.Event{ID: req.EventID}).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewAppError(types.CODE_NOT_FOUND, "el evento no existe")
		}
		return nil, types.StorageError(err)
	}
	if event.OrganizerID != requesterID && !isAdmin {
		return nil, types.NewAppError(types.CODE_UNAUTHORIZED, "")
	}

	category := models.TicketCategory{
		EventID:           req.EventID,
		Name:              req.Name,
		Price:             price,
		QuantityAvailable: req.QuantityAvailable,
	}
	if req.Description != "" {
		category.Description = &req.Description
	}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, types.StorageError(err)
	}
	return &category, nil
}

// Update rejects any allocation change that would leave quantity_available
// below what has already been sold. The predicate rides in the WHERE clause
// so a concurrent sale cannot slip in between check and write.
func (s *CategoryService) Update(ctx context.Context, categoryID, requesterID uint, isAdmin bool, req *types.UpdateCategoryRequestBody) (*models.TicketCategory, error) {
	category, err := s.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category.Event.OrganizerID != requesterID && !isAdmin {
		return nil, types.NewAppError(types.CODE_UNAUTHORIZED, "")
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		price, err := decimal.NewFromString(*req.Price)
		if err != nil || price.IsNegative() {
			return nil, types.NewAppError(types.CODE_VALIDATION_FAILED, "el precio no es válido")
		}
		updates["price"] = price
	}
	if len(updates) == 0 && req.QuantityAvailable == nil {
		return category, nil
	}

	tx := s.db.WithContext(ctx).Model(&models.TicketCategory{})
	if req.QuantityAvailable != nil {
		updates["quantity_available"] = *req.QuantityAvailable
		tx = tx.Where("id = ? AND quantity_sold <= ?", categoryID, *req.QuantityAvailable)
	} else {
		tx = tx.Where("id = ?", categoryID)
	}
	res := tx.Updates(updates)
	if res.Error != nil {
		return nil, types.StorageError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, types.NewAppError(types.CODE_VALIDATION_FAILED, "la cantidad disponible no puede ser menor a la cantidad vendida")
	}
	return s.GetByID(ctx, categoryID)
}

// Delete is forbidden once any ticket has been sold against the category.
func (s *CategoryService) Delete(ctx context.Context, categoryID, requesterID uint, isAdmin bool) error {
	category, err := s.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if category.Event.OrganizerID != requesterID && !isAdmin {
		return types.NewAppError(types.CODE_UNAUTHORIZED, "")
	}
	res := s.db.WithContext(ctx).
		Where("id = ? AND quantity_sold = 0", categoryID).
		Delete(&models.TicketCategory{})
	if res.Error != nil {
		return types.StorageError(res.Error)
	}
	if res.RowsAffected == 0 {
		return types.NewAppError(types.CODE_VALIDATION_FAILED, "no se puede eliminar una categoría con boletos vendidos")
	}
	return nil
}

func (s *CategoryService) GetByID(ctx context.Context, categoryID uint) (*models.TicketCategory, error) {
	var category models.TicketCategory
	err := s.db.WithContext(ctx).
		Where(&models.TicketCategory{ID: categoryID}).
		Preload("Event").
		First(&category).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewAppError(types.CODE_NOT_FOUND, "la categoría no existe")
		}
		return nil, types.StorageError(err)
	}
	return &category, nil
}

func (s *CategoryService) ListByEvent(ctx context.Context, eventID uint) ([]models.TicketCategory, error) {
	var categories []models.TicketCategory
	err := s.db.WithContext(ctx).
		Where(&models.TicketCategory{EventID: eventID}).
		Order("price asc").
		Find(&categories).
		Error
	if err != nil {
		return nil, types.StorageError(err)
	}
	return categories, nil
}

func (s *CategoryService) ListAvailable(ctx context.Context, eventID uint) ([]models.TicketCategory, error) {
	var categories []models.TicketCategory
	err := s.db.WithContext(ctx).
		Where("event_id = ? AND quantity_sold < quantity_available", eventID).
		Order("price asc").
		Find(&categories).
		Error
	if err != nil {
		return nil, types.StorageError(err)
	}
	return categories, nil
}
