package items

import (
	"context"
	"errors"

	"unithrift-backend/internal/infrastructure/database"
	"unithrift-backend/internal/models"
	"unithrift-backend/internal/pkg/apperrors"
	"unithrift-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service maintains the admin-managed item category catalog.
type Service struct {
	DB *gorm.DB
}

// CreateInput is the admin payload for a new item category.
type CreateInput struct {
	ItemName        string `json:"item_name"`
	ItemDescription string `json:"item_description"`
}

// Create adds a category. Names are unique among non-deleted categories.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Item, error) {
	if !validation.IsValidLength(in.ItemName, 1, 80) {
		return nil, apperrors.Validation("Item name must be between 1 and 80 characters")
	}
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Item{}).
		Where("item_name = ? AND is_deleted = ?", in.ItemName, false).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperrors.ErrItemExists
	}
	item := &models.Item{
		ItemName:        in.ItemName,
		ItemDescription: in.ItemDescription,
	}
	if err := s.DB.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// List returns active categories sorted by name, optionally filtered by
// a name substring.
func (s *Service) List(ctx context.Context, search string, page, pageSize int) ([]models.Item, error) {
	q := s.DB.WithContext(ctx).Where("is_deleted = ?", false)
	if search != "" {
		q = q.Where("item_name LIKE ?", "%"+search+"%")
	}
	var out []models.Item
	err := q.Order("item_name ASC").
		Scopes(database.Paginate(page, pageSize)).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Update renames or re-describes a category.
func (s *Service) Update(ctx context.Context, itemID uuid.UUID, in CreateInput) (*models.Item, error) {
	if !validation.IsValidLength(in.ItemName, 1, 80) {
		return nil, apperrors.Validation("Item name must be between 1 and 80 characters")
	}
	item, err := s.get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	err = s.DB.WithContext(ctx).Model(item).Updates(map[string]any{
		"item_name":        in.ItemName,
		"item_description": in.ItemDescription,
	}).Error
	if err != nil {
		return nil, err
	}
	return s.get(ctx, itemID)
}

// SoftDelete hides a category from the catalog. Existing listings keep
// their denormalized item name.
func (s *Service) SoftDelete(ctx context.Context, itemID uuid.UUID) error {
	if _, err := s.get(ctx, itemID); err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Model(&models.Item{}).
		Where("item_id = ?", itemID).
		Update("is_deleted", true).Error
}

func (s *Service) get(ctx context.Context, itemID uuid.UUID) (*models.Item, error) {
	var item models.Item
	err := s.DB.WithContext(ctx).
		Where("item_id = ? AND is_deleted = ?", itemID, false).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}
