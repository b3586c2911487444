package universities

import (
	"context"

	"unithrift-backend/internal/infrastructure/database"
	"unithrift-backend/internal/models"
	"unithrift-backend/internal/pkg/apperrors"
	"unithrift-backend/internal/pkg/validation"

	"gorm.io/gorm"
)

// Service serves the university reference list used at registration.
type Service struct {
	DB *gorm.DB
}

// List returns active universities sorted by name, optionally filtered
// by a name substring.
func (s *Service) List(ctx context.Context, search string, page, pageSize int) ([]models.University, error) {
	q := s.DB.WithContext(ctx).Where("is_deleted = ?", false)
	if search != "" {
		q = q.Where("name LIKE ?", "%"+search+"%")
	}
	var out []models.University
	err := q.Order("name ASC").
		Scopes(database.Paginate(page, pageSize)).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Create adds a university, admin only.
func (s *Service) Create(ctx context.Context, name string) (*models.University, error) {
	if !validation.IsValidLength(name, 1, 120) {
		return nil, apperrors.Validation("University name must be between 1 and 120 characters")
	}
	uni := &models.University{Name: name}
	if err := s.DB.WithContext(ctx).Create(uni).Error; err != nil {
		return nil, err
	}
	return uni, nil
}
