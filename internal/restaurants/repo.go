package restaurants

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/goupromo/goupromo-backend/pkg/db/models"
)

// Repository handles restaurant persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to restaurant operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new restaurant row.
func (r *Repository) Create(ctx context.Context, dto CreateRestaurantDTO) (*models.Restaurant, error) {
	restaurant := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(restaurant).Error; err != nil {
		return nil, err
	}
	return restaurant, nil
}

// List returns every restaurant, oldest first.
func (r *Repository) List(ctx context.Context) ([]models.Restaurant, error) {
	var list []models.Restaurant
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// FindByID loads a restaurant by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&restaurant).Error; err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// FindByOwner returns the oldest restaurant owned by the provided user.
func (r *Repository) FindByOwner(ctx context.Context, userID uuid.UUID) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		First(&restaurant).Error; err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// Exists reports whether a restaurant with the given id is stored.
func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Restaurant{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
