package items

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/goupromo/goupromo-backend/pkg/db/models"
)

const listingColumns = `items.*,
	restaurants.name AS restaurant_name,
	restaurants.city AS restaurant_city,
	restaurants.phone AS restaurant_phone,
	restaurants.email AS restaurant_email,
	restaurants.logo_url AS restaurant_logo_url,
	restaurants.website_url AS restaurant_website_url,
	restaurants.primary_address AS restaurant_address,
	restaurants.primary_contact AS restaurant_contact`

// Repository handles item persistence and the public listing view.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to item operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the item. An unknown restaurant_id surfaces as the store's
// foreign key violation.
func (r *Repository) Create(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// ListListings returns every item joined with its restaurant, newest first.
func (r *Repository) ListListings(ctx context.Context) ([]ListingRow, error) {
	var rows []ListingRow
	if err := r.listingQuery(ctx).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListListingsByRestaurant narrows the listing view to one restaurant.
func (r *Repository) ListListingsByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]ListingRow, error) {
	var rows []ListingRow
	if err := r.listingQuery(ctx).
		Where("items.restaurant_id = ?", restaurantID).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) listingQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Item{}).
		Select(listingColumns).
		Joins("LEFT JOIN restaurants ON restaurants.id = items.restaurant_id").
		Order("items.created_at DESC, items.id ASC")
}
