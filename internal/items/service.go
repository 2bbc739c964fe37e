package items

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/goupromo/goupromo-backend/pkg/db"
	"github.com/goupromo/goupromo-backend/pkg/db/models"
	pkgerrors "github.com/goupromo/goupromo-backend/pkg/errors"
)

type itemRepository interface {
	Create(ctx context.Context, item *models.Item) error
	ListListings(ctx context.Context) ([]ListingRow, error)
	ListListingsByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]ListingRow, error)
}

type restaurantRepository interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service exposes the public catalog.
type Service interface {
	ListItems(ctx context.Context) ([]ItemListingDTO, error)
	ListItemsByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]ItemListingDTO, error)
	CreateItem(ctx context.Context, input CreateItemInput) (*ItemDTO, error)
}

type service struct {
	repo        itemRepository
	restaurants restaurantRepository
}

// NewService builds the catalog service.
func NewService(repo itemRepository, restaurantsRepo restaurantRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("item repository required")
	}
	if restaurantsRepo == nil {
		return nil, fmt.Errorf("restaurant repository required")
	}
	return &service{repo: repo, restaurants: restaurantsRepo}, nil
}

// ListItems returns a snapshot of all items with their restaurant details.
func (s *service) ListItems(ctx context.Context) ([]ItemListingDTO, error) {
	rows, err := s.repo.ListListings(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "list items")
	}
	return listingsFromRows(rows), nil
}

func (s *service) ListItemsByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]ItemListingDTO, error) {
	exists, err := s.restaurants.Exists(ctx, restaurantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "lookup restaurant")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found").
			WithDetails(map[string]any{"restaurant_id": restaurantID.String()})
	}

	rows, err := s.repo.ListListingsByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "list restaurant items")
	}
	return listingsFromRows(rows), nil
}

// CreateItem stores a new item. Items may be created without a restaurant.
// offer_price is not compared against original_price.
func (s *service) CreateItem(ctx context.Context, input CreateItemInput) (*ItemDTO, error) {
	if input.RestaurantID != nil {
		exists, err := s.restaurants.Exists(ctx, *input.RestaurantID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "lookup restaurant")
		}
		if !exists {
			return nil, restaurantFKViolation(*input.RestaurantID)
		}
	}

	item := input.ToModel()
	if err := s.repo.Create(ctx, item); err != nil {
		if db.IsForeignKeyViolation(err) && input.RestaurantID != nil {
			return nil, restaurantFKViolation(*input.RestaurantID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "create item")
	}
	return FromModel(item), nil
}

func listingsFromRows(rows []ListingRow) []ItemListingDTO {
	out := make([]ItemListingDTO, 0, len(rows))
	for i := range rows {
		out = append(out, listingFromRow(&rows[i]))
	}
	return out
}

func restaurantFKViolation(id uuid.UUID) error {
	return pkgerrors.New(pkgerrors.CodeForeignKeyViolation, "restaurant does not exist").
		WithDetails(map[string]any{"restaurant_id": id.String()})
}
