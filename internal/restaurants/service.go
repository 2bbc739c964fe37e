package restaurants

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/goupromo/goupromo-backend/pkg/db"
	"github.com/goupromo/goupromo-backend/pkg/db/models"
	pkgerrors "github.com/goupromo/goupromo-backend/pkg/errors"
)

type restaurantRepository interface {
	Create(ctx context.Context, dto CreateRestaurantDTO) (*models.Restaurant, error)
	List(ctx context.Context) ([]models.Restaurant, error)
	FindByOwner(ctx context.Context, userID uuid.UUID) (*models.Restaurant, error)
}

type usersRepository interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service exposes restaurant operations.
type Service interface {
	ListRestaurants(ctx context.Context) ([]RestaurantDTO, error)
	RegisterRestaurant(ctx context.Context, ownerUserID uuid.UUID, input RegisterRestaurantInput) (*RestaurantDTO, error)
	GetRestaurantByUser(ctx context.Context, userID uuid.UUID) (*RestaurantDTO, error)
}

type service struct {
	repo  restaurantRepository
	users usersRepository
}

// NewService builds a restaurant service with the provided repositories.
func NewService(repo restaurantRepository, usersRepo usersRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("restaurant repository required")
	}
	if usersRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo, users: usersRepo}, nil
}

func (s *service) ListRestaurants(ctx context.Context) ([]RestaurantDTO, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "list restaurants")
	}
	return FromModels(list), nil
}

// RegisterRestaurant stores a restaurant owned by ownerUserID. Owning several
// restaurants is allowed.
func (s *service) RegisterRestaurant(ctx context.Context, ownerUserID uuid.UUID, input RegisterRestaurantInput) (*RestaurantDTO, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant name is required")
	}

	exists, err := s.users.Exists(ctx, ownerUserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "lookup owner")
	}
	if !exists {
		return nil, userNotFound(ownerUserID)
	}

	created, err := s.repo.Create(ctx, input.ToCreateDTO(ownerUserID))
	if err != nil {
		// the owner can disappear between the check and the insert
		if db.IsForeignKeyViolation(err) {
			return nil, userNotFound(ownerUserID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "create restaurant")
	}
	return FromModel(created), nil
}

func (s *service) GetRestaurantByUser(ctx context.Context, userID uuid.UUID) (*RestaurantDTO, error) {
	restaurant, err := s.repo.FindByOwner(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found for user").
				WithDetails(map[string]any{"user_id": userID.String()})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "lookup restaurant by user")
	}
	return FromModel(restaurant), nil
}

func userNotFound(id uuid.UUID) error {
	return pkgerrors.New(pkgerrors.CodeUserNotFound, "user not found").
		WithDetails(map[string]any{"user_id": id.String()})
}
