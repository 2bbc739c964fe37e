package restaurants

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goupromo/goupromo-backend/pkg/db/models"
	"github.com/goupromo/goupromo-backend/pkg/enums"
	"github.com/goupromo/goupromo-backend/pkg/types"
)

// RestaurantDTO exposes restaurant data in API responses.
type RestaurantDTO struct {
	ID             uuid.UUID             `json:"id"`
	Name           string                `json:"name"`
	NIT            string                `json:"nit"`
	PrimaryAddress types.AddressDocument `json:"primary_address"`
	PrimaryContact types.ContactDocument `json:"primary_contact"`
	Phone          string                `json:"phone"`
	Email          string                `json:"email"`
	City           string                `json:"city"`
	UserID         *uuid.UUID            `json:"user_id"`
	Plan           enums.Plan            `json:"plan"`
	LogoURL        *string               `json:"logo_url"`
	WebsiteURL     *string               `json:"website_url"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// RegisterRestaurantInput is the flat form submitted by a merchant. Address
// and contact details are packed into JSON documents before storage.
type RegisterRestaurantInput struct {
	Name          string
	NIT           string
	Address       string
	ContactPerson string
	Phone         string
	Email         string
	City          string
	Plan          string
	LogoURL       *string
	WebsiteURL    *string
}

// CreateRestaurantDTO holds creation-time data for a new restaurant.
type CreateRestaurantDTO struct {
	Name           string
	NIT            string
	PrimaryAddress types.AddressDocument
	PrimaryContact types.ContactDocument
	Phone          string
	Email          string
	City           string
	UserID         *uuid.UUID
	Plan           enums.Plan
	LogoURL        *string
	WebsiteURL     *string
}

// FromModel maps the persisted restaurant into a DTO.
func FromModel(m *models.Restaurant) *RestaurantDTO {
	if m == nil {
		return nil
	}
	return &RestaurantDTO{
		ID:             m.ID,
		Name:           m.Name,
		NIT:            m.NIT,
		PrimaryAddress: m.PrimaryAddress,
		PrimaryContact: m.PrimaryContact,
		Phone:          m.Phone,
		Email:          m.Email,
		City:           m.City,
		UserID:         m.UserID,
		Plan:           m.Plan,
		LogoURL:        m.LogoURL,
		WebsiteURL:     m.WebsiteURL,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// FromModels maps a slice of restaurants, never returning nil.
func FromModels(list []models.Restaurant) []RestaurantDTO {
	out := make([]RestaurantDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}

// ToCreateDTO packs the registration form for the given owner.
func (in RegisterRestaurantInput) ToCreateDTO(ownerID uuid.UUID) CreateRestaurantDTO {
	owner := ownerID
	return CreateRestaurantDTO{
		Name: strings.TrimSpace(in.Name),
		NIT:  in.NIT,
		PrimaryAddress: types.AddressDocument{
			Address: in.Address,
		},
		PrimaryContact: types.ContactDocument{
			Name: in.ContactPerson,
			NIT:  in.NIT,
		},
		Phone:      in.Phone,
		Email:      in.Email,
		City:       in.City,
		UserID:     &owner,
		Plan:       enums.NormalizePlan(in.Plan),
		LogoURL:    in.LogoURL,
		WebsiteURL: in.WebsiteURL,
	}
}

func (c CreateRestaurantDTO) ToModel() *models.Restaurant {
	plan := c.Plan
	if plan == "" {
		plan = enums.PlanGoupromo
	}
	return &models.Restaurant{
		Name:           c.Name,
		NIT:            c.NIT,
		PrimaryAddress: c.PrimaryAddress,
		PrimaryContact: c.PrimaryContact,
		Phone:          c.Phone,
		Email:          c.Email,
		City:           c.City,
		UserID:         c.UserID,
		Plan:           plan,
		LogoURL:        c.LogoURL,
		WebsiteURL:     c.WebsiteURL,
	}
}
