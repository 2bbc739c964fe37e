package controllers

import (
	"net/http"

	"github.com/goupromo/goupromo-backend/api/responses"
	"github.com/goupromo/goupromo-backend/api/validators"
	"github.com/goupromo/goupromo-backend/internal/restaurants"
	pkgerrors "github.com/goupromo/goupromo-backend/pkg/errors"
	"github.com/goupromo/goupromo-backend/pkg/logger"
)

type registerRestaurantRequest struct {
	Name          string  `json:"name" validate:"required,max=200"`
	NIT           string  `json:"nit" validate:"max=50"`
	Address       string  `json:"address" validate:"max=500"`
	ContactPerson string  `json:"contact_person" validate:"max=200"`
	Phone         string  `json:"phone" validate:"max=50"`
	Email         string  `json:"email" validate:"omitempty,email,max=254"`
	City          string  `json:"city" validate:"max=150"`
	Plan          string  `json:"plan" validate:"max=50"`
	LogoURL       *string `json:"logo_url" validate:"omitempty,max=2048"`
	WebsiteURL    *string `json:"website_url" validate:"omitempty,max=2048"`
}

func (req registerRestaurantRequest) toInput() restaurants.RegisterRestaurantInput {
	return restaurants.RegisterRestaurantInput{
		Name:          validators.SanitizeString(req.Name, 200),
		NIT:           validators.SanitizeString(req.NIT, 50),
		Address:       validators.SanitizeString(req.Address, 500),
		ContactPerson: validators.SanitizeString(req.ContactPerson, 200),
		Phone:         validators.SanitizeString(req.Phone, 50),
		Email:         validators.SanitizeString(req.Email, 254),
		City:          validators.SanitizeString(req.City, 150),
		Plan:          validators.SanitizeString(req.Plan, 50),
		LogoURL:       validators.OptionalString(req.LogoURL, 2048),
		WebsiteURL:    validators.OptionalString(req.WebsiteURL, 2048),
	}
}

func RestaurantsList(svc restaurants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "restaurant service unavailable"))
			return
		}

		list, err := svc.ListRestaurants(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// RestaurantRegister creates a restaurant owned by the user in the path.
// The route requires a bearer token.
func RestaurantRegister(svc restaurants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "restaurant service unavailable"))
			return
		}

		ownerID, err := uuidParam(r, "userId", "invalid user id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body registerRestaurantRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		restaurant, err := svc.RegisterRestaurant(r.Context(), ownerID, body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			logg.Info(logg.WithRestaurantID(r.Context(), restaurant.ID.String()), "restaurant.registered")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, restaurant)
	}
}

// RestaurantByUser returns the first restaurant registered by the user.
func RestaurantByUser(svc restaurants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "restaurant service unavailable"))
			return
		}

		userID, err := uuidParam(r, "userId", "invalid user id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		restaurant, err := svc.GetRestaurantByUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, restaurant)
	}
}
