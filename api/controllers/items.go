package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/goupromo/goupromo-backend/api/responses"
	"github.com/goupromo/goupromo-backend/api/validators"
	"github.com/goupromo/goupromo-backend/internal/items"
	pkgerrors "github.com/goupromo/goupromo-backend/pkg/errors"
	"github.com/goupromo/goupromo-backend/pkg/logger"
)

type createItemRequest struct {
	ItemType         string  `json:"item_type" validate:"required,max=100"`
	Description      string  `json:"description" validate:"max=2000"`
	ItemNumber       string  `json:"item_number" validate:"max=100"`
	OriginalPrice    int64   `json:"original_price" validate:"gte=0"`
	OfferPrice       int64   `json:"offer_price" validate:"gte=0"`
	Quantity         int     `json:"quantity" validate:"gte=0"`
	StartTime        *string `json:"start_time"`
	EndTime          *string `json:"end_time"`
	ImageURL         *string `json:"image_url" validate:"omitempty,max=2048"`
	UnitWeight       int     `json:"unit_weight" validate:"gte=0"`
	DeliveryIncluded bool    `json:"delivery_included"`
	DeliveryFee      int64   `json:"delivery_fee" validate:"gte=0"`
	Status           string  `json:"status" validate:"omitempty,oneof=active inactive sold_out"`
	RestaurantID     *string `json:"restaurant_id" validate:"omitempty,uuid"`
}

func (req createItemRequest) toInput() (items.CreateItemInput, error) {
	start, err := validators.ParseOptionalTimestamp("start_time", req.StartTime)
	if err != nil {
		return items.CreateItemInput{}, err
	}
	end, err := validators.ParseOptionalTimestamp("end_time", req.EndTime)
	if err != nil {
		return items.CreateItemInput{}, err
	}

	input := items.CreateItemInput{
		ItemType:         validators.SanitizeString(req.ItemType, 100),
		Description:      strings.TrimSpace(req.Description),
		ItemNumber:       validators.SanitizeString(req.ItemNumber, 100),
		OriginalPrice:    req.OriginalPrice,
		OfferPrice:       req.OfferPrice,
		Quantity:         req.Quantity,
		StartTime:        start,
		EndTime:          end,
		ImageURL:         validators.OptionalString(req.ImageURL, 2048),
		UnitWeight:       req.UnitWeight,
		DeliveryIncluded: req.DeliveryIncluded,
		DeliveryFee:      req.DeliveryFee,
		Status:           req.Status,
	}
	if raw := validators.OptionalString(req.RestaurantID, 0); raw != nil {
		id, err := uuid.Parse(*raw)
		if err != nil {
			return items.CreateItemInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid restaurant id")
		}
		input.RestaurantID = &id
	}
	return input, nil
}

// ItemsList returns every item joined with its restaurant's public fields.
func ItemsList(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "item service unavailable"))
			return
		}

		listings, err := svc.ListItems(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, listings)
	}
}

// ItemsCreate stores a new item, optionally attached to a restaurant.
func ItemsCreate(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "item service unavailable"))
			return
		}

		var body createItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.CreateItem(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// RestaurantItems lists the items sold by one restaurant.
func RestaurantItems(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "item service unavailable"))
			return
		}

		restaurantID, err := uuidParam(r, "restaurantId", "invalid restaurant id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithRestaurantID(ctx, restaurantID.String())
		}

		listings, err := svc.ListItemsByRestaurant(ctx, restaurantID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, listings)
	}
}

func uuidParam(r *http.Request, name, message string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, message).
			WithDetails(map[string]any{name: raw})
	}
	return id, nil
}
