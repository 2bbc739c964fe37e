package items

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goupromo/goupromo-backend/pkg/db/models"
	"github.com/goupromo/goupromo-backend/pkg/enums"
	"github.com/goupromo/goupromo-backend/pkg/types"
)

// ItemDTO is the stored item as returned after creation.
type ItemDTO struct {
	ID               uuid.UUID        `json:"id"`
	ItemType         string           `json:"item_type"`
	Description      string           `json:"description"`
	ItemNumber       string           `json:"item_number"`
	OriginalPrice    int64            `json:"original_price"`
	OfferPrice       int64            `json:"offer_price"`
	Quantity         int              `json:"quantity"`
	StartTime        *time.Time       `json:"start_time"`
	EndTime          *time.Time       `json:"end_time"`
	ImageURL         *string          `json:"image_url"`
	UnitWeight       int              `json:"unit_weight"`
	DeliveryIncluded bool             `json:"delivery_included"`
	DeliveryFee      int64            `json:"delivery_fee"`
	Status           enums.ItemStatus `json:"status"`
	RestaurantID     *uuid.UUID       `json:"restaurant_id"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// ItemListingDTO is an item flattened together with the public fields of the
// restaurant selling it. Restaurant fields are null for unattached items.
type ItemListingDTO struct {
	ItemDTO
	RestaurantName  *string                `json:"restaurant_name"`
	City            *string                `json:"city"`
	RestaurantPhone *string                `json:"restaurant_phone"`
	RestaurantEmail *string                `json:"restaurant_email"`
	LogoURL         *string                `json:"logo_url"`
	WebsiteURL      *string                `json:"website_url"`
	PrimaryAddress  *types.AddressDocument `json:"primary_address"`
	PrimaryContact  *types.ContactDocument `json:"primary_contact"`
}

// CreateItemInput carries a new item as submitted by a merchant.
type CreateItemInput struct {
	ItemType         string
	Description      string
	ItemNumber       string
	OriginalPrice    int64
	OfferPrice       int64
	Quantity         int
	StartTime        *time.Time
	EndTime          *time.Time
	ImageURL         *string
	UnitWeight       int
	DeliveryIncluded bool
	DeliveryFee      int64
	Status           string
	RestaurantID     *uuid.UUID
}

// ListingRow is the scan target of the items/restaurants join.
type ListingRow struct {
	models.Item
	RestaurantName       *string               `gorm:"column:restaurant_name"`
	RestaurantCity       *string               `gorm:"column:restaurant_city"`
	RestaurantPhone      *string               `gorm:"column:restaurant_phone"`
	RestaurantEmail      *string               `gorm:"column:restaurant_email"`
	RestaurantLogoURL    *string               `gorm:"column:restaurant_logo_url"`
	RestaurantWebsiteURL *string               `gorm:"column:restaurant_website_url"`
	RestaurantAddress    types.AddressDocument `gorm:"column:restaurant_address"`
	RestaurantContact    types.ContactDocument `gorm:"column:restaurant_contact"`
}

func FromModel(m *models.Item) *ItemDTO {
	if m == nil {
		return nil
	}
	return &ItemDTO{
		ID:               m.ID,
		ItemType:         m.ItemType,
		Description:      m.Description,
		ItemNumber:       m.ItemNumber,
		OriginalPrice:    m.OriginalPrice,
		OfferPrice:       m.OfferPrice,
		Quantity:         m.Quantity,
		StartTime:        m.StartTime,
		EndTime:          m.EndTime,
		ImageURL:         m.ImageURL,
		UnitWeight:       m.UnitWeight,
		DeliveryIncluded: m.DeliveryIncluded,
		DeliveryFee:      m.DeliveryFee,
		Status:           m.Status,
		RestaurantID:     m.RestaurantID,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func listingFromRow(row *ListingRow) ItemListingDTO {
	dto := ItemListingDTO{
		ItemDTO:         *FromModel(&row.Item),
		RestaurantName:  row.RestaurantName,
		City:            row.RestaurantCity,
		RestaurantPhone: row.RestaurantPhone,
		RestaurantEmail: row.RestaurantEmail,
		LogoURL:         row.RestaurantLogoURL,
		WebsiteURL:      row.RestaurantWebsiteURL,
	}
	if row.RestaurantName != nil {
		address := row.RestaurantAddress
		contact := row.RestaurantContact
		dto.PrimaryAddress = &address
		dto.PrimaryContact = &contact
	}
	return dto
}

func (in CreateItemInput) ToModel() *models.Item {
	return &models.Item{
		ItemType:         strings.TrimSpace(in.ItemType),
		Description:      in.Description,
		ItemNumber:       in.ItemNumber,
		OriginalPrice:    in.OriginalPrice,
		OfferPrice:       in.OfferPrice,
		Quantity:         in.Quantity,
		StartTime:        in.StartTime,
		EndTime:          in.EndTime,
		ImageURL:         in.ImageURL,
		UnitWeight:       in.UnitWeight,
		DeliveryIncluded: in.DeliveryIncluded,
		DeliveryFee:      in.DeliveryFee,
		Status:           enums.NormalizeItemStatus(in.Status),
		RestaurantID:     in.RestaurantID,
	}
}
