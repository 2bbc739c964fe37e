package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/goupromo/goupromo-backend/pkg/enums"
)

// Item is a discounted food offer. Prices are whole currency units.
type Item struct {
	ID               uuid.UUID        `gorm:"type:uuid;primaryKey"`
	ItemType         string           `gorm:"column:item_type"`
	Description      string           `gorm:"column:description"`
	ItemNumber       string           `gorm:"column:item_number"`
	OriginalPrice    int64            `gorm:"column:original_price;not null"`
	OfferPrice       int64            `gorm:"column:offer_price;not null"`
	Quantity         int              `gorm:"column:quantity;not null"`
	StartTime        *time.Time       `gorm:"column:start_time"`
	EndTime          *time.Time       `gorm:"column:end_time"`
	ImageURL         *string          `gorm:"column:image_url"`
	UnitWeight       int              `gorm:"column:unit_weight;not null;default:0"`
	DeliveryIncluded bool             `gorm:"column:delivery_included;not null;default:false"`
	DeliveryFee      int64            `gorm:"column:delivery_fee;not null;default:0"`
	Status           enums.ItemStatus `gorm:"column:status;not null;default:'active'"`
	RestaurantID     *uuid.UUID       `gorm:"column:restaurant_id;type:uuid"`
	CreatedAt        time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (Item) TableName() string { return "items" }

func (i *Item) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
