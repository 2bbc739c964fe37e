package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/goupromo/goupromo-backend/pkg/enums"
	"github.com/goupromo/goupromo-backend/pkg/types"
)

// Restaurant is the merchant profile items are published under.
type Restaurant struct {
	ID             uuid.UUID             `gorm:"type:uuid;primaryKey"`
	Name           string                `gorm:"column:name;not null"`
	NIT            string                `gorm:"column:nit"`
	PrimaryAddress types.AddressDocument `gorm:"column:primary_address;type:jsonb"`
	PrimaryContact types.ContactDocument `gorm:"column:primary_contact;type:jsonb"`
	Phone          string                `gorm:"column:phone"`
	Email          string                `gorm:"column:email"`
	City           string                `gorm:"column:city"`
	UserID         *uuid.UUID            `gorm:"column:user_id;type:uuid"`
	Plan           enums.Plan            `gorm:"column:plan;not null;default:'goupromo'"`
	LogoURL        *string               `gorm:"column:logo_url"`
	WebsiteURL     *string               `gorm:"column:website_url"`
	CreatedAt      time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (Restaurant) TableName() string { return "restaurants" }

func (r *Restaurant) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
