package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/goupromo/goupromo-backend/pkg/db/models"
	"github.com/goupromo/goupromo-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID          uuid.UUID      `json:"id"`
	Username    string         `json:"username"`
	FirstName   string         `json:"first_name"`
	LastName    string         `json:"last_name"`
	Email       string         `json:"email"`
	PhoneNumber string         `json:"phone_number"`
	City        string         `json:"city"`
	UserType    enums.UserType `json:"user_type"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
// PasswordHash must already be a digest.
type CreateUserDTO struct {
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	Email        string
	PhoneNumber  string
	City         string
	UserType     enums.UserType
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:          u.ID,
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		City:        u.City,
		UserType:    u.UserType,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	userType := c.UserType
	if userType == "" {
		userType = enums.UserTypeCustomer
	}

	return &models.User{
		Username:     c.Username,
		PasswordHash: c.PasswordHash,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		Email:        c.Email,
		PhoneNumber:  c.PhoneNumber,
		City:         c.City,
		UserType:     userType,
	}
}
