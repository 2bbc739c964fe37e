package auth

import (
	"github.com/goupromo/goupromo-backend/internal/users"
)

// TokenTypeBearer is the only token type issued.
const TokenTypeBearer = "bearer"

// SignupRequest is the public registration payload.
type SignupRequest struct {
	Username    string `json:"username" validate:"required,max=150"`
	Password    string `json:"password" validate:"required,max=256"`
	FirstName   string `json:"first_name" validate:"max=150"`
	LastName    string `json:"last_name" validate:"max=150"`
	Email       string `json:"email" validate:"omitempty,email"`
	PhoneNumber string `json:"phone_number" validate:"max=50"`
	City        string `json:"city" validate:"max=150"`
	UserType    string `json:"user_type" validate:"omitempty,oneof=customer merchant"`
}

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse contains the access token and profile produced by a successful login.
type LoginResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	User        *users.UserDTO `json:"user"`
}
