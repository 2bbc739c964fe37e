package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	// Subject is the username the token is issued for.
	Subject string
	JTI     string
}

// AccessTokenClaims represents the typed JWT issued to clients. The username
// travels in the registered "sub" claim.
type AccessTokenClaims struct {
	jwt.RegisteredClaims
}

// Username returns the subject the token was minted for.
func (c *AccessTokenClaims) Username() string {
	if c == nil {
		return ""
	}
	return c.Subject
}
