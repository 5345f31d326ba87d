package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformed is returned when a token does not have the expected
// three-segment structure or its payload segment is not valid encoded JSON.
var ErrMalformed = errors.New("malformed token")

// Claims is the decoded, unverified payload of an access token. Claim names
// follow the issuing server's custom claim set.
type Claims struct {
	UserID      int64    `json:"user_id"`
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	IsSuperuser bool     `json:"is_superuser"`
	Permissions []string `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

// ExpiryTime returns the exp claim as a time, or the zero time when the
// claim is absent.
func (c *Claims) ExpiryTime() time.Time {
	if c == nil || c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// Decode extracts the claims from the payload segment of tokenStr without
// verifying the signature. Structural failures are reported as
// [ErrMalformed]; an expired token still decodes successfully — expiry
// policy is the caller's concern.
func Decode(tokenStr string) (*Claims, error) {
	claims := &Claims{}

	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenStr, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	return claims, nil
}
