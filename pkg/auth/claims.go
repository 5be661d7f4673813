package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/gadgetbay/gadgetbay-backend/pkg/enums"
)

// UserClaims is the payload carried by end-user access tokens.
type UserClaims struct {
	UserID uuid.UUID `json:"uid"`
	jwt.RegisteredClaims
}

// AdminClaims is the payload carried by admin access tokens. Role drives the
// developer-only gate on admin creation.
type AdminClaims struct {
	AdminID uuid.UUID       `json:"aid"`
	Role    enums.AdminRole `json:"role"`
	jwt.RegisteredClaims
}
