package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/gadgetbay/gadgetbay-backend/pkg/db/models"
)

// RegisterInput carries the fields accepted at signup.
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// LoginInput carries the credential pair.
type LoginInput struct {
	Email    string
	Password string
}

// UpdateProfileInput carries the mutable profile fields.
type UpdateProfileInput struct {
	UserID uuid.UUID
	Name   string
	Email  string
	Phone  string
}

// UpdatePasswordInput carries a password rotation request.
type UpdatePasswordInput struct {
	UserID          uuid.UUID
	CurrentPassword string
	NewPassword     string
}

// View is the public shape of a user; the password hash never leaves the
// persistence layer.
type View struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResult pairs a minted token with the authenticated user.
type AuthResult struct {
	Token string `json:"token"`
	User  View   `json:"user"`
}

func viewOf(u *models.User) View {
	return View{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt,
	}
}
