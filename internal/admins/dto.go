package admins

import (
	"time"

	"github.com/google/uuid"

	"github.com/gadgetbay/gadgetbay-backend/pkg/db/models"
	"github.com/gadgetbay/gadgetbay-backend/pkg/enums"
)

// CreateInput carries the fields a developer supplies when adding an admin.
type CreateInput struct {
	Name     string
	Title    string
	Role     string
	Email    string
	Phone    string
	Password string
}

// LoginInput carries the credential pair.
type LoginInput struct {
	Email    string
	Password string
}

// UpdateInput carries the mutable admin fields.
type UpdateInput struct {
	AdminID uuid.UUID
	Name    string
	Title   string
	Email   string
	Phone   string
}

// UpdatePasswordInput carries a password rotation request.
type UpdatePasswordInput struct {
	AdminID         uuid.UUID
	CurrentPassword string
	NewPassword     string
}

// View is the public shape of an admin account.
type View struct {
	ID        uuid.UUID       `json:"id"`
	Title     string          `json:"title"`
	Role      enums.AdminRole `json:"role"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone"`
	CreatedAt time.Time       `json:"created_at"`
}

// AuthResult pairs a minted admin token with the authenticated account.
type AuthResult struct {
	Token string `json:"token"`
	Admin View   `json:"admin"`
}

func viewOf(a *models.Admin) View {
	return View{
		ID:        a.ID,
		Title:     a.Title,
		Role:      a.Role,
		Name:      a.Name,
		Email:     a.Email,
		Phone:     a.Phone,
		CreatedAt: a.CreatedAt,
	}
}
