package admins

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/gadgetbay/gadgetbay-backend/pkg/auth"
	"github.com/gadgetbay/gadgetbay-backend/pkg/config"
	"github.com/gadgetbay/gadgetbay-backend/pkg/db"
	"github.com/gadgetbay/gadgetbay-backend/pkg/db/models"
	"github.com/gadgetbay/gadgetbay-backend/pkg/enums"
	pkgerrors "github.com/gadgetbay/gadgetbay-backend/pkg/errors"
	"github.com/gadgetbay/gadgetbay-backend/pkg/security"
)

const minPasswordLength = 8

// Service defines admin account operations. Creation is gated to the
// developer role at the middleware layer.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*View, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
	Update(ctx context.Context, input UpdateInput) (*View, error)
	UpdatePassword(ctx context.Context, input UpdatePasswordInput) error
}

type service struct {
	repo   Repository
	jwtCfg config.AdminJWTConfig
	pwCfg  config.PasswordConfig
}

// NewService builds an admin service with the required dependencies.
func NewService(repo Repository, jwtCfg config.AdminJWTConfig, pwCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("admins repository required")
	}
	return &service{repo: repo, jwtCfg: jwtCfg, pwCfg: pwCfg}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*View, error) {
	email := normalizeEmail(input.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if len(input.Password) < minPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}

	role := enums.AdminRoleAdmin
	if input.Role != "" {
		parsed, err := enums.ParseAdminRole(input.Role)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid admin role")
		}
		role = parsed
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = "Admin"
	}

	hash, err := security.HashPassword(input.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	admin := &models.Admin{
		ID:           uuid.New(),
		Title:        title,
		Role:         role,
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		Phone:        strings.TrimSpace(input.Phone),
		PasswordHash: hash,
	}

	if err := s.repo.Create(ctx, admin); err != nil {
		if db.IsUniqueViolation(err, "idx_admins_email") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create admin")
	}

	view := viewOf(admin)
	return &view, nil
}

func (s *service) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	admin, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load admin")
	}

	ok, err := security.VerifyPassword(input.Password, admin.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	token, err := pkgAuth.MintAdminToken(s.jwtCfg, time.Now(), admin.ID, admin.Role)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token")
	}
	return &AuthResult{Token: token, Admin: viewOf(admin)}, nil
}

func (s *service) Update(ctx context.Context, input UpdateInput) (*View, error) {
	if input.AdminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin identity missing")
	}

	updates := map[string]any{}
	if name := strings.TrimSpace(input.Name); name != "" {
		updates["name"] = name
	}
	if title := strings.TrimSpace(input.Title); title != "" {
		updates["title"] = title
	}
	if email := normalizeEmail(input.Email); email != "" {
		updates["email"] = email
	}
	if phone := strings.TrimSpace(input.Phone); phone != "" {
		updates["phone"] = phone
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	if err := s.repo.Update(ctx, input.AdminID, updates); err != nil {
		if db.IsUniqueViolation(err, "idx_admins_email") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update admin")
	}

	admin, err := s.repo.FindByID(ctx, input.AdminID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "admin not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load admin")
	}

	view := viewOf(admin)
	return &view, nil
}

func (s *service) UpdatePassword(ctx context.Context, input UpdatePasswordInput) error {
	if input.AdminID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "admin identity missing")
	}
	if len(input.NewPassword) < minPasswordLength {
		return pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}

	admin, err := s.repo.FindByID(ctx, input.AdminID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "admin not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load admin")
	}

	ok, err := security.VerifyPassword(input.CurrentPassword, admin.PasswordHash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "current password is incorrect")
	}

	hash, err := security.HashPassword(input.NewPassword, s.pwCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	if err := s.repo.Update(ctx, input.AdminID, map[string]any{"password_hash": hash}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update password")
	}
	return nil
}

func normalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
