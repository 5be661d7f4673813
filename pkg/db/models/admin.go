package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/gadgetbay/gadgetbay-backend/pkg/enums"
)

// Admin is a back-office account living in a keyspace independent from users.
type Admin struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Title        string          `gorm:"column:title;not null;default:'Admin'"`
	Role         enums.AdminRole `gorm:"column:role;not null;default:'admin'"`
	Name         string          `gorm:"column:name;not null"`
	Email        string          `gorm:"column:email;not null;uniqueIndex"`
	Phone        string          `gorm:"column:phone;not null"`
	PasswordHash string          `gorm:"column:password_hash;not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}
