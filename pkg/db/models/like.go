package models

import (
	"time"

	"github.com/google/uuid"
)

// Like marks that a user liked a product. The composite unique index is the
// hard guarantee against duplicate likes; application-level existence checks
// are only an optimization on top of it.
type Like struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_likes_product_user"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_likes_product_user"`
	UserPhone string    `gorm:"column:user_phone;not null;default:''"`
	AddedAt   time.Time `gorm:"column:added_at;autoCreateTime;index"`

	User *User `gorm:"foreignKey:UserID;references:ID;constraint:-"`
}
