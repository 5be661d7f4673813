package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a user remark on a product.
type Comment struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null"`
	Text      string    `gorm:"column:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index"`

	User *User `gorm:"foreignKey:UserID;references:ID;constraint:-"`
}
