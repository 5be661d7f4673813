package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/gadgetbay/gadgetbay-backend/pkg/enums"
)

// Order references its product and buyer without owning them; deleting a
// product does not cascade into its orders.
type Order struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	ProductID    uuid.UUID         `gorm:"column:product_id;type:uuid;not null;index"`
	UserID       uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	UserPhone    string            `gorm:"column:user_phone;not null"`
	Conditions   *string           `gorm:"column:conditions"`
	Quantity     int               `gorm:"column:quantity;not null;check:quantity >= 1"`
	OrderedAt    time.Time         `gorm:"column:ordered_at;autoCreateTime;index"`
	DeliveryTime *time.Time        `gorm:"column:delivery_time"`
	Status       enums.OrderStatus `gorm:"column:status;not null;default:'pending';index"`
	AdminMessage *string           `gorm:"column:admin_message"`

	// References only; no DB-level FK so product deletion never cascades or blocks.
	Product *Product `gorm:"foreignKey:ProductID;references:ID;constraint:-"`
	User    *User    `gorm:"foreignKey:UserID;references:ID;constraint:-"`
}
