package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/gadgetbay/gadgetbay-backend/pkg/enums"
)

// Product is a catalog listing with an attached demo video. Quantity is the
// on-hand stock and must never go negative; the orders transaction is the only
// writer allowed to decrement it.
type Product struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	Type      enums.ProductType `gorm:"column:type;not null"`
	Name      string            `gorm:"column:name;not null;index"`
	Brand     string            `gorm:"column:brand;not null"`
	VideoURL  string            `gorm:"column:video_url;not null"`
	Quantity  int               `gorm:"column:quantity;not null;default:0;check:quantity >= 0"`
	AddedAt   time.Time         `gorm:"column:added_at;autoCreateTime"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
