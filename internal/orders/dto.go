package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/gadgetbay/gadgetbay-backend/pkg/db/models"
	"github.com/gadgetbay/gadgetbay-backend/pkg/enums"
	"github.com/gadgetbay/gadgetbay-backend/pkg/pagination"
)

// CreateInput carries everything needed to place an order.
type CreateInput struct {
	ProductID    uuid.UUID
	UserID       uuid.UUID
	UserPhone    string
	Conditions   *string
	Quantity     int
	DeliveryTime *time.Time
}

// DecideInput carries an admin decision on a pending order.
type DecideInput struct {
	OrderID uuid.UUID
	Action  enums.OrderDecision
	Message *string
}

// Filters narrow the admin order list.
type Filters struct {
	Status    *enums.OrderStatus
	UserID    uuid.UUID
	ProductID uuid.UUID
}

// View is the public shape of an order.
type View struct {
	ID           uuid.UUID         `json:"id"`
	ProductID    uuid.UUID         `json:"product_id"`
	UserID       uuid.UUID         `json:"user_id"`
	UserPhone    string            `json:"user_phone"`
	Conditions   *string           `json:"conditions,omitempty"`
	Quantity     int               `json:"quantity"`
	OrderedAt    time.Time         `json:"ordered_at"`
	DeliveryTime *time.Time        `json:"delivery_time,omitempty"`
	Status       enums.OrderStatus `json:"status"`
	AdminMessage *string           `json:"admin_message,omitempty"`
}

// List wraps a page of orders with totals meta.
type List struct {
	Orders []View          `json:"orders"`
	Meta   pagination.Meta `json:"meta"`
}

func viewOf(o *models.Order) View {
	return View{
		ID:           o.ID,
		ProductID:    o.ProductID,
		UserID:       o.UserID,
		UserPhone:    o.UserPhone,
		Conditions:   o.Conditions,
		Quantity:     o.Quantity,
		OrderedAt:    o.OrderedAt,
		DeliveryTime: o.DeliveryTime,
		Status:       o.Status,
		AdminMessage: o.AdminMessage,
	}
}

func viewsOf(items []models.Order) []View {
	out := make([]View, 0, len(items))
	for i := range items {
		out = append(out, viewOf(&items[i]))
	}
	return out
}
