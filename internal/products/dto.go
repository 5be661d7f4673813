package products

import (
	"time"

	"github.com/google/uuid"

	"github.com/gadgetbay/gadgetbay-backend/pkg/db/models"
	"github.com/gadgetbay/gadgetbay-backend/pkg/enums"
	"github.com/gadgetbay/gadgetbay-backend/pkg/pagination"
)

// CreateInput carries the fields accepted when an admin adds a product.
type CreateInput struct {
	Type        string
	Name        string
	Brand       string
	Quantity    int
	VideoFileID uuid.UUID
}

// UpdateInput carries the mutable product fields. Zero values are skipped;
// a non-nil Quantity sets the stock level outright.
type UpdateInput struct {
	Type        string
	Name        string
	Brand       string
	Quantity    *int
	VideoFileID uuid.UUID
}

// View is the public shape of a product.
type View struct {
	ID        uuid.UUID         `json:"id"`
	Type      enums.ProductType `json:"type"`
	Name      string            `json:"name"`
	Brand     string            `json:"brand"`
	VideoURL  string            `json:"video_url"`
	Quantity  int               `json:"quantity"`
	AddedAt   time.Time         `json:"added_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// List wraps a page of products with totals meta.
type List struct {
	Products []View          `json:"products"`
	Meta     pagination.Meta `json:"meta"`
}

func viewOf(p *models.Product) View {
	return View{
		ID:        p.ID,
		Type:      p.Type,
		Name:      p.Name,
		Brand:     p.Brand,
		VideoURL:  p.VideoURL,
		Quantity:  p.Quantity,
		AddedAt:   p.AddedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func viewsOf(items []models.Product) []View {
	out := make([]View, 0, len(items))
	for i := range items {
		out = append(out, viewOf(&items[i]))
	}
	return out
}
