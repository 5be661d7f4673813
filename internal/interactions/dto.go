package interactions

import (
	"time"

	"github.com/google/uuid"

	"github.com/gadgetbay/gadgetbay-backend/pkg/db/models"
	"github.com/gadgetbay/gadgetbay-backend/pkg/pagination"
)

// CommentView is the public shape of a comment with its author summary.
type CommentView struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	UserID    uuid.UUID `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentList wraps a page of comments with totals meta.
type CommentList struct {
	Comments []CommentView   `json:"comments"`
	Meta     pagination.Meta `json:"meta"`
}

// LikeView is the public shape of a like.
type LikeView struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	UserID    uuid.UUID `json:"user_id"`
	UserPhone string    `json:"user_phone,omitempty"`
	AddedAt   time.Time `json:"added_at"`
}

// LikeList wraps a page of likes with totals meta.
type LikeList struct {
	Likes []LikeView      `json:"likes"`
	Meta  pagination.Meta `json:"meta"`
}

// ToggleResult reports the like state after a toggle plus the running total.
type ToggleResult struct {
	Liked      bool  `json:"liked"`
	TotalLikes int64 `json:"total_likes"`
}

func commentViewOf(c *models.Comment) CommentView {
	view := CommentView{
		ID:        c.ID,
		ProductID: c.ProductID,
		UserID:    c.UserID,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
	if c.User != nil {
		view.UserName = c.User.Name
	}
	return view
}

func likeViewOf(l *models.Like) LikeView {
	return LikeView{
		ID:        l.ID,
		ProductID: l.ProductID,
		UserID:    l.UserID,
		UserPhone: l.UserPhone,
		AddedAt:   l.AddedAt,
	}
}
