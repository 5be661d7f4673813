package interactions

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gadgetbay/gadgetbay-backend/pkg/db"
	"github.com/gadgetbay/gadgetbay-backend/pkg/db/models"
	pkgerrors "github.com/gadgetbay/gadgetbay-backend/pkg/errors"
	"github.com/gadgetbay/gadgetbay-backend/pkg/pagination"
)

// Service defines comment and like operations.
type Service interface {
	AddComment(ctx context.Context, productID, userID uuid.UUID, text string) (*CommentView, error)
	ListComments(ctx context.Context, productID uuid.UUID, params pagination.Params) (*CommentList, error)
	ToggleLike(ctx context.Context, productID, userID uuid.UUID, userPhone string) (*ToggleResult, error)
	RemoveLike(ctx context.Context, productID, userID uuid.UUID) (*ToggleResult, error)
	ListLikes(ctx context.Context, productID uuid.UUID, params pagination.Params) (*LikeList, error)
}

type service struct {
	repo Repository
}

// NewService builds an interactions service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("interactions repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) AddComment(ctx context.Context, productID, userID uuid.UUID, text string) (*CommentView, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "comment text is required")
	}
	if err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:        uuid.New(),
		ProductID: productID,
		UserID:    userID,
		Text:      text,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create comment")
	}

	view := commentViewOf(comment)
	return &view, nil
}

func (s *service) ListComments(ctx context.Context, productID uuid.UUID, params pagination.Params) (*CommentList, error) {
	if err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}
	params = params.Normalize()
	items, total, err := s.repo.ListComments(ctx, productID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list comments")
	}

	views := make([]CommentView, 0, len(items))
	for i := range items {
		views = append(views, commentViewOf(&items[i]))
	}
	return &CommentList{Comments: views, Meta: params.MetaFor(total)}, nil
}

// ToggleLike removes an existing like or inserts a new one. The composite
// unique index is the real guard: losing the insert race to another request
// means the like exists, which is the outcome the caller asked for.
func (s *service) ToggleLike(ctx context.Context, productID, userID uuid.UUID, userPhone string) (*ToggleResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindLike(ctx, productID, userID); err == nil {
		if _, err := s.repo.DeleteLike(ctx, productID, userID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete like")
		}
		return s.result(ctx, productID, false)
	} else if err != gorm.ErrRecordNotFound {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check like")
	}

	like := &models.Like{
		ID:        uuid.New(),
		ProductID: productID,
		UserID:    userID,
		UserPhone: strings.TrimSpace(userPhone),
	}
	if err := s.repo.CreateLike(ctx, like); err != nil {
		if !db.IsUniqueViolation(err, "idx_likes_product_user") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create like")
		}
		// concurrent like won the race; already liked
	}
	return s.result(ctx, productID, true)
}

func (s *service) RemoveLike(ctx context.Context, productID, userID uuid.UUID) (*ToggleResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}

	if _, err := s.repo.DeleteLike(ctx, productID, userID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete like")
	}
	return s.result(ctx, productID, false)
}

func (s *service) ListLikes(ctx context.Context, productID uuid.UUID, params pagination.Params) (*LikeList, error) {
	if err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}
	params = params.Normalize()
	items, total, err := s.repo.ListLikes(ctx, productID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list likes")
	}

	views := make([]LikeView, 0, len(items))
	for i := range items {
		views = append(views, likeViewOf(&items[i]))
	}
	return &LikeList{Likes: views, Meta: params.MetaFor(total)}, nil
}

func (s *service) requireProduct(ctx context.Context, productID uuid.UUID) error {
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	exists, err := s.repo.ProductExists(ctx, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check product")
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

func (s *service) result(ctx context.Context, productID uuid.UUID, liked bool) (*ToggleResult, error) {
	total, err := s.repo.CountLikes(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count likes")
	}
	return &ToggleResult{Liked: liked, TotalLikes: total}, nil
}
