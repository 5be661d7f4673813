package interactions

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gadgetbay/gadgetbay-backend/pkg/db/models"
	"github.com/gadgetbay/gadgetbay-backend/pkg/pagination"
)

// Repository defines persistence operations for comments and likes.
type Repository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	ListComments(ctx context.Context, productID uuid.UUID, params pagination.Params) ([]models.Comment, int64, error)
	CreateLike(ctx context.Context, like *models.Like) error
	FindLike(ctx context.Context, productID, userID uuid.UUID) (*models.Like, error)
	DeleteLike(ctx context.Context, productID, userID uuid.UUID) (int64, error)
	ListLikes(ctx context.Context, productID uuid.UUID, params pagination.Params) ([]models.Like, int64, error)
	CountLikes(ctx context.Context, productID uuid.UUID) (int64, error)
	ProductExists(ctx context.Context, productID uuid.UUID) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an interactions repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateComment(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *repository) ListComments(ctx context.Context, productID uuid.UUID, params pagination.Params) ([]models.Comment, int64, error) {
	scope := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("product_id = ?", productID)

	var total int64
	if err := scope.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Comment
	err := scope.
		Preload("User").
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repository) CreateLike(ctx context.Context, like *models.Like) error {
	return r.db.WithContext(ctx).Create(like).Error
}

func (r *repository) FindLike(ctx context.Context, productID, userID uuid.UUID) (*models.Like, error) {
	var like models.Like
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND user_id = ?", productID, userID).
		First(&like).Error
	if err != nil {
		return nil, err
	}
	return &like, nil
}

func (r *repository) DeleteLike(ctx context.Context, productID, userID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("product_id = ? AND user_id = ?", productID, userID).
		Delete(&models.Like{})
	return res.RowsAffected, res.Error
}

func (r *repository) ListLikes(ctx context.Context, productID uuid.UUID, params pagination.Params) ([]models.Like, int64, error) {
	scope := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("product_id = ?", productID)

	var total int64
	if err := scope.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Like
	err := scope.
		Order("added_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repository) CountLikes(ctx context.Context, productID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("product_id = ?", productID).
		Count(&total).Error
	return total, err
}

func (r *repository) ProductExists(ctx context.Context, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
