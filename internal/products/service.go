package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gadgetbay/gadgetbay-backend/pkg/db/models"
	"github.com/gadgetbay/gadgetbay-backend/pkg/enums"
	pkgerrors "github.com/gadgetbay/gadgetbay-backend/pkg/errors"
	"github.com/gadgetbay/gadgetbay-backend/pkg/logger"
	"github.com/gadgetbay/gadgetbay-backend/pkg/pagination"
)

// blobStore is the slice of pkg/blob the catalog needs: existence checks when
// wiring a video and cleanup when the product stops referencing it.
type blobStore interface {
	Stat(ctx context.Context, id uuid.UUID) (*models.StoredFile, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service defines catalog operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*View, error)
	Get(ctx context.Context, id uuid.UUID) (*View, error)
	List(ctx context.Context, params pagination.Params) (*List, error)
	Search(ctx context.Context, query string, params pagination.Params) (*List, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*View, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo  Repository
	blobs blobStore
	logg  *logger.Logger
}

// NewService builds a catalog service with the required dependencies.
func NewService(repo Repository, blobs blobStore, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if blobs == nil {
		return nil, fmt.Errorf("blob store required")
	}
	return &service{repo: repo, blobs: blobs, logg: logg}, nil
}

// StreamURL derives the public streaming path for a stored video.
func StreamURL(fileID uuid.UUID) string {
	return fmt.Sprintf("/videos/%s/stream", fileID)
}

// videoFileIDFromURL recovers the blob id from a /videos/{id}/stream path.
// External URLs return false and are left alone on delete/replace.
func videoFileIDFromURL(url string) (uuid.UUID, bool) {
	rest, ok := strings.CutPrefix(url, "/videos/")
	if !ok {
		return uuid.Nil, false
	}
	raw, ok := strings.CutSuffix(rest, "/stream")
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func (s *service) Create(ctx context.Context, input CreateInput) (*View, error) {
	productType, err := enums.ParseProductType(input.Type)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product type")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}
	if input.VideoFileID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "video file id is required")
	}

	if _, err := s.blobs.Stat(ctx, input.VideoFileID); err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "video file does not exist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check video file")
	}

	product := &models.Product{
		ID:       uuid.New(),
		Type:     productType,
		Name:     name,
		Brand:    strings.TrimSpace(input.Brand),
		VideoURL: StreamURL(input.VideoFileID),
		Quantity: input.Quantity,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}

	view := viewOf(product)
	return &view, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*View, error) {
	product, err := s.loadProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	view := viewOf(product)
	return &view, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*List, error) {
	params = params.Normalize()
	items, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return &List{Products: viewsOf(items), Meta: params.MetaFor(total)}, nil
}

func (s *service) Search(ctx context.Context, query string, params pagination.Params) (*List, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "search query is required")
	}
	params = params.Normalize()
	items, total, err := s.repo.Search(ctx, query, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search products")
	}
	return &List{Products: viewsOf(items), Meta: params.MetaFor(total)}, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*View, error) {
	existing, err := s.loadProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Type != "" {
		productType, err := enums.ParseProductType(input.Type)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product type")
		}
		updates["type"] = productType
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		updates["name"] = name
	}
	if brand := strings.TrimSpace(input.Brand); brand != "" {
		updates["brand"] = brand
	}
	if input.Quantity != nil {
		if *input.Quantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
		}
		updates["quantity"] = *input.Quantity
	}

	var replacedBlob uuid.UUID
	if input.VideoFileID != uuid.Nil {
		if _, err := s.blobs.Stat(ctx, input.VideoFileID); err != nil {
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "video file does not exist")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check video file")
		}
		updates["video_url"] = StreamURL(input.VideoFileID)
		if oldID, ok := videoFileIDFromURL(existing.VideoURL); ok && oldID != input.VideoFileID {
			replacedBlob = oldID
		}
	}

	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	if _, err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	if replacedBlob != uuid.Nil {
		s.cleanupBlob(ctx, replacedBlob)
	}

	product, err := s.loadProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	view := viewOf(product)
	return &view, nil
}

// Delete removes the product and best-effort cleans its video blob. Orders,
// comments and likes keep their product references.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := s.loadProduct(ctx, id)
	if err != nil {
		return err
	}

	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	if fileID, ok := videoFileIDFromURL(existing.VideoURL); ok {
		s.cleanupBlob(ctx, fileID)
	}
	return nil
}

func (s *service) loadProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) cleanupBlob(ctx context.Context, fileID uuid.UUID) {
	if err := s.blobs.Delete(ctx, fileID); err != nil {
		if s.logg != nil {
			ctx = s.logg.WithField(ctx, "file_id", fileID.String())
			s.logg.Warn(ctx, "video blob cleanup failed")
		}
	}
}
