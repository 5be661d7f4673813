package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gadgetbay/gadgetbay-backend/pkg/config"
	"github.com/gadgetbay/gadgetbay-backend/pkg/db/models"
	"github.com/gadgetbay/gadgetbay-backend/pkg/enums"
	pkgerrors "github.com/gadgetbay/gadgetbay-backend/pkg/errors"
	"github.com/gadgetbay/gadgetbay-backend/pkg/logger"
	"github.com/gadgetbay/gadgetbay-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines order lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*View, error)
	Decide(ctx context.Context, input DecideInput) (*View, error)
	Get(ctx context.Context, id uuid.UUID) (*View, error)
	List(ctx context.Context, params pagination.Params, filters Filters) (*List, error)
}

type service struct {
	repo  Repository
	tx    txRunner
	flags config.FeatureFlagsConfig
	logg  *logger.Logger
}

// NewService builds an order service with the required dependencies.
func NewService(repo Repository, tx txRunner, flags config.FeatureFlagsConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, flags: flags, logg: logg}, nil
}

// Create validates the request, then atomically decrements stock and inserts
// the pending order. All validation happens before any stock is touched.
func (s *service) Create(ctx context.Context, input CreateInput) (*View, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if strings.TrimSpace(input.UserPhone) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user phone is required")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	order := &models.Order{
		ID:           uuid.New(),
		ProductID:    input.ProductID,
		UserID:       input.UserID,
		UserPhone:    strings.TrimSpace(input.UserPhone),
		Conditions:   input.Conditions,
		Quantity:     input.Quantity,
		DeliveryTime: input.DeliveryTime,
		Status:       enums.OrderStatusPending,
	}

	if s.flags.NonTransactionalStock {
		if err := s.createSaga(ctx, order); err != nil {
			return nil, err
		}
	} else {
		err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			return s.decrementAndInsert(ctx, s.repo.WithTx(tx), order)
		})
		if err != nil {
			return nil, err
		}
	}

	view := viewOf(order)
	return &view, nil
}

func (s *service) decrementAndInsert(ctx context.Context, repo Repository, order *models.Order) error {
	affected, err := repo.DecrementStock(ctx, order.ProductID, order.Quantity)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
	}
	if affected == 0 {
		exists, err := repo.ProductExists(ctx, order.ProductID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check product")
		}
		if !exists {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough stock for the requested quantity")
	}

	if err := repo.Create(ctx, order); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}
	return nil
}

// createSaga is the legacy non-transactional path: decrement, insert, and on
// insert failure issue a compensating increment. Stock loss is never silent.
func (s *service) createSaga(ctx context.Context, order *models.Order) error {
	affected, err := s.repo.DecrementStock(ctx, order.ProductID, order.Quantity)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
	}
	if affected == 0 {
		exists, err := s.repo.ProductExists(ctx, order.ProductID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check product")
		}
		if !exists {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough stock for the requested quantity")
	}

	if err := s.repo.Create(ctx, order); err != nil {
		compErr := s.repo.IncrementStock(ctx, order.ProductID, order.Quantity)
		if s.logg != nil {
			logCtx := s.logg.WithFields(ctx, map[string]any{
				"product_id": order.ProductID.String(),
				"quantity":   order.Quantity,
			})
			if compErr != nil {
				s.logg.Error(logCtx, "order insert failed and compensating restock also failed; stock is short", compErr)
			} else {
				s.logg.Warn(logCtx, "order insert failed; stock restored by compensating increment")
			}
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}
	return nil
}

// Decide applies an admin confirm/reject to a pending order. A decision on an
// already-decided order is a CONFLICT and changes nothing, so a reject can
// never restock twice.
func (s *service) Decide(ctx context.Context, input DecideInput) (*View, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if !input.Action.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "action must be confirm or reject")
	}

	var decided *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByID(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		if order.Status.IsDecided() {
			return pkgerrors.New(pkgerrors.CodeConflict, "order has already been decided").
				WithDetails(map[string]any{"status": order.Status})
		}

		updates := map[string]any{}
		switch input.Action {
		case enums.OrderDecisionConfirm:
			updates["status"] = enums.OrderStatusConfirmed
			order.Status = enums.OrderStatusConfirmed
		case enums.OrderDecisionReject:
			updates["status"] = enums.OrderStatusCancelled
			order.Status = enums.OrderStatusCancelled
			if err := repo.IncrementStock(ctx, order.ProductID, order.Quantity); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restock product")
			}
		}
		if input.Message != nil {
			updates["admin_message"] = *input.Message
			order.AdminMessage = input.Message
		}

		if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
		}

		decided = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	view := viewOf(decided)
	return &view, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*View, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	view := viewOf(order)
	return &view, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters Filters) (*List, error) {
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	params = params.Normalize()
	items, total, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return &List{Orders: viewsOf(items), Meta: params.MetaFor(total)}, nil
}
