package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gadgetbay/gadgetbay-backend/api/responses"
	"github.com/gadgetbay/gadgetbay-backend/api/validators"
	ordersvc "github.com/gadgetbay/gadgetbay-backend/internal/orders"
	"github.com/gadgetbay/gadgetbay-backend/pkg/enums"
	pkgerrors "github.com/gadgetbay/gadgetbay-backend/pkg/errors"
	"github.com/gadgetbay/gadgetbay-backend/pkg/logger"
)

type createOrderRequest struct {
	ProductID    string     `json:"product_id" validate:"required,uuid"`
	UserPhone    string     `json:"user_phone" validate:"required"`
	Conditions   *string    `json:"conditions,omitempty"`
	Quantity     int        `json:"quantity" validate:"required,min=1"`
	DeliveryTime *time.Time `json:"delivery_time,omitempty"`
}

type decideOrderRequest struct {
	Action  string  `json:"action" validate:"required,oneof=confirm reject"`
	Message *string `json:"message,omitempty"`
}

// CreateOrder places an order for the authenticated user.
func CreateOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		view, err := svc.Create(r.Context(), ordersvc.CreateInput{
			ProductID:    productID,
			UserID:       userID,
			UserPhone:    payload.UserPhone,
			Conditions:   payload.Conditions,
			Quantity:     payload.Quantity,
			DeliveryTime: payload.DeliveryTime,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// GetOrder returns one of the authenticated user's orders. Orders owned by
// other users read as not found.
func GetOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if view.UserID != userID {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// ListOrders is the admin order overview with optional status/user/product
// filters.
func ListOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var filters ordersvc.Filters
		if raw := r.URL.Query().Get("status"); raw != "" {
			status, err := enums.ParseOrderStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter"))
				return
			}
			filters.Status = &status
		}
		if filters.UserID, err = validators.ParseQueryUUID(r, "user"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.ProductID, err = validators.ParseQueryUUID(r, "product"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// DecideOrder lets an admin confirm or reject a pending order. Rejections
// restock in the same transaction.
func DecideOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload decideOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		action, err := enums.ParseOrderDecision(payload.Action)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "action must be confirm or reject"))
			return
		}

		view, err := svc.Decide(r.Context(), ordersvc.DecideInput{
			OrderID: id,
			Action:  action,
			Message: payload.Message,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}
