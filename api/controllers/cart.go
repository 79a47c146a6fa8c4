package controllers

import (
	"net/http"
	"strconv"

	"github.com/rimae/rimae-backend/api/middleware"
	"github.com/rimae/rimae-backend/api/responses"
	"github.com/rimae/rimae-backend/api/validators"
	"github.com/rimae/rimae-backend/internal/cart"
	pkgerrors "github.com/rimae/rimae-backend/pkg/errors"
	"github.com/rimae/rimae-backend/pkg/logger"
)

type addCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Size      string `json:"size" validate:"required,max=32"`
	Quantity  int    `json:"quantity" validate:"required,min=1,max=999"`
}

type updateCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Size      string `json:"size" validate:"required,max=32"`
	Quantity  int    `json:"quantity" validate:"min=0,max=999"`
}

type applyCouponRequest struct {
	Code string `json:"code" validate:"required,max=64"`
}

// CartGet returns the session cart priced with the current promotions.
func CartGet(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		view, err := svc.Get(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(sessionID, view))
	}
}

// CartAddItem adds units of a catalog product size. Price and display data
// come from the catalog.
func CartAddItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		view, err := svc.AddItem(r.Context(), sessionID, cart.AddItemInput{
			ProductID: payload.ProductID,
			Size:      payload.Size,
			Quantity:  payload.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(sessionID, view))
	}
}

// CartUpdateItem sets a line's quantity; zero removes the line.
func CartUpdateItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		view, err := svc.UpdateQuantity(r.Context(), sessionID, cart.UpdateQuantityInput{
			ProductID: payload.ProductID,
			Size:      payload.Size,
			Quantity:  payload.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(sessionID, view))
	}
}

// CartRemoveItem drops the line named by the product_id and size query
// parameters.
func CartRemoveItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		productID := validators.SanitizeString(r.URL.Query().Get("product_id"), 64)
		size := validators.SanitizeString(r.URL.Query().Get("size"), 32)
		if productID == "" || size == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product_id and size are required").
				WithDetails(map[string]any{"fields": []string{"product_id", "size"}}))
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		view, err := svc.RemoveItem(r.Context(), sessionID, productID, size)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(sessionID, view))
	}
}

// CartClear empties the session cart. With keep_coupon=true only the lines
// are removed and an applied coupon stays attached.
func CartClear(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		keepCoupon := false
		if raw := r.URL.Query().Get("keep_coupon"); raw != "" {
			parsed, err := strconv.ParseBool(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "keep_coupon must be a boolean").
					WithDetails(map[string]any{"field": "keep_coupon"}))
				return
			}
			keepCoupon = parsed
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		var (
			view cart.View
			err  error
		)
		if keepCoupon {
			view, err = svc.ClearItems(r.Context(), sessionID)
		} else {
			if err = svc.Clear(r.Context(), sessionID); err == nil {
				view, err = svc.Get(r.Context(), sessionID)
			}
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(sessionID, view))
	}
}

// CartApplyCoupon attaches a coupon. A coupon that does not apply to the
// current cart is answered with 422 and the reason.
func CartApplyCoupon(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload applyCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		view, err := svc.ApplyCoupon(r.Context(), sessionID, payload.Code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(sessionID, view))
	}
}

func CartRemoveCoupon(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		view, err := svc.RemoveCoupon(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(sessionID, view))
	}
}
