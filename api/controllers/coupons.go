package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/rimae/rimae-backend/api/responses"
	"github.com/rimae/rimae-backend/api/validators"
	"github.com/rimae/rimae-backend/internal/coupons"
	pkgerrors "github.com/rimae/rimae-backend/pkg/errors"
	"github.com/rimae/rimae-backend/pkg/logger"
	"github.com/rimae/rimae-backend/pkg/pagination"
)

type createCouponRequest struct {
	Code           string           `json:"code" validate:"required,max=32"`
	Description    *string          `json:"description" validate:"omitempty,max=500"`
	DiscountType   string           `json:"discount_type" validate:"required,max=16"`
	DiscountValue  decimal.Decimal  `json:"discount_value"`
	MinOrderAmount decimal.Decimal  `json:"min_order_amount"`
	MaxDiscount    *decimal.Decimal `json:"max_discount"`
	UsageLimit     *int             `json:"usage_limit" validate:"omitempty,min=1"`
	ValidFrom      *time.Time       `json:"valid_from"`
	ValidUntil     *time.Time       `json:"valid_until"`
	IsActive       *bool            `json:"is_active"`
}

func (p createCouponRequest) toInput() coupons.CreateCouponInput {
	active := true
	if p.IsActive != nil {
		active = *p.IsActive
	}
	return coupons.CreateCouponInput{
		Code:           p.Code,
		Description:    p.Description,
		DiscountType:   p.DiscountType,
		DiscountValue:  p.DiscountValue,
		MinOrderAmount: p.MinOrderAmount,
		MaxDiscount:    p.MaxDiscount,
		UsageLimit:     p.UsageLimit,
		ValidFrom:      p.ValidFrom,
		ValidUntil:     p.ValidUntil,
		IsActive:       active,
	}
}

type updateCouponRequest struct {
	Description      *string          `json:"description" validate:"omitempty,max=500"`
	DiscountType     *string          `json:"discount_type" validate:"omitempty,max=16"`
	DiscountValue    *decimal.Decimal `json:"discount_value"`
	MinOrderAmount   *decimal.Decimal `json:"min_order_amount"`
	MaxDiscount      *decimal.Decimal `json:"max_discount"`
	ClearMaxDiscount bool             `json:"clear_max_discount"`
	UsageLimit       *int             `json:"usage_limit" validate:"omitempty,min=1"`
	ClearUsageLimit  bool             `json:"clear_usage_limit"`
	ValidFrom        *time.Time       `json:"valid_from"`
	ValidUntil       *time.Time       `json:"valid_until"`
	IsActive         *bool            `json:"is_active"`
}

func (p updateCouponRequest) toInput() coupons.UpdateCouponInput {
	return coupons.UpdateCouponInput{
		Description:      p.Description,
		DiscountType:     p.DiscountType,
		DiscountValue:    p.DiscountValue,
		MinOrderAmount:   p.MinOrderAmount,
		MaxDiscount:      p.MaxDiscount,
		ClearMaxDiscount: p.ClearMaxDiscount,
		UsageLimit:       p.UsageLimit,
		ClearUsageLimit:  p.ClearUsageLimit,
		ValidFrom:        p.ValidFrom,
		ValidUntil:       p.ValidUntil,
		IsActive:         p.IsActive,
	}
}

// AdminCouponsList pages through coupons, newest first.
func AdminCouponsList(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.List(r.Context(), pagination.Params{
			Limit:  limit,
			Cursor: validators.SanitizeString(r.URL.Query().Get("cursor"), 256),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func AdminCouponCreate(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		var payload createCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if logg != nil {
			logg.Info(logg.WithField(r.Context(), "coupon_code", created.Code), "coupon.created")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

func AdminCouponGet(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		coupon, err := svc.Get(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, coupon)
	}
}

func AdminCouponUpdate(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		var payload updateCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Update(r.Context(), chi.URLParam(r, "code"), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

func AdminCouponDelete(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		code := chi.URLParam(r, "code")
		if err := svc.Delete(r.Context(), code); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if logg != nil {
			logg.Info(logg.WithField(r.Context(), "coupon_code", code), "coupon.deleted")
		}
		responses.WriteNoContent(w)
	}
}
