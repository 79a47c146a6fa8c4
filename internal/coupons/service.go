package coupons

import (
	"context"
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/rimae/rimae-backend/internal/pricing"
	"github.com/rimae/rimae-backend/pkg/db/models"
	"github.com/rimae/rimae-backend/pkg/enums"
	pkgerrors "github.com/rimae/rimae-backend/pkg/errors"
	"github.com/rimae/rimae-backend/pkg/pagination"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9_-]{3,32}$`)

var hundred = decimal.NewFromInt(100)

// CouponRepository is the persistence the service needs; *Repository implements it.
type CouponRepository interface {
	Create(ctx context.Context, coupon *models.Coupon) error
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
	List(ctx context.Context, params pagination.Params) ([]models.Coupon, string, error)
	Update(ctx context.Context, coupon *models.Coupon) error
	DeleteByCode(ctx context.Context, code string) error
}

// Service manages coupons for admins and resolves codes for the cart.
type Service interface {
	Create(ctx context.Context, input CreateCouponInput) (CouponDTO, error)
	Get(ctx context.Context, code string) (CouponDTO, error)
	List(ctx context.Context, params pagination.Params) (CouponPage, error)
	Update(ctx context.Context, code string, input UpdateCouponInput) (CouponDTO, error)
	Delete(ctx context.Context, code string) error
	Lookup(ctx context.Context, code string) (*pricing.Coupon, error)
}

type service struct {
	repo      CouponRepository
	listLimit int
}

// NewService builds the coupon service. listLimit is the page size used when
// a caller does not ask for one.
func NewService(repo CouponRepository, listLimit int) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon repo is required")
	}
	return &service{repo: repo, listLimit: listLimit}, nil
}

func (s *service) Create(ctx context.Context, input CreateCouponInput) (CouponDTO, error) {
	code, err := validCode(input.Code)
	if err != nil {
		return CouponDTO{}, err
	}
	discountType, err := enums.ParseDiscountType(input.DiscountType)
	if err != nil {
		return CouponDTO{}, fieldError("discount_type", err.Error())
	}

	coupon := &models.Coupon{
		Code:           code,
		Description:    input.Description,
		DiscountType:   discountType,
		DiscountValue:  input.DiscountValue,
		MinOrderAmount: input.MinOrderAmount,
		MaxDiscount:    input.MaxDiscount,
		UsageLimit:     input.UsageLimit,
		ValidFrom:      input.ValidFrom,
		ValidUntil:     input.ValidUntil,
		IsActive:       input.IsActive,
	}
	if err := validateCoupon(coupon); err != nil {
		return CouponDTO{}, err
	}
	if err := s.repo.Create(ctx, coupon); err != nil {
		if pkgerrors.As(err) != nil {
			return CouponDTO{}, err
		}
		return CouponDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create coupon")
	}
	return toDTO(*coupon), nil
}

func (s *service) Get(ctx context.Context, code string) (CouponDTO, error) {
	coupon, err := s.find(ctx, code)
	if err != nil {
		return CouponDTO{}, err
	}
	return toDTO(*coupon), nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (CouponPage, error) {
	if params.Limit <= 0 {
		params.Limit = s.listLimit
	}
	rows, next, err := s.repo.List(ctx, params)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return CouponPage{}, err
		}
		return CouponPage{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list coupons")
	}
	page := CouponPage{Items: make([]CouponDTO, 0, len(rows)), NextCursor: next}
	for _, row := range rows {
		page.Items = append(page.Items, toDTO(row))
	}
	return page, nil
}

func (s *service) Update(ctx context.Context, code string, input UpdateCouponInput) (CouponDTO, error) {
	coupon, err := s.find(ctx, code)
	if err != nil {
		return CouponDTO{}, err
	}
	if err := applyUpdate(coupon, input); err != nil {
		return CouponDTO{}, err
	}
	if err := validateCoupon(coupon); err != nil {
		return CouponDTO{}, err
	}
	if err := s.repo.Update(ctx, coupon); err != nil {
		return CouponDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update coupon")
	}
	return toDTO(*coupon), nil
}

func (s *service) Delete(ctx context.Context, code string) error {
	normalized := pricing.NormalizeCode(code)
	if normalized == "" {
		return fieldError("code", "coupon code is required")
	}
	if err := s.repo.DeleteByCode(ctx, normalized); err != nil {
		if isNotFound(err) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "coupon not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete coupon")
	}
	return nil
}

// Lookup returns the engine view of a coupon, or nil when the code is unknown.
func (s *service) Lookup(ctx context.Context, code string) (*pricing.Coupon, error) {
	normalized := pricing.NormalizeCode(code)
	if normalized == "" {
		return nil, nil
	}
	coupon, err := s.repo.FindByCode(ctx, normalized)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup coupon")
	}
	return toPricing(*coupon), nil
}

func (s *service) find(ctx context.Context, code string) (*models.Coupon, error) {
	normalized := pricing.NormalizeCode(code)
	if normalized == "" {
		return nil, fieldError("code", "coupon code is required")
	}
	coupon, err := s.repo.FindByCode(ctx, normalized)
	if err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "coupon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}
	return coupon, nil
}

func applyUpdate(coupon *models.Coupon, input UpdateCouponInput) error {
	if input.Description != nil {
		coupon.Description = input.Description
	}
	if input.DiscountType != nil {
		discountType, err := enums.ParseDiscountType(*input.DiscountType)
		if err != nil {
			return fieldError("discount_type", err.Error())
		}
		coupon.DiscountType = discountType
	}
	if input.DiscountValue != nil {
		coupon.DiscountValue = *input.DiscountValue
	}
	if input.MinOrderAmount != nil {
		coupon.MinOrderAmount = *input.MinOrderAmount
	}
	switch {
	case input.ClearMaxDiscount:
		coupon.MaxDiscount = nil
	case input.MaxDiscount != nil:
		coupon.MaxDiscount = input.MaxDiscount
	}
	switch {
	case input.ClearUsageLimit:
		coupon.UsageLimit = nil
	case input.UsageLimit != nil:
		coupon.UsageLimit = input.UsageLimit
	}
	if input.ValidFrom != nil {
		coupon.ValidFrom = input.ValidFrom
	}
	if input.ValidUntil != nil {
		coupon.ValidUntil = input.ValidUntil
	}
	if input.IsActive != nil {
		coupon.IsActive = *input.IsActive
	}
	return nil
}

func validCode(raw string) (string, error) {
	code := pricing.NormalizeCode(raw)
	if !codePattern.MatchString(code) {
		return "", fieldError("code", "code must be 3-32 letters, digits, '-' or '_'")
	}
	return code, nil
}

func validateCoupon(c *models.Coupon) error {
	if !c.DiscountType.IsValid() {
		return fieldError("discount_type", fmt.Sprintf("invalid discount type %q", c.DiscountType))
	}
	if !c.DiscountValue.IsPositive() {
		return fieldError("discount_value", "discount value must be positive")
	}
	if c.DiscountType == enums.DiscountTypePercentage && c.DiscountValue.GreaterThan(hundred) {
		return fieldError("discount_value", "percentage discount cannot exceed 100")
	}
	if c.MinOrderAmount.IsNegative() {
		return fieldError("min_order_amount", "minimum order amount must not be negative")
	}
	if c.MaxDiscount != nil && !c.MaxDiscount.IsPositive() {
		return fieldError("max_discount", "max discount must be positive")
	}
	if c.UsageLimit != nil && *c.UsageLimit < 1 {
		return fieldError("usage_limit", "usage limit must be at least 1")
	}
	if c.ValidFrom != nil && c.ValidUntil != nil && c.ValidUntil.Before(*c.ValidFrom) {
		return fieldError("valid_until", "valid_until must not be before valid_from")
	}
	return nil
}

func fieldError(field, msg string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, msg).WithDetails(map[string]any{"field": field})
}
