package coupons

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rimae/rimae-backend/internal/pricing"
	"github.com/rimae/rimae-backend/pkg/db/models"
	"github.com/rimae/rimae-backend/pkg/enums"
)

// CouponDTO is the admin representation of a coupon.
type CouponDTO struct {
	ID             uuid.UUID          `json:"id"`
	Code           string             `json:"code"`
	Description    *string            `json:"description,omitempty"`
	DiscountType   enums.DiscountType `json:"discount_type"`
	DiscountValue  decimal.Decimal    `json:"discount_value"`
	MinOrderAmount decimal.Decimal    `json:"min_order_amount"`
	MaxDiscount    *decimal.Decimal   `json:"max_discount,omitempty"`
	UsageLimit     *int               `json:"usage_limit,omitempty"`
	UsedCount      int                `json:"used_count"`
	ValidFrom      *time.Time         `json:"valid_from,omitempty"`
	ValidUntil     *time.Time         `json:"valid_until,omitempty"`
	IsActive       bool               `json:"is_active"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// CouponPage is one page of the admin coupon list.
type CouponPage struct {
	Items      []CouponDTO `json:"items"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

// CreateCouponInput carries a new coupon. DiscountType is parsed
// case-insensitively.
type CreateCouponInput struct {
	Code           string
	Description    *string
	DiscountType   string
	DiscountValue  decimal.Decimal
	MinOrderAmount decimal.Decimal
	MaxDiscount    *decimal.Decimal
	UsageLimit     *int
	ValidFrom      *time.Time
	ValidUntil     *time.Time
	IsActive       bool
}

// UpdateCouponInput is a partial update; nil fields are left unchanged.
// The Clear* flags reset optional limits to "no limit".
type UpdateCouponInput struct {
	Description      *string
	DiscountType     *string
	DiscountValue    *decimal.Decimal
	MinOrderAmount   *decimal.Decimal
	MaxDiscount      *decimal.Decimal
	ClearMaxDiscount bool
	UsageLimit       *int
	ClearUsageLimit  bool
	ValidFrom        *time.Time
	ValidUntil       *time.Time
	IsActive         *bool
}

func toDTO(m models.Coupon) CouponDTO {
	return CouponDTO{
		ID:             m.ID,
		Code:           m.Code,
		Description:    m.Description,
		DiscountType:   m.DiscountType,
		DiscountValue:  m.DiscountValue,
		MinOrderAmount: m.MinOrderAmount,
		MaxDiscount:    m.MaxDiscount,
		UsageLimit:     m.UsageLimit,
		UsedCount:      m.UsedCount,
		ValidFrom:      m.ValidFrom,
		ValidUntil:     m.ValidUntil,
		IsActive:       m.IsActive,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// toPricing maps the stored row to the value the pricing engine evaluates.
func toPricing(m models.Coupon) *pricing.Coupon {
	return &pricing.Coupon{
		Code:           m.Code,
		DiscountType:   m.DiscountType,
		DiscountValue:  m.DiscountValue,
		MinOrderAmount: m.MinOrderAmount,
		MaxDiscount:    m.MaxDiscount,
		UsageLimit:     m.UsageLimit,
		UsedCount:      m.UsedCount,
		ValidFrom:      m.ValidFrom,
		ValidUntil:     m.ValidUntil,
		IsActive:       m.IsActive,
	}
}
