package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rimae/rimae-backend/pkg/enums"
)

// Coupon is a promotional code redeemable against a cart's payable total.
type Coupon struct {
	ID             uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code           string             `gorm:"column:code;not null;uniqueIndex:coupons_code_key"`
	Description    *string            `gorm:"column:description"`
	DiscountType   enums.DiscountType `gorm:"column:discount_type;type:discount_type;not null"`
	DiscountValue  decimal.Decimal    `gorm:"column:discount_value;type:numeric(12,2);not null"`
	MinOrderAmount decimal.Decimal    `gorm:"column:min_order_amount;type:numeric(12,2);not null"`
	MaxDiscount    *decimal.Decimal   `gorm:"column:max_discount;type:numeric(12,2)"`
	UsageLimit     *int               `gorm:"column:usage_limit"`
	UsedCount      int                `gorm:"column:used_count;not null"`
	ValidFrom      *time.Time         `gorm:"column:valid_from"`
	ValidUntil     *time.Time         `gorm:"column:valid_until"`
	IsActive       bool               `gorm:"column:is_active;not null"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
