package pricing

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rimae/rimae-backend/pkg/enums"
)

// Coupon is the read-only view of a promotional code the engine evaluates.
// Nil pointers mean "no limit" for MaxDiscount and UsageLimit, and an open
// bound for ValidFrom and ValidUntil.
type Coupon struct {
	Code           string
	DiscountType   enums.DiscountType
	DiscountValue  decimal.Decimal
	MinOrderAmount decimal.Decimal
	MaxDiscount    *decimal.Decimal
	UsageLimit     *int
	UsedCount      int
	ValidFrom      *time.Time
	ValidUntil     *time.Time
	IsActive       bool
}

// RejectionReason says why a coupon did not apply.
type RejectionReason string

const (
	ReasonNotFound       RejectionReason = "coupon_not_found"
	ReasonInactive       RejectionReason = "coupon_inactive"
	ReasonNotYetValid    RejectionReason = "coupon_not_yet_valid"
	ReasonExpired        RejectionReason = "coupon_expired"
	ReasonUsageExhausted RejectionReason = "coupon_usage_exhausted"
	ReasonBelowMinimum   RejectionReason = "coupon_below_minimum_order"
)

// AllRejectionReasons lists every reason in validation order.
var AllRejectionReasons = []RejectionReason{
	ReasonNotFound,
	ReasonInactive,
	ReasonNotYetValid,
	ReasonExpired,
	ReasonUsageExhausted,
	ReasonBelowMinimum,
}

func (r RejectionReason) String() string {
	return string(r)
}

// CouponResult is the typed outcome of ApplyCoupon. When Applied is false,
// Reason and Message are set and FinalTotal equals the payable amount.
type CouponResult struct {
	Applied         bool
	Code            string
	DiscountApplied decimal.Decimal
	FinalTotal      decimal.Decimal
	Reason          RejectionReason
	Message         string
}

// NormalizeCode trims and upper-cases a user-entered coupon code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidateCoupon runs the eligibility checks in order and returns the first
// failing reason, or "" when the coupon may be applied to payable at now.
func ValidateCoupon(payable decimal.Decimal, coupon *Coupon, now time.Time) RejectionReason {
	switch {
	case coupon == nil:
		return ReasonNotFound
	case !coupon.IsActive:
		return ReasonInactive
	case coupon.ValidFrom != nil && now.Before(*coupon.ValidFrom):
		return ReasonNotYetValid
	case coupon.ValidUntil != nil && now.After(*coupon.ValidUntil):
		return ReasonExpired
	case coupon.UsageLimit != nil && coupon.UsedCount >= *coupon.UsageLimit:
		return ReasonUsageExhausted
	case payable.LessThan(coupon.MinOrderAmount):
		return ReasonBelowMinimum
	}
	return ""
}

// CouponDiscount computes the raw discount for an eligible coupon: a
// percentage of payable or a fixed value, capped by MaxDiscount and then by
// payable itself. It never returns a negative amount.
func CouponDiscount(payable decimal.Decimal, coupon Coupon) decimal.Decimal {
	if !payable.IsPositive() {
		return decimal.Zero
	}

	var discount decimal.Decimal
	switch coupon.DiscountType {
	case enums.DiscountTypePercentage:
		discount = payable.Mul(coupon.DiscountValue).Div(hundred)
	case enums.DiscountTypeFixed:
		discount = coupon.DiscountValue
	default:
		return decimal.Zero
	}

	if coupon.MaxDiscount != nil && discount.GreaterThan(*coupon.MaxDiscount) {
		discount = *coupon.MaxDiscount
	}
	if discount.GreaterThan(payable) {
		discount = payable
	}
	if discount.IsNegative() {
		return decimal.Zero
	}
	return discount
}

// ApplyCoupon validates coupon against the post-bundle payable amount and,
// when eligible, subtracts its discount. A nil coupon means the code was not
// found. Usage counts are not touched here.
func ApplyCoupon(payable decimal.Decimal, coupon *Coupon, now time.Time) CouponResult {
	code := ""
	if coupon != nil {
		code = NormalizeCode(coupon.Code)
	}

	if reason := ValidateCoupon(payable, coupon, now); reason != "" {
		return CouponResult{
			Code:            code,
			DiscountApplied: decimal.Zero,
			FinalTotal:      payable,
			Reason:          reason,
			Message:         rejectionMessage(reason, coupon),
		}
	}

	discount := CouponDiscount(payable, *coupon)
	return CouponResult{
		Applied:         true,
		Code:            code,
		DiscountApplied: discount,
		FinalTotal:      payable.Sub(discount),
		Message:         fmt.Sprintf("Coupon applied! You save %s", discount.StringFixed(2)),
	}
}

func rejectionMessage(reason RejectionReason, coupon *Coupon) string {
	switch reason {
	case ReasonNotFound:
		return "Invalid coupon code"
	case ReasonInactive:
		return "This coupon is no longer active"
	case ReasonNotYetValid:
		return "This coupon is not valid yet"
	case ReasonExpired:
		return "This coupon has expired"
	case ReasonUsageExhausted:
		return "This coupon has reached its usage limit"
	case ReasonBelowMinimum:
		return fmt.Sprintf("Minimum order amount is %s", coupon.MinOrderAmount.StringFixed(2))
	}
	return "Coupon could not be applied"
}
