package cart

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rimae/rimae-backend/internal/pricing"
)

// View is everything the storefront renders for a cart: allocated lines, the
// bundle summary, the coupon outcome and the final total.
type View struct {
	Items        []pricing.LineAllocation
	DiscountInfo pricing.DiscountSummary
	// Coupon is nil when no coupon code is attached to the cart.
	Coupon    *pricing.CouponResult
	ItemCount int
	Subtotal  decimal.Decimal
	Total     decimal.Decimal
	UpdatedAt time.Time
}

// Compose runs the pricing engine over c. coupon is the stored coupon for
// c.CouponCode, or nil when it could not be found. The bundle promotion is
// applied first and the coupon is evaluated against what remains payable.
func Compose(c Cart, coupon *pricing.Coupon, now time.Time) View {
	alloc := pricing.ComputeDiscountAllocation(c.Lines)

	view := View{
		Items:        alloc.Lines,
		DiscountInfo: alloc.Summary,
		ItemCount:    c.ItemCount(),
		Subtotal:     alloc.Summary.TotalOriginal,
		Total:        alloc.Summary.TotalPayable,
		UpdatedAt:    c.UpdatedAt,
	}

	if c.CouponCode == "" {
		return view
	}

	result := pricing.ApplyCoupon(alloc.Summary.TotalPayable, coupon, now)
	if result.Code == "" {
		result.Code = pricing.NormalizeCode(c.CouponCode)
	}
	view.Coupon = &result
	view.Total = result.FinalTotal
	return view
}
