package cart

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rimae/rimae-backend/internal/pricing"
	pkgerrors "github.com/rimae/rimae-backend/pkg/errors"
)

// Cart is the session's line list plus the code of an applied coupon.
// Totals and discounts are never stored; Compose derives them.
type Cart struct {
	Lines      []pricing.LineItem
	CouponCode string
	UpdatedAt  time.Time
}

// ItemCount is the total number of units across lines.
func (c Cart) ItemCount() int {
	total := 0
	for _, line := range c.Lines {
		total += line.Quantity
	}
	return total
}

// Subtotal is Σ price × quantity before any promotion.
func (c Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c Cart) indexOf(key pricing.LineKey) int {
	for i, line := range c.Lines {
		if line.Key() == key {
			return i
		}
	}
	return -1
}

// WithCoupon records code as the cart's coupon. Eligibility is evaluated when
// the cart is composed, not here.
func (c Cart) WithCoupon(code string) Cart {
	c.Lines = cloneLines(c.Lines)
	c.CouponCode = pricing.NormalizeCode(code)
	return c
}

// WithoutCoupon drops the applied coupon code.
func (c Cart) WithoutCoupon() Cart {
	c.Lines = cloneLines(c.Lines)
	c.CouponCode = ""
	return c
}

// NewLine validates and normalizes a line before it enters a cart.
func NewLine(line pricing.LineItem) (pricing.LineItem, error) {
	line.ProductID = strings.TrimSpace(line.ProductID)
	line.VariantKey = strings.TrimSpace(line.VariantKey)

	switch {
	case line.ProductID == "":
		return pricing.LineItem{}, invalidLine("product_id", "product id is required")
	case line.VariantKey == "":
		return pricing.LineItem{}, invalidLine("size", "size is required")
	case line.Quantity < 1:
		return pricing.LineItem{}, invalidLine("quantity", "quantity must be at least 1")
	case line.UnitPrice.IsNegative():
		return pricing.LineItem{}, invalidLine("unit_price", "unit price must not be negative")
	}
	return line, nil
}

func invalidLine(field, msg string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, msg).
		WithDetails(map[string]any{"field": field})
}

func cloneLines(lines []pricing.LineItem) []pricing.LineItem {
	if lines == nil {
		return nil
	}
	out := make([]pricing.LineItem, len(lines))
	copy(out, lines)
	return out
}
