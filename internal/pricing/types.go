package pricing

import (
	"github.com/shopspring/decimal"
)

const (
	// BundleSize is the number of units that make up one "Buy 2 Get 2" bundle.
	BundleSize = 4
	// FreeUnitsPerBundle is how many units of each complete bundle are free.
	FreeUnitsPerBundle = 2
)

// LineKey identifies a cart line. A product in two sizes is two lines.
type LineKey struct {
	ProductID  string
	VariantKey string
}

// LineItem is one product-size entry of a cart. Name and Image are display
// metadata and never influence pricing.
type LineItem struct {
	ProductID  string
	VariantKey string
	Name       string
	Image      string
	UnitPrice  decimal.Decimal
	Quantity   int
}

func (l LineItem) Key() LineKey {
	return LineKey{ProductID: l.ProductID, VariantKey: l.VariantKey}
}

// Subtotal is UnitPrice × Quantity.
func (l LineItem) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// LineAllocation is a line after the bundle promotion has been applied.
// PaidQuantity + FreeQuantity always equals Quantity.
type LineAllocation struct {
	LineItem
	PaidQuantity int
	FreeQuantity int
	IsFree       bool
	LineOriginal decimal.Decimal
	LinePayable  decimal.Decimal
}

// DiscountSummary aggregates the bundle promotion across the cart.
type DiscountSummary struct {
	TotalOriginal      decimal.Decimal
	TotalDiscount      decimal.Decimal
	TotalPayable       decimal.Decimal
	FreeItemsCount     int
	DiscountPercentage int64
}

// Allocation is the output of ComputeDiscountAllocation. Lines keep the
// input order.
type Allocation struct {
	Lines   []LineAllocation
	Summary DiscountSummary
}
