package pricing

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FreeUnitsFor returns how many units are free for a cart of totalUnits:
// two for every complete group of four.
func FreeUnitsFor(totalUnits int) int {
	if totalUnits < BundleSize {
		return 0
	}
	return (totalUnits / BundleSize) * FreeUnitsPerBundle
}

// ComputeDiscountAllocation applies the "Buy 2 Get 2 Free" promotion. The
// cheapest units in the cart are the free ones; equal prices keep cart order.
//
// Negative quantities and prices are clamped to zero and the unit total
// saturates rather than overflowing, so the result is always well formed.
// The input slice is not modified.
func ComputeDiscountAllocation(lines []LineItem) Allocation {
	normalized := make([]LineItem, len(lines))
	totalUnits := 0
	for i, line := range lines {
		normalized[i] = clampLine(line)
		totalUnits = addUnits(totalUnits, normalized[i].Quantity)
	}

	free := allocateFree(normalized, FreeUnitsFor(totalUnits))

	out := Allocation{Lines: make([]LineAllocation, len(normalized))}
	summary := DiscountSummary{
		TotalOriginal: decimal.Zero,
		TotalDiscount: decimal.Zero,
	}
	for i, line := range normalized {
		original := line.Subtotal()
		discount := line.UnitPrice.Mul(decimal.NewFromInt(int64(free[i])))
		out.Lines[i] = LineAllocation{
			LineItem:     line,
			PaidQuantity: line.Quantity - free[i],
			FreeQuantity: free[i],
			IsFree:       free[i] > 0,
			LineOriginal: original,
			LinePayable:  original.Sub(discount),
		}
		summary.TotalOriginal = summary.TotalOriginal.Add(original)
		summary.TotalDiscount = summary.TotalDiscount.Add(discount)
		summary.FreeItemsCount += free[i]
	}
	summary.TotalPayable = summary.TotalOriginal.Sub(summary.TotalDiscount)
	summary.DiscountPercentage = DiscountPercentage(summary.TotalDiscount, summary.TotalOriginal)
	out.Summary = summary
	return out
}

// allocateFree hands out freeUnits to lines in ascending price order. Every
// unit of a line shares its price, so granting whole runs per line is the
// same as picking the cheapest units one at a time.
func allocateFree(lines []LineItem, freeUnits int) []int {
	free := make([]int, len(lines))
	if freeUnits == 0 {
		return free
	}

	order := make([]int, len(lines))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return lines[order[a]].UnitPrice.LessThan(lines[order[b]].UnitPrice)
	})

	remaining := freeUnits
	for _, idx := range order {
		if remaining == 0 {
			break
		}
		granted := min(lines[idx].Quantity, remaining)
		free[idx] = granted
		remaining -= granted
	}
	return free
}

// DiscountPercentage is round(discount / original × 100), or 0 when original
// is not positive.
func DiscountPercentage(discount, original decimal.Decimal) int64 {
	if !original.IsPositive() {
		return 0
	}
	return discount.Div(original).Mul(hundred).Round(0).IntPart()
}

// addUnits saturates at math.MaxInt instead of wrapping.
func addUnits(total, n int) int {
	if n > math.MaxInt-total {
		return math.MaxInt
	}
	return total + n
}

func clampLine(line LineItem) LineItem {
	if line.Quantity < 0 {
		line.Quantity = 0
	}
	if line.UnitPrice.IsNegative() {
		line.UnitPrice = decimal.Zero
	}
	return line
}
