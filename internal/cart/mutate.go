package cart

import (
	"fmt"
	"math"

	"github.com/rimae/rimae-backend/internal/pricing"
	pkgerrors "github.com/rimae/rimae-backend/pkg/errors"
)

// OperationKind names a cart mutation.
type OperationKind string

const (
	OpAddItem     OperationKind = "add_item"
	OpRemoveItem  OperationKind = "remove_item"
	OpSetQuantity OperationKind = "set_quantity"
	OpClearItems  OperationKind = "clear_items"
)

// Operation is a single change to a cart's lines. Build one with AddItem,
// RemoveItem, SetQuantity or ClearItems.
type Operation struct {
	Kind     OperationKind
	Line     pricing.LineItem
	Key      pricing.LineKey
	Quantity int
}

func AddItem(line pricing.LineItem) Operation {
	return Operation{Kind: OpAddItem, Line: line}
}

func RemoveItem(key pricing.LineKey) Operation {
	return Operation{Kind: OpRemoveItem, Key: key}
}

// SetQuantity replaces a line's quantity. Zero or less removes the line.
func SetQuantity(key pricing.LineKey, quantity int) Operation {
	return Operation{Kind: OpSetQuantity, Key: key, Quantity: quantity}
}

func ClearItems() Operation {
	return Operation{Kind: OpClearItems}
}

// Mutate applies op to c and returns the new cart. c itself is left as is.
// Adding a line whose product and size are already present increments that
// line's quantity and takes the incoming price, name and image, so a re-add
// picks up the current catalog data. Removing or resizing a line that is not
// in the cart is a no-op.
func Mutate(c Cart, op Operation) (Cart, error) {
	next := c
	next.Lines = cloneLines(c.Lines)

	switch op.Kind {
	case OpAddItem:
		line, err := NewLine(op.Line)
		if err != nil {
			return c, err
		}
		if idx := next.indexOf(line.Key()); idx >= 0 {
			existing := next.Lines[idx].Quantity
			if existing < 0 || line.Quantity > math.MaxInt-existing {
				return c, pkgerrors.New(pkgerrors.CodeValidation, "quantity is too large").
					WithDetails(map[string]any{"field": "quantity", "product_id": line.ProductID, "size": line.VariantKey})
			}
			line.Quantity += existing
			next.Lines[idx] = line
		} else {
			next.Lines = append(next.Lines, line)
		}

	case OpRemoveItem:
		if idx := next.indexOf(op.Key); idx >= 0 {
			next.Lines = append(next.Lines[:idx], next.Lines[idx+1:]...)
		}

	case OpSetQuantity:
		idx := next.indexOf(op.Key)
		if idx < 0 {
			return next, nil
		}
		if op.Quantity <= 0 {
			next.Lines = append(next.Lines[:idx], next.Lines[idx+1:]...)
		} else {
			next.Lines[idx].Quantity = op.Quantity
		}

	case OpClearItems:
		next.Lines = nil

	default:
		return c, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown cart operation %q", op.Kind))
	}
	return next, nil
}

// Limits bounds cart size. Zero values disable a bound; quantities below one
// are always rejected.
type Limits struct {
	MaxLines    int
	MaxQuantity int
}

// Check reports a validation error when c exceeds the limits.
func (l Limits) Check(c Cart) error {
	if l.MaxLines > 0 && len(c.Lines) > l.MaxLines {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("cart cannot hold more than %d lines", l.MaxLines)).
			WithDetails(map[string]any{"field": "lines", "max": l.MaxLines})
	}
	for _, line := range c.Lines {
		if line.Quantity < 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1").
				WithDetails(map[string]any{"field": "quantity", "product_id": line.ProductID, "size": line.VariantKey})
		}
		if l.MaxQuantity > 0 && line.Quantity > l.MaxQuantity {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("quantity cannot exceed %d", l.MaxQuantity)).
				WithDetails(map[string]any{"field": "quantity", "max": l.MaxQuantity, "product_id": line.ProductID, "size": line.VariantKey})
		}
	}
	return nil
}
