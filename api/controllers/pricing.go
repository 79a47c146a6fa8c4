package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/rimae/rimae-backend/api/responses"
	"github.com/rimae/rimae-backend/api/validators"
	"github.com/rimae/rimae-backend/internal/cart"
	"github.com/rimae/rimae-backend/internal/pricing"
	pkgerrors "github.com/rimae/rimae-backend/pkg/errors"
	"github.com/rimae/rimae-backend/pkg/logger"
)

type quoteRequest struct {
	// capped before any pricing work happens; the route is public
	Lines      []quoteLinePayload `json:"lines" validate:"max=100,dive"`
	CouponCode string             `json:"coupon_code" validate:"omitempty,max=64"`
}

type quoteLinePayload struct {
	ProductID string          `json:"product_id" validate:"required,max=64"`
	Size      string          `json:"size" validate:"max=32"`
	Name      string          `json:"name" validate:"max=200"`
	Image     string          `json:"image" validate:"max=500"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity" validate:"required,min=1,max=999"`
}

func (p quoteRequest) toInput() cart.QuoteInput {
	lines := make([]pricing.LineItem, 0, len(p.Lines))
	for _, line := range p.Lines {
		lines = append(lines, pricing.LineItem{
			ProductID:  line.ProductID,
			VariantKey: line.Size,
			Name:       line.Name,
			Image:      line.Image,
			UnitPrice:  line.UnitPrice,
			Quantity:   line.Quantity,
		})
	}
	return cart.QuoteInput{Lines: lines, CouponCode: p.CouponCode}
}

// PricingQuote prices an arbitrary line list without a session. Coupon
// rejections come back inside the quote rather than as an error.
func PricingQuote(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload quoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Quote(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse("", view))
	}
}
