package cart

import (
	"context"
	"strings"
	"time"

	"github.com/rimae/rimae-backend/internal/pricing"
	pkgerrors "github.com/rimae/rimae-backend/pkg/errors"
)

const (
	QuoteSourceCart      = "cart"
	QuoteSourceStateless = "quote"
)

// CouponLookup finds a coupon by its normalized code. A missing coupon is
// (nil, nil), not an error.
type CouponLookup interface {
	Lookup(ctx context.Context, code string) (*pricing.Coupon, error)
}

// ProductResolver turns a product and size into a priced line from the
// catalog, so clients never choose their own unit price.
type ProductResolver interface {
	ResolveLine(ctx context.Context, productID, size string) (pricing.LineItem, error)
}

// Recorder receives pricing outcomes. *metrics.PricingMetrics satisfies it.
type Recorder interface {
	RecordQuote(source string, freeUnits int)
	RecordCouponOutcome(outcome string)
}

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	Store    Store
	Coupons  CouponLookup
	Products ProductResolver
	Limits   Limits
	Metrics  Recorder
	Now      func() time.Time
}

type AddItemInput struct {
	ProductID string
	Size      string
	Quantity  int
}

type UpdateQuantityInput struct {
	ProductID string
	Size      string
	Quantity  int
}

// QuoteInput prices an ad-hoc line list without touching any session.
type QuoteInput struct {
	Lines      []pricing.LineItem
	CouponCode string
}

// Service exposes the session cart operations.
type Service interface {
	Get(ctx context.Context, sessionID string) (View, error)
	AddItem(ctx context.Context, sessionID string, input AddItemInput) (View, error)
	UpdateQuantity(ctx context.Context, sessionID string, input UpdateQuantityInput) (View, error)
	RemoveItem(ctx context.Context, sessionID, productID, size string) (View, error)
	ClearItems(ctx context.Context, sessionID string) (View, error)
	Clear(ctx context.Context, sessionID string) error
	ApplyCoupon(ctx context.Context, sessionID, code string) (View, error)
	RemoveCoupon(ctx context.Context, sessionID string) (View, error)
	Quote(ctx context.Context, input QuoteInput) (View, error)
}

type service struct {
	store    Store
	coupons  CouponLookup
	products ProductResolver
	limits   Limits
	metrics  Recorder
	now      func() time.Time
}

type noopRecorder struct{}

func (noopRecorder) RecordQuote(string, int) {}
func (noopRecorder) RecordCouponOutcome(string) {}

// NewService builds a cart service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart store is required")
	}
	if params.Coupons == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon lookup is required")
	}
	if params.Products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product resolver is required")
	}
	svc := &service{
		store:    params.Store,
		coupons:  params.Coupons,
		products: params.Products,
		limits:   params.Limits,
		metrics:  params.Metrics,
		now:      params.Now,
	}
	if svc.metrics == nil {
		svc.metrics = noopRecorder{}
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	return svc, nil
}

func (s *service) Get(ctx context.Context, sessionID string) (View, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	return s.compose(ctx, c, QuoteSourceCart)
}

// AddItem resolves price and display data from the catalog and merges the
// line into the session cart.
func (s *service) AddItem(ctx context.Context, sessionID string, input AddItemInput) (View, error) {
	if input.Quantity < 1 {
		return View{}, invalidLine("quantity", "quantity must be at least 1")
	}
	line, err := s.products.ResolveLine(ctx, strings.TrimSpace(input.ProductID), strings.TrimSpace(input.Size))
	if err != nil {
		return View{}, err
	}
	line.Quantity = input.Quantity
	return s.mutate(ctx, sessionID, AddItem(line))
}

func (s *service) UpdateQuantity(ctx context.Context, sessionID string, input UpdateQuantityInput) (View, error) {
	key := pricing.LineKey{ProductID: strings.TrimSpace(input.ProductID), VariantKey: strings.TrimSpace(input.Size)}
	return s.mutate(ctx, sessionID, SetQuantity(key, input.Quantity))
}

func (s *service) RemoveItem(ctx context.Context, sessionID, productID, size string) (View, error) {
	key := pricing.LineKey{ProductID: strings.TrimSpace(productID), VariantKey: strings.TrimSpace(size)}
	return s.mutate(ctx, sessionID, RemoveItem(key))
}

// ClearItems empties the line list but keeps an applied coupon code.
func (s *service) ClearItems(ctx context.Context, sessionID string) (View, error) {
	return s.mutate(ctx, sessionID, ClearItems())
}

// Clear drops the whole session cart, coupon included.
func (s *service) Clear(ctx context.Context, sessionID string) error {
	if err := requireSession(sessionID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

// ApplyCoupon attaches code to the cart only when it applies to the current
// contents. A rejected coupon returns a COUPON_REJECTED error and leaves the
// stored cart as it was.
func (s *service) ApplyCoupon(ctx context.Context, sessionID, code string) (View, error) {
	code = pricing.NormalizeCode(code)
	if code == "" {
		return View{}, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required").
			WithDetails(map[string]any{"field": "code"})
	}

	c, err := s.load(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	next := c.WithCoupon(code)
	view, err := s.compose(ctx, next, QuoteSourceCart)
	if err != nil {
		return View{}, err
	}
	if view.Coupon != nil && !view.Coupon.Applied {
		return View{}, pkgerrors.New(pkgerrors.CodeCouponRejected, view.Coupon.Message).
			WithDetails(map[string]any{
				"code":    view.Coupon.Code,
				"reason":  view.Coupon.Reason.String(),
				"message": view.Coupon.Message,
			})
	}

	next.UpdatedAt = s.now().UTC()
	if err := s.save(ctx, sessionID, next); err != nil {
		return View{}, err
	}
	view.UpdatedAt = next.UpdatedAt
	return view, nil
}

func (s *service) RemoveCoupon(ctx context.Context, sessionID string) (View, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	next := c.WithoutCoupon()
	next.UpdatedAt = s.now().UTC()
	if err := s.save(ctx, sessionID, next); err != nil {
		return View{}, err
	}
	return s.compose(ctx, next, QuoteSourceCart)
}

// Quote prices lines supplied by the caller. Lines are validated the same
// way as cart lines and merged by product and size; limits are checked as
// lines are merged so an oversized request fails early.
func (s *service) Quote(ctx context.Context, input QuoteInput) (View, error) {
	var c Cart
	for _, line := range input.Lines {
		next, err := Mutate(c, AddItem(line))
		if err != nil {
			return View{}, err
		}
		if err := s.limits.Check(next); err != nil {
			return View{}, err
		}
		c = next
	}
	if strings.TrimSpace(input.CouponCode) != "" {
		c = c.WithCoupon(input.CouponCode)
	}
	return s.compose(ctx, c, QuoteSourceStateless)
}

func (s *service) mutate(ctx context.Context, sessionID string, op Operation) (View, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	next, err := Mutate(c, op)
	if err != nil {
		return View{}, err
	}
	if err := s.limits.Check(next); err != nil {
		return View{}, err
	}
	next.UpdatedAt = s.now().UTC()
	if err := s.save(ctx, sessionID, next); err != nil {
		return View{}, err
	}
	return s.compose(ctx, next, QuoteSourceCart)
}

func (s *service) compose(ctx context.Context, c Cart, source string) (View, error) {
	var coupon *pricing.Coupon
	if c.CouponCode != "" {
		found, err := s.coupons.Lookup(ctx, c.CouponCode)
		if err != nil {
			if pkgerrors.As(err) != nil {
				return View{}, err
			}
			return View{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup coupon")
		}
		coupon = found
	}

	view := Compose(c, coupon, s.now())
	s.metrics.RecordQuote(source, view.DiscountInfo.FreeItemsCount)
	if view.Coupon != nil {
		outcome := "applied"
		if !view.Coupon.Applied {
			outcome = view.Coupon.Reason.String()
		}
		s.metrics.RecordCouponOutcome(outcome)
	}
	return view, nil
}

func (s *service) load(ctx context.Context, sessionID string) (Cart, error) {
	if err := requireSession(sessionID); err != nil {
		return Cart{}, err
	}
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return Cart{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return c, nil
}

func (s *service) save(ctx context.Context, sessionID string, c Cart) error {
	if err := s.store.Save(ctx, sessionID, c); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}

func requireSession(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return nil
}
