package wishlist

import (
	"context"
	"strings"

	"github.com/google/uuid"

	pkgerrors "github.com/rimae/rimae-backend/pkg/errors"
)

// Store persists wishlist entries per session.
type Store interface {
	Add(ctx context.Context, sessionID, productID string) error
	Remove(ctx context.Context, sessionID, productID string) error
	List(ctx context.Context, sessionID string) ([]string, error)
}

// ProductChecker confirms a product can be saved.
type ProductChecker interface {
	ProductExists(ctx context.Context, productID uuid.UUID) (bool, error)
}

// WishlistDTO lists the product ids saved by a session.
type WishlistDTO struct {
	ProductIDs []string `json:"product_ids"`
}

// Service exposes business rules for wishlist management.
type Service interface {
	Get(ctx context.Context, sessionID string) (WishlistDTO, error)
	AddItem(ctx context.Context, sessionID, productID string) error
	RemoveItem(ctx context.Context, sessionID, productID string) error
}

type service struct {
	store    Store
	products ProductChecker
}

func NewService(store Store, products ProductChecker) (Service, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist store is required")
	}
	if products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product checker is required")
	}
	return &service{store: store, products: products}, nil
}

func (s *service) Get(ctx context.Context, sessionID string) (WishlistDTO, error) {
	if err := requireSession(sessionID); err != nil {
		return WishlistDTO{}, err
	}
	ids, err := s.store.List(ctx, sessionID)
	if err != nil {
		return WishlistDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wishlist")
	}
	if ids == nil {
		ids = []string{}
	}
	return WishlistDTO{ProductIDs: ids}, nil
}

// AddItem ensures the product exists and adds it to the wishlist. Adding a
// saved product again is a no-op.
func (s *service) AddItem(ctx context.Context, sessionID, productID string) error {
	if err := requireSession(sessionID); err != nil {
		return err
	}
	id, err := parseProductID(productID)
	if err != nil {
		return err
	}
	exists, err := s.products.ProductExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err := s.store.Add(ctx, sessionID, id.String()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save wishlist item")
	}
	return nil
}

// RemoveItem drops the wishlist entry regardless of prior state.
func (s *service) RemoveItem(ctx context.Context, sessionID, productID string) error {
	if err := requireSession(sessionID); err != nil {
		return err
	}
	id, err := parseProductID(productID)
	if err != nil {
		return err
	}
	if err := s.store.Remove(ctx, sessionID, id.String()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove wishlist item")
	}
	return nil
}

func parseProductID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id").
			WithDetails(map[string]any{"field": "product_id"})
	}
	return id, nil
}

func requireSession(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return nil
}
