package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rimae/rimae-backend/internal/pricing"
	"github.com/rimae/rimae-backend/pkg/db/models"
	pkgerrors "github.com/rimae/rimae-backend/pkg/errors"
)

// ProductRepository is the read surface the catalog service needs.
type ProductRepository interface {
	ListActive(ctx context.Context, filters ListFilters) ([]models.Product, error)
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	FindVariant(ctx context.Context, productID uuid.UUID, size string) (*models.Product, *models.ProductVariant, error)
	ExistsActive(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service exposes catalog reads and price resolution for the cart.
type Service interface {
	List(ctx context.Context, filters ListFilters) ([]ProductDTO, error)
	GetBySlug(ctx context.Context, slug string) (ProductDTO, error)
	ResolveLine(ctx context.Context, productID, size string) (pricing.LineItem, error)
	ProductExists(ctx context.Context, productID uuid.UUID) (bool, error)
}

type service struct {
	repo ProductRepository
}

func NewService(repo ProductRepository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, filters ListFilters) ([]ProductDTO, error) {
	products, err := s.repo.ListActive(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	out := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		out = append(out, toProductDTO(p))
	}
	return out, nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (ProductDTO, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	product, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return toProductDTO(*product), nil
}

// ResolveLine prices one unit of productID in size from the catalog. The
// returned line has Quantity 0; callers set it.
func (s *service) ResolveLine(ctx context.Context, productID, size string) (pricing.LineItem, error) {
	id, err := uuid.Parse(strings.TrimSpace(productID))
	if err != nil {
		return pricing.LineItem{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id").
			WithDetails(map[string]any{"field": "product_id"})
	}
	size = strings.TrimSpace(size)
	if size == "" {
		return pricing.LineItem{}, pkgerrors.New(pkgerrors.CodeValidation, "size is required").
			WithDetails(map[string]any{"field": "size"})
	}

	product, variant, err := s.repo.FindVariant(ctx, id, size)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pricing.LineItem{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product size not found").
				WithDetails(map[string]any{"product_id": id.String(), "size": size})
		}
		return pricing.LineItem{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product variant")
	}

	line := pricing.LineItem{
		ProductID:  product.ID.String(),
		VariantKey: variant.Size,
		Name:       product.Name,
		UnitPrice:  variant.Price,
	}
	if product.ImageURL != nil {
		line.Image = *product.ImageURL
	}
	return line, nil
}

func (s *service) ProductExists(ctx context.Context, productID uuid.UUID) (bool, error) {
	ok, err := s.repo.ExistsActive(ctx, productID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check product")
	}
	return ok, nil
}
