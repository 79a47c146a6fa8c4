package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rimae/rimae-backend/internal/repo"
	"github.com/rimae/rimae-backend/pkg/db/models"
)

// ListFilters narrows the product listing. Empty fields match everything.
type ListFilters struct {
	Category string
	Gender   string
}

// Repository reads products and their size variants.
type Repository struct {
	repo.Base
}

func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(conn)}
}

func preloadVariants(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC").Order("size ASC")
}

// ListActive returns active products ordered by name, variants included.
func (r *Repository) ListActive(ctx context.Context, filters ListFilters) ([]models.Product, error) {
	query := r.DB(ctx).
		Model(&models.Product{}).
		Preload("Variants", preloadVariants).
		Where("is_active = ?", true)

	if category := strings.TrimSpace(filters.Category); category != "" {
		query = query.Where("LOWER(category) = ?", strings.ToLower(category))
	}
	if gender := strings.TrimSpace(filters.Gender); gender != "" {
		query = query.Where("LOWER(gender) = ?", strings.ToLower(gender))
	}

	var products []models.Product
	if err := query.Order("name ASC").Order("id ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindBySlug returns gorm.ErrRecordNotFound for unknown or inactive products.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	if err := r.DB(ctx).
		Preload("Variants", preloadVariants).
		Where("slug = ? AND is_active = ?", slug, true).
		First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindVariant loads an active product together with one of its sizes.
func (r *Repository) FindVariant(ctx context.Context, productID uuid.UUID, size string) (*models.Product, *models.ProductVariant, error) {
	var product models.Product
	if err := r.DB(ctx).
		Where("id = ? AND is_active = ?", productID, true).
		First(&product).Error; err != nil {
		return nil, nil, err
	}

	var variant models.ProductVariant
	if err := r.DB(ctx).
		Where("product_id = ? AND LOWER(size) = ?", productID, strings.ToLower(size)).
		First(&variant).Error; err != nil {
		return nil, nil, err
	}
	return &product, &variant, nil
}

// ExistsActive reports whether an active product has id.
func (r *Repository) ExistsActive(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.DB(ctx).
		Model(&models.Product{}).
		Where("id = ? AND is_active = ?", id, true).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
