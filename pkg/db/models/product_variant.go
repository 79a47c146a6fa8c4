package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductVariant is a purchasable size of a product, e.g. "50ml".
type ProductVariant struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null;uniqueIndex:product_variants_product_size_key"`
	Size      string          `gorm:"column:size;not null;uniqueIndex:product_variants_product_size_key"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Position  int             `gorm:"column:position;not null"`
}
