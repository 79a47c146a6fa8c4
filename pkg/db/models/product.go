package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a fragrance listing. Prices live on its size variants.
type Product struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Slug        string           `gorm:"column:slug;not null;uniqueIndex:products_slug_key"`
	Name        string           `gorm:"column:name;not null"`
	Description *string          `gorm:"column:description"`
	Category    string           `gorm:"column:category;not null"`
	Gender      string           `gorm:"column:gender;not null"`
	ImageURL    *string          `gorm:"column:image_url"`
	IsActive    bool             `gorm:"column:is_active;not null"`
	Variants    []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
