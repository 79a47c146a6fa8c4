package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rimae/rimae-backend/pkg/db/models"
)

// ProductDTO is the storefront representation of a fragrance.
type ProductDTO struct {
	ID          uuid.UUID    `json:"id"`
	Slug        string       `json:"slug"`
	Name        string       `json:"name"`
	Description *string      `json:"description,omitempty"`
	Category    string       `json:"category"`
	Gender      string       `json:"gender"`
	ImageURL    *string      `json:"image_url,omitempty"`
	Variants    []VariantDTO `json:"variants"`
}

type VariantDTO struct {
	Size  string          `json:"size"`
	Price decimal.Decimal `json:"price"`
}

func toProductDTO(p models.Product) ProductDTO {
	dto := ProductDTO{
		ID:          p.ID,
		Slug:        p.Slug,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Gender:      p.Gender,
		ImageURL:    p.ImageURL,
		Variants:    make([]VariantDTO, 0, len(p.Variants)),
	}
	for _, v := range p.Variants {
		dto.Variants = append(dto.Variants, VariantDTO{Size: v.Size, Price: v.Price})
	}
	return dto
}
