package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID             string
	Slug           string
	Name           string
	Description    *string
	BasePrice      decimal.Decimal
	CompareAtPrice *decimal.Decimal
	Brand          *string
	SKU            string
	StockQuantity  int
	IsPublished    bool
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Images     []ProductImage
	Categories []Category
	Variants   []ProductVariant
}

// ProductFilter selects one page of the public catalog.
type ProductFilter struct {
	Page         int
	Limit        int
	CategorySlug string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	Sort         string
}

// CanFulfil reports whether the current stock covers quantity.
func (p Product) CanFulfil(quantity int) bool {
	return quantity > 0 && quantity <= p.StockQuantity
}

// PrimaryImage returns the storage path of the primary image, if any.
func (p Product) PrimaryImage() *string {
	for _, img := range p.Images {
		if img.IsPrimary {
			path := img.StoragePath
			return &path
		}
	}
	return nil
}

type ProductImage struct {
	ID           string
	ProductID    string
	StoragePath  string
	AltText      *string
	DisplayOrder int
	IsPrimary    bool
	CreatedAt    time.Time
}

type ProductVariant struct {
	ID              string
	ProductID       string
	SKU             string
	Name            string
	PriceAdjustment decimal.Decimal
	StockQuantity   int
	Attributes      json.RawMessage
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
