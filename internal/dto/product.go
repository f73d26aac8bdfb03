package dto

import (
	"encoding/json"
	"time"
)

type ListProductsQuery struct {
	Page     int      `json:"page" validate:"min=1"`
	Limit    int      `json:"limit" validate:"min=1,max=100"`
	Category string   `json:"category" validate:"omitempty,max=191"`
	MinPrice *float64 `json:"minPrice" validate:"omitempty,gte=0"`
	MaxPrice *float64 `json:"maxPrice" validate:"omitempty,gte=0"`
	Sort     string   `json:"sort" validate:"oneof=newest price_asc price_desc popular"`
}

type ProductSummaryDTO struct {
	ID             string            `json:"id"`
	Slug           string            `json:"slug"`
	Name           string            `json:"name"`
	BasePrice      float64           `json:"base_price"`
	CompareAtPrice *float64          `json:"compare_at_price"`
	Brand          *string           `json:"brand"`
	StockQuantity  int               `json:"stock_quantity"`
	ProductImages  []ProductImageDTO `json:"product_images"`
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type ListProductsResponse struct {
	Data       []ProductSummaryDTO `json:"data"`
	Pagination Pagination          `json:"pagination"`
}

type ProductImageDTO struct {
	ID           string  `json:"id,omitempty"`
	StoragePath  string  `json:"storage_path"`
	AltText      *string `json:"alt_text,omitempty"`
	DisplayOrder int     `json:"display_order"`
	IsPrimary    bool    `json:"is_primary"`
}

type ProductVariantDTO struct {
	ID              string          `json:"id"`
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	PriceAdjustment float64         `json:"price_adjustment"`
	StockQuantity   int             `json:"stock_quantity"`
	Attributes      json.RawMessage `json:"attributes"`
}

type ProductDetailDTO struct {
	ID                string              `json:"id"`
	Slug              string              `json:"slug"`
	Name              string              `json:"name"`
	Description       *string             `json:"description"`
	BasePrice         float64             `json:"base_price"`
	CompareAtPrice    *float64            `json:"compare_at_price"`
	Brand             *string             `json:"brand"`
	SKU               string              `json:"sku"`
	StockQuantity     int                 `json:"stock_quantity"`
	IsPublished       bool                `json:"is_published"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
	ProductImages     []ProductImageDTO   `json:"product_images"`
	ProductCategories []CategoryDTO       `json:"product_categories"`
	ProductVariants   []ProductVariantDTO `json:"product_variants"`
}

type SearchQuery struct {
	Q     string `json:"q" validate:"required,min=2,max=100"`
	Limit int    `json:"limit" validate:"min=1,max=50"`
}

type SearchResponse struct {
	Query   string              `json:"query"`
	Results []ProductSummaryDTO `json:"results"`
	Count   int                 `json:"count"`
}

type AutocompleteDTO struct {
	Name  string  `json:"name"`
	Brand *string `json:"brand"`
	Slug  string  `json:"slug"`
}
