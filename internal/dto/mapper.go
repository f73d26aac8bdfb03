package dto

import (
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

func money(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func optionalMoney(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	v := d.InexactFloat64()
	return &v
}

func NewProductSummary(p domain.Product) ProductSummaryDTO {
	return ProductSummaryDTO{
		ID:             p.ID,
		Slug:           p.Slug,
		Name:           p.Name,
		BasePrice:      money(p.BasePrice),
		CompareAtPrice: optionalMoney(p.CompareAtPrice),
		Brand:          p.Brand,
		StockQuantity:  p.StockQuantity,
		ProductImages:  newImages(p.Images),
	}
}

func NewProductSummaries(products []domain.Product) []ProductSummaryDTO {
	out := make([]ProductSummaryDTO, 0, len(products))
	for _, p := range products {
		out = append(out, NewProductSummary(p))
	}
	return out
}

func NewProductDetail(p domain.Product) ProductDetailDTO {
	variants := make([]ProductVariantDTO, 0, len(p.Variants))
	for _, v := range p.Variants {
		variants = append(variants, ProductVariantDTO{
			ID:              v.ID,
			SKU:             v.SKU,
			Name:            v.Name,
			PriceAdjustment: money(v.PriceAdjustment),
			StockQuantity:   v.StockQuantity,
			Attributes:      v.Attributes,
		})
	}

	return ProductDetailDTO{
		ID:                p.ID,
		Slug:              p.Slug,
		Name:              p.Name,
		Description:       p.Description,
		BasePrice:         money(p.BasePrice),
		CompareAtPrice:    optionalMoney(p.CompareAtPrice),
		Brand:             p.Brand,
		SKU:               p.SKU,
		StockQuantity:     p.StockQuantity,
		IsPublished:       p.IsPublished,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
		ProductImages:     newImages(p.Images),
		ProductCategories: NewCategories(p.Categories),
		ProductVariants:   variants,
	}
}

func newImages(images []domain.ProductImage) []ProductImageDTO {
	out := make([]ProductImageDTO, 0, len(images))
	for _, img := range images {
		out = append(out, NewProductImage(img))
	}
	return out
}

func NewProductImage(img domain.ProductImage) ProductImageDTO {
	return ProductImageDTO{
		ID:           img.ID,
		StoragePath:  img.StoragePath,
		AltText:      img.AltText,
		DisplayOrder: img.DisplayOrder,
		IsPrimary:    img.IsPrimary,
	}
}

func NewCategory(c domain.Category) CategoryDTO {
	return CategoryDTO{
		ID:           c.ID,
		Name:         c.Name,
		Slug:         c.Slug,
		Description:  c.Description,
		ParentID:     c.ParentID,
		DisplayOrder: c.DisplayOrder,
		IsActive:     c.IsActive,
		CreatedAt:    c.CreatedAt,
	}
}

func NewCategories(categories []domain.Category) []CategoryDTO {
	out := make([]CategoryDTO, 0, len(categories))
	for _, c := range categories {
		out = append(out, NewCategory(c))
	}
	return out
}

func NewAdminOrder(o domain.Order) AdminOrderDTO {
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemDTO{
			ID:          it.ID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   money(it.UnitPrice),
			TotalPrice:  money(it.TotalPrice),
		})
	}

	return AdminOrderDTO{
		ID:                   o.ID,
		OrderNumber:          o.OrderNumber,
		Status:               o.Status,
		PaymentStatus:        o.PaymentStatus,
		TotalAmount:          money(o.TotalAmount),
		Currency:             o.Currency,
		ShippingName:         o.ShippingName,
		ShippingEmail:        o.ShippingEmail,
		ShippingPhone:        o.ShippingPhone,
		ShippingAddressLine1: o.ShippingAddressLine1,
		ShippingAddressLine2: o.ShippingAddressLine2,
		ShippingCity:         o.ShippingCity,
		ShippingState:        o.ShippingState,
		ShippingPostalCode:   o.ShippingPostalCode,
		ShippingCountry:      o.ShippingCountry,
		CreatedAt:            o.CreatedAt,
		OrderItems:           items,
	}
}
