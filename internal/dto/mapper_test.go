package dto

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

func TestNewProductSummary(t *testing.T) {
	compareAt := decimal.RequireFromString("1499.50")
	p := domain.Product{
		ID:             "p-1",
		Slug:           "cabin",
		Name:           "Cabin",
		BasePrice:      decimal.RequireFromString("999.99"),
		CompareAtPrice: &compareAt,
		StockQuantity:  4,
		Images:         []domain.ProductImage{{StoragePath: "https://cdn/a.jpg", IsPrimary: true}},
	}

	got := NewProductSummary(p)

	assert.Equal(t, 999.99, got.BasePrice)
	require.NotNil(t, got.CompareAtPrice)
	assert.Equal(t, 1499.5, *got.CompareAtPrice)
	require.Len(t, got.ProductImages, 1)
	assert.True(t, got.ProductImages[0].IsPrimary)
}

func TestNewProductDetail_EmptyRelationsAreArrays(t *testing.T) {
	got := NewProductDetail(domain.Product{ID: "p-1", BasePrice: decimal.Zero})

	assert.NotNil(t, got.ProductImages)
	assert.NotNil(t, got.ProductCategories)
	assert.NotNil(t, got.ProductVariants)
	assert.Nil(t, got.CompareAtPrice)
}

func TestNewAdminOrder(t *testing.T) {
	o := domain.Order{
		ID:          "o-1",
		OrderNumber: "LUG-00000001",
		TotalAmount: decimal.NewFromInt(2000),
		Items: []domain.OrderItem{{
			ID: "i-1", ProductName: "Cabin", Quantity: 2,
			UnitPrice: decimal.NewFromInt(1000), TotalPrice: decimal.NewFromInt(2000),
		}},
	}

	got := NewAdminOrder(o)

	assert.Equal(t, 2000.0, got.TotalAmount)
	require.Len(t, got.OrderItems, 1)
	assert.Equal(t, 1000.0, got.OrderItems[0].UnitPrice)
}
