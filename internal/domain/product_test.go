package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProduct_CanFulfil(t *testing.T) {
	tests := []struct {
		name     string
		stock    int
		quantity int
		want     bool
	}{
		{name: "enough stock", stock: 5, quantity: 2, want: true},
		{name: "exact stock", stock: 5, quantity: 5, want: true},
		{name: "more than stock", stock: 5, quantity: 6, want: false},
		{name: "out of stock", stock: 0, quantity: 1, want: false},
		{name: "zero quantity", stock: 5, quantity: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Product{StockQuantity: tt.stock}
			assert.Equal(t, tt.want, p.CanFulfil(tt.quantity))
		})
	}
}

func TestProduct_PrimaryImage(t *testing.T) {
	p := Product{}
	assert.Nil(t, p.PrimaryImage())

	p.Images = []ProductImage{
		{StoragePath: "products/a.jpg"},
		{StoragePath: "products/b.jpg", IsPrimary: true},
	}
	img := p.PrimaryImage()
	if assert.NotNil(t, img) {
		assert.Equal(t, "products/b.jpg", *img)
	}
}
