package domain

// Cart is the session-scoped list of intended purchases. UpdatedAt is in
// Unix milliseconds.
type Cart struct {
	Items     []CartItem `json:"items"`
	UpdatedAt int64      `json:"updatedAt"`
}

type CartItem struct {
	ID        string  `json:"id"`
	ProductID string  `json:"productId"`
	VariantID *string `json:"variantId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     *string `json:"image"`
}

// FindLine returns the index of the line for productID/variantID, or -1.
func (c *Cart) FindLine(productID string, variantID *string) int {
	for i, item := range c.Items {
		if item.ProductID != productID {
			continue
		}
		if variantID == nil && item.VariantID == nil {
			return i
		}
		if variantID != nil && item.VariantID != nil && *variantID == *item.VariantID {
			return i
		}
	}
	return -1
}

// FindItem returns the index of the line with the given id, or -1.
func (c *Cart) FindItem(itemID string) int {
	for i, item := range c.Items {
		if item.ID == itemID {
			return i
		}
	}
	return -1
}

// RemoveItem drops the line with the given id. Missing ids are ignored.
func (c *Cart) RemoveItem(itemID string) {
	kept := c.Items[:0]
	for _, item := range c.Items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	c.Items = kept
}
