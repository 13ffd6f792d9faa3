package models

// WithProduct returns a copy of the cart with one more unit of productID:
// the quantity is incremented when the product is already present, otherwise
// a new item with quantity 1 is appended.
func (c Cart) WithProduct(productID string) Cart {
	items := make([]CartItem, 0, len(c.Items)+1)
	found := false
	for _, item := range c.Items {
		if item.ProductID == productID {
			item.Quantity++
			found = true
		}
		items = append(items, item)
	}
	if !found {
		items = append(items, CartItem{ProductID: productID, Quantity: 1})
	}
	return Cart{Items: items}
}

// Without returns a copy of the cart with every entry for productID removed
// and reports whether anything was removed.
func (c Cart) Without(productID string) (Cart, bool) {
	items := make([]CartItem, 0, len(c.Items))
	removed := false
	for _, item := range c.Items {
		if item.ProductID == productID {
			removed = true
			continue
		}
		items = append(items, item)
	}
	return Cart{Items: items}, removed
}

// IsEmpty reports whether the cart has no items.
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
