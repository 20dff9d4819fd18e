package catalog

import "strings"

// UntitledName is used for records that carry no usable title
const UntitledName = "Untitled"

// Normalize maps a raw backend record onto the Product view model.
// The record's own identifier is ignored: products are numbered by their
// position in the fetched batch so list keys stay stable between renders.
func Normalize(raw RawProductRecord, positionalFallbackID int) Product {
	product := Product{
		ID:            positionalFallbackID,
		Name:          UntitledName,
		Price:         raw.Price.String(),
		OriginalPrice: raw.OriginalPrice.Ptr(),
		OfferPrice:    raw.OfferPrice.Ptr(),
		Badge:         raw.Badge,
		Subcategory:   raw.Subcategory,
	}

	if raw.Title != nil && strings.TrimSpace(*raw.Title) != "" {
		product.Name = *raw.Title
	}
	if raw.Description != nil {
		product.Desc = *raw.Description
	}
	if raw.ImageURL != nil {
		product.Image = *raw.ImageURL
	}
	if raw.AvailableQuantity != nil && *raw.AvailableQuantity >= 0 {
		qty := *raw.AvailableQuantity
		product.AvailableQuantity = &qty
	}

	return product
}

// NormalizeBatch normalizes records in order, assigning ids 1..n
func NormalizeBatch(records []RawProductRecord) []Product {
	products := make([]Product, 0, len(records))
	for i, raw := range records {
		products = append(products, Normalize(raw, i+1))
	}
	return products
}
