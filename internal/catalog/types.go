package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
)

// Category identifies one of the two curated collections
type Category string

const (
	CategoryAccessories Category = "accessories"
	CategoryGifts       Category = "gifts"
)

// Categories returns every category in display order
func Categories() []Category {
	return []Category{CategoryAccessories, CategoryGifts}
}

// ParseCategory resolves a slug to a Category
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	return c, c.Valid()
}

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	return c == CategoryAccessories || c == CategoryGifts
}

func (c Category) String() string {
	return string(c)
}

// Scalar is an optional value that backends send either as a JSON string or a JSON number.
// The zero value is absent.
type Scalar struct {
	text    string
	present bool
}

// ScalarOf returns a present Scalar holding s
func ScalarOf(s string) Scalar {
	return Scalar{text: s, present: true}
}

// Present reports whether the value was supplied
func (s Scalar) Present() bool {
	return s.present
}

// String returns the textual form, or "" when absent
func (s Scalar) String() string {
	return s.text
}

// Ptr returns a pointer to the text, or nil when absent
func (s Scalar) Ptr() *string {
	if !s.present {
		return nil
	}
	v := s.text
	return &v
}

// UnmarshalJSON accepts strings, numbers and null
func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = Scalar{}
		return nil
	}

	switch data[0] {
	case '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = ScalarOf(str)
	default:
		var num json.Number
		if err := json.Unmarshal(data, &num); err != nil {
			return fmt.Errorf("scalar must be a string or number: %w", err)
		}
		*s = ScalarOf(num.String())
	}
	return nil
}

// MarshalJSON writes absent values as null and present values as strings
func (s Scalar) MarshalJSON() ([]byte, error) {
	if !s.present {
		return []byte("null"), nil
	}
	return json.Marshal(s.text)
}

// JSONSchema describes the accepted wire forms: string, number or null
func (Scalar) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		AnyOf: []*jsonschema.Schema{
			{Type: "string"},
			{Type: "number"},
			{Type: "null"},
		},
	}
}

// RawProductRecord is a product as returned by a backend, before normalization
type RawProductRecord struct {
	ID                Scalar  `json:"id"`
	Title             *string `json:"title,omitempty"`
	Description       *string `json:"description,omitempty"`
	Price             Scalar  `json:"price"`
	OriginalPrice     Scalar  `json:"originalPrice"`
	OfferPrice        Scalar  `json:"offerPrice"`
	ImageURL          *string `json:"imageUrl,omitempty"`
	Badge             *string `json:"badge,omitempty"`
	Subcategory       *string `json:"subcategory,omitempty"`
	AvailableQuantity *int    `json:"availableQuantity,omitempty"`
}

// Product is the normalized, render-ready view of a product.
// ID is the 1-based position inside the batch it was loaded with.
type Product struct {
	ID                int     `json:"id"`
	Name              string  `json:"name"`
	Desc              string  `json:"desc"`
	Price             string  `json:"price"`
	OriginalPrice     *string `json:"originalPrice,omitempty"`
	OfferPrice        *string `json:"offerPrice,omitempty"`
	Image             string  `json:"image"`
	Badge             *string `json:"badge,omitempty"`
	Subcategory       *string `json:"subcategory,omitempty"`
	AvailableQuantity *int    `json:"availableQuantity,omitempty"`
}

// EffectivePrice returns the display price used for comparisons:
// offerPrice, then originalPrice, then price.
func (p Product) EffectivePrice() string {
	if p.OfferPrice != nil {
		return *p.OfferPrice
	}
	if p.OriginalPrice != nil {
		return *p.OriginalPrice
	}
	return p.Price
}

// EffectiveAmount is EffectivePrice passed through ParsePrice
func (p Product) EffectiveAmount() float64 {
	return ParsePrice(p.EffectivePrice())
}

// StrikePrice returns the price to show struck through next to an offer, if any
func (p Product) StrikePrice() string {
	if p.OfferPrice == nil {
		return ""
	}
	var was string
	if p.OriginalPrice != nil {
		was = *p.OriginalPrice
	} else {
		was = p.Price
	}
	if was == "" || was == *p.OfferPrice {
		return ""
	}
	return was
}

// HasDiscount reports whether an offer price undercuts the regular price
func (p Product) HasDiscount() bool {
	was := p.StrikePrice()
	if was == "" {
		return false
	}
	return ParsePriceOf(p.OfferPrice) < ParsePrice(was)
}

// InStock reports false only when the backend explicitly says nothing is left
func (p Product) InStock() bool {
	return p.AvailableQuantity == nil || *p.AvailableQuantity > 0
}

// HasBadge reports whether a non-empty badge is set
func (p Product) HasBadge() bool {
	return p.Badge != nil && *p.Badge != ""
}

// CategoryState is a snapshot of one category's branch of the store
type CategoryState struct {
	Products         []Product `json:"products"`
	Loading          bool      `json:"loading"`
	SelectedFilterID string    `json:"selectedFilterId,omitempty"`
}
