package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// FilterAll is the id of the pass-through filter every category starts with
const FilterAll = "all"

// PriceScheme selects which price fields feed numeric filters
type PriceScheme string

const (
	// PriceSchemeCascade compares offerPrice, then originalPrice, then price
	PriceSchemeCascade PriceScheme = "cascade"
	// PriceSchemeSingle compares the plain price field only
	PriceSchemeSingle PriceScheme = "single"
)

// ParsePriceScheme resolves a config value, defaulting to the cascade
func ParsePriceScheme(s string) PriceScheme {
	if PriceScheme(strings.ToLower(strings.TrimSpace(s))) == PriceSchemeSingle {
		return PriceSchemeSingle
	}
	return PriceSchemeCascade
}

// Amount returns the numeric price of p under the scheme
func (s PriceScheme) Amount(p Product) float64 {
	if s == PriceSchemeSingle {
		return ParsePrice(p.Price)
	}
	return p.EffectiveAmount()
}

// Filter is a named predicate offered as a chip above the grid
type Filter struct {
	ID    string             `json:"id"`
	Label string             `json:"label"`
	Match func(Product) bool `json:"-"`
}

var allFilter = Filter{ID: FilterAll, Label: "All", Match: func(Product) bool { return true }}

// Registry holds the ordered filters of each category.
// Index 0 of every list is the "all" filter.
type Registry struct {
	scheme  PriceScheme
	filters map[Category][]Filter
}

// NewRegistry builds the storefront filters for the given price scheme
func NewRegistry(scheme PriceScheme) *Registry {
	amount := scheme.Amount

	return &Registry{
		scheme: scheme,
		filters: map[Category][]Filter{
			CategoryAccessories: {
				allFilter,
				{ID: "featured", Label: "Featured", Match: Product.HasBadge},
				{ID: "under1500", Label: "Under ₹1,500", Match: func(p Product) bool { return amount(p) <= 1500 }},
				{ID: "premium", Label: "Premium", Match: func(p Product) bool { return amount(p) > 2000 }},
			},
			CategoryGifts: {
				allFilter,
				{ID: "bouquet", Label: "Bouquets", Match: nameContainsAny("bouquet", "bloom", "floral")},
				{ID: "hampers", Label: "Hampers", Match: nameContainsAny("hamper", "basket", "box")},
				{ID: "premium", Label: "Premium", Match: func(p Product) bool { return amount(p) > 2500 }},
			},
		},
	}
}

// Scheme returns the price scheme the numeric filters use
func (r *Registry) Scheme() PriceScheme {
	return r.scheme
}

// Filters returns a copy of the ordered filter list for c
func (r *Registry) Filters(c Category) []Filter {
	list := r.filters[c]
	out := make([]Filter, len(list))
	copy(out, list)
	return out
}

// Lookup returns the filter with the given id, falling back to the category's first filter
func (r *Registry) Lookup(c Category, id string) Filter {
	list := r.filters[c]
	if len(list) == 0 {
		return allFilter
	}
	for _, f := range list {
		if f.ID == id {
			return f
		}
	}
	return list[0]
}

// Resolve returns the id that Lookup would select for id
func (r *Registry) Resolve(c Category, id string) string {
	return r.Lookup(c, id).ID
}

// Apply returns the products matching filter id. The input slice is not modified.
func (r *Registry) Apply(c Category, id string, products []Product) []Product {
	f := r.Lookup(c, id)
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

func nameContainsAny(keywords ...string) func(Product) bool {
	folded := make([]string, len(keywords))
	for i, k := range keywords {
		folded[i] = foldText(k)
	}
	return func(p Product) bool {
		name := foldText(p.Name)
		for _, k := range folded {
			if strings.Contains(name, k) {
				return true
			}
		}
		return false
	}
}

// foldText normalizes width/compatibility forms and case so "BOUQUET" and "ｂｏｕｑｕｅｔ" match "bouquet"
func foldText(s string) string {
	return cases.Fold().String(norm.NFKC.String(s))
}
