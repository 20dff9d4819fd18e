// Package api fetches catalogs from the storefront REST backend.
package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/curations/storefront/internal/catalog"
	httpclient "github.com/curations/storefront/internal/http"
)

// DefaultBaseURL is used when no backend base is configured
const DefaultBaseURL = "http://localhost:4000"

// SourceName identifies this source in logs and metrics
const SourceName = "api"

// AllProducts is the response of the unfiltered products listing
type AllProducts struct {
	Accessories []catalog.RawProductRecord `json:"accessories"`
	Gifts       []catalog.RawProductRecord `json:"gifts"`
}

// ByCategory returns the records of one category
func (a AllProducts) ByCategory(c catalog.Category) []catalog.RawProductRecord {
	switch c {
	case catalog.CategoryAccessories:
		return a.Accessories
	case catalog.CategoryGifts:
		return a.Gifts
	default:
		return nil
	}
}

// Source reads products from GET {base}/products
type Source struct {
	baseURL string
	client  *httpclient.Client
}

// New creates a REST source; an empty base falls back to DefaultBaseURL
func New(baseURL string, client *httpclient.Client) *Source {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = httpclient.NewClientDefault()
	}
	return &Source{baseURL: baseURL, client: client}
}

// Name implements sources.Source
func (s *Source) Name() string {
	return SourceName
}

// BaseURL returns the backend base
func (s *Source) BaseURL() string {
	return s.baseURL
}

// Fetch returns the records of one category
func (s *Source) Fetch(ctx context.Context, category catalog.Category) ([]catalog.RawProductRecord, error) {
	endpoint := fmt.Sprintf("%s/products?%s", s.baseURL, url.Values{"category": {category.String()}}.Encode())

	var records []catalog.RawProductRecord
	if err := s.client.GetJSON(ctx, endpoint, nil, &records); err != nil {
		return nil, fmt.Errorf("fetch %s products: %w", category, err)
	}
	if records == nil {
		records = []catalog.RawProductRecord{}
	}
	return records, nil
}

// FetchAll returns both categories in one request
func (s *Source) FetchAll(ctx context.Context) (AllProducts, error) {
	var all AllProducts
	if err := s.client.GetJSON(ctx, s.baseURL+"/products", nil, &all); err != nil {
		return AllProducts{}, fmt.Errorf("fetch all products: %w", err)
	}
	if all.Accessories == nil {
		all.Accessories = []catalog.RawProductRecord{}
	}
	if all.Gifts == nil {
		all.Gifts = []catalog.RawProductRecord{}
	}
	return all, nil
}
