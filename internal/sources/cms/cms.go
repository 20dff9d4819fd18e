// Package cms fetches catalogs from a Sanity dataset over its HTTP query API.
package cms

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/curations/storefront/internal/catalog"
	httpclient "github.com/curations/storefront/internal/http"
)

const (
	// SourceName identifies this source in logs and metrics
	SourceName = "cms"

	// DefaultAPIVersion is the dated API version queries are pinned to
	DefaultAPIVersion = "2023-10-01"

	// ProductsQuery selects one category's products, ordered for display
	ProductsQuery = `*[_type == "product" && category == $category] | order(order asc, _createdAt desc) {
  _id,
  title,
  description,
  price,
  originalPrice,
  offerPrice,
  category,
  badge,
  subcategory,
  availableQuantity,
  order,
  "imageUrl": coalesce(image.asset->url, imageUrl)
}`
)

// Config holds the dataset coordinates
type Config struct {
	ProjectID  string `mapstructure:"project_id"`
	Dataset    string `mapstructure:"dataset"`
	APIVersion string `mapstructure:"api_version"`
	UseCDN     bool   `mapstructure:"use_cdn"`
	Token      string `mapstructure:"token"`
	// BaseURL overrides the project host, e.g. for a proxy
	BaseURL string `mapstructure:"base_url"`
}

// Product is a document as projected by ProductsQuery
type Product struct {
	ID                string         `json:"_id"`
	Title             *string        `json:"title"`
	Description       *string        `json:"description"`
	Price             catalog.Scalar `json:"price"`
	OriginalPrice     catalog.Scalar `json:"originalPrice"`
	OfferPrice        catalog.Scalar `json:"offerPrice"`
	Category          *string        `json:"category"`
	Badge             *string        `json:"badge"`
	Subcategory       *string        `json:"subcategory"`
	AvailableQuantity *int           `json:"availableQuantity"`
	Order             *float64       `json:"order"`
	ImageURL          *string        `json:"imageUrl"`
}

// UnmarshalJSON decodes each field on its own so one malformed field never drops the document
func (p *Product) UnmarshalJSON(data []byte) error {
	f := catalog.DecodeFields(data)
	var id string
	if v := f.Text("_id"); v != nil {
		id = *v
	}
	*p = Product{
		ID:                id,
		Title:             f.Text("title"),
		Description:       f.Text("description"),
		Price:             f.Scalar("price"),
		OriginalPrice:     f.Scalar("originalPrice"),
		OfferPrice:        f.Scalar("offerPrice"),
		Category:          f.Text("category"),
		Badge:             f.Text("badge"),
		Subcategory:       f.Text("subcategory"),
		AvailableQuantity: f.Quantity("availableQuantity"),
		Order:             f.Number("order"),
		ImageURL:          f.Text("imageUrl"),
	}
	return nil
}

// Record maps the document onto the raw record shape shared by all sources
func (p Product) Record() catalog.RawProductRecord {
	return catalog.RawProductRecord{
		ID:                catalog.ScalarOf(p.ID),
		Title:             p.Title,
		Description:       p.Description,
		Price:             p.Price,
		OriginalPrice:     p.OriginalPrice,
		OfferPrice:        p.OfferPrice,
		ImageURL:          p.ImageURL,
		Badge:             p.Badge,
		Subcategory:       p.Subcategory,
		AvailableQuantity: p.AvailableQuantity,
	}
}

type queryResponse struct {
	Ms     int       `json:"ms"`
	Result []Product `json:"result"`
}

// Source queries published products
type Source struct {
	config Config
	client *httpclient.Client
}

// New creates a CMS source
func New(config Config, client *httpclient.Client) *Source {
	config.ProjectID = strings.TrimSpace(config.ProjectID)
	config.Dataset = strings.TrimSpace(config.Dataset)
	if config.APIVersion == "" {
		config.APIVersion = DefaultAPIVersion
	}
	if client == nil {
		client = httpclient.NewClientDefault()
	}
	return &Source{config: config, client: client}
}

// Name implements sources.Source
func (s *Source) Name() string {
	return SourceName
}

// Configured reports whether both project and dataset are set
func (s *Source) Configured() bool {
	return s.config.ProjectID != "" && s.config.Dataset != ""
}

// QueryURL builds the query endpoint for a category
func (s *Source) QueryURL(category catalog.Category) string {
	host := s.config.BaseURL
	if host == "" {
		api := "api"
		if s.config.UseCDN {
			api = "apicdn"
		}
		host = fmt.Sprintf("https://%s.%s.sanity.io", s.config.ProjectID, api)
	}

	params := url.Values{}
	params.Set("query", ProductsQuery)
	params.Set("$category", strconv.Quote(category.String()))
	params.Set("perspective", "published")

	return fmt.Sprintf("%s/v%s/data/query/%s?%s",
		strings.TrimRight(host, "/"),
		strings.TrimPrefix(s.config.APIVersion, "v"),
		url.PathEscape(s.config.Dataset),
		params.Encode(),
	)
}

// Fetch returns the records of one category; an unconfigured source returns none
func (s *Source) Fetch(ctx context.Context, category catalog.Category) ([]catalog.RawProductRecord, error) {
	if !s.Configured() {
		return []catalog.RawProductRecord{}, nil
	}

	header := http.Header{}
	if s.config.Token != "" {
		header.Set("Authorization", "Bearer "+s.config.Token)
	}

	var resp queryResponse
	if err := s.client.GetJSON(ctx, s.QueryURL(category), header, &resp); err != nil {
		return nil, fmt.Errorf("query %s products: %w", category, err)
	}

	records := make([]catalog.RawProductRecord, 0, len(resp.Result))
	for _, p := range resp.Result {
		records = append(records, p.Record())
	}
	return records, nil
}
