package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curations/storefront/config"
	"github.com/curations/storefront/internal/catalog"
	"github.com/curations/storefront/internal/http/ratelimit"
	"github.com/curations/storefront/internal/sources"
)

func testConfig(t *testing.T, apiBase string) *config.Config {
	return &config.Config{
		Logging: config.LoggingConfig{Level: "debug", Format: "json"},
		App:     config.AppConfig{Title: "Curations by Amreen"},
		Social: config.SocialConfig{
			AccessoriesLabel: "EverGlow Accessories",
			GiftsLabel:       "Gifts & Crafts Hub",
			WhatsAppNumber:   "917406785941",
		},
		Source:    sources.Config{Kind: "api", APIBase: apiBase},
		Storage:   config.StorageConfig{Type: "local", BasePath: t.TempDir()},
		RateLimit: ratelimit.Config{RequestsPerSecond: 1000, Burst: 10, MaxRetries: 0},
		Catalog:   config.CatalogConfig{PriceScheme: "single"},
	}
}

func TestNewLoadsFromAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("category") {
		case "gifts":
			w.Write([]byte(`[{"title": "Rose Bouquet", "price": "1999"}]`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	var logs bytes.Buffer
	a, err := New(testConfig(t, srv.URL), NewLogger(config.LoggingConfig{Level: "debug", Format: "json"}, &logs))
	require.NoError(t, err)
	assert.Equal(t, "api", a.Source.Name())
	assert.Equal(t, catalog.PriceSchemeSingle, a.Store.Registry().Scheme())

	a.Store.Load(context.Background())

	gifts := a.Store.State(catalog.CategoryGifts)
	assert.False(t, gifts.Loading)
	require.Len(t, gifts.Products, 1)
	assert.Equal(t, "Rose Bouquet", gifts.Products[0].Name)

	accessories := a.Store.State(catalog.CategoryAccessories)
	assert.False(t, accessories.Loading)
	assert.Empty(t, accessories.Products)

	assert.Contains(t, logs.String(), "Failed to fetch products")
	assert.Contains(t, logs.String(), `"service":"storefront"`)
}

func TestNewRejectsUnknownSource(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.Source.Kind = "ftp"
	_, err := New(cfg, zerolog.Nop())
	assert.Error(t, err)
}

func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.LoggingConfig{Level: "warn", Format: "json"}, &buf)
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	logger = NewLogger(config.LoggingConfig{Level: "bogus", Format: "console", NoColor: true}, &buf)
	logger.Info().Msg("console line")
	assert.Contains(t, buf.String(), "console line")
}
