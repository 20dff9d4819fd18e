package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curations/storefront/internal/catalog"
	httpclient "github.com/curations/storefront/internal/http"
	"github.com/curations/storefront/internal/http/ratelimit"
)

func testClient() *httpclient.Client {
	return httpclient.NewClient(ratelimit.Config{
		RequestsPerSecond: 1000,
		Burst:             10,
		MaxRetries:        1,
		InitialBackoffMs:  1,
		MaxBackoffMs:      2,
	}, time.Second)
}

func TestFetchByCategory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "gifts", r.URL.Query().Get("category"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": "a1", "title": "Rose Bouquet", "price": "1,999", "badge": "New"},
			{"id": 7, "title": "Gift Box", "price": 2600, "availableQuantity": 3}
		]`))
	}))
	defer srv.Close()

	src := New(srv.URL+"/", testClient())
	records, err := src.Fetch(context.Background(), catalog.CategoryGifts)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Rose Bouquet", *records[0].Title)
	assert.Equal(t, "1,999", records[0].Price.String())
	assert.Equal(t, "2600", records[1].Price.String())
	assert.Equal(t, 3, *records[1].AvailableQuantity)
}

func TestFetchKeepsRecordsWithBadFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"title": "Rose Bouquet", "price": "1200"},
			{"title": "Tulips", "price": "800", "availableQuantity": "3"},
			{"title": "Lilies", "price": "900", "availableQuantity": 2.5},
			{"title": {"en": "Orchid"}, "price": {"amount": 5}, "badge": true, "availableQuantity": "many"}
		]`))
	}))
	defer srv.Close()

	records, err := New(srv.URL, testClient()).Fetch(context.Background(), catalog.CategoryGifts)
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, "Rose Bouquet", *records[0].Title)
	assert.Equal(t, "Tulips", *records[1].Title)
	require.NotNil(t, records[1].AvailableQuantity)
	assert.Equal(t, 3, *records[1].AvailableQuantity)
	assert.Nil(t, records[2].AvailableQuantity)
	assert.Equal(t, "900", records[2].Price.String())

	assert.Nil(t, records[3].Title)
	assert.False(t, records[3].Price.Present())
	assert.Nil(t, records[3].Badge)
	assert.Nil(t, records[3].AvailableQuantity)

	products := catalog.NormalizeBatch(records)
	assert.Equal(t, catalog.UntitledName, products[3].Name)
}

func TestFetchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL, testClient()).Fetch(context.Background(), catalog.CategoryAccessories)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 500")
}

func TestFetchMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "an array"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, testClient()).Fetch(context.Background(), catalog.CategoryAccessories)
	assert.Error(t, err)
}

func TestFetchNullBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`))
	}))
	defer srv.Close()

	records, err := New(srv.URL, testClient()).Fetch(context.Background(), catalog.CategoryAccessories)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestFetchAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		w.Write([]byte(`{"accessories": [{"title": "Pearl Studs"}]}`))
	}))
	defer srv.Close()

	all, err := New(srv.URL, testClient()).FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all.ByCategory(catalog.CategoryAccessories), 1)
	assert.NotNil(t, all.ByCategory(catalog.CategoryGifts))
	assert.Empty(t, all.ByCategory(catalog.CategoryGifts))
	assert.Nil(t, all.ByCategory(catalog.Category("shoes")))
}

func TestNewDefaults(t *testing.T) {
	src := New("  ", nil)
	assert.Equal(t, DefaultBaseURL, src.BaseURL())
	assert.Equal(t, SourceName, src.Name())
}
