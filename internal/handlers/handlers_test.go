package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curations/storefront/internal/catalog"
	"github.com/curations/storefront/internal/middleware"
	"github.com/curations/storefront/internal/site"
)

type fixedFetcher map[catalog.Category][]catalog.RawProductRecord

func (f fixedFetcher) FetchProducts(ctx context.Context, c catalog.Category) []catalog.RawProductRecord {
	return f[c]
}

func str(s string) *string { return &s }

func giftsFixture() fixedFetcher {
	return fixedFetcher{
		catalog.CategoryGifts: {
			{Title: str("Rose Bouquet"), Price: catalog.ScalarOf("1999")},
			{Title: str("Gift Box"), Price: catalog.ScalarOf("2600")},
		},
		catalog.CategoryAccessories: {
			{Title: str("Pearl Studs"), Price: catalog.ScalarOf("1200"), Badge: str("New")},
		},
	}
}

func setupRouter(t *testing.T, store *catalog.Store) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	renderer, err := site.NewRenderer(site.Options{
		Title:            "Curations by Amreen",
		Description:      "Elegant handcrafted accessories and bespoke gifts, curated by Amreen.",
		AccessoriesLabel: "EverGlow Accessories",
		GiftsLabel:       "Gifts & Crafts Hub",
		Links:            site.NewLinks("917406785941", "ever_glow_accessories01", "gifts_n_crafts_hub", site.ChannelWhatsApp),
	})
	require.NoError(t, err)

	h := New(store, renderer, "api", zerolog.Nop())
	router := gin.New()
	h.RegisterPublic(router)
	internal := router.Group("/internal", middleware.InternalAuth("s3cret"))
	h.RegisterInternal(internal)
	return router
}

func loadedStore(t *testing.T, f fixedFetcher) *catalog.Store {
	t.Helper()
	store := catalog.NewStore(f, nil)
	store.Load(context.Background())
	return store
}

func get(router *gin.Engine, path string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetCatalog(t *testing.T) {
	router := setupRouter(t, loadedStore(t, giftsFixture()))

	tests := []struct {
		name       string
		path       string
		wantFilter string
		wantNames  []string
	}{
		{"default filter", "/api/catalog/gifts", "all", []string{"Rose Bouquet", "Gift Box"}},
		{"bouquet", "/api/catalog/gifts?filter=bouquet", "bouquet", []string{"Rose Bouquet"}},
		{"premium", "/api/catalog/gifts?filter=premium", "premium", []string{"Gift Box"}},
		{"unknown filter", "/api/catalog/gifts?filter=nope", "all", []string{"Rose Bouquet", "Gift Box"}},
		{"case-insensitive category", "/api/catalog/GIFTS?filter=hampers", "hampers", []string{"Gift Box"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(router, tt.path)
			require.Equal(t, http.StatusOK, w.Code)

			var resp CatalogResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "gifts", resp.Category)
			assert.Equal(t, tt.wantFilter, resp.Filter)
			assert.False(t, resp.Loading)
			assert.Equal(t, len(tt.wantNames), resp.Total)

			names := make([]string, 0, len(resp.Products))
			for _, p := range resp.Products {
				names = append(names, p.Name)
			}
			assert.Equal(t, tt.wantNames, names)
		})
	}
}

func TestGetCatalogUnknownCategory(t *testing.T) {
	router := setupRouter(t, loadedStore(t, giftsFixture()))

	w := get(router, "/api/catalog/shoes")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "unknown category")

	assert.Equal(t, http.StatusNotFound, get(router, "/api/filters/shoes").Code)
}

func TestGetCatalogWhileLoading(t *testing.T) {
	router := setupRouter(t, catalog.NewStore(giftsFixture(), nil))

	w := get(router, "/api/catalog/accessories")
	require.Equal(t, http.StatusOK, w.Code)

	var resp CatalogResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Loading)
	assert.Equal(t, 0, resp.Total)
	assert.NotNil(t, resp.Products)
}

func TestGetFilters(t *testing.T) {
	router := setupRouter(t, loadedStore(t, giftsFixture()))

	w := get(router, "/api/filters/accessories")
	require.Equal(t, http.StatusOK, w.Code)

	var resp FiltersResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	ids := make([]string, 0, len(resp.Filters))
	for _, f := range resp.Filters {
		ids = append(ids, f.ID)
	}
	assert.Equal(t, []string{"all", "featured", "under1500", "premium"}, ids)
	assert.Equal(t, "Under ₹1,500", resp.Filters[2].Label)
}

func TestHealth(t *testing.T) {
	router := setupRouter(t, catalog.NewStore(giftsFixture(), nil))

	w := get(router, "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, map[string]string{"accessories": CatalogLoading, "gifts": CatalogLoading}, resp.Catalog)

	router = setupRouter(t, loadedStore(t, giftsFixture()))
	require.NoError(t, json.Unmarshal(get(router, "/health").Body.Bytes(), &resp))
	assert.Equal(t, map[string]string{"accessories": CatalogLoaded, "gifts": CatalogLoaded}, resp.Catalog)
}

func TestPage(t *testing.T) {
	router := setupRouter(t, loadedStore(t, giftsFixture()))

	w := get(router, "/?category=gifts&gifts=hampers&accessories=featured")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/html"))

	body := w.Body.String()
	assert.Contains(t, body, "Gifts &amp; Crafts Hub</title>")
	assert.Contains(t, body, "Gift Box")
	assert.NotContains(t, body, "Rose Bouquet")
	assert.Contains(t, body, `href="/?accessories=featured&amp;category=accessories&amp;gifts=hampers"`)
}

func TestPageDefaults(t *testing.T) {
	router := setupRouter(t, loadedStore(t, giftsFixture()))

	body := get(router, "/?category=shoes&accessories=bogus").Body.String()
	assert.Contains(t, body, "EverGlow Accessories</title>")
	assert.Contains(t, body, "Pearl Studs")
}

func TestInternalRoutes(t *testing.T) {
	router := setupRouter(t, loadedStore(t, giftsFixture()))

	assert.Equal(t, http.StatusUnauthorized, get(router, "/internal/state").Code)

	w := get(router, "/internal/state", middleware.APIKeyHeader, "s3cret")
	require.Equal(t, http.StatusOK, w.Code)

	var resp StateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "api", resp.Source)
	assert.Equal(t, "cascade", resp.PriceScheme)
	assert.Len(t, resp.Categories["gifts"].Products, 2)
	assert.NotContains(t, w.Body.String(), "selectedFilterId")

	w = get(router, "/internal/metrics", middleware.APIKeyHeader, "s3cret")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestViewFromQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?category=Gifts&gifts=bouquet", nil)

	view := ViewFromQuery(c)
	assert.Equal(t, catalog.CategoryGifts, view.Category)
	assert.Equal(t, "bouquet", view.Selected[catalog.CategoryGifts])
	assert.Equal(t, catalog.FilterAll, view.Selected[catalog.CategoryAccessories])
}
