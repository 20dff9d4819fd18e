package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/curations/storefront/internal/catalog"
)

// CatalogResponse is one category's filtered products
type CatalogResponse struct {
	Category string            `json:"category" jsonschema:"required,enum=accessories,enum=gifts"`
	Filter   string            `json:"filter" jsonschema:"required"`
	Loading  bool              `json:"loading" jsonschema:"required"`
	Total    int               `json:"total" jsonschema:"required"`
	Products []catalog.Product `json:"products" jsonschema:"required"`
}

// FilterInfo describes one filter option
type FilterInfo struct {
	ID    string `json:"id" jsonschema:"required"`
	Label string `json:"label" jsonschema:"required"`
}

// FiltersResponse lists a category's filters in display order
type FiltersResponse struct {
	Category string       `json:"category" jsonschema:"required"`
	Filters  []FilterInfo `json:"filters" jsonschema:"required"`
}

// GetCatalog returns a category's products after filtering
// @Summary Get catalog
// @Description Returns the products of one category. Unknown filter ids behave like "all".
// @Tags catalog
// @Produce json
// @Param category path string true "Category" Enums(accessories, gifts)
// @Param filter query string false "Filter id" default(all)
// @Success 200 {object} CatalogResponse
// @Failure 404 {object} map[string]string "Unknown category"
// @Router /api/catalog/{category} [get]
func (h *Handler) GetCatalog(c *gin.Context) {
	cat, ok := catalog.ParseCategory(c.Param("category"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown category: " + c.Param("category")})
		return
	}

	view := &catalog.ViewState{
		Category: cat,
		Selected: map[catalog.Category]string{cat: c.DefaultQuery("filter", catalog.FilterAll)},
	}
	sess := h.store.Session(view)
	products := sess.Products()

	c.JSON(http.StatusOK, CatalogResponse{
		Category: cat.String(),
		Filter:   sess.SelectedFilter(),
		Loading:  sess.Loading(),
		Total:    len(products),
		Products: products,
	})
}

// GetFilters lists a category's filters
// @Summary List filters
// @Tags catalog
// @Produce json
// @Param category path string true "Category" Enums(accessories, gifts)
// @Success 200 {object} FiltersResponse
// @Failure 404 {object} map[string]string "Unknown category"
// @Router /api/filters/{category} [get]
func (h *Handler) GetFilters(c *gin.Context) {
	cat, ok := catalog.ParseCategory(c.Param("category"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown category: " + c.Param("category")})
		return
	}

	filters := h.store.Registry().Filters(cat)
	resp := FiltersResponse{Category: cat.String(), Filters: make([]FilterInfo, 0, len(filters))}
	for _, f := range filters {
		resp.Filters = append(resp.Filters, FilterInfo{ID: f.ID, Label: f.Label})
	}
	c.JSON(http.StatusOK, resp)
}
