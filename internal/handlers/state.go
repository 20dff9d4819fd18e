package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/curations/storefront/internal/catalog"
)

// StateResponse is the raw store content
type StateResponse struct {
	Source      string                           `json:"source" jsonschema:"required"`
	PriceScheme string                           `json:"priceScheme" jsonschema:"required"`
	Categories  map[string]catalog.CategoryState `json:"categories" jsonschema:"required"`
}

// GetState dumps every category branch, unfiltered
// @Summary Catalog state
// @Tags internal
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} StateResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /internal/state [get]
func (h *Handler) GetState(c *gin.Context) {
	resp := StateResponse{
		Source:      h.source,
		PriceScheme: string(h.store.Registry().Scheme()),
		Categories:  make(map[string]catalog.CategoryState, 2),
	}
	for _, cat := range catalog.Categories() {
		resp.Categories[cat.String()] = h.store.State(cat)
	}
	c.JSON(http.StatusOK, resp)
}
