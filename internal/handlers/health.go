package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/curations/storefront/internal/catalog"
)

// Catalog load states reported by /health
const (
	CatalogLoaded  = "loaded"
	CatalogLoading = "loading"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string            `json:"status" jsonschema:"required"`
	Catalog map[string]string `json:"catalog" jsonschema:"required"`
}

// Health reports liveness and per-category load state. A category still loading is not an error.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	response := HealthResponse{
		Status:  "ok",
		Catalog: make(map[string]string, 2),
	}
	for _, cat := range catalog.Categories() {
		state := CatalogLoaded
		if h.store.Loading(cat) {
			state = CatalogLoading
		}
		response.Catalog[cat.String()] = state
	}
	c.JSON(http.StatusOK, response)
}
