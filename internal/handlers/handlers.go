// Package handlers serves the storefront page and its JSON API.
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/curations/storefront/internal/catalog"
	"github.com/curations/storefront/internal/site"
)

// Handler holds the shared catalog store and page renderer
type Handler struct {
	store    *catalog.Store
	renderer *site.Renderer
	source   string
	logger   zerolog.Logger
}

// New creates a Handler. source names the catalog backend for /internal/state.
func New(store *catalog.Store, renderer *site.Renderer, source string, logger zerolog.Logger) *Handler {
	return &Handler{
		store:    store,
		renderer: renderer,
		source:   source,
		logger:   logger.With().Str("component", "handlers").Logger(),
	}
}

// RegisterPublic mounts the page, JSON API and health routes
func (h *Handler) RegisterPublic(router gin.IRouter, api ...gin.HandlerFunc) {
	router.GET("/", h.Page)
	router.GET("/health", h.Health)

	group := router.Group("/api", api...)
	{
		group.GET("/catalog/:category", h.GetCatalog)
		group.GET("/filters/:category", h.GetFilters)
	}
}

// RegisterInternal mounts metrics, docs and state under an already guarded group
func (h *Handler) RegisterInternal(internal gin.IRouter) {
	internal.GET("/health", h.Health)
	internal.GET("/state", h.GetState)
	internal.GET("/metrics", gin.WrapH(promhttp.Handler()))
	internal.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
