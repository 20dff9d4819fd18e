package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/curations/storefront/internal/catalog"
)

// ViewFromQuery reads ?category=&accessories=&gifts= into a view state.
// Anything unrecognised keeps its default.
func ViewFromQuery(c *gin.Context) *catalog.ViewState {
	view := catalog.DefaultViewState()
	if cat, ok := catalog.ParseCategory(c.Query("category")); ok {
		view.Category = cat
	}
	for _, cat := range catalog.Categories() {
		if id := c.Query(cat.String()); id != "" {
			view.Selected[cat] = id
		}
	}
	return view
}

// Page renders the storefront
func (h *Handler) Page(c *gin.Context) {
	sess := h.store.Session(ViewFromQuery(c))

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, sess); err != nil {
		h.logger.Error().Err(err).Str("category", sess.Category().String()).Msg("Failed to render page")
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
