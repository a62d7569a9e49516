package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/ar-shop/internal/domain/catalog"
)

// ListProducts returns the filtered, sorted catalog.
func (h *Handler) ListProducts(c *gin.Context) {
	var q catalog.Query
	if err := c.ShouldBindQuery(&q); err != nil {
		invalidRequest(c, err)
		return
	}
	listing, err := h.catalog.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// GetProduct returns one product.
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// PersonalizedProducts ranks the catalog with the shopper's saved preferences.
func (h *Handler) PersonalizedProducts(c *gin.Context) {
	var q catalog.Query
	if err := c.ShouldBindQuery(&q); err != nil {
		invalidRequest(c, err)
		return
	}
	userID, email := currentUser(c)
	state, err := h.state.Load(c.Request.Context(), userID, email)
	if err != nil {
		respondError(c, err)
		return
	}
	listing, err := h.catalog.Personalized(c.Request.Context(), state.Preferences.Criteria(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}
