package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

var errMissingSize = errors.New("size query parameter is required")

type activityRequest struct {
	ProductID string         `json:"productId"`
	Action    string         `json:"action" binding:"required"`
	Data      map[string]any `json:"data"`
}

// ListActivity returns the most recent sessions of the signed-in user.
func (h *Handler) ListActivity(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			invalidRequest(c, err)
			return
		}
		limit = parsed
	}
	userID, _ := currentUser(c)
	events, err := h.activity.Recent(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// RecordActivity stores a client side AR session event.
func (h *Handler) RecordActivity(c *gin.Context) {
	var req activityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	userID, _ := currentUser(c)
	if err := h.activity.Log(c.Request.Context(), userID, req.ProductID, req.Action, req.Data); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}
